package holdings

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/clients/yahoo"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/domain"
)

// QuoteSource is the market-data capability the reconciler depends on
type QuoteSource interface {
	GetQuote(ctx context.Context, ticker string) (*yahoo.Quote, error)
	GetDailyCloses(ctx context.Context, ticker string, lookbackDays int) ([]float64, error)
}

// Result is the outcome of reconciling one position. When Fresh is false
// the position carries its last-known values and Err holds the reason,
// letting callers tell fresh data from stale-due-to-error data.
type Result struct {
	Position domain.Position
	Fresh    bool
	Err      error
}

// Reconciler refreshes a position's valuation fields from a live quote
type Reconciler struct {
	quotes       QuoteSource
	lookbackDays int
	log          zerolog.Logger
}

// NewReconciler creates a new position reconciler
func NewReconciler(quotes QuoteSource, lookbackDays int, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		quotes:       quotes,
		lookbackDays: lookbackDays,
		log:          log.With().Str("service", "reconciler").Logger(),
	}
}

// Reconcile refreshes a single position from the quote source.
//
// Cash positions are returned unchanged without any fetch: they have no
// market price. For everything else the share count is derived from the
// pre-update price (shares = value / currentPrice) and the value is
// recomputed at the new price, so value never goes stale relative to price.
//
// A quote or history failure is absorbed here: the position is returned
// unchanged with Fresh=false so one bad ticker cannot abort the rest of
// the batch.
func (r *Reconciler) Reconcile(ctx context.Context, pos domain.Position) Result {
	if !pos.Quoted() {
		return Result{Position: pos, Fresh: true}
	}

	quote, err := r.quotes.GetQuote(ctx, pos.Ticker)
	if err != nil {
		r.log.Warn().Err(err).
			Str("ticker", pos.Ticker).
			Str("operation", "quote").
			Msg("Quote fetch failed, keeping last-known values")
		return Result{Position: pos, Err: err}
	}

	closes, err := r.quotes.GetDailyCloses(ctx, pos.Ticker, r.lookbackDays)
	if err != nil {
		r.log.Warn().Err(err).
			Str("ticker", pos.Ticker).
			Str("operation", "history").
			Msg("History fetch failed, keeping last-known values")
		return Result{Position: pos, Err: err}
	}

	shares := pos.Shares()

	updated := pos
	updated.CurrentPrice = quote.CurrentPrice
	updated.DailyChange = quote.DailyChange
	updated.HistoricalPrices = closes
	updated.Value = shares * quote.CurrentPrice

	return Result{Position: updated, Fresh: true}
}
