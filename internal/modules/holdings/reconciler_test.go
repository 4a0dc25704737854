package holdings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/clients/yahoo"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/domain"
)

// fakeQuotes is an in-memory QuoteSource that counts fetches per ticker
type fakeQuotes struct {
	mu         sync.Mutex
	quotes     map[string]*yahoo.Quote
	closes     map[string][]float64
	fail       map[string]bool
	quoteCalls map[string]int

	// gate, when set, blocks GetQuote until closed (for coalescing tests)
	gate chan struct{}
}

func newFakeQuotes() *fakeQuotes {
	return &fakeQuotes{
		quotes:     make(map[string]*yahoo.Quote),
		closes:     make(map[string][]float64),
		fail:       make(map[string]bool),
		quoteCalls: make(map[string]int),
	}
}

func (f *fakeQuotes) GetQuote(ctx context.Context, ticker string) (*yahoo.Quote, error) {
	f.mu.Lock()
	f.quoteCalls[ticker]++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[ticker] {
		return nil, yahoo.ErrQuoteUnavailable
	}
	q, ok := f.quotes[ticker]
	if !ok {
		return nil, yahoo.ErrQuoteUnavailable
	}
	return q, nil
}

func (f *fakeQuotes) GetDailyCloses(ctx context.Context, ticker string, lookbackDays int) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[ticker] {
		return nil, yahoo.ErrHistoryUnavailable
	}
	c, ok := f.closes[ticker]
	if !ok {
		return nil, yahoo.ErrHistoryUnavailable
	}
	return c, nil
}

func (f *fakeQuotes) calls(ticker string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quoteCalls[ticker]
}

func TestReconcile_RecomputesValueFromShares(t *testing.T) {
	quotes := newFakeQuotes()
	quotes.quotes["AAPL"] = &yahoo.Quote{
		Ticker:        "AAPL",
		CurrentPrice:  200.00,
		PreviousClose: 190.00,
		DailyChange:   (200.00 - 190.00) / 190.00 * 100,
	}
	quotes.closes["AAPL"] = []float64{195, 198, 200}

	r := NewReconciler(quotes, 30, zerolog.Nop())

	pos := domain.Position{
		Ticker:       "AAPL",
		Class:        domain.ClassEquity,
		Value:        56250,
		CurrentPrice: 187.50,
	}

	res := r.Reconcile(context.Background(), pos)
	require.True(t, res.Fresh)
	require.NoError(t, res.Err)

	// shares = 56250 / 187.50 = 300, newValue = 300 * 200 = 60000
	assert.InDelta(t, 60000, res.Position.Value, 0.001)
	assert.Equal(t, 200.00, res.Position.CurrentPrice)
	assert.InDelta(t, 5.26, res.Position.DailyChange, 0.01)
	assert.Equal(t, []float64{195, 198, 200}, res.Position.HistoricalPrices)
}

func TestReconcile_CashIsNoOp(t *testing.T) {
	quotes := newFakeQuotes()
	r := NewReconciler(quotes, 30, zerolog.Nop())

	pos := domain.Position{
		ID:           "8",
		Ticker:       "CASH",
		Class:        domain.ClassCash,
		Value:        18750,
		CurrentPrice: 1,
		Yield:        1.5,
	}

	res := r.Reconcile(context.Background(), pos)

	assert.True(t, res.Fresh)
	assert.Equal(t, pos, res.Position)
	// No fetch was attempted
	assert.Equal(t, 0, quotes.calls("CASH"))
}

func TestReconcile_FailureKeepsLastKnownValues(t *testing.T) {
	quotes := newFakeQuotes()
	quotes.fail["MSFT"] = true

	r := NewReconciler(quotes, 30, zerolog.Nop())

	pos := domain.Position{
		Ticker:           "MSFT",
		Class:            domain.ClassEquity,
		Value:            45000,
		CurrentPrice:     337.50,
		DailyChange:      0.5,
		HistoricalPrices: []float64{330, 335},
	}

	res := r.Reconcile(context.Background(), pos)

	assert.False(t, res.Fresh)
	assert.True(t, errors.Is(res.Err, yahoo.ErrQuoteUnavailable))
	assert.Equal(t, pos, res.Position)
}

func TestReconcile_HistoryFailureKeepsLastKnownValues(t *testing.T) {
	quotes := newFakeQuotes()
	quotes.quotes["AMZN"] = &yahoo.Quote{Ticker: "AMZN", CurrentPrice: 155, PreviousClose: 153}
	// No closes registered: history fails while the quote succeeds

	r := NewReconciler(quotes, 30, zerolog.Nop())

	pos := domain.Position{
		Ticker:       "AMZN",
		Class:        domain.ClassEquity,
		Value:        37500,
		CurrentPrice: 153.75,
	}

	res := r.Reconcile(context.Background(), pos)

	assert.False(t, res.Fresh)
	assert.True(t, errors.Is(res.Err, yahoo.ErrHistoryUnavailable))
	assert.Equal(t, pos, res.Position)
}
