// Package performance reconstructs the portfolio's daily value series
// from per-position price history.
package performance

import (
	"time"

	talib "github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/domain"
)

// fallbackDays is the length of the synthetic series produced when no
// position carries any price history
const fallbackDays = 30

// Series is the reconstructed portfolio-value series plus derived figures
// for the dashboard chart.
type Series struct {
	Points        []domain.PerformancePoint `json:"points"`
	SMA           []float64                 `json:"sma,omitempty"` // moving-average overlay, aligned to Points
	ChangePercent float64                   `json:"change_percent"`
}

// Builder reconstructs portfolio value over the lookback window
type Builder struct {
	smaPeriod int
	log       zerolog.Logger
}

// NewBuilder creates a performance series builder. smaPeriod controls the
// moving-average overlay; the overlay is omitted when the series is shorter
// than the period.
func NewBuilder(smaPeriod int, log zerolog.Logger) *Builder {
	return &Builder{
		smaPeriod: smaPeriod,
		log:       log.With().Str("service", "performance").Logger(),
	}
}

// Build reconstructs one portfolio value per day in the lookback window,
// bounded by the longest historical series across positions. A position's
// contribution on day d scales its historical close by the ratio of its
// current price to its last historical close; positions with shorter
// series simply do not contribute outside their range. With no history at
// all, a synthetic upward-sloping series anchored at total current value
// is returned as a placeholder.
func (b *Builder) Build(positions []domain.Position, now time.Time) Series {
	days := 0
	for _, pos := range positions {
		if len(pos.HistoricalPrices) > days {
			days = len(pos.HistoricalPrices)
		}
	}

	if days == 0 {
		return b.fallback(positions, now)
	}

	values := make([]float64, days)
	for day := 0; day < days; day++ {
		for _, pos := range positions {
			if day >= len(pos.HistoricalPrices) {
				continue
			}
			last := pos.HistoricalPrices[len(pos.HistoricalPrices)-1]
			if last == 0 || pos.CurrentPrice == 0 {
				continue
			}
			ratio := pos.CurrentPrice / last
			values[day] += pos.HistoricalPrices[day] * ratio * pos.Value / pos.CurrentPrice
		}
	}

	return b.assemble(values, now)
}

// fallback produces the placeholder series: a gentle upward slope ending
// near total current value.
func (b *Builder) fallback(positions []domain.Position, now time.Time) Series {
	totalValue := 0.0
	for _, pos := range positions {
		totalValue += pos.Value
	}

	values := make([]float64, fallbackDays)
	for i := range values {
		values[i] = totalValue * (0.9 + float64(i)*0.01)
	}

	b.log.Debug().Msg("No historical data, using synthetic performance series")

	return b.assemble(values, now)
}

func (b *Builder) assemble(values []float64, now time.Time) Series {
	days := len(values)
	points := make([]domain.PerformancePoint, days)
	for i, v := range values {
		points[i] = domain.PerformancePoint{
			Date:  now.AddDate(0, 0, -(days - 1 - i)),
			Value: v,
		}
	}

	series := Series{
		Points:        points,
		ChangePercent: changePercent(values),
	}

	if b.smaPeriod > 1 && days >= b.smaPeriod {
		series.SMA = talib.Sma(values, b.smaPeriod)
	}

	return series
}

// changePercent computes (last - first) / first * 100, defined as 0 when
// the series is empty or starts at 0.
func changePercent(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	first := values[0]
	last := values[len(values)-1]
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}
