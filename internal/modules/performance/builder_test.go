package performance

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/domain"
)

func TestBuild_ReconstructsDailyValues(t *testing.T) {
	b := NewBuilder(0, zerolog.Nop())

	// 10 shares at 120, history ends at 110
	positions := []domain.Position{
		{
			Class:            domain.ClassEquity,
			Value:            1200,
			CurrentPrice:     120,
			HistoricalPrices: []float64{100, 110},
		},
	}

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	series := b.Build(positions, now)
	require.Len(t, series.Points, 2)

	// Day 0: 100 * (120/110) * 1200/120 = 1090.909...
	assert.InDelta(t, 1090.909, series.Points[0].Value, 0.001)
	// Day 1 (last): scales to exactly current value
	assert.InDelta(t, 1200, series.Points[1].Value, 0.001)

	// Dates are contiguous and end at now
	assert.Equal(t, now, series.Points[1].Date)
	assert.Equal(t, now.AddDate(0, 0, -1), series.Points[0].Date)

	// (1200 - 1090.909) / 1090.909 * 100 = 10%
	assert.InDelta(t, 10, series.ChangePercent, 0.001)
}

func TestBuild_ShorterSeriesSkipsMissingDays(t *testing.T) {
	b := NewBuilder(0, zerolog.Nop())

	positions := []domain.Position{
		{Class: domain.ClassEquity, Value: 1000, CurrentPrice: 100, HistoricalPrices: []float64{100, 100, 100}},
		// Only two days of history: contributes nothing on day 2
		{Class: domain.ClassEquity, Value: 500, CurrentPrice: 50, HistoricalPrices: []float64{50, 50}},
	}

	series := b.Build(positions, time.Now())
	require.Len(t, series.Points, 3)

	assert.InDelta(t, 1500, series.Points[0].Value, 0.001)
	assert.InDelta(t, 1500, series.Points[1].Value, 0.001)
	assert.InDelta(t, 1000, series.Points[2].Value, 0.001)
}

func TestBuild_FallbackWithoutHistory(t *testing.T) {
	b := NewBuilder(0, zerolog.Nop())

	positions := []domain.Position{
		{Class: domain.ClassCash, Value: 1000, CurrentPrice: 1},
	}

	series := b.Build(positions, time.Now())
	require.Len(t, series.Points, fallbackDays)

	// Synthetic upward slope anchored at total current value
	assert.InDelta(t, 900, series.Points[0].Value, 0.001)
	assert.InDelta(t, 1190, series.Points[len(series.Points)-1].Value, 0.001)
	assert.Greater(t, series.ChangePercent, 0.0)
}

func TestBuild_ZeroFirstValueYieldsZeroChange(t *testing.T) {
	b := NewBuilder(0, zerolog.Nop())

	positions := []domain.Position{
		{Class: domain.ClassEquity, Value: 500, CurrentPrice: 50, HistoricalPrices: []float64{0, 50}},
	}

	series := b.Build(positions, time.Now())
	require.Len(t, series.Points, 2)
	assert.Equal(t, 0.0, series.Points[0].Value)
	assert.Equal(t, 0.0, series.ChangePercent)
}

func TestBuild_SMAOverlay(t *testing.T) {
	b := NewBuilder(2, zerolog.Nop())

	positions := []domain.Position{
		{Class: domain.ClassEquity, Value: 1000, CurrentPrice: 100, HistoricalPrices: []float64{90, 95, 100}},
	}

	series := b.Build(positions, time.Now())
	require.Len(t, series.SMA, len(series.Points))

	// SMA of the last two reconstructed values
	assert.InDelta(t, (series.Points[1].Value+series.Points[2].Value)/2, series.SMA[2], 0.001)
}

func TestBuild_NoSMAWhenSeriesTooShort(t *testing.T) {
	b := NewBuilder(10, zerolog.Nop())

	positions := []domain.Position{
		{Class: domain.ClassEquity, Value: 1000, CurrentPrice: 100, HistoricalPrices: []float64{95, 100}},
	}

	series := b.Build(positions, time.Now())
	assert.Nil(t, series.SMA)
}
