// Package domain contains the core portfolio types. The domain layer is pure:
// no infrastructure dependencies, no I/O.
package domain

import "time"

// AssetClass categorizes a position
type AssetClass string

const (
	ClassEquity      AssetClass = "equity"
	ClassFixedIncome AssetClass = "fixed-income"
	ClassCash        AssetClass = "cash"
	ClassAlternative AssetClass = "alternative"
)

// Position represents a single held investment
type Position struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Ticker           string     `json:"ticker"`
	Class            AssetClass `json:"type"`
	Allocation       float64    `json:"allocation"` // percent of portfolio
	Value            float64    `json:"value"`
	PurchasePrice    float64    `json:"purchase_price"`
	CurrentPrice     float64    `json:"current_price"`
	DailyChange      float64    `json:"daily_change"` // percent
	HistoricalPrices []float64  `json:"historical_prices"`

	// Class-dependent metadata
	Sector   string  `json:"sector,omitempty"`   // equities
	Maturity string  `json:"maturity,omitempty"` // fixed-income tenor, e.g. "10Y"
	Yield    float64 `json:"yield,omitempty"`    // percent
	Rating   string  `json:"rating,omitempty"`   // credit rating
}

// Quoted reports whether the position carries a market quote.
// Cash never does: its price does not move and it is exempt from fetching.
func (p Position) Quoted() bool {
	return p.Class != ClassCash
}

// Shares derives the share count from value and current price.
func (p Position) Shares() float64 {
	if p.CurrentPrice == 0 {
		return 0
	}
	return p.Value / p.CurrentPrice
}

// PortfolioMetrics is a point-in-time snapshot derived from the position set
type PortfolioMetrics struct {
	TotalValue           float64  `json:"total_value"`
	DailyChange          float64  `json:"daily_change"`
	DailyChangePercent   float64  `json:"daily_change_percent"`
	WeeklyChange         float64  `json:"weekly_change"`
	WeeklyChangePercent  float64  `json:"weekly_change_percent"`
	MonthlyChange        float64  `json:"monthly_change"`
	MonthlyChangePercent float64  `json:"monthly_change_percent"`
	YearlyChange         float64  `json:"yearly_change"`
	YearlyChangePercent  float64  `json:"yearly_change_percent"`
	AllTimeChange        float64  `json:"all_time_change"`
	AllTimeChangePercent float64  `json:"all_time_change_percent"`
	Volatility           float64  `json:"volatility"` // annualized, percent
	SharpeRatio          float64  `json:"sharpe_ratio"`
	AverageYield         float64  `json:"average_yield"`      // value-weighted, percent
	Duration             *float64 `json:"duration,omitempty"` // years, only when fixed-income exists
}

// AssetAllocation is a group-by-class projection of portfolio value
type AssetAllocation struct {
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// SectorAllocation is a group-by-sector projection over equity positions only
type SectorAllocation struct {
	Sector     string  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PerformancePoint is one trading day of reconstructed portfolio value
type PerformancePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
