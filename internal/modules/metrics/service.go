// Package metrics derives portfolio-level aggregates and allocation
// breakdowns from the current position set.
package metrics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/domain"
)

// Horizon multipliers applied to the daily figures. This is a modeling
// simplification: longer-horizon changes are scaled from the daily change
// rather than measured independently. Volatility and Sharpe, by contrast,
// come from the reconstructed daily series.
const (
	weeklyScale  = 5.0
	monthlyScale = 22.0
	yearlyScale  = 252.0

	tradingDaysPerYear = 252.0
	riskFreeRate       = 0.02 // annual, for the Sharpe ratio

	// Fallback tenor for fixed-income positions whose maturity field
	// does not parse to a year count ("Various")
	defaultTenorYears = 5.0
)

// Service computes portfolio metrics and allocations
type Service struct {
	log zerolog.Logger
}

// NewService creates a new metrics service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "metrics").Logger(),
	}
}

// Compute derives a PortfolioMetrics snapshot from the position set and
// the reconstructed performance series. It is a pure function of its
// inputs; an empty portfolio yields zeros, never NaN.
func (s *Service) Compute(positions []domain.Position, series []domain.PerformancePoint) domain.PortfolioMetrics {
	totalValue := 0.0
	dailyChange := 0.0
	averageYield := 0.0
	costBasis := 0.0

	for _, pos := range positions {
		totalValue += pos.Value
		dailyChange += pos.Value * pos.DailyChange / 100
		averageYield += pos.Yield * pos.Allocation / 100

		if pos.PurchasePrice > 0 {
			costBasis += pos.Shares() * pos.PurchasePrice
		} else {
			costBasis += pos.Value
		}
	}

	dailyChangePercent := 0.0
	if totalValue > 0 {
		dailyChangePercent = dailyChange / totalValue * 100
	}

	allTimeChange := totalValue - costBasis
	allTimeChangePercent := 0.0
	if costBasis > 0 {
		allTimeChangePercent = allTimeChange / costBasis * 100
	}

	volatility, sharpe := riskFromSeries(series)

	m := domain.PortfolioMetrics{
		TotalValue:           totalValue,
		DailyChange:          dailyChange,
		DailyChangePercent:   dailyChangePercent,
		WeeklyChange:         dailyChange * weeklyScale,
		WeeklyChangePercent:  dailyChangePercent * weeklyScale,
		MonthlyChange:        dailyChange * monthlyScale,
		MonthlyChangePercent: dailyChangePercent * monthlyScale,
		YearlyChange:         dailyChange * yearlyScale,
		YearlyChangePercent:  dailyChangePercent * yearlyScale,
		AllTimeChange:        allTimeChange,
		AllTimeChangePercent: allTimeChangePercent,
		Volatility:           volatility,
		SharpeRatio:          sharpe,
		AverageYield:         averageYield,
	}

	if d, ok := s.duration(positions); ok {
		m.Duration = &d
	}

	return m
}

// Allocation groups total value by asset class. Labels are the
// human-readable class names; percentages are relative to the whole
// portfolio and sum to 100.
func (s *Service) Allocation(positions []domain.Position) []domain.AssetAllocation {
	totalValue := 0.0
	byClass := make(map[domain.AssetClass]float64)
	for _, pos := range positions {
		totalValue += pos.Value
		byClass[pos.Class] += pos.Value
	}

	result := make([]domain.AssetAllocation, 0, len(byClass))
	for class, value := range byClass {
		pct := 0.0
		if totalValue > 0 {
			pct = value / totalValue * 100
		}
		result = append(result, domain.AssetAllocation{
			Type:       classLabel(class),
			Value:      value,
			Percentage: pct,
		})
	}

	// Largest groups first
	sort.Slice(result, func(i, j int) bool {
		return result[i].Value > result[j].Value
	})

	return result
}

// SectorAllocation groups equity value by sector. Percentages are
// relative to total equity value only; equities without a sector are
// excluded from the breakdown entirely.
func (s *Service) SectorAllocation(positions []domain.Position) []domain.SectorAllocation {
	totalEquity := 0.0
	bySector := make(map[string]float64)
	for _, pos := range positions {
		if pos.Class != domain.ClassEquity {
			continue
		}
		totalEquity += pos.Value
		if pos.Sector != "" {
			bySector[pos.Sector] += pos.Value
		}
	}

	result := make([]domain.SectorAllocation, 0, len(bySector))
	for sector, value := range bySector {
		pct := 0.0
		if totalEquity > 0 {
			pct = value / totalEquity * 100
		}
		result = append(result, domain.SectorAllocation{
			Sector:     sector,
			Value:      value,
			Percentage: pct,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Value > result[j].Value
	})

	return result
}

// duration returns the value-weighted average tenor across fixed-income
// positions. It is only meaningful when at least one such position exists.
func (s *Service) duration(positions []domain.Position) (float64, bool) {
	weighted := 0.0
	fixedValue := 0.0
	for _, pos := range positions {
		if pos.Class != domain.ClassFixedIncome {
			continue
		}
		fixedValue += pos.Value
		weighted += pos.Value * tenorYears(pos.Maturity)
	}
	if fixedValue == 0 {
		return 0, false
	}
	return weighted / fixedValue, true
}

// tenorYears parses a maturity tenor like "10Y" into years
func tenorYears(maturity string) float64 {
	trimmed := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(maturity)), "Y")
	if years, err := strconv.ParseFloat(trimmed, 64); err == nil && years > 0 {
		return years
	}
	return defaultTenorYears
}

// classLabel renders an asset class for display: first letter capitalized,
// hyphens replaced with spaces ("fixed-income" -> "Fixed income").
func classLabel(class domain.AssetClass) string {
	s := string(class)
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	return strings.ReplaceAll(s, "-", " ")
}

// riskFromSeries derives the annualized volatility (percent) and Sharpe
// ratio from daily portfolio returns. Both are 0 when the series is too
// short to compute returns.
func riskFromSeries(series []domain.PerformancePoint) (volatility, sharpe float64) {
	if len(series) < 2 {
		return 0, 0
	}

	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Value
		if prev == 0 {
			continue
		}
		returns = append(returns, (series[i].Value-prev)/prev)
	}
	if len(returns) < 2 {
		return 0, 0
	}

	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return 0, 0
	}

	annualizedStd := std * math.Sqrt(tradingDaysPerYear)
	annualizedReturn := mean * tradingDaysPerYear

	volatility = annualizedStd * 100
	sharpe = (annualizedReturn - riskFreeRate) / annualizedStd
	return volatility, sharpe
}
