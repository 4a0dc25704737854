package holdings

import "github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/domain"

// ReferencePortfolio returns the static position set the dashboard starts
// from. It doubles as the last-resort fallback when no refresh has ever
// succeeded. Values and prices are the reference figures each refresh
// reconciles against; historical prices start empty and are filled by the
// first successful fetch.
func ReferencePortfolio() []domain.Position {
	return []domain.Position{
		{
			ID:            "1",
			Name:          "Apple Inc.",
			Ticker:        "AAPL",
			Class:         domain.ClassEquity,
			Allocation:    15,
			Value:         56250,
			PurchasePrice: 150.25,
			CurrentPrice:  187.50,
			DailyChange:   1.2,
			Sector:        "Technology",
		},
		{
			ID:            "2",
			Name:          "Microsoft Corporation",
			Ticker:        "MSFT",
			Class:         domain.ClassEquity,
			Allocation:    12,
			Value:         45000,
			PurchasePrice: 310.75,
			CurrentPrice:  337.50,
			DailyChange:   0.5,
			Sector:        "Technology",
		},
		{
			ID:            "3",
			Name:          "Amazon.com Inc.",
			Ticker:        "AMZN",
			Class:         domain.ClassEquity,
			Allocation:    10,
			Value:         37500,
			PurchasePrice: 140.50,
			CurrentPrice:  153.75,
			DailyChange:   -0.7,
			Sector:        "Consumer Discretionary",
		},
		{
			ID:            "4",
			Name:          "US Treasury Bond",
			Ticker:        "USTB",
			Class:         domain.ClassFixedIncome,
			Allocation:    20,
			Value:         75000,
			PurchasePrice: 995.50,
			CurrentPrice:  997.25,
			DailyChange:   0.1,
			Maturity:      "10Y",
			Yield:         4.25,
			Rating:        "AAA",
		},
		{
			ID:            "5",
			Name:          "Corporate Bond ETF",
			Ticker:        "CORP",
			Class:         domain.ClassFixedIncome,
			Allocation:    15,
			Value:         56250,
			PurchasePrice: 52.25,
			CurrentPrice:  51.75,
			DailyChange:   -0.3,
			Maturity:      "Various",
			Yield:         5.75,
			Rating:        "BBB",
		},
		{
			ID:            "6",
			Name:          "Municipal Bond Fund",
			Ticker:        "MUNI",
			Class:         domain.ClassFixedIncome,
			Allocation:    8,
			Value:         30000,
			PurchasePrice: 108.75,
			CurrentPrice:  109.50,
			DailyChange:   0.2,
			Maturity:      "Various",
			Yield:         3.85,
			Rating:        "AA",
		},
		{
			ID:            "7",
			Name:          "S&P 500 ETF",
			Ticker:        "SPY",
			Class:         domain.ClassEquity,
			Allocation:    10,
			Value:         37500,
			PurchasePrice: 420.50,
			CurrentPrice:  445.25,
			DailyChange:   0.8,
			Sector:        "Various",
		},
		{
			ID:            "8",
			Name:          "Cash Reserve",
			Ticker:        "CASH",
			Class:         domain.ClassCash,
			Allocation:    5,
			Value:         18750,
			PurchasePrice: 1,
			CurrentPrice:  1,
			DailyChange:   0,
			Yield:         1.5,
		},
		{
			ID:            "9",
			Name:          "Real Estate Investment Trust",
			Ticker:        "REIT",
			Class:         domain.ClassAlternative,
			Allocation:    5,
			Value:         18750,
			PurchasePrice: 85.25,
			CurrentPrice:  87.50,
			DailyChange:   0.6,
			Yield:         4.2,
		},
	}
}
