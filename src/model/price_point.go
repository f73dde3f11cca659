package model

import "time"

// PricePoint is one sample of a historical price series, ordered by
// ascending timestamp.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Symbol    string    `json:"symbol"`
}

var mockBasePrices = map[string]float64{
	"BTC": 45000.0,
	"ETH": 2300.0,
	"SOL": 98.0,
	"XRP": 0.57,
	"ADA": 0.51,
}

// MockSeries returns a deterministic 24h series for chart display when the
// provider has nothing to offer. Unknown symbols get a flat zero series.
func MockSeries(symbol string, now time.Time) []PricePoint {
	base := mockBasePrices[symbol]

	steps := []struct {
		hoursAgo int
		factor   float64
	}{
		{24, 0.98},
		{20, 1.01},
		{16, 0.99},
		{12, 1.02},
		{8, 1.03},
		{4, 0.99},
		{0, 1.0},
	}

	series := make([]PricePoint, 0, len(steps))
	for _, s := range steps {
		series = append(series, PricePoint{
			Timestamp: now.Add(-time.Duration(s.hoursAgo) * time.Hour),
			Price:     base * s.factor,
			Symbol:    symbol,
		})
	}
	return series
}
