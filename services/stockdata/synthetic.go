package stockdata

import (
	"math"
	"math/rand"
	"time"
)

// Synthetic data defaults
const (
	syntheticBasePrice = 189.0
	syntheticTrend     = 0.0008 // slight upward bias per trading day
)

// SyntheticGenerator produces plausible daily OHLCV bars when no live API
// key is configured. Weekends are skipped like real trading data.
type SyntheticGenerator struct {
	rng *rand.Rand
}

// NewSyntheticGenerator creates a generator with its own random source
func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate produces bars for the last `days` calendar days, oldest first.
// Weekend dates produce no bar, so the result is shorter than `days`.
func (g *SyntheticGenerator) Generate(days int) []DailyBar {
	data := make([]DailyBar, 0, days)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	price := syntheticBasePrice

	for i := days; i > 0; i-- {
		date := today.AddDate(0, 0, -i)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}

		// Daily move in the -3%..+3% range plus the trend bias
		dailyChange := (g.rng.Float64()*2 - 1) * 0.03

		open := price
		closePrice := price * (1 + dailyChange + syntheticTrend)

		intradayRange := math.Abs(closePrice-open) * 1.5
		high := math.Max(open, closePrice) + g.rng.Float64()*intradayRange
		low := math.Min(open, closePrice) - g.rng.Float64()*intradayRange

		// 20M-80M shares
		volume := 20_000_000 + g.rng.Int63n(60_000_000)

		data = append(data, DailyBar{
			Date:   date.Format("2006-01-02"),
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(closePrice),
			Volume: volume,
		})

		price = closePrice
	}

	return data
}
