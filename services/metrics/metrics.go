// Package metrics holds the pure calculators used by the aggregation
// pipeline and the dashboard endpoints.
package metrics

import (
	"strconv"

	"econdash_backend/services/fred"

	"github.com/shopspring/decimal"
)

// Trend directions
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// Point is a derived (date, value) data point
type Point struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// yoyLag is the number of periods between an observation and its
// year-ago baseline for monthly series.
const yoyLag = 12

// YoYChange computes year-over-year percentage change over an ordered
// monthly series. It needs at least 13 points to emit anything. Observations
// with unparsable values, or a zero baseline, are skipped rather than
// failing the series.
func YoYChange(observations []fred.Observation) []Point {
	if len(observations) <= yoyLag {
		return nil
	}

	result := make([]Point, 0, len(observations)-yoyLag)
	for i := yoyLag; i < len(observations); i++ {
		current, err := strconv.ParseFloat(observations[i].Value, 64)
		if err != nil {
			continue
		}
		baseline, err := strconv.ParseFloat(observations[i-yoyLag].Value, 64)
		if err != nil || baseline == 0 {
			continue
		}

		change := (current - baseline) / baseline * 100
		result = append(result, Point{
			Date:  observations[i].Date,
			Value: Round2(change),
		})
	}

	return result
}

// Trend returns the percentage change from previous to current and its
// direction. Either value missing, or a zero previous value, yields a nil
// percentage and a neutral direction.
func Trend(current, previous *float64) (*float64, string) {
	if current == nil || previous == nil || *previous == 0 {
		return nil, TrendNeutral
	}

	pct := Round2((*current - *previous) / *previous * 100)

	direction := TrendNeutral
	switch {
	case pct > 0:
		direction = TrendUp
	case pct < 0:
		direction = TrendDown
	}

	return &pct, direction
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
