package metrics

import (
	"fmt"
	"testing"

	"econdash_backend/services/fred"
)

func monthlySeries(values []string) []fred.Observation {
	obs := make([]fred.Observation, 0, len(values))
	for i, v := range values {
		obs = append(obs, fred.Observation{
			Date:  fmt.Sprintf("2024-%02d-01", i+1),
			Value: v,
		})
	}
	return obs
}

func TestYoYChange_ThirteenPoints(t *testing.T) {
	values := make([]string, 13)
	for i := 0; i < 12; i++ {
		values[i] = "100"
	}
	values[12] = "110"

	out := YoYChange(monthlySeries(values))
	if len(out) != 1 {
		t.Fatalf("want 1 point, got %d: %+v", len(out), out)
	}
	if out[0].Value != 10.0 {
		t.Fatalf("want 10.0, got %v", out[0].Value)
	}
	if out[0].Date != "2024-13-01" {
		t.Fatalf("point should carry the current observation's date, got %s", out[0].Date)
	}
}

func TestYoYChange_TooFewPoints(t *testing.T) {
	values := make([]string, 12)
	for i := range values {
		values[i] = "100"
	}

	if out := YoYChange(monthlySeries(values)); len(out) != 0 {
		t.Fatalf("want empty output for 12 points, got %d", len(out))
	}
}

func TestYoYChange_SkipsZeroBaselineAndMalformed(t *testing.T) {
	values := make([]string, 15)
	for i := range values {
		values[i] = "100"
	}
	values[0] = "0"   // zero baseline for point 12
	values[13] = "."  // FRED missing marker, skipped as current value

	out := YoYChange(monthlySeries(values))
	// Point 12 skipped (zero baseline), point 13 skipped (malformed), point
	// 14 survives.
	if len(out) != 1 {
		t.Fatalf("want 1 point, got %d: %+v", len(out), out)
	}
	if out[0].Value != 0.0 {
		t.Fatalf("want 0.0 change, got %v", out[0].Value)
	}
}

func TestYoYChange_Rounding(t *testing.T) {
	values := make([]string, 13)
	for i := range values {
		values[i] = "3"
	}
	values[12] = "3.1"

	out := YoYChange(monthlySeries(values))
	if len(out) != 1 {
		t.Fatalf("want 1 point, got %d", len(out))
	}
	// (3.1-3)/3*100 = 3.333...
	if out[0].Value != 3.33 {
		t.Fatalf("want 3.33, got %v", out[0].Value)
	}
}

func TestTrend_ZeroPrevious(t *testing.T) {
	current := 50.0
	previous := 0.0

	pct, direction := Trend(&current, &previous)
	if pct != nil {
		t.Fatalf("want nil pct on zero baseline, got %v", *pct)
	}
	if direction != TrendNeutral {
		t.Fatalf("want neutral, got %s", direction)
	}
}

func TestTrend_MissingValues(t *testing.T) {
	v := 1.0

	if pct, dir := Trend(nil, &v); pct != nil || dir != TrendNeutral {
		t.Fatalf("want (nil, neutral) for missing current, got (%v, %s)", pct, dir)
	}
	if pct, dir := Trend(&v, nil); pct != nil || dir != TrendNeutral {
		t.Fatalf("want (nil, neutral) for missing previous, got (%v, %s)", pct, dir)
	}
}

func TestTrend_Directions(t *testing.T) {
	cases := []struct {
		name      string
		current   float64
		previous  float64
		wantPct   float64
		direction string
	}{
		{"up", 110, 100, 10.0, TrendUp},
		{"down", 90, 100, -10.0, TrendDown},
		{"flat", 100, 100, 0.0, TrendNeutral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct, direction := Trend(&tc.current, &tc.previous)
			if pct == nil {
				t.Fatalf("want pct, got nil")
			}
			if *pct != tc.wantPct {
				t.Fatalf("want %v, got %v", tc.wantPct, *pct)
			}
			if direction != tc.direction {
				t.Fatalf("want %s, got %s", tc.direction, direction)
			}
		})
	}
}
