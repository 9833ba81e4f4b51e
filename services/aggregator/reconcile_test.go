package aggregator

import (
	"fmt"
	"testing"

	"econdash_backend/services/fred"
	"econdash_backend/services/metrics"
	"econdash_backend/services/worldbank"
)

func monthlyObservations(n int) []fred.Observation {
	obs := make([]fred.Observation, 0, n)
	for i := 0; i < n; i++ {
		obs = append(obs, fred.Observation{
			Date:  fmt.Sprintf("2024-%02d-01", i+1),
			Value: fmt.Sprintf("%.2f", 4.0+float64(i)*0.1),
		})
	}
	return obs
}

func TestReconcileIndicators_ForwardFillsGlobalGDP(t *testing.T) {
	fedRates := monthlyObservations(3)
	globalGDP := []worldbank.AnnualPoint{
		{Year: 2022, Value: 2.5},
		{Year: 2023, Value: 3.0},
	}

	rows := reconcileIndicators(fedRates, nil, nil, globalGDP)

	// Annual dates carry their own year's value
	if v := rows["2022-12-31"][fieldGlobalGDPGrowth]; v != 2.5 {
		t.Fatalf("2022-12-31: want 2.5, got %v", v)
	}
	if v := rows["2023-12-31"][fieldGlobalGDPGrowth]; v != 3.0 {
		t.Fatalf("2023-12-31: want 3.0, got %v", v)
	}

	// Every other date gets the most recent annual value
	for _, obs := range fedRates {
		v, ok := rows[obs.Date][fieldGlobalGDPGrowth]
		if !ok {
			t.Fatalf("%s: missing forward-filled global GDP", obs.Date)
		}
		if v != 3.0 {
			t.Fatalf("%s: want forward-filled 3.0, got %v", obs.Date, v)
		}
	}
}

func TestReconcileIndicators_MergesFrequencies(t *testing.T) {
	fedRates := []fred.Observation{{Date: "2024-03-01", Value: "5.33"}}
	inflation := []metrics.Point{{Date: "2024-03-01", Value: 3.2}}
	usGDP := []fred.Observation{{Date: "2024-01-01", Value: "1.6"}}

	rows := reconcileIndicators(fedRates, inflation, usGDP, nil)

	march := rows["2024-03-01"]
	if march[fieldFederalFundsRate] != 5.33 {
		t.Fatalf("want fed rate 5.33, got %v", march[fieldFederalFundsRate])
	}
	if march[fieldInflationRate] != 3.2 {
		t.Fatalf("want inflation 3.2, got %v", march[fieldInflationRate])
	}
	if _, ok := march[fieldUSGDPGrowth]; ok {
		t.Fatalf("march should not carry the quarterly GDP value")
	}
	if rows["2024-01-01"][fieldUSGDPGrowth] != 1.6 {
		t.Fatalf("want US GDP 1.6 on 2024-01-01, got %v", rows["2024-01-01"][fieldUSGDPGrowth])
	}
}

func TestAccumulateObservations_SkipsMalformedRows(t *testing.T) {
	obs := monthlyObservations(9)
	obs = append(obs, fred.Observation{Date: "2024-10-01", Value: "."})

	rows := make(indicatorRows)
	accumulateObservations(rows, fieldFederalFundsRate, obs, monthlyWindow)

	if len(rows) != 9 {
		t.Fatalf("want 9 rows, got %d", len(rows))
	}
	if _, ok := rows["2024-10-01"]; ok {
		t.Fatalf("missing-value observation should be skipped")
	}
}

func TestAccumulateObservations_TrimsToWindow(t *testing.T) {
	rows := make(indicatorRows)
	accumulateObservations(rows, fieldFederalFundsRate, monthlyObservations(12), 3)

	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}
	if _, ok := rows["2024-12-01"]; !ok {
		t.Fatalf("trailing window should keep the newest observations")
	}
	if _, ok := rows["2024-01-01"]; ok {
		t.Fatalf("trailing window should drop the oldest observations")
	}
}

func TestIndicatorRows_LastWriteWins(t *testing.T) {
	rows := make(indicatorRows)
	rows.set("2024-03-01", fieldInflationRate, 3.1)
	rows.set("2024-03-01", fieldInflationRate, 3.4)

	if v := rows["2024-03-01"][fieldInflationRate]; v != 3.4 {
		t.Fatalf("want 3.4, got %v", v)
	}
}
