package aggregator

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"econdash_backend/models"
	"econdash_backend/services/fred"
	"econdash_backend/services/metrics"
	"econdash_backend/services/stockdata"
	"econdash_backend/services/worldbank"

	"gorm.io/gorm"
)

// Indicator field names, matching the EconomicIndicator columns
const (
	fieldGlobalGDPGrowth  = "global_gdp_growth"
	fieldUSGDPGrowth      = "us_gdp_growth"
	fieldFederalFundsRate = "federal_funds_rate"
	fieldInflationRate    = "inflation_rate"
)

// Observation windows per series frequency. These bound both API volume and
// how far back a run can rewrite history.
const (
	monthlyWindow   = 12 // rate and inflation series
	quarterlyWindow = 8  // US GDP
	annualWindow    = 5  // global GDP
)

const dateLayout = "2006-01-02"

// indicatorRows maps a date string to the sparse set of field values
// reported for that date in the current run.
type indicatorRows map[string]map[string]float64

func (rows indicatorRows) set(date, field string, value float64) {
	if _, ok := rows[date]; !ok {
		rows[date] = make(map[string]float64)
	}
	// Last write wins when a date/field repeats within a run
	rows[date][field] = value
}

// accumulateObservations parses the trailing `window` observations of a raw
// series into the accumulator. Entries with an unparsable date or value
// (FRED reports missing points as ".") are skipped, not fatal.
func accumulateObservations(rows indicatorRows, field string, observations []fred.Observation, window int) {
	if len(observations) > window {
		observations = observations[len(observations)-window:]
	}

	for _, obs := range observations {
		if _, err := time.Parse(dateLayout, obs.Date); err != nil {
			continue
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		rows.set(obs.Date, field, value)
	}
}

// accumulatePoints adds already-derived points (e.g. CPI YoY) to the
// accumulator, with the same trailing window.
func accumulatePoints(rows indicatorRows, field string, points []metrics.Point, window int) {
	if len(points) > window {
		points = points[len(points)-window:]
	}

	for _, p := range points {
		if _, err := time.Parse(dateLayout, p.Date); err != nil {
			continue
		}
		rows.set(p.Date, field, p.Value)
	}
}

// accumulateGlobalGDP adds the trailing annual global GDP points (dated
// Dec 31 of their year) and then forward-fills the most recent annual value
// onto every accumulated date that lacks one. The fill keeps the GDP line
// continuous on charts driven by higher-frequency series, at the cost of an
// annual figure labelling many unrelated dates.
func accumulateGlobalGDP(rows indicatorRows, points []worldbank.AnnualPoint) {
	if len(points) == 0 {
		return
	}

	// Latest value across everything fetched, by year
	sorted := make([]worldbank.AnnualPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year > sorted[j].Year })
	latestValue := sorted[0].Value

	trailing := points
	if len(trailing) > annualWindow {
		trailing = trailing[len(trailing)-annualWindow:]
	}
	for _, p := range trailing {
		date := time.Date(p.Year, time.December, 31, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		rows.set(date, fieldGlobalGDPGrowth, p.Value)
	}

	for date := range rows {
		if _, ok := rows[date][fieldGlobalGDPGrowth]; !ok {
			rows[date][fieldGlobalGDPGrowth] = latestValue
		}
	}
}

// reconcileIndicators merges the raw series of differing frequency into one
// sparse field map per date.
func reconcileIndicators(
	fedRates []fred.Observation,
	inflation []metrics.Point,
	usGDP []fred.Observation,
	globalGDP []worldbank.AnnualPoint,
) indicatorRows {
	rows := make(indicatorRows)

	accumulateObservations(rows, fieldFederalFundsRate, fedRates, monthlyWindow)
	accumulatePoints(rows, fieldInflationRate, inflation, monthlyWindow)
	accumulateObservations(rows, fieldUSGDPGrowth, usGDP, quarterlyWindow)
	accumulateGlobalGDP(rows, globalGDP)

	return rows
}

// upsertIndicators writes the accumulated rows. Existing records get a
// field-level merge: only the fields present in the accumulator are
// overwritten and the rest keep their stored values, so re-running with the
// same input is idempotent and a field is never cleared back to null.
func upsertIndicators(tx *gorm.DB, rows indicatorRows) (int, error) {
	count := 0
	for dateStr, fields := range rows {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			continue
		}

		var existing models.EconomicIndicator
		err = tx.Where("date = ?", date).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{"updated_at": time.Now().UTC()}
			for field, value := range fields {
				updates[field] = value
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return count, fmt.Errorf("failed to update indicator for %s: %w", dateStr, err)
			}
		case err == gorm.ErrRecordNotFound:
			record := models.EconomicIndicator{Date: date}
			for field, value := range fields {
				v := value
				switch field {
				case fieldGlobalGDPGrowth:
					record.GlobalGDPGrowth = &v
				case fieldUSGDPGrowth:
					record.USGDPGrowth = &v
				case fieldFederalFundsRate:
					record.FederalFundsRate = &v
				case fieldInflationRate:
					record.InflationRate = &v
				}
			}
			if err := tx.Create(&record).Error; err != nil {
				return count, fmt.Errorf("failed to create indicator for %s: %w", dateStr, err)
			}
		default:
			return count, fmt.Errorf("failed to look up indicator for %s: %w", dateStr, err)
		}

		count++
	}

	return count, nil
}

// upsertStockData writes daily bars with full-row replace semantics: stock
// rows always arrive complete, so a conflict overwrites every price field.
// The market cap is always recomputed from the same day's close. Bars with
// an unparsable date are skipped with a warning.
func upsertStockData(tx *gorm.DB, bars []stockdata.DailyBar, sharesOutstanding float64) (int, error) {
	count := 0
	for _, bar := range bars {
		date, err := time.Parse(dateLayout, bar.Date)
		if err != nil {
			log.Printf("Skipping invalid stock bar %q: %v", bar.Date, err)
			continue
		}

		marketCap := metrics.Round2(bar.Close * sharesOutstanding)

		var existing models.StockData
		err = tx.Where("date = ?", date).First(&existing).Error
		switch {
		case err == nil:
			existing.OpenPrice = bar.Open
			existing.ClosePrice = bar.Close
			existing.HighPrice = bar.High
			existing.LowPrice = bar.Low
			existing.Volume = bar.Volume
			existing.MarketCap = marketCap
			existing.UpdatedAt = time.Now().UTC()
			if err := tx.Save(&existing).Error; err != nil {
				return count, fmt.Errorf("failed to update stock data for %s: %w", bar.Date, err)
			}
		case err == gorm.ErrRecordNotFound:
			record := models.StockData{
				Date:       date,
				OpenPrice:  bar.Open,
				ClosePrice: bar.Close,
				HighPrice:  bar.High,
				LowPrice:   bar.Low,
				Volume:     bar.Volume,
				MarketCap:  marketCap,
			}
			if err := tx.Create(&record).Error; err != nil {
				return count, fmt.Errorf("failed to create stock data for %s: %w", bar.Date, err)
			}
		default:
			return count, fmt.Errorf("failed to look up stock data for %s: %w", bar.Date, err)
		}

		count++
	}

	return count, nil
}
