package controllers

import (
	"net/http"
	"time"

	"econdash_backend/models"
	"econdash_backend/services/metrics"
	"econdash_backend/services/stockdata"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// KPIMetric is one dashboard KPI with its trend against the previous value
type KPIMetric struct {
	Name           string   `json:"name"`
	Value          *float64 `json:"value"`
	Unit           string   `json:"unit"`
	Trend          *float64 `json:"trend"`
	TrendDirection string   `json:"trend_direction"`
}

// DashboardController serves the aggregated dashboard views
type DashboardController struct {
	db     *gorm.DB
	stocks *stockdata.Service
}

// NewDashboardController creates a dashboard controller
func NewDashboardController(db *gorm.DB, stocks *stockdata.Service) *DashboardController {
	return &DashboardController{db: db, stocks: stocks}
}

// indicatorValue extracts the named metric column from a record
func indicatorValue(record *models.EconomicIndicator, column string) *float64 {
	if record == nil {
		return nil
	}
	switch column {
	case "global_gdp_growth":
		return record.GlobalGDPGrowth
	case "us_gdp_growth":
		return record.USGDPGrowth
	case "federal_funds_rate":
		return record.FederalFundsRate
	case "inflation_rate":
		return record.InflationRate
	}
	return nil
}

// latestIndicator returns the newest record where the column is non-null,
// and the newest older one for trend comparison. Metrics arrive at
// different frequencies, so each column is resolved independently.
func (dc *DashboardController) latestIndicator(column string) (latest, previous *models.EconomicIndicator) {
	var first models.EconomicIndicator
	if err := dc.db.Where(column + " IS NOT NULL").Order("date DESC").First(&first).Error; err != nil {
		return nil, nil
	}

	var second models.EconomicIndicator
	err := dc.db.Where(column+" IS NOT NULL AND date < ?", first.Date).
		Order("date DESC").First(&second).Error
	if err != nil {
		return &first, nil
	}
	return &first, &second
}

// GetSummary returns the complete dashboard summary with all KPIs
// GET /api/dashboard/summary
func (dc *DashboardController) GetSummary(c *gin.Context) {
	kpis := []KPIMetric{}

	type indicatorKPI struct {
		name   string
		column string
	}
	for _, def := range []indicatorKPI{
		{"Global GDP Growth", "global_gdp_growth"},
		{"Federal Funds Rate", "federal_funds_rate"},
		{"Inflation Rate", "inflation_rate"},
	} {
		latest, previous := dc.latestIndicator(def.column)
		if latest == nil {
			continue
		}
		current := indicatorValue(latest, def.column)
		trend, direction := metrics.Trend(current, indicatorValue(previous, def.column))
		kpis = append(kpis, KPIMetric{
			Name:           def.name,
			Value:          current,
			Unit:           "%",
			Trend:          trend,
			TrendDirection: direction,
		})
	}

	var latestStock, previousStock models.StockData
	haveStock := dc.db.Order("date DESC").First(&latestStock).Error == nil
	havePrevious := haveStock && dc.db.Where("date < ?", latestStock.Date).
		Order("date DESC").First(&previousStock).Error == nil

	if haveStock {
		var prevClose, prevCap *float64
		if havePrevious {
			prevClose = &previousStock.ClosePrice
			prevCap = &previousStock.MarketCap
		}

		priceTrend, priceDir := metrics.Trend(&latestStock.ClosePrice, prevClose)
		kpis = append(kpis, KPIMetric{
			Name:           dc.stocks.Ticker() + " Stock Price",
			Value:          &latestStock.ClosePrice,
			Unit:           "$",
			Trend:          priceTrend,
			TrendDirection: priceDir,
		})

		capTrend, capDir := metrics.Trend(&latestStock.MarketCap, prevCap)
		kpis = append(kpis, KPIMetric{
			Name:           "Market Cap",
			Value:          &latestStock.MarketCap,
			Unit:           "$B",
			Trend:          capTrend,
			TrendDirection: capDir,
		})
	}

	lastUpdated := time.Now().UTC()
	var lastLog models.UpdateLog
	if err := dc.db.Order("timestamp DESC").First(&lastLog).Error; err == nil {
		lastUpdated = lastLog.Timestamp
	}

	summary := gin.H{
		"last_updated": lastUpdated,
		"kpis":         kpis,
	}
	if haveStock {
		summary["latest_stock_price"] = latestStock.ClosePrice
		summary["market_cap"] = latestStock.MarketCap
	} else {
		summary["latest_stock_price"] = nil
		summary["market_cap"] = nil
	}

	c.JSON(http.StatusOK, summary)
}

// GetMetricHistory returns the time series of one indicator metric
// GET /api/metrics/history?metric=inflation_rate&period=1Y
func (dc *DashboardController) GetMetricHistory(c *gin.Context) {
	column := c.Query("metric")
	switch column {
	case "global_gdp_growth", "us_gdp_growth", "federal_funds_rate", "inflation_rate":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown metric"})
		return
	}

	period := c.DefaultQuery("period", "1Y")
	startDate := periodStartDate(period)

	var records []models.EconomicIndicator
	err := dc.db.Where(column+" IS NOT NULL AND date >= ?", startDate).
		Order("date").Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch metric history"})
		return
	}

	points := make([]gin.H, 0, len(records))
	for i := range records {
		points = append(points, gin.H{
			"date":  records[i].Date.Format("2006-01-02"),
			"value": indicatorValue(&records[i], column),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"metric_name": column,
		"period":      period,
		"data":        points,
	})
}

// periodStartDate maps dashboard period names to a cutoff date
func periodStartDate(period string) time.Time {
	days := map[string]int{
		"1M":  30,
		"3M":  90,
		"6M":  180,
		"1Y":  365,
		"2Y":  730,
		"ALL": 3650,
	}

	d, ok := days[period]
	if !ok {
		d = 365
	}
	return time.Now().UTC().AddDate(0, 0, -d)
}
