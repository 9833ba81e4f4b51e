package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"econdash_backend/models"
	"econdash_backend/services/worldbank"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MetricsController serves raw indicator and stock time series
type MetricsController struct {
	db        *gorm.DB
	worldBank *worldbank.Client
}

// NewMetricsController creates a metrics controller
func NewMetricsController(db *gorm.DB, wbClient *worldbank.Client) *MetricsController {
	return &MetricsController{db: db, worldBank: wbClient}
}

// GetEconomicIndicators returns historical economic indicators
// GET /api/metrics/economic-indicators?period=1Y
func (mc *MetricsController) GetEconomicIndicators(c *gin.Context) {
	period := strings.ToUpper(c.DefaultQuery("period", "1Y"))
	startDate := periodStartDate(period)

	var indicators []models.EconomicIndicator
	err := mc.db.Where("date >= ?", startDate).Order("date").Find(&indicators).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch economic indicators"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": indicators, "period": period})
}

// GetStockData returns historical stock data
// GET /api/metrics/stock-data?period=1Y
func (mc *MetricsController) GetStockData(c *gin.Context) {
	period := strings.ToUpper(c.DefaultQuery("period", "1Y"))
	startDate := periodStartDate(period)

	var stockData []models.StockData
	err := mc.db.Where("date >= ?", startDate).Order("date").Find(&stockData).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stockData, "period": period})
}

// GetRegionalGDP returns World Bank GDP growth per region, fetched on
// demand rather than persisted.
// GET /api/metrics/regional-gdp
func (mc *MetricsController) GetRegionalGDP(c *gin.Context) {
	regions := worldbank.DefaultRegions
	if q := c.Query("regions"); q != "" {
		regions = strings.Split(q, ",")
	}

	data := mc.worldBank.GetRegionalGDPGrowth(regions)
	if len(data) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No regional GDP data available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// ExportCSV streams all indicator and stock data as a CSV attachment
// GET /api/export/csv
func (mc *MetricsController) ExportCSV(c *gin.Context) {
	var indicators []models.EconomicIndicator
	if err := mc.db.Order("date").Find(&indicators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch economic indicators"})
		return
	}

	var stockData []models.StockData
	if err := mc.db.Order("date").Find(&stockData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock data"})
		return
	}

	filename := fmt.Sprintf("econ_dashboard_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	writer := csv.NewWriter(c.Writer)

	writer.Write([]string{"ECONOMIC INDICATORS"})
	writer.Write([]string{"Date", "Global GDP Growth", "US GDP Growth", "Federal Funds Rate", "Inflation Rate"})
	for _, item := range indicators {
		writer.Write([]string{
			item.Date.Format("2006-01-02"),
			formatOptional(item.GlobalGDPGrowth),
			formatOptional(item.USGDPGrowth),
			formatOptional(item.FederalFundsRate),
			formatOptional(item.InflationRate),
		})
	}

	writer.Write([]string{})

	writer.Write([]string{"STOCK DATA"})
	writer.Write([]string{"Date", "Open", "Close", "High", "Low", "Volume", "Market Cap"})
	for _, item := range stockData {
		writer.Write([]string{
			item.Date.Format("2006-01-02"),
			strconv.FormatFloat(item.OpenPrice, 'f', 2, 64),
			strconv.FormatFloat(item.ClosePrice, 'f', 2, 64),
			strconv.FormatFloat(item.HighPrice, 'f', 2, 64),
			strconv.FormatFloat(item.LowPrice, 'f', 2, 64),
			strconv.FormatInt(item.Volume, 10),
			strconv.FormatFloat(item.MarketCap, 'f', 2, 64),
		})
	}

	writer.Flush()
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
