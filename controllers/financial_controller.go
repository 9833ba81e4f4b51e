package controllers

import (
	"fmt"
	"net/http"

	"econdash_backend/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialRequest is the admin payload for one fiscal quarter
type FinancialRequest struct {
	Quarter string `json:"quarter" binding:"required"`
	Year    int    `json:"year" binding:"required"`

	DataCenterRevenue decimal.Decimal `json:"data_center_revenue"`
	GamingRevenue     decimal.Decimal `json:"gaming_revenue"`
	ProVisRevenue     decimal.Decimal `json:"professional_visualization_revenue"`
	AutomotiveRevenue decimal.Decimal `json:"automotive_revenue"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`

	GrossMargin      decimal.Decimal `json:"gross_margin"`
	OperatingIncome  decimal.Decimal `json:"operating_income"`
	NetIncome        decimal.Decimal `json:"net_income"`
	EarningsPerShare decimal.Decimal `json:"earnings_per_share"`
}

// FinancialController manages quarterly company financials. Quarterly
// results have no upstream fetcher, so writes go through the admin API.
type FinancialController struct {
	db *gorm.DB
}

// NewFinancialController creates a financial controller
func NewFinancialController(db *gorm.DB) *FinancialController {
	return &FinancialController{db: db}
}

// GetFinancials returns all quarterly financials, newest first
// GET /api/financials
func (fc *FinancialController) GetFinancials(c *gin.Context) {
	var financials []models.CompanyFinancial
	err := fc.db.Order("year DESC, quarter DESC").Find(&financials).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch financials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": financials})
}

// UpsertFinancial creates or replaces one fiscal quarter (admin only)
// POST /api/financials
func (fc *FinancialController) UpsertFinancial(c *gin.Context) {
	var req FinancialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quarter and year are required"})
		return
	}

	switch req.Quarter {
	case "Q1", "Q2", "Q3", "Q4":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quarter must be one of Q1..Q4"})
		return
	}

	fiscalPeriod := fmt.Sprintf("%d-%s", req.Year, req.Quarter)

	record := models.CompanyFinancial{
		Quarter:           req.Quarter,
		Year:              req.Year,
		FiscalPeriod:      fiscalPeriod,
		DataCenterRevenue: req.DataCenterRevenue,
		GamingRevenue:     req.GamingRevenue,
		ProVisRevenue:     req.ProVisRevenue,
		AutomotiveRevenue: req.AutomotiveRevenue,
		TotalRevenue:      req.TotalRevenue,
		GrossMargin:       req.GrossMargin,
		OperatingIncome:   req.OperatingIncome,
		NetIncome:         req.NetIncome,
		EarningsPerShare:  req.EarningsPerShare,
	}

	var existing models.CompanyFinancial
	err := fc.db.Where("fiscal_period = ?", fiscalPeriod).First(&existing).Error
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := fc.db.Save(&record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update financial record"})
			return
		}
	case err == gorm.ErrRecordNotFound:
		if err := fc.db.Create(&record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create financial record"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up financial record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

// DeleteFinancial removes one fiscal quarter (admin only)
// DELETE /api/financials/:period
func (fc *FinancialController) DeleteFinancial(c *gin.Context) {
	period := c.Param("period")

	result := fc.db.Where("fiscal_period = ?", period).Delete(&models.CompanyFinancial{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete financial record"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Financial record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": period})
}
