package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompanyFinancial holds quarterly financial results for the tracked company.
// Rows are entered through the admin API, there is no upstream fetcher.
type CompanyFinancial struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Quarter      string `gorm:"size:2;not null" json:"quarter"` // Q1..Q4
	Year         int    `gorm:"not null" json:"year"`
	FiscalPeriod string `gorm:"size:10;uniqueIndex" json:"fiscal_period"` // e.g. "2024-Q1"

	// Revenue breakdown, millions USD
	DataCenterRevenue decimal.Decimal `gorm:"type:decimal(20,2)" json:"data_center_revenue"`
	GamingRevenue     decimal.Decimal `gorm:"type:decimal(20,2)" json:"gaming_revenue"`
	ProVisRevenue     decimal.Decimal `gorm:"type:decimal(20,2)" json:"professional_visualization_revenue"`
	AutomotiveRevenue decimal.Decimal `gorm:"type:decimal(20,2)" json:"automotive_revenue"`
	TotalRevenue      decimal.Decimal `gorm:"type:decimal(20,2)" json:"total_revenue"`

	// Profitability
	GrossMargin      decimal.Decimal `gorm:"type:decimal(10,4)" json:"gross_margin"` // percentage
	OperatingIncome  decimal.Decimal `gorm:"type:decimal(20,2)" json:"operating_income"`
	NetIncome        decimal.Decimal `gorm:"type:decimal(20,2)" json:"net_income"`
	EarningsPerShare decimal.Decimal `gorm:"type:decimal(10,4)" json:"earnings_per_share"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MigrateFinancialModels runs database migrations for financial models
func MigrateFinancialModels(db *gorm.DB) error {
	return db.AutoMigrate(&CompanyFinancial{})
}
