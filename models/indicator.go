package models

import (
	"time"

	"gorm.io/gorm"
)

// EconomicIndicator holds macro indicators merged onto a single date.
// Each metric column is independently nullable: a row exists as soon as any
// source reports the date, and later runs fill in the remaining columns.
type EconomicIndicator struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	Date time.Time `gorm:"uniqueIndex;not null" json:"date"`

	GlobalGDPGrowth  *float64 `gorm:"column:global_gdp_growth" json:"global_gdp_growth"` // annual %, forward-filled
	USGDPGrowth      *float64 `gorm:"column:us_gdp_growth" json:"us_gdp_growth"`         // quarterly %
	FederalFundsRate *float64 `gorm:"column:federal_funds_rate" json:"federal_funds_rate"`
	InflationRate    *float64 `gorm:"column:inflation_rate" json:"inflation_rate"` // CPI year-over-year %

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockData holds one trading day of OHLCV data plus the market cap derived
// from that day's close.
type StockData struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	Date time.Time `gorm:"uniqueIndex;not null" json:"date"`

	OpenPrice  float64 `json:"open_price"`
	ClosePrice float64 `json:"close_price"`
	HighPrice  float64 `json:"high_price"`
	LowPrice   float64 `json:"low_price"`
	Volume     int64   `json:"volume"`
	MarketCap  float64 `json:"market_cap"` // billions USD

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateLog is an append-only audit record, one row per orchestrator run.
type UpdateLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`

	UpdateType string `gorm:"size:20" json:"update_type"` // automatic, manual
	Status     string `gorm:"size:20" json:"status"`      // success, partial, failed

	SourcesUpdated  string  `gorm:"type:text" json:"sources_updated"` // JSON per-source results
	Errors          string  `gorm:"type:text" json:"errors"`          // JSON list of error messages
	DurationSeconds float64 `json:"duration_seconds"`
}

// MigrateIndicatorModels runs database migrations for indicator-related models
func MigrateIndicatorModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&EconomicIndicator{},
		&StockData{},
		&UpdateLog{},
	)
}
