package aggregator

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"econdash_backend/models"
	"econdash_backend/services/fred"
	"econdash_backend/services/metrics"
	"econdash_backend/services/stockdata"
	"econdash_backend/services/worldbank"

	"gorm.io/gorm"
)

// Update types
const (
	UpdateTypeAutomatic = "automatic"
	UpdateTypeManual    = "manual"
)

// Overall run statuses
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// ManualUpdateCooldown is the debounce window for manual update triggers
const ManualUpdateCooldown = 30 * time.Second

// SharesOutstanding is the tracked company's share count in billions, used
// to derive market cap from the daily close.
const SharesOutstanding = 24.6

// SourceResult is the outcome of one update step
type SourceResult struct {
	Status  string `json:"status"` // success, error
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// RunResults collects per-source outcomes and the errors of one run
type RunResults struct {
	EconomicIndicators *SourceResult `json:"economic_indicators"`
	StockData          *SourceResult `json:"stock_data"`
	Errors             []string      `json:"errors"`
}

// UpdateResult is the structured outcome of one orchestrator run
type UpdateResult struct {
	Status    string     `json:"status"`
	Duration  float64    `json:"duration"` // seconds
	Results   RunResults `json:"results"`
	Timestamp time.Time  `json:"timestamp"`
}

// RunArchiver receives a copy of each completed run for external archival
type RunArchiver interface {
	ArchiveRun(result *UpdateResult)
}

// RunNotifier receives each completed run for pushing to connected clients
type RunNotifier interface {
	NotifyRun(result *UpdateResult)
}

// Aggregator orchestrates data collection from all sources and the database
// updates that follow. One instance is constructed at startup and shared by
// the scheduler and the API layer.
type Aggregator struct {
	db        *gorm.DB
	fred      *fred.Client
	worldBank *worldbank.Client
	stocks    *stockdata.Service

	// Optional sinks, set after construction
	Archiver RunArchiver
	Notifier RunNotifier

	mu               sync.Mutex
	lastManualUpdate time.Time
}

// NewAggregator creates the update orchestrator
func NewAggregator(db *gorm.DB, fredClient *fred.Client, wbClient *worldbank.Client, stockSvc *stockdata.Service) *Aggregator {
	return &Aggregator{
		db:        db,
		fred:      fredClient,
		worldBank: wbClient,
		stocks:    stockSvc,
	}
}

// UpdateEconomicIndicators fetches all indicator series, reconciles them
// into per-date rows and upserts them inside one transaction.
func (a *Aggregator) UpdateEconomicIndicators() (*SourceResult, error) {
	fedRates := a.fred.GetFederalFundsRate()
	usGDP := a.fred.GetGDPGrowth()
	cpi := a.fred.GetCPI()
	inflation := metrics.YoYChange(cpi)
	globalGDP := a.worldBank.GetGlobalGDPGrowth()

	rows := reconcileIndicators(fedRates, inflation, usGDP, globalGDP)

	var count int
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		count, txErr = upsertIndicators(tx, rows)
		return txErr
	})
	if err != nil {
		log.Printf("Failed to update economic indicators: %v", err)
		return &SourceResult{Status: "error", Message: err.Error()}, err
	}

	log.Printf("Updated %d economic indicator records", count)
	return &SourceResult{Status: StatusSuccess, Count: count}, nil
}

// UpdateStockData fetches the last three months of daily bars and upserts
// them inside one transaction.
func (a *Aggregator) UpdateStockData() (*SourceResult, error) {
	bars := a.stocks.GetHistoricalData("3mo")
	if len(bars) == 0 {
		err := fmt.Errorf("no stock data available")
		log.Printf("Stock update skipped: %v", err)
		return &SourceResult{Status: "error", Message: err.Error()}, err
	}

	var count int
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		count, txErr = upsertStockData(tx, bars, SharesOutstanding)
		return txErr
	})
	if err != nil {
		log.Printf("Failed to update stock data: %v", err)
		return &SourceResult{Status: "error", Message: err.Error()}, err
	}

	log.Printf("Updated %d stock data records", count)
	return &SourceResult{Status: StatusSuccess, Count: count}, nil
}

// RunUpdate executes a full data update from all sources. A failure in one
// step is recorded and does not stop the others. Every run, successful or
// not, appends one audit log entry.
func (a *Aggregator) RunUpdate(updateType string) *UpdateResult {
	start := time.Now()
	results := RunResults{Errors: []string{}}

	log.Printf("Starting %s data update", updateType)

	if res, err := a.UpdateEconomicIndicators(); err != nil {
		results.EconomicIndicators = res
		results.Errors = append(results.Errors, fmt.Sprintf("Economic indicators: %v", err))
	} else {
		results.EconomicIndicators = res
	}

	if res, err := a.UpdateStockData(); err != nil {
		results.StockData = res
		results.Errors = append(results.Errors, fmt.Sprintf("Stock data: %v", err))
	} else {
		results.StockData = res
	}

	result := &UpdateResult{
		Status:    aggregateStatus(results),
		Duration:  time.Since(start).Seconds(),
		Results:   results,
		Timestamp: time.Now().UTC(),
	}

	a.writeUpdateLog(updateType, result)

	if a.Archiver != nil {
		a.Archiver.ArchiveRun(result)
	}
	if a.Notifier != nil {
		a.Notifier.NotifyRun(result)
	}

	log.Printf("Update completed with status: %s in %.2fs", result.Status, result.Duration)
	return result
}

// aggregateStatus derives the overall run status: success when nothing
// failed, partial when at least one step still succeeded, failed otherwise.
func aggregateStatus(results RunResults) string {
	if len(results.Errors) == 0 {
		return StatusSuccess
	}

	for _, res := range []*SourceResult{results.EconomicIndicators, results.StockData} {
		if res != nil && res.Status == StatusSuccess {
			return StatusPartial
		}
	}
	return StatusFailed
}

// writeUpdateLog appends the audit record for one run
func (a *Aggregator) writeUpdateLog(updateType string, result *UpdateResult) {
	sources, err := json.Marshal(result.Results)
	if err != nil {
		sources = []byte("{}")
	}

	var errorsJSON string
	if len(result.Results.Errors) > 0 {
		if data, err := json.Marshal(result.Results.Errors); err == nil {
			errorsJSON = string(data)
		}
	}

	entry := models.UpdateLog{
		Timestamp:       result.Timestamp,
		UpdateType:      updateType,
		Status:          result.Status,
		SourcesUpdated:  string(sources),
		Errors:          errorsJSON,
		DurationSeconds: metrics.Round2(result.Duration),
	}

	if err := a.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to write update log: %v", err)
	}
}

// ManualCooldownRemaining returns how many seconds of the manual-update
// cooldown are left. Zero means a manual run is allowed.
func (a *Aggregator) ManualCooldownRemaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cooldownRemainingLocked()
}

func (a *Aggregator) cooldownRemainingLocked() int {
	if a.lastManualUpdate.IsZero() {
		return 0
	}
	elapsed := time.Since(a.lastManualUpdate)
	if elapsed >= ManualUpdateCooldown {
		return 0
	}
	// Round up so the hint never tells a client to retry too early
	return int(math.Ceil((ManualUpdateCooldown - elapsed).Seconds()))
}

// TryManualRun runs a manual update unless one ran within the cooldown
// window. A rejected trigger returns a nil result and the seconds left to
// wait; force bypasses the cooldown.
func (a *Aggregator) TryManualRun(force bool) (*UpdateResult, int) {
	a.mu.Lock()
	if remaining := a.cooldownRemainingLocked(); remaining > 0 && !force {
		a.mu.Unlock()
		return nil, remaining
	}
	a.lastManualUpdate = time.Now()
	a.mu.Unlock()

	return a.RunUpdate(UpdateTypeManual), 0
}
