package controllers

import (
	"fmt"
	"net/http"
	"time"

	"econdash_backend/models"
	"econdash_backend/services/aggregator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SchedulerStatus is the view of the background scheduler exposed on the
// status endpoint.
type SchedulerStatus interface {
	IsRunning() bool
	NextRun() *time.Time
}

// UpdateRequest is the manual update trigger body
type UpdateRequest struct {
	Force bool `json:"force"`
}

// UpdateController handles update triggers and system status
type UpdateController struct {
	db         *gorm.DB
	aggregator *aggregator.Aggregator
	scheduler  SchedulerStatus
}

// NewUpdateController creates an update controller
func NewUpdateController(db *gorm.DB, agg *aggregator.Aggregator, sched SchedulerStatus) *UpdateController {
	return &UpdateController{db: db, aggregator: agg, scheduler: sched}
}

// TriggerUpdate runs a manual data update, debounced by a 30 second
// cooldown unless force is set.
// POST /api/update
func (uc *UpdateController) TriggerUpdate(c *gin.Context) {
	var req UpdateRequest
	// An empty body means a plain non-forced trigger
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, wait := uc.aggregator.TryManualRun(req.Force)
	if result == nil {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "too_soon",
			"message":      fmt.Sprintf("Please wait %d seconds before updating again", wait),
			"wait_seconds": wait,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    result.Status,
		"message":   fmt.Sprintf("Update completed with status: %s", result.Status),
		"duration":  result.Duration,
		"timestamp": result.Timestamp,
		"details":   result.Results,
	})
}

// GetStatus returns system status and health information
// GET /api/status
func (uc *UpdateController) GetStatus(c *gin.Context) {
	var lastLog models.UpdateLog
	var lastUpdate *time.Time
	var lastStatus string
	if err := uc.db.Order("timestamp DESC").First(&lastLog).Error; err == nil {
		lastUpdate = &lastLog.Timestamp
		lastStatus = lastLog.Status
	}

	dbStatus := "connected"
	if sqlDB, err := uc.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "error"
	}

	var nextRun interface{}
	if next := uc.scheduler.NextRun(); next != nil {
		nextRun = next.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"last_update":           lastUpdate,
		"last_update_status":    lastStatus,
		"scheduler_running":     uc.scheduler.IsRunning(),
		"database_status":       dbStatus,
		"next_scheduled_update": nextRun,
	})
}

// GetUpdateLogs returns the most recent update log entries
// GET /api/update/logs
func (uc *UpdateController) GetUpdateLogs(c *gin.Context) {
	var logs []models.UpdateLog
	if err := uc.db.Order("timestamp DESC").Limit(20).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch update logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
