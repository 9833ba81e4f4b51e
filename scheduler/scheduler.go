package scheduler

import (
	"fmt"
	"log"
	"time"

	"econdash_backend/config"
	"econdash_backend/services/aggregator"

	"github.com/go-co-op/gocron"
)

// Scheduler runs the automatic daily data update
type Scheduler struct {
	cron       *gocron.Scheduler
	aggregator *aggregator.Aggregator
	job        *gocron.Job
}

// NewScheduler creates a scheduler in the configured timezone, falling back
// to UTC when the timezone is invalid.
func NewScheduler(agg *aggregator.Aggregator) *Scheduler {
	loc, err := time.LoadLocation(config.AppConfig.UpdateScheduleTimezone)
	if err != nil {
		log.Printf("Invalid timezone %q, using UTC: %v", config.AppConfig.UpdateScheduleTimezone, err)
		loc = time.UTC
	}

	return &Scheduler{
		cron:       gocron.NewScheduler(loc),
		aggregator: agg,
	}
}

// Start registers the daily update job and starts the scheduler
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	at := fmt.Sprintf("%02d:%02d", config.AppConfig.UpdateScheduleHour, config.AppConfig.UpdateScheduleMinute)

	job, err := s.cron.Every(1).Day().At(at).Do(func() {
		log.Println("Starting scheduled data update")
		result := s.aggregator.RunUpdate(aggregator.UpdateTypeAutomatic)
		log.Printf("Scheduled update completed: %s", result.Status)
	})
	if err != nil {
		log.Printf("Failed to schedule daily update: %v", err)
		return
	}
	s.job = job

	s.cron.StartAsync()
	log.Printf("Scheduler started - updates will run daily at %s %s",
		at, config.AppConfig.UpdateScheduleTimezone)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}

// IsRunning reports whether the scheduler is active
func (s *Scheduler) IsRunning() bool {
	return s.cron.IsRunning()
}

// NextRun returns the next scheduled update time, if a job is registered
func (s *Scheduler) NextRun() *time.Time {
	if s.job == nil {
		return nil
	}
	next := s.job.NextRun()
	if next.IsZero() {
		return nil
	}
	return &next
}
