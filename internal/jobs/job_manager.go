// Package jobs provides the service's scheduled background tasks, built on
// github.com/robfig/cron/v3 and coordinated through JobManager.
package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	fxRefreshJob *FxRefreshJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(rates rateRefresher, currencies []string, logger *slog.Logger) *JobManager {
	return &JobManager{
		fxRefreshJob: NewFxRefreshJob(rates, currencies, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.fxRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start fx refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.fxRefreshJob.Stop()
}
