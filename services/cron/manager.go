package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/propelhq/propel-api/store"
)

// CronManager manages all scheduled background jobs.
type CronManager struct {
	cron  *cron.Cron
	store *store.Store
}

// NewCronManager creates a new cron manager.
func NewCronManager(s *store.Store) *CronManager {
	return &CronManager{
		cron:  cron.New(),
		store: s,
	}
}

// Start registers all jobs and starts the scheduler.
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Every 15 minutes: close cohorts whose application deadline passed.
	_, err := m.cron.AddFunc("*/15 * * * *", func() {
		m.logJobStart("close_expired_cohorts")
		m.CloseExpiredCohorts()
	})
	if err != nil {
		return err
	}

	// Daily at 4 AM: refresh the cached institution directory.
	_, err = m.cron.AddFunc("0 4 * * *", func() {
		m.logJobStart("refresh_institutions")
		m.RefreshInstitutions()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s", jobName)
}

func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)
}

func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)
}
