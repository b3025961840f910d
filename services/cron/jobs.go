package cron

import (
	"context"
	"fmt"
	"time"
)

const jobTimeout = 2 * time.Minute

// CloseExpiredCohorts flips open cohorts past their application deadline
// to closed so new applications are rejected without manual cleanup.
func (m *CronManager) CloseExpiredCohorts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	closed, err := m.store.CloseExpiredCohorts(ctx)
	if err != nil {
		m.logJobError("close_expired_cohorts", err)
		return
	}

	m.logJobComplete("close_expired_cohorts", fmt.Sprintf("closed %d cohorts", closed))
}

// RefreshInstitutions re-fetches the institution directory so email
// domain matching works against current data.
func (m *CronManager) RefreshInstitutions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := m.store.RefreshInstitutions(ctx); err != nil {
		m.logJobError("refresh_institutions", err)
		return
	}

	m.logJobComplete("refresh_institutions", "institution directory reloaded")
}
