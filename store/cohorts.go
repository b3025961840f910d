package store

import (
	"context"
	"fmt"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

const openCohortsKey = "cohorts:open"

func cohortsProgramKey(programID string) string {
	return "cohorts:program:" + programID
}

// CohortByID fetches one cohort. Missing is (nil, nil).
func (s *Store) CohortByID(ctx context.Context, id string) (*model.Cohort, error) {
	if id == "" {
		return nil, missingField("cohort by id", "id")
	}

	rec, err := s.api.Find(ctx, TableCohorts, id)
	if err != nil {
		return nil, err
	}
	return model.NormalizeCohort(rec), nil
}

// OpenCohorts lists cohorts accepting applications, earliest deadline
// first.
func (s *Store) OpenCohorts(ctx context.Context) ([]model.Cohort, error) {
	records, err := s.api.Select(ctx, TableCohorts, airtable.SelectOptions{
		Formula: airtable.Eq(model.CohortFieldStatus, model.CohortStatusOpen),
		Sort:    []airtable.SortField{{Field: model.CohortFieldDeadline}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeCohorts(records), nil
}

// GetOpenCohorts is the cached read behind the cohort browser.
func (s *Store) GetOpenCohorts(ctx context.Context) ([]model.Cohort, error) {
	return cachedFetch(ctx, s, openCohortsKey, func(ctx context.Context) ([]model.Cohort, error) {
		return s.OpenCohorts(ctx)
	})
}

// CohortsByProgram lists a program's cohorts.
func (s *Store) CohortsByProgram(ctx context.Context, programID string) ([]model.Cohort, error) {
	if programID == "" {
		return nil, missingField("cohorts by program", "programId")
	}

	return cachedFetch(ctx, s, cohortsProgramKey(programID), func(ctx context.Context) ([]model.Cohort, error) {
		records, err := s.api.Select(ctx, TableCohorts, airtable.SelectOptions{
			Formula: airtable.Contains(model.CohortFieldInitiative, programID),
			Sort:    []airtable.SortField{{Field: model.CohortFieldDeadline}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeCohorts(records), nil
	})
}

// UpdateCohortStatus patches a cohort's status and drops the affected
// cache entries.
func (s *Store) UpdateCohortStatus(ctx context.Context, id, status string) (*model.Cohort, error) {
	if id == "" {
		return nil, missingField("update cohort status", "id")
	}
	if status == "" {
		return nil, missingField("update cohort status", "status")
	}

	rec, err := s.api.Update(ctx, TableCohorts, id, model.CohortPatch{Status: &status}.Fields())
	if err != nil {
		return nil, err
	}

	cohort := model.NormalizeCohort(rec)
	s.invalidate(ctx, openCohortsKey, cohortsProgramKey(cohort.ProgramID))
	return cohort, nil
}

// CloseExpiredCohorts closes every open cohort whose application
// deadline has passed and returns how many it touched. Run from the
// background sweep.
func (s *Store) CloseExpiredCohorts(ctx context.Context) (int, error) {
	cohorts, err := s.OpenCohorts(ctx)
	if err != nil {
		return 0, fmt.Errorf("close expired cohorts: %w", err)
	}

	now := s.now()
	closed := 0
	for i := range cohorts {
		c := &cohorts[i]
		if c.DeadlineDate.IsZero() || now.Before(c.DeadlineDate) {
			continue
		}
		if _, err := s.UpdateCohortStatus(ctx, c.ID, model.CohortStatusClosed); err != nil {
			return closed, fmt.Errorf("close expired cohorts: cohort %q: %w", c.ID, err)
		}
		closed++
	}

	if closed > 0 {
		s.invalidate(ctx, openCohortsKey)
	}
	return closed, nil
}
