package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

// ErrAlreadyApplied is returned when a contact applies to a cohort they
// already hold a participation in.
var ErrAlreadyApplied = errors.New("contact already applied to this cohort")

// ErrCohortNotOpen is returned when the target cohort is closed or past
// its application deadline.
var ErrCohortNotOpen = errors.New("cohort is not accepting applications")

// ParticipationsByContact lists every application a contact has made.
func (s *Store) ParticipationsByContact(ctx context.Context, contactID string) ([]model.Participation, error) {
	if contactID == "" {
		return nil, missingField("participations by contact", "contactId")
	}

	records, err := s.api.Select(ctx, TableParticipations, airtable.SelectOptions{
		Formula: airtable.Contains(model.ParticipationFieldContact, contactID),
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeParticipations(records), nil
}

// ParticipationForCohort returns the contact's application to one
// cohort, or nil when they have not applied.
func (s *Store) ParticipationForCohort(ctx context.Context, contactID, cohortID string) (*model.Participation, error) {
	if contactID == "" {
		return nil, missingField("participation for cohort", "contactId")
	}
	if cohortID == "" {
		return nil, missingField("participation for cohort", "cohortId")
	}

	records, err := s.api.Select(ctx, TableParticipations, airtable.SelectOptions{
		Formula: airtable.And(
			airtable.Contains(model.ParticipationFieldContact, contactID),
			airtable.Contains(model.ParticipationFieldCohort, cohortID),
		),
		MaxRecords: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return model.NormalizeParticipation(&records[0]), nil
}

// Apply creates a pending participation for the contact in the cohort.
// teamID is set for team-based programs and empty otherwise. The cohort
// must be open and the contact must not already hold an application.
func (s *Store) Apply(ctx context.Context, contactID, cohortID, teamID string) (*model.Participation, error) {
	if contactID == "" {
		return nil, missingField("apply", "contactId")
	}
	if cohortID == "" {
		return nil, missingField("apply", "cohortId")
	}

	cohort, err := s.CohortByID(ctx, cohortID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if cohort == nil {
		return nil, fmt.Errorf("apply: cohort %q not found", cohortID)
	}
	if !cohort.AcceptsApplications(s.now()) {
		return nil, fmt.Errorf("apply: %w", ErrCohortNotOpen)
	}

	existing, err := s.ParticipationForCohort(ctx, contactID, cohortID)
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("apply: %w", ErrAlreadyApplied)
	}

	status := model.ParticipationPending
	patch := model.ParticipationPatch{
		ContactID: &contactID,
		CohortID:  &cohortID,
		Status:    &status,
	}
	if teamID != "" {
		patch.TeamID = &teamID
	}

	rec, err := s.api.Create(ctx, TableParticipations, patch.Fields())
	if err != nil {
		return nil, err
	}
	return model.NormalizeParticipation(rec), nil
}

// UpdateParticipationStatus moves an application through review.
func (s *Store) UpdateParticipationStatus(ctx context.Context, id, status string) (*model.Participation, error) {
	if id == "" {
		return nil, missingField("update participation status", "id")
	}
	if status == "" {
		return nil, missingField("update participation status", "status")
	}

	rec, err := s.api.Update(ctx, TableParticipations, id, model.ParticipationPatch{Status: &status}.Fields())
	if err != nil {
		return nil, err
	}
	return model.NormalizeParticipation(rec), nil
}
