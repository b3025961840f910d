package store

import (
	"context"
	"fmt"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

// SubmissionsByTeam lists a team's milestone submissions, newest first.
// A team with no submissions yields an empty slice.
func (s *Store) SubmissionsByTeam(ctx context.Context, teamID string) ([]model.Submission, error) {
	if teamID == "" {
		return nil, missingField("submissions by team", "teamId")
	}

	records, err := s.api.Select(ctx, TableSubmissions, airtable.SelectOptions{
		Formula: airtable.Contains(model.SubmissionFieldTeam, teamID),
		Sort:    []airtable.SortField{{Field: model.SubmissionFieldSubmittedAt, Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeSubmissions(records), nil
}

// SubmissionForMilestone returns a team's submission for one milestone,
// or nil when none exists yet.
func (s *Store) SubmissionForMilestone(ctx context.Context, teamID, milestoneID string) (*model.Submission, error) {
	if teamID == "" {
		return nil, missingField("submission for milestone", "teamId")
	}
	if milestoneID == "" {
		return nil, missingField("submission for milestone", "milestoneId")
	}

	records, err := s.api.Select(ctx, TableSubmissions, airtable.SelectOptions{
		Formula: airtable.And(
			airtable.Contains(model.SubmissionFieldTeam, teamID),
			airtable.Contains(model.SubmissionFieldMilestone, milestoneID),
		),
		MaxRecords: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return model.NormalizeSubmission(&records[0]), nil
}

// SubmissionByID fetches one submission. Missing is (nil, nil).
func (s *Store) SubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	if id == "" {
		return nil, missingField("submission by id", "id")
	}

	rec, err := s.api.Find(ctx, TableSubmissions, id)
	if err != nil {
		return nil, err
	}
	return model.NormalizeSubmission(rec), nil
}

// CreateSubmission opens a submission for a team against a milestone.
func (s *Store) CreateSubmission(ctx context.Context, patch model.SubmissionPatch) (*model.Submission, error) {
	if patch.TeamID == nil || *patch.TeamID == "" {
		return nil, missingField("create submission", "teamId")
	}
	if patch.MilestoneID == nil || *patch.MilestoneID == "" {
		return nil, missingField("create submission", "milestoneId")
	}
	if patch.Status == nil {
		status := model.SubmissionDraft
		patch.Status = &status
	}

	rec, err := s.api.Create(ctx, TableSubmissions, patch.Fields())
	if err != nil {
		return nil, err
	}
	return model.NormalizeSubmission(rec), nil
}

// UpdateSubmission patches a submission. Only the fields set on the
// patch reach the store.
func (s *Store) UpdateSubmission(ctx context.Context, id string, patch model.SubmissionPatch) (*model.Submission, error) {
	if id == "" {
		return nil, missingField("update submission", "id")
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, emptyPatch("update submission")
	}

	rec, err := s.api.Update(ctx, TableSubmissions, id, fields)
	if err != nil {
		return nil, err
	}
	return model.NormalizeSubmission(rec), nil
}

// AttachSubmissionFile appends an uploaded deliverable URL to the
// submission's file list.
func (s *Store) AttachSubmissionFile(ctx context.Context, id, fileURL string) (*model.Submission, error) {
	if id == "" {
		return nil, missingField("attach submission file", "id")
	}
	if fileURL == "" {
		return nil, missingField("attach submission file", "fileUrl")
	}

	submission, err := s.SubmissionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("attach submission file: %w", err)
	}
	if submission == nil {
		return nil, fmt.Errorf("attach submission file: submission %q not found", id)
	}

	urls := append(append([]string{}, submission.FileURLs...), fileURL)
	return s.UpdateSubmission(ctx, id, model.SubmissionPatch{FileURLs: &urls})
}

// MilestonesByCohort lists a cohort's milestones in due-date order.
func (s *Store) MilestonesByCohort(ctx context.Context, cohortID string) ([]model.Milestone, error) {
	if cohortID == "" {
		return nil, missingField("milestones by cohort", "cohortId")
	}

	records, err := s.api.Select(ctx, TableMilestones, airtable.SelectOptions{
		Formula: airtable.Contains(model.MilestoneFieldCohort, cohortID),
		Sort:    []airtable.SortField{{Field: model.MilestoneFieldDueDate}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeMilestones(records), nil
}
