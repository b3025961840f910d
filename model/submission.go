package model

import (
	"time"

	"github.com/propelhq/propel-api/airtable"
)

// Raw column names in the Submissions table.
const (
	SubmissionFieldTeam        = "Team"
	SubmissionFieldMilestone   = "Milestone"
	SubmissionFieldTitle       = "Title"
	SubmissionFieldStatus      = "Status"
	SubmissionFieldFeedback    = "Feedback"
	SubmissionFieldFileURLs    = "File URLs"
	SubmissionFieldSubmittedAt = "Submitted At"
)

// Submission statuses.
const (
	SubmissionDraft     = "Draft"
	SubmissionSubmitted = "Submitted"
	SubmissionApproved  = "Approved"
	SubmissionRejected  = "Rejected"
)

// Submission is a team's deliverable for one milestone.
type Submission struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"teamId"`
	MilestoneID string    `json:"milestoneId"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Feedback    string    `json:"feedback"`
	FileURLs    []string  `json:"fileUrls"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NormalizeSubmission maps a raw store record to a Submission. An absent
// status defaults to Draft.
func NormalizeSubmission(rec *airtable.Record) *Submission {
	if rec == nil {
		return nil
	}

	status := rec.Fields.String(SubmissionFieldStatus)
	if status == "" {
		status = SubmissionDraft
	}

	return &Submission{
		ID:          rec.ID,
		TeamID:      rec.Fields.FirstString(SubmissionFieldTeam),
		MilestoneID: rec.Fields.FirstString(SubmissionFieldMilestone),
		Title:       rec.Fields.String(SubmissionFieldTitle),
		Status:      status,
		Feedback:    rec.Fields.String(SubmissionFieldFeedback),
		FileURLs:    rec.Fields.StringSlice(SubmissionFieldFileURLs),
		SubmittedAt: rec.Fields.Time(SubmissionFieldSubmittedAt),
	}
}

// NormalizeSubmissions maps a result page.
func NormalizeSubmissions(recs []airtable.Record) []Submission {
	out := make([]Submission, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeSubmission(&recs[i]))
	}
	return out
}

// SubmissionPatch is a sparse create/update for a submission.
type SubmissionPatch struct {
	TeamID      *string
	MilestoneID *string
	Title       *string
	Status      *string
	Feedback    *string
	FileURLs    *[]string
	SubmittedAt *time.Time
}

// Fields renders the patch as raw store columns.
func (p SubmissionPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.TeamID != nil {
		fields[SubmissionFieldTeam] = []string{*p.TeamID}
	}
	if p.MilestoneID != nil {
		fields[SubmissionFieldMilestone] = []string{*p.MilestoneID}
	}
	if p.Title != nil {
		fields[SubmissionFieldTitle] = *p.Title
	}
	if p.Status != nil {
		fields[SubmissionFieldStatus] = *p.Status
	}
	if p.Feedback != nil {
		fields[SubmissionFieldFeedback] = *p.Feedback
	}
	if p.FileURLs != nil {
		fields[SubmissionFieldFileURLs] = *p.FileURLs
	}
	if p.SubmittedAt != nil {
		fields[SubmissionFieldSubmittedAt] = p.SubmittedAt.Format(time.RFC3339)
	}
	return fields
}
