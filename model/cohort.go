package model

import (
	"time"

	"github.com/propelhq/propel-api/airtable"
)

// Raw column names in the Cohorts table.
const (
	CohortFieldName           = "Name"
	CohortFieldStatus         = "Status"
	CohortFieldDeadline       = "Application Deadline"
	CohortFieldInitiative     = "Initiative"
	CohortFieldTeams          = "Teams"
	CohortFieldParticipations = "Participations"
)

// Cohort statuses.
const (
	CohortStatusOpen   = "Open"
	CohortStatusActive = "Active"
	CohortStatusClosed = "Closed"
)

// Cohort is a scheduled run of a program that contacts apply to join.
type Cohort struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	DeadlineDate     time.Time `json:"deadlineDate"`
	ProgramID        string    `json:"programId"`
	TeamIDs          []string  `json:"teamIds"`
	ParticipationIDs []string  `json:"participationIds"`
}

// AcceptsApplications reports whether the cohort is open and, when a
// deadline is set, whether it has not yet passed.
func (c *Cohort) AcceptsApplications(now time.Time) bool {
	if c.Status != CohortStatusOpen {
		return false
	}
	if c.DeadlineDate.IsZero() {
		return true
	}
	return now.Before(c.DeadlineDate)
}

// NormalizeCohort maps a raw store record to a Cohort.
func NormalizeCohort(rec *airtable.Record) *Cohort {
	if rec == nil {
		return nil
	}

	status := rec.Fields.String(CohortFieldStatus)
	if status == "" {
		status = CohortStatusClosed
	}

	return &Cohort{
		ID:               rec.ID,
		Name:             rec.Fields.String(CohortFieldName),
		Status:           status,
		DeadlineDate:     rec.Fields.Time(CohortFieldDeadline),
		ProgramID:        rec.Fields.FirstString(CohortFieldInitiative),
		TeamIDs:          rec.Fields.StringSlice(CohortFieldTeams),
		ParticipationIDs: rec.Fields.StringSlice(CohortFieldParticipations),
	}
}

// NormalizeCohorts maps a result page.
func NormalizeCohorts(recs []airtable.Record) []Cohort {
	out := make([]Cohort, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeCohort(&recs[i]))
	}
	return out
}

// CohortPatch is a sparse update for a cohort record.
type CohortPatch struct {
	Status *string
}

// Fields renders the patch as raw store columns.
func (p CohortPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.Status != nil {
		fields[CohortFieldStatus] = *p.Status
	}
	return fields
}
