package model

import (
	"time"

	"github.com/propelhq/propel-api/airtable"
)

// Raw column names in the Milestones table.
const (
	MilestoneFieldName    = "Name"
	MilestoneFieldDueDate = "Due Date"
	MilestoneFieldCohort  = "Cohort"
)

// Milestone is a deliverable checkpoint within a cohort.
type Milestone struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	DueDate  time.Time `json:"dueDate"`
	CohortID string    `json:"cohortId"`
}

// NormalizeMilestone maps a raw store record to a Milestone.
func NormalizeMilestone(rec *airtable.Record) *Milestone {
	if rec == nil {
		return nil
	}
	return &Milestone{
		ID:       rec.ID,
		Name:     rec.Fields.String(MilestoneFieldName),
		DueDate:  rec.Fields.Time(MilestoneFieldDueDate),
		CohortID: rec.Fields.FirstString(MilestoneFieldCohort),
	}
}

// NormalizeMilestones maps a result page.
func NormalizeMilestones(recs []airtable.Record) []Milestone {
	out := make([]Milestone, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeMilestone(&recs[i]))
	}
	return out
}
