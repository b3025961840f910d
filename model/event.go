package model

import (
	"time"

	"github.com/propelhq/propel-api/airtable"
)

// Raw column names in the Events table.
const (
	EventFieldName       = "Name"
	EventFieldURL        = "URL"
	EventFieldStartDate  = "Start Date"
	EventFieldEndDate    = "End Date"
	EventFieldScope      = "Scope"
	EventFieldInitiative = "Initiative"
	EventFieldCohort     = "Cohort"
)

// Event is a scheduled happening shown on a dashboard calendar.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Scope     string    `json:"scope"`
	ProgramID string    `json:"programId"`
	CohortID  string    `json:"cohortId"`
}

// NormalizeEvent maps a raw store record to an Event. An absent scope
// defaults to Global.
func NormalizeEvent(rec *airtable.Record) *Event {
	if rec == nil {
		return nil
	}

	scope := rec.Fields.String(EventFieldScope)
	if scope == "" {
		scope = ScopeGlobal
	}

	return &Event{
		ID:        rec.ID,
		Name:      rec.Fields.String(EventFieldName),
		URL:       rec.Fields.String(EventFieldURL),
		StartDate: rec.Fields.Time(EventFieldStartDate),
		EndDate:   rec.Fields.Time(EventFieldEndDate),
		Scope:     scope,
		ProgramID: rec.Fields.FirstString(EventFieldInitiative),
		CohortID:  rec.Fields.FirstString(EventFieldCohort),
	}
}

// NormalizeEvents maps a result page.
func NormalizeEvents(recs []airtable.Record) []Event {
	out := make([]Event, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeEvent(&recs[i]))
	}
	return out
}

// EventPatch is a sparse create/update for an event.
type EventPatch struct {
	Name      *string
	URL       *string
	StartDate *time.Time
	EndDate   *time.Time
	Scope     *string
	ProgramID *string
	CohortID  *string
}

// Fields renders the patch as raw store columns.
func (p EventPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.Name != nil {
		fields[EventFieldName] = *p.Name
	}
	if p.URL != nil {
		fields[EventFieldURL] = *p.URL
	}
	if p.StartDate != nil {
		fields[EventFieldStartDate] = p.StartDate.Format(time.RFC3339)
	}
	if p.EndDate != nil {
		fields[EventFieldEndDate] = p.EndDate.Format(time.RFC3339)
	}
	if p.Scope != nil {
		fields[EventFieldScope] = *p.Scope
	}
	if p.ProgramID != nil {
		fields[EventFieldInitiative] = []string{*p.ProgramID}
	}
	if p.CohortID != nil {
		fields[EventFieldCohort] = []string{*p.CohortID}
	}
	return fields
}
