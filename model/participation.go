package model

import "github.com/propelhq/propel-api/airtable"

// Raw column names in the Participations table.
const (
	ParticipationFieldContact = "Contact"
	ParticipationFieldCohort  = "Cohort"
	ParticipationFieldTeam    = "Team"
	ParticipationFieldStatus  = "Status"
)

// Participation statuses.
const (
	ParticipationPending   = "Pending"
	ParticipationApproved  = "Approved"
	ParticipationRejected  = "Rejected"
	ParticipationWithdrawn = "Withdrawn"
)

// Participation links a contact to a cohort with an application status.
type Participation struct {
	ID        string `json:"id"`
	ContactID string `json:"contactId"`
	CohortID  string `json:"cohortId"`
	TeamID    string `json:"teamId"`
	Status    string `json:"status"`
}

// NormalizeParticipation maps a raw store record to a Participation. An
// absent status defaults to Pending.
func NormalizeParticipation(rec *airtable.Record) *Participation {
	if rec == nil {
		return nil
	}

	status := rec.Fields.String(ParticipationFieldStatus)
	if status == "" {
		status = ParticipationPending
	}

	return &Participation{
		ID:        rec.ID,
		ContactID: rec.Fields.FirstString(ParticipationFieldContact),
		CohortID:  rec.Fields.FirstString(ParticipationFieldCohort),
		TeamID:    rec.Fields.FirstString(ParticipationFieldTeam),
		Status:    status,
	}
}

// NormalizeParticipations maps a result page.
func NormalizeParticipations(recs []airtable.Record) []Participation {
	out := make([]Participation, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeParticipation(&recs[i]))
	}
	return out
}

// ParticipationPatch is a sparse create/update for a participation.
type ParticipationPatch struct {
	ContactID *string
	CohortID  *string
	TeamID    *string
	Status    *string
}

// Fields renders the patch as raw store columns.
func (p ParticipationPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.ContactID != nil {
		fields[ParticipationFieldContact] = []string{*p.ContactID}
	}
	if p.CohortID != nil {
		fields[ParticipationFieldCohort] = []string{*p.CohortID}
	}
	if p.TeamID != nil {
		fields[ParticipationFieldTeam] = []string{*p.TeamID}
	}
	if p.Status != nil {
		fields[ParticipationFieldStatus] = *p.Status
	}
	return fields
}
