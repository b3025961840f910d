package model

import "github.com/propelhq/propel-api/airtable"

// Raw column names in the Teams table.
const (
	TeamFieldName        = "Name"
	TeamFieldDescription = "Description"
	TeamFieldCohorts     = "Cohorts"
	TeamFieldMembers     = "Members"
)

// Team is a group of contacts applying to team-based cohorts together.
type Team struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CohortIDs   []string `json:"cohortIds"`
	MemberIDs   []string `json:"memberIds"`
}

// HasMember reports whether the contact belongs to the team.
func (t *Team) HasMember(contactID string) bool {
	for _, id := range t.MemberIDs {
		if id == contactID {
			return true
		}
	}
	return false
}

// NormalizeTeam maps a raw store record to a Team.
func NormalizeTeam(rec *airtable.Record) *Team {
	if rec == nil {
		return nil
	}
	return &Team{
		ID:          rec.ID,
		Name:        rec.Fields.String(TeamFieldName),
		Description: rec.Fields.String(TeamFieldDescription),
		CohortIDs:   rec.Fields.StringSlice(TeamFieldCohorts),
		MemberIDs:   rec.Fields.StringSlice(TeamFieldMembers),
	}
}

// NormalizeTeams maps a result page.
func NormalizeTeams(recs []airtable.Record) []Team {
	out := make([]Team, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeTeam(&recs[i]))
	}
	return out
}

// TeamPatch is a sparse create/update for a team record. MemberIDs and
// CohortIDs replace the linked lists wholesale when set.
type TeamPatch struct {
	Name        *string
	Description *string
	CohortIDs   *[]string
	MemberIDs   *[]string
}

// Fields renders the patch as raw store columns.
func (p TeamPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.Name != nil {
		fields[TeamFieldName] = *p.Name
	}
	if p.Description != nil {
		fields[TeamFieldDescription] = *p.Description
	}
	if p.CohortIDs != nil {
		fields[TeamFieldCohorts] = *p.CohortIDs
	}
	if p.MemberIDs != nil {
		fields[TeamFieldMembers] = *p.MemberIDs
	}
	return fields
}
