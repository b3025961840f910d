package model

import "github.com/propelhq/propel-api/airtable"

// Raw column names in the Initiatives table.
const (
	ProgramFieldName              = "Name"
	ProgramFieldDescription       = "Description"
	ProgramFieldParticipationType = "Participation Type"
	ProgramFieldCohorts           = "Cohorts"
)

// Participation types for a program.
const (
	ParticipationIndividual = "Individual"
	ParticipationTeam       = "Team"
)

// Program is an initiative that runs one or more cohorts.
type Program struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	ParticipationType string   `json:"participationType"`
	CohortIDs         []string `json:"cohortIds"`
}

// NormalizeProgram maps a raw store record to a Program. An absent
// participation type defaults to Individual.
func NormalizeProgram(rec *airtable.Record) *Program {
	if rec == nil {
		return nil
	}

	participationType := rec.Fields.String(ProgramFieldParticipationType)
	if participationType == "" {
		participationType = ParticipationIndividual
	}

	return &Program{
		ID:                rec.ID,
		Name:              rec.Fields.String(ProgramFieldName),
		Description:       rec.Fields.String(ProgramFieldDescription),
		ParticipationType: participationType,
		CohortIDs:         rec.Fields.StringSlice(ProgramFieldCohorts),
	}
}

// NormalizePrograms maps a result page.
func NormalizePrograms(recs []airtable.Record) []Program {
	out := make([]Program, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeProgram(&recs[i]))
	}
	return out
}
