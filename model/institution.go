package model

import "github.com/propelhq/propel-api/airtable"

// Raw column names in the Institutions table.
const (
	InstitutionFieldName    = "Name"
	InstitutionFieldDomains = "Email Domains"
)

// Institution is a school referenced by education and cohort records.
type Institution struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

// NormalizeInstitution maps a raw store record to an Institution.
func NormalizeInstitution(rec *airtable.Record) *Institution {
	if rec == nil {
		return nil
	}
	return &Institution{
		ID:      rec.ID,
		Name:    rec.Fields.String(InstitutionFieldName),
		Domains: rec.Fields.StringSlice(InstitutionFieldDomains),
	}
}

// NormalizeInstitutions maps a result page.
func NormalizeInstitutions(recs []airtable.Record) []Institution {
	out := make([]Institution, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeInstitution(&recs[i]))
	}
	return out
}
