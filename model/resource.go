package model

import "github.com/propelhq/propel-api/airtable"

// Raw column names in the Resources table.
const (
	ResourceFieldName       = "Name"
	ResourceFieldURL        = "URL"
	ResourceFieldScope      = "Scope"
	ResourceFieldInitiative = "Initiative"
	ResourceFieldCohort     = "Cohort"
)

// Resource scopes. A global resource shows everywhere; program and
// cohort resources only for their members.
const (
	ScopeGlobal  = "Global"
	ScopeProgram = "Program"
	ScopeCohort  = "Cohort"
)

// Resource is a link shown on a dashboard.
type Resource struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Scope     string `json:"scope"`
	ProgramID string `json:"programId"`
	CohortID  string `json:"cohortId"`
}

// NormalizeResource maps a raw store record to a Resource. An absent
// scope defaults to Global.
func NormalizeResource(rec *airtable.Record) *Resource {
	if rec == nil {
		return nil
	}

	scope := rec.Fields.String(ResourceFieldScope)
	if scope == "" {
		scope = ScopeGlobal
	}

	return &Resource{
		ID:        rec.ID,
		Name:      rec.Fields.String(ResourceFieldName),
		URL:       rec.Fields.String(ResourceFieldURL),
		Scope:     scope,
		ProgramID: rec.Fields.FirstString(ResourceFieldInitiative),
		CohortID:  rec.Fields.FirstString(ResourceFieldCohort),
	}
}

// NormalizeResources maps a result page.
func NormalizeResources(recs []airtable.Record) []Resource {
	out := make([]Resource, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeResource(&recs[i]))
	}
	return out
}

// ResourcePatch is a sparse create/update for a resource.
type ResourcePatch struct {
	Name      *string
	URL       *string
	Scope     *string
	ProgramID *string
	CohortID  *string
}

// Fields renders the patch as raw store columns.
func (p ResourcePatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.Name != nil {
		fields[ResourceFieldName] = *p.Name
	}
	if p.URL != nil {
		fields[ResourceFieldURL] = *p.URL
	}
	if p.Scope != nil {
		fields[ResourceFieldScope] = *p.Scope
	}
	if p.ProgramID != nil {
		fields[ResourceFieldInitiative] = []string{*p.ProgramID}
	}
	if p.CohortID != nil {
		fields[ResourceFieldCohort] = []string{*p.CohortID}
	}
	return fields
}
