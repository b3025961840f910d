package model

import "github.com/propelhq/propel-api/airtable"

// Raw column names in the Education table.
const (
	EducationFieldContact            = "Contact"
	EducationFieldInstitution        = "Institution"
	EducationFieldDegreeType         = "Degree Type"
	EducationFieldMajor              = "Major"
	EducationFieldGraduationYear     = "Graduation Year"
	EducationFieldGraduationSemester = "Graduation Semester"
)

// Education is one degree a contact is pursuing or holds.
type Education struct {
	ID                 string `json:"id"`
	ContactID          string `json:"contactId"`
	InstitutionID      string `json:"institutionId"`
	DegreeType         string `json:"degreeType"`
	Major              string `json:"major"`
	GraduationYear     int    `json:"graduationYear"`
	GraduationSemester string `json:"graduationSemester"`
}

// NormalizeEducation maps a raw store record to an Education.
func NormalizeEducation(rec *airtable.Record) *Education {
	if rec == nil {
		return nil
	}
	return &Education{
		ID:                 rec.ID,
		ContactID:          rec.Fields.FirstString(EducationFieldContact),
		InstitutionID:      rec.Fields.FirstString(EducationFieldInstitution),
		DegreeType:         rec.Fields.String(EducationFieldDegreeType),
		Major:              rec.Fields.String(EducationFieldMajor),
		GraduationYear:     rec.Fields.Int(EducationFieldGraduationYear),
		GraduationSemester: rec.Fields.String(EducationFieldGraduationSemester),
	}
}

// NormalizeEducations maps a result page.
func NormalizeEducations(recs []airtable.Record) []Education {
	out := make([]Education, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeEducation(&recs[i]))
	}
	return out
}

// EducationPatch is a sparse create/update for an education record.
type EducationPatch struct {
	ContactID          *string
	InstitutionID      *string
	DegreeType         *string
	Major              *string
	GraduationYear     *int
	GraduationSemester *string
}

// Fields renders the patch as raw store columns. Linked-record columns
// take single-element ID arrays.
func (p EducationPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.ContactID != nil {
		fields[EducationFieldContact] = []string{*p.ContactID}
	}
	if p.InstitutionID != nil {
		fields[EducationFieldInstitution] = []string{*p.InstitutionID}
	}
	if p.DegreeType != nil {
		fields[EducationFieldDegreeType] = *p.DegreeType
	}
	if p.Major != nil {
		fields[EducationFieldMajor] = *p.Major
	}
	if p.GraduationYear != nil {
		fields[EducationFieldGraduationYear] = *p.GraduationYear
	}
	if p.GraduationSemester != nil {
		fields[EducationFieldGraduationSemester] = *p.GraduationSemester
	}
	return fields
}
