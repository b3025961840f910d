package model

import "github.com/propelhq/propel-api/airtable"

// Raw column names in the Contacts table. Store-side names stay inside
// this package; everything downstream works with the normalized shape.
const (
	ContactFieldEmail            = "Email"
	ContactFieldFirstName        = "First Name"
	ContactFieldLastName         = "Last Name"
	ContactFieldOnboardingStatus = "Onboarding Status"
	ContactFieldEducation        = "Education"
	ContactFieldParticipations   = "Participations"
	ContactFieldTeams            = "Teams"
	ContactFieldIsStaff          = "Is Staff"
)

// Onboarding statuses a contact moves through.
const (
	OnboardingRegistered = "Registered"
	OnboardingApplied    = "Applied"
	OnboardingCompleted  = "Completed"
)

// Contact is a registered user of the dashboard.
type Contact struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	OnboardingStatus string   `json:"onboardingStatus"`
	EducationIDs     []string `json:"educationIds"`
	ParticipationIDs []string `json:"participationIds"`
	TeamIDs          []string `json:"teamIds"`
	IsStaff          bool     `json:"isStaff"`
}

// NormalizeContact maps a raw store record to a Contact. nil in, nil out;
// otherwise every field is populated, absent columns defaulting to empty
// values so callers never branch on missing vs empty.
func NormalizeContact(rec *airtable.Record) *Contact {
	if rec == nil {
		return nil
	}

	status := rec.Fields.String(ContactFieldOnboardingStatus)
	if status == "" {
		status = OnboardingRegistered
	}

	return &Contact{
		ID:               rec.ID,
		Email:            rec.Fields.String(ContactFieldEmail),
		FirstName:        rec.Fields.String(ContactFieldFirstName),
		LastName:         rec.Fields.String(ContactFieldLastName),
		OnboardingStatus: status,
		EducationIDs:     rec.Fields.StringSlice(ContactFieldEducation),
		ParticipationIDs: rec.Fields.StringSlice(ContactFieldParticipations),
		TeamIDs:          rec.Fields.StringSlice(ContactFieldTeams),
		IsStaff:          rec.Fields.Bool(ContactFieldIsStaff),
	}
}

// NormalizeContacts maps a result page.
func NormalizeContacts(recs []airtable.Record) []Contact {
	out := make([]Contact, 0, len(recs))
	for i := range recs {
		out = append(out, *NormalizeContact(&recs[i]))
	}
	return out
}

// ContactPatch is a sparse update. Only fields the caller set end up in
// the outgoing field map; unset fields are never overwritten with
// defaults.
type ContactPatch struct {
	Email            *string
	FirstName        *string
	LastName         *string
	OnboardingStatus *string
}

// Fields renders the patch as raw store columns.
func (p ContactPatch) Fields() airtable.Fields {
	fields := airtable.Fields{}
	if p.Email != nil {
		fields[ContactFieldEmail] = *p.Email
	}
	if p.FirstName != nil {
		fields[ContactFieldFirstName] = *p.FirstName
	}
	if p.LastName != nil {
		fields[ContactFieldLastName] = *p.LastName
	}
	if p.OnboardingStatus != nil {
		fields[ContactFieldOnboardingStatus] = *p.OnboardingStatus
	}
	return fields
}
