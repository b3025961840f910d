package store

import (
	"context"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

func educationContactKey(contactID string) string {
	return "education:contact:" + contactID
}

// EducationByContact lists a contact's education records. No records is
// an empty slice, not an error.
func (s *Store) EducationByContact(ctx context.Context, contactID string) ([]model.Education, error) {
	if contactID == "" {
		return nil, missingField("education by contact", "contactId")
	}

	records, err := s.api.Select(ctx, TableEducation, airtable.SelectOptions{
		Formula: airtable.Contains(model.EducationFieldContact, contactID),
		Sort:    []airtable.SortField{{Field: model.EducationFieldGraduationYear, Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeEducations(records), nil
}

// GetEducationByContact is the cached read behind the profile page.
func (s *Store) GetEducationByContact(ctx context.Context, contactID string) ([]model.Education, error) {
	if contactID == "" {
		return nil, missingField("education by contact", "contactId")
	}

	return cachedFetch(ctx, s, educationContactKey(contactID), func(ctx context.Context) ([]model.Education, error) {
		return s.EducationByContact(ctx, contactID)
	})
}

// CreateEducation adds a degree to a contact's profile.
func (s *Store) CreateEducation(ctx context.Context, patch model.EducationPatch) (*model.Education, error) {
	if patch.ContactID == nil || *patch.ContactID == "" {
		return nil, missingField("create education", "contactId")
	}
	if patch.InstitutionID == nil || *patch.InstitutionID == "" {
		return nil, missingField("create education", "institutionId")
	}

	rec, err := s.api.Create(ctx, TableEducation, patch.Fields())
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, educationContactKey(*patch.ContactID))
	return model.NormalizeEducation(rec), nil
}

// UpdateEducation patches a degree record.
func (s *Store) UpdateEducation(ctx context.Context, id string, patch model.EducationPatch) (*model.Education, error) {
	if id == "" {
		return nil, missingField("update education", "id")
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, emptyPatch("update education")
	}

	rec, err := s.api.Update(ctx, TableEducation, id, fields)
	if err != nil {
		return nil, err
	}

	education := model.NormalizeEducation(rec)
	s.invalidate(ctx, educationContactKey(education.ContactID))
	return education, nil
}
