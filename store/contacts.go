package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

func contactEmailKey(email string) string {
	return "contacts:email:" + strings.ToLower(email)
}

// ContactByID fetches one contact. A missing record is (nil, nil).
func (s *Store) ContactByID(ctx context.Context, id string) (*model.Contact, error) {
	if id == "" {
		return nil, missingField("contact by id", "id")
	}

	rec, err := s.api.Find(ctx, TableContacts, id)
	if err != nil {
		return nil, err
	}
	return model.NormalizeContact(rec), nil
}

// ContactByEmail fetches the contact registered under email, or nil.
func (s *Store) ContactByEmail(ctx context.Context, email string) (*model.Contact, error) {
	if email == "" {
		return nil, missingField("contact by email", "email")
	}

	records, err := s.api.Select(ctx, TableContacts, airtable.SelectOptions{
		Formula:    airtable.Eq(model.ContactFieldEmail, strings.ToLower(email)),
		MaxRecords: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return model.NormalizeContact(&records[0]), nil
}

// GetContactByEmail is the cached read used on every authenticated
// request to resolve the caller.
func (s *Store) GetContactByEmail(ctx context.Context, email string) (*model.Contact, error) {
	if email == "" {
		return nil, missingField("contact by email", "email")
	}

	return cachedFetch(ctx, s, contactEmailKey(email), func(ctx context.Context) (*model.Contact, error) {
		return s.ContactByEmail(ctx, email)
	})
}

// CreateContact registers a contact record for a new user. Email is
// required; the onboarding status starts at Registered unless set.
func (s *Store) CreateContact(ctx context.Context, patch model.ContactPatch) (*model.Contact, error) {
	if patch.Email == nil || *patch.Email == "" {
		return nil, missingField("create contact", "email")
	}
	if patch.OnboardingStatus == nil {
		status := model.OnboardingRegistered
		patch.OnboardingStatus = &status
	}

	rec, err := s.api.Create(ctx, TableContacts, patch.Fields())
	if err != nil {
		return nil, err
	}

	contact := model.NormalizeContact(rec)
	s.invalidate(ctx, contactEmailKey(contact.Email))
	return contact, nil
}

// UpdateContact patches profile fields. Only fields set on the patch are
// sent; nothing else is overwritten.
func (s *Store) UpdateContact(ctx context.Context, id string, patch model.ContactPatch) (*model.Contact, error) {
	if id == "" {
		return nil, missingField("update contact", "id")
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, emptyPatch("update contact")
	}

	rec, err := s.api.Update(ctx, TableContacts, id, fields)
	if err != nil {
		return nil, err
	}

	contact := model.NormalizeContact(rec)
	s.invalidate(ctx, contactEmailKey(contact.Email))
	return contact, nil
}

// UpdateOnboardingStatus moves a contact through onboarding.
func (s *Store) UpdateOnboardingStatus(ctx context.Context, id, status string) (*model.Contact, error) {
	if status == "" {
		return nil, missingField("update onboarding status", "status")
	}
	contact, err := s.UpdateContact(ctx, id, model.ContactPatch{OnboardingStatus: &status})
	if err != nil {
		return nil, fmt.Errorf("update onboarding status: %w", err)
	}
	return contact, nil
}
