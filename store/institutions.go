package store

import (
	"context"
	"strings"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

const institutionsKey = "institutions:all"

// Institutions lists every institution, sorted by name.
func (s *Store) Institutions(ctx context.Context) ([]model.Institution, error) {
	records, err := s.api.Select(ctx, TableInstitutions, airtable.SelectOptions{
		Sort: []airtable.SortField{{Field: model.InstitutionFieldName}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeInstitutions(records), nil
}

// GetInstitutions is the cached read; the list changes rarely.
func (s *Store) GetInstitutions(ctx context.Context) ([]model.Institution, error) {
	return cachedFetch(ctx, s, institutionsKey, func(ctx context.Context) ([]model.Institution, error) {
		return s.Institutions(ctx)
	})
}

// RefreshInstitutions drops the cached list and reloads it. Run from the
// background sweep.
func (s *Store) RefreshInstitutions(ctx context.Context) error {
	s.invalidate(ctx, institutionsKey)
	_, err := s.GetInstitutions(ctx)
	return err
}

// MatchInstitutionByEmail finds the institution whose registered email
// domain matches the address, or nil when none does.
func (s *Store) MatchInstitutionByEmail(ctx context.Context, email string) (*model.Institution, error) {
	if email == "" {
		return nil, missingField("match institution", "email")
	}

	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return nil, nil
	}
	domain := strings.ToLower(email[at+1:])

	institutions, err := s.GetInstitutions(ctx)
	if err != nil {
		return nil, err
	}

	for i := range institutions {
		for _, d := range institutions[i].Domains {
			if strings.EqualFold(d, domain) {
				return &institutions[i], nil
			}
		}
	}
	return nil, nil
}
