package store

import (
	"context"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

const programsKey = "programs:all"

// Programs lists every initiative, sorted by name.
func (s *Store) Programs(ctx context.Context) ([]model.Program, error) {
	records, err := s.api.Select(ctx, TableInitiatives, airtable.SelectOptions{
		Sort: []airtable.SortField{{Field: model.ProgramFieldName}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizePrograms(records), nil
}

// GetPrograms is the cached read behind the program browser.
func (s *Store) GetPrograms(ctx context.Context) ([]model.Program, error) {
	return cachedFetch(ctx, s, programsKey, func(ctx context.Context) ([]model.Program, error) {
		return s.Programs(ctx)
	})
}

// ProgramByID fetches one initiative. Missing is (nil, nil).
func (s *Store) ProgramByID(ctx context.Context, id string) (*model.Program, error) {
	if id == "" {
		return nil, missingField("program by id", "id")
	}

	rec, err := s.api.Find(ctx, TableInitiatives, id)
	if err != nil {
		return nil, err
	}
	return model.NormalizeProgram(rec), nil
}
