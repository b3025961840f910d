package store

import (
	"context"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

const globalResourcesKey = "resources:global"

func resourcesCohortKey(cohortID string) string {
	return "resources:cohort:" + cohortID
}

func resourcesProgramKey(programID string) string {
	return "resources:program:" + programID
}

// GlobalResources lists resources visible to everyone.
func (s *Store) GlobalResources(ctx context.Context) ([]model.Resource, error) {
	return cachedFetch(ctx, s, globalResourcesKey, func(ctx context.Context) ([]model.Resource, error) {
		records, err := s.api.Select(ctx, TableResources, airtable.SelectOptions{
			Formula: airtable.Eq(model.ResourceFieldScope, model.ScopeGlobal),
			Sort:    []airtable.SortField{{Field: model.ResourceFieldName}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeResources(records), nil
	})
}

// ResourcesByCohort lists a cohort's resources.
func (s *Store) ResourcesByCohort(ctx context.Context, cohortID string) ([]model.Resource, error) {
	if cohortID == "" {
		return nil, missingField("resources by cohort", "cohortId")
	}

	return cachedFetch(ctx, s, resourcesCohortKey(cohortID), func(ctx context.Context) ([]model.Resource, error) {
		records, err := s.api.Select(ctx, TableResources, airtable.SelectOptions{
			Formula: airtable.Contains(model.ResourceFieldCohort, cohortID),
			Sort:    []airtable.SortField{{Field: model.ResourceFieldName}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeResources(records), nil
	})
}

// ResourcesByProgram lists a program's resources.
func (s *Store) ResourcesByProgram(ctx context.Context, programID string) ([]model.Resource, error) {
	if programID == "" {
		return nil, missingField("resources by program", "programId")
	}

	return cachedFetch(ctx, s, resourcesProgramKey(programID), func(ctx context.Context) ([]model.Resource, error) {
		records, err := s.api.Select(ctx, TableResources, airtable.SelectOptions{
			Formula: airtable.Contains(model.ResourceFieldInitiative, programID),
			Sort:    []airtable.SortField{{Field: model.ResourceFieldName}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeResources(records), nil
	})
}

// CreateResource adds a resource. Name and URL are required; scope
// defaults to Global when unset.
func (s *Store) CreateResource(ctx context.Context, patch model.ResourcePatch) (*model.Resource, error) {
	if patch.Name == nil || *patch.Name == "" {
		return nil, missingField("create resource", "name")
	}
	if patch.URL == nil || *patch.URL == "" {
		return nil, missingField("create resource", "url")
	}

	rec, err := s.api.Create(ctx, TableResources, patch.Fields())
	if err != nil {
		return nil, err
	}

	resource := model.NormalizeResource(rec)
	s.invalidateResource(ctx, resource)
	return resource, nil
}

// UpdateResource patches a resource.
func (s *Store) UpdateResource(ctx context.Context, id string, patch model.ResourcePatch) (*model.Resource, error) {
	if id == "" {
		return nil, missingField("update resource", "id")
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, emptyPatch("update resource")
	}

	rec, err := s.api.Update(ctx, TableResources, id, fields)
	if err != nil {
		return nil, err
	}

	resource := model.NormalizeResource(rec)
	s.invalidateResource(ctx, resource)
	return resource, nil
}

// DeleteResource removes a resource; one of the two entities with a
// hard delete.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	if id == "" {
		return missingField("delete resource", "id")
	}

	resource, err := s.ResourceByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.api.Delete(ctx, TableResources, id); err != nil {
		return err
	}
	if resource != nil {
		s.invalidateResource(ctx, resource)
	}
	return nil
}

// ResourceByID fetches one resource. Missing is (nil, nil).
func (s *Store) ResourceByID(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, missingField("resource by id", "id")
	}

	rec, err := s.api.Find(ctx, TableResources, id)
	if err != nil {
		return nil, err
	}
	return model.NormalizeResource(rec), nil
}

func (s *Store) invalidateResource(ctx context.Context, r *model.Resource) {
	keys := []string{globalResourcesKey}
	if r.CohortID != "" {
		keys = append(keys, resourcesCohortKey(r.CohortID))
	}
	if r.ProgramID != "" {
		keys = append(keys, resourcesProgramKey(r.ProgramID))
	}
	s.invalidate(ctx, keys...)
}
