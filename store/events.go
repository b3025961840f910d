package store

import (
	"context"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

const globalEventsKey = "events:global"

func eventsCohortKey(cohortID string) string {
	return "events:cohort:" + cohortID
}

func eventsProgramKey(programID string) string {
	return "events:program:" + programID
}

// GlobalEvents lists events visible to everyone, soonest first.
func (s *Store) GlobalEvents(ctx context.Context) ([]model.Event, error) {
	return cachedFetch(ctx, s, globalEventsKey, func(ctx context.Context) ([]model.Event, error) {
		records, err := s.api.Select(ctx, TableEvents, airtable.SelectOptions{
			Formula: airtable.Eq(model.EventFieldScope, model.ScopeGlobal),
			Sort:    []airtable.SortField{{Field: model.EventFieldStartDate}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeEvents(records), nil
	})
}

// EventsByCohort lists a cohort's events.
func (s *Store) EventsByCohort(ctx context.Context, cohortID string) ([]model.Event, error) {
	if cohortID == "" {
		return nil, missingField("events by cohort", "cohortId")
	}

	return cachedFetch(ctx, s, eventsCohortKey(cohortID), func(ctx context.Context) ([]model.Event, error) {
		records, err := s.api.Select(ctx, TableEvents, airtable.SelectOptions{
			Formula: airtable.Contains(model.EventFieldCohort, cohortID),
			Sort:    []airtable.SortField{{Field: model.EventFieldStartDate}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeEvents(records), nil
	})
}

// EventsByProgram lists a program's events.
func (s *Store) EventsByProgram(ctx context.Context, programID string) ([]model.Event, error) {
	if programID == "" {
		return nil, missingField("events by program", "programId")
	}

	return cachedFetch(ctx, s, eventsProgramKey(programID), func(ctx context.Context) ([]model.Event, error) {
		records, err := s.api.Select(ctx, TableEvents, airtable.SelectOptions{
			Formula: airtable.Contains(model.EventFieldInitiative, programID),
			Sort:    []airtable.SortField{{Field: model.EventFieldStartDate}},
		})
		if err != nil {
			return nil, err
		}
		return model.NormalizeEvents(records), nil
	})
}

// CreateEvent adds an event. A name and start date are required.
func (s *Store) CreateEvent(ctx context.Context, patch model.EventPatch) (*model.Event, error) {
	if patch.Name == nil || *patch.Name == "" {
		return nil, missingField("create event", "name")
	}
	if patch.StartDate == nil {
		return nil, missingField("create event", "startDate")
	}

	rec, err := s.api.Create(ctx, TableEvents, patch.Fields())
	if err != nil {
		return nil, err
	}

	event := model.NormalizeEvent(rec)
	s.invalidateEvent(ctx, event)
	return event, nil
}

// UpdateEvent patches an event.
func (s *Store) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	if id == "" {
		return nil, missingField("update event", "id")
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, emptyPatch("update event")
	}

	rec, err := s.api.Update(ctx, TableEvents, id, fields)
	if err != nil {
		return nil, err
	}

	event := model.NormalizeEvent(rec)
	s.invalidateEvent(ctx, event)
	return event, nil
}

// DeleteEvent removes an event; the other entity with a hard delete.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return missingField("delete event", "id")
	}

	event, err := s.EventByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.api.Delete(ctx, TableEvents, id); err != nil {
		return err
	}
	if event != nil {
		s.invalidateEvent(ctx, event)
	}
	return nil
}

// EventByID fetches one event. Missing is (nil, nil).
func (s *Store) EventByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, missingField("event by id", "id")
	}

	rec, err := s.api.Find(ctx, TableEvents, id)
	if err != nil {
		return nil, err
	}
	return model.NormalizeEvent(rec), nil
}

func (s *Store) invalidateEvent(ctx context.Context, e *model.Event) {
	keys := []string{globalEventsKey}
	if e.CohortID != "" {
		keys = append(keys, eventsCohortKey(e.CohortID))
	}
	if e.ProgramID != "" {
		keys = append(keys, eventsProgramKey(e.ProgramID))
	}
	s.invalidate(ctx, keys...)
}
