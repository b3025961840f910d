// Package store exposes the named read/write operations for each
// business entity. Operations validate their required identifiers before
// any network call, build equality filters for the record store, map raw
// records through the model normalizers, and wrap frequently-read
// queries in a TTL cache. The record store remains the system of record;
// nothing here persists independently.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/utils/cache"
)

// Logical table names resolved through the record store client's
// configured table map.
const (
	TableContacts       = "contacts"
	TableEducation      = "education"
	TableInstitutions   = "institutions"
	TableInitiatives    = "initiatives"
	TableCohorts        = "cohorts"
	TableTeams          = "teams"
	TableParticipations = "participations"
	TableMilestones     = "milestones"
	TableSubmissions    = "submissions"
	TableResources      = "resources"
	TableEvents         = "events"
	TablePoints         = "points"
	TableRewards        = "rewards"
)

// Validation errors, raised before any store I/O.
var (
	ErrMissingField = errors.New("missing required field")
	ErrEmptyPatch   = errors.New("no fields to update")
)

// RecordAPI is the slice of the record store client the entity modules
// use. *airtable.Client satisfies it; tests substitute a fake.
type RecordAPI interface {
	Find(ctx context.Context, table, id string) (*airtable.Record, error)
	Select(ctx context.Context, table string, opts airtable.SelectOptions) ([]airtable.Record, error)
	Create(ctx context.Context, table string, fields airtable.Fields) (*airtable.Record, error)
	Update(ctx context.Context, table, id string, fields airtable.Fields) (*airtable.Record, error)
	Delete(ctx context.Context, table, id string) error
}

// Store composes the record store client, the normalizers and the
// read-through cache into per-entity operations.
type Store struct {
	api   RecordAPI
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// DefaultTTL is how long cached reads stay fresh.
const DefaultTTL = 5 * time.Minute

// Option tweaks a Store.
type Option func(*Store)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store. cache may be nil, which disables cached reads.
func New(api RecordAPI, c cache.Cache, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{api: api, cache: c, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func missingField(op, field string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrMissingField, field)
}

func emptyPatch(op string) error {
	return fmt.Errorf("%s: %w", op, ErrEmptyPatch)
}

// cachedFetch is the read-through wrapper: serve a fresh cache entry
// under key, or run fetch, store the result for the TTL, and return it.
// Cache failures other than a miss degrade to a direct fetch.
func cachedFetch[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		var hit T
		if err := s.cache.GetJSON(ctx, key, &hit); err == nil {
			return hit, nil
		}
	}

	out, err := fetch(ctx)
	if err != nil {
		return out, err
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, out, s.ttl)
	}
	return out, nil
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil || len(keys) == 0 {
		return
	}
	_ = s.cache.Delete(ctx, keys...)
}
