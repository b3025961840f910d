package airtable

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Table is a handle on one record-store table. Obtain handles through
// Client.Table so they stay memoized per logical name.
type Table struct {
	client *Client
	name   string // logical name, used in error context
	id     string // Airtable table ID
}

// Name returns the logical table name.
func (t *Table) Name() string {
	return t.name
}

// SortField describes one sort term for a Select.
type SortField struct {
	Field     string
	Direction string // "asc" or "desc"
}

// SelectOptions narrows a Select call.
type SelectOptions struct {
	// Formula is a filterByFormula expression; build one with And/Eq.
	Formula string
	Sort    []SortField
	// MaxRecords caps the total number of records returned; 0 means all.
	MaxRecords int
	// Fields restricts which columns come back; empty means all.
	Fields []string
}

type recordList struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type recordBody struct {
	Fields   Fields `json:"fields"`
	Typecast bool   `json:"typecast,omitempty"`
}

// Find fetches one record by ID. A missing record is a nil record with a
// nil error, so callers can distinguish "doesn't exist" from "failed".
func (t *Table) Find(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("find %s: record id is required", t.name)
	}

	var rec Record
	err := t.client.doRequest(ctx, http.MethodGet, t.path()+"/"+url.PathEscape(id), nil, &rec)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s %q: %w", t.name, id, err)
	}
	return &rec, nil
}

// Select lists records matching opts, following pagination offsets until
// the store is exhausted (or MaxRecords is hit). No matches yields an
// empty slice, never an error.
func (t *Table) Select(ctx context.Context, opts SelectOptions) ([]Record, error) {
	records := []Record{}
	offset := ""

	for {
		query := url.Values{}
		if opts.Formula != "" {
			query.Set("filterByFormula", opts.Formula)
		}
		if opts.MaxRecords > 0 {
			query.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
		}
		for i, s := range opts.Sort {
			query.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
			direction := s.Direction
			if direction == "" {
				direction = "asc"
			}
			query.Set(fmt.Sprintf("sort[%d][direction]", i), direction)
		}
		for _, f := range opts.Fields {
			query.Add("fields[]", f)
		}
		if offset != "" {
			query.Set("offset", offset)
		}

		endpoint := t.path()
		if encoded := query.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}

		var page recordList
		if err := t.client.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, fmt.Errorf("select %s: %w", t.name, err)
		}

		records = append(records, page.Records...)
		if page.Offset == "" {
			break
		}
		if opts.MaxRecords > 0 && len(records) >= opts.MaxRecords {
			records = records[:opts.MaxRecords]
			break
		}
		offset = page.Offset
	}

	return records, nil
}

// Create inserts one record and returns it with its store-assigned ID.
func (t *Table) Create(ctx context.Context, fields Fields) (*Record, error) {
	var rec Record
	body := recordBody{Fields: fields, Typecast: true}
	if err := t.client.doRequest(ctx, http.MethodPost, t.path(), body, &rec); err != nil {
		return nil, fmt.Errorf("create %s: %w", t.name, err)
	}
	return &rec, nil
}

// Update patches the given fields of one record. Columns absent from the
// patch keep their current values.
func (t *Table) Update(ctx context.Context, id string, fields Fields) (*Record, error) {
	if id == "" {
		return nil, fmt.Errorf("update %s: record id is required", t.name)
	}

	var rec Record
	body := recordBody{Fields: fields, Typecast: true}
	err := t.client.doRequest(ctx, http.MethodPatch, t.path()+"/"+url.PathEscape(id), body, &rec)
	if err != nil {
		return nil, fmt.Errorf("update %s %q: %w", t.name, id, err)
	}
	return &rec, nil
}

// Delete removes one record.
func (t *Table) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete %s: record id is required", t.name)
	}

	if err := t.client.doRequest(ctx, http.MethodDelete, t.path()+"/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete %s %q: %w", t.name, id, err)
	}
	return nil
}

func (t *Table) path() string {
	return "/" + url.PathEscape(t.id)
}
