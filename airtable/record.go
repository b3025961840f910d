package airtable

import "time"

// Fields is a raw record-store field map keyed by column name.
type Fields map[string]interface{}

// Record is a single row as returned by the record store.
type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      Fields    `json:"fields"`
}

// The accessors below tolerate any raw field shape. The store hands back
// whatever the column type dictates (strings, numbers, linked-record ID
// arrays, checkbox booleans); a missing or wrong-typed value degrades to
// the zero value so normalizers stay total.

// String returns the field as a string, or "" when absent.
func (f Fields) String(key string) string {
	if s, ok := f[key].(string); ok {
		return s
	}
	return ""
}

// StringSlice returns the field as a list of strings. Linked-record
// columns and multi-selects decode as []interface{}; a scalar string is
// treated as a single-element list.
func (f Fields) StringSlice(key string) []string {
	switch v := f[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}

// FirstString returns the first element of a linked-record column, or "".
// Single-link columns still arrive as one-element arrays.
func (f Fields) FirstString(key string) string {
	values := f.StringSlice(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Bool returns the field as a bool; absent checkboxes are false.
func (f Fields) Bool(key string) bool {
	if b, ok := f[key].(bool); ok {
		return b
	}
	return false
}

// Int returns the field as an int. Number columns decode as float64.
func (f Fields) Int(key string) int {
	switch v := f[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Float returns the field as a float64, or 0 when absent.
func (f Fields) Float(key string) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Time parses a date or dateTime column. Returns the zero time when the
// field is absent or unparseable.
func (f Fields) Time(key string) time.Time {
	s, ok := f[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
