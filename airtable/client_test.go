package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		APIKey:  "test-key",
		BaseID:  "appTestBase",
		BaseURL: srv.URL,
		Tables: map[string]string{
			"contacts":    "tblContacts",
			"submissions": "tblSubmissions",
		},
		RetryConfig: &RetryConfig{
			MaxRetries:     2,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		},
		RateLimiterConfig: &RateLimiterConfig{MaxTokens: 1000, RefillRate: 1000},
	})
}

func TestTableHandleMemoized(t *testing.T) {
	c := testClient(t, http.NotFoundHandler())

	first, err := c.Table("contacts")
	require.NoError(t, err)
	second, err := c.Table("contacts")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestUnconfiguredTableFailsFast(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	_, err := c.Select(context.Background(), "milestones", SelectOptions{})
	require.ErrorIs(t, err, ErrTableNotConfigured)
	assert.Contains(t, err.Error(), "milestones")
	assert.Zero(t, atomic.LoadInt32(&calls), "no request should reach the store")
}

func TestFindMissingRecordIsNil(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"NOT_FOUND","message":"Record not found"}}`))
	}))

	rec, err := c.Find(context.Background(), "contacts", "recMissing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSelectEmptyResultIsEmptySlice(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))

	records, err := c.Select(context.Background(), "submissions", SelectOptions{})
	require.NoError(t, err)
	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSelectFollowsPagination(t *testing.T) {
	var pages int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := atomic.AddInt32(&pages, 1)
		if page == 1 {
			assert.Empty(t, r.URL.Query().Get("offset"))
			_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{}}],"offset":"page2"}`))
			return
		}
		assert.Equal(t, "page2", r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(`{"records":[{"id":"rec2","fields":{}}]}`))
	}))

	records, err := c.Select(context.Background(), "contacts", SelectOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, "rec2", records[1].ID)
}

func TestSelectSendsFormulaAndSort(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "{Status} = 'Open'", q.Get("filterByFormula"))
		assert.Equal(t, "Application Deadline", q.Get("sort[0][field]"))
		assert.Equal(t, "asc", q.Get("sort[0][direction]"))
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))

	_, err := c.Select(context.Background(), "contacts", SelectOptions{
		Formula: Eq("Status", "Open"),
		Sort:    []SortField{{Field: "Application Deadline"}},
	})
	require.NoError(t, err)
}

func TestUpdateSendsOnlyPatchedFields(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)

		var body struct {
			Fields map[string]interface{} `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"Status": "Approved"}, body.Fields)

		_, _ = w.Write([]byte(`{"id":"sub1","fields":{"Status":"Approved"}}`))
	}))

	rec, err := c.Update(context.Background(), "submissions", "sub1", Fields{"Status": "Approved"})
	require.NoError(t, err)
	assert.Equal(t, "Approved", rec.Fields.String("Status"))
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))

	_, err := c.Select(context.Background(), "contacts", SelectOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"bad field"}}`))
	}))

	_, err := c.Create(context.Background(), "contacts", Fields{"Bogus": 1})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_VALUE_FOR_COLUMN", apiErr.Type)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAuthorizationHeaderSet(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))

	_, err := c.Select(context.Background(), "contacts", SelectOptions{})
	require.NoError(t, err)
}
