package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/store"
)

// fakeAPI is a scriptable record store backend.
type fakeAPI struct {
	findResult   map[string]*airtable.Record
	selectResult map[string][]airtable.Record
	createCalls  int
}

func (f *fakeAPI) Find(_ context.Context, table, id string) (*airtable.Record, error) {
	return f.findResult[table], nil
}

func (f *fakeAPI) Select(_ context.Context, table string, _ airtable.SelectOptions) ([]airtable.Record, error) {
	if recs, ok := f.selectResult[table]; ok {
		return recs, nil
	}
	return []airtable.Record{}, nil
}

func (f *fakeAPI) Create(_ context.Context, table string, fields airtable.Fields) (*airtable.Record, error) {
	f.createCalls++
	return &airtable.Record{ID: "recCreated", Fields: fields}, nil
}

func (f *fakeAPI) Update(_ context.Context, table, id string, fields airtable.Fields) (*airtable.Record, error) {
	return &airtable.Record{ID: id, Fields: fields}, nil
}

func (f *fakeAPI) Delete(_ context.Context, table, id string) error {
	return nil
}

func newTestApp(api *fakeAPI, contact *model.Contact) *fiber.App {
	s := store.New(api, nil, 0)
	handler := NewApplicationHandler(s)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("contact", contact)
		return c.Next()
	})
	app.Get("/api/user/applications", handler.ListApplications)
	app.Post("/api/applications", handler.Apply)
	return app
}

func openCohortRecord() *airtable.Record {
	deadline := time.Now().Add(48 * time.Hour)
	return &airtable.Record{
		ID: "recCohort1",
		Fields: airtable.Fields{
			model.CohortFieldName:     "Spring 2027",
			model.CohortFieldStatus:   model.CohortStatusOpen,
			model.CohortFieldDeadline: deadline.Format(time.RFC3339),
		},
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			store.TableCohorts: openCohortRecord(),
		},
	}
	contact := &model.Contact{ID: "recContact1", OnboardingStatus: model.OnboardingCompleted}
	app := newTestApp(api, contact)

	status, body := postJSON(t, app, "/api/applications", map[string]string{
		"cohortId": "recCohort1",
	})

	assert.Equal(t, fiber.StatusCreated, status)
	require.Contains(t, body, "application")
	application := body["application"].(map[string]interface{})
	assert.Equal(t, model.ParticipationPending, application["status"])
	assert.Equal(t, 1, api.createCalls)
}

func TestApplyRejectsDuplicate(t *testing.T) {
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			store.TableCohorts: openCohortRecord(),
		},
		selectResult: map[string][]airtable.Record{
			store.TableParticipations: {
				{ID: "recExisting", Fields: airtable.Fields{
					model.ParticipationFieldStatus: model.ParticipationPending,
				}},
			},
		},
	}
	contact := &model.Contact{ID: "recContact1", OnboardingStatus: model.OnboardingCompleted}
	app := newTestApp(api, contact)

	status, body := postJSON(t, app, "/api/applications", map[string]string{
		"cohortId": "recCohort1",
	})

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["error"])
	assert.Equal(t, 0, api.createCalls)
}

func TestApplyRejectsClosedCohort(t *testing.T) {
	closed := openCohortRecord()
	closed.Fields[model.CohortFieldStatus] = model.CohortStatusClosed

	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			store.TableCohorts: closed,
		},
	}
	contact := &model.Contact{ID: "recContact1", OnboardingStatus: model.OnboardingCompleted}
	app := newTestApp(api, contact)

	status, _ := postJSON(t, app, "/api/applications", map[string]string{
		"cohortId": "recCohort1",
	})

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, 0, api.createCalls)
}

func TestApplyValidatesBody(t *testing.T) {
	api := &fakeAPI{}
	contact := &model.Contact{ID: "recContact1"}
	app := newTestApp(api, contact)

	status, body := postJSON(t, app, "/api/applications", map[string]string{})

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
}

func TestListApplicationsEnvelope(t *testing.T) {
	api := &fakeAPI{
		selectResult: map[string][]airtable.Record{
			store.TableParticipations: {
				{ID: "recPart1", Fields: airtable.Fields{
					model.ParticipationFieldStatus: model.ParticipationApproved,
				}},
			},
		},
	}
	contact := &model.Contact{ID: "recContact1"}
	app := newTestApp(api, contact)

	req := httptest.NewRequest("GET", "/api/user/applications", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string][]model.Participation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body["applications"], 1)
	assert.Equal(t, model.ParticipationApproved, body["applications"][0].Status)
}

func TestUpdateApplicationMovesStatus(t *testing.T) {
	api := &fakeAPI{}
	contact := &model.Contact{ID: "recStaff1", IsStaff: true}
	s := store.New(api, nil, 0)
	handler := NewApplicationHandler(s)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("contact", contact)
		return c.Next()
	})
	app.Patch("/api/applications/:id", handler.UpdateApplication)

	payload, err := json.Marshal(map[string]string{"status": model.ParticipationApproved})
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH", "/api/applications/recPart1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]model.Participation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, model.ParticipationApproved, body["application"].Status)
	assert.Equal(t, "recPart1", body["application"].ID)
}

func TestUpdateApplicationRejectsUnknownStatus(t *testing.T) {
	api := &fakeAPI{}
	contact := &model.Contact{ID: "recStaff1", IsStaff: true}
	s := store.New(api, nil, 0)
	handler := NewApplicationHandler(s)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("contact", contact)
		return c.Next()
	})
	app.Patch("/api/applications/:id", handler.UpdateApplication)

	payload, err := json.Marshal(map[string]string{"status": "Shortlisted"})
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH", "/api/applications/recPart1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
