package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/utils/cache"
)

// fakeAPI is a scriptable RecordAPI that counts calls, so tests can
// assert that validation fires before any network attempt and that the
// read-through cache actually saves round trips.
type fakeAPI struct {
	findCalls   int
	selectCalls int
	createCalls int
	updateCalls int
	deleteCalls int

	findResult    map[string]*airtable.Record // keyed by table
	selectResult  map[string][]airtable.Record
	createdRecord *airtable.Record
	updatedRecord *airtable.Record

	lastSelect airtable.SelectOptions
	lastCreate airtable.Fields
	lastUpdate airtable.Fields
	lastTable  string
	err        error
}

func (f *fakeAPI) Find(_ context.Context, table, id string) (*airtable.Record, error) {
	f.findCalls++
	f.lastTable = table
	if f.err != nil {
		return nil, f.err
	}
	return f.findResult[table], nil
}

func (f *fakeAPI) Select(_ context.Context, table string, opts airtable.SelectOptions) ([]airtable.Record, error) {
	f.selectCalls++
	f.lastTable = table
	f.lastSelect = opts
	if f.err != nil {
		return nil, f.err
	}
	if recs, ok := f.selectResult[table]; ok {
		return recs, nil
	}
	return []airtable.Record{}, nil
}

func (f *fakeAPI) Create(_ context.Context, table string, fields airtable.Fields) (*airtable.Record, error) {
	f.createCalls++
	f.lastTable = table
	f.lastCreate = fields
	if f.err != nil {
		return nil, f.err
	}
	if f.createdRecord != nil {
		return f.createdRecord, nil
	}
	return &airtable.Record{ID: "recCreated", Fields: fields}, nil
}

func (f *fakeAPI) Update(_ context.Context, table, id string, fields airtable.Fields) (*airtable.Record, error) {
	f.updateCalls++
	f.lastTable = table
	f.lastUpdate = fields
	if f.err != nil {
		return nil, f.err
	}
	if f.updatedRecord != nil {
		return f.updatedRecord, nil
	}
	return &airtable.Record{ID: id, Fields: fields}, nil
}

func (f *fakeAPI) Delete(_ context.Context, table, id string) error {
	f.deleteCalls++
	f.lastTable = table
	return f.err
}

func (f *fakeAPI) totalCalls() int {
	return f.findCalls + f.selectCalls + f.createCalls + f.updateCalls + f.deleteCalls
}

func newTestStore(api *fakeAPI) *Store {
	return New(api, nil, time.Minute)
}

func TestSubmissionsByTeamEmptyStore(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(api)

	submissions, err := s.SubmissionsByTeam(context.Background(), "team123")
	require.NoError(t, err)
	require.NotNil(t, submissions)
	assert.Empty(t, submissions)
	assert.Equal(t, TableSubmissions, api.lastTable)
}

func TestMissingRequiredIDFailsBeforeNetwork(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(api)
	ctx := context.Background()

	_, err := s.SubmissionsByTeam(ctx, "")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = s.EducationByContact(ctx, "")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = s.Apply(ctx, "contact1", "", "")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = s.AddTeamMember(ctx, "", "contact1")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = s.ClaimReward(ctx, "", "reward1")
	assert.ErrorIs(t, err, ErrMissingField)

	assert.Zero(t, api.totalCalls(), "validation must fire before any store call")
}

func TestCreateResourceMissingNameFailsBeforeNetwork(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(api)

	_, err := s.CreateResource(context.Background(), model.ResourcePatch{})
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "name")
	assert.Zero(t, api.createCalls, "create must never reach the store")
}

func TestUpdateSubmissionSendsSparsePatch(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(api)

	status := model.SubmissionApproved
	_, err := s.UpdateSubmission(context.Background(), "sub1", model.SubmissionPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, airtable.Fields{"Status": "Approved"}, api.lastUpdate,
		"patch must contain only the explicitly set field")
}

func TestUpdateWithEmptyPatchRejected(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(api)

	_, err := s.UpdateSubmission(context.Background(), "sub1", model.SubmissionPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)
	assert.Zero(t, api.updateCalls)
}

func TestCachedReadWithinTTLFetchesOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	api := &fakeAPI{selectResult: map[string][]airtable.Record{
		TableInstitutions: {{ID: "inst1", Fields: airtable.Fields{"Name": "MIT"}}},
	}}
	s := New(api, cache.NewMemoryWithClock(clock), 5*time.Minute, WithClock(clock))
	ctx := context.Background()

	first, err := s.GetInstitutions(ctx)
	require.NoError(t, err)
	second, err := s.GetInstitutions(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.selectCalls, "second read within TTL must come from cache")

	// Past the TTL the entry expires and the fetch runs again.
	now = now.Add(6 * time.Minute)
	_, err = s.GetInstitutions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.selectCalls)
}

func TestApplyRejectsDuplicate(t *testing.T) {
	deadline := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			TableCohorts: {ID: "cohort1", Fields: airtable.Fields{
				"Status":               model.CohortStatusOpen,
				"Application Deadline": deadline,
			}},
		},
		selectResult: map[string][]airtable.Record{
			TableParticipations: {{ID: "part1", Fields: airtable.Fields{}}},
		},
	}
	s := newTestStore(api)

	_, err := s.Apply(context.Background(), "contact1", "cohort1", "")
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Zero(t, api.createCalls)
}

func TestApplyRejectsClosedCohort(t *testing.T) {
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			TableCohorts: {ID: "cohort1", Fields: airtable.Fields{
				"Status": model.CohortStatusClosed,
			}},
		},
	}
	s := newTestStore(api)

	_, err := s.Apply(context.Background(), "contact1", "cohort1", "")
	assert.ErrorIs(t, err, ErrCohortNotOpen)
	assert.Zero(t, api.createCalls)
}

func TestApplyCreatesPendingParticipation(t *testing.T) {
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			TableCohorts: {ID: "cohort1", Fields: airtable.Fields{
				"Status": model.CohortStatusOpen,
			}},
		},
	}
	s := newTestStore(api)

	participation, err := s.Apply(context.Background(), "contact1", "cohort1", "team1")
	require.NoError(t, err)

	assert.Equal(t, model.ParticipationPending, participation.Status)
	assert.Equal(t, []string{"contact1"}, api.lastCreate["Contact"])
	assert.Equal(t, []string{"cohort1"}, api.lastCreate["Cohort"])
	assert.Equal(t, []string{"team1"}, api.lastCreate["Team"])
}

func TestAddTeamMemberIsIdempotent(t *testing.T) {
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			TableTeams: {ID: "team1", Fields: airtable.Fields{
				"Name":    "Rockets",
				"Members": []interface{}{"contact1"},
			}},
		},
	}
	s := newTestStore(api)

	team, err := s.AddTeamMember(context.Background(), "team1", "contact1")
	require.NoError(t, err)
	assert.Equal(t, []string{"contact1"}, team.MemberIDs)
	assert.Zero(t, api.updateCalls, "re-adding an existing member must not write")

	team, err = s.AddTeamMember(context.Background(), "team1", "contact2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.updateCalls)
	assert.Equal(t, []string{"contact1", "contact2"}, team.MemberIDs)
}

func TestClaimRewardChecksBalance(t *testing.T) {
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			TableRewards: {ID: "reward1", Fields: airtable.Fields{
				"Name": "Sticker pack",
				"Cost": float64(100),
			}},
		},
		selectResult: map[string][]airtable.Record{
			TablePoints: {{ID: "tx1", Fields: airtable.Fields{"Amount": float64(40)}}},
		},
	}
	s := newTestStore(api)

	_, err := s.ClaimReward(context.Background(), "contact1", "reward1")
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Zero(t, api.createCalls)
}

func TestClaimRewardDebitsAndMarksClaimed(t *testing.T) {
	api := &fakeAPI{
		findResult: map[string]*airtable.Record{
			TableRewards: {ID: "reward1", Fields: airtable.Fields{
				"Name": "Sticker pack",
				"Cost": float64(50),
			}},
		},
		selectResult: map[string][]airtable.Record{
			TablePoints: {{ID: "tx1", Fields: airtable.Fields{"Amount": float64(120)}}},
		},
	}
	s := newTestStore(api)

	tx, err := s.ClaimReward(context.Background(), "contact1", "reward1")
	require.NoError(t, err)

	assert.Equal(t, -50, tx.Amount)
	assert.Equal(t, -50, api.lastCreate["Amount"])
	assert.Equal(t, []string{"contact1"}, api.lastUpdate["Claimed By"])
}

func TestContactByEmailNotFoundIsNil(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(api)

	contact, err := s.ContactByEmail(context.Background(), "nobody@example.edu")
	require.NoError(t, err)
	assert.Nil(t, contact)
}

func TestMatchInstitutionByEmail(t *testing.T) {
	api := &fakeAPI{selectResult: map[string][]airtable.Record{
		TableInstitutions: {
			{ID: "inst1", Fields: airtable.Fields{
				"Name":          "State University",
				"Email Domains": []interface{}{"state.edu"},
			}},
		},
	}}
	s := newTestStore(api)
	ctx := context.Background()

	match, err := s.MatchInstitutionByEmail(ctx, "ada@state.edu")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "inst1", match.ID)

	none, err := s.MatchInstitutionByEmail(ctx, "ada@elsewhere.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCloseExpiredCohorts(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	api := &fakeAPI{selectResult: map[string][]airtable.Record{
		TableCohorts: {
			{ID: "cohortPast", Fields: airtable.Fields{
				"Status":               model.CohortStatusOpen,
				"Application Deadline": "2026-02-01",
			}},
			{ID: "cohortFuture", Fields: airtable.Fields{
				"Status":               model.CohortStatusOpen,
				"Application Deadline": "2026-04-01",
			}},
			{ID: "cohortNoDeadline", Fields: airtable.Fields{
				"Status": model.CohortStatusOpen,
			}},
		},
	}}
	s := New(api, nil, time.Minute, WithClock(func() time.Time { return now }))

	closed, err := s.CloseExpiredCohorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, api.updateCalls)
	assert.Equal(t, "Closed", api.lastUpdate["Status"])
}

func TestUpdateParticipationStatus(t *testing.T) {
	api := &fakeAPI{}
	s := newTestStore(api)

	updated, err := s.UpdateParticipationStatus(context.Background(), "recPart1", model.ParticipationApproved)
	require.NoError(t, err)
	assert.Equal(t, model.ParticipationApproved, updated.Status)
	assert.Equal(t, TableParticipations, api.lastTable)
	assert.Equal(t, airtable.Fields{"Status": model.ParticipationApproved}, api.lastUpdate)

	_, err = s.UpdateParticipationStatus(context.Background(), "", model.ParticipationApproved)
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = s.UpdateParticipationStatus(context.Background(), "recPart1", "")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, 1, api.updateCalls)
}

func TestPointsByTeam(t *testing.T) {
	api := &fakeAPI{selectResult: map[string][]airtable.Record{
		TablePoints: {
			{ID: "tx1", Fields: airtable.Fields{
				"Team":   []interface{}{"team1"},
				"Amount": float64(50),
			}},
			{ID: "tx2", Fields: airtable.Fields{
				"Team":   []interface{}{"team1"},
				"Amount": float64(-20),
			}},
		},
	}}
	s := newTestStore(api)

	transactions, err := s.PointsByTeam(context.Background(), "team1")
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, 50, transactions[0].Amount)
	assert.Equal(t, -20, transactions[1].Amount)
	assert.Contains(t, api.lastSelect.Formula, "team1")

	_, err = s.PointsByTeam(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestResourcesByProgram(t *testing.T) {
	api := &fakeAPI{selectResult: map[string][]airtable.Record{
		TableResources: {
			{ID: "res1", Fields: airtable.Fields{
				"Name":       "Fundraising 101",
				"URL":        "https://example.com/fundraising",
				"Scope":      model.ScopeProgram,
				"Initiative": []interface{}{"prog1"},
			}},
		},
	}}
	s := newTestStore(api)

	resources, err := s.ResourcesByProgram(context.Background(), "prog1")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "prog1", resources[0].ProgramID)

	_, err = s.ResourcesByProgram(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, 1, api.selectCalls)
}

func TestEventsByProgram(t *testing.T) {
	api := &fakeAPI{selectResult: map[string][]airtable.Record{
		TableEvents: {
			{ID: "evt1", Fields: airtable.Fields{
				"Name":       "Demo Day",
				"Start Date": "2026-09-15T18:00:00Z",
				"Scope":      model.ScopeProgram,
				"Initiative": []interface{}{"prog1"},
			}},
		},
	}}
	s := newTestStore(api)

	events, err := s.EventsByProgram(context.Background(), "prog1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Demo Day", events[0].Name)
	assert.Equal(t, "prog1", events[0].ProgramID)

	_, err = s.EventsByProgram(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingField)
}
