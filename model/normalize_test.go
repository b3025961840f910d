package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/propel-api/airtable"
)

func TestNormalizeNilRecordIsNil(t *testing.T) {
	assert.Nil(t, NormalizeContact(nil))
	assert.Nil(t, NormalizeEducation(nil))
	assert.Nil(t, NormalizeInstitution(nil))
	assert.Nil(t, NormalizeProgram(nil))
	assert.Nil(t, NormalizeCohort(nil))
	assert.Nil(t, NormalizeTeam(nil))
	assert.Nil(t, NormalizeParticipation(nil))
	assert.Nil(t, NormalizeMilestone(nil))
	assert.Nil(t, NormalizeSubmission(nil))
	assert.Nil(t, NormalizeResource(nil))
	assert.Nil(t, NormalizeEvent(nil))
	assert.Nil(t, NormalizePointsTransaction(nil))
	assert.Nil(t, NormalizeReward(nil))
}

// Normalizing a record with no fields at all must still yield defined
// values everywhere: empty strings and slices, never nil slices.
func TestNormalizeAppliesDefaults(t *testing.T) {
	empty := &airtable.Record{ID: "rec1", Fields: airtable.Fields{}}

	contact := NormalizeContact(empty)
	assert.Equal(t, "rec1", contact.ID)
	assert.Equal(t, "", contact.Email)
	assert.Equal(t, OnboardingRegistered, contact.OnboardingStatus)
	assert.NotNil(t, contact.EducationIDs)
	assert.Empty(t, contact.EducationIDs)
	assert.False(t, contact.IsStaff)

	cohort := NormalizeCohort(empty)
	assert.Equal(t, CohortStatusClosed, cohort.Status)
	assert.True(t, cohort.DeadlineDate.IsZero())

	program := NormalizeProgram(empty)
	assert.Equal(t, ParticipationIndividual, program.ParticipationType)

	submission := NormalizeSubmission(empty)
	assert.Equal(t, SubmissionDraft, submission.Status)
	assert.NotNil(t, submission.FileURLs)

	resource := NormalizeResource(empty)
	assert.Equal(t, ScopeGlobal, resource.Scope)

	participation := NormalizeParticipation(empty)
	assert.Equal(t, ParticipationPending, participation.Status)
}

// Normalization is total: wrong-typed raw values degrade to defaults
// instead of panicking.
func TestNormalizeToleratesWrongTypes(t *testing.T) {
	garbage := &airtable.Record{ID: "rec1", Fields: airtable.Fields{
		ContactFieldEmail:            42,
		ContactFieldFirstName:        []interface{}{"not", "a", "string"},
		ContactFieldEducation:        "recSingle",
		ContactFieldIsStaff:          "yes",
		ContactFieldOnboardingStatus: map[string]interface{}{},
	}}

	contact := NormalizeContact(garbage)
	assert.Equal(t, "", contact.Email)
	assert.Equal(t, "", contact.FirstName)
	assert.Equal(t, []string{"recSingle"}, contact.EducationIDs)
	assert.False(t, contact.IsStaff)
	assert.Equal(t, OnboardingRegistered, contact.OnboardingStatus)
}

// denormalize(normalize(r)) then normalize again must be stable on the
// fields both directions share.
func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	raw := &airtable.Record{ID: "sub1", Fields: airtable.Fields{
		SubmissionFieldTeam:      []interface{}{"team1"},
		SubmissionFieldMilestone: []interface{}{"mile1"},
		SubmissionFieldTitle:     "Prototype demo",
		SubmissionFieldStatus:    "Submitted",
		SubmissionFieldFeedback:  "Looks good",
		SubmissionFieldFileURLs:  []interface{}{"https://cdn.example.com/demo.pdf"},
	}}

	first := NormalizeSubmission(raw)
	patch := SubmissionPatch{
		TeamID:      &first.TeamID,
		MilestoneID: &first.MilestoneID,
		Title:       &first.Title,
		Status:      &first.Status,
		Feedback:    &first.Feedback,
		FileURLs:    &first.FileURLs,
	}

	second := NormalizeSubmission(&airtable.Record{ID: "sub1", Fields: patch.Fields()})
	assert.Equal(t, first, second)
}

// An empty patch must serialize to zero field keys so an update never
// silently overwrites unspecified columns with defaults.
func TestEmptyPatchHasNoFields(t *testing.T) {
	assert.Empty(t, ContactPatch{}.Fields())
	assert.Empty(t, EducationPatch{}.Fields())
	assert.Empty(t, CohortPatch{}.Fields())
	assert.Empty(t, TeamPatch{}.Fields())
	assert.Empty(t, ParticipationPatch{}.Fields())
	assert.Empty(t, SubmissionPatch{}.Fields())
	assert.Empty(t, ResourcePatch{}.Fields())
	assert.Empty(t, EventPatch{}.Fields())
	assert.Empty(t, PointsTransactionPatch{}.Fields())
	assert.Empty(t, RewardPatch{}.Fields())
}

func TestSubmissionPatchIsSparse(t *testing.T) {
	status := SubmissionApproved
	fields := SubmissionPatch{Status: &status}.Fields()

	require.Len(t, fields, 1)
	assert.Equal(t, "Approved", fields[SubmissionFieldStatus])
}

func TestLinkedColumnsPatchAsIDArrays(t *testing.T) {
	contactID := "recContact"
	cohortID := "recCohort"
	fields := ParticipationPatch{ContactID: &contactID, CohortID: &cohortID}.Fields()

	assert.Equal(t, []string{"recContact"}, fields[ParticipationFieldContact])
	assert.Equal(t, []string{"recCohort"}, fields[ParticipationFieldCohort])
}

func TestCohortAcceptsApplications(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	open := &Cohort{Status: CohortStatusOpen, DeadlineDate: now.Add(24 * time.Hour)}
	assert.True(t, open.AcceptsApplications(now))

	noDeadline := &Cohort{Status: CohortStatusOpen}
	assert.True(t, noDeadline.AcceptsApplications(now))

	past := &Cohort{Status: CohortStatusOpen, DeadlineDate: now.Add(-time.Hour)}
	assert.False(t, past.AcceptsApplications(now))

	closed := &Cohort{Status: CohortStatusClosed, DeadlineDate: now.Add(time.Hour)}
	assert.False(t, closed.AcceptsApplications(now))
}
