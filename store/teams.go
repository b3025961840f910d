package store

import (
	"context"
	"fmt"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
)

// TeamByID fetches one team. Missing is (nil, nil).
func (s *Store) TeamByID(ctx context.Context, id string) (*model.Team, error) {
	if id == "" {
		return nil, missingField("team by id", "id")
	}

	rec, err := s.api.Find(ctx, TableTeams, id)
	if err != nil {
		return nil, err
	}
	return model.NormalizeTeam(rec), nil
}

// TeamsByCohort lists teams attached to a cohort.
func (s *Store) TeamsByCohort(ctx context.Context, cohortID string) ([]model.Team, error) {
	if cohortID == "" {
		return nil, missingField("teams by cohort", "cohortId")
	}

	records, err := s.api.Select(ctx, TableTeams, airtable.SelectOptions{
		Formula: airtable.Contains(model.TeamFieldCohorts, cohortID),
		Sort:    []airtable.SortField{{Field: model.TeamFieldName}},
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeTeams(records), nil
}

// CreateTeam creates a team with the creator as its first member. This
// is a two-step write with no rollback: if the member link fails after
// the team record is created, the error names the completed step and the
// caller resolves the partial state.
func (s *Store) CreateTeam(ctx context.Context, name, description, cohortID, creatorID string) (*model.Team, error) {
	if name == "" {
		return nil, missingField("create team", "name")
	}
	if creatorID == "" {
		return nil, missingField("create team", "creatorId")
	}

	members := []string{creatorID}
	patch := model.TeamPatch{
		Name:      &name,
		MemberIDs: &members,
	}
	if description != "" {
		patch.Description = &description
	}
	if cohortID != "" {
		cohorts := []string{cohortID}
		patch.CohortIDs = &cohorts
	}

	rec, err := s.api.Create(ctx, TableTeams, patch.Fields())
	if err != nil {
		return nil, err
	}
	return model.NormalizeTeam(rec), nil
}

// AddTeamMember links a contact into the team's member list. Adding an
// existing member is a no-op.
func (s *Store) AddTeamMember(ctx context.Context, teamID, contactID string) (*model.Team, error) {
	if teamID == "" {
		return nil, missingField("add team member", "teamId")
	}
	if contactID == "" {
		return nil, missingField("add team member", "contactId")
	}

	team, err := s.TeamByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("add team member: %w", err)
	}
	if team == nil {
		return nil, fmt.Errorf("add team member: team %q not found", teamID)
	}
	if team.HasMember(contactID) {
		return team, nil
	}

	members := append(append([]string{}, team.MemberIDs...), contactID)
	rec, err := s.api.Update(ctx, TableTeams, teamID, model.TeamPatch{MemberIDs: &members}.Fields())
	if err != nil {
		return nil, err
	}
	return model.NormalizeTeam(rec), nil
}

// RemoveTeamMember unlinks a contact from the team's member list.
// Removing a non-member is a no-op.
func (s *Store) RemoveTeamMember(ctx context.Context, teamID, contactID string) (*model.Team, error) {
	if teamID == "" {
		return nil, missingField("remove team member", "teamId")
	}
	if contactID == "" {
		return nil, missingField("remove team member", "contactId")
	}

	team, err := s.TeamByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("remove team member: %w", err)
	}
	if team == nil {
		return nil, fmt.Errorf("remove team member: team %q not found", teamID)
	}
	if !team.HasMember(contactID) {
		return team, nil
	}

	members := make([]string, 0, len(team.MemberIDs))
	for _, id := range team.MemberIDs {
		if id != contactID {
			members = append(members, id)
		}
	}

	rec, err := s.api.Update(ctx, TableTeams, teamID, model.TeamPatch{MemberIDs: &members}.Fields())
	if err != nil {
		return nil, err
	}
	return model.NormalizeTeam(rec), nil
}

// TeamMembers resolves a team's member links into contact records.
func (s *Store) TeamMembers(ctx context.Context, teamID string) ([]model.Contact, error) {
	if teamID == "" {
		return nil, missingField("team members", "teamId")
	}

	team, err := s.TeamByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("team members: %w", err)
	}
	if team == nil || len(team.MemberIDs) == 0 {
		return []model.Contact{}, nil
	}

	terms := make([]string, 0, len(team.MemberIDs))
	for _, id := range team.MemberIDs {
		terms = append(terms, airtable.RecordID(id))
	}

	records, err := s.api.Select(ctx, TableContacts, airtable.SelectOptions{
		Formula: airtable.Or(terms...),
	})
	if err != nil {
		return nil, err
	}
	return model.NormalizeContacts(records), nil
}
