package teams

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/middleware"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// TeamHandler manages teams and their membership.
type TeamHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(s *store.Store) *TeamHandler {
	return &TeamHandler{
		store:     s,
		validator: validation.NewValidator(),
	}
}

// CreateTeamRequest represents the request body for creating a team.
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	CohortID    string `json:"cohortId" validate:"required"`
}

// AddMemberRequest represents the request body for adding a team member.
type AddMemberRequest struct {
	ContactID string `json:"contactId" validate:"required"`
}

// CreateTeam handles POST /api/teams
func (h *TeamHandler) CreateTeam(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	cohort, err := h.store.CohortByID(c.Context(), req.CohortID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch cohort")
	}
	if cohort == nil {
		return response.NotFound(c, "Cohort not found")
	}

	team, err := h.store.CreateTeam(c.Context(), req.Name, req.Description, req.CohortID, contact.ID)
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			return response.BadRequest(c, err.Error())
		}
		return response.BadGateway(c, err.Error())
	}

	return response.Created(c, "team", team)
}

// GetTeam handles GET /api/teams/:id
func (h *TeamHandler) GetTeam(c *fiber.Ctx) error {
	team, err := h.store.TeamByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch team")
	}
	if team == nil {
		return response.NotFound(c, "Team not found")
	}
	return response.Entity(c, "team", team)
}

// ListMembers handles GET /api/teams/:id/members
func (h *TeamHandler) ListMembers(c *fiber.Ctx) error {
	team, err := h.store.TeamByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch team")
	}
	if team == nil {
		return response.NotFound(c, "Team not found")
	}

	members, err := h.store.TeamMembers(c.Context(), team.ID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch members")
	}

	return response.Entity(c, "members", members)
}

// AddMember handles POST /api/teams/:id/members
func (h *TeamHandler) AddMember(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	team, err := h.store.TeamByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch team")
	}
	if team == nil {
		return response.NotFound(c, "Team not found")
	}
	if !team.HasMember(contact.ID) {
		return response.Forbidden(c, "Only team members can add members")
	}

	updated, err := h.store.AddTeamMember(c.Context(), team.ID, req.ContactID)
	if err != nil {
		return response.BadGateway(c, "Failed to add member")
	}

	return response.Entity(c, "team", updated)
}

// GetTeamPoints handles GET /api/teams/:id/points
func (h *TeamHandler) GetTeamPoints(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	team, err := h.store.TeamByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch team")
	}
	if team == nil {
		return response.NotFound(c, "Team not found")
	}
	if !team.HasMember(contact.ID) && !contact.IsStaff {
		return response.Forbidden(c, "You are not a member of this team")
	}

	transactions, err := h.store.PointsByTeam(c.Context(), team.ID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch points")
	}

	total := 0
	for i := range transactions {
		total += transactions[i].Amount
	}

	return response.Entity(c, "points", fiber.Map{
		"total":        total,
		"transactions": transactions,
	})
}

// RemoveMember handles DELETE /api/teams/:id/members/:contactId
func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	team, err := h.store.TeamByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch team")
	}
	if team == nil {
		return response.NotFound(c, "Team not found")
	}

	target := c.Params("contactId")
	// Members can remove themselves; removing someone else needs
	// membership too.
	if target != contact.ID && !team.HasMember(contact.ID) {
		return response.Forbidden(c, "Only team members can remove members")
	}

	updated, err := h.store.RemoveTeamMember(c.Context(), team.ID, target)
	if err != nil {
		return response.BadGateway(c, "Failed to remove member")
	}

	return response.Entity(c, "team", updated)
}
