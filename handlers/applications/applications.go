package applications

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/middleware"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// ApplicationHandler manages cohort applications.
type ApplicationHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(s *store.Store) *ApplicationHandler {
	return &ApplicationHandler{
		store:     s,
		validator: validation.NewValidator(),
	}
}

// ApplyRequest represents the request body for applying to a cohort.
// TeamID is set when the application rides on an existing team.
type ApplyRequest struct {
	CohortID string `json:"cohortId" validate:"required"`
	TeamID   string `json:"teamId" validate:"omitempty"`
}

// UpdateApplicationRequest represents the request body for reviewing an
// application.
type UpdateApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Approved Rejected Withdrawn"`
}

// ListApplications handles GET /api/user/applications
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	applications, err := h.store.ParticipationsByContact(c.Context(), contact.ID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch applications")
	}

	return response.Entity(c, "applications", applications)
}

// Apply handles POST /api/applications
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.TeamID != "" {
		team, err := h.store.TeamByID(c.Context(), req.TeamID)
		if err != nil {
			return response.BadGateway(c, "Failed to fetch team")
		}
		if team == nil {
			return response.NotFound(c, "Team not found")
		}
		if !team.HasMember(contact.ID) {
			return response.Forbidden(c, "You are not a member of this team")
		}
	}

	application, err := h.store.Apply(c.Context(), contact.ID, req.CohortID, req.TeamID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyApplied):
			return response.Conflict(c, "You already applied to this cohort")
		case errors.Is(err, store.ErrCohortNotOpen):
			return response.Conflict(c, "This cohort is not accepting applications")
		case errors.Is(err, store.ErrMissingField):
			return response.BadRequest(c, err.Error())
		}
		return response.BadGateway(c, "Failed to submit application")
	}

	// Applying moves a freshly registered contact forward in onboarding.
	if contact.OnboardingStatus == model.OnboardingRegistered {
		_, _ = h.store.UpdateOnboardingStatus(c.Context(), contact.ID, model.OnboardingApplied)
	}

	return response.Created(c, "application", application)
}

// UpdateApplication handles PATCH /api/applications/:id
// Staff-only; moves an application through review.
func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	var req UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	updated, err := h.store.UpdateParticipationStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			return response.BadRequest(c, err.Error())
		}
		if airtable.IsNotFound(err) {
			return response.NotFound(c, "Application not found")
		}
		return response.BadGateway(c, "Failed to update application")
	}

	return response.Entity(c, "application", updated)
}
