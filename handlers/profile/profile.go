package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/middleware"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// ProfileHandler serves the authenticated contact's own record.
type ProfileHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	return &ProfileHandler{
		store:     s,
		validator: validation.NewValidator(),
	}
}

// UpdateProfileRequest represents the request body for updating a profile.
// All fields optional; only provided fields change.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
}

// GetProfile handles GET /api/user/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	return response.Entity(c, "profile", contact)
}

// UpdateProfile handles PATCH /api/user/profile
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.ContactPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	updated, err := h.store.UpdateContact(c.Context(), contact.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrEmptyPatch) {
			return response.BadRequest(c, "No fields to update")
		}
		return response.BadGateway(c, "Failed to update profile")
	}

	return response.Entity(c, "profile", updated)
}

// GetOnboarding handles GET /api/user/onboarding
func (h *ProfileHandler) GetOnboarding(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	return response.Entity(c, "onboarding", fiber.Map{
		"status": contact.OnboardingStatus,
	})
}

// CompleteOnboarding handles POST /api/user/onboarding/complete
func (h *ProfileHandler) CompleteOnboarding(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	updated, err := h.store.UpdateOnboardingStatus(c.Context(), contact.ID, model.OnboardingCompleted)
	if err != nil {
		return response.BadGateway(c, "Failed to update onboarding status")
	}

	return response.Entity(c, "onboarding", fiber.Map{
		"status": updated.OnboardingStatus,
	})
}
