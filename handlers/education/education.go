package education

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/middleware"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// EducationHandler manages the caller's education history.
type EducationHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewEducationHandler creates a new education handler.
func NewEducationHandler(s *store.Store) *EducationHandler {
	return &EducationHandler{
		store:     s,
		validator: validation.NewValidator(),
	}
}

// CreateEducationRequest represents the request body for adding an
// education record.
type CreateEducationRequest struct {
	InstitutionID      string `json:"institutionId" validate:"required"`
	DegreeType         string `json:"degreeType" validate:"omitempty,max=100"`
	Major              string `json:"major" validate:"omitempty,max=255"`
	GraduationYear     int    `json:"graduationYear" validate:"omitempty,min=1950,max=2100"`
	GraduationSemester string `json:"graduationSemester" validate:"omitempty,max=50"`
}

// UpdateEducationRequest represents the request body for updating an
// education record. All fields optional.
type UpdateEducationRequest struct {
	InstitutionID      *string `json:"institutionId" validate:"omitempty"`
	DegreeType         *string `json:"degreeType" validate:"omitempty,max=100"`
	Major              *string `json:"major" validate:"omitempty,max=255"`
	GraduationYear     *int    `json:"graduationYear" validate:"omitempty,min=1950,max=2100"`
	GraduationSemester *string `json:"graduationSemester" validate:"omitempty,max=50"`
}

// ListEducation handles GET /api/user/education
func (h *EducationHandler) ListEducation(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	records, err := h.store.GetEducationByContact(c.Context(), contact.ID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch education")
	}

	return response.Entity(c, "education", records)
}

// CreateEducation handles POST /api/user/education
func (h *EducationHandler) CreateEducation(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateEducationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.EducationPatch{
		ContactID:     &contact.ID,
		InstitutionID: &req.InstitutionID,
	}
	if req.DegreeType != "" {
		patch.DegreeType = &req.DegreeType
	}
	if req.Major != "" {
		patch.Major = &req.Major
	}
	if req.GraduationYear != 0 {
		patch.GraduationYear = &req.GraduationYear
	}
	if req.GraduationSemester != "" {
		patch.GraduationSemester = &req.GraduationSemester
	}

	created, err := h.store.CreateEducation(c.Context(), patch)
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			return response.BadRequest(c, err.Error())
		}
		return response.BadGateway(c, "Failed to create education record")
	}

	return response.Created(c, "education", created)
}

// UpdateEducation handles PATCH /api/user/education/:id
func (h *EducationHandler) UpdateEducation(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id := c.Params("id")

	// Only the owner may edit their education history.
	owned, err := h.store.GetEducationByContact(c.Context(), contact.ID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch education")
	}
	var found bool
	for i := range owned {
		if owned[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return response.NotFound(c, "Education record not found")
	}

	var req UpdateEducationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.EducationPatch{
		InstitutionID:      req.InstitutionID,
		DegreeType:         req.DegreeType,
		Major:              req.Major,
		GraduationYear:     req.GraduationYear,
		GraduationSemester: req.GraduationSemester,
	}

	updated, err := h.store.UpdateEducation(c.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrEmptyPatch) {
			return response.BadRequest(c, "No fields to update")
		}
		return response.BadGateway(c, "Failed to update education record")
	}

	return response.Entity(c, "education", updated)
}
