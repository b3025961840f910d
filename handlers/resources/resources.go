package resources

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/linkmeta"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// ResourceHandler manages shared resource links. Writes are staff-only,
// enforced at the router.
type ResourceHandler struct {
	store     *store.Store
	linkmeta  *linkmeta.Fetcher
	validator *validation.Validator
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(s *store.Store) *ResourceHandler {
	return &ResourceHandler{
		store:     s,
		linkmeta:  linkmeta.NewFetcher(),
		validator: validation.NewValidator(),
	}
}

// CreateResourceRequest represents the request body for creating a
// resource. Name is optional; when absent it defaults to the page title
// of the linked URL.
type CreateResourceRequest struct {
	Name      string `json:"name" validate:"omitempty,max=255"`
	URL       string `json:"url" validate:"required,url"`
	Scope     string `json:"scope" validate:"required,oneof=Global Program Cohort"`
	ProgramID string `json:"programId" validate:"omitempty"`
	CohortID  string `json:"cohortId" validate:"omitempty"`
}

// UpdateResourceRequest represents the request body for updating a
// resource. All fields optional.
type UpdateResourceRequest struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
	URL  *string `json:"url" validate:"omitempty,url"`
}

// ListGlobalResources handles GET /api/resources
func (h *ResourceHandler) ListGlobalResources(c *fiber.Ctx) error {
	resources, err := h.store.GlobalResources(c.Context())
	if err != nil {
		return response.BadGateway(c, "Failed to fetch resources")
	}
	return response.Entity(c, "resources", resources)
}

// CreateResource handles POST /api/resources
func (h *ResourceHandler) CreateResource(c *fiber.Ctx) error {
	var req CreateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	switch req.Scope {
	case model.ScopeProgram:
		if req.ProgramID == "" {
			return response.BadRequest(c, "programId is required for program-scoped resources")
		}
	case model.ScopeCohort:
		if req.CohortID == "" {
			return response.BadRequest(c, "cohortId is required for cohort-scoped resources")
		}
	}

	name := req.Name
	if name == "" {
		name = h.linkmeta.Title(c.Context(), req.URL)
	}

	patch := model.ResourcePatch{
		Name:  &name,
		URL:   &req.URL,
		Scope: &req.Scope,
	}
	if req.ProgramID != "" {
		patch.ProgramID = &req.ProgramID
	}
	if req.CohortID != "" {
		patch.CohortID = &req.CohortID
	}

	created, err := h.store.CreateResource(c.Context(), patch)
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			return response.BadRequest(c, err.Error())
		}
		return response.BadGateway(c, "Failed to create resource")
	}

	return response.Created(c, "resource", created)
}

// UpdateResource handles PATCH /api/resources/:id
func (h *ResourceHandler) UpdateResource(c *fiber.Ctx) error {
	var req UpdateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.ResourcePatch{
		Name: req.Name,
		URL:  req.URL,
	}

	updated, err := h.store.UpdateResource(c.Context(), c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrEmptyPatch) {
			return response.BadRequest(c, "No fields to update")
		}
		if airtable.IsNotFound(err) {
			return response.NotFound(c, "Resource not found")
		}
		return response.BadGateway(c, "Failed to update resource")
	}

	return response.Entity(c, "resource", updated)
}

// DeleteResource handles DELETE /api/resources/:id
func (h *ResourceHandler) DeleteResource(c *fiber.Ctx) error {
	if err := h.store.DeleteResource(c.Context(), c.Params("id")); err != nil {
		return response.BadGateway(c, "Failed to delete resource")
	}
	return response.NoContent(c)
}
