package events

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// EventHandler manages calendar events. Writes are staff-only, enforced
// at the router.
type EventHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewEventHandler creates a new event handler.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{
		store:     s,
		validator: validation.NewValidator(),
	}
}

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	URL       string     `json:"url" validate:"omitempty,url"`
	StartDate time.Time  `json:"startDate" validate:"required"`
	EndDate   *time.Time `json:"endDate" validate:"omitempty"`
	Scope     string     `json:"scope" validate:"required,oneof=Global Program Cohort"`
	ProgramID string     `json:"programId" validate:"omitempty"`
	CohortID  string     `json:"cohortId" validate:"omitempty"`
}

// UpdateEventRequest represents the request body for updating an event.
// All fields optional.
type UpdateEventRequest struct {
	Name      *string    `json:"name" validate:"omitempty,max=255"`
	URL       *string    `json:"url" validate:"omitempty,url"`
	StartDate *time.Time `json:"startDate" validate:"omitempty"`
	EndDate   *time.Time `json:"endDate" validate:"omitempty"`
}

// ListGlobalEvents handles GET /api/events
func (h *EventHandler) ListGlobalEvents(c *fiber.Ctx) error {
	events, err := h.store.GlobalEvents(c.Context())
	if err != nil {
		return response.BadGateway(c, "Failed to fetch events")
	}
	return response.Entity(c, "events", events)
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	switch req.Scope {
	case model.ScopeProgram:
		if req.ProgramID == "" {
			return response.BadRequest(c, "programId is required for program-scoped events")
		}
	case model.ScopeCohort:
		if req.CohortID == "" {
			return response.BadRequest(c, "cohortId is required for cohort-scoped events")
		}
	}

	patch := model.EventPatch{
		Name:      &req.Name,
		StartDate: &req.StartDate,
		EndDate:   req.EndDate,
		Scope:     &req.Scope,
	}
	if req.URL != "" {
		patch.URL = &req.URL
	}
	if req.ProgramID != "" {
		patch.ProgramID = &req.ProgramID
	}
	if req.CohortID != "" {
		patch.CohortID = &req.CohortID
	}

	created, err := h.store.CreateEvent(c.Context(), patch)
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			return response.BadRequest(c, err.Error())
		}
		return response.BadGateway(c, "Failed to create event")
	}

	return response.Created(c, "event", created)
}

// UpdateEvent handles PATCH /api/events/:id
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	var req UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.EventPatch{
		Name:      req.Name,
		URL:       req.URL,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	updated, err := h.store.UpdateEvent(c.Context(), c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrEmptyPatch) {
			return response.BadRequest(c, "No fields to update")
		}
		if airtable.IsNotFound(err) {
			return response.NotFound(c, "Event not found")
		}
		return response.BadGateway(c, "Failed to update event")
	}

	return response.Entity(c, "event", updated)
}

// DeleteEvent handles DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.store.DeleteEvent(c.Context(), c.Params("id")); err != nil {
		return response.BadGateway(c, "Failed to delete event")
	}
	return response.NoContent(c)
}
