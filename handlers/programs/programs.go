package programs

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/response"
)

// ProgramHandler serves the program catalog.
type ProgramHandler struct {
	store *store.Store
}

// NewProgramHandler creates a new program handler.
func NewProgramHandler(s *store.Store) *ProgramHandler {
	return &ProgramHandler{store: s}
}

// ListPrograms handles GET /api/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	programs, err := h.store.GetPrograms(c.Context())
	if err != nil {
		return response.BadGateway(c, "Failed to fetch programs")
	}
	return response.Entity(c, "programs", programs)
}

// GetProgram handles GET /api/programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	program, err := h.store.ProgramByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch program")
	}
	if program == nil {
		return response.NotFound(c, "Program not found")
	}
	return response.Entity(c, "program", program)
}

// ListProgramCohorts handles GET /api/programs/:id/cohorts
func (h *ProgramHandler) ListProgramCohorts(c *fiber.Ctx) error {
	cohorts, err := h.store.CohortsByProgram(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch cohorts")
	}
	return response.Entity(c, "cohorts", cohorts)
}

// ListProgramResources handles GET /api/programs/:id/resources
func (h *ProgramHandler) ListProgramResources(c *fiber.Ctx) error {
	resources, err := h.store.ResourcesByProgram(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch resources")
	}
	return response.Entity(c, "resources", resources)
}

// ListProgramEvents handles GET /api/programs/:id/events
func (h *ProgramHandler) ListProgramEvents(c *fiber.Ctx) error {
	events, err := h.store.EventsByProgram(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch events")
	}
	return response.Entity(c, "events", events)
}
