package cohorts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/response"
)

// CohortHandler serves cohorts and their scoped material.
type CohortHandler struct {
	store *store.Store
}

// NewCohortHandler creates a new cohort handler.
func NewCohortHandler(s *store.Store) *CohortHandler {
	return &CohortHandler{store: s}
}

// ListOpenCohorts handles GET /api/cohorts
func (h *CohortHandler) ListOpenCohorts(c *fiber.Ctx) error {
	cohorts, err := h.store.GetOpenCohorts(c.Context())
	if err != nil {
		return response.BadGateway(c, "Failed to fetch cohorts")
	}
	return response.Entity(c, "cohorts", cohorts)
}

// GetCohort handles GET /api/cohorts/:id
func (h *CohortHandler) GetCohort(c *fiber.Ctx) error {
	cohort, err := h.store.CohortByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch cohort")
	}
	if cohort == nil {
		return response.NotFound(c, "Cohort not found")
	}
	return response.Entity(c, "cohort", cohort)
}

// ListCohortResources handles GET /api/cohorts/:id/resources
func (h *CohortHandler) ListCohortResources(c *fiber.Ctx) error {
	resources, err := h.store.ResourcesByCohort(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch resources")
	}
	return response.Entity(c, "resources", resources)
}

// ListCohortEvents handles GET /api/cohorts/:id/events
func (h *CohortHandler) ListCohortEvents(c *fiber.Ctx) error {
	events, err := h.store.EventsByCohort(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch events")
	}
	return response.Entity(c, "events", events)
}

// ListCohortMilestones handles GET /api/cohorts/:id/milestones
func (h *CohortHandler) ListCohortMilestones(c *fiber.Ctx) error {
	milestones, err := h.store.MilestonesByCohort(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch milestones")
	}
	return response.Entity(c, "milestones", milestones)
}

// ListCohortTeams handles GET /api/cohorts/:id/teams
func (h *CohortHandler) ListCohortTeams(c *fiber.Ctx) error {
	teams, err := h.store.TeamsByCohort(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch teams")
	}
	return response.Entity(c, "teams", teams)
}
