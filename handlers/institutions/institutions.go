package institutions

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/response"
)

// InstitutionHandler serves the institution directory.
type InstitutionHandler struct {
	store *store.Store
}

// NewInstitutionHandler creates a new institution handler.
func NewInstitutionHandler(s *store.Store) *InstitutionHandler {
	return &InstitutionHandler{store: s}
}

// ListInstitutions handles GET /api/institutions
func (h *InstitutionHandler) ListInstitutions(c *fiber.Ctx) error {
	institutions, err := h.store.GetInstitutions(c.Context())
	if err != nil {
		return response.BadGateway(c, "Failed to fetch institutions")
	}
	return response.Entity(c, "institutions", institutions)
}

// MatchInstitution handles GET /api/institutions/match?email=...
// Suggests the caller's institution from their email domain.
func (h *InstitutionHandler) MatchInstitution(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return response.BadRequest(c, "email query parameter is required")
	}

	match, err := h.store.MatchInstitutionByEmail(c.Context(), email)
	if err != nil {
		return response.BadGateway(c, "Failed to match institution")
	}
	if match == nil {
		return response.NotFound(c, "No institution matches that email domain")
	}

	return response.Entity(c, "institution", match)
}
