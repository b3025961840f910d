package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/response"
)

// Service routes mirror the background jobs so operators can trigger a
// sweep on demand.

func serviceCloseExpiredCohorts(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		closed, err := s.CloseExpiredCohorts(c.Context())
		if err != nil {
			return response.BadGateway(c, "Failed to close expired cohorts")
		}
		return response.Entity(c, "result", fiber.Map{"closed": closed})
	}
}

func serviceRefreshInstitutions(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := s.RefreshInstitutions(c.Context()); err != nil {
			return response.BadGateway(c, "Failed to refresh institutions")
		}
		return response.Entity(c, "result", fiber.Map{"refreshed": true})
	}
}
