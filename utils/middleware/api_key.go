package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/propelhq/propel-api/utils/response"
)

// APIKeyMiddleware authenticates machine-to-machine callers (scheduled
// jobs, record-store webhooks) with a single service key. Only the
// bcrypt hash of the key is configured on the server.
type APIKeyMiddleware struct {
	keyHash []byte
}

// NewAPIKeyMiddleware creates an API key middleware from the configured
// bcrypt hash. An empty hash disables all service-key routes.
func NewAPIKeyMiddleware(keyHash string) *APIKeyMiddleware {
	return &APIKeyMiddleware{keyHash: []byte(keyHash)}
}

// Authenticate validates the service key sent in the X-API-Key header
// (or as a bearer token).
func (m *APIKeyMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(m.keyHash) == 0 {
			return response.Forbidden(c, "Service key access is not configured")
		}

		key := c.Get("X-API-Key")
		if key == "" {
			authHeader := c.Get("Authorization")
			key = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		if key == "" {
			return response.Unauthorized(c, "API key required")
		}

		if err := bcrypt.CompareHashAndPassword(m.keyHash, []byte(key)); err != nil {
			return response.Unauthorized(c, "Invalid API key")
		}

		return c.Next()
	}
}
