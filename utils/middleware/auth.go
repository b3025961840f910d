package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/auth"
	"github.com/propelhq/propel-api/utils/response"
)

// AuthMiddleware authenticates requests with identity-provider bearer
// tokens and resolves the caller's contact record from the store.
type AuthMiddleware struct {
	verifier *auth.Verifier
	store    *store.Store
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(verifier *auth.Verifier, s *store.Store) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		store:    s,
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (int, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return fiber.StatusUnauthorized, "Missing authorization token"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return fiber.StatusUnauthorized, "Invalid authorization format"
	}

	claims, err := m.verifier.Verify(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return fiber.StatusUnauthorized, "Token has expired"
		}
		return fiber.StatusUnauthorized, "Invalid token"
	}

	contact, err := m.store.GetContactByEmail(c.Context(), claims.Email)
	if err != nil {
		return fiber.StatusInternalServerError, "Failed to load contact"
	}
	if contact == nil {
		// First login: the identity provider knows the user but the
		// store does not yet. Register a contact on the fly.
		email := strings.ToLower(claims.Email)
		patch := model.ContactPatch{Email: &email}
		if claims.Name != "" {
			first, last := splitName(claims.Name)
			patch.FirstName = &first
			if last != "" {
				patch.LastName = &last
			}
		}
		contact, err = m.store.CreateContact(c.Context(), patch)
		if err != nil {
			return fiber.StatusInternalServerError, "Failed to register contact"
		}
	}

	c.Locals("claims", claims)
	c.Locals("contact", contact)
	return 0, ""
}

// Required rejects requests without a valid token.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if status, msg := m.authenticate(c); status != 0 {
			if status == fiber.StatusInternalServerError {
				return response.InternalServerError(c, msg)
			}
			return response.Unauthorized(c, msg)
		}
		return c.Next()
	}
}

// Optional lets requests through with or without a token; a valid token
// still populates the contact in Locals.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _ = m.authenticate(c)
		return c.Next()
	}
}

// RequireStaff rejects callers whose contact is not flagged as staff.
// Must run after Required.
func (m *AuthMiddleware) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contact, ok := GetContact(c)
		if !ok {
			return response.Unauthorized(c, "")
		}
		if !contact.IsStaff {
			return response.Forbidden(c, "Staff access required")
		}
		return c.Next()
	}
}

// GetContact extracts the resolved contact from context.
func GetContact(c *fiber.Ctx) (*model.Contact, bool) {
	contact := c.Locals("contact")
	if contact == nil {
		return nil, false
	}
	out, ok := contact.(*model.Contact)
	return out, ok
}

// GetClaims extracts the verified provider claims from context.
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	out, ok := claims.(*auth.Claims)
	return out, ok
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
