package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/campusdesk/helpdesk-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Middleware resolves bearer credentials to principals before routing.
type Middleware struct {
	verifier *Verifier
}

// NewMiddleware constructs middleware.
func NewMiddleware(verifier *Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	principal, err := m.verifier.VerifyBearer(c.Get("Authorization"))
	if err != nil {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
