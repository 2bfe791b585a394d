package api

import (
	"github.com/gofiber/fiber/v2"
)

// Routes an account holding an operator-issued password may still reach.
var passwordChangeRoutes = map[string]struct{}{
	fiber.MethodGet + " /api/auth/me":                   {},
	fiber.MethodPost + " /api/settings/change-password": {},
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if user.MustChangePassword {
		if _, allowed := passwordChangeRoutes[c.Method()+" "+c.Path()]; !allowed {
			return apiError(c, fiber.StatusForbidden, "password change required")
		}
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}
