package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/models"
)

const (
	contextUserKey       = "current_user"
	accessTokenQueryName = "access_token"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}
