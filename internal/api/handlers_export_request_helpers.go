package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/models"
	"github.com/terraincognita07/venus/internal/services"
)

func (handler *Handler) exportUserAndRange(c *fiber.Ctx) (*models.User, *time.Time, *time.Time, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, nil, nil, errUnauthorized
	}
	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return nil, nil, nil, err
	}
	return user, from, to, nil
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("venus-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
