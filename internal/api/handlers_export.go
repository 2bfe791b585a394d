package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
)

var errUnauthorized = errors.New("unauthorized")

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, from, to, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondExportError(c, err)
	}

	summary, err := handler.exportService.BuildSummary(user.ID, from, to)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build export")
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, from, to, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondExportError(c, err)
	}

	document, err := handler.exportService.BuildDocument(user.ID, from, to)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build export")
	}
	now := time.Now().In(handler.location)

	serialized, err := json.MarshalIndent(fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"cycles":      document.Cycles,
		"diary":       document.Diary,
		"stats":       document.Stats,
	}, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, from, to, err := handler.exportUserAndRange(c)
	if err != nil {
		return handler.respondExportError(c, err)
	}

	rows, err := handler.exportService.BuildCSVRows(user.ID, from, to)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build export")
	}
	now := time.Now().In(handler.location)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) respondExportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errUnauthorized) {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return handler.respondServiceError(c, err, "failed to build export")
}
