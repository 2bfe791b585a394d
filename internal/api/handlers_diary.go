package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
)

// ListDiary accepts optional from and to query bounds, both inclusive.
func (handler *Handler) ListDiary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load diary")
	}

	entries, err := handler.diaryService.List(user.ID, optionalDay(from), optionalDay(to))
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load diary")
	}
	return c.JSON(entries)
}

func (handler *Handler) CreateDiaryEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := parseDiaryPayload(c)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save diary entry")
	}

	entry, err := handler.diaryService.Create(user.ID, input)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save diary entry")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) UpdateDiaryEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := parseDiaryPayload(c)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save diary entry")
	}

	entry, err := handler.diaryService.Update(user.ID, c.Params("id"), input)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to save diary entry")
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteDiaryEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.diaryService.Delete(user.ID, c.Params("id")); err != nil {
		return handler.respondServiceError(c, err, "failed to delete diary entry")
	}
	return sendOK(c)
}

func parseDiaryPayload(c *fiber.Ctx) (services.DiaryInput, error) {
	payload := diaryPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return services.DiaryInput{}, services.ErrDiaryDateRequired
	}
	return payload.toInput()
}
