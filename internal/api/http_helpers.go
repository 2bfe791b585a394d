package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func sendOK(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

type errorResponse struct {
	target  error
	status  int
	message string
}

// serviceErrorResponses maps service sentinels to client-facing statuses. The first match wins.
var serviceErrorResponses = []errorResponse{
	{services.ErrInvalidDay, fiber.StatusBadRequest, "invalid date"},
	{services.ErrAuthEmailTaken, fiber.StatusConflict, "email already exists"},
	{services.ErrAuthCredentialsInvalid, fiber.StatusBadRequest, "invalid input"},
	{services.ErrWeakPassword, fiber.StatusUnprocessableEntity, "weak password"},
	{services.ErrDisplayNameTooLong, fiber.StatusUnprocessableEntity, "display name too long"},
	{services.ErrSignupsClosed, fiber.StatusForbidden, "signups are closed"},

	{services.ErrSettingsCycleLengthOutOfRange, fiber.StatusUnprocessableEntity, "cycle length must be between 21 and 45"},
	{services.ErrSettingsPeriodLengthOutOfRange, fiber.StatusUnprocessableEntity, "period length must be between 2 and 10"},
	{services.ErrSettingsLanguageInvalid, fiber.StatusUnprocessableEntity, "unsupported language"},
	{services.ErrSettingsPasswordChangeInvalidInput, fiber.StatusBadRequest, "invalid input"},
	{services.ErrSettingsPasswordMismatch, fiber.StatusBadRequest, "password mismatch"},
	{services.ErrSettingsInvalidCurrentPassword, fiber.StatusUnauthorized, "invalid current password"},
	{services.ErrSettingsNewPasswordMustDiffer, fiber.StatusBadRequest, "new password must differ"},
	{services.ErrSettingsWeakPassword, fiber.StatusUnprocessableEntity, "weak password"},
	{services.ErrSettingsPasswordMissing, fiber.StatusBadRequest, "invalid password"},
	{services.ErrSettingsPasswordInvalid, fiber.StatusUnauthorized, "invalid password"},
	{services.ErrOnboardingStartDateOutOfRange, fiber.StatusUnprocessableEntity, "last period start must be within the last 60 days"},

	{services.ErrCycleNotFound, fiber.StatusNotFound, "cycle not found"},
	{services.ErrCycleStartRequired, fiber.StatusBadRequest, "start date is required"},
	{services.ErrCycleRangeInvalid, fiber.StatusUnprocessableEntity, "end date must not be before start date"},
	{services.ErrCycleOverlap, fiber.StatusConflict, "cycle overlaps an existing cycle"},

	{services.ErrDiaryNotFound, fiber.StatusNotFound, "diary entry not found"},
	{services.ErrDiaryDateRequired, fiber.StatusBadRequest, "date is required"},
	{services.ErrDiaryMoodInvalid, fiber.StatusUnprocessableEntity, "invalid mood"},
	{services.ErrDiaryDateTaken, fiber.StatusConflict, "diary entry already exists for date"},
	{services.ErrDiaryNoteTooLong, fiber.StatusUnprocessableEntity, "notes too long"},
	{services.ErrDiarySymptomsInvalid, fiber.StatusUnprocessableEntity, "invalid symptoms"},

	{services.ErrChatMessageEmpty, fiber.StatusBadRequest, "message is required"},
	{services.ErrChatMessageTooLong, fiber.StatusUnprocessableEntity, "message too long"},
	{services.ErrChatUnavailable, fiber.StatusServiceUnavailable, "chat assistant unavailable"},
	{services.ErrChatCompletion, fiber.StatusServiceUnavailable, "chat assistant request failed"},

	{services.ErrExportFromDateInvalid, fiber.StatusBadRequest, "invalid from date"},
	{services.ErrExportToDateInvalid, fiber.StatusBadRequest, "invalid to date"},
	{services.ErrExportRangeInvalid, fiber.StatusBadRequest, "invalid range"},
}

// respondServiceError writes the mapped response for err, or a 500 with fallback after logging.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	for _, response := range serviceErrorResponses {
		if errors.Is(err, response.target) {
			return apiError(c, response.status, response.message)
		}
	}

	entry := handler.log.WithError(err).WithField("path", c.Path())
	if user, ok := currentUser(c); ok {
		entry = entry.WithField("user_id", user.ID)
	}
	entry.Error(fallback)
	return apiError(c, fiber.StatusInternalServerError, fallback)
}

func parseJSONBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	return c.BodyParser(target)
}
