package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(services.SettingsFromUser(*user))
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	update := services.SettingsUpdate{}
	if err := parseJSONBody(c, &update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	settings, err := handler.settingsService.Update(user.ID, update)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to update settings")
	}
	return c.JSON(settings)
}

func (handler *Handler) ResetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	settings, err := handler.settingsService.Reset(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to reset settings")
	}
	return c.JSON(settings)
}

func (handler *Handler) CompleteOnboarding(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := onboardingPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	request, err := payload.toRequest()
	if err != nil {
		return handler.respondServiceError(c, err, "failed to complete onboarding")
	}

	result, err := handler.onboardingService.Complete(user.ID, request)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to complete onboarding")
	}
	return c.JSON(result)
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.settingsService.ChangePassword(*user, services.PasswordChangeInput{
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
		ConfirmPassword: input.ConfirmPassword,
	}); err != nil {
		return handler.respondServiceError(c, err, "failed to change password")
	}
	return sendOK(c)
}

func (handler *Handler) ClearAllData(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.settingsService.ClearAllData(user.ID); err != nil {
		return handler.respondServiceError(c, err, "failed to clear data")
	}
	return sendOK(c)
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := deleteAccountInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid password")
	}

	if err := handler.settingsService.DeleteAccount(*user, input.Password); err != nil {
		return handler.respondServiceError(c, err, "failed to delete account")
	}

	handler.log.WithField("user_id", user.ID).Info("account deleted")
	return sendOK(c)
}
