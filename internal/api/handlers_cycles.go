package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
)

func (handler *Handler) ListCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cycles, err := handler.cycleService.List(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load cycles")
	}
	return c.JSON(cycles)
}

func (handler *Handler) CreateCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := parseCyclePayload(c)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to create cycle")
	}

	cycle, err := handler.cycleService.Create(user.ID, input, services.CycleSettingsForUser(*user).PeriodLength)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to create cycle")
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

func (handler *Handler) UpdateCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := parseCyclePayload(c)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to update cycle")
	}

	cycle, err := handler.cycleService.Update(user.ID, c.Params("id"), input, services.CycleSettingsForUser(*user).PeriodLength)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to update cycle")
	}
	return c.JSON(cycle)
}

func (handler *Handler) DeleteCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.cycleService.Delete(user.ID, c.Params("id")); err != nil {
		return handler.respondServiceError(c, err, "failed to delete cycle")
	}
	return sendOK(c)
}

func (handler *Handler) CheckCycleOverlap(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := overlapPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input, err := cyclePayload{StartDate: payload.StartDate, EndDate: payload.EndDate}.toInput()
	if err != nil {
		return handler.respondServiceError(c, err, "failed to check overlap")
	}

	overlaps, err := handler.cycleService.CheckOverlap(user.ID, input, services.CycleSettingsForUser(*user).PeriodLength, payload.ExcludeID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to check overlap")
	}
	return c.JSON(fiber.Map{"overlaps": overlaps})
}

func parseCyclePayload(c *fiber.Ctx) (services.CycleInput, error) {
	payload := cyclePayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return services.CycleInput{}, services.ErrCycleStartRequired
	}
	return payload.toInput()
}
