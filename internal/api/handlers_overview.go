package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
)

func (handler *Handler) GetPhase(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	info, err := handler.overviewService.PhaseInfo(*user)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to compute phase")
	}
	return c.JSON(info)
}

func (handler *Handler) GetOverview(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	overview, err := handler.overviewService.Overview(*user)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build overview")
	}
	return c.JSON(overview)
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := handler.overviewService.Stats(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to compute stats")
	}
	return c.JSON(stats)
}

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	month, err := parseCalendarMonth(c.Query("month"), handler.overviewService.Today())
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	days, err := handler.overviewService.Calendar(*user, month)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to build calendar")
	}
	return c.JSON(fiber.Map{
		"month": month.Format("2006-01"),
		"days":  days,
	})
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := services.ParseDay(c.Params("date"))
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load day")
	}

	detail, err := handler.overviewService.Day(user.ID, day)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load day")
	}
	return c.JSON(detail)
}
