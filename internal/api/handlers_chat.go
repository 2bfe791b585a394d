package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
)

func (handler *Handler) GetChat(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := handler.chatService.History(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load chat")
	}
	return c.JSON(fiber.Map{
		"available": handler.chatService.Available(),
		"messages":  history,
	})
}

func (handler *Handler) SendChat(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := chatPayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	reply, err := handler.chatService.Send(c.UserContext(), *user, payload.Message)
	if err != nil {
		if errors.Is(err, services.ErrChatCompletion) {
			handler.log.WithField("user_id", user.ID).WithError(err).Warn("chat completion failed")
		}
		return handler.respondServiceError(c, err, "failed to send message")
	}
	return c.JSON(reply)
}

func (handler *Handler) ClearChat(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.chatService.Clear(user.ID); err != nil {
		return handler.respondServiceError(c, err, "failed to clear chat")
	}
	return sendOK(c)
}
