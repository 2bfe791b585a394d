package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/models"
	"github.com/terraincognita07/venus/internal/services"
)

type authResponse struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expires_at"`
	User      models.User           `json:"user"`
	Settings  services.UserSettings `json:"settings"`
}

func (handler *Handler) SetupStatus(c *fiber.Ctx) error {
	required, err := handler.setupService.RequiresInitialSetup()
	if err != nil {
		return handler.respondServiceError(c, err, "failed to load setup status")
	}
	return c.JSON(fiber.Map{
		"needs_setup":  required,
		"signups_open": handler.setupService.EnsureSignupsOpen() == nil,
		"chat_enabled": handler.chatService.Available(),
	})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.setupService.EnsureSignupsOpen(); err != nil {
		return handler.respondServiceError(c, err, "failed to create account")
	}

	user, err := handler.authService.Register(services.RegistrationInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	}, time.Now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to create account")
	}

	handler.log.WithField("user_id", user.ID).Info("account registered")
	return handler.respondWithToken(c, &user, fiber.StatusCreated)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginAttemptLimit, loginAttemptWindow) {
		wait := handler.loginLimiter.retryAfter(limiterKey, now, loginAttemptWindow)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(wait.Seconds())+1))
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	input := credentialsInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginLimiter.addFailure(limiterKey, now, loginAttemptWindow)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return handler.respondServiceError(c, err, "failed to sign in")
	}

	handler.loginLimiter.reset(limiterKey)
	return handler.respondWithToken(c, &user, fiber.StatusOK)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"user":     user,
		"settings": services.SettingsFromUser(*user),
	})
}

func (handler *Handler) respondWithToken(c *fiber.Ctx, user *models.User, status int) error {
	token, expiresAt, err := handler.buildToken(user, handler.tokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(status).JSON(authResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      *user,
		Settings:  services.SettingsFromUser(*user),
	})
}
