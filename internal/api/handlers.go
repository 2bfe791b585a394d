package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/venus/internal/logger"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(options.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	clock := options.Clock
	if clock == nil {
		clock = services.SystemClock{Location: location}
	}
	tokenTTL := options.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultAuthTokenTTL
	}
	heartbeat := options.EventHeartbeat
	if heartbeat <= 0 {
		heartbeat = defaultEventsHeartbeat
	}
	log := options.Logger
	if log == nil {
		log = logger.Discard()
	}
	broker := options.Broker
	if broker == nil {
		broker = services.NewChangeBroker(0)
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(options.SecretKey),
		tokenTTL:     tokenTTL,
		location:     location,
		clock:        clock,
		allowSignups: options.AllowSignups,
		heartbeat:    heartbeat,
		log:          log,
		completer:    options.Completer,
		broker:       broker,
		loginLimiter: newAttemptLimiter(),
		done:         make(chan struct{}),
	}
	return handler.withDependencies(database), nil
}

// Close ends open event streams so the server can shut down.
func (handler *Handler) Close() {
	handler.closeOnce.Do(func() {
		close(handler.done)
	})
}
