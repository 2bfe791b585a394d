package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/services"
	"github.com/valyala/fasthttp"
)

// Events streams change notifications for the current user as server-sent events.
func (handler *Handler) Events(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	events, cancel := handler.broker.Subscribe(user.ID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := handler.log.WithField("user_id", user.ID)
	heartbeat := handler.heartbeat
	done := handler.done
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		if err := streamChanges(w, events, heartbeat, done); err != nil {
			log.WithError(err).Debug("event stream closed")
		}
	}))
	return nil
}

// streamChanges writes events to w until the channel closes, done fires or a write fails.
func streamChanges(w *bufio.Writer, events <-chan services.ChangeEvent, heartbeat time.Duration, done <-chan struct{}) error {
	if err := writeAndFlush(w, ": connected\n\n"); err != nil {
		return err
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if err := writeAndFlush(w, fmt.Sprintf("event: change\ndata: %s\n\n", payload)); err != nil {
				return err
			}
		case <-ticker.C:
			if err := writeAndFlush(w, ": ping\n\n"); err != nil {
				return err
			}
		}
	}
}

func writeAndFlush(w *bufio.Writer, chunk string) error {
	if _, err := w.WriteString(chunk); err != nil {
		return err
	}
	return w.Flush()
}
