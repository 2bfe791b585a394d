package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/llm"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (completer fakeCompleter) Configured() bool { return true }

func (completer fakeCompleter) Complete(_ context.Context, _ []llm.Message) (llm.Response, error) {
	if completer.err != nil {
		return llm.Response{}, completer.err
	}
	return llm.Response{Content: completer.reply}, nil
}

func TestChatUnavailableWithoutCompleter(t *testing.T) {
	env := newTestApp(t, "2025-03-10", Options{AllowSignups: true})
	token := env.register(t, "owner@example.com")

	history := env.expectStatus(t, http.MethodGet, "/api/chat", token, nil, fiber.StatusOK)
	payload := map[string]any{}
	decodeJSON(t, history.Body, &payload)
	if payload["available"] != false {
		t.Fatalf("expected chat unavailable, got %v", payload["available"])
	}

	response := env.expectStatus(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "hi"}, fiber.StatusServiceUnavailable)
	if message := readAPIError(t, response.Body); message != "chat assistant unavailable" {
		t.Fatalf("expected unavailable error, got %q", message)
	}
}

func TestChatSendStoresHistory(t *testing.T) {
	env := newTestApp(t, "2025-03-10", Options{AllowSignups: true, Completer: fakeCompleter{reply: "Drink **water**."}})
	token := env.register(t, "owner@example.com")

	env.expectStatus(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "   "}, fiber.StatusBadRequest)
	env.expectStatus(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "Any tips?"}, fiber.StatusOK)

	history := env.expectStatus(t, http.MethodGet, "/api/chat", token, nil, fiber.StatusOK)
	payload := struct {
		Available bool `json:"available"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}{}
	decodeJSON(t, history.Body, &payload)
	if !payload.Available || len(payload.Messages) != 2 {
		t.Fatalf("expected two stored turns, got %#v", payload)
	}

	env.expectStatus(t, http.MethodDelete, "/api/chat", token, nil, fiber.StatusOK)
	cleared := env.expectStatus(t, http.MethodGet, "/api/chat", token, nil, fiber.StatusOK)
	decodeJSON(t, cleared.Body, &payload)
	if len(payload.Messages) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(payload.Messages))
	}
}

func TestChatCompletionFailureMapsToServiceUnavailable(t *testing.T) {
	env := newTestApp(t, "2025-03-10", Options{AllowSignups: true, Completer: fakeCompleter{err: errors.New("upstream down")}})
	token := env.register(t, "owner@example.com")

	response := env.expectStatus(t, http.MethodPost, "/api/chat", token, map[string]string{"message": "hello"}, fiber.StatusServiceUnavailable)
	if message := readAPIError(t, response.Body); message != "chat assistant request failed" {
		t.Fatalf("expected completion failure error, got %q", message)
	}
}
