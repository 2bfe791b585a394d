package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/logger"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

const (
	testSecretKey = "test-secret-key-0123456789abcdef0123"
	testPassword  = "StrongPass1"
)

type testApp struct {
	app     *fiber.App
	handler *Handler
	db      *gorm.DB
}

func newTestApp(t *testing.T, today string, options Options) testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "venus-api-test.db")
	database, err := db.OpenSQLite(databasePath, logger.Discard())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	day, err := time.Parse("2006-01-02", today)
	if err != nil {
		t.Fatalf("parse today: %v", err)
	}
	options.SecretKey = testSecretKey
	options.Location = time.UTC
	options.Clock = services.FixedClock(day)

	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	t.Cleanup(handler.Close)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return testApp{app: app, handler: handler, db: database}
}

func (env testApp) do(t *testing.T, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func (env testApp) expectStatus(t *testing.T, method string, path string, token string, payload any, expected int) *http.Response {
	t.Helper()

	response := env.do(t, method, path, token, payload)
	if response.StatusCode != expected {
		raw, _ := io.ReadAll(response.Body)
		t.Fatalf("%s %s expected status %d, got %d: %s", method, path, expected, response.StatusCode, string(raw))
	}
	return response
}

func (env testApp) register(t *testing.T, email string) string {
	t.Helper()

	response := env.expectStatus(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": testPassword,
	}, fiber.StatusCreated)

	auth := authResponse{}
	decodeJSON(t, response.Body, &auth)
	if auth.Token == "" {
		t.Fatal("expected token in register response")
	}
	return auth.Token
}

func decodeJSON(t *testing.T, body io.Reader, target any) {
	t.Helper()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()

	payload := map[string]string{}
	decodeJSON(t, body, &payload)
	return payload["error"]
}

func readBody(t *testing.T, body io.Reader) string {
	t.Helper()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(raw)
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()

	day, err := services.ParseDay(raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return day
}
