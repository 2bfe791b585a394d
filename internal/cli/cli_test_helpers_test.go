package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/logger"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

const testPassword = "StrongPass1"

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "venus-cli-test.db"), logger.Discard())
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
	return database
}

func createUser(t *testing.T, database *gorm.DB, email string) {
	t.Helper()

	var out bytes.Buffer
	if err := RunCreateUserCommand(database, email, testPassword, "", &out); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func mustParse(t *testing.T, raw string) time.Time {
	t.Helper()

	day, err := services.ParseDay(raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return day
}
