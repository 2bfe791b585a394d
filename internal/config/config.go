// Package config loads Venus runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	ProviderOpenAI = "openai"
	ProviderGrok   = "grok"

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port         string
	SecretKey    string
	Location     *time.Location
	LogLevel     string
	Environment  string
	Database     DatabaseConfig
	LLM          LLMConfig
	Reminders    ReminderConfig
	AllowSignups bool
}

type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
}

type LLMConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

type ReminderConfig struct {
	TelegramBotToken string
	CronSpec         string
	DaysBefore       int
}

// Load reads configuration. A missing .env file is not an error and never overrides the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secretKey, err := resolveSecretKey()
	if err != nil {
		return nil, err
	}
	port, err := resolvePort()
	if err != nil {
		return nil, err
	}
	database, err := resolveDatabase()
	if err != nil {
		return nil, err
	}
	llmConfig, err := resolveLLM()
	if err != nil {
		return nil, err
	}
	reminders, err := resolveReminders()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:         port,
		SecretKey:    secretKey,
		Location:     resolveLocation(getEnv("TZ", "UTC")),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment:  strings.ToLower(getEnv("ENVIRONMENT", "development")),
		Database:     database,
		LLM:          llmConfig,
		Reminders:    reminders,
		AllowSignups: getEnvBool("ALLOW_SIGNUPS", true),
	}, nil
}

// LoadDatabase reads only the database settings, for operator commands that never serve HTTP.
func LoadDatabase() (DatabaseConfig, error) {
	_ = godotenv.Load()
	return resolveDatabase()
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == "production" || cfg.Environment == "staging"
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is not set")
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveDatabase() (DatabaseConfig, error) {
	database := DatabaseConfig{
		Driver: strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		Path:   getEnv("DB_PATH", filepath.Join("data", "venus.db")),
		DSN:    strings.TrimSpace(os.Getenv("DATABASE_DSN")),
	}
	switch database.Driver {
	case DriverSQLite:
	case DriverMySQL:
		if database.DSN == "" {
			return DatabaseConfig{}, errors.New("DATABASE_DSN is required for the mysql driver")
		}
	default:
		return DatabaseConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", database.Driver)
	}
	return database, nil
}

func resolveLLM() (LLMConfig, error) {
	llmConfig := LLMConfig{
		Provider: strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		APIKey:   strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		BaseURL:  strings.TrimSpace(os.Getenv("LLM_BASE_URL")),
		Model:    strings.TrimSpace(os.Getenv("LLM_MODEL")),
	}
	if llmConfig.Provider != ProviderOpenAI && llmConfig.Provider != ProviderGrok {
		return LLMConfig{}, fmt.Errorf("unsupported LLM_PROVIDER %q", llmConfig.Provider)
	}
	return llmConfig, nil
}

func resolveReminders() (ReminderConfig, error) {
	reminders := ReminderConfig{
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		CronSpec:         getEnv("REMINDER_CRON", "0 9 * * *"),
		DaysBefore:       2,
	}
	if raw := os.Getenv("REMINDER_DAYS_BEFORE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return ReminderConfig{}, fmt.Errorf("invalid REMINDER_DAYS_BEFORE %q", raw)
		}
		reminders.DaysBefore = parsed
	}
	return reminders, nil
}

func resolveLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
