package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/venus/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type SettingsUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
	UpdatePassword(userID uint, passwordHash string, mustChange bool) error
	ClearAllDataAndResetSettings(userID uint) error
	DeleteAccountAndRelatedData(userID uint) error
}

// UserSettings is the client-facing view of the preferences stored on a user.
type UserSettings struct {
	DisplayName         string `json:"display_name"`
	CycleLength         int    `json:"cycle_length"`
	PeriodLength        int    `json:"period_length"`
	Language            string `json:"language"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	RemindersEnabled    bool   `json:"reminders_enabled"`
	TelegramChatID      int64  `json:"telegram_chat_id"`
}

// SettingsUpdate is a partial update. Nil fields keep their stored value.
type SettingsUpdate struct {
	DisplayName      *string `json:"display_name"`
	CycleLength      *int    `json:"cycle_length"`
	PeriodLength     *int    `json:"period_length"`
	Language         *string `json:"language"`
	RemindersEnabled *bool   `json:"reminders_enabled"`
	TelegramChatID   *int64  `json:"telegram_chat_id"`
}

type OnboardingInput struct {
	DisplayName  string
	CycleLength  int
	PeriodLength int
}

type SettingsService struct {
	users SettingsUserRepository
}

func NewSettingsService(users SettingsUserRepository) *SettingsService {
	return &SettingsService{users: users}
}

func SettingsFromUser(user models.User) UserSettings {
	cycleSettings := CycleSettingsForUser(user)
	language := user.Language
	if ValidateLanguage(language) != nil {
		language = models.LanguageEnglish
	}
	return UserSettings{
		DisplayName:         user.DisplayName,
		CycleLength:         cycleSettings.CycleLength,
		PeriodLength:        cycleSettings.PeriodLength,
		Language:            language,
		OnboardingCompleted: user.OnboardingCompleted,
		RemindersEnabled:    user.RemindersEnabled,
		TelegramChatID:      user.TelegramChatID,
	}
}

func (service *SettingsService) Load(userID uint) (UserSettings, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return UserSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return SettingsFromUser(user), nil
}

func (service *SettingsService) Update(userID uint, update SettingsUpdate) (UserSettings, error) {
	settings, err := service.Load(userID)
	if err != nil {
		return UserSettings{}, err
	}

	if update.DisplayName != nil {
		displayName, err := NormalizeDisplayName(*update.DisplayName)
		if err != nil {
			return UserSettings{}, err
		}
		settings.DisplayName = displayName
	}
	if update.CycleLength != nil {
		settings.CycleLength = *update.CycleLength
	}
	if update.PeriodLength != nil {
		settings.PeriodLength = *update.PeriodLength
	}
	if update.Language != nil {
		settings.Language = strings.ToLower(strings.TrimSpace(*update.Language))
	}
	if update.RemindersEnabled != nil {
		settings.RemindersEnabled = *update.RemindersEnabled
	}
	if update.TelegramChatID != nil {
		settings.TelegramChatID = *update.TelegramChatID
	}

	if err := ValidateCycleSettings(settings.CycleLength, settings.PeriodLength); err != nil {
		return UserSettings{}, err
	}
	if err := ValidateLanguage(settings.Language); err != nil {
		return UserSettings{}, err
	}

	if err := service.users.UpdateByID(userID, map[string]any{
		"display_name":      settings.DisplayName,
		"cycle_length":      settings.CycleLength,
		"period_length":     settings.PeriodLength,
		"language":          settings.Language,
		"reminders_enabled": settings.RemindersEnabled,
		"telegram_chat_id":  settings.TelegramChatID,
	}); err != nil {
		return UserSettings{}, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

// Reset restores default preferences and keeps cycle and diary records.
func (service *SettingsService) Reset(userID uint) (UserSettings, error) {
	if err := service.users.UpdateByID(userID, map[string]any{
		"display_name":         "",
		"cycle_length":         models.DefaultCycleLength,
		"period_length":        models.DefaultPeriodLength,
		"language":             models.LanguageEnglish,
		"onboarding_completed": false,
		"reminders_enabled":    false,
		"telegram_chat_id":     0,
	}); err != nil {
		return UserSettings{}, fmt.Errorf("reset settings: %w", err)
	}
	return service.Load(userID)
}

func (service *SettingsService) CompleteOnboarding(userID uint, input OnboardingInput) (UserSettings, error) {
	displayName, err := NormalizeDisplayName(input.DisplayName)
	if err != nil {
		return UserSettings{}, err
	}
	if err := ValidateCycleSettings(input.CycleLength, input.PeriodLength); err != nil {
		return UserSettings{}, err
	}

	if err := service.users.UpdateByID(userID, map[string]any{
		"display_name":         displayName,
		"cycle_length":         input.CycleLength,
		"period_length":        input.PeriodLength,
		"onboarding_completed": true,
	}); err != nil {
		return UserSettings{}, fmt.Errorf("complete onboarding: %w", err)
	}
	return service.Load(userID)
}

func (service *SettingsService) ChangePassword(user models.User, input PasswordChangeInput) error {
	if err := ValidatePasswordChange(user.PasswordHash, input); err != nil {
		return err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input.NewPassword)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return service.users.UpdatePassword(user.ID, string(passwordHash), false)
}

func (service *SettingsService) ClearAllData(userID uint) error {
	return service.users.ClearAllDataAndResetSettings(userID)
}

func (service *SettingsService) DeleteAccount(user models.User, rawPassword string) error {
	if err := ValidateAccountPassword(user.PasswordHash, rawPassword); err != nil {
		return err
	}
	return service.users.DeleteAccountAndRelatedData(user.ID)
}
