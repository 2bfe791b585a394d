package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/venus/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestSettingsFromUserFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	settings := SettingsFromUser(models.User{CycleLength: 90, PeriodLength: 0, Language: "xx"})
	if settings.CycleLength != models.DefaultCycleLength || settings.PeriodLength != models.DefaultPeriodLength {
		t.Fatalf("expected default lengths, got %d/%d", settings.CycleLength, settings.PeriodLength)
	}
	if settings.Language != models.LanguageEnglish {
		t.Fatalf("expected english fallback, got %q", settings.Language)
	}
}

func TestSettingsServiceUpdateIsPartial(t *testing.T) {
	users := newStubUserRepository(models.User{ID: 1, DisplayName: "Ada", CycleLength: 30, PeriodLength: 4, Language: "en"})
	service := NewSettingsService(users)

	cycleLength := 32
	language := " TR "
	settings, err := service.Update(1, SettingsUpdate{CycleLength: &cycleLength, Language: &language})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if settings.CycleLength != 32 || settings.PeriodLength != 4 {
		t.Fatalf("expected 32/4, got %d/%d", settings.CycleLength, settings.PeriodLength)
	}
	if settings.Language != models.LanguageTurkish || settings.DisplayName != "Ada" {
		t.Fatalf("unexpected settings after update: %#v", settings)
	}
	if stored := users.users[1]; stored.CycleLength != 32 || stored.Language != "tr" {
		t.Fatalf("expected stored update, got %#v", stored)
	}
}

func TestSettingsServiceUpdateValidates(t *testing.T) {
	users := newStubUserRepository(models.User{ID: 1, CycleLength: 28, PeriodLength: 5, Language: "en"})
	service := NewSettingsService(users)

	tooLong := 46
	tooShort := 1
	unknown := "de"
	cases := []struct {
		name   string
		update SettingsUpdate
		want   error
	}{
		{name: "cycle length", update: SettingsUpdate{CycleLength: &tooLong}, want: ErrSettingsCycleLengthOutOfRange},
		{name: "period length", update: SettingsUpdate{PeriodLength: &tooShort}, want: ErrSettingsPeriodLengthOutOfRange},
		{name: "language", update: SettingsUpdate{Language: &unknown}, want: ErrSettingsLanguageInvalid},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := service.Update(1, testCase.update); !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
		})
	}
	if users.users[1].CycleLength != 28 {
		t.Fatalf("expected rejected updates to leave settings untouched, got %#v", users.users[1])
	}
}

func TestSettingsServiceResetKeepsAccount(t *testing.T) {
	users := newStubUserRepository(models.User{
		ID:                  1,
		Email:               "owner@example.com",
		DisplayName:         "Ada",
		CycleLength:         35,
		PeriodLength:        7,
		Language:            "tr",
		OnboardingCompleted: true,
		RemindersEnabled:    true,
		TelegramChatID:      99,
	})
	service := NewSettingsService(users)

	settings, err := service.Reset(1)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if settings.CycleLength != models.DefaultCycleLength || settings.OnboardingCompleted || settings.RemindersEnabled || settings.TelegramChatID != 0 {
		t.Fatalf("expected defaults after reset, got %#v", settings)
	}
	if users.users[1].Email != "owner@example.com" {
		t.Fatal("expected account to survive reset")
	}
}

func TestSettingsServiceCompleteOnboarding(t *testing.T) {
	users := newStubUserRepository(models.User{ID: 1, CycleLength: 28, PeriodLength: 5, Language: "en"})
	service := NewSettingsService(users)

	settings, err := service.CompleteOnboarding(1, OnboardingInput{DisplayName: "Ada", CycleLength: 30, PeriodLength: 6})
	if err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}
	if !settings.OnboardingCompleted || settings.CycleLength != 30 || settings.PeriodLength != 6 {
		t.Fatalf("unexpected onboarding settings: %#v", settings)
	}

	if _, err := service.CompleteOnboarding(1, OnboardingInput{CycleLength: 20, PeriodLength: 5}); !errors.Is(err, ErrSettingsCycleLengthOutOfRange) {
		t.Fatalf("expected ErrSettingsCycleLengthOutOfRange, got %v", err)
	}
}

func TestSettingsServiceChangePassword(t *testing.T) {
	user := models.User{ID: 1, PasswordHash: mustHashPassword(t, "StrongPass1")}
	users := newStubUserRepository(user)
	service := NewSettingsService(users)

	err := service.ChangePassword(user, PasswordChangeInput{CurrentPassword: "WrongPass1", NewPassword: "NewerPass2", ConfirmPassword: "NewerPass2"})
	if !errors.Is(err, ErrSettingsInvalidCurrentPassword) {
		t.Fatalf("expected ErrSettingsInvalidCurrentPassword, got %v", err)
	}

	err = service.ChangePassword(user, PasswordChangeInput{CurrentPassword: "StrongPass1", NewPassword: "NewerPass2", ConfirmPassword: "NewerPass2"})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(users.users[1].PasswordHash), []byte("NewerPass2")) != nil {
		t.Fatal("expected new password hash to be stored")
	}
}

func TestSettingsServiceDeleteAccountRequiresPassword(t *testing.T) {
	user := models.User{ID: 1, PasswordHash: mustHashPassword(t, "StrongPass1")}
	users := newStubUserRepository(user)
	service := NewSettingsService(users)

	if err := service.DeleteAccount(user, ""); !errors.Is(err, ErrSettingsPasswordMissing) {
		t.Fatalf("expected ErrSettingsPasswordMissing, got %v", err)
	}
	if err := service.DeleteAccount(user, "WrongPass1"); !errors.Is(err, ErrSettingsPasswordInvalid) {
		t.Fatalf("expected ErrSettingsPasswordInvalid, got %v", err)
	}
	if err := service.DeleteAccount(user, "StrongPass1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if len(users.deletedIDs) != 1 || users.deletedIDs[0] != 1 {
		t.Fatalf("expected account 1 deleted, got %v", users.deletedIDs)
	}
}

func TestSettingsServiceClearAllData(t *testing.T) {
	users := newStubUserRepository(models.User{ID: 3})
	service := NewSettingsService(users)

	if err := service.ClearAllData(3); err != nil {
		t.Fatalf("clear all data: %v", err)
	}
	if len(users.clearedIDs) != 1 || users.clearedIDs[0] != 3 {
		t.Fatalf("expected user 3 cleared, got %v", users.clearedIDs)
	}
}
