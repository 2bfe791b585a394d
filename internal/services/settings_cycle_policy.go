package services

import (
	"errors"

	"github.com/terraincognita07/venus/internal/models"
)

var (
	ErrSettingsCycleLengthOutOfRange  = errors.New("settings cycle length out of range")
	ErrSettingsPeriodLengthOutOfRange = errors.New("settings period length out of range")
	ErrSettingsLanguageInvalid        = errors.New("settings language invalid")
)

// ValidateCycleSettings enforces the data-entry ranges. The engine itself accepts any positive values.
func ValidateCycleSettings(cycleLength int, periodLength int) error {
	if !IsValidCycleLength(cycleLength) {
		return ErrSettingsCycleLengthOutOfRange
	}
	if !IsValidPeriodLength(periodLength) {
		return ErrSettingsPeriodLengthOutOfRange
	}
	return nil
}

func ValidateLanguage(language string) error {
	switch language {
	case models.LanguageEnglish, models.LanguageTurkish:
		return nil
	default:
		return ErrSettingsLanguageInvalid
	}
}

// CycleSettingsForUser returns the persisted lengths, falling back to defaults for rows written
// outside the validated paths.
func CycleSettingsForUser(user models.User) CycleSettings {
	settings := DefaultCycleSettings()
	if IsValidCycleLength(user.CycleLength) {
		settings.CycleLength = user.CycleLength
	}
	if IsValidPeriodLength(user.PeriodLength) {
		settings.PeriodLength = user.PeriodLength
	}
	return settings
}
