package services

import (
	"errors"
	"time"

	"github.com/terraincognita07/venus/internal/models"
)

const onboardingLookbackDays = 60

var ErrOnboardingStartDateOutOfRange = errors.New("onboarding start date out of range")

type OnboardingRequest struct {
	DisplayName     string
	CycleLength     int
	PeriodLength    int
	LastPeriodStart time.Time
}

type OnboardingResult struct {
	Settings UserSettings  `json:"settings"`
	Cycle    *models.Cycle `json:"cycle"`
}

// OnboardingService saves the first-run answers and, when given, records the most recent period.
type OnboardingService struct {
	settings *SettingsService
	cycles   *CycleService
	clock    Clock
}

func NewOnboardingService(settings *SettingsService, cycles *CycleService, clock Clock) *OnboardingService {
	if clock == nil {
		clock = SystemClock{Location: time.UTC}
	}
	return &OnboardingService{settings: settings, cycles: cycles, clock: clock}
}

func (service *OnboardingService) Complete(userID uint, request OnboardingRequest) (OnboardingResult, error) {
	if _, err := NormalizeDisplayName(request.DisplayName); err != nil {
		return OnboardingResult{}, err
	}
	if err := ValidateCycleSettings(request.CycleLength, request.PeriodLength); err != nil {
		return OnboardingResult{}, err
	}

	hasStart := !request.LastPeriodStart.IsZero()
	if hasStart {
		if err := ValidateOnboardingStartDate(request.LastPeriodStart, service.clock.Today()); err != nil {
			return OnboardingResult{}, err
		}
	}

	settings, err := service.settings.CompleteOnboarding(userID, OnboardingInput{
		DisplayName:  request.DisplayName,
		CycleLength:  request.CycleLength,
		PeriodLength: request.PeriodLength,
	})
	if err != nil {
		return OnboardingResult{}, err
	}
	result := OnboardingResult{Settings: settings}

	if hasStart {
		cycle, err := service.cycles.Create(userID, CycleInput{StartDate: request.LastPeriodStart}, request.PeriodLength)
		if err != nil {
			return OnboardingResult{}, err
		}
		result.Cycle = &cycle
	}
	return result, nil
}

// OnboardingDateBounds returns the accepted range for the last period start.
func OnboardingDateBounds(today time.Time) (time.Time, time.Time) {
	today = dateOnly(today)
	return today.AddDate(0, 0, -onboardingLookbackDays), today
}

func ValidateOnboardingStartDate(start time.Time, today time.Time) error {
	minDate, maxDate := OnboardingDateBounds(today)
	day := dateOnly(start)
	if day.Before(minDate) || day.After(maxDate) {
		return ErrOnboardingStartDateOutOfRange
	}
	return nil
}
