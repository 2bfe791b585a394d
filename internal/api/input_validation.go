package api

import (
	"strings"
	"time"

	"github.com/terraincognita07/venus/internal/services"
)

// parseOptionalDay returns the zero time for a blank value.
func parseOptionalDay(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return services.ParseDay(raw)
}

func (payload cyclePayload) toInput() (services.CycleInput, error) {
	start, err := parseOptionalDay(payload.StartDate)
	if err != nil {
		return services.CycleInput{}, err
	}
	end, err := parseOptionalDay(payload.EndDate)
	if err != nil {
		return services.CycleInput{}, err
	}
	return services.CycleInput{StartDate: start, EndDate: end}, nil
}

func (payload diaryPayload) toInput() (services.DiaryInput, error) {
	day, err := parseOptionalDay(payload.Date)
	if err != nil {
		return services.DiaryInput{}, err
	}
	return services.DiaryInput{
		Date:     day,
		Mood:     payload.Mood,
		Symptoms: payload.Symptoms,
		Notes:    payload.Notes,
	}, nil
}

func (payload onboardingPayload) toRequest() (services.OnboardingRequest, error) {
	start, err := parseOptionalDay(payload.LastPeriodStart)
	if err != nil {
		return services.OnboardingRequest{}, err
	}
	return services.OnboardingRequest{
		DisplayName:     payload.DisplayName,
		CycleLength:     payload.CycleLength,
		PeriodLength:    payload.PeriodLength,
		LastPeriodStart: start,
	}, nil
}

// parseCalendarMonth accepts YYYY-MM. A blank value means the month containing today.
func parseCalendarMonth(raw string, today time.Time) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return services.MonthStart(today), nil
	}
	month, err := time.ParseInLocation("2006-01", value, time.UTC)
	if err != nil {
		return time.Time{}, services.ErrInvalidDay
	}
	return month, nil
}

func optionalDay(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
