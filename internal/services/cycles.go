package services

import (
	"time"

	"github.com/terraincognita07/venus/internal/models"
)

// LutealPhaseDays anchors ovulation to the next predicted period, not to the last one.
const LutealPhaseDays = 14

type Phase string

const (
	PhaseMenstrual  Phase = "menstrual"
	PhaseFollicular Phase = "follicular"
	PhaseOvulation  Phase = "ovulation"
	PhaseLuteal     Phase = "luteal"
)

// Description returns the key the client localizes into a phase blurb.
func (phase Phase) Description() string {
	return string(phase) + "Desc"
}

type CycleSettings struct {
	CycleLength  int `json:"cycle_length"`
	PeriodLength int `json:"period_length"`
}

func DefaultCycleSettings() CycleSettings {
	return CycleSettings{
		CycleLength:  models.DefaultCycleLength,
		PeriodLength: models.DefaultPeriodLength,
	}
}

type PhaseInfo struct {
	Phase               Phase  `json:"phase"`
	Description         string `json:"description"`
	CycleDay            int    `json:"cycle_day"`
	DaysUntilNextPeriod int    `json:"days_until_next_period"`
	DaysUntilOvulation  *int   `json:"days_until_ovulation"`
}

// LastPeriodStart returns the latest start date in cycles, or the zero time when there is none.
func LastPeriodStart(cycles []models.Cycle) time.Time {
	latest := time.Time{}
	for _, cycle := range cycles {
		start := dateOnly(cycle.StartDate)
		if latest.IsZero() || start.After(latest) {
			latest = start
		}
	}
	return latest
}

// NextPeriodDate projects lastStart forward by whole cycles until the result is strictly after today.
func NextPeriodDate(lastStart time.Time, cycleLength int, today time.Time) time.Time {
	if lastStart.IsZero() || cycleLength <= 0 {
		return time.Time{}
	}

	start := dateOnly(lastStart)
	elapsed := daysBetween(start, dateOnly(today))
	cyclesAhead := 1
	if elapsed >= cycleLength {
		cyclesAhead = elapsed/cycleLength + 1
	}
	return start.AddDate(0, 0, cyclesAhead*cycleLength)
}

func OvulationDate(nextPeriod time.Time) time.Time {
	if nextPeriod.IsZero() {
		return time.Time{}
	}
	return dateOnly(nextPeriod).AddDate(0, 0, -LutealPhaseDays)
}

// DaysUntil reports whole days from today to target, never negative. ok is false for a zero target.
func DaysUntil(target time.Time, today time.Time) (int, bool) {
	if target.IsZero() {
		return 0, false
	}
	days := daysBetween(dateOnly(today), dateOnly(target))
	if days < 0 {
		return 0, true
	}
	return days, true
}

func CurrentDayInCycle(cycles []models.Cycle, cycleLength int, today time.Time) int {
	lastStart := LastPeriodStart(cycles)
	if lastStart.IsZero() || cycleLength <= 0 {
		return 1
	}

	elapsed := daysBetween(lastStart, dateOnly(today))
	if elapsed >= 0 && elapsed < cycleLength {
		return elapsed + 1
	}

	day := elapsed%cycleLength + 1
	if day <= 0 {
		return 1
	}
	return day
}

func CurrentPhase(cycles []models.Cycle, cycleLength int, periodLength int, today time.Time) Phase {
	lastStart := LastPeriodStart(cycles)
	if lastStart.IsZero() {
		return PhaseFollicular
	}

	day := dateOnly(today)
	daysSinceStart := daysBetween(lastStart, day)
	if daysSinceStart >= 0 && daysSinceStart < periodLength {
		return PhaseMenstrual
	}

	ovulation := OvulationDate(NextPeriodDate(lastStart, cycleLength, day))
	if !ovulation.IsZero() {
		daysUntilOvulation := daysBetween(day, ovulation)
		switch {
		case daysUntilOvulation >= -1 && daysUntilOvulation <= 1:
			return PhaseOvulation
		case daysUntilOvulation > 1:
			return PhaseFollicular
		}
	}
	return PhaseLuteal
}

func BuildPhaseInfo(cycles []models.Cycle, settings CycleSettings, today time.Time) PhaseInfo {
	phase := CurrentPhase(cycles, settings.CycleLength, settings.PeriodLength, today)
	nextPeriod := NextPeriodDate(LastPeriodStart(cycles), settings.CycleLength, today)

	info := PhaseInfo{
		Phase:       phase,
		Description: phase.Description(),
		CycleDay:    CurrentDayInCycle(cycles, settings.CycleLength, today),
	}
	if days, ok := DaysUntil(nextPeriod, today); ok {
		info.DaysUntilNextPeriod = days
	}
	if days, ok := DaysUntil(OvulationDate(nextPeriod), today); ok {
		info.DaysUntilOvulation = &days
	}
	return info
}

func IsDateInPeriod(date time.Time, cycles []models.Cycle) bool {
	_, found := CycleForDate(date, cycles)
	return found
}

// CycleForDate returns the first cycle whose inclusive [start, end] range contains date.
func CycleForDate(date time.Time, cycles []models.Cycle) (models.Cycle, bool) {
	day := dateOnly(date)
	for _, cycle := range cycles {
		if betweenInclusive(day, dateOnly(cycle.StartDate), dateOnly(cycle.EndDate)) {
			return cycle, true
		}
	}
	return models.Cycle{}, false
}

func IsValidCycleLength(value int) bool {
	return value >= 21 && value <= 45
}

func IsValidPeriodLength(value int) bool {
	return value >= 2 && value <= 10
}

func betweenInclusive(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

func daysBetween(from time.Time, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// dateOnly maps t onto its calendar day at UTC midnight so day arithmetic ignores DST and zones.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
