package services

import (
	"time"

	"github.com/terraincognita07/venus/internal/models"
)

const dayKeyLayout = "2006-01-02"

type CalendarDay struct {
	Date              string `json:"date"`
	Day               int    `json:"day"`
	InMonth           bool   `json:"in_month"`
	IsToday           bool   `json:"is_today"`
	InPeriod          bool   `json:"in_period"`
	CycleID           string `json:"cycle_id,omitempty"`
	IsPredictedPeriod bool   `json:"is_predicted_period"`
	IsOvulation       bool   `json:"is_ovulation"`
	HasDiary          bool   `json:"has_diary"`
	Mood              string `json:"mood,omitempty"`
}

// MonthStart returns the first day of value's month as a calendar day.
func MonthStart(value time.Time) time.Time {
	day := dateOnly(value)
	return day.AddDate(0, 0, 1-day.Day())
}

// CalendarGridBounds returns the Sunday-aligned first and last day shown for the month.
func CalendarGridBounds(month time.Time) (time.Time, time.Time) {
	monthStart := MonthStart(month)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))
	return gridStart, gridEnd
}

// BuildMonthCalendar lays out the weeks covering month. Recorded periods come from the cycle
// history; predicted periods and ovulation days are projected forward from the next period date.
func BuildMonthCalendar(month time.Time, cycles []models.Cycle, entries []models.DiaryEntry, settings CycleSettings, today time.Time) []CalendarDay {
	monthStart := MonthStart(month)
	gridStart, gridEnd := CalendarGridBounds(monthStart)
	today = dateOnly(today)

	moodByDate := make(map[string]string, len(entries))
	for _, entry := range entries {
		moodByDate[dateOnly(entry.Date).Format(dayKeyLayout)] = entry.Mood
	}

	predictedPeriod := make(map[string]bool)
	ovulation := make(map[string]bool)
	next := NextPeriodDate(LastPeriodStart(cycles), settings.CycleLength, today)
	if !next.IsZero() && settings.CycleLength > 0 {
		for start := next; !OvulationDate(start).After(gridEnd); start = start.AddDate(0, 0, settings.CycleLength) {
			ovulation[OvulationDate(start).Format(dayKeyLayout)] = true
			for offset := 0; offset < settings.PeriodLength; offset++ {
				predictedPeriod[start.AddDate(0, 0, offset).Format(dayKeyLayout)] = true
			}
		}
	}

	days := make([]CalendarDay, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayKeyLayout)
		cycle, inPeriod := CycleForDate(day, cycles)
		mood, hasDiary := moodByDate[key]

		calendarDay := CalendarDay{
			Date:              key,
			Day:               day.Day(),
			InMonth:           day.Month() == monthStart.Month(),
			IsToday:           day.Equal(today),
			InPeriod:          inPeriod,
			IsPredictedPeriod: predictedPeriod[key] && !inPeriod,
			IsOvulation:       ovulation[key],
			HasDiary:          hasDiary,
			Mood:              mood,
		}
		if inPeriod {
			calendarDay.CycleID = cycle.ID
		}
		days = append(days, calendarDay)
	}
	return days
}
