package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/venus/internal/models"
)

type OverviewCycleReader interface {
	ListByUser(userID uint) ([]models.Cycle, error)
}

type OverviewDiaryReader interface {
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.DiaryEntry, error)
}

// CycleOverview is the dashboard snapshot: phase, key dates and history statistics.
type CycleOverview struct {
	Today           string        `json:"today"`
	PhaseInfo       PhaseInfo     `json:"phase_info"`
	LastPeriodStart string        `json:"last_period_start,omitempty"`
	NextPeriodDate  string        `json:"next_period_date,omitempty"`
	OvulationDate   string        `json:"ovulation_date,omitempty"`
	Settings        CycleSettings `json:"settings"`
	Stats           CycleStats    `json:"stats"`
}

type DayDetail struct {
	Date     string             `json:"date"`
	InPeriod bool               `json:"in_period"`
	Cycle    *models.Cycle      `json:"cycle"`
	Diary    *models.DiaryEntry `json:"diary"`
}

type OverviewService struct {
	cycles OverviewCycleReader
	diary  OverviewDiaryReader
	clock  Clock
}

func NewOverviewService(cycles OverviewCycleReader, diary OverviewDiaryReader, clock Clock) *OverviewService {
	if clock == nil {
		clock = SystemClock{Location: time.UTC}
	}
	return &OverviewService{cycles: cycles, diary: diary, clock: clock}
}

func (service *OverviewService) Today() time.Time {
	return service.clock.Today()
}

func (service *OverviewService) PhaseInfo(user models.User) (PhaseInfo, error) {
	cycles, err := service.loadCycles(user.ID)
	if err != nil {
		return PhaseInfo{}, err
	}
	return BuildPhaseInfo(cycles, CycleSettingsForUser(user), service.clock.Today()), nil
}

func (service *OverviewService) Overview(user models.User) (CycleOverview, error) {
	cycles, err := service.loadCycles(user.ID)
	if err != nil {
		return CycleOverview{}, err
	}
	return BuildCycleOverview(cycles, CycleSettingsForUser(user), service.clock.Today()), nil
}

func (service *OverviewService) Stats(userID uint) (CycleStats, error) {
	cycles, err := service.loadCycles(userID)
	if err != nil {
		return CycleStats{}, err
	}
	return CycleStatistics(cycles), nil
}

func (service *OverviewService) Calendar(user models.User, month time.Time) ([]CalendarDay, error) {
	cycles, err := service.loadCycles(user.ID)
	if err != nil {
		return nil, err
	}

	gridStart, gridEnd := CalendarGridBounds(month)
	afterGrid := gridEnd.AddDate(0, 0, 1)
	entries, err := service.diary.ListByUserRange(user.ID, &gridStart, &afterGrid)
	if err != nil {
		return nil, fmt.Errorf("load diary entries: %w", err)
	}

	return BuildMonthCalendar(month, cycles, entries, CycleSettingsForUser(user), service.clock.Today()), nil
}

func (service *OverviewService) Day(userID uint, day time.Time) (DayDetail, error) {
	cycles, err := service.loadCycles(userID)
	if err != nil {
		return DayDetail{}, err
	}

	day = dateOnly(day)
	detail := DayDetail{Date: FormatDay(day)}
	if cycle, ok := CycleForDate(day, cycles); ok {
		detail.InPeriod = true
		detail.Cycle = &cycle
	}

	nextDay := day.AddDate(0, 0, 1)
	entries, err := service.diary.ListByUserRange(userID, &day, &nextDay)
	if err != nil {
		return DayDetail{}, fmt.Errorf("load diary entries: %w", err)
	}
	if len(entries) > 0 {
		detail.Diary = &entries[0]
	}
	return detail, nil
}

func (service *OverviewService) loadCycles(userID uint) ([]models.Cycle, error) {
	cycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load cycles: %w", err)
	}
	return cycles, nil
}

func BuildCycleOverview(cycles []models.Cycle, settings CycleSettings, today time.Time) CycleOverview {
	lastStart := LastPeriodStart(cycles)
	next := NextPeriodDate(lastStart, settings.CycleLength, today)
	return CycleOverview{
		Today:           FormatDay(today),
		PhaseInfo:       BuildPhaseInfo(cycles, settings, today),
		LastPeriodStart: FormatDay(lastStart),
		NextPeriodDate:  FormatDay(next),
		OvulationDate:   FormatDay(OvulationDate(next)),
		Settings:        settings,
		Stats:           CycleStatistics(cycles),
	}
}
