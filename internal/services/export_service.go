package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/venus/internal/models"
)

var ExportCSVHeaders = []string{
	"Date",
	"Period",
	"Cycle ID",
	"Mood",
	"Symptoms",
	"Notes",
}

type ExportService struct {
	cycles OverviewCycleReader
	diary  OverviewDiaryReader
}

type ExportSummary struct {
	TotalCycles  int    `json:"total_cycles"`
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

type ExportCycle struct {
	ID         string `json:"id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	PeriodDays int    `json:"period_days"`
}

type ExportDiaryEntry struct {
	Date     string   `json:"date"`
	Mood     string   `json:"mood"`
	Symptoms []string `json:"symptoms"`
	Notes    string   `json:"notes"`
}

type ExportDocument struct {
	Cycles []ExportCycle      `json:"cycles"`
	Diary  []ExportDiaryEntry `json:"diary"`
	Stats  CycleStats         `json:"stats"`
}

// ExportCSVRow is one calendar day that is either inside a recorded period or has a diary entry.
type ExportCSVRow struct {
	Date     string
	Period   bool
	CycleID  string
	Mood     string
	Symptoms []string
	Notes    string
}

func NewExportService(cycles OverviewCycleReader, diary OverviewDiaryReader) *ExportService {
	return &ExportService{cycles: cycles, diary: diary}
}

// LoadDataForRange returns the cycles touching [from, to] and the diary entries inside it, oldest first.
func (service *ExportService) LoadDataForRange(userID uint, from *time.Time, to *time.Time) ([]models.Cycle, []models.DiaryEntry, error) {
	allCycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load cycles: %w", err)
	}
	cycles := make([]models.Cycle, 0, len(allCycles))
	for _, cycle := range allCycles {
		if from != nil && dateOnly(cycle.EndDate).Before(dateOnly(*from)) {
			continue
		}
		if to != nil && dateOnly(cycle.StartDate).After(dateOnly(*to)) {
			continue
		}
		cycles = append(cycles, cycle)
	}
	sort.SliceStable(cycles, func(i, j int) bool { return cycles[i].StartDate.Before(cycles[j].StartDate) })

	var toEnd *time.Time
	if to != nil {
		day := dateOnly(*to).AddDate(0, 0, 1)
		toEnd = &day
	}
	entries, err := service.diary.ListByUserRange(userID, from, toEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("load diary entries: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	return cycles, entries, nil
}

func (service *ExportService) BuildSummary(userID uint, from *time.Time, to *time.Time) (ExportSummary, error) {
	cycles, entries, err := service.LoadDataForRange(userID, from, to)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(cycles) == 0 && len(entries) == 0 {
		return ExportSummary{}, nil
	}

	var first, last time.Time
	extend := func(day time.Time) {
		day = dateOnly(day)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}
	for _, cycle := range cycles {
		extend(cycle.StartDate)
		extend(cycle.EndDate)
	}
	for _, entry := range entries {
		extend(entry.Date)
	}

	return ExportSummary{
		TotalCycles:  len(cycles),
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     FormatDay(first),
		DateTo:       FormatDay(last),
	}, nil
}

func (service *ExportService) BuildDocument(userID uint, from *time.Time, to *time.Time) (ExportDocument, error) {
	cycles, entries, err := service.LoadDataForRange(userID, from, to)
	if err != nil {
		return ExportDocument{}, err
	}

	document := ExportDocument{
		Cycles: make([]ExportCycle, 0, len(cycles)),
		Diary:  make([]ExportDiaryEntry, 0, len(entries)),
		Stats:  CycleStatistics(cycles),
	}
	for _, cycle := range cycles {
		document.Cycles = append(document.Cycles, ExportCycle{
			ID:         cycle.ID,
			StartDate:  FormatDay(cycle.StartDate),
			EndDate:    FormatDay(cycle.EndDate),
			PeriodDays: daysBetween(cycle.StartDate, cycle.EndDate) + 1,
		})
	}
	for _, entry := range entries {
		symptoms := entry.Symptoms
		if symptoms == nil {
			symptoms = []string{}
		}
		document.Diary = append(document.Diary, ExportDiaryEntry{
			Date:     FormatDay(entry.Date),
			Mood:     entry.Mood,
			Symptoms: symptoms,
			Notes:    entry.Notes,
		})
	}
	return document, nil
}

func (service *ExportService) BuildCSVRows(userID uint, from *time.Time, to *time.Time) ([]ExportCSVRow, error) {
	cycles, entries, err := service.LoadDataForRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	rowsByDate := make(map[string]*ExportCSVRow)
	rowFor := func(day time.Time) *ExportCSVRow {
		key := FormatDay(day)
		row, ok := rowsByDate[key]
		if !ok {
			row = &ExportCSVRow{Date: key}
			rowsByDate[key] = row
		}
		return row
	}

	for _, cycle := range cycles {
		for day := dateOnly(cycle.StartDate); !day.After(dateOnly(cycle.EndDate)); day = day.AddDate(0, 0, 1) {
			if from != nil && day.Before(dateOnly(*from)) {
				continue
			}
			if to != nil && day.After(dateOnly(*to)) {
				break
			}
			row := rowFor(day)
			row.Period = true
			row.CycleID = cycle.ID
		}
	}
	for _, entry := range entries {
		row := rowFor(entry.Date)
		row.Mood = entry.Mood
		row.Symptoms = entry.Symptoms
		row.Notes = entry.Notes
	}

	rows := make([]ExportCSVRow, 0, len(rowsByDate))
	for _, row := range rowsByDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	return []string{
		row.Date,
		csvYesNo(row.Period),
		row.CycleID,
		row.Mood,
		strings.Join(row.Symptoms, "; "),
		row.Notes,
	}
}

func csvYesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
