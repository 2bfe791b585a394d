package services

import (
	"math"
	"sort"

	"github.com/terraincognita07/venus/internal/models"
)

type CycleStats struct {
	AverageCycleLength  int `json:"average_cycle_length"`
	AveragePeriodLength int `json:"average_period_length"`
	MedianCycleLength   int `json:"median_cycle_length"`
	CycleCount          int `json:"cycle_count"`
}

// CycleStatistics averages period lengths over every record and cycle lengths over consecutive
// start gaps. Cycle length falls back to the default when fewer than two records exist.
func CycleStatistics(cycles []models.Cycle) CycleStats {
	stats := CycleStats{
		AverageCycleLength: models.DefaultCycleLength,
		CycleCount:         len(cycles),
	}
	if len(cycles) == 0 {
		return stats
	}

	sorted := make([]models.Cycle, 0, len(cycles))
	sorted = append(sorted, cycles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateOnly(sorted[i].StartDate).Before(dateOnly(sorted[j].StartDate))
	})

	periodLengths := make([]int, 0, len(sorted))
	for _, cycle := range sorted {
		periodLengths = append(periodLengths, daysBetween(cycle.StartDate, cycle.EndDate)+1)
	}
	stats.AveragePeriodLength = roundHalfUp(averageInts(periodLengths))

	lengths := CycleLengths(sorted)
	if len(lengths) > 0 {
		stats.AverageCycleLength = roundHalfUp(averageInts(lengths))
		stats.MedianCycleLength = medianInt(lengths)
	}
	return stats
}

// CycleLengths returns the gaps in days between consecutive starts of cycles sorted by start date.
func CycleLengths(sorted []models.Cycle) []int {
	if len(sorted) < 2 {
		return nil
	}

	lengths := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		lengths = append(lengths, daysBetween(sorted[i-1].StartDate, sorted[i].StartDate))
	}
	return lengths
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, 0, len(values))
	sorted = append(sorted, values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return roundHalfUp(float64(sorted[mid-1]+sorted[mid]) / 2)
}

func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}
