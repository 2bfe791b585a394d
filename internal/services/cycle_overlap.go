package services

import (
	"time"

	"github.com/terraincognita07/venus/internal/models"
)

// CheckOverlap reports whether [newStart, newEnd] touches any existing cycle. Boundaries are
// inclusive. A non-empty excludeID skips the record being edited.
//
// The check is advisory: concurrent writers can still store overlapping cycles.
func CheckOverlap(newStart time.Time, newEnd time.Time, existing []models.Cycle, excludeID string) bool {
	start := dateOnly(newStart)
	end := dateOnly(newEnd)

	for _, cycle := range existing {
		if excludeID != "" && cycle.ID == excludeID {
			continue
		}

		existingStart := dateOnly(cycle.StartDate)
		existingEnd := dateOnly(cycle.EndDate)

		startInside := betweenInclusive(start, existingStart, existingEnd)
		endInside := betweenInclusive(end, existingStart, existingEnd)
		encompasses := !start.After(existingStart) && !end.Before(existingEnd)
		if startInside || endInside || encompasses {
			return true
		}
	}
	return false
}

// PeriodEndFromLength returns the last day of a period that starts on start and lasts periodLength days.
func PeriodEndFromLength(start time.Time, periodLength int) time.Time {
	if periodLength < 1 {
		periodLength = 1
	}
	return dateOnly(start).AddDate(0, 0, periodLength-1)
}
