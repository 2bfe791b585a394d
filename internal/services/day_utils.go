package services

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDay = errors.New("invalid day")

// Clock supplies the current calendar day. Read it once per computation so a request that spans
// midnight sees a single "today".
type Clock interface {
	Today() time.Time
}

type SystemClock struct {
	Location *time.Location
}

func (clock SystemClock) Today() time.Time {
	return DateAtLocation(time.Now(), clock.Location)
}

type FixedClock time.Time

func (clock FixedClock) Today() time.Time {
	return dateOnly(time.Time(clock))
}

// DateAtLocation returns the calendar day value falls on in location, as a UTC-midnight date.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return dateOnly(value.In(location))
}

func ParseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrInvalidDay
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return dateOnly(value).Format("2006-01-02")
}
