package services

import (
	"testing"

	"github.com/terraincognita07/venus/internal/models"
)

func TestCycleStatisticsTwoRecords(t *testing.T) {
	t.Parallel()

	stats := CycleStatistics([]models.Cycle{
		makeCycle("b", "2025-01-29", "2025-02-02"),
		makeCycle("a", "2025-01-01", "2025-01-05"),
	})
	if stats.AveragePeriodLength != 5 {
		t.Fatalf("expected average period length 5, got %d", stats.AveragePeriodLength)
	}
	if stats.AverageCycleLength != 28 {
		t.Fatalf("expected average cycle length 28, got %d", stats.AverageCycleLength)
	}
	if stats.CycleCount != 2 {
		t.Fatalf("expected cycle count 2, got %d", stats.CycleCount)
	}
}

func TestCycleStatisticsRoundsHalfUp(t *testing.T) {
	t.Parallel()

	stats := CycleStatistics([]models.Cycle{
		makeCycle("a", "2025-01-01", "2025-01-04"),
		makeCycle("b", "2025-01-28", "2025-02-01"),
		makeCycle("c", "2025-02-26", "2025-03-02"),
	})
	// gaps 27 and 29; periods 4, 5, 5 -> 4.67
	if stats.AverageCycleLength != 28 {
		t.Fatalf("expected average cycle length 28, got %d", stats.AverageCycleLength)
	}
	if stats.AveragePeriodLength != 5 {
		t.Fatalf("expected average period length 5, got %d", stats.AveragePeriodLength)
	}
	if stats.MedianCycleLength != 28 {
		t.Fatalf("expected median cycle length 28, got %d", stats.MedianCycleLength)
	}

	halfway := CycleStatistics([]models.Cycle{
		makeCycle("a", "2025-01-01", "2025-01-03"),
		makeCycle("b", "2025-02-01", "2025-02-04"),
	})
	// periods 3 and 4 -> 3.5 rounds to 4
	if halfway.AveragePeriodLength != 4 {
		t.Fatalf("expected 3.5 to round to 4, got %d", halfway.AveragePeriodLength)
	}
}

func TestCycleStatisticsFallbacks(t *testing.T) {
	t.Parallel()

	empty := CycleStatistics(nil)
	if empty.AverageCycleLength != models.DefaultCycleLength || empty.AveragePeriodLength != 0 {
		t.Fatalf("unexpected empty stats: %#v", empty)
	}

	single := CycleStatistics([]models.Cycle{makeCycle("a", "2025-01-01", "2025-01-06")})
	if single.AverageCycleLength != models.DefaultCycleLength {
		t.Fatalf("expected fallback cycle length, got %d", single.AverageCycleLength)
	}
	if single.AveragePeriodLength != 6 {
		t.Fatalf("expected period length 6, got %d", single.AveragePeriodLength)
	}
	if single.MedianCycleLength != 0 {
		t.Fatalf("expected no median with one record, got %d", single.MedianCycleLength)
	}
}

func TestMedianInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		values []int
		want   int
	}{
		{values: nil, want: 0},
		{values: []int{30}, want: 30},
		{values: []int{31, 27, 29}, want: 29},
		{values: []int{27, 28}, want: 28},
	}
	for _, testCase := range cases {
		if got := medianInt(testCase.values); got != testCase.want {
			t.Fatalf("medianInt(%v) = %d, want %d", testCase.values, got, testCase.want)
		}
	}
}
