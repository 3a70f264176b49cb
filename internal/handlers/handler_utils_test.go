package handlers

import (
	"testing"
	"time"
)

func TestCombineDateTime(t *testing.T) {
	day := time.Date(2025, 6, 2, 13, 45, 59, 123, time.UTC)

	got, err := combineDateTime(day, "09:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 2, 9, 5, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("combineDateTime = %v, want %v", got, want)
	}
}

func TestCombineDateTime_BadClock(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for _, clock := range []string{"", "9:00:00", "25:00", "12:60", "noon"} {
		if _, err := combineDateTime(day, clock); err == nil {
			t.Fatalf("expected error for clock %q", clock)
		}
	}
}

func TestDaysInRange(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2025-06-02", "2025-06-02", 1},
		{"2025-06-02", "2025-06-04", 3},
		{"2025-06-01", "2025-06-14", 14},
		{"2025-06-29", "2025-07-02", 4},  // граница месяца
		{"2024-02-28", "2024-03-01", 3},  // високосный год
		{"2025-06-04", "2025-06-02", 0},  // перевернутый диапазон
	}
	for _, tc := range cases {
		start, _ := time.Parse("2006-01-02", tc.start)
		end, _ := time.Parse("2006-01-02", tc.end)
		if got := daysInRange(start, end); got != tc.want {
			t.Errorf("daysInRange(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestDaysInRange_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 0, 1, 0, 0, time.UTC)
	if got := daysInRange(start, end); got != 2 {
		t.Fatalf("daysInRange across midnight = %d, want 2", got)
	}
}
