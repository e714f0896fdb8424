package period

import (
	"testing"
	"time"
)

func TestMonthInterval(t *testing.T) {
	start, end := MonthInterval(2025, time.December)
	if !start.Equal(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", start)
	}
	if !end.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	then := now.AddDate(0, 0, -45)
	if got := DaysSince(now, then); got != 45 {
		t.Fatalf("expected 45 days, got %d", got)
	}
	if got := DaysSince(now, now.Add(time.Hour)); got != 0 {
		t.Fatalf("expected 0 for future within a day, got %d", got)
	}
}

func TestValid(t *testing.T) {
	if !Valid(2025, time.June) {
		t.Fatal("expected 2025-06 to be valid")
	}
	if Valid(1999, time.June) || Valid(2025, time.Month(13)) || Valid(2025, time.Month(0)) {
		t.Fatal("expected out-of-range periods to be invalid")
	}
}
