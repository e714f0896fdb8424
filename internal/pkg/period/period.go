package period

import "time"

// MonthInterval returns the half-open UTC interval [first of month, first
// of next month) for the given calendar month.
func MonthInterval(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DaysSince returns the number of whole days elapsed from t to now.
// Negative when t is in the future.
func DaysSince(now, t time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}

// Valid reports whether year/month identify a plausible calendar month.
func Valid(year int, month time.Month) bool {
	return year >= 2000 && year <= 2200 && month >= time.January && month <= time.December
}
