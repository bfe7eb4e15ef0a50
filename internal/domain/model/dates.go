package model

import "time"

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months to the date of t. When the target month is
// shorter, the day is clamped to its last day (Nov 30 + 3 months = Feb 28),
// unlike time.AddDate which would roll over into March.
func AddMonths(t time.Time, n int) time.Time {
	d := DateOf(t)
	y, m, day := d.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(firstOfTarget); day > last {
		day = last
	}
	return firstOfTarget.AddDate(0, 0, day-1)
}

// FirstOfNextMonth returns the first day of the month after t.
func FirstOfNextMonth(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b, negative when
// b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
