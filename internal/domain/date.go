package domain

import "time"

const DateLayout = "2006-01-02"

// NormalizeDate truncates a timestamp to its calendar date in UTC. All shift
// dates in the system are stored in this form.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysBetween returns every date of the inclusive range [start, end].
func DaysBetween(start, end time.Time) []time.Time {
	start = NormalizeDate(start)
	end = NormalizeDate(end)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
