package period

import "time"

// Token names a dashboard period preset.
type Token string

const (
	Today      Token = "today"
	ThisWeek   Token = "thisWeek"
	ThisMonth  Token = "thisMonth"
	Last30Days Token = "last30Days"
)

// Range is an inclusive date interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// Resolve maps a period token to a concrete range anchored at now.
// Unknown tokens fall back to the current month. Pure function of
// (token, now); boundaries are inclusive day edges in now's location.
func Resolve(token Token, now time.Time) Range {
	switch token {
	case Today:
		return Range{Start: startOfDay(now), End: endOfDay(now)}
	case ThisWeek:
		start := startOfWeek(now)
		return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case Last30Days:
		return Range{Start: startOfDay(now).AddDate(0, 0, -30), End: endOfDay(now)}
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	}
}

// Contains reports whether t falls inside the range, boundaries included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfWeek returns the Monday of t's ISO week.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return startOfDay(t).AddDate(0, 0, -(weekday - 1))
}
