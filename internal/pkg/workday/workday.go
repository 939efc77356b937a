// Package workday holds the calendar arithmetic shared by leave and payroll:
// day truncation, Monday to Friday counting and month bounds. No holiday
// calendar is applied.
//
// Calendar dates are carried as midnight UTC, the value pgx returns for DATE
// columns. The application time zone only decides which date an instant falls on.
package workday

import "time"

const DateLayout = "2006-01-02"

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Today returns the calendar date of now in loc as a date value.
func Today(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return Date(n.Year(), n.Month(), n.Day(), time.UTC)
}

// At returns the instant at hour:minute in loc on the calendar date of day.
func At(day time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}

// Date builds midnight of the given calendar date in loc.
func Date(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func IsWeekday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// Weekdays returns every Monday to Friday date in [from, to], both inclusive.
// Only the calendar dates of from and to are considered.
func Weekdays(from, to time.Time) []time.Time {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, from.Location())

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWeekday(d) {
			days = append(days, d)
		}
	}
	return days
}

// CountWeekdays counts Monday to Friday dates in [from, to]. It returns 0
// when from is after to.
func CountWeekdays(from, to time.Time) int {
	return len(Weekdays(from, to))
}

// MonthBounds returns the first and last calendar date of the month.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := Date(year, month, 1, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// YearBounds returns January 1st and December 31st of year.
func YearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	return Date(year, time.January, 1, loc), Date(year, time.December, 31, loc)
}

// Clip intersects [from, to] with [lo, hi]. ok is false when they do not overlap.
func Clip(from, to, lo, hi time.Time) (time.Time, time.Time, bool) {
	if from.Before(lo) {
		from = lo
	}
	if to.After(hi) {
		to = hi
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// Overlaps reports whether the closed ranges [aStart, aEnd] and [bStart, bEnd] share a date.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
