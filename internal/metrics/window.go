// Package metrics computes income, expense, savings and category statistics over
// budget periods that have already been fetched from storage.
//
// Every function here is pure: it reads the periods it is handed, never mutates
// them, and keeps no state between calls. Calendar arithmetic (year and month
// windows, the month a period starts in) is done in the *time.Location passed by
// the caller. Rows whose DeletedAt is set are ignored even if the caller fetched
// them, so a snapshot loaded with Unscoped still honours soft delete.
package metrics

import "time"

// Window is a closed time interval [Start, End] at millisecond resolution.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// YearWindow returns [Jan 1 00:00:00.000, Dec 31 23:59:59.999] of year in loc.
func YearWindow(year int, loc *time.Location) Window {
	return RangeWindow(year, year, loc)
}

// RangeWindow returns [Jan 1 00:00:00.000 of startYear, Dec 31 23:59:59.999 of endYear] in loc.
func RangeWindow(startYear, endYear int, loc *time.Location) Window {
	start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, location(loc))
	end := time.Date(endYear+1, time.January, 1, 0, 0, 0, 0, location(loc)).Add(-time.Millisecond)
	return Window{Start: start, End: end}
}

// monthWindow returns [day 1 00:00:00.000, last day 23:59:59.999] of month in year.
func monthWindow(year int, month time.Month, loc *time.Location) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, location(loc))
	return Window{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Millisecond)}
}

// Overlaps is the inclusive overlap test used to select periods for a scope:
// the period [start, end] is included when its start falls inside the scope,
// its end falls inside the scope, or it spans the whole scope.
func Overlaps(start, end time.Time, scope Window) bool {
	if scope.Contains(start) || scope.Contains(end) {
		return true
	}
	return !start.After(scope.Start) && !end.Before(scope.End)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
