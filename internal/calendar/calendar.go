// Package calendar provides working-day date arithmetic for schedule
// computation. A Calendar is immutable after construction.
package calendar

import (
	"fmt"
	"time"
)

// DurationUnit selects how durations and day counts are interpreted.
type DurationUnit string

const (
	UnitWorkingDays  DurationUnit = "working_days"
	UnitCalendarDays DurationUnit = "calendar_days"
)

// DateLayout is the textual date format used throughout the spec files.
const DateLayout = "2006-01-02"

var weekdayAbbrevs = map[string]time.Weekday{
	"Sun": time.Sunday,
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
}

// Calendar holds the working-week definition and holiday set.
type Calendar struct {
	workingDays map[time.Weekday]bool
	holidays    map[string]bool // keyed by yyyy-mm-dd
	unit        DurationUnit
}

// New builds a Calendar from 3-letter weekday abbreviations and holiday
// dates. An empty workingDays list falls back to Mon-Fri.
func New(workingDays []string, holidays []time.Time, unit DurationUnit) (*Calendar, error) {
	if unit == "" {
		unit = UnitWorkingDays
	}
	if unit != UnitWorkingDays && unit != UnitCalendarDays {
		return nil, fmt.Errorf("unknown duration_unit: %q", unit)
	}

	days := make(map[time.Weekday]bool)
	if len(workingDays) == 0 {
		for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
			days[d] = true
		}
	}
	for _, abbrev := range workingDays {
		wd, ok := weekdayAbbrevs[abbrev]
		if !ok {
			return nil, fmt.Errorf("unknown weekday abbreviation: %q", abbrev)
		}
		days[wd] = true
	}

	hols := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		hols[Normalize(h).Format(DateLayout)] = true
	}

	return &Calendar{workingDays: days, holidays: hols, unit: unit}, nil
}

// Unit reports the calendar's duration unit.
func (c *Calendar) Unit() DurationUnit {
	return c.unit
}

// Normalize strips the time-of-day component so holiday and day-count
// comparisons work on whole calendar days.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether d is a working day: not a holiday and its
// weekday is in the working set.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	d = Normalize(d)
	if c.holidays[d.Format(DateLayout)] {
		return false
	}
	return c.workingDays[d.Weekday()]
}

// AddWorkingDays returns start advanced by n working days (or plain
// calendar days in calendar_days mode). Negative n steps backward.
// Zero returns start unchanged.
func (c *Calendar) AddWorkingDays(start time.Time, n int) time.Time {
	start = Normalize(start)
	if n == 0 {
		return start
	}
	if c.unit == UnitCalendarDays {
		return start.AddDate(0, 0, n)
	}

	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	d := start
	for counted := 0; counted < n; {
		d = d.AddDate(0, 0, step)
		if c.IsWorkingDay(d) {
			counted++
		}
	}
	return d
}

// DaysBetween counts working days in the half-open range [start, end).
// The result is signed: when end precedes start it is the negated count
// of the reversed range. In calendar_days mode it is the plain signed
// day difference.
func (c *Calendar) DaysBetween(start, end time.Time) int {
	start = Normalize(start)
	end = Normalize(end)
	if end.Before(start) {
		return -c.DaysBetween(end, start)
	}
	if c.unit == UnitCalendarDays {
		return int(end.Sub(start).Hours() / 24)
	}

	count := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}
