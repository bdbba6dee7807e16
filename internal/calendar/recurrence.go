// Package calendar turns stored events into the days they land on.
//
// HOW EXPANSION WORKS:
// An Event carries a single anchor date plus a recurrence rule. For a viewed
// (year, month) the rule decides which day, if any, the event shows up on:
//
//	one-time → the anchor itself, only in the anchor's own month
//	yearly   → anchor day, in the anchor's month of any year
//	monthly  → anchor day, in any month
//
// There is NO clamping: a monthly anchor on the 31st simply has no occurrence
// in a 30-day month, and a yearly Feb 29 anchor skips non-leap years. Each rule
// yields at most one day per month, so expansion is one pass over the events.
//
// Everything here is pure (no I/O, no clock), so the whole package
// is tested with plain table-driven tests.
package calendar

import (
	"time"

	"github.com/sakif/memories/internal/model"
)

// DaysIn returns the number of days in the given month.
//
// time.Date normalises out-of-range values, so "day 0 of next month" is the
// last day of this one. That's the standard Go idiom for month length.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseAnchor splits an event's anchor date into its parts.
// ok is false when the date is not a real "YYYY-MM-DD" calendar date
// ("2024-02-30" and "2024-3-5" are both rejected).
func ParseAnchor(date string) (year int, month time.Month, day int, ok bool) {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Year(), t.Month(), t.Day(), true
}

// OccurrenceDay reports the day of the viewed month on which the event occurs.
// ok is false when it does not occur in that month, when the anchor is
// malformed, or when the recurrence rule is unknown.
func OccurrenceDay(e model.Event, year int, month time.Month) (day int, ok bool) {
	if month < time.January || month > time.December {
		return 0, false
	}
	ay, am, ad, valid := ParseAnchor(e.Date)
	if !valid {
		return 0, false
	}

	switch e.Recurrence {
	case model.RecurrenceOneTime:
		if ay != year || am != month {
			return 0, false
		}
	case model.RecurrenceYearly:
		if am != month {
			return 0, false
		}
	case model.RecurrenceMonthly:
		// any month; only the day must exist
	default:
		return 0, false
	}

	if ad > DaysIn(year, month) {
		return 0, false
	}
	return ad, true
}

// OccursOn reports whether the event lands on the given calendar day.
func OccursOn(e model.Event, year int, month time.Month, day int) bool {
	d, ok := OccurrenceDay(e, year, month)
	return ok && d == day
}

// OccurrencesInMonth maps each day of the viewed month that has at least one
// occurrence to the events occurring on it.
//
// Events within a day keep their input order. An event whose anchor can't be
// parsed never matches; it does not affect any other event.
func OccurrencesInMonth(events []model.Event, year int, month time.Month) map[int][]model.Event {
	days := make(map[int][]model.Event)
	for _, e := range events {
		if d, ok := OccurrenceDay(e, year, month); ok {
			days[d] = append(days[d], e)
		}
	}
	return days
}
