// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data. They are similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Recurrence says how an event repeats from its anchor date.
type Recurrence string

const (
	RecurrenceOneTime Recurrence = "one-time"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// Valid reports whether r is one of the known recurrence rules.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceOneTime, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of an event's anchor date.
const DateLayout = "2006-01-02"

// Event is a calendar entry.
//
// Date is the ANCHOR occurrence, kept as the "YYYY-MM-DD" text the client sent.
// We deliberately don't parse it into a time.Time on the way in: the store
// persists what it is given, and the calendar package decides at read time
// whether the anchor is usable.
type Event struct {
	ID         string     `json:"id"         db:"id"`
	Title      string     `json:"title"      db:"title"`
	Date       string     `json:"date"       db:"date"`
	Recurrence Recurrence `json:"recurrence" db:"recurrence"`
	CreatedAt  time.Time  `json:"createdAt"  db:"created_at"`
}
