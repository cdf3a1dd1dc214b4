package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// ISBNString represents an ISBN identifier.
type ISBNString = string

// EmailString represents a member email address.
type EmailString = string

// Date represents a calendar date; the time-of-day part is always midnight UTC.
type Date = time.Time

// ToDate converts a time to a Date by truncating it to its calendar day in UTC.
func ToDate(t time.Time) Date {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day as a Date.
func Today() Date {
	return ToDate(time.Now())
}
