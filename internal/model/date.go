package model

// Calendar date helpers. A calendar date is always the ISO form
// YYYY-MM-DD with no time or zone component, and every piece of date
// arithmetic in this codebase is done in UTC so results do not drift
// with the server's local timezone.

import (
	"errors"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a string is not a valid YYYY-MM-DD
// calendar date. Impossible dates such as 2024-02-30 are rejected too.
var ErrInvalidDate = errors.New("invalid calendar date")

// ParseDate converts a YYYY-MM-DD string into a UTC time at midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders a time as a YYYY-MM-DD string in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Today returns the current UTC calendar date.
func Today() string {
	return FormatDate(time.Now().UTC())
}

// AddDays shifts a calendar date by n days (n may be negative).
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// PrevDay returns the calendar day immediately before date.
func PrevDay(date string) (string, error) {
	return AddDays(date, -1)
}

// WeekStart returns the Monday on or before the given date (ISO week,
// Monday start). A Sunday maps to the Monday six days earlier.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return t.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of the date's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// YearStart returns January 1 of the date's year.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// NowStamp returns the current UTC instant in RFC 3339 form. It is the
// value written into created_at/updated_at audit fields.
func NowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
