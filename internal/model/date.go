package model

import (
	"fmt"
	"time"
)

// Date is a calendar date packed as YYYYMMDD. The zero value is the
// "unknown / not applicable" sentinel used throughout registry extracts.
type Date int

// NewDate packs year, month and day. It does not validate the calendar.
func NewDate(year int, month time.Month, day int) Date {
	return Date(year*10000 + int(month)*100 + day)
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// CutoffDate returns the as-of date for a fiscal year, e.g. 2020-03-31.
func CutoffDate(year int, month time.Month, day int) Date {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

func (d Date) IsZero() bool { return d == 0 }

func (d Date) Year() int { return int(d) / 10000 }
func (d Date) Month() time.Month { return time.Month(int(d) / 100 % 100) }
func (d Date) Day() int { return int(d) % 100 }

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	if d <= 0 || d.Month() < time.January || d.Month() > time.December || d.Day() < 1 {
		return false
	}
	return d.Day() <= DaysIn(d.Year(), d.Month())
}

func (d Date) String() string {
	if d == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), int(d.Month()), d.Day())
}

// Compact returns the YYYYMMDD form used by registry extracts, or "" for
// the zero date.
func (d Date) Compact() string {
	if d == 0 {
		return ""
	}
	return fmt.Sprintf("%08d", int(d))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
