// Package civil implements calendar-date parsing and day-difference
// arithmetic anchored to local midnight. Renewal dates are civil dates:
// "2025-12-13" means December 13th everywhere, so the package never
// interprets a date string as a UTC instant. Converting through UTC
// midnight shifts the apparent day for every observer west of UTC.
package civil

import (
	"math"
	"time"

	"subscription-tracker/internal/domain"
)

// Date is a calendar day with no time-of-day and no timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse converts a strict YYYY-MM-DD string into a Date. The components
// are read directly from the string; no time package parsing is involved,
// so no timezone can leak in. Wrong shape or an impossible day-of-month
// (e.g. 2025-02-30) returns domain.ErrInvalidDate. Nothing is clamped.
func Parse(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, domain.ErrInvalidDate
	}
	year, ok1 := atoi(s[0:4])
	month, ok2 := atoi(s[5:7])
	day, ok3 := atoi(s[8:10])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, domain.ErrInvalidDate
	}
	if month < 1 || month > 12 {
		return Date{}, domain.ErrInvalidDate
	}
	if day < 1 || day > daysInMonth(year, time.Month(month)) {
		return Date{}, domain.ErrInvalidDate
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// MustParse is Parse for compile-time-known literals; it panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic("civil: " + s + " is not a valid date")
	}
	return d
}

// DateOf truncates an instant to the civil date of its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns local midnight of the date in the given location.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String formats the date back to YYYY-MM-DD. For every valid input
// string s, Parse(s).String() == s.
func (d Date) String() string {
	b := make([]byte, 10)
	itoa(b[0:4], d.Year)
	b[4] = '-'
	itoa(b[5:7], int(d.Month))
	b[7] = '-'
	itoa(b[8:10], d.Day)
	return string(b)
}

// MarshalJSON renders d as a YYYY-MM-DD string. Dates cross every
// serialization boundary in that form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) != 12 || b[0] != '"' || b[11] != '"' {
		return domain.ErrInvalidDate
	}
	parsed, err := Parse(string(b[1:11]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// AddDays returns the civil date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// DaysUntil returns the signed number of whole civil days from now's
// calendar day to d, computed in now's location: 0 for today, positive
// for future dates, negative for past dates.
//
// Both sides are normalized to local midnight and the wall-clock interval
// is rounded to whole days rather than truncated or ceiled. A DST
// transition day is 23 or 25 hours long, so ceiling division would report
// one extra day across a spring-forward boundary; the fractional error a
// shift introduces is always under half a day, which rounding absorbs.
func DaysUntil(d Date, now time.Time) int {
	loc := now.Location()
	today := DateOf(now).In(loc)
	target := d.In(loc)
	return int(math.Round(target.Sub(today).Hours() / 24))
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoi(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func itoa(dst []byte, v int) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
}
