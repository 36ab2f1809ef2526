package civil_test

import (
	"errors"
	"testing"
	"time"

	"subscription-tracker/internal/domain"
	"subscription-tracker/internal/domain/civil"
)

// Zones deliberately include negative-UTC-offset and DST-observing ones:
// the defect class this package exists to prevent only shows up there.
var zones = []string{
	"UTC",
	"America/New_York",
	"America/Los_Angeles",
	"Europe/Berlin",
	"Asia/Tokyo",
	"Pacific/Auckland",
}

func loadZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"2025-12-13",
		"2025-01-01",
		"2024-02-29", // leap day
		"1999-12-31",
		"2025-06-30",
	}
	for _, s := range inputs {
		d, err := civil.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := d.String(); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"2025-12-3",
		"2025/12/13",
		"13-12-2025",
		"2025-13-01", // no 13th month
		"2025-00-10",
		"2025-12-00",
		"2025-12-32",
		"2025-02-30", // impossible day, must not clamp
		"2025-02-29", // not a leap year
		"2025-04-31",
		"20251213",
		"2025-12-13T00:00:00Z", // instants are not civil dates
		"yyyy-mm-dd",
	}
	for _, s := range inputs {
		if _, err := civil.Parse(s); !errors.Is(err, domain.ErrInvalidDate) {
			t.Errorf("Parse(%q): want ErrInvalidDate, got %v", s, err)
		}
	}
}

// A parsed date formatted back must yield the original string in every
// timezone: parsing must never route through UTC midnight.
func TestParseAnchorsToLocalMidnight(t *testing.T) {
	const s = "2025-12-13"
	d, err := civil.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range zones {
		loc := loadZone(t, name)
		midnight := d.In(loc)
		if got := midnight.Format("2006-01-02"); got != s {
			t.Errorf("zone %s: local midnight formats to %q, want %q", name, got, s)
		}
		if h, m, sec := midnight.Clock(); h != 0 || m != 0 || sec != 0 {
			t.Errorf("zone %s: not midnight: %v", name, midnight)
		}
	}
}

func TestDaysUntilZeroAtToday(t *testing.T) {
	for _, name := range zones {
		loc := loadZone(t, name)
		// late in the evening, to catch any UTC conversion sliding the day
		now := time.Date(2025, 12, 10, 23, 30, 0, 0, loc)
		if got := civil.DaysUntil(civil.MustParse("2025-12-10"), now); got != 0 {
			t.Errorf("zone %s: DaysUntil(today) = %d, want 0", name, got)
		}
	}
}

func TestDaysUntilSign(t *testing.T) {
	loc := loadZone(t, "America/New_York")
	now := time.Date(2025, 12, 10, 9, 0, 0, 0, loc)
	cases := []struct {
		date string
		want int
	}{
		{"2025-12-09", -1},
		{"2025-12-10", 0},
		{"2025-12-11", 1},
		{"2025-12-17", 7},
		{"2026-01-09", 30},
		{"2025-11-10", -30},
		{"2026-12-10", 365},
	}
	for _, c := range cases {
		if got := civil.DaysUntil(civil.MustParse(c.date), now); got != c.want {
			t.Errorf("DaysUntil(%s) = %d, want %d", c.date, got, c.want)
		}
	}
}

func TestDaysUntilMonotonic(t *testing.T) {
	loc := loadZone(t, "America/Los_Angeles")
	now := time.Date(2025, 2, 28, 12, 0, 0, 0, loc)
	d := civil.MustParse("2025-01-15")
	prev := civil.DaysUntil(d, now)
	for i := 0; i < 120; i++ {
		d = d.AddDays(1)
		cur := civil.DaysUntil(d, now)
		if cur != prev+1 {
			t.Fatalf("offset jumped from %d to %d at %s", prev, cur, d)
		}
		prev = cur
	}
}

// Spring forward: 2025-03-09 is a 23-hour day in US zones. The interval
// from midnight to midnight is 23h; truncation would report 0 days.
func TestDaysUntilSpringForward(t *testing.T) {
	loc := loadZone(t, "America/New_York")
	now := time.Date(2025, 3, 9, 8, 0, 0, 0, loc)
	if got := civil.DaysUntil(civil.MustParse("2025-03-10"), now); got != 1 {
		t.Errorf("across spring-forward: got %d, want 1", got)
	}
	// crossing the transition from the day before
	now = time.Date(2025, 3, 8, 8, 0, 0, 0, loc)
	if got := civil.DaysUntil(civil.MustParse("2025-03-10"), now); got != 2 {
		t.Errorf("two days across spring-forward: got %d, want 2", got)
	}
}

// Fall back: 2025-11-02 is a 25-hour day in US zones. Ceiling division
// over the 25h interval would report 2 days for a 1-day difference.
func TestDaysUntilFallBack(t *testing.T) {
	loc := loadZone(t, "America/New_York")
	now := time.Date(2025, 11, 2, 8, 0, 0, 0, loc)
	if got := civil.DaysUntil(civil.MustParse("2025-11-03"), now); got != 1 {
		t.Errorf("across fall-back: got %d, want 1", got)
	}
	now = time.Date(2025, 11, 1, 22, 0, 0, 0, loc)
	if got := civil.DaysUntil(civil.MustParse("2025-11-02"), now); got != 1 {
		t.Errorf("into fall-back day: got %d, want 1", got)
	}
}

func TestDateOf(t *testing.T) {
	loc := loadZone(t, "Pacific/Auckland")
	// 23:59 local is still the same civil day locally even though it is
	// the previous day in UTC
	now := time.Date(2025, 7, 1, 23, 59, 0, 0, loc)
	if got := civil.DateOf(now).String(); got != "2025-07-01" {
		t.Errorf("DateOf = %s, want 2025-07-01", got)
	}
}

func TestAddDays(t *testing.T) {
	cases := []struct {
		start string
		n     int
		want  string
	}{
		{"2025-12-28", 7, "2026-01-04"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2025-02-28", 1, "2025-03-01"},
		{"2025-01-01", -1, "2024-12-31"},
	}
	for _, c := range cases {
		if got := civil.MustParse(c.start).AddDays(c.n).String(); got != c.want {
			t.Errorf("%s + %d days = %s, want %s", c.start, c.n, got, c.want)
		}
	}
}

func TestBefore(t *testing.T) {
	a := civil.MustParse("2025-12-10")
	b := civil.MustParse("2025-12-11")
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Error("Before ordering broken")
	}
}
