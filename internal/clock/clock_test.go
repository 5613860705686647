package clock

import (
	"testing"
	"time"
)

func TestFixedToday(t *testing.T) {
	c := Fixed(time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC))
	if got := c.Today(); got != "2026-10-17" {
		t.Fatalf("today=%s", got)
	}
}

func TestAddDaysCrossesMonth(t *testing.T) {
	got, err := AddDays("2026-10-28", 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2026-11-04" {
		t.Fatalf("got %s", got)
	}
	if _, err := AddDays("tomorrow", 1); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
		ok       bool
	}{
		{"2026-10-01", "2026-10-04", 3, true},
		{"2026-10-04", "2026-10-01", -3, true},
		{"2026-03-28", "2026-03-30", 2, true},
		{"", "2026-10-01", 0, false},
	}
	for _, tc := range cases {
		got, ok := DaysBetween(tc.from, tc.to)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("DaysBetween(%q,%q)=%d,%v", tc.from, tc.to, got, ok)
		}
	}
}

func TestNewUnknownZoneFallsBackToUTC(t *testing.T) {
	c := New("Mars/Olympus")
	if c.Location() != time.UTC {
		t.Fatalf("loc=%s", c.Location())
	}
}
