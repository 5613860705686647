package clock

import (
	"time"

	"github.com/rs/zerolog/log"

	"bookingtracker/internal"
)

// Clock resolves "now" and "today" in the application timezone. Tests pin it
// with Fixed.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New loads the named IANA location. Unknown names fall back to UTC with a
// logged error; "Local" and "" use the host zone.
func New(timezone string) Clock {
	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			log.Error().Err(err).Str("timezone", timezone).Msg("failed to load timezone, falling back to UTC")
			l = time.UTC
		}
		loc = l
	}
	return Clock{loc: loc, now: time.Now}
}

func Fixed(t time.Time) Clock {
	return Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.Location())
	}
	return c.now().In(c.Location())
}

// Today is the current calendar date in canonical form.
func (c Clock) Today() string {
	return c.Now().Format(internal.DateLayout)
}

// AddDays shifts a canonical date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := time.Parse(internal.DateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(internal.DateLayout), nil
}

// DaysBetween returns the whole-day difference to-from for canonical dates.
func DaysBetween(from, to string) (int, bool) {
	a, err := time.Parse(internal.DateLayout, from)
	if err != nil {
		return 0, false
	}
	b, err := time.Parse(internal.DateLayout, to)
	if err != nil {
		return 0, false
	}
	return int(b.Sub(a).Hours() / 24), true
}
