package clock

import "time"

const Day = 24 * time.Hour

// Clock provides time to the ledgers so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// System returns wall-clock time in the club's time zone.
type System struct {
	loc *time.Location
}

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.UTC
	}
	return System{loc: loc}
}

func (s System) Now() time.Time { return time.Now().In(s.loc) }

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// DateOf returns the calendar day of t, as seen in t's location, at 00:00 UTC.
// Booking dates are compared and stored in this form.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is DateOf(c.Now()).
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// ParseDate parses YYYY-MM-DD. An empty string yields today.
func ParseDate(c Clock, s string) (time.Time, error) {
	if s == "" {
		return Today(c), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
