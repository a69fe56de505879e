// Package clock provides the single source of wall-clock time for the bot.
// All date bucketing of daily logs and all schedule triggers go through a
// Clock pinned to one configured timezone.
package clock

import "time"

type Clock interface {
	Now() time.Time
	// Today returns midnight of the current calendar date in the
	// configured zone. Daily logs are keyed by this value.
	Today() time.Time
}

type zoneClock struct {
	loc *time.Location
}

// New returns a Clock fixed to the given IANA zone name.
func New(zone string) (Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return &zoneClock{loc: loc}, nil
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *zoneClock) Today() time.Time {
	return Midnight(c.Now())
}

// Midnight truncates t to the start of its calendar day, keeping the zone.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Fixed is a Clock pinned to a single instant, for tests and for sweeps
// that must evaluate an entire batch against one consistent "today".
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time   { return f.T }
func (f Fixed) Today() time.Time { return Midnight(f.T) }
