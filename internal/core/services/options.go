package services

import "time"

// Option customizes the clock and calendar used by a service.
type Option func(*clock)

type clock struct {
	now func() time.Time
	loc *time.Location
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the timezone calendar days and hours are computed in.
func WithLocation(loc *time.Location) Option {
	return func(c *clock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// at returns t in the configured location, or the current time when t is zero.
func (c clock) at(t time.Time) time.Time {
	if t.IsZero() {
		t = c.now()
	}

	return t.In(c.loc)
}
