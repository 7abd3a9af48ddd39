package service

import "time"

type clock struct {
	now func() time.Time
	loc *time.Location
}

func defaultClock() clock {
	return clock{now: time.Now, loc: time.Local}
}

// Option configures the time source shared by the services.
type Option func(*clock)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		c.now = now
	}
}

// WithLocation sets the timezone whose calendar days drive categorisation.
func WithLocation(loc *time.Location) Option {
	return func(c *clock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func newClock(opts ...Option) clock {
	c := defaultClock()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
