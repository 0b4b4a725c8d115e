package simulation

import "time"

// Clock measures the elapsed time between two frames
type Clock struct {
	source func() time.Time
	start  time.Time
	last   float64
}

func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource uses source as the time reference, for tests or replays
func NewClockWithSource(source func() time.Time) *Clock {
	return &Clock{
		source: source,
		start:  source(),
	}
}

// Now returns the seconds elapsed since the clock creation
func (c *Clock) Now() float64 {
	return c.source().Sub(c.start).Seconds()
}

// Tick returns the seconds elapsed since the previous Tick, never negative
func (c *Clock) Tick() float64 {
	now := c.Now()
	if now <= c.last {
		return 0
	}

	delta := now - c.last
	c.last = now

	return delta
}
