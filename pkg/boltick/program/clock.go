package program

import "time"

// Clock returns the current time as seen by an invocation.
type Clock func() time.Time

// SystemClock is the wall clock truncated to the second, matching unix
// timestamp granularity.
func SystemClock() time.Time {
	return time.Now().Truncate(time.Second)
}

// FixedClock returns a Clock that is advanced manually.
type FixedClock struct {
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
