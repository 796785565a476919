package clock

import "time"

// FakeClock is a Clock pinned to a fixed instant so chart windows and row
// timestamps in tests do not drift with the wall clock.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock to t, normalized to UTC the same way the
// system clock reports time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the pinned instant forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set repins the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.now = t.UTC()
}
