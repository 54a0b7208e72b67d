package game

import "time"

// Clock converts externally supplied frame timestamps into simulated time.
//
// Simulated time only advances by the gap between two consecutive frames of
// the same run. Suspend drops the frame token, so the first frame after a
// resume re-anchors the clock instead of counting the wall-clock time spent
// paused. Bombs and explosions are stamped with simulated time, which keeps
// countdowns intact across pauses.
type Clock struct {
	elapsed  time.Duration
	last     time.Time
	anchored bool
}

// Advance consumes a frame timestamp and reports the simulated time together
// with whether the frame advanced the clock. A frame that only re-anchors
// returns false.
func (c *Clock) Advance(ts time.Time) (time.Duration, bool) {
	if !c.anchored {
		c.last = ts
		c.anchored = true
		return c.elapsed, false
	}
	if ts.After(c.last) {
		c.elapsed += ts.Sub(c.last)
	}
	c.last = ts
	return c.elapsed, true
}

// Suspend drops the frame token. Used on pause and stop.
func (c *Clock) Suspend() {
	c.anchored = false
}

// Now returns the simulated time reached by the last frame.
func (c *Clock) Now() time.Duration {
	return c.elapsed
}
