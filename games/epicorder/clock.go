/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import "fmt"

type ClockMode int

const (
	ClockStopped ClockMode = iota
	ClockElapsed
	ClockCountdown
)

func (m ClockMode) String() string {
	switch m {
	case ClockElapsed:
		return "elapsed"
	case ClockCountdown:
		return "countdown"
	default:
		return "stopped"
	}
}

// Clock counts whole time units. It is advanced by Tick, never by wall time,
// and runs in at most one mode at a time: starting it again replaces
// whatever was running before.
type Clock struct {
	mode  ClockMode
	value int
	seed  int
}

// StartElapsed counts up from zero.
func (c *Clock) StartElapsed() {
	c.mode = ClockElapsed
	c.value = 0
	c.seed = 0
}

// StartCountdown counts down from seconds.
func (c *Clock) StartCountdown(seconds int) {
	c.mode = ClockCountdown
	c.value = seconds
	c.seed = seconds
}

func (c *Clock) Stop() {
	c.mode = ClockStopped
}

func (c *Clock) Running() bool {
	return c.mode != ClockStopped
}

func (c *Clock) Mode() ClockMode {
	return c.mode
}

func (c *Clock) Value() int {
	return c.value
}

// Tick advances the clock by one unit and reports whether a countdown ran
// out. An expired countdown stops and rewinds to its starting value.
func (c *Clock) Tick() bool {
	switch c.mode {
	case ClockElapsed:
		c.value++
	case ClockCountdown:
		if c.value <= 1 {
			c.mode = ClockStopped
			c.value = c.seed
			return true
		}
		c.value--
	}
	return false
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
