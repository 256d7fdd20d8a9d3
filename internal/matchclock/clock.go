package matchclock

import "fmt"

// Clock is a monotonic elapsed-time counter for one match session. It is
// deliberately independent of wall-clock time: elapsed seconds only move when
// Tick is called while the clock is running, so drift and suspend/resume of
// the host process never corrupt match time. Callers are responsible for
// serializing access (the session engine holds its own lock).
type Clock struct {
	elapsed int
	running bool
}

// New returns a stopped clock at 00:00.
func New() *Clock {
	return &Clock{}
}

// Start sets the clock running. Starting a running clock is a no-op.
func (c *Clock) Start() {
	c.running = true
}

// Pause stops the clock. Pausing a paused clock is a no-op.
func (c *Clock) Pause() {
	c.running = false
}

// Reset clears elapsed time to zero and stops the clock.
func (c *Clock) Reset() {
	c.elapsed = 0
	c.running = false
}

// Tick advances the clock by one second. Ticks while paused are ignored.
func (c *Clock) Tick() {
	if c.running {
		c.elapsed++
	}
}

// Elapsed returns the current match time in seconds.
func (c *Clock) Elapsed() int {
	return c.elapsed
}

// Running reports whether the clock is advancing.
func (c *Clock) Running() bool {
	return c.running
}

// FormatTime renders a second count as "MM:SS".
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
