// Package timing paces the playback loop. The player itself never
// sleeps; a Limiter is how the caller holds the 60 Hz tick cadence the
// VGM wait encoding assumes.
package timing

import "time"

// Limiter controls the playback tick cadence.
type Limiter interface {
	// WaitForNextTick blocks until it's time for the next tick.
	// Returns immediately if timing is behind schedule.
	WaitForNextTick()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless runs).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextTick() {}
func (n *noOpLimiter) Reset()           {}

// TicksPerSecond is the nominal playback rate: one tick per NTSC frame.
const TicksPerSecond = 60

// TickDuration returns the target duration of a single tick.
func TickDuration() time.Duration {
	return time.Second / TicksPerSecond
}
