// Package clock provides the wall-clock and sleep primitives used by the
// drivers and the panel state machine. Everything that waits goes through a
// Clock so tests can run against virtual time.
package clock

import "time"

// Clock reports the current time and blocks for fixed settle delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Real is the system clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Sleep calls time.Sleep. Durations below the scheduler's resolution still
// wait at least d, which is all the hardware settle delays require.
func (Real) Sleep(d time.Duration) { time.Sleep(d) }
