// timer.go - duration timer with call-frequency gating
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package randtime

import "time"

// Timer is a polling gate: each call to Elapsed increments an internal
// counter and only reads the clock when the counter is a multiple of
// frequency (or frequency is 0). This avoids a clock read on every
// iteration of a hot loop.
type Timer struct {
	begin     time.Time
	duration  time.Duration
	frequency int64
	counter   int64
}

// NewTimer creates a Timer that elapses once 'durationSec' seconds have
// passed, polled every 'frequency' calls to Elapsed (0 means every call).
// durationSec == 0 disables the timer: Elapsed always returns false.
func NewTimer(durationSec, frequency int64) *Timer {
	return &Timer{
		begin:     time.Now(),
		duration:  time.Duration(durationSec) * time.Second,
		frequency: frequency,
	}
}

// Elapsed reports whether the configured duration has passed, subject
// to the frequency gate.
func (t *Timer) Elapsed() bool {
	if t.duration == 0 {
		return false
	}
	t.counter++
	if t.frequency != 0 && t.counter%t.frequency != 0 {
		return false
	}
	return time.Since(t.begin) >= t.duration
}

// Reset restarts the timer's begin time.
func (t *Timer) Reset() {
	t.begin = time.Now()
}
