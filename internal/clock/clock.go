// Package clock provides the injectable time source used by the countdown.
//
// Production code uses Real (monotonic, anchored at a wall-clock origin)
// or Coarse (plain wall clock at millisecond precision). Tests use Fake,
// which only moves when Advance or Set is called and fires timers and
// tickers synchronously in deadline order.
package clock

import "time"

// Clock supplies "now" and the two scheduling primitives the countdown
// needs: a one-shot deferred call and a repeating callback.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// HighResolution reports whether Now is derived from a monotonic
	// source with sub-millisecond precision.
	HighResolution() bool

	// AfterFunc calls f once after d. Stop on the returned Timer cancels
	// the call if it has not fired yet.
	AfterFunc(d time.Duration, f func()) *Timer

	// TickFunc calls f every d until the returned Ticker is stopped.
	// Panics if d <= 0.
	TickFunc(d time.Duration, f func(time.Time)) *Ticker
}

// Timer is a pending one-shot call.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. Returns false if it already fired
// or was stopped before.
func (timer *Timer) Stop() bool {
	if timer == nil || timer.stopFunc == nil {
		return false
	}
	return timer.stopFunc()
}

// Ticker is a repeating callback.
type Ticker struct {
	stopFunc func()
}

// Stop turns off the ticker. Safe to call more than once.
func (ticker *Ticker) Stop() {
	if ticker == nil || ticker.stopFunc == nil {
		return
	}
	ticker.stopFunc()
}
