package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. Time stands still until
// Advance or Set is called.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{
		current:        initial,
		highResolution: true,
	}
}

// FakeClock is a deterministic Clock for tests.
//
// Timers and ticker callbacks run synchronously inside Advance, in
// deadline order, with Now reporting each waiter's deadline while it
// runs. Callbacks may register or stop timers; timers registered with a
// deadline inside the advanced window fire during the same Advance.
// Do not call Advance from within a callback.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	highResolution bool
	waiters        []*fakeWaiter
	sequence       uint64
}

type fakeWaiter struct {
	deadline time.Time
	sequence uint64

	// callback is set for AfterFunc waiters, tick for TickFunc waiters.
	callback func()
	tick     func(time.Time)
	interval time.Duration

	stopped bool
	fired   bool
}

// Now returns the current fake time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// HighResolution reports the value set by SetHighResolution (default true).
func (clock *FakeClock) HighResolution() bool {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.highResolution
}

// SetHighResolution changes what HighResolution reports.
func (clock *FakeClock) SetHighResolution(enabled bool) {
	clock.mu.Lock()
	clock.highResolution = enabled
	clock.mu.Unlock()
}

// AfterFunc registers f to run once the clock reaches now+d. If d <= 0,
// f runs synchronously before AfterFunc returns.
func (clock *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stopFunc: func() bool { return false }}
	}

	clock.mu.Lock()
	waiter := clock.addWaiterLocked(d, 0)
	waiter.callback = f
	clock.mu.Unlock()

	return &Timer{stopFunc: func() bool {
		clock.mu.Lock()
		defer clock.mu.Unlock()
		if waiter.stopped || waiter.fired {
			return false
		}
		waiter.stopped = true
		return true
	}}
}

// TickFunc registers f to run every d of fake time.
func (clock *FakeClock) TickFunc(d time.Duration, f func(time.Time)) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for TickFunc")
	}

	clock.mu.Lock()
	waiter := clock.addWaiterLocked(d, d)
	waiter.tick = f
	clock.mu.Unlock()

	return &Ticker{stopFunc: func() {
		clock.mu.Lock()
		waiter.stopped = true
		clock.mu.Unlock()
	}}
}

// Advance moves the clock forward by d, firing every waiter whose
// deadline falls inside the window.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	end := clock.current.Add(d)
	clock.mu.Unlock()

	for {
		waiter, fireTime := clock.popExpired(end)
		if waiter == nil {
			break
		}
		if waiter.callback != nil {
			waiter.callback()
		} else if waiter.tick != nil {
			waiter.tick(fireTime)
		}
	}

	clock.mu.Lock()
	if clock.current.Before(end) {
		clock.current = end
	}
	clock.mu.Unlock()
}

// Set moves the clock to instant. Moving forward fires waiters like
// Advance; moving backward only changes Now.
func (clock *FakeClock) Set(instant time.Time) {
	clock.mu.Lock()
	delta := instant.Sub(clock.current)
	if delta <= 0 {
		clock.current = instant
		clock.mu.Unlock()
		return
	}
	clock.mu.Unlock()
	clock.Advance(delta)
}

// PendingTimers returns the number of registered timers and tickers that
// have not fired or been stopped.
func (clock *FakeClock) PendingTimers() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	count := 0
	for _, waiter := range clock.waiters {
		if !waiter.stopped && !waiter.fired {
			count++
		}
	}
	return count
}

func (clock *FakeClock) addWaiterLocked(d, interval time.Duration) *fakeWaiter {
	clock.sequence++
	waiter := &fakeWaiter{
		deadline: clock.current.Add(d),
		sequence: clock.sequence,
		interval: interval,
	}
	clock.waiters = append(clock.waiters, waiter)
	return waiter
}

// popExpired picks the earliest live waiter due at or before end, moves
// the clock to its deadline, and reschedules it if it is a ticker.
func (clock *FakeClock) popExpired(end time.Time) (*fakeWaiter, time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	live := clock.waiters[:0]
	var next *fakeWaiter
	for _, waiter := range clock.waiters {
		if waiter.stopped || waiter.fired {
			continue
		}
		live = append(live, waiter)
		if waiter.deadline.After(end) {
			continue
		}
		if next == nil || waiter.deadline.Before(next.deadline) ||
			(waiter.deadline.Equal(next.deadline) && waiter.sequence < next.sequence) {
			next = waiter
		}
	}
	clock.waiters = live
	if next == nil {
		return nil, time.Time{}
	}

	fireTime := next.deadline
	if fireTime.After(clock.current) {
		clock.current = fireTime
	}
	if next.interval > 0 {
		next.deadline = next.deadline.Add(next.interval)
		clock.sequence++
		next.sequence = clock.sequence
	} else {
		next.fired = true
	}
	return next, fireTime
}
