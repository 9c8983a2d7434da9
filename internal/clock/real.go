package clock

import (
	"sync"
	"time"
)

// Real returns a high-resolution Clock. Now is computed from the
// monotonic reading elapsed since a fixed wall-clock origin, so it is not
// affected by wall-clock steps while the process runs.
func Real() Clock {
	return realClock{origin: time.Now()}
}

// Coarse returns a Clock backed by the plain wall clock at millisecond
// precision. Used when no monotonic source is wanted.
func Coarse() Clock {
	return coarseClock{}
}

type realClock struct {
	origin time.Time
}

func (clock realClock) Now() time.Time {
	return clock.origin.Add(time.Since(clock.origin))
}

func (realClock) HighResolution() bool { return true }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	return systemAfterFunc(d, f)
}

func (realClock) TickFunc(d time.Duration, f func(time.Time)) *Ticker {
	return systemTickFunc(d, f)
}

type coarseClock struct{}

func (coarseClock) Now() time.Time {
	return time.Now().Truncate(time.Millisecond)
}

func (coarseClock) HighResolution() bool { return false }

func (coarseClock) AfterFunc(d time.Duration, f func()) *Timer {
	return systemAfterFunc(d, f)
}

func (coarseClock) TickFunc(d time.Duration, f func(time.Time)) *Ticker {
	return systemTickFunc(d, f)
}

func systemAfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stopFunc: timer.Stop}
}

func systemTickFunc(d time.Duration, f func(time.Time)) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for TickFunc")
	}
	ticker := time.NewTicker(d)
	stopCh := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case tickTime := <-ticker.C:
				f(tickTime)
			}
		}
	}()

	return &Ticker{stopFunc: func() {
		once.Do(func() { close(stopCh) })
	}}
}
