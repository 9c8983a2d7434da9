package countdown

import (
	"errors"
	"testing"
	"time"

	"boxingday/internal/clock"
	"boxingday/internal/core/model"
)

type recorder struct {
	ticks     []Remaining
	tickTimes []time.Time
	completes int
}

func newTestEngine(now time.Time, config model.CountdownConfig, rec *recorder) (*Engine, *clock.FakeClock) {
	fake := clock.Fake(now)
	options := Config{
		Clock:         fake,
		Location:      testLocation,
		FrameInterval: 10 * time.Millisecond,
	}
	if rec != nil {
		options.OnTick = func(remaining Remaining) {
			rec.ticks = append(rec.ticks, remaining)
			rec.tickTimes = append(rec.tickTimes, fake.Now())
		}
		options.OnComplete = func() { rec.completes++ }
	}
	return New(config, options), fake
}

func TestNewSetsDefaultTarget(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(time.Date(2026, time.October, 17, 12, 0, 0, 0, testLocation), model.CountdownConfig{}, nil)
	target := engine.Target()
	if target.Kind != KindRecurring || target.Year != 2026 || target.Label != DefaultLabel {
		t.Fatalf("default target = %+v", target)
	}
	if engine.State() != StateIdle {
		t.Fatalf("State() = %v, want idle", engine.State())
	}
	config := engine.Config()
	if config.UpdateInterval != time.Second || config.RolloverDelay != 5*time.Second || config.Years != model.DefaultYearRange() {
		t.Fatalf("Config() = %+v, want defaults", config)
	}
}

func TestSetRecurringTargetRollsForwardAfterBoxingDay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"december 25", time.Date(2026, time.December, 25, 23, 0, 0, 0, testLocation), 2026},
		{"boxing day midnight", time.Date(2026, time.December, 26, 0, 0, 0, 0, testLocation), 2026},
		{"december 27", time.Date(2026, time.December, 27, 0, 0, 0, 0, testLocation), 2027},
		{"january", time.Date(2027, time.January, 2, 0, 0, 0, 0, testLocation), 2027},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(tt.now, model.CountdownConfig{}, nil)
			target := engine.SetRecurringTarget()
			if target.Year != tt.want {
				t.Fatalf("Year = %d, want %d", target.Year, tt.want)
			}
			if !target.At.Equal(RecurringDate(tt.want, testLocation)) {
				t.Fatalf("At = %v", target.At)
			}
		})
	}
}

func TestSetRecurringTargetYearAcceptsAnyYear(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, nil)
	target := engine.SetRecurringTargetYear(1999)
	if target.Year != 1999 || !target.At.Equal(RecurringDate(1999, testLocation)) {
		t.Fatalf("target = %+v", target)
	}
	if !engine.ComputeRemaining().Complete {
		t.Fatal("past explicit year should be complete")
	}
}

func TestSetCustomTarget(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation)
	engine, _ := newTestEngine(now, model.CountdownConfig{}, nil)

	target, err := engine.SetCustomTarget("2026-06-03T12:00", "Launch")
	if err != nil {
		t.Fatalf("SetCustomTarget error: %v", err)
	}
	if target.Kind != KindCustom || target.Label != "Launch" || target.Year != 2026 {
		t.Fatalf("target = %+v", target)
	}
	remaining := engine.ComputeRemaining()
	if remaining.TotalDays != 2 || remaining.Hours != 12 {
		t.Fatalf("remaining = %+v, want 2 days 12 hours", remaining)
	}
}

func TestSetCustomTargetInvalidKeepsPrevious(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, nil)
	before := engine.Target()

	_, err := engine.SetCustomTarget("not a date", "Broken")
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("error = %v, want ErrInvalidTarget", err)
	}
	if engine.Target() != before {
		t.Fatalf("target changed to %+v", engine.Target())
	}
}

func TestComputeRemainingReadsClockEachCall(t *testing.T) {
	t.Parallel()
	engine, fake := newTestEngine(time.Date(2026, time.December, 25, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, nil)
	first := engine.ComputeRemaining()
	fake.Advance(1500 * time.Millisecond)
	second := engine.ComputeRemaining()
	if first.TotalMilliseconds-second.TotalMilliseconds != 1500 {
		t.Fatalf("difference = %d ms, want 1500", first.TotalMilliseconds-second.TotalMilliseconds)
	}
}

func TestStartThenStopTicksOnce(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, rec)

	engine.Start()
	engine.Stop()
	fake.Advance(10 * time.Second)

	if len(rec.ticks) != 1 {
		t.Fatalf("ticks = %d, want 1", len(rec.ticks))
	}
	if engine.State() != StateIdle {
		t.Fatalf("State() = %v, want idle", engine.State())
	}
	if got := fake.PendingTimers(); got != 0 {
		t.Fatalf("PendingTimers() = %d, want 0", got)
	}
	engine.Stop()
}

func TestStartTickerFiresEveryInterval(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, rec)

	engine.Start()
	fake.Advance(5 * time.Second)
	engine.Stop()

	if len(rec.ticks) != 6 {
		t.Fatalf("ticks = %d, want 6", len(rec.ticks))
	}
	for i := 1; i < len(rec.ticks); i++ {
		if rec.ticks[i-1].TotalMilliseconds-rec.ticks[i].TotalMilliseconds != 1000 {
			t.Fatalf("tick %d not one second after previous", i)
		}
	}
}

func TestStartTwiceKeepsSingleSchedule(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, rec)

	engine.Start()
	engine.Start()
	if got := fake.PendingTimers(); got != 1 {
		t.Fatalf("PendingTimers() = %d, want 1", got)
	}
	fake.Advance(3 * time.Second)
	engine.Stop()

	if len(rec.ticks) != 5 {
		t.Fatalf("ticks = %d, want 5 (two immediate + three scheduled)", len(rec.ticks))
	}
}

func TestFrameLoopThrottlesToInterval(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation),
		model.CountdownConfig{UpdateInterval: 50 * time.Millisecond}, rec)

	engine.Start()
	if got := fake.PendingTimers(); got != 1 {
		t.Fatalf("PendingTimers() = %d, want 1 frame loop", got)
	}
	fake.Advance(time.Second)
	engine.Stop()

	if len(rec.ticks) < 15 || len(rec.ticks) > 21 {
		t.Fatalf("ticks = %d, want between 15 and 21", len(rec.ticks))
	}
	for i := 1; i < len(rec.tickTimes); i++ {
		if gap := rec.tickTimes[i].Sub(rec.tickTimes[i-1]); gap < 50*time.Millisecond {
			t.Fatalf("tick %d fired %v after previous, want >= 50ms", i, gap)
		}
	}
}

func TestCompletionRollsOverToNextYear(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.December, 25, 23, 59, 58, 0, testLocation), model.CountdownConfig{}, rec)

	engine.SetRecurringTargetYear(2026)
	engine.Start()
	fake.Advance(2 * time.Second)

	if rec.completes != 1 {
		t.Fatalf("completes = %d, want 1", rec.completes)
	}
	last := rec.ticks[len(rec.ticks)-1]
	if !last.Complete || last.Progress != 100 {
		t.Fatalf("last tick = %+v, want complete", last)
	}
	if engine.State() != StateIdle {
		t.Fatalf("State() = %v during celebration, want idle", engine.State())
	}

	fake.Advance(4 * time.Second)
	if engine.State() != StateIdle || engine.Target().Year != 2026 {
		t.Fatalf("rolled over early: state %v year %d", engine.State(), engine.Target().Year)
	}

	fake.Advance(time.Second)
	if engine.State() != StateRunning {
		t.Fatalf("State() = %v after rollover delay, want running", engine.State())
	}
	if engine.Target().Year != 2027 {
		t.Fatalf("Year = %d, want 2027", engine.Target().Year)
	}
	if rec.completes != 1 {
		t.Fatalf("completes = %d after rollover, want 1", rec.completes)
	}
	engine.Stop()
}

func TestCompletionAtLastYearStaysStopped(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.December, 25, 23, 59, 59, 0, testLocation),
		model.CountdownConfig{Years: model.YearRange{First: 2025, Last: 2026}}, rec)

	engine.SetRecurringTargetYear(2026)
	engine.Start()
	fake.Advance(time.Minute)

	if rec.completes != 1 {
		t.Fatalf("completes = %d, want 1", rec.completes)
	}
	if engine.State() != StateIdle || engine.Target().Year != 2026 {
		t.Fatalf("state %v year %d, want idle 2026", engine.State(), engine.Target().Year)
	}
	if got := fake.PendingTimers(); got != 0 {
		t.Fatalf("PendingTimers() = %d, want 0", got)
	}
}

func TestStopCancelsPendingRollover(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.December, 25, 23, 59, 59, 0, testLocation), model.CountdownConfig{}, rec)

	engine.SetRecurringTargetYear(2026)
	engine.Start()
	fake.Advance(time.Second)
	if got := fake.PendingTimers(); got != 1 {
		t.Fatalf("PendingTimers() = %d, want pending rollover", got)
	}

	engine.Stop()
	fake.Advance(10 * time.Second)
	if engine.State() != StateIdle || engine.Target().Year != 2026 {
		t.Fatalf("state %v year %d, want idle 2026", engine.State(), engine.Target().Year)
	}
}

func TestSetTargetCancelsPendingRollover(t *testing.T) {
	t.Parallel()
	engine, fake := newTestEngine(time.Date(2026, time.December, 25, 23, 59, 59, 0, testLocation), model.CountdownConfig{}, &recorder{})

	engine.SetRecurringTargetYear(2026)
	engine.Start()
	fake.Advance(time.Second)
	engine.SetRecurringTargetYear(2030)
	fake.Advance(10 * time.Second)

	if engine.State() != StateIdle || engine.Target().Year != 2030 {
		t.Fatalf("state %v year %d, want idle 2030", engine.State(), engine.Target().Year)
	}
}

func TestCustomTargetNeverRollsOver(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, rec)

	if _, err := engine.SetCustomTarget("2026-06-01T00:00:02", "Soon"); err != nil {
		t.Fatalf("SetCustomTarget error: %v", err)
	}
	engine.Start()
	fake.Advance(time.Minute)

	if rec.completes != 1 {
		t.Fatalf("completes = %d, want 1", rec.completes)
	}
	if engine.State() != StateIdle || engine.Target().Kind != KindCustom {
		t.Fatalf("state %v target %+v", engine.State(), engine.Target())
	}
	if got := fake.PendingTimers(); got != 0 {
		t.Fatalf("PendingTimers() = %d, want 0", got)
	}
}

func TestStartOnPastTargetCompletesImmediately(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, _ := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, rec)

	engine.SetRecurringTargetYear(2025)
	engine.Start()

	if len(rec.ticks) != 1 || rec.completes != 1 {
		t.Fatalf("ticks %d completes %d, want 1 and 1", len(rec.ticks), rec.completes)
	}
	if engine.State() != StateIdle {
		t.Fatalf("State() = %v, want idle", engine.State())
	}
	engine.Stop()
}

func TestPanickingCallbacksDoNotWedgeScheduler(t *testing.T) {
	t.Parallel()
	ticks := 0
	fake := clock.Fake(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation))
	engine := New(model.CountdownConfig{}, Config{
		Clock:    fake,
		Location: testLocation,
		OnTick: func(Remaining) {
			ticks++
			panic("consumer bug")
		},
	})

	engine.Start()
	fake.Advance(3 * time.Second)
	if ticks != 4 {
		t.Fatalf("ticks = %d, want 4", ticks)
	}
	engine.Stop()
	fake.Advance(3 * time.Second)
	if ticks != 4 {
		t.Fatalf("ticks after Stop = %d, want 4", ticks)
	}
}

func TestCallbackMayStopEngine(t *testing.T) {
	t.Parallel()
	fake := clock.Fake(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation))
	ticks := 0
	var engine *Engine
	engine = New(model.CountdownConfig{}, Config{
		Clock:    fake,
		Location: testLocation,
		OnTick: func(Remaining) {
			ticks++
			if ticks == 2 {
				engine.Stop()
			}
		},
	})

	engine.Start()
	fake.Advance(5 * time.Second)
	if ticks != 2 {
		t.Fatalf("ticks = %d, want 2", ticks)
	}
}

func TestUpdateConfigReschedulesRunningEngine(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	engine, fake := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, rec)

	engine.Start()
	engine.UpdateConfig(model.CountdownConfig{UpdateInterval: 200 * time.Millisecond})
	fake.Advance(time.Second)
	engine.Stop()

	if len(rec.ticks) != 7 {
		t.Fatalf("ticks = %d, want 7", len(rec.ticks))
	}
}

func TestSubscribeReceivesLifecycleEvents(t *testing.T) {
	t.Parallel()
	engine, _ := newTestEngine(time.Date(2026, time.June, 1, 0, 0, 0, 0, testLocation), model.CountdownConfig{}, nil)
	events := engine.Subscribe(8)

	engine.Start()
	engine.Stop()
	engine.Close()

	var got []EventType
	for event := range events {
		got = append(got, event.Type)
	}
	want := []EventType{EventStateChange, EventTick, EventStateChange}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}
