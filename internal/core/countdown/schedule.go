package countdown

import (
	"time"

	"boxingday/internal/logx"

	"golang.org/x/time/rate"
)

// frameLoopThreshold is the interval below which ticks are driven by the
// frame loop instead of a fixed-period ticker.
const frameLoopThreshold = 100 * time.Millisecond

// Start runs one tick immediately and then schedules periodic ticks. A
// running engine is stopped first, so there is never more than one
// schedule.
func (engine *Engine) Start() {
	engine.mu.Lock()
	engine.stopLocked()
	engine.generation++
	generation := engine.generation
	engine.state = StateRunning
	if engine.usesFrameLoopLocked() {
		engine.limiter = rate.NewLimiter(rate.Every(engine.config.UpdateInterval), 1)
		engine.limiter.AllowN(engine.clock.Now(), 1)
	}
	engine.log.Debug("countdown started",
		logx.Duration("interval", engine.config.UpdateInterval),
		logx.Bool("frame_loop", engine.limiter != nil),
	)
	engine.emitLocked(Event{Type: EventStateChange, State: StateRunning})
	engine.mu.Unlock()

	engine.tick(generation)

	engine.mu.Lock()
	if engine.generation == generation && engine.state == StateRunning {
		engine.scheduleLocked(generation)
	}
	engine.mu.Unlock()
}

// Stop cancels the active schedule and any pending rollover. Calling it
// on an idle engine is a no-op apart from cancelling the rollover.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	wasRunning := engine.stopLocked()
	if wasRunning {
		engine.log.Debug("countdown stopped")
		engine.emitLocked(Event{Type: EventStateChange, State: StateIdle})
	}
	engine.mu.Unlock()
}

func (engine *Engine) usesFrameLoopLocked() bool {
	return engine.config.UpdateInterval < frameLoopThreshold
}

func (engine *Engine) scheduleLocked(generation uint64) {
	if engine.limiter != nil {
		engine.frameLoop = engine.clock.TickFunc(engine.options.FrameInterval, func(time.Time) {
			engine.frame(generation)
		})
		return
	}
	engine.ticker = engine.clock.TickFunc(engine.config.UpdateInterval, func(time.Time) {
		engine.tick(generation)
	})
}

func (engine *Engine) stopLocked() bool {
	if engine.ticker != nil {
		engine.ticker.Stop()
		engine.ticker = nil
	}
	if engine.frameLoop != nil {
		engine.frameLoop.Stop()
		engine.frameLoop = nil
	}
	engine.limiter = nil
	engine.cancelRolloverLocked()

	wasRunning := engine.state == StateRunning
	engine.state = StateIdle
	engine.generation++
	return wasRunning
}

func (engine *Engine) cancelRolloverLocked() {
	if engine.rollover != nil {
		engine.rollover.Stop()
		engine.rollover = nil
	}
	engine.rolloverSeq++
}

// frame fires a tick only when the update interval has elapsed since the
// previous one.
func (engine *Engine) frame(generation uint64) {
	engine.mu.Lock()
	if engine.generation != generation || engine.limiter == nil {
		engine.mu.Unlock()
		return
	}
	due := engine.limiter.AllowN(engine.clock.Now(), 1)
	engine.mu.Unlock()

	if due {
		engine.tick(generation)
	}
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	if engine.generation != generation || engine.state != StateRunning {
		engine.mu.Unlock()
		return
	}
	target := engine.target
	now := engine.clock.Now()
	remaining := Compute(target, now)
	onTick := engine.options.OnTick
	engine.emitLocked(Event{Type: EventTick, Target: target, Remaining: remaining, At: now})
	engine.mu.Unlock()

	if onTick != nil {
		engine.invoke("on_tick", func() { onTick(remaining) })
	}
	if remaining.Complete {
		engine.complete(generation, target)
	}
}

func (engine *Engine) complete(generation uint64, target Target) {
	engine.mu.Lock()
	if engine.generation != generation || engine.target != target {
		engine.mu.Unlock()
		return
	}
	engine.stopLocked()

	if target.Kind == KindRecurring && target.Year < engine.config.Years.Last {
		engine.scheduleRolloverLocked(target.Year + 1)
	}
	onComplete := engine.options.OnComplete
	engine.log.Info("countdown complete",
		logx.String("label", target.Label),
		logx.Int("year", target.Year),
		logx.Bool("rollover", engine.rollover != nil),
	)
	engine.emitLocked(Event{Type: EventComplete, State: StateIdle, Target: target, Remaining: Remaining{Complete: true, Progress: 100}})
	engine.mu.Unlock()

	if onComplete != nil {
		engine.invoke("on_complete", onComplete)
	}
}

func (engine *Engine) scheduleRolloverLocked(year int) {
	engine.rolloverSeq++
	seq := engine.rolloverSeq
	engine.rollover = engine.clock.AfterFunc(engine.config.RolloverDelay, func() {
		engine.rolloverTo(seq, year)
	})
}

func (engine *Engine) rolloverTo(seq uint64, year int) {
	engine.mu.Lock()
	if seq != engine.rolloverSeq || engine.rollover == nil {
		engine.mu.Unlock()
		return
	}
	engine.rollover = nil
	target := engine.setTargetLocked(recurringTarget(year, engine.location))
	engine.emitLocked(Event{Type: EventRollover, Target: target})
	engine.mu.Unlock()

	engine.Start()
}
