package animation

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains animation timing values.
type Config struct {
	FrameHold Range

	// A flash briefly blanks the banner between two frames.
	FlashHold   Range
	FlashChance float64
}

// Engine cycles celebration banner frames.
type Engine struct {
	mu           sync.Mutex
	config       Config
	updateBanner func(string)
	onFinish     func()
	cancel       context.CancelFunc
	rng          *rand.Rand
}

// New creates a new animation engine.
func New(config Config, updateBanner func(string)) *Engine {
	return &Engine{
		config:       config,
		updateBanner: updateBanner,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartCelebration cycles spec.Frames until spec.Duration elapses or ctx
// ends. A zero Duration runs until Stop.
func (engine *Engine) StartCelebration(ctx context.Context, spec CelebrationSpec) {
	if len(spec.Frames) == 0 {
		return
	}
	engine.start(ctx, spec.Duration, func(runCtx context.Context) {
		for index := 0; ; index = (index + 1) % len(spec.Frames) {
			engine.updateBanner(spec.Frames[index])
			if !sleepWithContext(runCtx, engine.sample(engine.config.FrameHold)) {
				return
			}
			if engine.roll() < engine.config.FlashChance {
				engine.updateBanner("")
				if !sleepWithContext(runCtx, engine.sample(engine.config.FlashHold)) {
					return
				}
			}
		}
	})
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

// SetOnFinish sets a callback fired when a celebration ends on its own.
func (engine *Engine) SetOnFinish(handler func()) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.onFinish = handler
}

func (engine *Engine) start(parent context.Context, duration time.Duration, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if duration > 0 {
		runCtx, cancel = context.WithTimeout(parent, duration)
	} else {
		runCtx, cancel = context.WithCancel(parent)
	}
	engine.cancel = cancel
	engine.mu.Unlock()

	go func() {
		run(runCtx)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			engine.notifyFinish()
		}
	}()
}

func (engine *Engine) notifyFinish() {
	engine.mu.Lock()
	handler := engine.onFinish
	engine.mu.Unlock()
	if handler != nil {
		handler()
	}
}

func (engine *Engine) sample(value Range) time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return value.Random(engine.rng)
}

func (engine *Engine) roll() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.rng.Float64()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
