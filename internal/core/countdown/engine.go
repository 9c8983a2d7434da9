package countdown

import (
	"fmt"
	"sync"
	"time"

	"boxingday/internal/clock"
	"boxingday/internal/core/model"
	"boxingday/internal/logx"

	"golang.org/x/time/rate"
)

// DefaultFrameInterval approximates one display frame at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Config contains runtime options for the Engine.
type Config struct {
	Clock  clock.Clock
	Logger logx.Logger
	// Location drives all calendar arithmetic. Defaults to time.Local.
	Location *time.Location
	// Timezone is informational and only logged.
	Timezone      string
	FrameInterval time.Duration

	OnTick     func(Remaining)
	OnComplete func()
}

// Engine owns the active target, recomputes the remaining time on a
// schedule and advances recurring targets after completion.
//
// Callers that change the target while the engine runs should Stop
// first; otherwise a tick already in flight may report the old target.
type Engine struct {
	mu       sync.Mutex
	config   model.CountdownConfig
	options  Config
	clock    clock.Clock
	log      logx.Logger
	location *time.Location

	target     Target
	state      State
	generation uint64

	// At most one of ticker and frameLoop is set.
	ticker    *clock.Ticker
	frameLoop *clock.Ticker
	limiter   *rate.Limiter

	rollover    *clock.Timer
	rolloverSeq uint64

	events []chan Event
}

// New creates an Engine and sets the default recurring target.
func New(config model.CountdownConfig, options Config) *Engine {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Location == nil {
		options.Location = time.Local
	}
	if options.FrameInterval <= 0 {
		options.FrameInterval = DefaultFrameInterval
	}

	engine := &Engine{
		config:   config.WithDefaults(),
		options:  options,
		clock:    options.Clock,
		log:      options.Logger.With(logx.String("comp", "countdown")),
		location: options.Location,
		state:    StateIdle,
	}

	precision := "coarse"
	if engine.clock.HighResolution() {
		precision = "high"
	}
	engine.log.Debug("countdown engine created",
		logx.String("clock", precision),
		logx.String("timezone", options.Timezone),
		logx.Duration("interval", engine.config.UpdateInterval),
	)

	engine.SetRecurringTarget()
	return engine
}

// Subscribe registers a new observer channel. Sends never block; a full
// channel drops the event.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Close stops the engine and closes observer channels.
func (engine *Engine) Close() {
	engine.Stop()

	engine.mu.Lock()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// State returns the current engine state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Target returns the active target.
func (engine *Engine) Target() Target {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.target
}

// Config returns the effective countdown configuration.
func (engine *Engine) Config() model.CountdownConfig {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config
}

// SetRecurringTarget targets December 26 of the current year, or of the
// next year once this year's date has passed.
func (engine *Engine) SetRecurringTarget() Target {
	engine.mu.Lock()
	now := engine.clock.Now().In(engine.location)
	year := now.Year()
	if now.After(RecurringDate(year, engine.location)) {
		year++
	}
	target := engine.setTargetLocked(recurringTarget(year, engine.location))
	engine.mu.Unlock()

	engine.emit(Event{Type: EventTargetChange, Target: target})
	return target
}

// SetRecurringTargetYear targets December 26 of exactly year, even when
// it lies in the past or outside the configured range.
func (engine *Engine) SetRecurringTargetYear(year int) Target {
	engine.mu.Lock()
	target := engine.setTargetLocked(recurringTarget(year, engine.location))
	engine.mu.Unlock()

	engine.emit(Event{Type: EventTargetChange, Target: target})
	return target
}

// SetCustomTarget targets the instant parsed from value. On a parse
// error the previous target stays active.
func (engine *Engine) SetCustomTarget(value, label string) (Target, error) {
	at, err := ParseTargetTime(value, engine.location)
	if err != nil {
		engine.log.Warn("custom target rejected", logx.String("value", value), logx.Err(err))
		return Target{}, fmt.Errorf("set custom target: %w", err)
	}

	engine.mu.Lock()
	target := engine.setTargetLocked(Target{
		At:    at,
		Label: label,
		Kind:  KindCustom,
		Year:  at.In(engine.location).Year(),
	})
	engine.mu.Unlock()

	engine.emit(Event{Type: EventTargetChange, Target: target})
	return target, nil
}

// ComputeRemaining returns the time left until the active target.
func (engine *Engine) ComputeRemaining() Remaining {
	engine.mu.Lock()
	target := engine.target
	engine.mu.Unlock()
	return Compute(target, engine.clock.Now())
}

// Occurrences lists the recurring date for every configured year.
func (engine *Engine) Occurrences() []Occurrence {
	engine.mu.Lock()
	years := engine.config.Years
	engine.mu.Unlock()
	return Occurrences(years, engine.location)
}

// UpdateConfig replaces the countdown configuration and reschedules a
// running engine.
func (engine *Engine) UpdateConfig(config model.CountdownConfig) {
	engine.mu.Lock()
	engine.config = config.WithDefaults()
	running := engine.state == StateRunning
	engine.mu.Unlock()

	if running {
		engine.Start()
	}
}

func (engine *Engine) setTargetLocked(target Target) Target {
	engine.cancelRolloverLocked()
	engine.target = target
	engine.log.Info("countdown target set",
		logx.String("kind", string(target.Kind)),
		logx.String("label", target.Label),
		logx.Time("at", target.At),
	)
	return target
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.emitLocked(event)
}

func (engine *Engine) emitLocked(event Event) {
	if event.At.IsZero() {
		event.At = engine.clock.Now()
	}
	if event.State == "" {
		event.State = engine.state
	}
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// invoke runs a consumer callback so that a panic cannot escape into the
// scheduler.
func (engine *Engine) invoke(name string, callback func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			engine.log.Error("countdown callback panicked",
				logx.String("callback", name),
				logx.Any("panic", recovered),
				logx.Stack(logx.StackTrace(3, 16)),
			)
		}
	}()
	callback()
}
