package countdown

import "time"

// State represents whether the engine is ticking.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// EventType defines the type of countdown event.
type EventType string

const (
	EventTick         EventType = "tick"
	EventComplete     EventType = "complete"
	EventRollover     EventType = "rollover"
	EventTargetChange EventType = "target_change"
	EventStateChange  EventType = "state_change"
)

// Event represents a countdown update for observers.
type Event struct {
	Type      EventType
	State     State
	Target    Target
	Remaining Remaining
	At        time.Time
}
