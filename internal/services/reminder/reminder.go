// Package reminder sends a periodic "days to go" notification driven by a
// cron schedule.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"boxingday/internal/core/countdown"
	"boxingday/internal/logx"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSpec is returned for schedules the cron parser rejects.
var ErrInvalidSpec = errors.New("invalid reminder schedule")

// SecondOptional allows both 5-field and 6-field (with seconds) specs.
var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Countdown is the part of the countdown engine the reminder reads.
type Countdown interface {
	ComputeRemaining() countdown.Remaining
	Target() countdown.Target
}

// Notifier delivers a reminder to the user.
type Notifier func(title, body string)

// Config contains runtime options for the Service.
type Config struct {
	Location *time.Location
	Logger   logx.Logger
}

// Service owns the cron scheduler and the single reminder entry.
type Service struct {
	mu        sync.Mutex
	countdown Countdown
	notify    Notifier
	log       logx.Logger
	location  *time.Location

	cron  *cron.Cron
	entry cron.EntryID
	spec  string
}

// ParseSpec validates spec and returns its schedule.
func ParseSpec(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("parse reminder spec: %w: empty", ErrInvalidSpec)
	}
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse reminder spec %q: %w: %v", spec, ErrInvalidSpec, err)
	}
	return schedule, nil
}

// New creates a Service. Nothing is scheduled until Reschedule is called.
func New(source Countdown, notify Notifier, config Config) *Service {
	if config.Location == nil {
		config.Location = time.Local
	}
	log := config.Logger
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		countdown: source,
		notify:    notify,
		log:       log.With(logx.String("comp", "reminder")),
		location:  config.Location,
		cron:      cron.New(cron.WithParser(parser), cron.WithLocation(config.Location)),
	}
}

// Start starts cron triggering.
func (service *Service) Start() {
	service.cron.Start()
	service.log.Debug("reminder started", logx.String("tz", service.location.String()))
}

// Stop stops cron triggering and waits for a running reminder to finish
// or ctx to end.
func (service *Service) Stop(ctx context.Context) {
	select {
	case <-service.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Reschedule replaces the reminder schedule. An empty spec disables the
// reminder. On an invalid spec the previous schedule stays active.
func (service *Service) Reschedule(spec string) error {
	spec = strings.TrimSpace(spec)
	var schedule cron.Schedule
	if spec != "" {
		parsed, err := ParseSpec(spec)
		if err != nil {
			service.log.Warn("reminder schedule rejected", logx.String("spec", spec), logx.Err(err))
			return err
		}
		schedule = parsed
	}

	service.mu.Lock()
	defer service.mu.Unlock()
	if spec == service.spec && (spec == "" || service.entry != 0) {
		return nil
	}
	if service.entry != 0 {
		service.cron.Remove(service.entry)
		service.entry = 0
	}
	service.spec = spec
	if schedule == nil {
		service.log.Info("reminder disabled")
		return nil
	}
	service.entry = service.cron.Schedule(schedule, cron.FuncJob(service.Fire))
	service.log.Info("reminder scheduled",
		logx.String("spec", spec),
		logx.Time("next", schedule.Next(time.Now().In(service.location))),
	)
	return nil
}

// Spec returns the active schedule, or "" when disabled.
func (service *Service) Spec() string {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.spec
}

// Next returns the next time the reminder fires. ok is false when the
// reminder is disabled.
func (service *Service) Next(after time.Time) (time.Time, bool) {
	service.mu.Lock()
	entry := service.entry
	service.mu.Unlock()
	if entry == 0 {
		return time.Time{}, false
	}
	scheduled := service.cron.Entry(entry)
	if scheduled.Schedule == nil {
		return time.Time{}, false
	}
	return scheduled.Schedule.Next(after.In(service.location)), true
}

// Fire sends one reminder now. Completed targets are skipped.
func (service *Service) Fire() {
	if service.countdown == nil || service.notify == nil {
		return
	}
	remaining := service.countdown.ComputeRemaining()
	target := service.countdown.Target()
	title, body, ok := Message(remaining, target.Label)
	if !ok {
		service.log.Debug("reminder skipped; target reached", logx.String("label", target.Label))
		return
	}
	service.log.Debug("reminder sent", logx.Int("days", remaining.TotalDays))
	service.notify(title, body)
}

// Message builds the reminder text. ok is false when the target has
// already been reached.
func Message(remaining countdown.Remaining, label string) (title, body string, ok bool) {
	if remaining.Complete {
		return "", "", false
	}
	if label == "" {
		label = countdown.DefaultLabel
	}
	switch remaining.TotalDays {
	case 0:
		body = fmt.Sprintf("Less than a day until %s", label)
	case 1:
		body = fmt.Sprintf("1 day until %s", label)
	default:
		body = fmt.Sprintf("%d days until %s", remaining.TotalDays, label)
	}
	return label + " countdown", body, true
}
