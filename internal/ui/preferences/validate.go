package preferences

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"boxingday/internal/core/countdown"
	"boxingday/internal/services/reminder"
)

// ErrInvalidSettings wraps every validation failure from Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks settings entered in the preferences window. Date
// strings are parsed in location.
func Validate(settings Settings, location *time.Location) error {
	if !ValidMode(settings.Mode) {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, settings.Mode)
	}
	if settings.Mode == ModeCustom {
		if strings.TrimSpace(settings.CustomDate) == "" {
			return fmt.Errorf("%w: custom date is required", ErrInvalidSettings)
		}
		if _, err := countdown.ParseTargetTime(settings.CustomDate, location); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	if settings.UpdateInterval < MinUpdateInterval || settings.UpdateInterval > MaxUpdateInterval {
		return fmt.Errorf("%w: update interval must be between %v and %v", ErrInvalidSettings, MinUpdateInterval, MaxUpdateInterval)
	}
	if settings.Years.Len() == 0 {
		return fmt.Errorf("%w: first year %d is after last year %d", ErrInvalidSettings, settings.Years.First, settings.Years.Last)
	}
	if !ValidTheme(settings.Theme) {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidSettings, settings.Theme)
	}
	if spec := strings.TrimSpace(settings.ReminderSpec); spec != "" {
		if _, err := reminder.ParseSpec(spec); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	return nil
}
