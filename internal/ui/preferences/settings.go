package preferences

import (
	"time"

	"boxingday/internal/core/model"
)

// Mode selects which target the countdown tracks.
type Mode string

const (
	ModeRecurring Mode = "recurring"
	ModeCustom    Mode = "custom"
)

// Theme selects the window color variant.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

const (
	// DefaultReminderSpec fires every morning at nine.
	DefaultReminderSpec = "0 9 * * *"

	MinUpdateInterval = 10 * time.Millisecond
	MaxUpdateInterval = time.Minute
)

// Settings defines editable user preferences.
type Settings struct {
	Mode        Mode
	CustomDate  string
	CustomLabel string

	UpdateInterval time.Duration
	Years          model.YearRange

	Theme         Theme
	Compact       bool
	Notifications bool
	ReminderSpec  string
	StartAtLogin  bool
}

// DefaultSettings returns default settings for BoxingDay.
func DefaultSettings() Settings {
	return Settings{
		Mode:           ModeRecurring,
		UpdateInterval: model.DefaultUpdateInterval,
		Years:          model.DefaultYearRange(),
		Theme:          ThemeSystem,
		Notifications:  true,
		ReminderSpec:   DefaultReminderSpec,
	}
}

// CountdownConfig converts settings to a CountdownConfig.
func (settings Settings) CountdownConfig() model.CountdownConfig {
	return model.CountdownConfig{
		UpdateInterval: settings.UpdateInterval,
		RolloverDelay:  model.DefaultRolloverDelay,
		Years:          settings.Years,
	}.WithDefaults()
}

// IsCustom reports whether a custom target should replace the recurring one.
func (settings Settings) IsCustom() bool {
	return settings.Mode == ModeCustom && settings.CustomDate != ""
}

// ValidMode reports whether mode is known.
func ValidMode(mode Mode) bool {
	return mode == ModeRecurring || mode == ModeCustom
}

// ValidTheme reports whether theme is known.
func ValidTheme(theme Theme) bool {
	switch theme {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}
