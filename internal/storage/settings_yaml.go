package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"boxingday/internal/core/countdown"
	"boxingday/internal/core/model"
	"boxingday/internal/platform"
	"boxingday/internal/services/reminder"
	"boxingday/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

const (
	minYear = 1
	maxYear = 9999
)

type yamlSettings struct {
	Mode             string  `yaml:"mode"`
	CustomDate       string  `yaml:"custom_date,omitempty"`
	CustomLabel      string  `yaml:"custom_label,omitempty"`
	UpdateIntervalMs int     `yaml:"update_interval_ms"`
	FirstYear        int     `yaml:"first_year"`
	LastYear         int     `yaml:"last_year"`
	Theme            string  `yaml:"theme"`
	Compact          bool    `yaml:"compact"`
	Notifications    *bool   `yaml:"notifications"`
	ReminderSpec     *string `yaml:"reminder_spec"`
	StartAtLogin     bool    `yaml:"start_at_login"`
}

// ResolveConfigDir returns override when set, otherwise the per-user
// config directory for appName.
func ResolveConfigDir(service platform.Service, appName, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// SettingsPath returns the settings file inside configDir.
func SettingsPath(configDir string) string {
	return filepath.Join(configDir, settingsFileName)
}

// LoadSettings reads user preferences from YAML in configDir.
// If the file does not exist, default settings are returned. Invalid
// values fall back to their defaults one field at a time.
func LoadSettings(configDir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(SettingsPath(configDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML in configDir.
func SaveSettings(configDir string, settings preferences.Settings) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := settings.Notifications
	reminderSpec := settings.ReminderSpec
	fileData := yamlSettings{
		Mode:             string(settings.Mode),
		CustomDate:       settings.CustomDate,
		CustomLabel:      settings.CustomLabel,
		UpdateIntervalMs: int(settings.UpdateInterval / time.Millisecond),
		FirstYear:        settings.Years.First,
		LastYear:         settings.Years.Last,
		Theme:            string(settings.Theme),
		Compact:          settings.Compact,
		Notifications:    &notifications,
		ReminderSpec:     &reminderSpec,
		StartAtLogin:     settings.StartAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	// Write then rename so the watcher never parses a half-written file.
	path := SettingsPath(configDir)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if mode := preferences.Mode(strings.TrimSpace(fileData.Mode)); preferences.ValidMode(mode) {
		settings.Mode = mode
	}

	customDate := strings.TrimSpace(fileData.CustomDate)
	if customDate != "" {
		if _, err := countdown.ParseTargetTime(customDate, time.Local); err == nil {
			settings.CustomDate = customDate
		}
	}
	settings.CustomLabel = strings.TrimSpace(fileData.CustomLabel)
	if settings.Mode == preferences.ModeCustom && settings.CustomDate == "" {
		settings.Mode = preferences.ModeRecurring
	}

	interval := time.Duration(fileData.UpdateIntervalMs) * time.Millisecond
	if interval >= preferences.MinUpdateInterval && interval <= preferences.MaxUpdateInterval {
		settings.UpdateInterval = interval
	}

	years := model.YearRange{First: fileData.FirstYear, Last: fileData.LastYear}
	if years.First >= minYear && years.Last <= maxYear && years.Len() > 0 {
		settings.Years = years
	}

	if theme := preferences.Theme(strings.TrimSpace(fileData.Theme)); preferences.ValidTheme(theme) {
		settings.Theme = theme
	}

	if fileData.Notifications != nil {
		settings.Notifications = *fileData.Notifications
	}
	if fileData.ReminderSpec != nil {
		spec := strings.TrimSpace(*fileData.ReminderSpec)
		if spec == "" {
			settings.ReminderSpec = ""
		} else if _, err := reminder.ParseSpec(spec); err == nil {
			settings.ReminderSpec = spec
		}
	}

	settings.Compact = fileData.Compact
	settings.StartAtLogin = fileData.StartAtLogin
}
