package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"boxingday/internal/core/model"
	"boxingday/internal/logx"
	"boxingday/internal/platform"
	"boxingday/internal/ui/preferences"
)

func writeSettingsFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, settingsFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	settings, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if settings != preferences.DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", settings)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested")
	want := preferences.Settings{
		Mode:           preferences.ModeCustom,
		CustomDate:     "2027-03-14T09:30",
		CustomLabel:    "Pi Day",
		UpdateInterval: 50 * time.Millisecond,
		Years:          model.YearRange{First: 2026, Last: 2030},
		Theme:          preferences.ThemeDark,
		Compact:        true,
		Notifications:  false,
		ReminderSpec:   "",
		StartAtLogin:   true,
	}
	if err := SaveSettings(dir, want); err != nil {
		t.Fatalf("SaveSettings error: %v", err)
	}
	if _, err := os.Stat(SettingsPath(dir) + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}

	got, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if got != want {
		t.Fatalf("LoadSettings = %+v, want %+v", got, want)
	}
}

func TestLoadSettingsInvalidFieldsFallBack(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSettingsFile(t, dir, `
mode: custom
custom_date: "someday"
custom_label: "  Party  "
update_interval_ms: 5
first_year: 2040
last_year: 2030
theme: neon
reminder_spec: "every morning"
compact: true
`)

	got, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	defaults := preferences.DefaultSettings()
	if got.Mode != preferences.ModeRecurring || got.CustomDate != "" {
		t.Fatalf("mode/date = %q/%q, want recurring with no date", got.Mode, got.CustomDate)
	}
	if got.CustomLabel != "Party" {
		t.Fatalf("CustomLabel = %q", got.CustomLabel)
	}
	if got.UpdateInterval != defaults.UpdateInterval {
		t.Fatalf("UpdateInterval = %v, want default", got.UpdateInterval)
	}
	if got.Years != defaults.Years {
		t.Fatalf("Years = %+v, want default", got.Years)
	}
	if got.Theme != defaults.Theme {
		t.Fatalf("Theme = %q, want default", got.Theme)
	}
	if got.ReminderSpec != defaults.ReminderSpec || !got.Notifications {
		t.Fatalf("reminder/notifications = %q/%v, want defaults", got.ReminderSpec, got.Notifications)
	}
	if !got.Compact {
		t.Fatal("Compact = false, want true")
	}
}

func TestLoadSettingsEmptyReminderDisables(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSettingsFile(t, dir, "reminder_spec: \"\"\nnotifications: false\n")

	got, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if got.ReminderSpec != "" || got.Notifications {
		t.Fatalf("reminder/notifications = %q/%v, want disabled", got.ReminderSpec, got.Notifications)
	}
}

func TestLoadSettingsMalformedYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSettingsFile(t, dir, "mode: [unterminated\n")

	got, err := LoadSettings(dir)
	if err == nil {
		t.Fatal("LoadSettings error = nil, want parse error")
	}
	if got != preferences.DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults alongside the error", got)
	}
}

func TestResolveConfigDirOverride(t *testing.T) {
	t.Parallel()
	dir, err := ResolveConfigDir(platform.NewService(), "BoxingDay", "/tmp/custom")
	if err != nil || dir != "/tmp/custom" {
		t.Fatalf("ResolveConfigDir = %q, %v", dir, err)
	}
}

func TestWatcherReloadSkipsUnchangedContent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var received []preferences.Settings
	watcher := NewWatcher(dir, logx.Nop(), func(settings preferences.Settings) {
		received = append(received, settings)
	})

	settings := preferences.DefaultSettings()
	settings.Theme = preferences.ThemeLight
	if err := SaveSettings(dir, settings); err != nil {
		t.Fatalf("SaveSettings error: %v", err)
	}
	watcher.Sync()
	if watcher.reload() {
		t.Fatal("reload published content recorded by Sync")
	}

	settings.Theme = preferences.ThemeDark
	if err := SaveSettings(dir, settings); err != nil {
		t.Fatalf("SaveSettings error: %v", err)
	}
	if !watcher.reload() {
		t.Fatal("reload skipped changed content")
	}
	if watcher.reload() {
		t.Fatal("second reload of the same content published again")
	}
	if len(received) != 1 || received[0].Theme != preferences.ThemeDark {
		t.Fatalf("received = %+v", received)
	}
}

func TestWatcherPublishesExternalEdit(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan preferences.Settings, 4)
	watcher := NewWatcher(dir, logx.Nop(), func(settings preferences.Settings) {
		changes <- settings
	})
	watcher.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch error: %v", err)
		}
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		// Rewrite until the watcher has registered the directory.
		writeSettingsFile(t, dir, "theme: dark\n")
		select {
		case settings := <-changes:
			if settings.Theme != preferences.ThemeDark {
				t.Fatalf("Theme = %q, want dark", settings.Theme)
			}
			return
		case <-deadline:
			t.Fatal("no reload within 5s")
		case <-tick.C:
		}
	}
}
