//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func (service *platformService) EnableAutostart(entry AutostartEntry) error {
	if err := entry.validate("enable autostart"); err != nil {
		return err
	}

	path, err := service.desktopEntryPath(entry.AppName)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(buildDesktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return false, fmt.Errorf("check autostart: %w", err)
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check autostart: %w", err)
	}
	return true, nil
}

func (service *platformService) desktopEntryPath(appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(appName)+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func buildDesktopEntry(entry AutostartEntry) string {
	return fmt.Sprintf(
		`[Desktop Entry]
Type=Application
Name=%s
Comment=Countdown to Boxing Day
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`,
		entry.AppName,
		entry.commandLine(),
	)
}
