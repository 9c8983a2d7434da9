package platform

import (
	"fmt"
	"os"
	"strings"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(entry AutostartEntry) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

// AutostartEntry describes the command launched at login.
type AutostartEntry struct {
	AppName  string
	ExecPath string
	Args     []string
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// CurrentEntry builds an entry launching the running executable with args.
func CurrentEntry(appName string, args ...string) (AutostartEntry, error) {
	execPath, err := os.Executable()
	if err != nil {
		return AutostartEntry{}, fmt.Errorf("resolve executable: %w", err)
	}
	return AutostartEntry{AppName: appName, ExecPath: execPath, Args: args}, nil
}

// SyncAutostart enables or disables the login entry, touching the system
// only when the current state differs.
func SyncAutostart(service Service, entry AutostartEntry, enabled bool) (changed bool, err error) {
	current, err := service.AutostartEnabled(entry.AppName)
	if err != nil {
		return false, fmt.Errorf("sync autostart: %w", err)
	}
	if current == enabled {
		return false, nil
	}
	if enabled {
		err = service.EnableAutostart(entry)
	} else {
		err = service.DisableAutostart(entry.AppName)
	}
	if err != nil {
		return false, fmt.Errorf("sync autostart: %w", err)
	}
	return true, nil
}

func (entry AutostartEntry) validate(op string) error {
	if entry.AppName == "" {
		return fmt.Errorf("%s: app name is empty", op)
	}
	if entry.ExecPath == "" {
		return fmt.Errorf("%s: exec path is empty", op)
	}
	return nil
}

// commandLine joins the executable and args, quoting parts with spaces.
func (entry AutostartEntry) commandLine() string {
	parts := make([]string, 0, len(entry.Args)+1)
	for _, part := range append([]string{entry.ExecPath}, entry.Args...) {
		trimmed := strings.Trim(part, `"`)
		if strings.ContainsAny(trimmed, " \t") {
			trimmed = `"` + trimmed + `"`
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, " ")
}

// slug lowercases appName and replaces spaces, defaulting to boxingday.
func slug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "boxingday"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
