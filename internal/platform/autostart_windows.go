//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(entry AutostartEntry) error {
	if err := entry.validate("enable autostart"); err != nil {
		return err
	}

	output, err := exec.Command(
		"reg", "add", registryRunKey,
		"/v", entry.AppName,
		"/t", "REG_SZ",
		"/d", windowsCommandLine(entry),
		"/f",
	).CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	output, err := exec.Command("reg", "delete", registryRunKey, "/v", appName, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

// AutostartEnabled treats any reg query failure as "no entry".
func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	if appName == "" {
		return false, fmt.Errorf("check autostart: app name is empty")
	}
	err := exec.Command("reg", "query", registryRunKey, "/v", appName).Run()
	return err == nil, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

// windowsCommandLine always quotes the executable path.
func windowsCommandLine(entry AutostartEntry) string {
	quoted := fmt.Sprintf(`"%s"`, strings.Trim(entry.ExecPath, `"`))
	if len(entry.Args) == 0 {
		return quoted
	}
	rest := AutostartEntry{ExecPath: entry.Args[0], Args: entry.Args[1:]}
	return quoted + " " + rest.commandLine()
}
