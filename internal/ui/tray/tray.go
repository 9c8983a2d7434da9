package tray

import (
	"fmt"
	"strconv"

	"boxingday/internal/core/countdown"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "BoxingDay"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnTogglePause func()
	OnJumpToYear  func(year int)
	OnCopy        func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	jumpItem    *fyne.MenuItem
	callbacks   Callbacks
	paused      bool
	statusLabel string
	currentYear int
	occurrences []countdown.Occurrence
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.pauseItem = fyne.NewMenuItem("Pause", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})
	manager.jumpItem = fyne.NewMenuItem("Jump to year", nil)

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates pause state.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshStatus()
}

// SetOccurrences rebuilds the jump-to-year submenu, checking currentYear.
func (manager *Manager) SetOccurrences(occurrences []countdown.Occurrence, currentYear int) {
	manager.occurrences = occurrences
	manager.currentYear = currentYear

	items := make([]*fyne.MenuItem, 0, len(occurrences))
	for _, occurrence := range occurrences {
		year := occurrence.Year
		item := fyne.NewMenuItem(YearItemLabel(occurrence), func() {
			if manager.callbacks.OnJumpToYear != nil {
				manager.callbacks.OnJumpToYear(year)
			}
		})
		item.Checked = year == currentYear
		items = append(items, item)
	}
	manager.jumpItem.ChildMenu = fyne.NewMenu("", items...)
	manager.jumpItem.Disabled = len(items) == 0
	manager.refreshMenu()
}

// Paused reports the current pause state.
func (manager *Manager) Paused() bool {
	return manager.paused
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show countdown", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		manager.jumpItem,
		fyne.NewMenuItem("Copy countdown", func() {
			if manager.callbacks.OnCopy != nil {
				manager.callbacks.OnCopy()
			}
		}),
		manager.pauseItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}

// YearItemLabel renders one jump-to-year entry.
func YearItemLabel(occurrence countdown.Occurrence) string {
	return strconv.Itoa(occurrence.Year) + " (" + occurrence.Weekday + ")"
}
