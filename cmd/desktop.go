package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boxingday/internal/core/countdown"
	"boxingday/internal/logx"
	"boxingday/internal/platform"
	"boxingday/internal/services/reminder"
	"boxingday/internal/storage"
	"boxingday/internal/ui/animation"
	"boxingday/internal/ui/overlay"
	"boxingday/internal/ui/preferences"
	"boxingday/internal/ui/tray"
	"boxingday/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const shutdownTimeout = 2 * time.Second

// controller wires the engine to the desktop surfaces. Fields below the
// engine are only touched on the Fyne thread.
type controller struct {
	*session
	fyneApp    fyne.App
	desktopApp desktop.App
	engine     *countdown.Engine
	reminders  *reminder.Service
	watcher    *storage.Watcher

	countdownWindow *overlay.Window
	prefsWindow     *preferences.Window
	trayManager     *tray.Manager
	paused          bool
	statusDays      int
}

func (session *session) runDesktop() error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			session.log.Info("already running; activating the existing window")
			return platform.ActivateRunning(appName)
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo(resources.LogoActive))
	preferences.ApplyTheme(fyneApp, session.settings.Theme)

	ctrl := &controller{session: session, fyneApp: fyneApp, statusDays: -1}
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		ctrl.desktopApp = desktopApp
	} else {
		session.log.Warn("system tray unsupported on this platform")
	}

	animationEngine := animation.New(animation.DefaultConfig(), func(text string) {
		ctrl.countdownWindow.SetBanner(text)
	})
	ctrl.countdownWindow = overlay.New(fyneApp, overlay.Config{Compact: session.settings.Compact}, animationEngine)

	ctrl.engine = session.newEngine(countdown.Config{
		OnTick:     ctrl.countdownWindow.SetRemaining,
		OnComplete: ctrl.handleComplete,
	})
	defer ctrl.engine.Close()
	if err := session.applyTarget(ctrl.engine); err != nil {
		return err
	}
	ctrl.countdownWindow.SetOnCopy(ctrl.copySummary)

	ctrl.reminders = reminder.New(ctrl.engine, ctrl.notify, reminder.Config{
		Location: session.location,
		Logger:   session.log,
	})
	ctrl.applyReminder(session.settings)

	ctrl.prefsWindow = preferences.New(fyneApp, session.settings, session.location, ctrl.savePreferences)
	ctrl.trayManager = tray.New(ctrl.desktopApp, tray.Callbacks{
		OnShow:        ctrl.countdownWindow.Show,
		OnPreferences: ctrl.prefsWindow.Show,
		OnTogglePause: ctrl.togglePause,
		OnJumpToYear:  ctrl.jumpToYear,
		OnCopy:        ctrl.copySummary,
		OnQuit:        fyneApp.Quit,
	})
	if ctrl.desktopApp != nil {
		ctrl.desktopApp.SetSystemTrayIcon(resources.MustLogo(resources.LogoActive))
	}
	ctrl.showTarget(ctrl.engine.Target())

	ctrl.watcher = storage.NewWatcher(session.configDir, session.log, func(updated preferences.Settings) {
		fyne.Do(func() {
			ctrl.prefsWindow.UpdateSettings(updated)
			ctrl.applySettings(updated)
		})
	})
	ctrl.watcher.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := ctrl.watcher.Watch(ctx); err != nil {
			session.log.Warn("settings watcher stopped", logx.Err(err))
		}
	}()
	go guard.Serve(func() {
		fyne.Do(ctrl.countdownWindow.Show)
	})
	go ctrl.follow(ctrl.engine.Subscribe(32))

	ctrl.syncAutostart(session.settings.StartAtLogin)
	ctrl.reminders.Start()
	ctrl.engine.Start()
	if !session.opts.hidden {
		ctrl.countdownWindow.Show()
	}

	fyneApp.Run()

	ctrl.engine.Stop()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	ctrl.reminders.Stop(stopCtx)
	session.log.Info("shutdown complete")
	return nil
}

// follow mirrors engine events into the tray and window headings.
func (ctrl *controller) follow(events <-chan countdown.Event) {
	for event := range events {
		switch event.Type {
		case countdown.EventTargetChange, countdown.EventRollover:
			target := event.Target
			fyne.Do(func() {
				ctrl.showTarget(target)
			})
		case countdown.EventTick:
			remaining := event.Remaining
			fyne.Do(func() {
				ctrl.showStatus(remaining)
			})
		case countdown.EventComplete:
			label := event.Target.Label
			fyne.Do(func() {
				ctrl.statusDays = -1
				ctrl.trayManager.SetStatus(fmt.Sprintf("It's %s!", label))
			})
		}
	}
}

func (ctrl *controller) showTarget(target countdown.Target) {
	ctrl.countdownWindow.SetTarget(target)
	ctrl.trayManager.SetOccurrences(ctrl.engine.Occurrences(), target.Year)
	ctrl.statusDays = -1
	ctrl.showStatus(ctrl.engine.ComputeRemaining())
}

// showStatus refreshes the tray label once per day change.
func (ctrl *controller) showStatus(remaining countdown.Remaining) {
	if remaining.Complete || remaining.TotalDays == ctrl.statusDays {
		return
	}
	ctrl.statusDays = remaining.TotalDays
	ctrl.trayManager.SetStatus(fmt.Sprintf("%d days to %s", remaining.TotalDays, overlay.TargetTitle(ctrl.engine.Target())))
}

func (ctrl *controller) handleComplete() {
	label := ctrl.engine.Target().Label
	ctrl.countdownWindow.Celebrate(label)
	fyne.Do(func() {
		if ctrl.settings.Notifications {
			ctrl.fyneApp.SendNotification(fyne.NewNotification(label, fmt.Sprintf("It's %s!", label)))
		}
	})
}

func (ctrl *controller) notify(title, body string) {
	fyne.Do(func() {
		if ctrl.settings.Notifications {
			ctrl.fyneApp.SendNotification(fyne.NewNotification(title, body))
		}
	})
}

func (ctrl *controller) copySummary() {
	target := ctrl.engine.Target()
	summary := countdown.Summary(ctrl.engine.ComputeRemaining(), target.Label)
	ctrl.fyneApp.Clipboard().SetContent(summary)
	ctrl.log.Debug("summary copied", logx.String("text", summary))
}

func (ctrl *controller) togglePause() {
	ctrl.paused = !ctrl.paused
	icon := resources.LogoActive
	if ctrl.paused {
		icon = resources.LogoPaused
		ctrl.engine.Stop()
	} else {
		ctrl.engine.Start()
	}
	if ctrl.desktopApp != nil {
		ctrl.desktopApp.SetSystemTrayIcon(resources.MustLogo(icon))
	}
	ctrl.trayManager.SetPaused(ctrl.paused)
}

func (ctrl *controller) jumpToYear(year int) {
	ctrl.engine.Stop()
	ctrl.engine.SetRecurringTargetYear(year)
	ctrl.restart()
}

func (ctrl *controller) restart() {
	if !ctrl.paused {
		ctrl.engine.Start()
	}
}

func (ctrl *controller) savePreferences(updated preferences.Settings) {
	if err := storage.SaveSettings(ctrl.configDir, updated); err != nil {
		ctrl.log.Error("save settings failed", logx.Err(err))
	} else {
		ctrl.watcher.Sync()
	}
	ctrl.applySettings(updated)
}

// applySettings pushes settings into every component. The target only
// changes when the mode or custom date changed, so a jump from the tray
// survives unrelated edits.
func (ctrl *controller) applySettings(updated preferences.Settings) {
	previous := ctrl.settings
	ctrl.settings = updated

	ctrl.engine.UpdateConfig(updated.CountdownConfig())
	ctrl.countdownWindow.UpdateConfig(overlay.Config{Compact: updated.Compact})
	preferences.ApplyTheme(ctrl.fyneApp, updated.Theme)
	ctrl.applyReminder(updated)
	if updated.StartAtLogin != previous.StartAtLogin {
		ctrl.syncAutostart(updated.StartAtLogin)
	}

	targetChanged := updated.Mode != previous.Mode ||
		updated.CustomDate != previous.CustomDate ||
		updated.CustomLabel != previous.CustomLabel
	switch {
	case targetChanged && updated.IsCustom():
		ctrl.engine.Stop()
		if _, err := ctrl.engine.SetCustomTarget(updated.CustomDate, updated.CustomLabel); err != nil {
			ctrl.log.Warn("custom target ignored", logx.Err(err))
		}
		ctrl.restart()
	case targetChanged:
		ctrl.engine.Stop()
		ctrl.engine.SetRecurringTarget()
		ctrl.restart()
	case updated.Years != previous.Years:
		ctrl.trayManager.SetOccurrences(ctrl.engine.Occurrences(), ctrl.engine.Target().Year)
	}
}

func (ctrl *controller) applyReminder(settings preferences.Settings) {
	spec := settings.ReminderSpec
	if !settings.Notifications {
		spec = ""
	}
	if err := ctrl.reminders.Reschedule(spec); err != nil {
		ctrl.log.Warn("reminder unchanged", logx.Err(err))
	}
}

func (ctrl *controller) syncAutostart(enabled bool) {
	entry, err := platform.CurrentEntry(appName, "--hidden")
	if err != nil {
		ctrl.log.Warn("autostart unavailable", logx.Err(err))
		return
	}
	changed, err := platform.SyncAutostart(ctrl.platform, entry, enabled)
	if err != nil {
		ctrl.log.Warn("autostart sync failed", logx.Err(err), logx.Bool("enabled", enabled))
		return
	}
	if changed {
		ctrl.log.Info("autostart updated", logx.Bool("enabled", enabled))
	}
}
