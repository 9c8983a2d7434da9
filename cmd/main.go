package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"boxingday/internal/clock"
	"boxingday/internal/core/countdown"
	"boxingday/internal/logx"
	"boxingday/internal/platform"
	"boxingday/internal/storage"
	"boxingday/internal/ui/preferences"

	"github.com/spf13/pflag"
)

const (
	appName = "BoxingDay"
	appID   = "com.boxingday.app"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseOptions(args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logService, log := logx.NewService(logx.Config{
		Level:   opts.logLevel,
		Console: true,
		File:    logx.FileConfig{Enabled: opts.logFile != "", Path: opts.logFile},
	})
	defer func() {
		_ = logService.Close()
	}()

	location := time.Local
	if opts.timezone != "" {
		location, err = time.LoadLocation(opts.timezone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", opts.timezone, err)
		}
	}

	platformService := platform.NewService()
	configDir, err := storage.ResolveConfigDir(platformService, appName, opts.configDir)
	if err != nil {
		return err
	}
	settings, err := storage.LoadSettings(configDir)
	if err != nil {
		log.Warn("settings unreadable; using defaults", logx.Err(err), logx.String("dir", configDir))
	}
	if opts.interval > 0 {
		settings.UpdateInterval = opts.interval
	}

	session := session{
		opts:      opts,
		log:       log,
		location:  location,
		clock:     clock.Real(),
		platform:  platformService,
		configDir: configDir,
		settings:  settings,
	}

	switch {
	case opts.list:
		return session.runList(os.Stdout)
	case opts.headless:
		return session.runHeadless(os.Stdout)
	default:
		return session.runDesktop()
	}
}

// session carries what every run mode needs.
type session struct {
	opts      options
	log       logx.Logger
	location  *time.Location
	clock     clock.Clock
	platform  platform.Service
	configDir string
	settings  preferences.Settings
}

func (session *session) newEngine(config countdown.Config) *countdown.Engine {
	config.Clock = session.clock
	config.Logger = session.log
	config.Location = session.location
	config.Timezone = session.location.String()
	return countdown.New(session.settings.CountdownConfig(), config)
}

// applyTarget selects the target from flags first, then saved settings.
// An invalid flag is an error; an invalid saved date keeps Boxing Day.
func (session *session) applyTarget(engine *countdown.Engine) error {
	switch {
	case session.opts.target != "":
		if _, err := engine.SetCustomTarget(session.opts.target, session.opts.label); err != nil {
			return err
		}
	case session.opts.year != 0:
		engine.SetRecurringTargetYear(session.opts.year)
	case session.settings.IsCustom():
		if _, err := engine.SetCustomTarget(session.settings.CustomDate, session.settings.CustomLabel); err != nil {
			session.log.Warn("saved custom target ignored", logx.Err(err))
		}
	}
	return nil
}
