package main

import (
	"fmt"
	"io"
	"time"

	"boxingday/internal/ui/preferences"

	"github.com/spf13/pflag"
)

type options struct {
	year      int
	target    string
	label     string
	interval  time.Duration
	timezone  string
	headless  bool
	list      bool
	hidden    bool
	logLevel  string
	logFile   string
	configDir string
}

func parseOptions(args []string, output io.Writer) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("boxingday", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.IntVar(&opts.year, "year", 0, "count down to December 26 of this year")
	flagSet.StringVar(&opts.target, "target", "", "count down to a custom date (2027-03-14 or 2027-03-14T09:30)")
	flagSet.StringVar(&opts.label, "label", "", "label for --target")
	flagSet.DurationVar(&opts.interval, "interval", 0, "refresh interval, overrides the saved preference")
	flagSet.StringVar(&opts.timezone, "timezone", "", "IANA timezone for calendar arithmetic (default local)")
	flagSet.BoolVar(&opts.headless, "headless", false, "print the countdown to the terminal instead of opening a window")
	flagSet.BoolVar(&opts.list, "list", false, "print the weekday of every Boxing Day in range and exit")
	flagSet.BoolVar(&opts.hidden, "hidden", false, "start in the system tray without showing the window")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flagSet.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this file")
	flagSet.StringVar(&opts.configDir, "config-dir", "", "directory holding settings.yaml")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return options{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.year != 0 && opts.target != "" {
		return options{}, fmt.Errorf("--year and --target are mutually exclusive")
	}
	if opts.label != "" && opts.target == "" {
		return options{}, fmt.Errorf("--label requires --target")
	}
	if opts.interval < 0 || (opts.interval > 0 && opts.interval < preferences.MinUpdateInterval) {
		return options{}, fmt.Errorf("--interval must be at least %v", preferences.MinUpdateInterval)
	}
	// Terminal modes share stdout with the countdown; keep logs quiet there.
	if (opts.headless || opts.list) && !flagSet.Changed("log-level") {
		opts.logLevel = "warn"
	}
	return opts, nil
}
