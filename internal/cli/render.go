// Package cli renders the countdown to a terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"boxingday/internal/core/countdown"

	"github.com/fatih/color"
)

const progressWidth = 20

// Printer writes colored countdown lines.
type Printer struct {
	out      io.Writer
	label    *color.Color
	value    *color.Color
	done     *color.Color
	dim      *color.Color
	selected *color.Color
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:      out,
		label:    color.New(color.FgHiWhite, color.Bold),
		value:    color.New(color.FgYellow),
		done:     color.New(color.FgGreen, color.Bold),
		dim:      color.New(color.FgHiBlack),
		selected: color.New(color.FgBlue, color.Bold),
	}
}

// Countdown prints one line for the remaining time until target.
func (printer *Printer) Countdown(target countdown.Target, remaining countdown.Remaining) {
	title := targetTitle(target)
	if remaining.Complete {
		fmt.Fprintf(printer.out, "%s %s\n", printer.label.Sprint(title), printer.done.Sprintf("It's %s!", labelOrDefault(target.Label)))
		return
	}
	fmt.Fprintf(printer.out, "%s %s %s %s %s\n",
		printer.label.Sprint(title),
		printer.value.Sprintf("%dd %s.%s", remaining.TotalDays, remaining.Clock(), countdown.FormatUnit(remaining.Milliseconds, 3)),
		printer.dim.Sprintf("(%dmo %dw %dd)", remaining.Months, remaining.Weeks, remaining.Days),
		ProgressBar(remaining.Progress, progressWidth),
		printer.dim.Sprintf("%.2f%%", remaining.Progress),
	)
}

// Occurrences prints the occurrence table, marking currentYear.
func (printer *Printer) Occurrences(occurrences []countdown.Occurrence, currentYear int) {
	fmt.Fprintln(printer.out, printer.label.Sprintf("%-6s %-10s %s", "Year", "Weekday", "Date"))
	for _, occurrence := range occurrences {
		line := fmt.Sprintf("%-6d %-10s %s", occurrence.Year, occurrence.Weekday, occurrence.Label)
		if occurrence.Year == currentYear {
			fmt.Fprintln(printer.out, printer.selected.Sprint(line+"  <"))
			continue
		}
		fmt.Fprintln(printer.out, line)
	}
}

// Rollover prints a notice that a recurring target advanced.
func (printer *Printer) Rollover(target countdown.Target) {
	fmt.Fprintln(printer.out, printer.dim.Sprintf("Counting down to %s", targetTitle(target)))
}

// Follow prints every tick, completion and rollover from events until ctx
// is done or the channel closes.
func Follow(ctx context.Context, events <-chan countdown.Event, printer *Printer) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case countdown.EventTick:
				if !event.Remaining.Complete {
					printer.Countdown(event.Target, event.Remaining)
				}
			case countdown.EventComplete:
				printer.Countdown(event.Target, event.Remaining)
			case countdown.EventRollover:
				printer.Rollover(event.Target)
			}
		}
	}
}

// ProgressBar renders progress (0..100) as a fixed-width bar.
func ProgressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	progress = max(0, min(progress, 100))
	filled := int(progress / 100 * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func targetTitle(target countdown.Target) string {
	label := labelOrDefault(target.Label)
	if target.Kind == countdown.KindRecurring {
		return fmt.Sprintf("%s %d", label, target.Year)
	}
	return label
}

func labelOrDefault(label string) string {
	if label == "" {
		return countdown.DefaultLabel
	}
	return label
}
