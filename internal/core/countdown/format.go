package countdown

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatUnit left-pads value with ASCII zeros to pad digits. Longer
// values are returned whole. A pad <= 0 means 2.
func FormatUnit(value, pad int) string {
	if pad <= 0 {
		pad = 2
	}
	digits := strconv.Itoa(value)
	if len(digits) >= pad {
		return digits
	}
	return strings.Repeat("0", pad-len(digits)) + digits
}

// Clock renders the sub-day part as HH:MM:SS.
func (remaining Remaining) Clock() string {
	return FormatUnit(remaining.Hours, 2) + ":" +
		FormatUnit(remaining.Minutes, 2) + ":" +
		FormatUnit(remaining.Seconds, 2)
}

// Summary renders a one-line description suitable for copying.
func Summary(remaining Remaining, label string) string {
	if label == "" {
		label = DefaultLabel
	}
	if remaining.Complete {
		return fmt.Sprintf("It's %s!", label)
	}
	return fmt.Sprintf("%s, %s until %s", pluralDays(remaining.TotalDays), remaining.Clock(), label)
}

func pluralDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return strconv.Itoa(days) + " days"
}
