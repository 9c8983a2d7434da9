package countdown

import (
	"math"
	"time"
)

const (
	millisPerSecond = 1000
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
	millisPerDay    = 24 * millisPerHour
)

// Remaining is the time left until a target, split into calendar-ish
// units. Each unit is a remainder, not a cumulative count. Months is
// TotalDays/30 and is not capped at 11.
type Remaining struct {
	TotalMilliseconds int64
	Months            int
	Weeks             int
	Days              int
	Hours             int
	Minutes           int
	Seconds           int
	Milliseconds      int
	TotalDays         int
	Complete          bool
	// Progress is the percentage of the target year elapsed, in [0,100].
	Progress float64
}

// Compute returns the remaining duration from now to target. It has no
// side effects.
func Compute(target Target, now time.Time) Remaining {
	diff := target.At.Sub(now).Milliseconds()
	if diff <= 0 {
		return Remaining{Complete: true, Progress: 100}
	}

	totalDays := int(diff / millisPerDay)
	return Remaining{
		TotalMilliseconds: diff,
		Months:            totalDays / 30,
		Weeks:             (totalDays / 7) % 4,
		Days:              totalDays % 7,
		Hours:             int((diff / millisPerHour) % 24),
		Minutes:           int((diff / millisPerMinute) % 60),
		Seconds:           int((diff / millisPerSecond) % 60),
		Milliseconds:      int(diff % millisPerSecond),
		TotalDays:         totalDays,
		Progress:          yearProgress(target, now),
	}
}

func yearProgress(target Target, now time.Time) float64 {
	year := target.Year
	if year == 0 {
		year = now.Year()
	}
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, target.At.Location())
	span := target.At.Sub(yearStart).Milliseconds()
	if span <= 0 {
		return 100
	}
	elapsed := now.Sub(yearStart).Milliseconds()
	percent := float64(elapsed) / float64(span) * 100
	percent = math.Max(0, math.Min(100, percent))
	return math.Round(percent*100) / 100
}
