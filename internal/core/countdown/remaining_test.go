package countdown

import (
	"testing"
	"time"

	"boxingday/internal/core/model"
)

var testLocation = time.UTC

func TestComputeFutureTargetExactMilliseconds(t *testing.T) {
	t.Parallel()
	target := recurringTarget(2026, testLocation)
	for _, ms := range []int64{1, 999, 1000, 86_399_999, 86_400_000, 12_345_678_901} {
		now := target.At.Add(-time.Duration(ms) * time.Millisecond)
		got := Compute(target, now)
		if got.Complete {
			t.Fatalf("Compute(%dms before) Complete = true", ms)
		}
		if got.TotalMilliseconds != ms {
			t.Fatalf("TotalMilliseconds = %d, want %d", got.TotalMilliseconds, ms)
		}
	}
}

func TestComputePastOrNowIsComplete(t *testing.T) {
	t.Parallel()
	target := recurringTarget(2026, testLocation)
	for _, now := range []time.Time{target.At, target.At.Add(time.Millisecond), target.At.Add(400 * 24 * time.Hour)} {
		got := Compute(target, now)
		want := Remaining{Complete: true, Progress: 100}
		if got != want {
			t.Fatalf("Compute(now=%v) = %+v, want %+v", now, got, want)
		}
	}
}

func TestComputeOneMonthBeforeBoxingDay(t *testing.T) {
	t.Parallel()
	target := recurringTarget(2026, testLocation)
	now := time.Date(2026, time.November, 26, 0, 0, 0, 0, testLocation)

	got := Compute(target, now)
	if got.TotalDays != 30 {
		t.Fatalf("TotalDays = %d, want 30", got.TotalDays)
	}
	if got.Weeks != 0 || got.Days != 2 || got.Months != 1 {
		t.Fatalf("months/weeks/days = %d/%d/%d, want 1/0/2", got.Months, got.Weeks, got.Days)
	}
	if got.Hours != 0 || got.Minutes != 0 || got.Seconds != 0 || got.Milliseconds != 0 {
		t.Fatalf("clock fields = %s.%d, want 00:00:00.0", got.Clock(), got.Milliseconds)
	}
}

func TestComputeDecompositionIsConsistent(t *testing.T) {
	t.Parallel()
	target := recurringTarget(2027, testLocation)
	start := time.Date(2025, time.March, 3, 7, 11, 13, 17_000_000, testLocation)
	step := 37*time.Hour + 13*time.Minute + 7*time.Second + 333*time.Millisecond

	for now := start; now.Before(target.At); now = now.Add(step) {
		got := Compute(target, now)
		if got.Hours < 0 || got.Hours > 23 || got.Minutes < 0 || got.Minutes > 59 ||
			got.Seconds < 0 || got.Seconds > 59 || got.Days < 0 || got.Days > 6 ||
			got.Weeks < 0 || got.Weeks > 3 || got.Milliseconds < 0 || got.Milliseconds > 999 {
			t.Fatalf("Compute(%v) out of range: %+v", now, got)
		}
		rebuilt := int64(got.TotalDays)*millisPerDay + int64(got.Hours)*millisPerHour +
			int64(got.Minutes)*millisPerMinute + int64(got.Seconds)*millisPerSecond + int64(got.Milliseconds)
		if rebuilt != got.TotalMilliseconds {
			t.Fatalf("rebuilt %d ms, want %d (%+v)", rebuilt, got.TotalMilliseconds, got)
		}
		if got.Days != got.TotalDays%7 || got.Weeks != (got.TotalDays/7)%4 || got.Months != got.TotalDays/30 {
			t.Fatalf("unit split disagrees with TotalDays: %+v", got)
		}
	}
}

func TestComputeMonthsAreUncapped(t *testing.T) {
	t.Parallel()
	target := recurringTarget(2026, testLocation)
	now := time.Date(2025, time.December, 27, 0, 0, 0, 0, testLocation)
	got := Compute(target, now)
	if got.Months != 12 {
		t.Fatalf("Months = %d, want 12 (TotalDays %d)", got.Months, got.TotalDays)
	}
}

func TestYearProgress(t *testing.T) {
	t.Parallel()
	target := recurringTarget(2026, testLocation)
	yearStart := time.Date(2026, time.January, 1, 0, 0, 0, 0, testLocation)
	span := target.At.Sub(yearStart)

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"year start", yearStart, 0},
		{"before year start", yearStart.Add(-time.Hour), 0},
		{"halfway", yearStart.Add(span / 2), 50},
		{"one day in", yearStart.Add(24 * time.Hour), 0.28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(target, tt.now).Progress; got != tt.want {
				t.Fatalf("Progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOccurrencesAscendingAndComplete(t *testing.T) {
	t.Parallel()
	years := model.DefaultYearRange()
	occurrences := Occurrences(years, testLocation)
	if len(occurrences) != years.Last-years.First+1 {
		t.Fatalf("len = %d, want %d", len(occurrences), years.Last-years.First+1)
	}
	for i, occurrence := range occurrences {
		if i > 0 && occurrence.Year <= occurrences[i-1].Year {
			t.Fatalf("occurrence %d year %d not after %d", i, occurrence.Year, occurrences[i-1].Year)
		}
		if occurrence.Date.Month() != time.December || occurrence.Date.Day() != 26 {
			t.Fatalf("occurrence %d date = %v", i, occurrence.Date)
		}
	}

	got := occurrences[2026-years.First]
	if got.Weekday != "Saturday" || got.Label != "Saturday, December 26, 2026" {
		t.Fatalf("2026 occurrence = %+v", got)
	}
}

func TestOccurrencesEmptyRange(t *testing.T) {
	t.Parallel()
	if got := Occurrences(model.YearRange{First: 2030, Last: 2029}, testLocation); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestFormatUnit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value int
		pad   int
		want  string
	}{
		{5, 2, "05"},
		{0, 2, "00"},
		{42, 2, "42"},
		{123, 2, "123"},
		{7, 3, "007"},
		{9, 0, "09"},
	}
	for _, tt := range tests {
		if got := FormatUnit(tt.value, tt.pad); got != tt.want {
			t.Errorf("FormatUnit(%d, %d) = %q, want %q", tt.value, tt.pad, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()
	target := recurringTarget(2026, testLocation)
	now := target.At.Add(-(24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second))
	if got := Summary(Compute(target, now), ""); got != "1 day, 04:05:06 until Boxing Day" {
		t.Fatalf("Summary = %q", got)
	}
	if got := Summary(Remaining{Complete: true}, "Launch"); got != "It's Launch!" {
		t.Fatalf("Summary complete = %q", got)
	}
}

func TestParseTargetTime(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2027-03-14", time.Date(2027, time.March, 14, 0, 0, 0, 0, testLocation)},
		{"2027-03-14T09:30", time.Date(2027, time.March, 14, 9, 30, 0, 0, testLocation)},
		{"2027-03-14T09:30:15", time.Date(2027, time.March, 14, 9, 30, 15, 0, testLocation)},
		{"2027-03-14 09:30:15", time.Date(2027, time.March, 14, 9, 30, 15, 0, testLocation)},
		{"2027-03-14T09:30:15.250", time.Date(2027, time.March, 14, 9, 30, 15, 250_000_000, testLocation)},
		{"2027-03-14T09:30:15+02:00", time.Date(2027, time.March, 14, 7, 30, 15, 0, testLocation)},
	}
	for _, tt := range tests {
		got, err := ParseTargetTime(tt.raw, testLocation)
		if err != nil {
			t.Fatalf("ParseTargetTime(%q) error: %v", tt.raw, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("ParseTargetTime(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	for _, raw := range []string{"", "tomorrow", "2027-13-01", "26/12/2027"} {
		if _, err := ParseTargetTime(raw, testLocation); err == nil {
			t.Fatalf("ParseTargetTime(%q) error = nil", raw)
		}
	}
}
