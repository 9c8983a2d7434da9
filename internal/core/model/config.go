package model

import "time"

// Default countdown settings.
const (
	DefaultUpdateInterval = time.Second
	DefaultRolloverDelay  = 5 * time.Second
	DefaultFirstYear      = 2025
	DefaultLastYear       = 2040
)

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	First int
	Last  int
}

// DefaultYearRange returns the range used for navigation and rollover.
func DefaultYearRange() YearRange {
	return YearRange{First: DefaultFirstYear, Last: DefaultLastYear}
}

// Len returns the number of years in the range.
func (years YearRange) Len() int {
	if years.Last < years.First {
		return 0
	}
	return years.Last - years.First + 1
}

// Contains reports whether year lies inside the range.
func (years YearRange) Contains(year int) bool {
	return year >= years.First && year <= years.Last
}

// CountdownConfig contains runtime settings for the countdown engine.
type CountdownConfig struct {
	UpdateInterval time.Duration
	RolloverDelay  time.Duration
	Years          YearRange
}

// WithDefaults fills zero or invalid fields.
func (config CountdownConfig) WithDefaults() CountdownConfig {
	if config.UpdateInterval <= 0 {
		config.UpdateInterval = DefaultUpdateInterval
	}
	if config.RolloverDelay <= 0 {
		config.RolloverDelay = DefaultRolloverDelay
	}
	if config.Years.First == 0 && config.Years.Last == 0 {
		config.Years = DefaultYearRange()
	}
	return config
}
