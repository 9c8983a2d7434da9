package countdown

import (
	"time"

	"boxingday/internal/core/model"
)

const occurrenceLabelLayout = "Monday, January 2, 2006"

// Occurrence is the recurring date in one year.
type Occurrence struct {
	Year    int
	Date    time.Time
	Weekday string
	Label   string
}

// Occurrences lists December 26 for every year in years, ascending.
func Occurrences(years model.YearRange, location *time.Location) []Occurrence {
	occurrences := make([]Occurrence, 0, years.Len())
	for year := years.First; year <= years.Last; year++ {
		date := RecurringDate(year, location)
		occurrences = append(occurrences, Occurrence{
			Year:    year,
			Date:    date,
			Weekday: date.Weekday().String(),
			Label:   date.Format(occurrenceLabelLayout),
		})
	}
	return occurrences
}
