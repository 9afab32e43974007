// Package solar decides whether the display runs in day or night mode.
package solar

import (
	"time"

	"weather-panel/models"
)

// Period returns Day when sunrise <= now < sunset, otherwise Night
func Period(sunrise, sunset, now time.Time) models.DayPeriod {
	if !now.Before(sunrise) && now.Before(sunset) {
		return models.Day
	}
	return models.Night
}

// PeriodOf evaluates the solar state for a current-conditions payload
func PeriodOf(current models.CurrentConditions, now time.Time) models.DayPeriod {
	return Period(current.Sunrise, current.Sunset, now)
}
