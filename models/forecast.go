package models

import (
	"time"
)

// DayCount is the number of calendar days covered by a forecast, starting today
const DayCount = 7

// ForecastEntry is one day's aggregated prediction
type ForecastEntry struct {
	DayTemp     float64 `json:"dayTemp"`
	FeelsLike   float64 `json:"feelsLike"`
	MinTemp     float64 `json:"minTemp"`
	MaxTemp     float64 `json:"maxTemp"`
	HumidityPct float64 `json:"humidityPct"`
	WindSpeed   float64 `json:"windSpeed"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

// Snapshot is the result of one successful fetch cycle. A cycle replaces it
// wholesale; its contents are never patched after construction.
type Snapshot struct {
	Provider string            `json:"provider"`
	Units    UnitSystem        `json:"units"`
	Forecast []ForecastEntry   `json:"forecast"` // exactly DayCount entries
	Current  CurrentConditions `json:"current"`
	Fetched  time.Time         `json:"fetched"`
}
