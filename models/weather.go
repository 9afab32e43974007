package models

import (
	"time"
)

// CurrentConditions is the live weather snapshot for the configured city.
// Temperatures and wind speed are expressed in the unit system of the request.
type CurrentConditions struct {
	Temp        float64   `json:"temp"`
	FeelsLike   float64   `json:"feelsLike"`
	HumidityPct float64   `json:"humidityPct"`
	WindSpeed   float64   `json:"windSpeed"`
	Icon        string    `json:"icon"`        // provider icon code or URL
	Description string    `json:"description"` // short text description
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	City        string    `json:"city"`
}
