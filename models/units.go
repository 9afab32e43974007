package models

import (
	"fmt"
	"strings"
)

// UnitSystem selects the provider's unit query parameter and the wind speed suffix
type UnitSystem int

const (
	Imperial UnitSystem = iota
	Metric
)

// String returns the provider query value for the unit system
func (u UnitSystem) String() string {
	if u == Metric {
		return "metric"
	}
	return "imperial"
}

// WindSuffix returns the display suffix for wind speed
func (u UnitSystem) WindSuffix() string {
	if u == Metric {
		return "kmh"
	}
	return "mph"
}

// ToFahrenheit converts a temperature expressed in this unit system to Fahrenheit
func (u UnitSystem) ToFahrenheit(temp float64) float64 {
	if u == Metric {
		return temp*9/5 + 32
	}
	return temp
}

// ParseUnitSystem accepts "imperial" or "metric" (case-insensitive)
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imperial":
		return Imperial, nil
	case "metric":
		return Metric, nil
	default:
		return Imperial, fmt.Errorf("invalid unit system %q (allowed: imperial, metric)", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (u UnitSystem) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *UnitSystem) UnmarshalText(text []byte) error {
	parsed, err := ParseUnitSystem(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// DayPeriod is the solar state that drives the display mode
type DayPeriod int

const (
	Day DayPeriod = iota
	Night
)

func (p DayPeriod) String() string {
	if p == Night {
		return "night"
	}
	return "day"
}
