package reconcile

import (
	"fmt"

	"weather-panel/models"
)

// Band is a color classification of a temperature
type Band int

const (
	Neutral Band = iota
	Hot
	Warm
	Cool
	Cold
)

var bandInfo = [...]struct {
	name  string
	color string
}{
	Neutral: {"neutral", "#ffffff"},
	Hot:     {"hot", "#ff0000"},
	Warm:    {"warm", "#ffa500"},
	Cool:    {"cool", "#03b6fc"},
	Cold:    {"cold", "#0013bf"},
}

// Classify bands a Fahrenheit temperature. Thresholds are checked in order
// and the first match wins: >=80 hot, >=70 warm, <=30 cold, <=45 cool.
func Classify(fahrenheit float64) Band {
	switch {
	case fahrenheit >= 80:
		return Hot
	case fahrenheit >= 70:
		return Warm
	case fahrenheit <= 30:
		return Cold
	case fahrenheit <= 45:
		return Cool
	default:
		return Neutral
	}
}

// BandFor bands a temperature expressed in units
func BandFor(temp float64, units models.UnitSystem) Band {
	return Classify(units.ToFahrenheit(temp))
}

func (b Band) valid() bool {
	return b >= 0 && int(b) < len(bandInfo)
}

func (b Band) String() string {
	if !b.valid() {
		return "unknown"
	}
	return bandInfo[b].name
}

// Color returns the band's text color as a hex string
func (b Band) Color() string {
	if !b.valid() {
		return bandInfo[Neutral].color
	}
	return bandInfo[b].color
}

// MarshalText implements encoding.TextMarshaler
func (b Band) MarshalText() ([]byte, error) {
	if !b.valid() {
		return nil, fmt.Errorf("invalid band %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Band) UnmarshalText(text []byte) error {
	for i := range bandInfo {
		if bandInfo[i].name == string(text) {
			*b = Band(i)
			return nil
		}
	}
	return fmt.Errorf("invalid band %q", text)
}
