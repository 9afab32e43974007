package reconcile

import (
	"time"

	"weather-panel/models"
)

// Field names one notifiable display field of a ViewModel
type Field int

const (
	FieldCity Field = iota
	FieldDescription
	FieldTemp
	FieldFeelsLike
	FieldHigh
	FieldLow
	FieldWind
	FieldHumidity
)

var fieldNames = [...]string{
	FieldCity:        "city",
	FieldDescription: "description",
	FieldTemp:        "temp",
	FieldFeelsLike:   "feels_like",
	FieldHigh:        "high",
	FieldLow:         "low",
	FieldWind:        "wind",
	FieldHumidity:    "humidity",
}

// Fields lists every notifiable field in display order
func Fields() []Field {
	return []Field{FieldCity, FieldDescription, FieldTemp, FieldFeelsLike, FieldHigh, FieldLow, FieldWind, FieldHumidity}
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// ViewModel is the fully resolved display state for the selected day
type ViewModel struct {
	Labels   []string          `json:"labels"`
	Selected int               `json:"selected"`
	Units    models.UnitSystem `json:"units"`

	City        string `json:"city"`
	Description string `json:"description"`
	Temp        string `json:"temp"`
	FeelsLike   string `json:"feelsLike"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Date        string `json:"date"`
	IconURL     string `json:"iconUrl"`

	TempBand Band `json:"tempBand"`
	HighBand Band `json:"highBand"`
	LowBand  Band `json:"lowBand"`
}

// SelectedLabel returns the label of the displayed day
func (vm ViewModel) SelectedLabel() string {
	if vm.Selected < 0 || vm.Selected >= len(vm.Labels) {
		return ""
	}
	return vm.Labels[vm.Selected]
}

// Value returns the display string of a notifiable field
func (vm ViewModel) Value(f Field) string {
	switch f {
	case FieldCity:
		return vm.City
	case FieldDescription:
		return vm.Description
	case FieldTemp:
		return vm.Temp
	case FieldFeelsLike:
		return vm.FeelsLike
	case FieldHigh:
		return vm.High
	case FieldLow:
		return vm.Low
	case FieldWind:
		return vm.Wind
	case FieldHumidity:
		return vm.Humidity
	default:
		return ""
	}
}

// Change reports a field whose display string differs from the prior cycle's
type Change struct {
	At    time.Time
	Field Field
	Value string
}
