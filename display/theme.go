package display

import "weather-panel/models"

// Theme is the palette of one display mode
type Theme struct {
	Name       string
	Background string
	Text       string
	Muted      string
	Accent     string
	Separator  string
}

var (
	DayTheme = Theme{
		Name:       "DarkBlue3",
		Background: "#64778d",
		Text:       "#ffffff",
		Muted:      "#dfe6ee",
		Accent:     "#283b5b",
		Separator:  "#ffffff",
	}
	NightTheme = Theme{
		Name:       "DarkBlue14",
		Background: "#21273d",
		Text:       "#ffffff",
		Muted:      "#a6b2d5",
		Accent:     "#545c8b",
		Separator:  "#ffffff",
	}
)

// ThemeFor returns the palette for a display mode
func ThemeFor(mode models.DayPeriod) Theme {
	if mode == models.Night {
		return NightTheme
	}
	return DayTheme
}
