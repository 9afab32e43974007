package models

import "strings"

const owmIconBase = "https://openweathermap.org/img/wn/"

// IconURL resolves a provider icon reference to a fetchable URL. Bare codes
// ("10d") are OpenWeatherMap icons; anything containing a slash is taken as a
// URL, with scheme-relative references upgraded to https.
func IconURL(icon string) string {
	switch {
	case icon == "":
		return ""
	case strings.HasPrefix(icon, "//"):
		return "https:" + icon
	case strings.Contains(icon, "/"):
		return icon
	default:
		return owmIconBase + icon + ".png"
	}
}
