package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weather-panel/models"
)

const weatherAPIBaseURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider implements both WeatherProvider and ForecastSource interfaces.
// Both reads use the forecast endpoint, which carries the current block and
// the astronomy data needed for sunrise and sunset.
type WeatherAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherAPIProvider creates a new WeatherAPI provider. An empty baseURL
// selects the public API.
func NewWeatherAPIProvider(apiKey, baseURL string, timeout time.Duration) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = weatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name
func (p *WeatherAPIProvider) Name() string {
	return "WeatherAPI"
}

type weatherAPICondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type weatherAPIResponse struct {
	Location struct {
		Name string `json:"name"`
		TzID string `json:"tz_id"`
	} `json:"location"`
	Current *struct {
		TempC      float64             `json:"temp_c"`
		TempF      float64             `json:"temp_f"`
		FeelsLikeC float64             `json:"feelslike_c"`
		FeelsLikeF float64             `json:"feelslike_f"`
		Humidity   float64             `json:"humidity"`
		WindKph    float64             `json:"wind_kph"`
		WindMph    float64             `json:"wind_mph"`
		Condition  weatherAPICondition `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC    float64             `json:"avgtemp_c"`
				AvgTempF    float64             `json:"avgtemp_f"`
				MaxTempC    float64             `json:"maxtemp_c"`
				MaxTempF    float64             `json:"maxtemp_f"`
				MinTempC    float64             `json:"mintemp_c"`
				MinTempF    float64             `json:"mintemp_f"`
				AvgHumidity float64             `json:"avghumidity"`
				MaxWindKph  float64             `json:"maxwind_kph"`
				MaxWindMph  float64             `json:"maxwind_mph"`
				Condition   weatherAPICondition `json:"condition"`
			} `json:"day"`
			Astro struct {
				Sunrise string `json:"sunrise"`
				Sunset  string `json:"sunset"`
			} `json:"astro"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) fetch(ctx context.Context, location string, days int) (weatherAPIResponse, error) {
	params := url.Values{}
	params.Add("q", location)
	params.Add("key", p.apiKey)
	params.Add("days", strconv.Itoa(days))

	var response weatherAPIResponse
	err := getJSON(ctx, p.httpClient, p.baseURL+"/forecast.json", params, &response)
	return response, err
}

// GetWeather fetches current conditions for a location
func (p *WeatherAPIProvider) GetWeather(ctx context.Context, location string, units models.UnitSystem) (models.CurrentConditions, error) {
	response, err := p.fetch(ctx, location, 1)
	if err != nil {
		return models.CurrentConditions{}, err
	}
	if response.Current == nil {
		return models.CurrentConditions{}, fmt.Errorf("%w: response missing current block", ErrDecode)
	}
	if len(response.Forecast.ForecastDay) == 0 {
		return models.CurrentConditions{}, fmt.Errorf("%w: response missing astronomy data", ErrDecode)
	}

	today := response.Forecast.ForecastDay[0]
	loc, err := time.LoadLocation(response.Location.TzID)
	if err != nil {
		loc = time.UTC
	}
	sunrise, err := parseAstroTime(today.Date, today.Astro.Sunrise, loc)
	if err != nil {
		return models.CurrentConditions{}, err
	}
	sunset, err := parseAstroTime(today.Date, today.Astro.Sunset, loc)
	if err != nil {
		return models.CurrentConditions{}, err
	}

	cur := response.Current
	conditions := models.CurrentConditions{
		HumidityPct: cur.Humidity,
		Icon:        cur.Condition.Icon,
		Description: cur.Condition.Text,
		Sunrise:     sunrise,
		Sunset:      sunset,
		City:        response.Location.Name,
	}
	if units == models.Metric {
		conditions.Temp, conditions.FeelsLike, conditions.WindSpeed = cur.TempC, cur.FeelsLikeC, cur.WindKph
	} else {
		conditions.Temp, conditions.FeelsLike, conditions.WindSpeed = cur.TempF, cur.FeelsLikeF, cur.WindMph
	}
	return conditions, nil
}

// FetchForecast fetches the daily forecast for a location. WeatherAPI has no
// daily feels-like aggregate, so the average temperature stands in for it.
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, location string, units models.UnitSystem, days int) ([]models.ForecastEntry, error) {
	response, err := p.fetch(ctx, location, days)
	if err != nil {
		return nil, err
	}
	if len(response.Forecast.ForecastDay) != days {
		return nil, fmt.Errorf("%w: forecast has %d days, want %d", ErrDecode, len(response.Forecast.ForecastDay), days)
	}

	entries := make([]models.ForecastEntry, 0, days)
	for _, fd := range response.Forecast.ForecastDay {
		day := fd.Day
		entry := models.ForecastEntry{
			HumidityPct: day.AvgHumidity,
			Icon:        day.Condition.Icon,
			Description: day.Condition.Text,
		}
		if units == models.Metric {
			entry.DayTemp, entry.MinTemp, entry.MaxTemp, entry.WindSpeed = day.AvgTempC, day.MinTempC, day.MaxTempC, day.MaxWindKph
		} else {
			entry.DayTemp, entry.MinTemp, entry.MaxTemp, entry.WindSpeed = day.AvgTempF, day.MinTempF, day.MaxTempF, day.MaxWindMph
		}
		entry.FeelsLike = entry.DayTemp
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseAstroTime combines a "2006-01-02" date with a "03:04 PM" clock time in loc
func parseAstroTime(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 03:04 PM", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid astronomy time %q: %w", ErrDecode, clock, err)
	}
	return t, nil
}

var _ Provider = (*WeatherAPIProvider)(nil)
