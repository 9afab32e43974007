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

const openWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherMapProvider implements both WeatherProvider and ForecastSource interfaces
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider. An empty
// baseURL selects the public API.
func NewOpenWeatherMapProvider(apiKey, baseURL string, timeout time.Duration) *OpenWeatherMapProvider {
	if baseURL == "" {
		baseURL = openWeatherMapBaseURL
	}
	return &OpenWeatherMapProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

type owmWeather struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// GetWeather fetches current conditions for a location
func (p *OpenWeatherMapProvider) GetWeather(ctx context.Context, location string, units models.UnitSystem) (models.CurrentConditions, error) {
	params := url.Values{}
	params.Add("q", location)
	params.Add("APPID", p.apiKey)
	params.Add("units", units.String())

	var response struct {
		Main struct {
			Temp      *float64 `json:"temp"`
			FeelsLike float64  `json:"feels_like"`
			Humidity  float64  `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []owmWeather `json:"weather"`
		Sys     struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
		Name string `json:"name"`
	}

	if err := getJSON(ctx, p.httpClient, p.baseURL+"/weather", params, &response); err != nil {
		return models.CurrentConditions{}, err
	}

	if response.Main.Temp == nil {
		return models.CurrentConditions{}, fmt.Errorf("%w: current conditions missing temperature", ErrDecode)
	}
	if len(response.Weather) == 0 {
		return models.CurrentConditions{}, fmt.Errorf("%w: current conditions missing weather", ErrDecode)
	}
	if response.Sys.Sunrise == 0 || response.Sys.Sunset == 0 {
		return models.CurrentConditions{}, fmt.Errorf("%w: current conditions missing sunrise/sunset", ErrDecode)
	}

	return models.CurrentConditions{
		Temp:        *response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		HumidityPct: response.Main.Humidity,
		WindSpeed:   response.Wind.Speed,
		Icon:        response.Weather[0].Icon,
		Description: response.Weather[0].Description,
		Sunrise:     time.Unix(response.Sys.Sunrise, 0),
		Sunset:      time.Unix(response.Sys.Sunset, 0),
		City:        response.Name,
	}, nil
}

// FetchForecast fetches the daily forecast for a location. The response must
// cover exactly the requested number of days.
func (p *OpenWeatherMapProvider) FetchForecast(ctx context.Context, location string, units models.UnitSystem, days int) ([]models.ForecastEntry, error) {
	params := url.Values{}
	params.Add("q", location)
	params.Add("cnt", strconv.Itoa(days))
	params.Add("APPID", p.apiKey)
	params.Add("units", units.String())

	var response struct {
		List []struct {
			Temp struct {
				Day float64 `json:"day"`
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			FeelsLike struct {
				Day float64 `json:"day"`
			} `json:"feels_like"`
			Humidity float64      `json:"humidity"`
			Speed    float64      `json:"speed"`
			Weather  []owmWeather `json:"weather"`
		} `json:"list"`
	}

	if err := getJSON(ctx, p.httpClient, p.baseURL+"/forecast/daily", params, &response); err != nil {
		return nil, err
	}

	if len(response.List) != days {
		return nil, fmt.Errorf("%w: forecast has %d days, want %d", ErrDecode, len(response.List), days)
	}

	entries := make([]models.ForecastEntry, 0, days)
	for i, item := range response.List {
		if len(item.Weather) == 0 {
			return nil, fmt.Errorf("%w: forecast day %d missing weather", ErrDecode, i)
		}
		entries = append(entries, models.ForecastEntry{
			DayTemp:     item.Temp.Day,
			FeelsLike:   item.FeelsLike.Day,
			MinTemp:     item.Temp.Min,
			MaxTemp:     item.Temp.Max,
			HumidityPct: item.Humidity,
			WindSpeed:   item.Speed,
			Icon:        item.Weather[0].Icon,
			Description: item.Weather[0].Description,
		})
	}

	return entries, nil
}

var _ Provider = (*OpenWeatherMapProvider)(nil)
