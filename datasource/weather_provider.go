package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"weather-panel/models"
)

// WeatherProvider is an interface for services that can fetch current conditions
type WeatherProvider interface {
	// GetWeather fetches current conditions for a location in the given unit system
	GetWeather(ctx context.Context, location string, units models.UnitSystem) (models.CurrentConditions, error)

	// Name returns the provider's name
	Name() string
}

// ForecastSource is an interface for services that can fetch daily forecasts
type ForecastSource interface {
	// FetchForecast fetches one aggregate per day for the given number of days, starting today
	FetchForecast(ctx context.Context, location string, units models.UnitSystem, days int) ([]models.ForecastEntry, error)

	// Name returns the source's name
	Name() string
}

// Provider serves both reads of a refresh cycle
type Provider interface {
	WeatherProvider
	ForecastSource
}

// getJSON issues a GET request and decodes a 2xx JSON body into out
func getJSON(ctx context.Context, client *http.Client, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: API error (status %d): %s", ErrTransport, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %w", ErrDecode, err)
	}
	return nil
}

// NewProvider builds the named provider: "openweathermap" or "weatherapi"
func NewProvider(name, apiKey, baseURL string, timeout time.Duration) (Provider, error) {
	switch name {
	case "openweathermap":
		return NewOpenWeatherMapProvider(apiKey, baseURL, timeout), nil
	case "weatherapi":
		return NewWeatherAPIProvider(apiKey, baseURL, timeout), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q (allowed: openweathermap, weatherapi)", name)
	}
}
