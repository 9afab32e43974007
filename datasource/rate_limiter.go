package datasource

import (
	"context"
	"fmt"

	"weather-panel/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a Provider so both reads share one request budget
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider creates a new rate limited provider
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedProvider(provider Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// GetWeather fetches current conditions, respecting rate limits
func (r *RateLimitedProvider) GetWeather(ctx context.Context, location string, units models.UnitSystem) (models.CurrentConditions, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return models.CurrentConditions{}, fmt.Errorf("%w: rate limit wait canceled: %w", ErrTransport, err)
	}
	return r.provider.GetWeather(ctx, location, units)
}

// FetchForecast fetches forecast data, respecting rate limits
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, location string, units models.UnitSystem, days int) ([]models.ForecastEntry, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait canceled: %w", ErrTransport, err)
	}
	return r.provider.FetchForecast(ctx, location, units, days)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

var _ Provider = (*RateLimitedProvider)(nil)
