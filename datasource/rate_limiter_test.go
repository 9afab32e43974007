package datasource

import (
	"context"
	"testing"
	"time"

	"weather-panel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	weatherCalls  int
	forecastCalls int
}

func (c *countingProvider) Name() string { return "Counting" }

func (c *countingProvider) GetWeather(ctx context.Context, location string, units models.UnitSystem) (models.CurrentConditions, error) {
	c.weatherCalls++
	return models.CurrentConditions{City: location}, nil
}

func (c *countingProvider) FetchForecast(ctx context.Context, location string, units models.UnitSystem, days int) ([]models.ForecastEntry, error) {
	c.forecastCalls++
	return make([]models.ForecastEntry, days), nil
}

func TestRateLimitedProvider_Forwards(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, 100, 2)
	assert.Equal(t, "Counting [Rate Limited]", p.Name())

	cur, err := p.GetWeather(context.Background(), "Rochester", models.Imperial)
	require.NoError(t, err)
	assert.Equal(t, "Rochester", cur.City)

	days, err := p.FetchForecast(context.Background(), "Rochester", models.Imperial, 7)
	require.NoError(t, err)
	assert.Len(t, days, 7)
	assert.Equal(t, 1, inner.weatherCalls)
	assert.Equal(t, 1, inner.forecastCalls)
}

func TestRateLimitedProvider_CanceledWait(t *testing.T) {
	inner := &countingProvider{}
	// one token per hour; the first call drains the burst
	p := NewRateLimitedProvider(inner, 1.0/3600, 1)
	_, err := p.GetWeather(context.Background(), "Rochester", models.Imperial)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.FetchForecast(ctx, "Rochester", models.Imperial, 7)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Zero(t, inner.forecastCalls)
}
