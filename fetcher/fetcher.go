// Package fetcher runs the two outbound reads of a refresh cycle.
package fetcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"weather-panel/datasource"
	"weather-panel/errorsink"
	"weather-panel/models"
)

// Fetcher issues the forecast and current-conditions reads for one location
type Fetcher struct {
	provider datasource.Provider
	sink     errorsink.Sink
	location string
	timeout  time.Duration
	now      func() time.Time
}

// New creates a fetcher. timeout bounds both reads of one cycle; zero disables it.
func New(provider datasource.Provider, sink errorsink.Sink, location string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		provider: provider,
		sink:     sink,
		location: location,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Fetch performs both reads concurrently and waits for both to resolve. Each
// failing read is written to the error sink; if either fails the cycle's
// result is absent and ok is false.
func (f *Fetcher) Fetch(ctx context.Context, units models.UnitSystem) (snap models.Snapshot, ok bool) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var (
		wg          sync.WaitGroup
		forecast    []models.ForecastEntry
		current     models.CurrentConditions
		forecastErr error
		currentErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		forecast, forecastErr = f.provider.FetchForecast(ctx, f.location, units, models.DayCount)
	}()
	go func() {
		defer wg.Done()
		current, currentErr = f.provider.GetWeather(ctx, f.location, units)
	}()
	wg.Wait()

	ok = true
	if forecastErr != nil {
		f.record("forecast", forecastErr)
		ok = false
	}
	if currentErr != nil {
		f.record("current", currentErr)
		ok = false
	}
	if !ok {
		return models.Snapshot{}, false
	}

	return models.Snapshot{
		Provider: f.provider.Name(),
		Units:    units,
		Forecast: forecast,
		Current:  current,
		Fetched:  f.now(),
	}, true
}

func (f *Fetcher) record(read string, err error) {
	slog.Warn("fetch failed", "read", read, "provider", f.provider.Name(), "location", f.location, "error", err)
	if sinkErr := f.sink.Record(f.now(), err); sinkErr != nil {
		slog.Error("error log write failed", "error", sinkErr)
	}
}
