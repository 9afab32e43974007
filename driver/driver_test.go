package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/text/language"

	"weather-panel/datasource"
	"weather-panel/display"
	"weather-panel/errorsink"
	"weather-panel/fetcher"
	"weather-panel/models"
	"weather-panel/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sunrise = time.Date(2024, time.March, 21, 6, 0, 0, 0, time.UTC)
	sunset  = time.Date(2024, time.March, 21, 20, 0, 0, 0, time.UTC)
)

type fakeProvider struct {
	mu    sync.Mutex
	fail  error
	units []models.UnitSystem

	// delay holds each current-conditions read, unless ctx ends first
	delay   time.Duration
	started chan struct{}
}

func (p *fakeProvider) Name() string { return "Fake" }

func (p *fakeProvider) GetWeather(ctx context.Context, location string, units models.UnitSystem) (models.CurrentConditions, error) {
	if p.started != nil {
		select {
		case p.started <- struct{}{}:
		default:
		}
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return models.CurrentConditions{}, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.units = append(p.units, units)
	if p.fail != nil {
		return models.CurrentConditions{}, p.fail
	}
	temp := 72.0
	if units == models.Metric {
		temp = 22
	}
	return models.CurrentConditions{
		Temp: temp, FeelsLike: temp, HumidityPct: 40, WindSpeed: 5,
		Icon: "01d", Description: "clear sky",
		Sunrise: sunrise, Sunset: sunset, City: location,
	}, nil
}

func (p *fakeProvider) FetchForecast(ctx context.Context, location string, units models.UnitSystem, days int) ([]models.ForecastEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return nil, p.fail
	}
	entries := make([]models.ForecastEntry, days)
	for i := range entries {
		entries[i] = models.ForecastEntry{DayTemp: 60, MinTemp: 50, MaxTemp: 70, WindSpeed: 5, Icon: "02d", Description: "few clouds"}
	}
	return entries, nil
}

type fakeSurface struct {
	p      *fakePresenter
	closed bool
}

func (s *fakeSurface) Render(ctx context.Context, vm reconcile.ViewModel) error {
	if s.closed {
		return display.ErrSurfaceClosed
	}
	s.p.events = append(s.p.events, "render")
	s.p.rendered = append(s.p.rendered, vm)
	return nil
}

func (s *fakeSurface) Close() error {
	s.closed = true
	s.p.events = append(s.p.events, "close")
	return nil
}

type fakePresenter struct {
	controls display.Controls
	events   []string
	rendered []reconcile.ViewModel
	done     chan struct{}
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{done: make(chan struct{})}
}

func (p *fakePresenter) Open(mode models.DayPeriod) (display.Surface, error) {
	p.events = append(p.events, "open:"+mode.String())
	return &fakeSurface{p: p}, nil
}

func (p *fakePresenter) Controls() display.Controls { return p.controls }

func (p *fakePresenter) Closed() <-chan struct{} { return p.done }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestDriver(t *testing.T, p *fakeProvider, pr *fakePresenter, minFetch time.Duration, c *clock) (*Driver, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.txt")
	f := fetcher.New(p, errorsink.NewFileSink(path), "Rochester", time.Second)
	d := New(f, reconcile.New(language.English), pr, time.Hour, minFetch)
	d.now = c.now
	return d, path
}

func TestCycle_SwitchesToNightBeforeRendering(t *testing.T) {
	c := &clock{t: time.Date(2024, time.March, 21, 5, 0, 0, 0, time.UTC)}
	pr := newFakePresenter()
	d, _ := newTestDriver(t, &fakeProvider{}, pr, 0, c)

	state := d.Start()
	require.Equal(t, models.Day, state.Mode)

	state = d.Cycle(context.Background(), state)
	assert.Equal(t, models.Night, state.Mode)
	assert.Equal(t, []string{"open:day", "close", "open:night", "render"}, pr.events)

	// Same period on the next cycle keeps the surface.
	c.t = c.t.Add(time.Minute)
	state = d.Cycle(context.Background(), state)
	assert.Equal(t, []string{"open:day", "close", "open:night", "render", "render"}, pr.events)

	c.t = time.Date(2024, time.March, 21, 6, 0, 0, 0, time.UTC)
	state = d.Cycle(context.Background(), state)
	assert.Equal(t, models.Day, state.Mode)
	assert.Equal(t, "open:day", pr.events[len(pr.events)-2])
}

func TestCycle_UnitToggleRoundTrip(t *testing.T) {
	c := &clock{t: time.Date(2024, time.March, 21, 15, 4, 0, 0, time.UTC)}
	p := &fakeProvider{}
	pr := newFakePresenter()
	d, _ := newTestDriver(t, p, pr, 0, c)

	state := d.Start()
	state = d.Cycle(context.Background(), state)
	require.Len(t, pr.rendered, 1)
	assert.Equal(t, "72°", pr.rendered[0].Temp)
	assert.Equal(t, "5 mph", pr.rendered[0].Wind)

	pr.controls.SelectedLabel = state.View.Labels[2]
	pr.controls.Units = models.Metric
	state = d.Cycle(context.Background(), state)

	require.Len(t, pr.rendered, 2)
	vm := pr.rendered[1]
	assert.Equal(t, models.Metric, state.Units)
	assert.Equal(t, models.Metric, vm.Units)
	assert.Equal(t, "5 kmh", vm.Wind)
	assert.Equal(t, 2, vm.Selected)
	assert.Equal(t, vm.Labels[2], state.SelectedLabel)
	assert.Equal(t, models.Metric, p.units[len(p.units)-1])

	pr.controls.Units = models.Imperial
	state = d.Cycle(context.Background(), state)
	assert.Equal(t, models.Imperial, state.Units)
	assert.Equal(t, "5 mph", pr.rendered[2].Wind)
	assert.Equal(t, 2, pr.rendered[2].Selected)
}

func TestCycle_FailureLeavesStateUnchanged(t *testing.T) {
	c := &clock{t: time.Date(2024, time.March, 21, 15, 4, 0, 0, time.UTC)}
	p := &fakeProvider{}
	pr := newFakePresenter()
	d, path := newTestDriver(t, p, pr, 0, c)

	state := d.Cycle(context.Background(), d.Start())
	require.NotNil(t, state.View)

	p.fail = fmt.Errorf("%w: connection refused", datasource.ErrTransport)
	c.t = c.t.Add(time.Minute)
	next := d.Cycle(context.Background(), state)

	assert.Equal(t, state, next)
	assert.Len(t, pr.rendered, 1)
	n, err := errorsink.Count(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCycle_MinFetchIntervalGatesFetches(t *testing.T) {
	c := &clock{t: time.Date(2024, time.March, 21, 15, 4, 0, 0, time.UTC)}
	p := &fakeProvider{}
	pr := newFakePresenter()
	d, _ := newTestDriver(t, p, pr, time.Minute, c)

	state := d.Cycle(context.Background(), d.Start())
	assert.Len(t, pr.rendered, 1)

	c.t = c.t.Add(5 * time.Second)
	state = d.Cycle(context.Background(), state)
	assert.Len(t, pr.rendered, 1)

	c.t = c.t.Add(time.Minute)
	d.Cycle(context.Background(), state)
	assert.Len(t, pr.rendered, 2)
}

func TestRun_StopsWhenPanelCloses(t *testing.T) {
	c := &clock{t: time.Date(2024, time.March, 21, 15, 4, 0, 0, time.UTC)}
	pr := newFakePresenter()
	d, _ := newTestDriver(t, &fakeProvider{}, pr, 0, c)

	close(pr.done)
	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, []string{"open:day", "render", "close"}, pr.events)
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := &clock{t: time.Date(2024, time.March, 21, 15, 4, 0, 0, time.UTC)}
	pr := newFakePresenter()
	d, _ := newTestDriver(t, &fakeProvider{}, pr, 0, c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "close", pr.events[len(pr.events)-1])
}

func TestRun_ShutdownLetsInFlightFetchFinish(t *testing.T) {
	c := &clock{t: time.Date(2024, time.March, 21, 15, 4, 0, 0, time.UTC)}
	p := &fakeProvider{delay: 200 * time.Millisecond, started: make(chan struct{}, 1)}
	pr := newFakePresenter()
	d, path := newTestDriver(t, p, pr, 0, c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	<-p.started
	cancel()

	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, []string{"open:day", "render", "close"}, pr.events)
	n, err := errorsink.Count(path)
	require.NoError(t, err)
	assert.Zero(t, n)
}
