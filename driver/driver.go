// Package driver runs the refresh loop: fetch, evaluate the solar mode,
// reconcile, and hand the result to the presenter.
package driver

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"weather-panel/display"
	"weather-panel/models"
	"weather-panel/reconcile"
	"weather-panel/solar"
)

// Fetcher performs both reads of a cycle; ok is false when either read failed
type Fetcher interface {
	Fetch(ctx context.Context, units models.UnitSystem) (snap models.Snapshot, ok bool)
}

// Presenter opens display surfaces and exposes the operator's inputs
type Presenter interface {
	Open(mode models.DayPeriod) (display.Surface, error)
	Controls() display.Controls
	Closed() <-chan struct{}
}

// SessionState is carried from one cycle to the next
type SessionState struct {
	Mode          models.DayPeriod
	Surface       display.Surface
	SelectedLabel string
	Units         models.UnitSystem
	View          *reconcile.ViewModel
}

// Driver ties the fetcher, reconciler and presenter together on a fixed cadence
type Driver struct {
	fetcher    Fetcher
	reconciler *reconcile.Reconciler
	presenter  Presenter
	gate       *rate.Limiter
	wake       time.Duration
	now        func() time.Time
}

// New creates a driver that wakes every wake interval and fetches at most once
// per minFetch. A zero minFetch fetches on every wake.
func New(fetcher Fetcher, reconciler *reconcile.Reconciler, presenter Presenter, wake, minFetch time.Duration) *Driver {
	limit := rate.Inf
	if minFetch > 0 {
		limit = rate.Every(minFetch)
	}
	return &Driver{
		fetcher:    fetcher,
		reconciler: reconciler,
		presenter:  presenter,
		gate:       rate.NewLimiter(limit, 1),
		wake:       wake,
		now:        time.Now,
	}
}

// Run opens the initial day-mode surface and cycles until ctx is cancelled or
// the presenter signals shutdown. Shutdown is only observed while waiting; a
// cycle in progress runs to completion.
func (d *Driver) Run(ctx context.Context) error {
	state := d.Start()
	defer func() {
		if state.Surface != nil {
			if err := state.Surface.Close(); err != nil {
				slog.Error("surface close", "error", err)
			}
		}
	}()

	// Cycles run detached from ctx so a shutdown lets an in-flight fetch
	// finish; the fetcher's request timeout still bounds it.
	cycleCtx := context.WithoutCancel(ctx)

	ticker := time.NewTicker(d.wake)
	defer ticker.Stop()

	for {
		state = d.Cycle(cycleCtx, state)

		select {
		case <-ctx.Done():
			slog.Info("driver stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-d.presenter.Closed():
			slog.Info("driver stopping", "reason", "panel closed")
			return nil
		case <-ticker.C:
		}
	}
}

// Start builds the initial session in day mode
func (d *Driver) Start() SessionState {
	state := SessionState{
		Mode:  models.Day,
		Units: d.presenter.Controls().Units,
	}
	surface, err := d.presenter.Open(models.Day)
	if err != nil {
		slog.Error("surface open failed", "mode", models.Day, "error", err)
		return state
	}
	state.Surface = surface
	return state
}

// Cycle runs one refresh. An absent fetch leaves state untouched.
func (d *Driver) Cycle(ctx context.Context, state SessionState) SessionState {
	now := d.now()
	if !d.gate.AllowN(now, 1) {
		return state
	}

	controls := d.presenter.Controls()
	units := controls.Units

	snap, ok := d.fetcher.Fetch(ctx, units)
	if !ok {
		return state
	}

	if mode := solar.PeriodOf(snap.Current, now); mode != state.Mode || state.Surface == nil {
		state = d.switchMode(state, mode)
	}

	prevLabel := controls.SelectedLabel
	if prevLabel == "" {
		prevLabel = state.SelectedLabel
	}
	res := d.reconciler.Reconcile(reconcile.Input{
		Now:       now,
		Snapshot:  snap,
		PrevLabel: prevLabel,
		PrevUnits: state.Units,
		Prev:      state.View,
	})

	if res.UnitsChanged {
		slog.Info("unit system changed", "from", state.Units, "to", units)
	}
	for _, c := range res.Changes {
		slog.Debug("value changed", "at", c.At, "field", c.Field.String(), "value", c.Value)
	}

	if state.Surface == nil {
		return state
	}
	if err := state.Surface.Render(ctx, res.View); err != nil {
		slog.Error("render failed", "error", err)
		return state
	}

	state.SelectedLabel = res.View.SelectedLabel()
	state.Units = units
	state.View = &res.View
	return state
}

// switchMode discards the current surface and opens one for mode
func (d *Driver) switchMode(state SessionState, mode models.DayPeriod) SessionState {
	if state.Surface != nil {
		if err := state.Surface.Close(); err != nil {
			slog.Error("surface close", "error", err)
		}
		state.Surface = nil
	}

	surface, err := d.presenter.Open(mode)
	if err != nil {
		slog.Error("surface open failed", "mode", mode, "error", err)
		return state
	}
	slog.Info("display mode switched", "from", state.Mode, "to", mode)
	state.Mode = mode
	state.Surface = surface
	return state
}
