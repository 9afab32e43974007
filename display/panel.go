// Package display renders view models onto a 480x320 panel image and holds
// the operator's controls.
//
// A Panel outlives the surfaces opened on it: the driver opens a new Surface
// for every mode change, each with its own theme and a freshly built layout,
// while the unit toggle, the chosen day and the close signal stay on the
// Panel.
package display

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"weather-panel/cache"
	"weather-panel/models"
	"weather-panel/reconcile"
)

var (
	// ErrSurfaceClosed is returned when rendering to a closed or replaced surface
	ErrSurfaceClosed = errors.New("surface closed")
	// ErrUnknownDay is returned when selecting a day the panel does not list
	ErrUnknownDay = errors.New("unknown day")
)

// Controls are the operator inputs the driver reads each cycle
type Controls struct {
	Units         models.UnitSystem `json:"units"`
	SelectedLabel string            `json:"selectedLabel"`
}

// Surface is one instantiation of the panel in a fixed theme and layout
type Surface interface {
	Render(ctx context.Context, vm reconcile.ViewModel) error
	Close() error
}

// Panel is the long-lived presenter boundary
type Panel struct {
	icons     cache.IconSource
	framePath string

	mu         sync.Mutex
	controls   Controls
	mode       models.DayPeriod
	generation int
	opens      int
	frame      []byte
	view       *reconcile.ViewModel

	closeOnce sync.Once
	closed    chan struct{}
}

// NewPanel creates a panel with the unit toggle at units. icons may be nil to
// render without condition icons. When framePath is set every rendered frame
// is also written there as a PNG.
func NewPanel(units models.UnitSystem, icons cache.IconSource, framePath string) *Panel {
	return &Panel{
		icons:     icons,
		framePath: framePath,
		controls:  Controls{Units: units},
		closed:    make(chan struct{}),
	}
}

// Open instantiates a surface for mode. Any previously opened surface stops
// accepting renders.
func (p *Panel) Open(mode models.DayPeriod) (Surface, error) {
	if err := fonts.load(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.opens++
	p.mode = mode
	return &surface{
		panel:      p,
		theme:      ThemeFor(mode),
		layout:     NewLayout(),
		generation: p.generation,
	}, nil
}

// Opens returns how many surfaces have been opened
func (p *Panel) Opens() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opens
}

// Mode returns the mode of the most recently opened surface
func (p *Panel) Mode() models.DayPeriod {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Controls returns the operator's current inputs
func (p *Panel) Controls() Controls {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controls
}

// SetUnits moves the unit toggle
func (p *Panel) SetUnits(units models.UnitSystem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controls.Units = units
}

// SelectDay chooses one of the labels of the displayed view
func (p *Panel) SelectDay(label string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.view != nil && !slices.Contains(p.view.Labels, label) {
		return fmt.Errorf("%w: %q", ErrUnknownDay, label)
	}
	p.controls.SelectedLabel = label
	return nil
}

// SelectIndex chooses a day by its offset from today in the displayed view
func (p *Panel) SelectIndex(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.view == nil || index < 0 || index >= len(p.view.Labels) {
		return fmt.Errorf("%w: index %d", ErrUnknownDay, index)
	}
	p.controls.SelectedLabel = p.view.Labels[index]
	return nil
}

// Frame returns the latest rendered PNG
func (p *Panel) Frame() ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame, p.frame != nil
}

// View returns the latest rendered view model
func (p *Panel) View() (reconcile.ViewModel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view == nil {
		return reconcile.ViewModel{}, false
	}
	return *p.view, true
}

// Close signals that the operator closed the panel. It is safe to call more than once.
func (p *Panel) Close() {
	p.closeOnce.Do(func() { close(p.closed) })
}

// Closed is closed once the operator closes the panel
func (p *Panel) Closed() <-chan struct{} {
	return p.closed
}

// publish stores a rendered frame if generation is still current. A chosen
// day that the view no longer lists falls back to the displayed one. Failing
// to copy the frame to framePath is logged only.
func (p *Panel) publish(generation int, frame []byte, vm reconcile.ViewModel) error {
	p.mu.Lock()
	if generation != p.generation {
		p.mu.Unlock()
		return ErrSurfaceClosed
	}
	p.frame = frame
	p.view = &vm
	if !slices.Contains(vm.Labels, p.controls.SelectedLabel) {
		p.controls.SelectedLabel = vm.SelectedLabel()
	}
	p.mu.Unlock()

	if p.framePath == "" {
		return nil
	}
	// A lost file copy does not fail the render.
	if err := writeFileAtomic(p.framePath, frame); err != nil {
		slog.Warn("frame file write failed", "path", p.framePath, "error", err)
	}
	return nil
}

func (p *Panel) current(generation int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return generation == p.generation
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write frame file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write frame file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
