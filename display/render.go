package display

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"weather-panel/models"
	"weather-panel/reconcile"
)

type surface struct {
	panel      *Panel
	theme      Theme
	layout     *Layout
	generation int

	mu     sync.Mutex
	closed bool
}

// Render draws vm and publishes the frame to the panel
func (s *surface) Render(ctx context.Context, vm reconcile.ViewModel) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed || !s.panel.current(s.generation) {
		return ErrSurfaceClosed
	}

	dc, err := s.draw(ctx, vm)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return s.panel.publish(s.generation, buf.Bytes(), vm)
}

// Close releases the surface; later renders fail with ErrSurfaceClosed
func (s *surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *surface) draw(ctx context.Context, vm reconcile.ViewModel) (*gg.Context, error) {
	l, th := s.layout, s.theme

	dc := gg.NewContext(Width, Height)
	dc.SetHexColor(th.Background)
	dc.Clear()

	if err := s.drawIcon(ctx, dc, vm.IconURL); err != nil {
		slog.Warn("icon unavailable", "url", vm.IconURL, "error", err)
	}

	// selector box
	dc.SetHexColor(th.Accent)
	dc.DrawRectangle(l.Selector.X, l.Selector.Y, l.Selector.W, l.Selector.H)
	dc.Fill()

	texts := []struct {
		pos   Text
		value string
		color string
	}{
		{l.City, vm.City, th.Text},
		{l.SelectorTxt, vm.SelectedLabel(), th.Text},
		{l.Description, vm.Description, th.Muted},
		{l.Temp, vm.Temp, vm.TempBand.Color()},
		{l.FeelsLike, vm.FeelsLike, th.Text},
		{l.High, vm.High, vm.HighBand.Color()},
		{l.HighLabel, "High", th.Text},
		{l.Low, vm.Low, vm.LowBand.Color()},
		{l.LowLabel, "Low", th.Text},
		{l.WindLabel, "Wind", th.Text},
		{l.Wind, vm.Wind, th.Text},
		{l.HumidityLabel, "Humidity", th.Text},
		{l.Humidity, vm.Humidity, th.Text},
		{l.Date, vm.Date, th.Text},
	}
	for _, t := range texts {
		if err := drawText(dc, t.pos, t.value, t.color); err != nil {
			return nil, err
		}
	}

	dc.SetHexColor(th.Separator)
	dc.DrawRectangle(l.Separator.X, l.Separator.Y, l.Separator.W, l.Separator.H)
	dc.Fill()

	if err := drawUnitToggle(dc, l.Units, vm.Units == models.Metric, th); err != nil {
		return nil, err
	}
	return dc, nil
}

func (s *surface) drawIcon(ctx context.Context, dc *gg.Context, url string) error {
	if s.panel.icons == nil || url == "" {
		return nil
	}
	src, err := s.panel.icons.Icon(ctx, url)
	if err != nil {
		return err
	}
	box := s.layout.Icon
	dst := image.NewRGBA(image.Rect(0, 0, int(box.W), int(box.H)))
	draw.BiLinear.Scale(dst, dst.Rect, src, src.Bounds(), draw.Over, nil)
	dc.DrawImage(dst, int(box.X), int(box.Y))
	return nil
}

func drawText(dc *gg.Context, pos Text, value, color string) error {
	face, err := fonts.face(pos.Size, pos.Bold)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetHexColor(color)

	w, h := dc.MeasureString(value)
	x := pos.X
	if pos.Centered {
		x -= w / 2
	}
	dc.DrawString(value, x, pos.Y+h)
	return nil
}

func drawUnitToggle(dc *gg.Context, box Box, checked bool, th Theme) error {
	dc.SetHexColor(th.Text)
	dc.SetLineWidth(1)
	dc.DrawRectangle(box.X, box.Y, box.W, box.H)
	dc.Stroke()
	if checked {
		dc.DrawLine(box.X+3, box.Y+box.H/2, box.X+box.W/2, box.Y+box.H-3)
		dc.DrawLine(box.X+box.W/2, box.Y+box.H-3, box.X+box.W-2, box.Y+2)
		dc.Stroke()
	}
	return drawText(dc, Text{X: box.X + box.W + 6, Y: box.Y - 1, Size: 12}, "C°", th.Text)
}
