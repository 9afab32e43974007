package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"weather-panel/display"
	"weather-panel/errorsink"
	"weather-panel/models"
	"weather-panel/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	frame    []byte
	view     *reconcile.ViewModel
	controls display.Controls
	closed   int
}

func (p *fakePanel) Frame() ([]byte, bool) { return p.frame, p.frame != nil }

func (p *fakePanel) View() (reconcile.ViewModel, bool) {
	if p.view == nil {
		return reconcile.ViewModel{}, false
	}
	return *p.view, true
}

func (p *fakePanel) Controls() display.Controls { return p.controls }

func (p *fakePanel) SetUnits(units models.UnitSystem) { p.controls.Units = units }

func (p *fakePanel) SelectDay(label string) error {
	if p.view == nil || !slices.Contains(p.view.Labels, label) {
		return fmt.Errorf("%w: %q", display.ErrUnknownDay, label)
	}
	p.controls.SelectedLabel = label
	return nil
}

func (p *fakePanel) SelectIndex(index int) error {
	if p.view == nil || index < 0 || index >= len(p.view.Labels) {
		return fmt.Errorf("%w: index %d", display.ErrUnknownDay, index)
	}
	p.controls.SelectedLabel = p.view.Labels[index]
	return nil
}

func (p *fakePanel) Close() { p.closed++ }

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func renderedPanel() *fakePanel {
	return &fakePanel{
		frame: []byte("\x89PNG"),
		view: &reconcile.ViewModel{
			Labels: []string{"Thursday, 03/21", "Friday, 03/22", "Saturday, 03/23"},
			City:   "Rochester",
			Temp:   "72°",
		},
	}
}

func TestFrameAndView_BeforeFirstRender(t *testing.T) {
	s := NewServer(&fakePanel{}, "", ":0")

	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/frame.png", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/view", "").Code)
}

func TestFrameAndView(t *testing.T) {
	s := NewServer(renderedPanel(), "", ":0")

	rr := do(t, s, http.MethodGet, "/api/frame.png", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rr.Body.String())

	rr = do(t, s, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var vm reconcile.ViewModel
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vm))
	assert.Equal(t, "Rochester", vm.City)
	assert.Equal(t, "72°", vm.Temp)
}

func TestSetUnits(t *testing.T) {
	p := renderedPanel()
	s := NewServer(p, "", ":0")

	rr := do(t, s, http.MethodPut, "/api/units", `{"units":"metric"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.Metric, p.controls.Units)
	assert.JSONEq(t, `{"units":"metric","selectedLabel":""}`, rr.Body.String())

	rr = do(t, s, http.MethodPut, "/api/units", `{"units":"kelvin"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, models.Metric, p.controls.Units)

	rr = do(t, s, http.MethodPut, "/api/units", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSelection(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		label  string
	}{
		{"by label", `{"label":"Friday, 03/22"}`, http.StatusOK, "Friday, 03/22"},
		{"by index", `{"index":2}`, http.StatusOK, "Saturday, 03/23"},
		{"unknown label", `{"label":"Sunday, 03/24"}`, http.StatusNotFound, ""},
		{"index out of range", `{"index":7}`, http.StatusNotFound, ""},
		{"empty body", `{}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := renderedPanel()
			s := NewServer(p, "", ":0")

			rr := do(t, s, http.MethodPut, "/api/selection", tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.label, p.controls.SelectedLabel)
		})
	}
}

func TestClose(t *testing.T) {
	p := renderedPanel()
	s := NewServer(p, "", ":0")

	assert.Equal(t, http.StatusAccepted, do(t, s, http.MethodPost, "/api/close", "").Code)
	assert.Equal(t, 1, p.closed)
}

func TestMethodNotAllowed(t *testing.T) {
	s := NewServer(renderedPanel(), "", ":0")

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/api/close", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodPost, "/api/units", `{"units":"metric"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/weather", "").Code)
}

func TestHealthCheck_ReportsErrorRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	sink := errorsink.NewFileSink(path)
	at := time.Date(2024, time.March, 21, 15, 4, 0, 0, time.UTC)
	require.NoError(t, sink.Record(at, errors.New("dial tcp: no such host")))
	require.NoError(t, sink.Record(at, errors.New("unexpected end of JSON input")))

	s := NewServer(renderedPanel(), path, ":0")
	rr := do(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["errorRecords"])
	assert.Equal(t, true, body["rendered"])
}
