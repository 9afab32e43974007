package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"weather-panel/display"
	"weather-panel/errorsink"
	"weather-panel/models"
	"weather-panel/reconcile"
)

// Panel is the part of the display the HTTP surface drives
type Panel interface {
	Frame() ([]byte, bool)
	View() (reconcile.ViewModel, bool)
	Controls() display.Controls
	SetUnits(units models.UnitSystem)
	SelectDay(label string) error
	SelectIndex(index int) error
	Close()
}

// Server represents the API server
type Server struct {
	panel    Panel
	errorLog string
	router   *mux.Router
	server   *http.Server
}

type unitsRequest struct {
	Units string `json:"units"`
}

type selectionRequest struct {
	Label *string `json:"label"`
	Index *int    `json:"index"`
}

// NewServer creates a new API server. errorLog is the path of the error
// record file reported by the health check.
func NewServer(panel Panel, errorLog, addr string) *Server {
	router := mux.NewRouter()

	s := &Server{
		panel:    panel,
		errorLog: errorLog,
		router:   router,
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	router.HandleFunc("/api/frame.png", s.handleFrame).Methods(http.MethodGet)
	router.HandleFunc("/api/view", s.handleView).Methods(http.MethodGet)
	router.HandleFunc("/api/controls", s.handleControls).Methods(http.MethodGet)
	router.HandleFunc("/api/units", s.handleSetUnits).Methods(http.MethodPut)
	router.HandleFunc("/api/selection", s.handleSelect).Methods(http.MethodPut)
	router.HandleFunc("/api/close", s.handleClose).Methods(http.MethodPost)
	router.HandleFunc("/api/health", s.handleHealthCheck).Methods(http.MethodGet)

	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server. It returns nil after Shutdown.
func (s *Server) Start() error {
	slog.Info("starting API server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.panel.Frame()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(frame)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	vm, ok := s.panel.View()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no view rendered yet")
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.panel.Controls())
}

func (s *Server) handleSetUnits(w http.ResponseWriter, r *http.Request) {
	var req unitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	units, err := models.ParseUnitSystem(req.Units)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.panel.SetUnits(units)
	slog.Info("unit toggle set", "units", units)
	writeJSON(w, http.StatusOK, s.panel.Controls())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch {
	case req.Label != nil:
		err = s.panel.SelectDay(*req.Label)
	case req.Index != nil:
		err = s.panel.SelectIndex(*req.Index)
	default:
		writeError(w, http.StatusBadRequest, "label or index required")
		return
	}
	if errors.Is(err, display.ErrUnknownDay) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.panel.Controls())
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.panel.Close()
	w.WriteHeader(http.StatusAccepted)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if s.errorLog != "" {
		n, err := errorsink.Count(s.errorLog)
		if err != nil {
			slog.Warn("error log count failed", "path", s.errorLog, "error", err)
		} else {
			resp["errorRecords"] = n
		}
	}
	_, rendered := s.panel.View()
	resp["rendered"] = rendered

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
