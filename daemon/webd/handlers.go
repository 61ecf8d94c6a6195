package webd

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rotblauer/osgridd/api"
	"github.com/rotblauer/osgridd/osgrid"
	"github.com/rotblauer/osgridd/params"
	"net/http"
	"strconv"
	"time"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt   time.Time               `json:"started_at"`
	Uptime      string                  `json:"uptime"`
	Config      *params.WebDaemonConfig `json:"config"`
	SourceCRS   string                  `json:"source_crs"`
	TargetCRS   string                  `json:"target_crs"`
	WSOpen      bool                    `json:"ws_open"`
	WSConns     int                     `json:"ws_conns"`
	Conversions int64                   `json:"conversions"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	st := webDaemonStatus{
		StartedAt:   s.started,
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Config:      s.Config,
		SourceCRS:   params.SourceCRS,
		TargetCRS:   params.TargetCRS,
		WSOpen:      !s.melodyInstance.IsClosed(),
		WSConns:     s.melodyInstance.Len(),
		Conversions: s.meter.Count(),
	}
	j, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal status", "error", err)
		http.Error(w, "Failed to marshal status", http.StatusInternalServerError)
		return
	}
	_, err = w.Write(j)
	if err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

// statusForError maps conversion errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, osgrid.ErrBadGridRef), errors.Is(err, osgrid.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrDecodeBatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *WebDaemon) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *WebDaemon) writeError(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	w.WriteHeader(code)
	s.writeJSON(w, map[string]string{"error": err.Error()})
}

// queryString reads a required query parameter.
// A missing value writes a 400 and returns false.
func (s *WebDaemon) queryString(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing query parameter %q", name))
		return "", false
	}
	return raw, true
}

// queryFloat reads a required float query parameter.
// A missing or malformed value writes a 400 and returns false. NaN and the
// infinities parse; the bounds checks downstream reject them.
func (s *WebDaemon) queryFloat(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	raw, ok := s.queryString(w, r, name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("malformed query parameter %q: %v", name, raw))
		return 0, false
	}
	return v, true
}

// queryDecimals reads the optional decimals parameter, defaulting when
// absent. Rounding below zero or beyond 12 places is rejected.
func (s *WebDaemon) queryDecimals(w http.ResponseWriter, r *http.Request, defaultDecimals int) (int, bool) {
	raw := r.URL.Query().Get("decimals")
	if raw == "" {
		return defaultDecimals, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 12 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("malformed query parameter %q: %v", "decimals", raw))
		return 0, false
	}
	return v, true
}
