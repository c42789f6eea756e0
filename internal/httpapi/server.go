// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpapi exposes the scan control surface over HTTP: trigger a
// scan, start/stop the schedule, inspect status and the recent ingestion
// log, plus a health endpoint. The surface is thin; all behaviour lives in
// the scanner.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hireloop/ingestion/internal/models"
	"github.com/hireloop/ingestion/internal/scanner"
)

// LogReader is the slice of the ingestion log store the API needs.
type LogReader interface {
	RecentEntries(ctx context.Context, limit int) ([]models.IngestionLogEntry, error)
}

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the control surface.
type Handler struct {
	scanner  *scanner.Scanner
	logs     LogReader
	interval time.Duration
	health   map[string]Pinger
}

// NewHandler creates a control surface handler. interval is the schedule
// cadence used when a start request does not carry one.
func NewHandler(s *scanner.Scanner, logs LogReader, interval time.Duration, health map[string]Pinger) *Handler {
	return &Handler{
		scanner:  s,
		logs:     logs,
		interval: interval,
		health:   health,
	}
}

func (h *Handler) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/scan", h.handleScan)
	mux.HandleFunc("POST /api/schedule/start", h.handleStartSchedule)
	mux.HandleFunc("POST /api/schedule/stop", h.handleStopSchedule)
	mux.HandleFunc("GET /api/status", h.handleStatus)
	mux.HandleFunc("GET /api/log", h.handleLog)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return mux
}

type scanRequest struct {
	TriggeredBy string `json:"triggered_by"`
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	// Body is optional
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.TriggeredBy == "" {
		req.TriggeredBy = "api"
	}

	summary, err := h.scanner.Scan(r.Context(), req.TriggeredBy)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, scanner.ErrMissingCredentials) {
			status = http.StatusPreconditionFailed
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type startScheduleRequest struct {
	IntervalMs int64 `json:"interval_ms"`
}

func (h *Handler) handleStartSchedule(w http.ResponseWriter, r *http.Request) {
	var req startScheduleRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	interval := h.interval
	if req.IntervalMs > 0 {
		interval = time.Duration(req.IntervalMs) * time.Millisecond
	}

	// The schedule loop must outlive this request.
	ack := h.scanner.StartSchedule(context.Background(), interval)
	writeJSON(w, http.StatusOK, ack)
}

func (h *Handler) handleStopSchedule(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.scanner.StopSchedule())
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.scanner.Status())
}

func (h *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.logs.RecentEntries(r.Context(), 100)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.health))
	for name, p := range h.health {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks[name] = "ok"
		}
	}
	writeJSON(w, status, map[string]any{"checks": checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

// Serve starts the control API on the given port. It binds the port
// immediately and signals readiness via the returned channel before starting
// to accept connections.
func Serve(ctx context.Context, port int, handler *Handler) (<-chan struct{}, error) {
	server := &http.Server{
		Handler: handler.routes(),
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind control API port %d: %w", port, err)
	}

	ready := make(chan struct{})

	go func() {
		<-ctx.Done()
		slog.Info("control API shutting down")
		server.Close()
	}()

	go func() {
		slog.Info("control API listening", "port", port)
		close(ready)
		if err := server.Serve(ln); err != http.ErrServerClosed {
			slog.Error("control API error", "error", err)
		}
	}()

	return ready, nil
}
