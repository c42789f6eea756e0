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

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hireloop/ingestion/internal/models"
	"github.com/hireloop/ingestion/internal/scanner"
)

type fakeLogReader struct {
	entries []models.IngestionLogEntry
	err     error
}

func (f *fakeLogReader) RecentEntries(ctx context.Context, limit int) ([]models.IngestionLogEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

// newTestHandler builds a handler around a scanner with no mailbox
// credentials, which is enough for the control endpoints under test.
func newTestHandler(logs LogReader, health map[string]Pinger) *Handler {
	return NewHandler(scanner.New(scanner.Config{}), logs, time.Minute, health)
}

func TestHandleScan_MissingCredentials(t *testing.T) {
	h := newTestHandler(&fakeLogReader{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"triggered_by":"test"}`))
	h.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("status = %d, want 412", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body missing")
	}
}

func TestHandleStatus(t *testing.T) {
	h := newTestHandler(&fakeLogReader{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	h.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var snapshot scanner.StatusSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snapshot.Running || snapshot.Scanning {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
}

func TestHandleLog(t *testing.T) {
	logs := &fakeLogReader{
		entries: []models.IngestionLogEntry{
			{ID: 1, MessageID: "msg-1", Filename: "resume.pdf", Status: models.LogStatusProcessed},
		},
	}
	h := newTestHandler(logs, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/log", nil)
	h.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Entries []models.IngestionLogEntry `json:"entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Entries) != 1 || body.Entries[0].MessageID != "msg-1" {
		t.Errorf("entries = %+v", body.Entries)
	}
}

func TestHandleLog_StoreError(t *testing.T) {
	h := newTestHandler(&fakeLogReader{err: errors.New("connection lost")}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/log", nil)
	h.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		health     map[string]Pinger
		wantStatus int
	}{
		{
			name:       "all healthy",
			health:     map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "one backend down",
			health:     map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{err: errors.New("refused")}},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "no checks configured",
			health:     nil,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeLogReader{}, tt.health)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			h.routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestScheduleEndpoints(t *testing.T) {
	h := newTestHandler(&fakeLogReader{}, nil)

	start := func(body string) scanner.Ack {
		t.Helper()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/schedule/start", strings.NewReader(body))
		h.routes().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("start status = %d", rec.Code)
		}
		var ack scanner.Ack
		if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil {
			t.Fatalf("decode ack: %v", err)
		}
		return ack
	}

	if ack := start(`{"interval_ms": 3600000}`); ack.Message != "schedule started" {
		t.Errorf("start ack = %q", ack.Message)
	}
	if ack := start(``); ack.Message != "schedule already running" {
		t.Errorf("second start ack = %q", ack.Message)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/schedule/stop", nil)
	h.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d", rec.Code)
	}
	var ack scanner.Ack
	if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.Message != "schedule stopped" {
		t.Errorf("stop ack = %q", ack.Message)
	}
}
