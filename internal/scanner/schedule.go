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

package scanner

import (
	"context"
	"log/slog"
	"time"
)

// Ack is the response to start/stop schedule requests.
type Ack struct {
	Message string `json:"message"`
}

// StatusSnapshot is an immutable copy of the scanner's state.
type StatusSnapshot struct {
	Running        bool      `json:"running"`
	Scanning       bool      `json:"scanning"`
	LastScanTime   time.Time `json:"last_scan_time"`
	TotalProcessed int       `json:"total_processed"`
	LastError      string    `json:"last_error,omitempty"`
}

// StartSchedule starts the periodic scan loop and fires one immediate pass.
// Idempotent: a second call while running is a no-op acknowledgment. Ticks
// share the single-flight guard with manual scans, so an overlapping tick
// does nothing rather than queueing.
func (s *Scanner) StartSchedule(ctx context.Context, interval time.Duration) Ack {
	// A non-positive interval would panic the ticker.
	if interval <= 0 {
		interval = time.Minute
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Ack{Message: "schedule already running"}
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.stopSchedule = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Immediate first pass
		s.tick(loopCtx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				slog.Info("scan schedule stopping")
				return
			case <-ticker.C:
				s.tick(loopCtx)
			}
		}
	}()

	slog.Info("scan schedule started", "interval", interval)
	return Ack{Message: "schedule started"}
}

// StopSchedule cancels the timer. Idempotent if already stopped. An
// in-flight pass is never cancelled; it runs to completion.
func (s *Scanner) StopSchedule() Ack {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return Ack{Message: "schedule not running"}
	}
	cancel := s.stopSchedule
	s.stopSchedule = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	return Ack{Message: "schedule stopped"}
}

// Status returns a snapshot of the scanner state for the control surface.
func (s *Scanner) Status() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatusSnapshot{
		Running:        s.running,
		Scanning:       s.scanning,
		LastScanTime:   s.lastScanTime,
		TotalProcessed: s.totalProcessed,
		LastError:      s.lastError,
	}
}

// tick runs one scheduled pass; schedule errors are logged, never fatal to
// the loop.
func (s *Scanner) tick(ctx context.Context) {
	if _, err := s.Scan(ctx, "schedule"); err != nil {
		slog.Error("scheduled scan failed", "error", err)
	}
}
