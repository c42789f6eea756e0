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

// Hireloop — Resume Ingestion Service
//
// Entry point for the resume ingestion service. It:
//  1. Loads configuration from config.yaml and the environment
//  2. Connects to PostgreSQL and Redis
//  3. Wires the scan orchestrator over an IMAP mailbox session
//  4. Starts the periodic scan schedule
//  5. Serves the scan control API
//  6. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hireloop/ingestion/internal/candidates"
	"github.com/hireloop/ingestion/internal/config"
	"github.com/hireloop/ingestion/internal/httpapi"
	"github.com/hireloop/ingestion/internal/ingestlog"
	"github.com/hireloop/ingestion/internal/mailbox"
	"github.com/hireloop/ingestion/internal/notify"
	"github.com/hireloop/ingestion/internal/objectstore"
	"github.com/hireloop/ingestion/internal/scanner"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting hireloop resume ingestion service")

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"mailbox", cfg.Mailbox.Addr(),
		"folder", cfg.Mailbox.Folder,
		"scan_interval", cfg.ScanInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Connect to PostgreSQL ---
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create Postgres pool", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to PostgreSQL")

	// --- Connect to Redis ---
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(opt)

	publisher := notify.NewPublisher(rdb, cfg.CandidateQueue)
	if err := publisher.Ping(ctx); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to Redis")

	// --- Stores ---
	logStore, err := ingestlog.NewStore(ctx, pgPool)
	if err != nil {
		slog.Error("failed to initialise ingestion log store", "error", err)
		os.Exit(1)
	}

	candidateStore, err := candidates.NewStore(ctx, pgPool)
	if err != nil {
		slog.Error("failed to initialise candidate store", "error", err)
		os.Exit(1)
	}

	fileStore, err := objectstore.NewFileStore(cfg.StorageDir)
	if err != nil {
		slog.Error("failed to initialise resume archive", "error", err)
		os.Exit(1)
	}

	// --- Scan Orchestrator ---
	scan := scanner.New(scanner.Config{
		Dialer:     mailbox.NewIMAPDialer(cfg.Mailbox),
		Mailbox:    cfg.Mailbox,
		Logs:       logStore,
		Candidates: candidateStore,
		Objects:    fileStore,
		Notifier:   publisher,
	})

	// --- Control API ---
	handler := httpapi.NewHandler(scan, logStore, cfg.ScanInterval, map[string]httpapi.Pinger{
		"postgres": pgPinger{pool: pgPool},
		"redis":    publisher,
	})
	ready, err := httpapi.Serve(ctx, cfg.Port, handler)
	if err != nil {
		slog.Error("failed to start control API", "error", err)
		os.Exit(1)
	}
	<-ready

	// --- Periodic schedule ---
	if cfg.Mailbox.HasCredentials() {
		scan.StartSchedule(ctx, cfg.ScanInterval)
	} else {
		slog.Warn("mailbox credentials not configured — periodic scanning disabled, scans must be triggered via the API once configured")
	}

	// --- Wait for shutdown ---
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutdown signal received")
	scan.StopSchedule()
	cancel()
	slog.Info("shutdown complete")
}

// pgPinger adapts a pgx pool to the health check interface.
type pgPinger struct {
	pool *pgxpool.Pool
}

func (p pgPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
