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

// Hireloop — Manual Scan Command
//
// Runs a single scan pass against the configured mailbox and prints the
// per-message results. Intended for operators re-driving ingestion after an
// outage; the ingestion log makes repeated runs safe.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hireloop/ingestion/internal/candidates"
	"github.com/hireloop/ingestion/internal/config"
	"github.com/hireloop/ingestion/internal/ingestlog"
	"github.com/hireloop/ingestion/internal/mailbox"
	"github.com/hireloop/ingestion/internal/notify"
	"github.com/hireloop/ingestion/internal/objectstore"
	"github.com/hireloop/ingestion/internal/scanner"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create Postgres pool", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

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

	// Notification is optional for manual runs: without Redis the scan
	// still persists candidates and log entries.
	var notifier scanner.Notifier
	if opt, err := redis.ParseURL(cfg.RedisURL); err == nil {
		publisher := notify.NewPublisher(redis.NewClient(opt), cfg.CandidateQueue)
		if err := publisher.Ping(ctx); err == nil {
			notifier = publisher
		} else {
			slog.Warn("redis unreachable, candidate notifications disabled", "error", err)
		}
	}

	scan := scanner.New(scanner.Config{
		Dialer:     mailbox.NewIMAPDialer(cfg.Mailbox),
		Mailbox:    cfg.Mailbox,
		Logs:       logStore,
		Candidates: candidateStore,
		Objects:    fileStore,
		Notifier:   notifier,
	})

	summary, err := scan.Scan(ctx, "cli")
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(summary.Message)
	for _, row := range summary.Results {
		line := fmt.Sprintf("%-12s %s", row.Status, row.MessageID)
		if row.Filename != "" {
			line += "  " + row.Filename
		}
		if row.Reason != "" {
			line += "  (" + row.Reason + ")"
		}
		fmt.Println(line)
	}
}
