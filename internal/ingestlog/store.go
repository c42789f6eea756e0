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

// Package ingestlog provides a Postgres-backed store for per-attachment
// ingestion outcomes. Entries are keyed by message ID + attachment filename
// and drive the pipeline's skip-if-processed and retry-after-failure
// behaviour as well as the external audit view.
package ingestlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hireloop/ingestion/internal/models"
)

// Store provides CRUD operations for ingestion log entries in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates an ingestion log store backed by the given Postgres pool.
// It ensures the ingestion_log table exists on creation.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure ingestion log schema: %w", err)
	}
	slog.Info("ingestion log store initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ingestion_log (
			id           BIGSERIAL PRIMARY KEY,
			message_id   TEXT NOT NULL,
			filename     TEXT NOT NULL,
			status       TEXT NOT NULL,
			sender       TEXT DEFAULT '',
			subject      TEXT DEFAULT '',
			candidate_id UUID,
			error        TEXT DEFAULT '',
			created_at   TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(message_id, filename)
		);
		CREATE INDEX IF NOT EXISTS idx_ingestion_log_status ON ingestion_log(status);
		CREATE INDEX IF NOT EXISTS idx_ingestion_log_created ON ingestion_log(created_at);
	`)
	return err
}

// FindByKey retrieves the entry for a message + attachment pair, or nil when
// the pair has never reached a terminal outcome.
func (s *Store) FindByKey(ctx context.Context, messageID, filename string) (*models.IngestionLogEntry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, message_id, filename, status, sender, subject, candidate_id, error, created_at
		FROM ingestion_log
		WHERE message_id = $1 AND filename = $2
	`, messageID, filename)

	var e models.IngestionLogEntry
	err := row.Scan(&e.ID, &e.MessageID, &e.Filename, &e.Status, &e.Sender,
		&e.Subject, &e.CandidateID, &e.Error, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ingestion log entry: %w", err)
	}
	return &e, nil
}

// Insert records a terminal outcome. The entry's ID and CreatedAt are
// populated from the database.
func (s *Store) Insert(ctx context.Context, e *models.IngestionLogEntry) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO ingestion_log (message_id, filename, status, sender, subject, candidate_id, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, e.MessageID, e.Filename, e.Status, e.Sender, e.Subject, e.CandidateID, e.Error)

	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert ingestion log entry: %w", err)
	}
	return nil
}

// DeleteByID removes an entry. Only failed entries are deleted, immediately
// before their compound key is retried.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM ingestion_log WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete ingestion log entry %d: %w", id, err)
	}
	return nil
}

// RecentEntries returns the newest entries for the audit view.
func (s *Store) RecentEntries(ctx context.Context, limit int) ([]models.IngestionLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, message_id, filename, status, sender, subject, candidate_id, error, created_at
		FROM ingestion_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion log entries: %w", err)
	}
	defer rows.Close()

	var out []models.IngestionLogEntry
	for rows.Next() {
		var e models.IngestionLogEntry
		if err := rows.Scan(&e.ID, &e.MessageID, &e.Filename, &e.Status, &e.Sender,
			&e.Subject, &e.CandidateID, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ingestion log entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
