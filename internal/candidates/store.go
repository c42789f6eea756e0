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

// Package candidates provides a Postgres-backed store for applicant records.
// Email is globally unique: the pipeline checks first, and the database
// constraint is the backstop against a second record for the same address.
package candidates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hireloop/ingestion/internal/models"
)

// Store provides CRUD operations for candidate records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a candidate store backed by the given Postgres pool.
// It ensures the candidates table exists on creation.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure candidates schema: %w", err)
	}
	slog.Info("candidate store initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS candidates (
			id               UUID PRIMARY KEY,
			name             TEXT DEFAULT '',
			email            TEXT NOT NULL UNIQUE,
			phone            TEXT DEFAULT '',
			domain           TEXT DEFAULT '',
			experience_level TEXT DEFAULT '',
			notice_period    TEXT DEFAULT '',
			resume_text      TEXT DEFAULT '',
			resume_ref       TEXT DEFAULT '',
			source           TEXT DEFAULT 'email-scan',
			created_at       TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_candidates_domain ON candidates(domain);
		CREATE INDEX IF NOT EXISTS idx_candidates_created ON candidates(created_at);
	`)
	return err
}

// FindByEmail retrieves a candidate by email, or nil when none exists.
// Lookup is case-insensitive; addresses are stored lower-cased.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, domain, experience_level, notice_period,
		       resume_text, resume_ref, source, created_at
		FROM candidates
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))

	var c models.Candidate
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Domain, &c.ExperienceLevel,
		&c.NoticePeriod, &c.ResumeText, &c.ResumeRef, &c.Source, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find candidate by email: %w", err)
	}
	return &c, nil
}

// Create inserts a new candidate. The caller-supplied record gets a fresh ID
// and the database CreatedAt.
func (s *Store) Create(ctx context.Context, c *models.Candidate) error {
	c.ID = uuid.New()
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Source == "" {
		c.Source = "email-scan"
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO candidates
			(id, name, email, phone, domain, experience_level, notice_period, resume_text, resume_ref, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`, c.ID, c.Name, c.Email, c.Phone, c.Domain, c.ExperienceLevel,
		c.NoticePeriod, c.ResumeText, c.ResumeRef, c.Source)

	if err := row.Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}

	slog.Info("candidate created", "candidate_id", c.ID, "email", c.Email, "domain", c.Domain)
	return nil
}
