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

// Package models defines the data structures shared across the resume
// ingestion service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailAddress represents a sender with an address and optional display name.
type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// BodyNode is one node of a message's MIME structure tree. A node is either
// an internal multipart node (Children non-empty) or a leaf part carrying
// type/subtype, disposition and an optional filename.
type BodyNode struct {
	Type        string      `json:"type"`
	Subtype     string      `json:"subtype"`
	Disposition string      `json:"disposition,omitempty"`
	Filename    string      `json:"filename,omitempty"`
	Size        int64       `json:"size,omitempty"`
	Children    []*BodyNode `json:"children,omitempty"`
}

// IsMultipart reports whether the node is an internal (multipart) node.
func (n *BodyNode) IsMultipart() bool {
	return len(n.Children) > 0
}

// MailboxMessage is the metadata of one message as fetched from the mailbox.
// Read-only; fetched fresh on every scan pass.
type MailboxMessage struct {
	ID        string        `json:"id"`
	From      EmailAddress  `json:"from"`
	Subject   string        `json:"subject"`
	Date      time.Time     `json:"date,omitempty"`
	Structure *BodyNode     `json:"structure,omitempty"`
}

// AttachmentDescriptor locates one attachment within a message's structure
// tree. Path is the dot-joined 1-based part path, e.g. "2.1".
type AttachmentDescriptor struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
}

// ClassificationResult is the outcome of scoring an email's content.
type ClassificationResult struct {
	IsJobApplication bool     `json:"is_job_application"`
	Confidence       int      `json:"confidence"`
	MatchedKeywords  []string `json:"matched_keywords"`
}

// ParsedResume holds the structured fields extracted from resume text.
type ParsedResume struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Domain          string `json:"domain"`
	ExperienceLevel string `json:"experience_level"`
	NoticePeriod    string `json:"notice_period"`
	Text            string `json:"text"`
}

// Ingestion log entry statuses. A failed entry is the only one that may be
// superseded: it is deleted before the same compound key is retried.
const (
	LogStatusProcessed = "processed"
	LogStatusFailed    = "failed"
	LogStatusDuplicate = "duplicate"
)

// IngestionLogEntry records the terminal outcome of one attachment attempt,
// keyed by message ID + attachment filename.
type IngestionLogEntry struct {
	ID          int64      `json:"id"`
	MessageID   string     `json:"message_id"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"`
	Sender      string     `json:"sender"`
	Subject     string     `json:"subject"`
	CandidateID *uuid.UUID `json:"candidate_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LogKey builds the compound idempotency key for a message + attachment pair.
func LogKey(messageID, filename string) string {
	return messageID + "-" + filename
}

// Key returns the entry's compound idempotency key.
func (e *IngestionLogEntry) Key() string {
	return LogKey(e.MessageID, e.Filename)
}

// Candidate is a persisted applicant record. Email is the sole global dedup
// key: the pipeline never creates a second record for an existing email.
type Candidate struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Domain          string    `json:"domain,omitempty"`
	ExperienceLevel string    `json:"experience_level,omitempty"`
	NoticePeriod    string    `json:"notice_period,omitempty"`
	ResumeText      string    `json:"resume_text,omitempty"`
	ResumeRef       string    `json:"resume_ref,omitempty"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"created_at"`
}

// Per-message scan outcomes reported in a scan summary.
const (
	ScanStatusProcessed = "processed"
	ScanStatusSkipped   = "skipped"
	ScanStatusFailed    = "failed"
	ScanStatusDuplicate = "duplicate"
)

// ScanRow is the per-message result row collected during a scan pass.
type ScanRow struct {
	MessageID   string     `json:"message_id"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	Filename    string     `json:"filename,omitempty"`
	CandidateID *uuid.UUID `json:"candidate_id,omitempty"`
}

// ScanSummary is the response of one scan invocation.
type ScanSummary struct {
	Message string    `json:"message"`
	Results []ScanRow `json:"results"`
}
