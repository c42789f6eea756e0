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

// Package scanner owns the resume scan lifecycle: it opens one mailbox
// session per pass, walks every message, classifies, extracts and persists
// candidates, and records per-attachment outcomes in the ingestion log.
// Passes are serialised by a single-flight guard; an overlapping invocation
// is a no-op, never a queued retry.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hireloop/ingestion/internal/classify"
	"github.com/hireloop/ingestion/internal/config"
	"github.com/hireloop/ingestion/internal/extract"
	"github.com/hireloop/ingestion/internal/mailbox"
	"github.com/hireloop/ingestion/internal/mimewalk"
	"github.com/hireloop/ingestion/internal/models"
	"github.com/hireloop/ingestion/internal/resume"
)

// ErrMissingCredentials is returned when a scan is requested without mailbox
// credentials configured. Checked before any connection attempt.
var ErrMissingCredentials = errors.New("mailbox credentials not configured")

// CandidateStore persists applicant records keyed by unique email.
type CandidateStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Candidate, error)
	Create(ctx context.Context, c *models.Candidate) error
}

// LogStore persists per-attachment ingestion outcomes.
type LogStore interface {
	FindByKey(ctx context.Context, messageID, filename string) (*models.IngestionLogEntry, error)
	Insert(ctx context.Context, e *models.IngestionLogEntry) error
	DeleteByID(ctx context.Context, id int64) error
}

// ObjectStore archives original attachment bytes.
type ObjectStore interface {
	Store(data []byte, filename, contentType string) (string, error)
}

// Notifier announces newly created candidates to downstream workers.
type Notifier interface {
	PublishCandidateCreated(ctx context.Context, c *models.Candidate) error
}

// Scanner coordinates scan passes and the optional periodic schedule.
type Scanner struct {
	dialer     mailbox.Dialer
	mailboxCfg config.MailboxConfig
	logs       LogStore
	candidates CandidateStore
	objects    ObjectStore
	notifier   Notifier // optional

	mu             sync.Mutex
	scanning       bool
	running        bool
	lastScanTime   time.Time
	totalProcessed int
	lastError      string
	stopSchedule   context.CancelFunc
	wg             sync.WaitGroup
}

// Config wires the scanner's collaborators.
type Config struct {
	Dialer     mailbox.Dialer
	Mailbox    config.MailboxConfig
	Logs       LogStore
	Candidates CandidateStore
	Objects    ObjectStore
	Notifier   Notifier
}

// New creates a scanner.
func New(cfg Config) *Scanner {
	return &Scanner{
		dialer:     cfg.Dialer,
		mailboxCfg: cfg.Mailbox,
		logs:       cfg.Logs,
		candidates: cfg.Candidates,
		objects:    cfg.Objects,
		notifier:   cfg.Notifier,
	}
}

// Scan runs one full pass over the mailbox. If a pass is already in
// progress the call returns immediately with an empty result set. Only
// connection-level failures abort a pass and surface as an error; every
// message-level failure becomes a result row and the pass continues.
func (s *Scanner) Scan(ctx context.Context, triggeredBy string) (models.ScanSummary, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return models.ScanSummary{Message: "scan already in progress"}, nil
	}
	s.scanning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.scanning = false
		s.mu.Unlock()
	}()

	if !s.mailboxCfg.HasCredentials() {
		return models.ScanSummary{}, ErrMissingCredentials
	}

	slog.Info("scan pass starting", "triggered_by", triggeredBy, "folder", s.mailboxCfg.Folder)

	summary, err := s.runPass(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		return models.ScanSummary{}, err
	}

	processed := 0
	for _, row := range summary.Results {
		if row.Status == models.ScanStatusProcessed {
			processed++
		}
	}

	s.mu.Lock()
	s.lastScanTime = time.Now().UTC()
	s.lastError = ""
	s.totalProcessed += processed
	s.mu.Unlock()

	slog.Info("scan pass complete",
		"messages", len(summary.Results),
		"processed", processed,
	)
	return summary, nil
}

// runPass holds the session for one whole pass. The session is torn down on
// every path, including connection failures mid-pass.
func (s *Scanner) runPass(ctx context.Context) (models.ScanSummary, error) {
	session := s.dialer.Dial()
	// Teardown is registered before Connect: the session is closed even
	// when authentication fails partway through.
	defer func() {
		if err := session.Logout(); err != nil {
			slog.Warn("mailbox logout failed", "error", err)
		}
	}()
	if err := session.Connect(ctx); err != nil {
		return models.ScanSummary{}, fmt.Errorf("connect mailbox: %w", err)
	}

	lock, err := session.AcquireFolderLock(ctx, s.mailboxCfg.Folder)
	if err != nil {
		return models.ScanSummary{}, fmt.Errorf("lock folder %s: %w", s.mailboxCfg.Folder, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Debug("folder release failed", "error", err)
		}
	}()

	// Deliberate full re-scan: every message is enumerated on every pass
	// and the ingestion log is the sole dedup authority.
	ids, err := session.SearchAll(ctx)
	if err != nil {
		return models.ScanSummary{}, fmt.Errorf("search folder: %w", err)
	}

	summary := models.ScanSummary{
		Message: fmt.Sprintf("scanned %d messages", len(ids)),
		Results: make([]models.ScanRow, 0, len(ids)),
	}
	for _, id := range ids {
		summary.Results = append(summary.Results, s.processMessage(ctx, session, id))
	}
	return summary, nil
}

// processMessage handles one message end to end and always produces a result
// row. Errors here never abort the pass.
func (s *Scanner) processMessage(ctx context.Context, session mailbox.Client, id string) models.ScanRow {
	msg, err := session.FetchMetadata(ctx, id)
	if err != nil {
		slog.Error("fetch metadata failed", "message_id", id, "error", err)
		return models.ScanRow{MessageID: id, Status: models.ScanStatusFailed, Reason: "fetch metadata: " + err.Error()}
	}

	// First resume-like attachment wins; several resumes in one email must
	// not create several candidates.
	attachment, ok := firstResumeAttachment(msg.Structure)
	if !ok {
		return models.ScanRow{MessageID: id, Status: models.ScanStatusSkipped, Reason: "no resume attachment"}
	}

	body := s.fetchBodyText(ctx, session, msg)
	verdict := classify.Classify(msg.Subject, body)
	if !verdict.IsJobApplication {
		slog.Debug("message rejected by classifier",
			"message_id", id,
			"confidence", verdict.Confidence,
		)
		return models.ScanRow{
			MessageID: id,
			Status:    models.ScanStatusSkipped,
			Reason:    fmt.Sprintf("not a job application (confidence %d)", verdict.Confidence),
		}
	}

	return s.processAttachment(ctx, session, msg, attachment)
}

// processAttachment applies the dedup guard, extracts text and fields, and
// persists the candidate plus a terminal ingestion log entry.
func (s *Scanner) processAttachment(ctx context.Context, session mailbox.Client, msg *models.MailboxMessage, att models.AttachmentDescriptor) models.ScanRow {
	prior, err := s.logs.FindByKey(ctx, msg.ID, att.Filename)
	if err != nil {
		slog.Error("ingestion log lookup failed", "message_id", msg.ID, "error", err)
		return models.ScanRow{MessageID: msg.ID, Status: models.ScanStatusFailed, Filename: att.Filename, Reason: "log lookup: " + err.Error()}
	}
	if prior != nil {
		if prior.Status != models.LogStatusFailed {
			return models.ScanRow{MessageID: msg.ID, Status: models.ScanStatusSkipped, Filename: att.Filename, Reason: "already processed"}
		}
		// A failed entry is deleted so the retry runs clean.
		if err := s.logs.DeleteByID(ctx, prior.ID); err != nil {
			slog.Error("failed to clear prior failed entry", "message_id", msg.ID, "error", err)
			return models.ScanRow{MessageID: msg.ID, Status: models.ScanStatusFailed, Filename: att.Filename, Reason: "clear failed entry: " + err.Error()}
		}
	}

	data, err := session.DownloadPart(ctx, msg.ID, att.Path)
	if err != nil {
		return s.recordFailure(ctx, msg, att, "download attachment: "+err.Error())
	}

	resumeRef := ""
	if s.objects != nil {
		ref, err := s.objects.Store(data, att.Filename, att.MediaType)
		if err != nil {
			// Archival is best-effort; parsing proceeds without a reference.
			slog.Warn("resume archival failed", "message_id", msg.ID, "filename", att.Filename, "error", err)
		} else {
			resumeRef = ref
		}
	}

	text, err := extract.Text(data, att.MediaType, att.Filename)
	if err != nil {
		return s.recordFailure(ctx, msg, att, err.Error())
	}

	parsed := resume.ExtractFields(text)

	email := parsed.Email
	if email == "" {
		email = strings.ToLower(strings.TrimSpace(msg.From.Address))
	}
	if email == "" {
		return s.recordFailure(ctx, msg, att, "no email found in resume text or sender address")
	}

	existing, err := s.candidates.FindByEmail(ctx, email)
	if err != nil {
		return s.recordFailure(ctx, msg, att, "candidate lookup: "+err.Error())
	}
	if existing != nil {
		entry := s.newEntry(msg, att, models.LogStatusDuplicate)
		entry.CandidateID = &existing.ID
		s.insertEntry(ctx, entry)
		return models.ScanRow{
			MessageID:   msg.ID,
			Status:      models.ScanStatusDuplicate,
			Filename:    att.Filename,
			CandidateID: &existing.ID,
			Reason:      "candidate already exists",
		}
	}

	name := parsed.Name
	if name == "" {
		name = msg.From.Name
	}
	if name == "" {
		if i := strings.Index(email, "@"); i > 0 {
			name = email[:i]
		}
	}

	candidate := &models.Candidate{
		Name:            name,
		Email:           email,
		Phone:           parsed.Phone,
		Domain:          parsed.Domain,
		ExperienceLevel: parsed.ExperienceLevel,
		NoticePeriod:    parsed.NoticePeriod,
		ResumeText:      parsed.Text,
		ResumeRef:       resumeRef,
		Source:          "email-scan",
	}
	if err := s.candidates.Create(ctx, candidate); err != nil {
		return s.recordFailure(ctx, msg, att, "create candidate: "+err.Error())
	}

	if s.notifier != nil {
		if err := s.notifier.PublishCandidateCreated(ctx, candidate); err != nil {
			slog.Warn("candidate notification failed", "candidate_id", candidate.ID, "error", err)
		}
	}

	entry := s.newEntry(msg, att, models.LogStatusProcessed)
	entry.CandidateID = &candidate.ID
	s.insertEntry(ctx, entry)

	return models.ScanRow{
		MessageID:   msg.ID,
		Status:      models.ScanStatusProcessed,
		Filename:    att.Filename,
		CandidateID: &candidate.ID,
	}
}

// fetchBodyText downloads the first readable text part for classification.
// Failures degrade to an empty body: the subject alone may still classify.
func (s *Scanner) fetchBodyText(ctx context.Context, session mailbox.Client, msg *models.MailboxMessage) string {
	ref, ok := mimewalk.FindFirstTextPart(msg.Structure)
	if !ok {
		return ""
	}
	data, err := session.DownloadPart(ctx, msg.ID, ref.Path)
	if err != nil {
		slog.Debug("body download failed", "message_id", msg.ID, "error", err)
		return ""
	}
	body := string(data)
	if ref.MediaType == "text/html" {
		body = stripHTML(body)
	}
	return body
}

func (s *Scanner) recordFailure(ctx context.Context, msg *models.MailboxMessage, att models.AttachmentDescriptor, reason string) models.ScanRow {
	entry := s.newEntry(msg, att, models.LogStatusFailed)
	entry.Error = reason
	s.insertEntry(ctx, entry)
	slog.Error("attachment processing failed",
		"message_id", msg.ID,
		"filename", att.Filename,
		"error", reason,
	)
	return models.ScanRow{MessageID: msg.ID, Status: models.ScanStatusFailed, Filename: att.Filename, Reason: reason}
}

func (s *Scanner) newEntry(msg *models.MailboxMessage, att models.AttachmentDescriptor, status string) *models.IngestionLogEntry {
	return &models.IngestionLogEntry{
		MessageID: msg.ID,
		Filename:  att.Filename,
		Status:    status,
		Sender:    msg.From.Address,
		Subject:   msg.Subject,
	}
}

func (s *Scanner) insertEntry(ctx context.Context, entry *models.IngestionLogEntry) {
	if err := s.logs.Insert(ctx, entry); err != nil {
		slog.Error("ingestion log insert failed",
			"message_id", entry.MessageID,
			"filename", entry.Filename,
			"error", err,
		)
	}
}

// firstResumeAttachment returns the first attachment passing the resume
// filename gate.
func firstResumeAttachment(root *models.BodyNode) (models.AttachmentDescriptor, bool) {
	for _, att := range mimewalk.ExtractAttachments(root) {
		if mimewalk.IsResumeFile(att.Filename) {
			return att, true
		}
	}
	return models.AttachmentDescriptor{}, false
}

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

func stripHTML(s string) string {
	return htmlTagRe.ReplaceAllString(s, " ")
}
