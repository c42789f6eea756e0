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

package mailbox

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/hireloop/ingestion/internal/config"
	"github.com/hireloop/ingestion/internal/models"
)

// IMAPDialer creates IMAP sessions from mailbox configuration.
type IMAPDialer struct {
	cfg config.MailboxConfig
}

// NewIMAPDialer builds a dialer for the configured mailbox server.
func NewIMAPDialer(cfg config.MailboxConfig) *IMAPDialer {
	return &IMAPDialer{cfg: cfg}
}

// Dial returns a fresh, unconnected session.
func (d *IMAPDialer) Dial() Client {
	return &imapSession{cfg: d.cfg}
}

// imapSession implements Client over a single IMAP connection. Message IDs
// exposed to callers are the folder's UIDs rendered as decimal strings.
type imapSession struct {
	cfg    config.MailboxConfig
	client *imapclient.Client
}

func (s *imapSession) Connect(ctx context.Context) error {
	var (
		c   *imapclient.Client
		err error
	)
	if s.cfg.UseTLS {
		c, err = imapclient.DialTLS(s.cfg.Addr(), nil)
	} else {
		c, err = imapclient.DialStartTLS(s.cfg.Addr(), nil)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.Addr(), err)
	}

	if err := c.Login(s.cfg.Username, s.cfg.Password).Wait(); err != nil {
		_ = c.Close()
		return fmt.Errorf("login as %s: %w", s.cfg.Username, err)
	}

	s.client = c
	return nil
}

// imapFolderLock releases the selected folder via UNSELECT, falling back to
// nothing — Logout closes the session either way.
type imapFolderLock struct {
	client *imapclient.Client
}

func (l *imapFolderLock) Release() error {
	return l.client.Unselect().Wait()
}

func (s *imapSession) AcquireFolderLock(ctx context.Context, name string) (FolderLock, error) {
	if s.client == nil {
		return nil, fmt.Errorf("acquire folder lock: session not connected")
	}
	if _, err := s.client.Select(name, nil).Wait(); err != nil {
		return nil, fmt.Errorf("select folder %s: %w", name, err)
	}
	return &imapFolderLock{client: s.client}, nil
}

func (s *imapSession) SearchAll(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("search: session not connected")
	}

	data, err := s.client.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search all messages: %w", err)
	}

	uids := data.AllUIDs()
	ids := make([]string, len(uids))
	for i, uid := range uids {
		ids[i] = strconv.FormatUint(uint64(uid), 10)
	}
	return ids, nil
}

func (s *imapSession) FetchMetadata(ctx context.Context, id string) (*models.MailboxMessage, error) {
	uid, err := parseUID(id)
	if err != nil {
		return nil, err
	}

	opts := &imap.FetchOptions{
		UID:           true,
		Envelope:      true,
		BodyStructure: &imap.FetchItemBodyStructure{Extended: true},
	}
	msgs, err := s.client.Fetch(imap.UIDSetNum(uid), opts).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for message %s: %w", id, err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("message %s not found", id)
	}

	buf := msgs[0]
	out := &models.MailboxMessage{ID: id}
	if buf.Envelope != nil {
		out.Subject = buf.Envelope.Subject
		out.Date = buf.Envelope.Date
		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			out.From = models.EmailAddress{
				Address: from.Addr(),
				Name:    from.Name,
			}
		}
	}
	if buf.BodyStructure != nil {
		out.Structure = convertStructure(buf.BodyStructure)
	}
	return out, nil
}

func (s *imapSession) DownloadPart(ctx context.Context, id, path string) ([]byte, error) {
	uid, err := parseUID(id)
	if err != nil {
		return nil, err
	}
	part, err := parsePartPath(path)
	if err != nil {
		return nil, err
	}

	section := &imap.FetchItemBodySection{Part: part}
	opts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}
	msgs, err := s.client.Fetch(imap.UIDSetNum(uid), opts).Collect()
	if err != nil {
		return nil, fmt.Errorf("download part %s of message %s: %w", path, id, err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("message %s not found", id)
	}

	data := msgs[0].FindBodySection(section)
	if data == nil {
		return nil, fmt.Errorf("part %s of message %s has no content", path, id)
	}
	return data, nil
}

func (s *imapSession) Logout() error {
	if s.client == nil {
		return nil
	}
	c := s.client
	s.client = nil
	if err := c.Logout().Wait(); err != nil {
		// Best effort: drop the connection regardless.
		_ = c.Close()
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// convertStructure maps a go-imap body structure onto the tagged tree the
// walker consumes.
func convertStructure(bs imap.BodyStructure) *models.BodyNode {
	switch part := bs.(type) {
	case *imap.BodyStructureSinglePart:
		node := &models.BodyNode{
			Type:     part.Type,
			Subtype:  part.Subtype,
			Filename: part.Filename(),
			Size:     int64(part.Size),
		}
		if part.Extended != nil && part.Extended.Disposition != nil {
			node.Disposition = part.Extended.Disposition.Value
		}
		return node
	case *imap.BodyStructureMultiPart:
		node := &models.BodyNode{
			Type:    "multipart",
			Subtype: part.Subtype,
		}
		for _, child := range part.Children {
			node.Children = append(node.Children, convertStructure(child))
		}
		return node
	default:
		return nil
	}
}

func parseUID(id string) (imap.UID, error) {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q: %w", id, err)
	}
	return imap.UID(n), nil
}

func parsePartPath(path string) ([]int, error) {
	segments := strings.Split(path, ".")
	out := make([]int, len(segments))
	for i, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid part path %q", path)
		}
		out[i] = n
	}
	return out, nil
}
