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

// Package mailbox defines the abstract mailbox-client capability the scan
// orchestrator consumes, plus an IMAP implementation. A Client session is
// NOT safe for concurrent use: the orchestrator holds one session per scan
// pass and performs every operation on it sequentially.
package mailbox

import (
	"context"

	"github.com/hireloop/ingestion/internal/models"
)

// FolderLock represents exclusive access to a folder for the duration of a
// scan pass.
type FolderLock interface {
	// Release gives up the folder. Safe to call once after a successful
	// acquire; errors are advisory since Logout also tears the session down.
	Release() error
}

// Client is the mailbox session the orchestrator drives. Lifecycle:
// Connect, AcquireFolderLock, any number of SearchAll/FetchMetadata/
// DownloadPart calls, then Logout — always Logout, even after errors.
type Client interface {
	// Connect opens and authenticates the session.
	Connect(ctx context.Context) error

	// AcquireFolderLock selects the folder for exclusive use.
	AcquireFolderLock(ctx context.Context, name string) (FolderLock, error)

	// SearchAll enumerates every message in the locked folder.
	SearchAll(ctx context.Context) ([]string, error)

	// FetchMetadata retrieves a message's envelope and structure tree.
	FetchMetadata(ctx context.Context, id string) (*models.MailboxMessage, error)

	// DownloadPart retrieves the raw bytes of one part, identified by its
	// dot-joined 1-based structural path.
	DownloadPart(ctx context.Context, id, path string) ([]byte, error)

	// Logout closes the session. Idempotent.
	Logout() error
}

// Dialer creates a fresh Client session for each scan pass.
type Dialer interface {
	Dial() Client
}
