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

package objectstore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_StoreAndOpen(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	data := []byte("%PDF-1.7 fake resume bytes")
	ref, err := store.Store(data, "resume.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasSuffix(ref, "_resume.pdf") {
		t.Errorf("ref = %q, want uuid-prefixed filename", ref)
	}

	got, err := store.Open(ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("roundtrip mismatch: %q", got)
	}
}

func TestFileStore_CollidingFilenames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	first, err := store.Store([]byte("one"), "resume.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	second, err := store.Store([]byte("two"), "resume.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if first == second {
		t.Error("identical filenames must not collide")
	}
}

func TestFileStore_SanitisesFilename(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ref, err := store.Store([]byte("data"), "../../etc/passwd", "text/plain")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if filepath.Dir(ref) != dir {
		t.Errorf("stored outside the base directory: %q", ref)
	}
	if !strings.HasSuffix(ref, "_passwd") {
		t.Errorf("ref = %q", ref)
	}
}

func TestFileStore_OpenRejectsEscapes(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	outside := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(outside, []byte("hidden"), 0o600); err != nil {
		t.Fatalf("write outside file: %v", err)
	}

	if _, err := store.Open(outside); err == nil {
		t.Fatal("expected refusal for reference outside the store")
	}
	if _, err := store.Open(filepath.Join(dir, "store", "..", "secret.txt")); err == nil {
		t.Fatal("expected refusal for traversal reference")
	}
}
