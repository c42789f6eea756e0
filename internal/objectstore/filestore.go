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

// Package objectstore archives original resume attachments on the local
// filesystem. Stored names are prefixed with a UUID so identical filenames
// from different applicants never collide.
package objectstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore stores binary objects under a base directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Store writes the bytes and returns a retrievable reference (the stored
// file's path). The filename is sanitised to its base name.
func (fs *FileStore) Store(data []byte, filename, contentType string) (string, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "attachment"
	}

	path := filepath.Join(fs.dir, uuid.New().String()+"_"+base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store object %s: %w", base, err)
	}
	return path, nil
}

// Open returns the stored bytes for a reference.
func (fs *FileStore) Open(ref string) ([]byte, error) {
	// References outside the store directory are refused.
	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve object ref: %w", err)
	}
	dirAbs, err := filepath.Abs(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("resolve store dir: %w", err)
	}
	if !strings.HasPrefix(abs, dirAbs+string(filepath.Separator)) {
		return nil, fmt.Errorf("object ref %s is outside the store", ref)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", ref, err)
	}
	return data, nil
}
