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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `
mailbox:
  host: imap.example.com
  port: 143
  username: hr@example.com
  password: ${MAILBOX_PASSWORD}
  folder: Applications
redis:
  url: redis://cache:6379/1
  queues:
    candidates: screening
database:
  url: postgres://db:5432/hireloop
storage:
  dir: /srv/resumes
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearScanEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IMAP_HOST", "IMAP_PORT", "IMAP_USER", "IMAP_PASSWORD", "IMAP_TLS",
		"IMAP_FOLDER", "SCAN_INTERVAL", "DATABASE_URL", "REDIS_URL",
		"CANDIDATES_QUEUE", "STORAGE_DIR", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromYAML(t *testing.T) {
	clearScanEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, testYAML))
	t.Setenv("MAILBOX_PASSWORD", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Mailbox.Host != "imap.example.com" {
		t.Errorf("host = %q", cfg.Mailbox.Host)
	}
	if cfg.Mailbox.Port != 143 {
		t.Errorf("port = %d", cfg.Mailbox.Port)
	}
	if cfg.Mailbox.Username != "hr@example.com" {
		t.Errorf("username = %q", cfg.Mailbox.Username)
	}
	if cfg.Mailbox.Password != "s3cret" {
		t.Errorf("password not expanded from env: %q", cfg.Mailbox.Password)
	}
	if cfg.Mailbox.Folder != "Applications" {
		t.Errorf("folder = %q", cfg.Mailbox.Folder)
	}
	if !cfg.Mailbox.HasCredentials() {
		t.Error("credentials expected")
	}
	if cfg.RedisURL != "redis://cache:6379/1" {
		t.Errorf("redis url = %q", cfg.RedisURL)
	}
	if cfg.CandidateQueue != "screening" {
		t.Errorf("candidate queue = %q", cfg.CandidateQueue)
	}
	if cfg.DatabaseURL != "postgres://db:5432/hireloop" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.StorageDir != "/srv/resumes" {
		t.Errorf("storage dir = %q", cfg.StorageDir)
	}
	if cfg.ScanInterval != 5*time.Minute {
		t.Errorf("scan interval = %v, want default 5m", cfg.ScanInterval)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Port)
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	clearScanEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("IMAP_HOST", "mail.example.org")
	t.Setenv("IMAP_USER", "scanner")
	t.Setenv("IMAP_PASSWORD", "hunter2")
	t.Setenv("IMAP_TLS", "false")
	t.Setenv("SCAN_INTERVAL", "30s")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Mailbox.Host != "mail.example.org" {
		t.Errorf("host = %q", cfg.Mailbox.Host)
	}
	if cfg.Mailbox.Port != 993 {
		t.Errorf("port = %d, want default 993", cfg.Mailbox.Port)
	}
	if cfg.Mailbox.UseTLS {
		t.Error("tls must be off when IMAP_TLS=false")
	}
	if cfg.Mailbox.Folder != "INBOX" {
		t.Errorf("folder = %q, want default INBOX", cfg.Mailbox.Folder)
	}
	if cfg.ScanInterval != 30*time.Second {
		t.Errorf("scan interval = %v", cfg.ScanInterval)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d", cfg.Port)
	}
}

func TestLoad_YAMLDisablesTLS(t *testing.T) {
	clearScanEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, `
mailbox:
  host: imap.example.com
  use_tls: false
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Mailbox.UseTLS {
		t.Error("use_tls: false in YAML must win over the env default")
	}
}

func TestLoad_TLSDefaultsOn(t *testing.T) {
	clearScanEnv(t)
	t.Setenv("CONFIG_PATH", writeConfig(t, `
mailbox:
  host: imap.example.com
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Mailbox.UseTLS {
		t.Error("tls must default on when neither YAML nor env sets it")
	}
}

func TestLoad_RejectsNonPositiveScanInterval(t *testing.T) {
	clearScanEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("IMAP_HOST", "mail.example.org")
	t.Setenv("SCAN_INTERVAL", "0s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for SCAN_INTERVAL=0s")
	}
}

func TestLoad_MissingHost(t *testing.T) {
	clearScanEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error when no mailbox host is configured")
	}
}

func TestMailboxConfig_Addr(t *testing.T) {
	m := MailboxConfig{Host: "imap.example.com", Port: 993}
	if got := m.Addr(); got != "imap.example.com:993" {
		t.Errorf("Addr() = %q", got)
	}
}
