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

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MailboxConfig holds credentials and connection settings for the scanned
// mailbox. Username and Password are required before a scan may start.
type MailboxConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	UseTLS   bool   `yaml:"use_tls"`
	Folder   string `yaml:"folder"`
}

// Addr returns the host:port dial address for the mailbox server.
func (m MailboxConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// HasCredentials reports whether both username and password are set.
func (m MailboxConfig) HasCredentials() bool {
	return m.Username != "" && m.Password != ""
}

// Config holds all configuration for the resume ingestion service.
type Config struct {
	Mailbox MailboxConfig

	// Scanning
	ScanInterval time.Duration

	// Postgres
	DatabaseURL string

	// Redis
	RedisURL       string
	CandidateQueue string

	// Resume archive
	StorageDir string

	// Control API
	Port int
}

// rawConfig mirrors the YAML structure for unmarshalling. UseTLS is a
// pointer so an absent key is distinguishable from an explicit false.
type rawConfig struct {
	Mailbox struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		UseTLS   *bool  `yaml:"use_tls"`
		Folder   string `yaml:"folder"`
	} `yaml:"mailbox"`
	Redis   struct {
		URL    string `yaml:"url"`
		Queues struct {
			Candidates string `yaml:"candidates"`
		} `yaml:"queues"`
	} `yaml:"redis"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Storage struct {
		Dir string `yaml:"dir"`
	} `yaml:"storage"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings. The YAML file is optional:
// if it is missing, everything comes from the environment.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	var raw rawConfig
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand ${VAR} references in the YAML
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	case os.IsNotExist(err):
		// Env-only configuration
	default:
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// YAML wins when it sets use_tls; otherwise the env var, defaulting on.
	useTLS := envOrDefault("IMAP_TLS", "true") == "true"
	if raw.Mailbox.UseTLS != nil {
		useTLS = *raw.Mailbox.UseTLS
	}

	cfg := &Config{
		Mailbox: MailboxConfig{
			Host:     firstNonEmpty(raw.Mailbox.Host, os.Getenv("IMAP_HOST")),
			Port:     firstNonZero(raw.Mailbox.Port, envOrDefaultInt("IMAP_PORT", 993)),
			Username: firstNonEmpty(raw.Mailbox.Username, os.Getenv("IMAP_USER")),
			Password: firstNonEmpty(raw.Mailbox.Password, os.Getenv("IMAP_PASSWORD")),
			UseTLS:   useTLS,
			Folder:   firstNonEmpty(raw.Mailbox.Folder, envOrDefault("IMAP_FOLDER", "INBOX")),
		},
		ScanInterval:   envOrDefaultDuration("SCAN_INTERVAL", 5*time.Minute),
		DatabaseURL:    firstNonEmpty(raw.Database.URL, envOrDefault("DATABASE_URL", "postgres://localhost:5432/hireloop")),
		RedisURL:       firstNonEmpty(raw.Redis.URL, envOrDefault("REDIS_URL", "redis://localhost:6379/0")),
		CandidateQueue: firstNonEmpty(raw.Redis.Queues.Candidates, envOrDefault("CANDIDATES_QUEUE", "candidates")),
		StorageDir:     firstNonEmpty(raw.Storage.Dir, envOrDefault("STORAGE_DIR", "/var/lib/hireloop/resumes")),
		Port:           envOrDefaultInt("PORT", 8080),
	}

	if cfg.Mailbox.Host == "" {
		return nil, fmt.Errorf("no mailbox host configured — check config.yaml and environment variables")
	}
	if cfg.ScanInterval <= 0 {
		return nil, fmt.Errorf("SCAN_INTERVAL must be positive, got %s", cfg.ScanInterval)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
