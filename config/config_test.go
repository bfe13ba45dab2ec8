// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
environment: staging
logging:
  level: debug
  format: console
metrics:
  enabled: true
  port: 9100
keyring:
  path: keys.yaml
signer:
  tag: web-bot-auth
  nonce_source: random
  expires: 2m
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "staging")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Metrics.Port != 9100 {
		t.Errorf("Metrics.Port = %d, want %d", cfg.Metrics.Port, 9100)
	}
	if cfg.KeyRing.Path != "keys.yaml" {
		t.Errorf("KeyRing.Path = %q, want %q", cfg.KeyRing.Path, "keys.yaml")
	}
	if cfg.Signer.Expires != 2*time.Minute {
		t.Errorf("Signer.Expires = %v, want %v", cfg.Signer.Expires, 2*time.Minute)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/metrics")
	}
	if cfg.Signer.Tag != "web-bot-auth" {
		t.Errorf("Signer.Tag = %q, want %q", cfg.Signer.Tag, "web-bot-auth")
	}
	if cfg.Signer.Expires != 5*time.Minute {
		t.Errorf("Signer.Expires = %v, want %v", cfg.Signer.Expires, 5*time.Minute)
	}
}

func TestSetDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{Signer: SignerConfig{Expires: 90 * time.Second}}
	setDefaults(cfg)

	if cfg.Signer.Expires != 90*time.Second {
		t.Errorf("Signer.Expires = %v, want %v (should not be overwritten)", cfg.Signer.Expires, 90*time.Second)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(dir, name)
		cfg := &Config{
			Environment: "test",
			Signer:      SignerConfig{KeyID: "abc123", Tag: "web-bot-auth", NonceSource: "random", Expires: time.Minute},
		}

		if err := SaveToFile(cfg, path); err != nil {
			t.Fatalf("SaveToFile(%s) error = %v", name, err)
		}

		loaded, err := LoadFromFile(path)
		if err != nil {
			t.Fatalf("LoadFromFile(%s) error = %v", name, err)
		}

		if loaded.Signer.KeyID != "abc123" {
			t.Errorf("%s: Signer.KeyID = %q, want %q", name, loaded.Signer.KeyID, "abc123")
		}
	}
}
