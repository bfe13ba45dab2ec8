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
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(LoaderOptions{
		ConfigDir:   t.TempDir(),
		Environment: "development",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadReadsEnvironmentSpecificFile(t *testing.T) {
	dir := t.TempDir()
	contents := "environment: staging\nlogging:\n  level: warn\n  format: json\n"
	if err := os.WriteFile(filepath.Join(dir, "staging.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "staging"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	os.Setenv("HTTPSIG_LOG_LEVEL", "debug")
	os.Setenv("HTTPSIG_KEYRING_PATH", "/tmp/keys.yaml")
	defer os.Unsetenv("HTTPSIG_LOG_LEVEL")
	defer os.Unsetenv("HTTPSIG_KEYRING_PATH")

	cfg, err := Load(LoaderOptions{ConfigDir: t.TempDir(), Environment: "development"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.KeyRing.Path != "/tmp/keys.yaml" {
		t.Errorf("KeyRing.Path = %q, want %q", cfg.KeyRing.Path, "/tmp/keys.yaml")
	}
}

func TestLoadValidationFailureIsError(t *testing.T) {
	os.Setenv("HTTPSIG_LOG_LEVEL", "not-a-level")
	defer os.Unsetenv("HTTPSIG_LOG_LEVEL")

	if _, err := Load(LoaderOptions{ConfigDir: t.TempDir(), Environment: "development"}); err == nil {
		t.Fatal("expected Load() to fail validation on an invalid log level")
	}
}

func TestDefaultLoaderOptions(t *testing.T) {
	opts := DefaultLoaderOptions()

	if opts.ConfigDir != "config" {
		t.Errorf("ConfigDir = %q, want %q", opts.ConfigDir, "config")
	}
	if opts.SkipEnvSubstitution {
		t.Error("SkipEnvSubstitution should be false by default")
	}
	if opts.SkipValidation {
		t.Error("SkipValidation should be false by default")
	}
}
