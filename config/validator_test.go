// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{Environment: "development"}
	setDefaults(cfg)
	return cfg
}

func TestValidateConfigurationAcceptsDefaults(t *testing.T) {
	errs := ValidateConfiguration(validConfig())
	for _, e := range errs {
		if e.Level == "error" {
			t.Errorf("unexpected error-level finding on default config: %s: %s", e.Field, e.Message)
		}
	}
}

func TestValidateEnvironmentRejectsUnknown(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "sandbox"

	errs := ValidateConfiguration(cfg)
	if !hasError(errs, "Environment") {
		t.Error("expected an error-level finding for Field=Environment")
	}
}

func TestValidateLoggingRejectsBadLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	errs := ValidateConfiguration(cfg)
	if !hasError(errs, "Logging.Level") {
		t.Error("expected an error-level finding for Field=Logging.Level")
	}
}

func TestValidateMetricsSkippedWhenDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Port = -1

	errs := ValidateConfiguration(cfg)
	if hasError(errs, "Metrics.Port") {
		t.Error("Metrics.Port should not be validated when metrics are disabled")
	}
}

func TestValidateMetricsRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 99999

	errs := ValidateConfiguration(cfg)
	if !hasError(errs, "Metrics.Port") {
		t.Error("expected an error-level finding for Field=Metrics.Port")
	}
}

func TestValidateSignerRejectsZeroExpiry(t *testing.T) {
	cfg := validConfig()
	cfg.Signer.Expires = 0

	errs := ValidateConfiguration(cfg)
	if !hasError(errs, "Signer.Expires") {
		t.Error("expected an error-level finding for Field=Signer.Expires")
	}
}

func TestValidateSignerAcceptsCounterNonceSource(t *testing.T) {
	cfg := validConfig()
	cfg.Signer.NonceSource = "counter"

	errs := ValidateConfiguration(cfg)
	if hasError(errs, "Signer.NonceSource") {
		t.Error("counter should be a valid nonce source")
	}
}

func TestValidateFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	cfg := validConfig()
	cfg.Signer.Expires = time.Minute
	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	errs, err := ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile() error = %v", err)
	}
	if hasError(errs, "Signer.Expires") {
		t.Error("unexpected error on a freshly saved valid config")
	}
}

func hasError(errs []ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field && e.Level == "error" {
			return true
		}
	}
	return false
}
