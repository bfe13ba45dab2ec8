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
	"os"
	"testing"
)

func TestSubstituteEnvVars(t *testing.T) {
	os.Setenv("HTTPSIG_TEST_VAR", "override")
	defer os.Unsetenv("HTTPSIG_TEST_VAR")

	tests := []struct {
		input string
		want  string
	}{
		{"${HTTPSIG_TEST_VAR}", "override"},
		{"${HTTPSIG_TEST_VAR:fallback}", "override"},
		{"${HTTPSIG_UNSET_VAR:fallback}", "fallback"},
		{"${HTTPSIG_UNSET_VAR}", ""},
		{"no-vars-here", "no-vars-here"},
	}

	for _, tt := range tests {
		if got := SubstituteEnvVars(tt.input); got != tt.want {
			t.Errorf("SubstituteEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSubstituteEnvVarsInConfig(t *testing.T) {
	os.Setenv("HTTPSIG_KEYID", "thumbprint123")
	defer os.Unsetenv("HTTPSIG_KEYID")

	cfg := &Config{Signer: SignerConfig{KeyID: "${HTTPSIG_KEYID}"}}
	SubstituteEnvVarsInConfig(cfg)

	if cfg.Signer.KeyID != "thumbprint123" {
		t.Errorf("Signer.KeyID = %q, want %q", cfg.Signer.KeyID, "thumbprint123")
	}
}

func TestSubstituteEnvVarsInConfigNil(t *testing.T) {
	SubstituteEnvVarsInConfig(nil) // must not panic
}

func TestGetEnvironment(t *testing.T) {
	os.Unsetenv("HTTPSIG_ENV")
	os.Unsetenv("ENVIRONMENT")

	if got := GetEnvironment(); got != "development" {
		t.Errorf("GetEnvironment() = %q, want %q", got, "development")
	}

	os.Setenv("HTTPSIG_ENV", "Production")
	defer os.Unsetenv("HTTPSIG_ENV")

	if got := GetEnvironment(); got != "production" {
		t.Errorf("GetEnvironment() = %q, want %q", got, "production")
	}
}

func TestIsProductionAndIsDevelopment(t *testing.T) {
	os.Setenv("HTTPSIG_ENV", "production")
	defer os.Unsetenv("HTTPSIG_ENV")

	if !IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}
