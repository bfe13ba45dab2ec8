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

package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/httpsig/config"
)

func TestBuildRequestParsesHeaders(t *testing.T) {
	req, err := buildRequest("post", "https://example.com/foo", []string{"Content-Type: application/json"})
	if err != nil {
		t.Fatalf("buildRequest() error = %v", err)
	}
	if req.Method != "POST" {
		t.Errorf("Method = %q, want %q", req.Method, "POST")
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}
}

func TestBuildRequestRejectsMalformedHeader(t *testing.T) {
	if _, err := buildRequest("GET", "https://example.com", []string{"no-colon-here"}); err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}

func TestParseComponentsMixesDerivedAndFields(t *testing.T) {
	components, err := parseComponents([]string{"@method", "@authority", "Content-Type"})
	if err != nil {
		t.Fatalf("parseComponents() error = %v", err)
	}
	if len(components) != 3 {
		t.Fatalf("len(components) = %d, want 3", len(components))
	}
	if components[2].HTTP == nil || components[2].HTTP.Name != "content-type" {
		t.Errorf("expected the field component to be lowercased to %q", "content-type")
	}
}

func TestParseComponentsRejectsUnknownDerived(t *testing.T) {
	if _, err := parseComponents([]string{"@bogus"}); err == nil {
		t.Fatal("expected an error for an unknown derived component")
	}
}

func TestApplySignerConfigDefaultsFillsUnsetFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("tag", "web-bot-auth", "")
	cmd.Flags().Duration("expires", 5*time.Minute, "")

	loadedConfig = &config.Config{Signer: config.SignerConfig{
		KeyID:   "cfg-keyid",
		Tag:     "cfg-tag",
		Expires: 90 * time.Second,
	}}
	defer func() { loadedConfig = nil }()

	keyID, tag, expires := applySignerConfigDefaults(cmd, "", "web-bot-auth", 5*time.Minute)
	if keyID != "cfg-keyid" {
		t.Errorf("keyID = %q, want %q", keyID, "cfg-keyid")
	}
	if tag != "cfg-tag" {
		t.Errorf("tag = %q, want %q", tag, "cfg-tag")
	}
	if expires != 90*time.Second {
		t.Errorf("expires = %v, want %v", expires, 90*time.Second)
	}
}

func TestApplySignerConfigDefaultsRespectsExplicitFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("tag", "web-bot-auth", "")
	_ = cmd.Flags().Set("tag", "explicit-tag")
	cmd.Flags().Duration("expires", 5*time.Minute, "")
	_ = cmd.Flags().Set("expires", "1m")

	loadedConfig = &config.Config{Signer: config.SignerConfig{Tag: "cfg-tag", Expires: 90 * time.Second}}
	defer func() { loadedConfig = nil }()

	_, tag, expires := applySignerConfigDefaults(cmd, "explicit-keyid", "explicit-tag", time.Minute)
	if tag != "explicit-tag" {
		t.Errorf("tag = %q, want %q (flag explicitly set should win)", tag, "explicit-tag")
	}
	if expires != time.Minute {
		t.Errorf("expires = %v, want %v (flag explicitly set should win)", expires, time.Minute)
	}
}

func TestApplyKeyRingConfigDefault(t *testing.T) {
	loadedConfig = &config.Config{KeyRing: config.KeyRingConfig{Path: "/tmp/cfg-keys.yaml"}}
	defer func() { loadedConfig = nil }()

	if got := applyKeyRingConfigDefault(""); got != "/tmp/cfg-keys.yaml" {
		t.Errorf("applyKeyRingConfigDefault(\"\") = %q, want %q", got, "/tmp/cfg-keys.yaml")
	}
	if got := applyKeyRingConfigDefault("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("applyKeyRingConfigDefault(explicit) = %q, want the explicit path unchanged", got)
	}
}
