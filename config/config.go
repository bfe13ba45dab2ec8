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

// Package config provides configuration management for httpsig.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration tree for httpsig binaries.
type Config struct {
	Environment string        `yaml:"environment" json:"environment"`
	Logging     LoggingConfig `yaml:"logging" json:"logging"`
	Metrics     MetricsConfig `yaml:"metrics" json:"metrics"`
	KeyRing     KeyRingConfig `yaml:"keyring" json:"keyring"`
	Signer      SignerConfig  `yaml:"signer" json:"signer"`
}

// LoggingConfig controls internal/logger's output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // json, console
	Output string `yaml:"output" json:"output"` // stdout, stderr, file path
}

// MetricsConfig controls whether and where internal/metrics.Registry is served.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Port    int    `yaml:"port" json:"port"`
	Path    string `yaml:"path" json:"path"`
}

// KeyRingConfig points at the YAML keyring file loaded by the keyring package.
type KeyRingConfig struct {
	Path string `yaml:"path" json:"path"`
}

// SignerConfig supplies the defaults httpsigctl's sign command falls back to
// when a flag is omitted.
type SignerConfig struct {
	KeyID       string        `yaml:"keyid" json:"keyid"`
	Tag         string        `yaml:"tag" json:"tag"`
	NonceSource string        `yaml:"nonce_source" json:"nonce_source"` // "random" or "counter"
	Expires     time.Duration `yaml:"expires" json:"expires"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	// Try to parse as YAML first
	if err := yaml.Unmarshal(data, cfg); err != nil {
		// Try JSON if YAML fails
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)

	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing JSON or YAML by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaults fills in zero-valued fields with the values httpsigctl assumes
// when a config file leaves them unset.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.KeyRing.Path == "" {
		cfg.KeyRing.Path = ".httpsig/keyring.yaml"
	}

	if cfg.Signer.Tag == "" {
		cfg.Signer.Tag = "web-bot-auth"
	}
	if cfg.Signer.NonceSource == "" {
		cfg.Signer.NonceSource = "random"
	}
	if cfg.Signer.Expires == 0 {
		cfg.Signer.Expires = 5 * time.Minute
	}
}
