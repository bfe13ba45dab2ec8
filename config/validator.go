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
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
	Level   string // "error", "warning", "info"
}

// ValidateConfiguration validates the entire configuration
func ValidateConfiguration(cfg *Config) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateEnvironment(cfg.Environment)...)
	errors = append(errors, validateLoggingConfig(cfg.Logging)...)
	errors = append(errors, validateMetricsConfig(cfg.Metrics)...)
	errors = append(errors, validateKeyRingConfig(cfg.KeyRing)...)
	errors = append(errors, validateSignerConfig(cfg.Signer)...)

	return errors
}

func validateEnvironment(env string) []ValidationError {
	var errors []ValidationError

	validEnvs := []string{"local", "development", "staging", "production"}
	env = strings.ToLower(env)

	valid := false
	for _, v := range validEnvs {
		if env == v {
			valid = true
			break
		}
	}

	if !valid {
		errors = append(errors, ValidationError{
			Field:   "Environment",
			Message: fmt.Sprintf("invalid environment: %s (valid: %v)", env, validEnvs),
			Level:   "error",
		})
	}

	return errors
}

func validateLoggingConfig(cfg LoggingConfig) []ValidationError {
	var errors []ValidationError

	validLevels := []string{"debug", "info", "warn", "error"}
	level := strings.ToLower(cfg.Level)
	valid := false
	for _, v := range validLevels {
		if level == v {
			valid = true
			break
		}
	}
	if !valid {
		errors = append(errors, ValidationError{
			Field:   "Logging.Level",
			Message: fmt.Sprintf("invalid log level: %s (valid: %v)", cfg.Level, validLevels),
			Level:   "error",
		})
	}

	if cfg.Format != "json" && cfg.Format != "console" {
		errors = append(errors, ValidationError{
			Field:   "Logging.Format",
			Message: fmt.Sprintf("invalid log format: %s (valid: json, console)", cfg.Format),
			Level:   "error",
		})
	}

	return errors
}

func validateMetricsConfig(cfg MetricsConfig) []ValidationError {
	var errors []ValidationError

	if !cfg.Enabled {
		return errors
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "Metrics.Port",
			Message: fmt.Sprintf("invalid metrics port: %d", cfg.Port),
			Level:   "error",
		})
	}

	if cfg.Path == "" || !strings.HasPrefix(cfg.Path, "/") {
		errors = append(errors, ValidationError{
			Field:   "Metrics.Path",
			Message: fmt.Sprintf("metrics path must start with /, got %q", cfg.Path),
			Level:   "error",
		})
	}

	return errors
}

func validateKeyRingConfig(cfg KeyRingConfig) []ValidationError {
	var errors []ValidationError

	if cfg.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "KeyRing.Path",
			Message: "keyring path is not set",
			Level:   "error",
		})
		return errors
	}

	if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
		errors = append(errors, ValidationError{
			Field:   "KeyRing.Path",
			Message: fmt.Sprintf("keyring file does not exist: %s", cfg.Path),
			Level:   "warning",
		})
	}

	return errors
}

func validateSignerConfig(cfg SignerConfig) []ValidationError {
	var errors []ValidationError

	if cfg.Tag == "" {
		errors = append(errors, ValidationError{
			Field:   "Signer.Tag",
			Message: "signer tag is not set",
			Level:   "warning",
		})
	}

	if cfg.NonceSource != "random" && cfg.NonceSource != "counter" {
		errors = append(errors, ValidationError{
			Field:   "Signer.NonceSource",
			Message: fmt.Sprintf("invalid nonce source: %s (valid: random, counter)", cfg.NonceSource),
			Level:   "error",
		})
	}

	if cfg.Expires <= 0 {
		errors = append(errors, ValidationError{
			Field:   "Signer.Expires",
			Message: "signer expiry duration must be positive",
			Level:   "error",
		})
	}

	return errors
}

// ValidateFile validates a configuration file
func ValidateFile(path string) ([]ValidationError, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return ValidateConfiguration(cfg), nil
}

// PrintValidationErrors prints validation errors in a formatted way
func PrintValidationErrors(errors []ValidationError) {
	if len(errors) == 0 {
		fmt.Println("configuration is valid")
		return
	}

	var errorCount, warningCount, infoCount int
	for _, e := range errors {
		switch e.Level {
		case "error":
			errorCount++
		case "warning":
			warningCount++
		default:
			infoCount++
		}
		fmt.Printf("[%s] %s: %s\n", strings.ToUpper(e.Level), e.Field, e.Message)
	}

	fmt.Printf("%d error(s), %d warning(s), %d info\n", errorCount, warningCount, infoCount)
}
