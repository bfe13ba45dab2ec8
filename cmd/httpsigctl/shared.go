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
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/httpsig/core/rfc9421"
)

// buildRequest constructs an *http.Request from CLI flags: method,
// target URL, and "Key: Value" header strings.
func buildRequest(method, rawURL string, headers []string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	req := &http.Request{
		Method: strings.ToUpper(method),
		URL:    u,
		Host:   u.Host,
		Header: http.Header{},
	}

	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header %q, expected Key:Value", h)
		}
		req.Header.Add(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	return req, nil
}

// parseComponents converts a list of bare component names ("@method",
// "@authority", "content-type", ...) into CoveredComponent values. No
// component parameters are supported from the command line; use the
// httpadapter/rfc9421 packages directly for parameterized coverage.
func parseComponents(names []string) ([]rfc9421.CoveredComponent, error) {
	derived := map[string]rfc9421.DerivedKind{
		"@method":         rfc9421.DerivedMethod,
		"@authority":      rfc9421.DerivedAuthority,
		"@target-uri":     rfc9421.DerivedTargetURI,
		"@request-target": rfc9421.DerivedRequestTarget,
		"@path":           rfc9421.DerivedPath,
		"@scheme":         rfc9421.DerivedScheme,
		"@query":          rfc9421.DerivedQuery,
		"@status":         rfc9421.DerivedStatus,
	}

	components := make([]rfc9421.CoveredComponent, 0, len(names))
	for _, name := range names {
		if kind, ok := derived[name]; ok {
			components = append(components, rfc9421.CoveredComponent{Derived: &rfc9421.DerivedComponent{Kind: kind}})
			continue
		}
		if strings.HasPrefix(name, "@") {
			return nil, fmt.Errorf("unknown derived component: %s", name)
		}
		components = append(components, rfc9421.CoveredComponent{HTTP: &rfc9421.HTTPField{Name: strings.ToLower(name)}})
	}
	return components, nil
}

// readKeyHex reads a hex-encoded key (seed or expanded private key) from a file.
func readKeyHex(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("key file does not contain valid hex: %w", err)
	}
	return key, nil
}

// writeFile writes contents to path with owner-only permissions,
// appropriate for private key material.
func writeFile(path, contents string) error {
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// base64URL encodes b as unpadded base64url, the encoding used by
// the keyring package's YAML public_key field.
func base64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// applySignerConfigDefaults fills in keyID/tag/expires from loadedConfig's
// Signer section for any flag left at its zero/default value, letting
// --config seed "sign" without repeating --keyid/--tag/--expires on every
// invocation.
func applySignerConfigDefaults(cmd *cobra.Command, keyID, tag string, expires time.Duration) (string, string, time.Duration) {
	if loadedConfig == nil {
		return keyID, tag, expires
	}
	if keyID == "" {
		keyID = loadedConfig.Signer.KeyID
	}
	if !cmd.Flags().Changed("tag") && loadedConfig.Signer.Tag != "" {
		tag = loadedConfig.Signer.Tag
	}
	if !cmd.Flags().Changed("expires") && loadedConfig.Signer.Expires > 0 {
		expires = loadedConfig.Signer.Expires
	}
	return keyID, tag, expires
}

// applyKeyRingConfigDefault falls back to loadedConfig's KeyRing.Path when
// --keyring was left unset.
func applyKeyRingConfigDefault(keyringFile string) string {
	if keyringFile == "" && loadedConfig != nil {
		return loadedConfig.KeyRing.Path
	}
	return keyringFile
}
