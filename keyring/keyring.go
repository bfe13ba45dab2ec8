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

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package keyring loads rfc9421.KeyRing values from YAML files and
// computes the RFC 7638 JWK thumbprints used as keyid values by the
// web-bot-auth profile.
package keyring

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sage-x-project/httpsig/core/rfc9421"
)

// Entry is one named key in a YAML-encoded key file.
type Entry struct {
	ID        string `yaml:"id"`
	PublicKey string `yaml:"public_key"` // base64url, unpadded
}

// File is the top-level shape of a YAML key directory file.
type File struct {
	Keys []Entry `yaml:"keys"`
}

// LoadFile reads path and decodes it into an rfc9421.KeyRing keyed by
// each entry's ID. If an entry's ID is empty, the RFC 7638 thumbprint
// of its Ed25519 public key is used instead, matching how a signer
// without an explicit keyid advertises its key.
func LoadFile(path string) (rfc9421.KeyRing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keyring: failed to read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("keyring: failed to parse %s: %w", path, err)
	}

	ring := make(rfc9421.KeyRing, len(f.Keys))
	for _, e := range f.Keys {
		pub, err := base64.RawURLEncoding.DecodeString(e.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("keyring: entry %q: invalid public_key: %w", e.ID, err)
		}
		if len(pub) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("keyring: entry %q: public key must be %d bytes, got %d", e.ID, ed25519.PublicKeySize, len(pub))
		}

		id := e.ID
		if id == "" {
			id, err = Thumbprint(pub)
			if err != nil {
				return nil, fmt.Errorf("keyring: entry %q: %w", e.ID, err)
			}
		}
		ring[id] = pub
	}
	return ring, nil
}

// okpThumbprintJWK holds only the members RFC 7638 requires to be
// included for an OKP (Ed25519) key, in the lexicographic key order
// RFC 7638 §3.2 mandates.
type okpThumbprintJWK struct {
	Crv string `json:"crv"`
	Kty string `json:"kty"`
	X   string `json:"x"`
}

// Thumbprint computes the RFC 7638 JWK thumbprint of an Ed25519 public
// key, encoded as unpadded base64url, matching the keyid convention
// used throughout the RFC 9421 examples and the web-bot-auth profile.
func Thumbprint(publicKey ed25519.PublicKey) (string, error) {
	jwk := okpThumbprintJWK{
		Crv: "Ed25519",
		Kty: "OKP",
		X:   base64.RawURLEncoding.EncodeToString(publicKey),
	}

	canonical, err := json.Marshal(jwk)
	if err != nil {
		return "", fmt.Errorf("keyring: failed to marshal thumbprint JWK: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
