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

// Package webbotauth implements the web-bot-auth verification
// profile on top of rfc9421: it picks which signature in a
// multi-signature message authenticates the bot and enforces the
// profile's presence and value constraints.
package webbotauth

import (
	"errors"
	"strings"

	"github.com/lestrrat-go/sfv"

	"github.com/sage-x-project/httpsig/core/rfc9421"
)

// Tag is the required value of the "tag" signature parameter for a
// signature to be eligible under this profile.
const Tag = "web-bot-auth"

// ErrKeyDirectoryLookupNotImplemented is returned by Verify when the
// caller asked for key-directory enforcement and a Signature-Agent
// key directory URL was present: fetching and trusting a remote JWK
// directory is future work, matching the original design's reserved
// WebBotAuthError::NotImplemented case.
var ErrKeyDirectoryLookupNotImplemented = errors.New("webbotauth: key directory lookup is not implemented")

// SignedMessage extends rfc9421.SignedMessage with the Signature-Agent
// header this profile inspects.
type SignedMessage = rfc9421.WebBotAuthSignedMessage

// Verifier parses and verifies a web-bot-auth signature.
type Verifier struct {
	inner        *rfc9421.MessageVerifier
	parsed       *rfc9421.ParsedSignature
	keyDirectory string
}

// Parse locates the signature satisfying the web-bot-auth selector
// (presence of keyid/tag/expires/created, tag == "web-bot-auth",
// coverage of @authority or, if a key directory was advertised, of
// signature-agent) and resolves its covered components. algorithm, if
// non-zero, overrides the parsed "alg" parameter.
func Parse(message SignedMessage, algorithm rfc9421.Algorithm) (*Verifier, error) {
	keyDirectory, err := parseKeyDirectory(message.SignatureAgent())
	if err != nil {
		return nil, err
	}

	inner := &rfc9421.MessageVerifier{AlgorithmOverride: algorithm}
	selector := selectorFor(keyDirectory)

	parsed, err := inner.Parse(message, selector)
	if err != nil {
		return nil, err
	}

	return &Verifier{inner: inner, parsed: parsed, keyDirectory: keyDirectory}, nil
}

// parseKeyDirectory parses the Signature-Agent header, if present, as
// an SFV item. A parse failure of that item is itself an error; a
// value that isn't a string beginning with "https" or "data" is
// silently ignored (no key directory recorded, no error).
func parseKeyDirectory(signatureAgent string) (string, error) {
	if signatureAgent == "" {
		return "", nil
	}

	value, err := sfv.Parse([]byte(signatureAgent))
	if err != nil {
		return "", err
	}
	list, ok := value.(*sfv.List)
	if !ok || list.Len() == 0 {
		return "", nil
	}
	entry, _ := list.Get(0)
	item, ok := entry.(sfv.Item)
	if !ok {
		return "", nil
	}

	var s string
	if err := item.GetValue(&s); err != nil {
		return "", nil
	}
	if strings.HasPrefix(s, "https") || strings.HasPrefix(s, "data") {
		return s, nil
	}
	return "", nil
}

func selectorFor(keyDirectory string) rfc9421.SignatureSelector {
	return func(_ string, components []rfc9421.CoveredComponent, params rfc9421.SignatureParams) bool {
		if params.KeyID == nil || params.Tag == nil || params.Expires == nil || params.Created == nil {
			return false
		}
		if *params.Tag != Tag {
			return false
		}

		hasAuthority := false
		hasSignatureAgent := false
		for _, c := range components {
			if c.Derived != nil && c.Derived.Kind == rfc9421.DerivedAuthority && !c.Derived.Req {
				hasAuthority = true
			}
			if c.HTTP != nil && c.HTTP.Name == "signature-agent" && len(c.HTTP.Parameters) == 0 {
				hasSignatureAgent = true
			}
		}

		if keyDirectory != "" {
			return hasAuthority || hasSignatureAgent
		}
		return hasAuthority
	}
}

// Verify performs the cryptographic check. If enforceKeyDirectoryLookup
// is true and a key directory URL was recorded from Signature-Agent,
// verification fails with ErrKeyDirectoryLookupNotImplemented rather
// than trusting an unfetched remote key set.
func (v *Verifier) Verify(keyring rfc9421.KeyRing, keyID string, enforceKeyDirectoryLookup bool) error {
	if enforceKeyDirectoryLookup && v.keyDirectory != "" {
		return ErrKeyDirectoryLookupNotImplemented
	}
	return v.parsed.Verify(keyring, keyID)
}

// PossiblyInsecure reports true if the signature is expired. Further
// heuristics (notably nonce reuse detection) are reserved for future
// extension and are not evaluated here.
func (v *Verifier) PossiblyInsecure() bool {
	return v.parsed.IsExpired(nil)
}

// KeyDirectory returns the key directory URL recorded from
// Signature-Agent, or "" if none was present.
func (v *Verifier) KeyDirectory() string {
	return v.keyDirectory
}

// Details returns the typed signature parameters of the selected
// signature, for callers that want to inspect keyid/nonce/etc.
func (v *Verifier) Details() rfc9421.SignatureParams {
	return v.parsed.Base.Params
}
