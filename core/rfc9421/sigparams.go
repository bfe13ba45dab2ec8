// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc9421

import (
	"fmt"

	"github.com/lestrrat-go/sfv"
)

// Algorithm enumerates the signature algorithms this package
// recognizes. Ed25519 is the only member in this version; unknown
// "alg" values parse to AlgorithmUnknown rather than failing, per the
// "defer to verification time" design choice.
type Algorithm int

const (
	AlgorithmUnknown Algorithm = iota
	AlgorithmEd25519
)

func (a Algorithm) String() string {
	if a == AlgorithmEd25519 {
		return "ed25519"
	}
	return ""
}

// SignatureParams is the typed projection of the "@signature-params"
// parameter dictionary plus the raw dictionary needed to reproduce it
// byte-for-byte. Raw preserves the exact key order a signer chose;
// verifiers must never reorder or rebuild it when re-serializing the
// base, because any difference breaks the signature.
type SignatureParams struct {
	Raw *sfv.Params

	Algorithm Algorithm
	Created   *int64
	Expires   *int64
	KeyID     *string
	Nonce     *string
	Tag       *string
}

// ParseSignatureParams builds the typed projection of an inner list's
// parameter dictionary. Unknown keys are ignored for forward
// compatibility; the raw dictionary is kept verbatim.
func ParseSignatureParams(raw *sfv.Params) (SignatureParams, error) {
	sp := SignatureParams{Raw: raw}
	if raw == nil {
		return sp, nil
	}

	for _, k := range raw.Keys {
		v := raw.Values[k]
		switch k {
		case "alg":
			var s string
			if err := v.GetValue(&s); err == nil && s == "ed25519" {
				sp.Algorithm = AlgorithmEd25519
			}
		case "created":
			var n int64
			if err := v.GetValue(&n); err != nil {
				return SignatureParams{}, wrapError(ErrParsing, "created must be an integer", err)
			}
			sp.Created = &n
		case "expires":
			var n int64
			if err := v.GetValue(&n); err != nil {
				return SignatureParams{}, wrapError(ErrParsing, "expires must be an integer", err)
			}
			sp.Expires = &n
		case "keyid":
			var s string
			if err := v.GetValue(&s); err != nil {
				return SignatureParams{}, wrapError(ErrParsing, "keyid must be a string", err)
			}
			sp.KeyID = &s
		case "nonce":
			var s string
			if err := v.GetValue(&s); err != nil {
				return SignatureParams{}, wrapError(ErrParsing, "nonce must be a string", err)
			}
			sp.Nonce = &s
		case "tag":
			var s string
			if err := v.GetValue(&s); err != nil {
				return SignatureParams{}, wrapError(ErrParsing, "tag must be a string", err)
			}
			sp.Tag = &s
		}
	}

	return sp, nil
}

// IsExpired reports whether the signature has expired: false when
// Expires is absent; true when expires<=0, when the current wall
// clock has reached or passed it, or when the clock read itself
// failed.
func (sp SignatureParams) IsExpired(now func() (int64, error)) bool {
	if sp.Expires == nil {
		return false
	}
	if *sp.Expires <= 0 {
		return true
	}
	nowSecs, err := now()
	if err != nil {
		return true
	}
	return nowSecs >= *sp.Expires
}

// serializeSignatureParamsTail renders the "@signature-params" value:
// a parenthesized, space-separated list of the covered components'
// SFV item text, followed by the raw parameter dictionary in its
// original key order with no inter-parameter spacing.
func serializeSignatureParamsTail(components []CoveredComponent, params *sfv.Params) (string, error) {
	items := make([]string, 0, len(components))
	for _, c := range components {
		s, err := SerializeComponentItem(c)
		if err != nil {
			return "", err
		}
		items = append(items, s)
	}

	tail := "(" + joinSpace(items) + ")"

	if params == nil {
		return tail, nil
	}
	for _, k := range params.Keys {
		v := params.Values[k]
		rendered, err := serializeParamValue(v)
		if err != nil {
			return "", wrapError(ErrSignatureParamsSerialization, fmt.Sprintf("parameter %q", k), err)
		}
		tail += ";" + k + "=" + rendered
	}
	return tail, nil
}

func joinSpace(items []string) string {
	s := ""
	for i, it := range items {
		if i > 0 {
			s += " "
		}
		s += it
	}
	return s
}

// serializeParamValue renders a single signature parameter's bare
// value in its SFV textual form: integers unquoted, strings
// double-quoted, booleans as "?1"/"?0" (the signature params
// dictionary never emits bare booleans unquoted as true/false).
func serializeParamValue(v sfvValue) (string, error) {
	var s string
	if err := v.GetValue(&s); err == nil {
		return fmt.Sprintf("%q", s), nil
	}
	var n int64
	if err := v.GetValue(&n); err == nil {
		return fmt.Sprintf("%d", n), nil
	}
	var b bool
	if err := v.GetValue(&b); err == nil {
		if b {
			return "?1", nil
		}
		return "?0", nil
	}
	return "", newError(ErrSignatureParamsSerialization, "unsupported parameter value type")
}
