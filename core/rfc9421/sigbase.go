// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc9421

import (
	"unicode"

	"github.com/lestrrat-go/sfv"
)

// SignatureBase is the ordered list of component/value pairs plus the
// signature parameters that together determine the exact ASCII bytes
// a signer signs and a verifier checks.
type SignatureBase struct {
	Components []ComponentValue
	Params     SignatureParams
}

// BuildSignatureBase assembles the canonical signature base: one line
// per covered component followed by the "@signature-params" tail, no
// trailing newline. It fails with NonAsciiContent if any line contains
// a non-ASCII byte.
func BuildSignatureBase(components []ComponentValue, params SignatureParams) (string, error) {
	var components0 []CoveredComponent
	base := ""
	for _, cv := range components {
		itemText, err := SerializeComponentItem(cv.Component)
		if err != nil {
			return "", err
		}
		base += itemText + ": " + cv.Value + "\n"
		components0 = append(components0, cv.Component)
	}

	tail, err := serializeSignatureParamsTail(components0, params.Raw)
	if err != nil {
		return "", err
	}
	base += `"@signature-params": ` + tail

	if !isASCII(base) {
		return "", newError(ErrNonAsciiContent, "signature base contains a non-ASCII byte")
	}
	return base, nil
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// buildRawParams constructs the *sfv.Params dictionary a signer
// attaches to the covered-component inner list, inserting keys in the
// exact order the wire format requires: alg, keyid, nonce, tag,
// created, expires.
func buildRawParams(algorithm, keyid, nonce, tag string, created, expires int64) *sfv.Params {
	params := &sfv.Params{Values: map[string]sfv.Item{}}
	set := func(key string, item sfv.Item) {
		params.Keys = append(params.Keys, key)
		params.Values[key] = item
	}
	set("alg", sfv.NewStringItem(algorithm))
	set("keyid", sfv.NewStringItem(keyid))
	set("nonce", sfv.NewStringItem(nonce))
	set("tag", sfv.NewStringItem(tag))
	set("created", sfv.NewIntegerItem(created))
	set("expires", sfv.NewIntegerItem(expires))
	return params
}
