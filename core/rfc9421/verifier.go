// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc9421

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/lestrrat-go/sfv"

	"github.com/sage-x-project/httpsig/internal/sfvdict"
)

// SignatureSelector decides which Signature-Input dictionary member is
// the one to verify. It is handed the member's label and its parsed
// inner list (components + parameters); the first member for which it
// returns true wins.
type SignatureSelector func(label string, components []CoveredComponent, params SignatureParams) bool

// SelectAny accepts the first inner-list-valued member, with no
// further constraint. Useful when a message carries exactly one
// signature.
func SelectAny(string, []CoveredComponent, SignatureParams) bool { return true }

// SelectByLabel accepts only the member with the given label.
func SelectByLabel(label string) SignatureSelector {
	return func(l string, _ []CoveredComponent, _ SignatureParams) bool {
		return l == label
	}
}

// ParsedSignature is the result of parsing a signature off a
// SignedMessage: the signature bytes plus the reconstructed base and
// the algorithm that will be used to verify it.
type ParsedSignature struct {
	Label     string
	Signature []byte
	Base      SignatureBase
	Algorithm Algorithm
}

// MessageVerifier parses and verifies a signature carried by a
// SignedMessage. AlgorithmOverride, if set, takes precedence over the
// parsed "alg" parameter; leave zero to require the message to name
// its own algorithm.
type MessageVerifier struct {
	AlgorithmOverride Algorithm
	Now               func() time.Time
}

// NewMessageVerifier builds a MessageVerifier with no algorithm
// override; the parsed "alg" parameter decides the algorithm.
func NewMessageVerifier() *MessageVerifier {
	return &MessageVerifier{}
}

// Parse selects and decodes one signature off message using selector,
// resolving every covered component's value via message.LookupComponent.
func (v *MessageVerifier) Parse(message SignedMessage, selector SignatureSelector) (*ParsedSignature, error) {
	inputHeader := message.SignatureInput()
	sigHeader := message.SignatureHeader()
	if inputHeader == "" || sigHeader == "" {
		return nil, newError(ErrParsing, "both Signature-Input and Signature headers are required")
	}

	inputMembers, err := sfvdict.Split(inputHeader)
	if err != nil {
		return nil, wrapError(ErrParsing, "Signature-Input", err)
	}

	var (
		label      string
		components []CoveredComponent
		params     SignatureParams
		found      bool
	)

	for _, m := range inputMembers {
		value, err := sfv.Parse([]byte(m.Raw))
		if err != nil {
			continue
		}
		list, ok := value.(*sfv.List)
		if !ok || list.Len() == 0 {
			continue
		}
		entry, _ := list.Get(0)
		inner, ok := entry.(sfv.InnerList)
		if !ok {
			continue
		}

		comps := make([]CoveredComponent, 0, len(inner.Items()))
		ok = true
		for _, item := range inner.Items() {
			c, cerr := ParseComponentItem(item)
			if cerr != nil {
				ok = false
				break
			}
			comps = append(comps, c)
		}
		if !ok {
			continue
		}

		sp, err := ParseSignatureParams(inner.Parameters())
		if err != nil {
			continue
		}

		if !selector(m.Label, comps, sp) {
			continue
		}

		label = m.Label
		components = comps
		params = sp
		found = true
		break
	}

	if !found {
		return nil, newError(ErrParsing, "no Signature-Input member satisfied the selector")
	}

	sigMembers, err := sfvdict.Split(sigHeader)
	if err != nil {
		return nil, wrapError(ErrParsing, "Signature", err)
	}

	var signature []byte
	var haveSignature bool
	for _, m := range sigMembers {
		if m.Label != label {
			continue
		}
		value, err := sfv.Parse([]byte(m.Raw))
		if err != nil {
			return nil, wrapError(ErrParsing, "Signature member", err)
		}
		list, ok := value.(*sfv.List)
		if !ok || list.Len() == 0 {
			return nil, newError(ErrParsing, "Signature member must be an item")
		}
		entry, _ := list.Get(0)
		item, ok := entry.(sfv.Item)
		if !ok {
			return nil, newError(ErrParsing, "Signature member must be an item, not an inner list")
		}
		var bs []byte
		if err := item.GetValue(&bs); err != nil {
			return nil, wrapError(ErrParsing, "Signature member must be a byte sequence", err)
		}
		signature = bs
		haveSignature = true
		break
	}
	if !haveSignature {
		return nil, newError(ErrParsing, fmt.Sprintf("no Signature entry for label %q", label))
	}

	values := make([]ComponentValue, 0, len(components))
	for _, c := range components {
		value, ok := message.LookupComponent(c)
		if !ok {
			return nil, LookupError(c)
		}
		values = append(values, ComponentValue{Component: c, Value: value})
	}

	algorithm := v.AlgorithmOverride
	if algorithm == AlgorithmUnknown {
		algorithm = params.Algorithm
	}
	if algorithm == AlgorithmUnknown {
		return nil, newError(ErrUnsupportedAlgorithm, "no algorithm override and no recognized alg parameter")
	}

	return &ParsedSignature{
		Label:     label,
		Signature: signature,
		Base:      SignatureBase{Components: values, Params: params},
		Algorithm: algorithm,
	}, nil
}

// Verify performs the cryptographic check for a parsed signature.
// keyID, if non-empty, overrides the parsed "keyid" parameter when
// looking the key up in keyring.
func (p *ParsedSignature) Verify(keyring KeyRing, keyID string) error {
	id := keyID
	if id == "" {
		if p.Base.Params.KeyID == nil {
			return newError(ErrNoSuchKey, "no key identifier supplied or parsed")
		}
		id = *p.Base.Params.KeyID
	}

	publicKey, ok := keyring[id]
	if !ok {
		return newError(ErrNoSuchKey, id)
	}

	if p.Algorithm != AlgorithmEd25519 {
		return newError(ErrUnsupportedAlgorithm, p.Algorithm.String())
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return newError(ErrInvalidKeyLength, fmt.Sprintf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey)))
	}
	if len(p.Signature) != ed25519.SignatureSize {
		return newError(ErrInvalidSignatureLength, fmt.Sprintf("ed25519 signature must be %d bytes, got %d", ed25519.SignatureSize, len(p.Signature)))
	}

	base, err := BuildSignatureBase(p.Base.Components, p.Base.Params)
	if err != nil {
		return err
	}

	if !ed25519.Verify(publicKey, []byte(base), p.Signature) {
		return newError(ErrFailedToVerify, "")
	}
	return nil
}

// IsExpired reports whether the parsed signature's expires parameter
// has passed, using now (time.Now if nil).
func (p *ParsedSignature) IsExpired(now func() time.Time) bool {
	clock := time.Now
	if now != nil {
		clock = now
	}
	return p.Base.Params.IsExpired(func() (int64, error) {
		return clock().Unix(), nil
	})
}
