// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc9421

import (
	"crypto/ed25519"
	"fmt"
	"math"
	"time"
)

// MessageSigner holds the caller-supplied identity of a single
// signature: the algorithm name, the key identifier, a nonce, and a
// tag. It is stateless beyond these fields and may be reused across
// many Sign calls.
type MessageSigner struct {
	Algorithm string
	KeyID     string
	Nonce     string
	Tag       string

	// Now overrides the wall clock read during Sign, for tests. Nil
	// uses time.Now.
	Now func() time.Time
}

// NewMessageSigner builds a MessageSigner for Ed25519, the only
// algorithm this package signs with.
func NewMessageSigner(keyID, nonce, tag string) *MessageSigner {
	return &MessageSigner{Algorithm: "ed25519", KeyID: keyID, Nonce: nonce, Tag: tag}
}

// Sign builds a signature over message's covered components, signs it
// with signingKey (32 raw Ed25519 private key bytes), and registers
// the resulting Signature-Input/Signature header values on message.
// expires is added to the current wall time to compute the "expires"
// parameter. The message is left untouched on any failure.
func (s *MessageSigner) Sign(message UnsignedMessage, expires time.Duration, signingKey []byte) error {
	if len(signingKey) != ed25519.SeedSize && len(signingKey) != ed25519.PrivateKeySize {
		return newError(ErrInvalidKeyLength, fmt.Sprintf("ed25519 private key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(signingKey)))
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	createdTime := now()
	created := createdTime.Unix()
	if createdTime.Before(time.Unix(0, 0)) {
		return newError(ErrTime, "wall clock is before the Unix epoch")
	}

	expiresAt := created + int64(expires/time.Second)
	if expires > 0 && expiresAt < created {
		return newError(ErrTime, "expires timestamp overflowed a signed 64-bit integer")
	}
	if created > math.MaxInt64-int64(expires/time.Second) {
		return newError(ErrTime, "expires timestamp overflowed a signed 64-bit integer")
	}

	components, err := message.ComponentsToCover()
	if err != nil {
		return err
	}

	covered := make([]CoveredComponent, 0, len(components))
	for _, cv := range components {
		covered = append(covered, cv.Component)
	}

	rawParams := buildRawParams(s.Algorithm, s.KeyID, s.Nonce, s.Tag, created, expiresAt)
	params, err := ParseSignatureParams(rawParams)
	if err != nil {
		return err
	}

	base, err := BuildSignatureBase(components, params)
	if err != nil {
		return err
	}

	privateKey, err := expandEd25519PrivateKey(signingKey)
	if err != nil {
		return err
	}
	signature := ed25519.Sign(privateKey, []byte(base))

	tail, err := serializeSignatureParamsTail(covered, rawParams)
	if err != nil {
		return err
	}

	signatureInputValue := tail
	signatureHeaderValue := fmt.Sprintf(":%s:", encodeBase64(signature))

	return message.RegisterHeaderContents(signatureInputValue, signatureHeaderValue)
}

// expandEd25519PrivateKey accepts either a 32-byte seed or a 64-byte
// expanded private key, matching the "signing_key: bytes" contract
// in the design (raw private key bytes, not a stdlib crypto.Signer).
func expandEd25519PrivateKey(key []byte) (ed25519.PrivateKey, error) {
	switch len(key) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(key), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(key), nil
	default:
		return nil, newError(ErrInvalidKeyLength, fmt.Sprintf("ed25519 private key must be %d or %d bytes", ed25519.SeedSize, ed25519.PrivateKeySize))
	}
}
