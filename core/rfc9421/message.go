// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc9421

// UnsignedMessage is the collaborator a caller implements to let
// MessageSigner produce a signature over its own message. The core
// never touches a real HTTP object; it only asks the caller to
// resolve components to values and to store the two header values it
// produces.
type UnsignedMessage interface {
	// ComponentsToCover returns the ordered list of components to
	// sign and their already-resolved values. Order is authoritative:
	// it becomes the order of both the signature base and the
	// "@signature-params" component list.
	ComponentsToCover() ([]ComponentValue, error)

	// RegisterHeaderContents is called exactly once, only on success,
	// with the raw dictionary-entry values for Signature-Input and
	// Signature (the caller supplies the "label=" prefix itself).
	RegisterHeaderContents(signatureInputValue, signatureHeaderValue string) error
}

// SignedMessage is the collaborator a caller implements to let
// MessageVerifier check a signature already present on its message.
type SignedMessage interface {
	// SignatureHeader returns the full Signature header value (an SFV
	// dictionary), or "" if absent.
	SignatureHeader() string
	// SignatureInput returns the full Signature-Input header value
	// (an SFV dictionary), or "" if absent.
	SignatureInput() string
	// LookupComponent resolves a parsed CoveredComponent to its
	// string value, or ok=false if the message cannot supply one.
	LookupComponent(c CoveredComponent) (value string, ok bool)
}

// WebBotAuthSignedMessage extends SignedMessage with the
// Signature-Agent header the web-bot-auth profile inspects.
type WebBotAuthSignedMessage interface {
	SignedMessage
	// SignatureAgent returns the Signature-Agent header value, or ""
	// if absent.
	SignatureAgent() string
}
