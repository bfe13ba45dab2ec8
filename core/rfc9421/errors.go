// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc9421

import "fmt"

// ErrorKind classifies a failure returned by this package. Every
// exported operation that can fail returns an *Error carrying one of
// these kinds, so callers can match on it with errors.As or with
// errors.Is against an *Error of the same Kind.
type ErrorKind int

const (
	// ErrImpossibleSerialization marks an SFV round trip that should
	// have succeeded, because its inputs were validated at
	// construction, failing anyway. Surfaced as an internal bug
	// signal, never expected in normal operation.
	ErrImpossibleSerialization ErrorKind = iota
	// ErrParsing marks malformed SFV, an unknown component name, a
	// wrong-typed parameter, or an invalid parameter combination.
	ErrParsing
	// ErrLookup marks a SignedMessage.LookupComponent miss for a
	// component the signature base requires.
	ErrLookup
	// ErrUnsupportedAlgorithm marks an absent or unrecognized alg.
	ErrUnsupportedAlgorithm
	// ErrNoSuchKey marks a keyring miss for the required identifier.
	ErrNoSuchKey
	// ErrInvalidKeyLength marks a key that is not exactly 32 bytes.
	ErrInvalidKeyLength
	// ErrInvalidSignatureLength marks a signature that is not exactly
	// 64 bytes.
	ErrInvalidSignatureLength
	// ErrFailedToVerify marks a negative Ed25519 verification result.
	ErrFailedToVerify
	// ErrNonAsciiContent marks a signature base containing a
	// non-ASCII byte.
	ErrNonAsciiContent
	// ErrSignatureParamsSerialization marks a failure rendering the
	// "@signature-params" tail.
	ErrSignatureParamsSerialization
	// ErrTime marks a wall clock read before the Unix epoch or out of
	// signed 64-bit range.
	ErrTime
)

var errorKindNames = map[ErrorKind]string{
	ErrImpossibleSerialization:      "impossible serialization",
	ErrParsing:                      "parsing error",
	ErrLookup:                       "lookup error",
	ErrUnsupportedAlgorithm:         "unsupported algorithm",
	ErrNoSuchKey:                    "no such key",
	ErrInvalidKeyLength:             "invalid key length",
	ErrInvalidSignatureLength:       "invalid signature length",
	ErrFailedToVerify:               "failed to verify",
	ErrNonAsciiContent:              "non-ascii content",
	ErrSignatureParamsSerialization: "signature params serialization",
	ErrTime:                         "time error",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is the error type every exported operation in this package
// returns. It carries an ErrorKind plus an optional component
// (populated only for ErrLookup) so that a LookupError can be matched
// against the component it names.
type Error struct {
	Kind      ErrorKind
	Component *CoveredComponent
	msg       string
	cause     error
}

func (e *Error) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("rfc9421: %s: %s", e.Kind, e.msg)
	}
	return fmt.Sprintf("rfc9421: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Kind, letting
// callers write errors.Is(err, &rfc9421.Error{Kind: rfc9421.ErrNoSuchKey}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

func wrapError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// LookupError reports that a SignedMessage failed to resolve a value
// for a component the signature base requires.
func LookupError(c CoveredComponent) *Error {
	return &Error{Kind: ErrLookup, Component: &c, msg: c.Key()}
}
