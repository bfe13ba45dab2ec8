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

// Package rfc9421 implements RFC 9421 HTTP Message Signatures: the
// covered-component model, the signature base assembler, and the
// signer/verifier drivers over Ed25519. The package is synchronous and
// stateless - every exported operation is a pure function of its
// arguments plus, for signing and expiry checks, a single read of the
// wall clock.
package rfc9421

// HTTPFieldParamKind names one of the five RFC 9421 component
// parameters that can attach to an HTTP field component identifier.
type HTTPFieldParamKind int

const (
	// ParamSf marks the field as a structured field that must be
	// re-serialized strictly.
	ParamSf HTTPFieldParamKind = iota
	// ParamKey selects a single member of a dictionary-valued field.
	ParamKey
	// ParamBs wraps each field occurrence as a binary structure.
	ParamBs
	// ParamTr marks the field as appearing in trailers.
	ParamTr
	// ParamReq takes the value from the originating request.
	ParamReq
)

func (k HTTPFieldParamKind) String() string {
	switch k {
	case ParamSf:
		return "sf"
	case ParamKey:
		return "key"
	case ParamBs:
		return "bs"
	case ParamTr:
		return "tr"
	case ParamReq:
		return "req"
	default:
		return "unknown"
	}
}

// HTTPFieldParameter is one entry of an HTTPField's ordered parameter
// sequence. Key is only meaningful when Kind is ParamKey.
type HTTPFieldParameter struct {
	Kind HTTPFieldParamKind
	Key  string
}

// HTTPField is a named HTTP header reference used as a covered
// component. Name is always the lowercase form; conversion from SFV
// lowercases it, and callers constructing one directly are expected to
// do the same.
type HTTPField struct {
	Name       string
	Parameters []HTTPFieldParameter
}

// QueryParamParamKind names one of the two parameters recognized on an
// "@query-param" component identifier.
type QueryParamParamKind int

const (
	// QueryParamName names the query parameter to resolve.
	QueryParamName QueryParamParamKind = iota
	// QueryParamReq takes the value from the originating request.
	QueryParamReq
)

// QueryParamParameter is one entry of a QueryParams component's
// ordered parameter sequence. Name is only meaningful when Kind is
// QueryParamName.
type QueryParamParameter struct {
	Kind QueryParamParamKind
	Name string
}

// DerivedKind enumerates the nine RFC 9421 derived components.
type DerivedKind int

const (
	DerivedAuthority DerivedKind = iota
	DerivedTargetURI
	DerivedRequestTarget
	DerivedMethod
	DerivedPath
	DerivedScheme
	DerivedQuery
	DerivedStatus
	DerivedQueryParams
)

// derivedNames gives the bit-exact canonical string form of every
// derived component, including @query-param for DerivedQueryParams.
var derivedNames = map[DerivedKind]string{
	DerivedAuthority:     "@authority",
	DerivedTargetURI:     "@target-uri",
	DerivedRequestTarget: "@request-target",
	DerivedMethod:        "@method",
	DerivedPath:          "@path",
	DerivedScheme:        "@scheme",
	DerivedQuery:         "@query",
	DerivedStatus:        "@status",
	DerivedQueryParams:   "@query-param",
}

// DerivedComponent is one of the nine message properties RFC 9421
// allows as a covered component in place of an HTTP field.
type DerivedComponent struct {
	Kind DerivedKind

	// Req is meaningful for every Kind except DerivedQueryParams: it
	// selects the value from the originating request when signing a
	// response.
	Req bool

	// Parameters is only meaningful for DerivedQueryParams.
	Parameters []QueryParamParameter
}

// Name returns the canonical "@..." string form of the component.
func (d DerivedComponent) Name() string {
	return derivedNames[d.Kind]
}

// CoveredComponent is the sum of HTTPField and DerivedComponent: the
// unit of lookup used throughout signature base assembly. Exactly one
// of HTTP or Derived is set.
type CoveredComponent struct {
	HTTP    *HTTPField
	Derived *DerivedComponent
}

// Key returns a canonical string uniquely identifying the component,
// with parameters in their sequence order, suitable as a map key or
// log field.
// Two CoveredComponent values are structurally equal iff their Key()
// values are equal.
func (c CoveredComponent) Key() string {
	if c.Derived != nil {
		if c.Derived.Kind == DerivedQueryParams {
			key := "@query-param"
			for _, p := range c.Derived.Parameters {
				if p.Kind == QueryParamName {
					key += ";name=" + p.Name
				} else {
					key += ";req"
				}
			}
			return key
		}
		key := c.Derived.Name()
		if c.Derived.Req {
			key += ";req"
		}
		return key
	}
	if c.HTTP != nil {
		key := c.HTTP.Name
		for _, p := range c.HTTP.Parameters {
			key += ";" + p.Kind.String()
			if p.Kind == ParamKey {
				key += "=" + p.Key
			}
		}
		return key
	}
	return ""
}

// ComponentValue pairs a CoveredComponent with its resolved string
// value. A SignatureBase is an ordered sequence of these.
type ComponentValue struct {
	Component CoveredComponent
	Value     string
}

// sfvValue is the subset of the SFV kernel's parameter/bare-item value
// type that this package relies on: extracting a typed Go value out
// of an SFV bare item. Declared locally so call sites do not have to
// pin down which concrete lestrrat-go/sfv type a *sfv.Params map holds
// its values as.
type sfvValue interface {
	GetValue(dst any) error
}

// KeyRing maps an opaque key identifier (typically an RFC 7638 JWK
// thumbprint) to raw Ed25519 public key bytes. It is a plain map: the
// core never mutates it and treats concurrent reads as safe, per the
// read-only-from-the-core's-perspective contract.
type KeyRing map[string][]byte
