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

// Package httpadapter wires rfc9421's UnsignedMessage/SignedMessage
// interfaces to the standard library's *http.Request and *http.Response,
// resolving covered components from the wire representation a server
// or client actually sees.
package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sage-x-project/httpsig/core/rfc9421"
)

// RequestMessage adapts an *http.Request to rfc9421.UnsignedMessage and
// SignedMessage (and therefore webbotauth.SignedMessage). Components is
// the ordered list of components a signer should cover; it is ignored
// when the message is only used for verification, where the covered
// components instead come from the already-present Signature-Input
// header.
type RequestMessage struct {
	Req        *http.Request
	Components []rfc9421.CoveredComponent
	Label      string // defaults to "sig1"
}

// NewRequestMessage returns a RequestMessage ready to sign req with the
// given covered components, using the default "sig1" label.
func NewRequestMessage(req *http.Request, components []rfc9421.CoveredComponent) *RequestMessage {
	return &RequestMessage{Req: req, Components: components, Label: "sig1"}
}

func (m *RequestMessage) label() string {
	if m.Label == "" {
		return "sig1"
	}
	return m.Label
}

// ComponentsToCover resolves m.Components against the wrapped request.
func (m *RequestMessage) ComponentsToCover() ([]rfc9421.ComponentValue, error) {
	values := make([]rfc9421.ComponentValue, 0, len(m.Components))
	for _, c := range m.Components {
		v, ok, err := resolveComponent(m.Req, nil, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rfc9421.LookupError(c)
		}
		values = append(values, rfc9421.ComponentValue{Component: c, Value: v})
	}
	return values, nil
}

// RegisterHeaderContents installs the Signature-Input and Signature
// headers the signer produced, under m.label().
func (m *RequestMessage) RegisterHeaderContents(signatureInputValue, signatureHeaderValue string) error {
	m.Req.Header.Set("Signature-Input", m.label()+"="+signatureInputValue)
	m.Req.Header.Set("Signature", m.label()+"="+signatureHeaderValue)
	return nil
}

// SignatureHeader returns the raw Signature header value, for verification.
func (m *RequestMessage) SignatureHeader() string { return m.Req.Header.Get("Signature") }

// SignatureInput returns the raw Signature-Input header value, for verification.
func (m *RequestMessage) SignatureInput() string { return m.Req.Header.Get("Signature-Input") }

// SignatureAgent returns the raw Signature-Agent header value, if any,
// satisfying rfc9421.WebBotAuthSignedMessage.
func (m *RequestMessage) SignatureAgent() string { return m.Req.Header.Get("Signature-Agent") }

// LookupComponent resolves a single covered component against the
// wrapped request, for use by the verifier.
func (m *RequestMessage) LookupComponent(c rfc9421.CoveredComponent) (string, bool) {
	v, ok, err := resolveComponent(m.Req, nil, c)
	if err != nil || !ok {
		return "", false
	}
	return v, true
}

// ResponseMessage adapts an *http.Response to rfc9421.UnsignedMessage
// and SignedMessage. Req, if set, is the originating request and
// resolves any covered component parameterized with ";req".
type ResponseMessage struct {
	Resp       *http.Response
	Req        *http.Request
	Components []rfc9421.CoveredComponent
	Label      string
}

// NewResponseMessage returns a ResponseMessage ready to sign resp with
// the given covered components, using the default "sig1" label.
func NewResponseMessage(resp *http.Response, req *http.Request, components []rfc9421.CoveredComponent) *ResponseMessage {
	return &ResponseMessage{Resp: resp, Req: req, Components: components, Label: "sig1"}
}

func (m *ResponseMessage) label() string {
	if m.Label == "" {
		return "sig1"
	}
	return m.Label
}

func (m *ResponseMessage) ComponentsToCover() ([]rfc9421.ComponentValue, error) {
	values := make([]rfc9421.ComponentValue, 0, len(m.Components))
	for _, c := range m.Components {
		v, ok, err := resolveResponseComponent(m.Resp, m.Req, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rfc9421.LookupError(c)
		}
		values = append(values, rfc9421.ComponentValue{Component: c, Value: v})
	}
	return values, nil
}

func (m *ResponseMessage) RegisterHeaderContents(signatureInputValue, signatureHeaderValue string) error {
	m.Resp.Header.Set("Signature-Input", m.label()+"="+signatureInputValue)
	m.Resp.Header.Set("Signature", m.label()+"="+signatureHeaderValue)
	return nil
}

func (m *ResponseMessage) SignatureHeader() string { return m.Resp.Header.Get("Signature") }
func (m *ResponseMessage) SignatureInput() string  { return m.Resp.Header.Get("Signature-Input") }

func (m *ResponseMessage) LookupComponent(c rfc9421.CoveredComponent) (string, bool) {
	v, ok, err := resolveResponseComponent(m.Resp, m.Req, c)
	if err != nil || !ok {
		return "", false
	}
	return v, true
}

func resolveResponseComponent(resp *http.Response, req *http.Request, c rfc9421.CoveredComponent) (string, bool, error) {
	if c.Derived != nil && c.Derived.Kind == rfc9421.DerivedStatus {
		return strconv.Itoa(resp.StatusCode), true, nil
	}
	if isRequestScoped(c) {
		if req == nil {
			return "", false, fmt.Errorf("httpadapter: component %q requires the originating request", c.Key())
		}
		return resolveComponent(req, nil, stripReq(c))
	}
	return resolveHeaderOnly(resp.Header, c)
}

// isRequestScoped reports whether c carries the ";req" parameter that
// redirects resolution to the originating request of a response.
func isRequestScoped(c rfc9421.CoveredComponent) bool {
	if c.Derived != nil {
		return c.Derived.Req
	}
	if c.HTTP != nil {
		for _, p := range c.HTTP.Parameters {
			if p.Kind == rfc9421.ParamReq {
				return true
			}
		}
	}
	return false
}

func stripReq(c rfc9421.CoveredComponent) rfc9421.CoveredComponent {
	if c.Derived != nil {
		d := *c.Derived
		d.Req = false
		return rfc9421.CoveredComponent{Derived: &d}
	}
	if c.HTTP != nil {
		f := *c.HTTP
		params := make([]rfc9421.HTTPFieldParameter, 0, len(f.Parameters))
		for _, p := range f.Parameters {
			if p.Kind != rfc9421.ParamReq {
				params = append(params, p)
			}
		}
		f.Parameters = params
		return rfc9421.CoveredComponent{HTTP: &f}
	}
	return c
}

// resolveHeaderOnly resolves an HTTP-field component against a bare
// header map, used when no *http.Request is available (response
// headers that are not request-scoped).
func resolveHeaderOnly(header http.Header, c rfc9421.CoveredComponent) (string, bool, error) {
	if c.HTTP == nil {
		return "", false, fmt.Errorf("httpadapter: component %q is not resolvable without a request", c.Key())
	}
	return resolveHTTPField(header, *c.HTTP)
}

// joinHeaderValues implements RFC 9421 §2.1's combination rule: strip
// leading/trailing whitespace from every field line and join with ", ".
func joinHeaderValues(values []string) string {
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}
	return strings.Join(trimmed, ", ")
}
