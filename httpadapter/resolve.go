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

package httpadapter

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/lestrrat-go/sfv"

	"github.com/sage-x-project/httpsig/core/rfc9421"
	"github.com/sage-x-project/httpsig/internal/sfvdict"
)

// resolveComponent resolves a single covered component against req. It
// is also used by ResponseMessage for ";req"-scoped components, with
// the ";req" parameter already stripped by the caller. The second
// (blank) parameter is accepted for symmetry with resolveResponseComponent but is unused
// here since a request has no "originating request" of its own.
func resolveComponent(req *http.Request, _ *http.Request, c rfc9421.CoveredComponent) (string, bool, error) {
	if c.Derived != nil {
		return resolveDerived(req, *c.Derived)
	}
	if c.HTTP != nil {
		return resolveHTTPField(req.Header, *c.HTTP)
	}
	return "", false, fmt.Errorf("httpadapter: empty covered component")
}

func resolveDerived(req *http.Request, d rfc9421.DerivedComponent) (string, bool, error) {
	switch d.Kind {
	case rfc9421.DerivedMethod:
		return req.Method, true, nil

	case rfc9421.DerivedAuthority:
		host := req.Host
		if host == "" {
			host = req.URL.Host
		}
		return strings.ToLower(host), true, nil

	case rfc9421.DerivedScheme:
		if req.URL.Scheme != "" {
			return strings.ToLower(req.URL.Scheme), true, nil
		}
		if req.TLS != nil {
			return "https", true, nil
		}
		return "http", true, nil

	case rfc9421.DerivedTargetURI:
		scheme, _, err := resolveDerived(req, rfc9421.DerivedComponent{Kind: rfc9421.DerivedScheme})
		if err != nil {
			return "", false, err
		}
		host := req.Host
		if host == "" {
			host = req.URL.Host
		}
		return fmt.Sprintf("%s://%s%s", scheme, host, req.URL.RequestURI()), true, nil

	case rfc9421.DerivedPath:
		path := req.URL.EscapedPath()
		if path == "" {
			path = "/"
		}
		return path, true, nil

	case rfc9421.DerivedQuery:
		if req.URL.RawQuery == "" {
			return "?", true, nil
		}
		return "?" + req.URL.RawQuery, true, nil

	case rfc9421.DerivedRequestTarget:
		path, _, err := resolveDerived(req, rfc9421.DerivedComponent{Kind: rfc9421.DerivedPath})
		if err != nil {
			return "", false, err
		}
		target := path
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		return fmt.Sprintf("%s %s", strings.ToLower(req.Method), target), true, nil

	case rfc9421.DerivedStatus:
		return "", false, fmt.Errorf("httpadapter: @status is only defined for responses")

	case rfc9421.DerivedQueryParams:
		return resolveQueryParam(req, d.Parameters)

	default:
		return "", false, fmt.Errorf("httpadapter: unknown derived component kind %d", d.Kind)
	}
}

func resolveQueryParam(req *http.Request, params []rfc9421.QueryParamParameter) (string, bool, error) {
	var name string
	for _, p := range params {
		if p.Kind == rfc9421.QueryParamName {
			name = p.Name
		}
	}
	if name == "" {
		return "", false, fmt.Errorf("httpadapter: @query-param requires a name parameter")
	}

	values := req.URL.Query()[name]
	if len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

// resolveHTTPField resolves a named HTTP field against header,
// applying the field's ordered parameters (sf, key, bs) in turn. tr
// (trailers) is not resolvable from a header map and is rejected.
func resolveHTTPField(header http.Header, f rfc9421.HTTPField) (string, bool, error) {
	raw, ok := header[http.CanonicalHeaderKey(f.Name)]
	if !ok || len(raw) == 0 {
		return "", false, nil
	}
	value := joinHeaderValues(raw)

	for _, p := range f.Parameters {
		var err error
		switch p.Kind {
		case rfc9421.ParamSf:
			value, err = canonicalizeStructuredField(value)
		case rfc9421.ParamBs:
			value = fmt.Sprintf(":%s:", base64.StdEncoding.EncodeToString([]byte(value)))
		case rfc9421.ParamKey:
			value, err = extractDictionaryMember(value, p.Key)
		case rfc9421.ParamTr:
			return "", false, fmt.Errorf("httpadapter: trailer fields are not supported by this adapter")
		case rfc9421.ParamReq:
			// handled by the caller before resolveHTTPField is reached
		}
		if err != nil {
			return "", false, err
		}
	}
	return value, true, nil
}

// canonicalizeStructuredField re-serializes a structured-field header
// value in its strict RFC 8941 form, per RFC 9421 §2.1.1.
func canonicalizeStructuredField(raw string) (string, error) {
	v, err := sfv.Parse([]byte(raw))
	if err != nil {
		return "", fmt.Errorf("httpadapter: field is not a valid structured field: %w", err)
	}
	out, err := sfv.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("httpadapter: failed to re-serialize structured field: %w", err)
	}
	return string(out), nil
}

// extractDictionaryMember returns the raw SFV text of a single member
// of a dictionary-valued field, per RFC 9421 §2.1.2.
func extractDictionaryMember(raw, key string) (string, error) {
	members, err := sfvdict.Split(raw)
	if err != nil {
		return "", fmt.Errorf("httpadapter: field is not a valid dictionary: %w", err)
	}
	for _, m := range members {
		if m.Label == key {
			return m.Raw, nil
		}
	}
	return "", fmt.Errorf("httpadapter: dictionary has no member %q", key)
}
