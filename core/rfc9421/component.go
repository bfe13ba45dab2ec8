// SPDX-License-Identifier: LGPL-3.0-or-later

package rfc9421

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lestrrat-go/sfv"
)

// derivedByName maps every canonical "@..." string (other than
// "@query-param", which needs its own parameter parsing) to its Kind.
var derivedByName = func() map[string]DerivedKind {
	m := make(map[string]DerivedKind, len(derivedNames))
	for k, name := range derivedNames {
		if k == DerivedQueryParams {
			continue
		}
		m[name] = k
	}
	return m
}()

// ParseComponentItem converts a single SFV item taken from inside a
// Signature-Input inner-list into a CoveredComponent, per the
// parsing rules in the component identifier grammar. item's bare
// value must be a string.
func ParseComponentItem(item sfv.Item) (CoveredComponent, error) {
	var name string
	if err := item.GetValue(&name); err != nil {
		return CoveredComponent{}, wrapError(ErrParsing, "component identifier must be a string", err)
	}

	params := item.Parameters()

	if strings.HasPrefix(name, "@") {
		if name == "@query-param" {
			qp, err := parseQueryParamParameters(params)
			if err != nil {
				return CoveredComponent{}, err
			}
			return CoveredComponent{Derived: &DerivedComponent{Kind: DerivedQueryParams, Parameters: qp}}, nil
		}

		kind, ok := derivedByName[name]
		if !ok {
			return CoveredComponent{}, newError(ErrParsing, fmt.Sprintf("unknown derived component %q", name))
		}

		req, err := fetchReq(params, name)
		if err != nil {
			return CoveredComponent{}, err
		}
		return CoveredComponent{Derived: &DerivedComponent{Kind: kind, Req: req}}, nil
	}

	lower := strings.ToLower(name)
	fp, err := parseHTTPFieldParameters(params)
	if err != nil {
		return CoveredComponent{}, err
	}
	return CoveredComponent{HTTP: &HTTPField{Name: lower, Parameters: fp}}, nil
}

// fetchReq enforces the "0 params -> false, 1 param named req that is
// boolean, 2+ params -> error" rule shared by every single-req derived
// component.
func fetchReq(params *sfv.Params, componentName string) (bool, error) {
	if params == nil || len(params.Values) == 0 {
		return false, nil
	}
	if len(params.Values) > 1 {
		return false, newError(ErrParsing, fmt.Sprintf("%s: at most one parameter is allowed", componentName))
	}
	v, ok := params.Values["req"]
	if !ok {
		for k := range params.Values {
			return false, newError(ErrParsing, fmt.Sprintf("%s: unknown parameter %q", componentName, k))
		}
	}
	var req bool
	if err := v.GetValue(&req); err != nil {
		return false, wrapError(ErrParsing, fmt.Sprintf("%s: req must be boolean", componentName), err)
	}
	return req, nil
}

// parseHTTPFieldParameters applies the recognized-keys, boolean/string
// typing, and sf/bs/key mutual-exclusion rules.
func parseHTTPFieldParameters(params *sfv.Params) ([]HTTPFieldParameter, error) {
	var out []HTTPFieldParameter
	if params == nil {
		return out, nil
	}

	var sfSeen, bsSeen, keySeen bool

	for _, k := range params.Keys {
		v := params.Values[k]
		switch k {
		case "sf":
			if bsSeen || keySeen {
				return nil, newError(ErrParsing, "sf is mutually exclusive with bs/key")
			}
			var b bool
			if err := v.GetValue(&b); err != nil {
				return nil, wrapError(ErrParsing, "sf must be boolean", err)
			}
			if b {
				sfSeen = true
				out = appendFieldParam(out, HTTPFieldParameter{Kind: ParamSf})
			}
		case "bs":
			if sfSeen || keySeen {
				return nil, newError(ErrParsing, "bs is mutually exclusive with sf/key")
			}
			var b bool
			if err := v.GetValue(&b); err != nil {
				return nil, wrapError(ErrParsing, "bs must be boolean", err)
			}
			if b {
				bsSeen = true
				out = appendFieldParam(out, HTTPFieldParameter{Kind: ParamBs})
			}
		case "key":
			if sfSeen || bsSeen {
				return nil, newError(ErrParsing, "key is mutually exclusive with sf/bs")
			}
			var s string
			if err := v.GetValue(&s); err != nil {
				return nil, wrapError(ErrParsing, "key must be a string", err)
			}
			keySeen = true
			out = appendFieldParam(out, HTTPFieldParameter{Kind: ParamKey, Key: s})
		case "tr":
			var b bool
			if err := v.GetValue(&b); err != nil {
				return nil, wrapError(ErrParsing, "tr must be boolean", err)
			}
			if b {
				out = appendFieldParam(out, HTTPFieldParameter{Kind: ParamTr})
			}
		case "req":
			var b bool
			if err := v.GetValue(&b); err != nil {
				return nil, wrapError(ErrParsing, "req must be boolean", err)
			}
			if b {
				out = appendFieldParam(out, HTTPFieldParameter{Kind: ParamReq})
			}
		default:
			return nil, newError(ErrParsing, fmt.Sprintf("unknown HTTP field parameter %q", k))
		}
	}

	return out, nil
}

// appendFieldParam replaces an existing entry of the same Kind (SFV
// dictionary semantics: the last occurrence of a key wins) instead of
// appending a duplicate, which is how repeated same-tag booleans like
// ";sf;sf" coalesce into a single tag.
func appendFieldParam(params []HTTPFieldParameter, p HTTPFieldParameter) []HTTPFieldParameter {
	for i, existing := range params {
		if existing.Kind == p.Kind {
			params[i] = p
			return params
		}
	}
	return append(params, p)
}

func parseQueryParamParameters(params *sfv.Params) ([]QueryParamParameter, error) {
	var out []QueryParamParameter
	if params == nil {
		return out, nil
	}

	for _, k := range params.Keys {
		v := params.Values[k]
		switch k {
		case "name":
			var s string
			if err := v.GetValue(&s); err != nil {
				return nil, wrapError(ErrParsing, "name must be a string", err)
			}
			out = appendQueryParam(out, QueryParamParameter{Kind: QueryParamName, Name: s})
		case "req":
			var b bool
			if err := v.GetValue(&b); err != nil {
				return nil, wrapError(ErrParsing, "req must be boolean", err)
			}
			if b {
				out = appendQueryParam(out, QueryParamParameter{Kind: QueryParamReq})
			}
		default:
			return nil, newError(ErrParsing, fmt.Sprintf("unknown query-param parameter %q", k))
		}
	}

	return out, nil
}

func appendQueryParam(params []QueryParamParameter, p QueryParamParameter) []QueryParamParameter {
	for i, existing := range params {
		if existing.Kind == p.Kind {
			params[i] = p
			return params
		}
	}
	return append(params, p)
}

// SerializeComponentItem renders a CoveredComponent back to its exact
// SFV item text, e.g. `"content-length";sf` or `"@authority";req`.
// HTTP field names are always emitted lowercase.
func SerializeComponentItem(c CoveredComponent) (string, error) {
	if c.Derived != nil {
		if c.Derived.Kind == DerivedQueryParams {
			if err := validateQueryParamParameters(c.Derived.Parameters); err != nil {
				return "", err
			}
			s := fmt.Sprintf("%q", c.Derived.Name())
			for _, p := range c.Derived.Parameters {
				switch p.Kind {
				case QueryParamName:
					s += fmt.Sprintf(";name=%q", p.Name)
				case QueryParamReq:
					s += ";req"
				}
			}
			return s, nil
		}
		s := fmt.Sprintf("%q", c.Derived.Name())
		if c.Derived.Req {
			s += ";req"
		}
		return s, nil
	}

	if c.HTTP == nil {
		return "", newError(ErrImpossibleSerialization, "covered component has neither HTTP nor Derived set")
	}

	if err := validateHTTPFieldParameters(c.HTTP.Parameters); err != nil {
		return "", err
	}

	s := fmt.Sprintf("%q", strings.ToLower(c.HTTP.Name))
	for _, p := range c.HTTP.Parameters {
		switch p.Kind {
		case ParamKey:
			s += fmt.Sprintf(";key=%q", p.Key)
		default:
			s += ";" + p.Kind.String()
		}
	}
	return s, nil
}

// validateHTTPFieldParameters re-checks the duplicate and
// mutual-exclusion invariants at serialization time: a parameter
// sequence built programmatically (rather than parsed) can violate
// them in ways parsing's coalescing behavior would have prevented.
func validateHTTPFieldParameters(params []HTTPFieldParameter) error {
	seen := map[HTTPFieldParamKind]bool{}
	var sfSeen, bsSeen, keySeen bool
	for _, p := range params {
		if seen[p.Kind] {
			return newError(ErrParsing, fmt.Sprintf("duplicate %s parameter", p.Kind))
		}
		seen[p.Kind] = true
		switch p.Kind {
		case ParamSf:
			if bsSeen || keySeen {
				return newError(ErrParsing, "sf is mutually exclusive with bs/key")
			}
			sfSeen = true
		case ParamBs:
			if sfSeen || keySeen {
				return newError(ErrParsing, "bs is mutually exclusive with sf/key")
			}
			bsSeen = true
		case ParamKey:
			if sfSeen || bsSeen {
				return newError(ErrParsing, "key is mutually exclusive with sf/bs")
			}
			keySeen = true
		}
	}
	return nil
}

func validateQueryParamParameters(params []QueryParamParameter) error {
	seen := map[QueryParamParamKind]bool{}
	for _, p := range params {
		if seen[p.Kind] {
			return newError(ErrParsing, "duplicate query-param parameter")
		}
		seen[p.Kind] = true
	}
	return nil
}

// sortedParamKeys is a small helper retained for callers that need a
// deterministic iteration order over an *sfv.Params whose own Keys
// field is absent or unordered.
func sortedParamKeys(params *sfv.Params) []string {
	keys := make([]string, 0, len(params.Values))
	for k := range params.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
