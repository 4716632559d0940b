// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resource

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"rivaas.dev/router"

	"rivaas.dev/negotiation/mediatype"
)

// Handler serves a request once a representation has been selected. The
// Content-Type header is already set when it runs. A returned error is
// written as a problem response.
type Handler func(c *router.Context, rep Representation) error

// Representation describes the negotiated response.
type Representation struct {
	// ContentType is the concrete media type being sent.
	ContentType mediatype.MediaType

	// Declaration is the winning declaration of the method; "*/*" when the
	// method declares nothing.
	Declaration mediatype.Producible

	// Method is the index of the selected method in Resource.Methods.
	Method int
}

// Method is one HTTP method served at a resource path.
type Method struct {
	// Verb is the HTTP method, such as "GET". Case insensitive.
	Verb string

	// Produces lists the media types the method can return, in preference
	// order. Entries may be comma separated lists, carry a "qs" parameter,
	// or use short names such as "json". Empty means anything.
	Produces []string

	// Consumes lists the request media types the method accepts. A
	// declaration must cover the request type, so "text/*" accepts
	// "text/csv" but "*/*" is only accepted by "*/*". Empty
	// means anything.
	Consumes []string

	// Handler serves the request.
	Handler Handler
}

// Resource is a path and the methods served there.
type Resource struct {
	// Path is a router pattern such as "/users/:id".
	Path string

	// Methods are tried in declaration order.
	Methods []Method
}

// Verbs that can be mounted.
var verbs = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// boundMethod is a Method with its declarations parsed.
type boundMethod struct {
	index    int
	verb     string
	produces []mediatype.Producible
	consumes []mediatype.MediaType
	handler  Handler
}

// compiled is a Resource ready to be registered.
type compiled struct {
	path   string
	order  []string
	byVerb map[string][]*boundMethod
}

func compile(res Resource) (*compiled, error) {
	if res.Path == "" || !strings.HasPrefix(res.Path, "/") {
		return nil, &declarationError{path: res.Path, method: -1, err: errors.New("path must start with /")}
	}
	if len(res.Methods) == 0 {
		return nil, &declarationError{path: res.Path, method: -1, err: errors.New("no methods declared")}
	}

	c := &compiled{
		path:   res.Path,
		byVerb: make(map[string][]*boundMethod),
	}

	for i, m := range res.Methods {
		bm, err := bind(i, m)
		if err != nil {
			return nil, &declarationError{path: res.Path, method: i, err: err}
		}
		if _, ok := c.byVerb[bm.verb]; !ok {
			c.order = append(c.order, bm.verb)
		} else if bm.verb == http.MethodOptions {
			return nil, &declarationError{path: res.Path, method: i, err: errors.New("OPTIONS declared more than once")}
		}
		c.byVerb[bm.verb] = append(c.byVerb[bm.verb], bm)
	}

	return c, nil
}

func bind(index int, m Method) (*boundMethod, error) {
	verb := strings.ToUpper(strings.TrimSpace(m.Verb))
	if !slices.Contains(verbs, verb) {
		return nil, fmt.Errorf("unsupported verb %q", m.Verb)
	}
	if m.Handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	produces, err := mediatype.ParseProduces(normalize(m.Produces)...)
	if err != nil {
		return nil, fmt.Errorf("produces: %w", err)
	}

	decls, err := mediatype.ParseProduces(normalize(m.Consumes)...)
	if err != nil {
		return nil, fmt.Errorf("consumes: %w", err)
	}
	consumes := make([]mediatype.MediaType, len(decls))
	for i, d := range decls {
		consumes[i] = d.MediaType
	}

	return &boundMethod{
		index:    index,
		verb:     verb,
		produces: produces,
		consumes: consumes,
		handler:  m.Handler,
	}, nil
}

// normalize expands short names ("json", "csv;qs=0.5") in every list
// element. Anything else is passed through untouched.
func normalize(decls []string) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		parts := strings.Split(d, ",")
		for j, part := range parts {
			name, params, hasParams := strings.Cut(part, ";")
			name = strings.TrimSpace(name)
			full := mediatype.Normalize(name)
			if full == name {
				continue
			}
			if hasParams {
				full += ";" + params
			}
			parts[j] = full
		}
		out[i] = strings.Join(parts, ",")
	}
	return out
}
