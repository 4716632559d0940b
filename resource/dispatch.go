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
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rivaas.dev/router"

	"rivaas.dev/negotiation/mediatype"
)

// dispatch returns the route handler for the methods sharing one verb.
func (d *Dispatcher) dispatch(methods []*boundMethod, head bool) router.HandlerFunc {
	// A declared OPTIONS method owns its response entirely.
	if methods[0].verb == http.MethodOptions {
		m := methods[0]
		return func(c *router.Context) {
			if err := m.handler(c, Representation{Method: m.index}); err != nil {
				d.problem(c, err)
			}
		}
	}

	return func(c *router.Context) {
		if head {
			w := &headWriter{ResponseWriter: c.Response}
			c.Response = w
			defer func() { c.Response = w.ResponseWriter }()
		}

		candidates, err := consumable(c.Request, methods)
		if err != nil {
			d.problem(c, err)
			return
		}

		produces, owners := flatten(candidates)
		accept := strings.Join(c.Request.Header.Values("Accept"), ", ")

		c.Vary("Accept")

		res, err := d.negotiator.NegotiateHeader(c.RequestContext(), accept, produces)
		if err != nil {
			d.problem(c, err)
			return
		}

		m := candidates[0]
		if len(produces) > 0 {
			m = owners[res.Producible.Order]
		}

		c.Header("Content-Type", res.ContentType.String())

		rep := Representation{
			ContentType: res.ContentType,
			Declaration: res.Producible,
			Method:      m.index,
		}
		if err := m.handler(c, rep); err != nil {
			d.problem(c, err)
		}
	}
}

// consumable filters methods by the request Content-Type. Requests without
// a Content-Type reach every method. A declaration must cover the request
// type, so a wildcard Content-Type only reaches "*/*" or undeclared methods.
func consumable(req *http.Request, methods []*boundMethod) ([]*boundMethod, error) {
	raw := req.Header.Get("Content-Type")
	if raw == "" {
		return methods, nil
	}

	ct, err := mediatype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("content type: %w", err)
	}

	var (
		out       []*boundMethod
		supported []string
	)
	for _, m := range methods {
		if len(m.consumes) == 0 {
			out = append(out, m)
			continue
		}
		for _, mt := range m.consumes {
			if mediatype.Covers(mt, ct) {
				out = append(out, m)
				break
			}
		}
		for _, mt := range m.consumes {
			supported = append(supported, mt.String())
		}
	}

	if len(out) == 0 {
		return nil, &UnsupportedMediaTypeError{ContentType: raw, Supported: supported}
	}
	return out, nil
}

// flatten merges the declarations of methods in order. A method without
// declarations contributes "*/*". owners maps each declaration order back
// to its method. When no method declares anything, produces is nil.
func flatten(methods []*boundMethod) (produces []mediatype.Producible, owners []*boundMethod) {
	declared := false
	for _, m := range methods {
		if len(m.produces) > 0 {
			declared = true
			break
		}
	}
	if !declared {
		return nil, nil
	}

	for _, m := range methods {
		if len(m.produces) == 0 {
			produces = append(produces, mediatype.Producible{
				MediaType: mediatype.Any,
				QS:        mediatype.MaxQuality,
				Order:     len(produces),
			})
			owners = append(owners, m)
			continue
		}
		for _, p := range m.produces {
			p.Order = len(produces)
			produces = append(produces, p)
			owners = append(owners, m)
		}
	}
	return produces, owners
}

// problem writes err through the configured formatter.
func (d *Dispatcher) problem(c *router.Context, err error) {
	resp := d.formatter.Format(c.Request, err)

	level := slog.LevelDebug
	if resp.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	d.logger.Log(c.RequestContext(), level, "request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", resp.Status,
		"error", err,
	)

	h := c.Response.Header()
	h.Set("Content-Type", resp.ContentType)
	for key, values := range resp.Headers {
		for _, v := range values {
			h.Add(key, v)
		}
	}
	c.Status(resp.Status)

	if encErr := json.NewEncoder(c.Response).Encode(resp.Body); encErr != nil {
		d.logger.Error("failed to write problem response", "error", encErr)
	}
}

// headWriter drops the body of a response to a HEAD request.
type headWriter struct {
	http.ResponseWriter
}

func (w *headWriter) Write(b []byte) (int, error) {
	return len(b), nil
}

func (w *headWriter) WriteString(s string) (int, error) {
	return len(s), nil
}
