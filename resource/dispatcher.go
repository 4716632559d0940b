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
	"log/slog"
	"net/http"

	riverrors "rivaas.dev/errors"
	"rivaas.dev/router"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/allow"
)

// Dispatcher mounts resources on a router. It is safe for concurrent use
// once created.
type Dispatcher struct {
	negotiator *negotiation.Negotiator
	formatter  riverrors.Formatter
	logger     *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithNegotiator sets the negotiator. Default: negotiation.New() with
// default options.
func WithNegotiator(n *negotiation.Negotiator) Option {
	return func(d *Dispatcher) {
		d.negotiator = n
	}
}

// WithFormatter sets the formatter for problem responses.
// Default: RFC 9457 problem details.
//
// Example:
//
//	resource.New(resource.WithFormatter(errors.NewRFC9457("https://api.example.com/problems")))
func WithFormatter(f riverrors.Formatter) Option {
	return func(d *Dispatcher) {
		d.formatter = f
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a Dispatcher.
func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}

	if d.negotiator == nil {
		n, err := negotiation.New()
		if err != nil {
			return nil, fmt.Errorf("resource: create negotiator: %w", err)
		}
		d.negotiator = n
	}
	if d.formatter == nil {
		d.formatter = riverrors.NewRFC9457("")
	}
	if d.logger == nil {
		d.logger = router.NoopLogger()
	}

	return d, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Dispatcher {
	d, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Mount registers the resources on r. All declarations are validated before
// any route is registered, so an error leaves r untouched. The error wraps
// ErrInvalidResource and names the resource path and method index.
func (d *Dispatcher) Mount(r *router.Router, resources ...Resource) error {
	if r == nil {
		return ErrNilRouter
	}

	all := make([]*compiled, 0, len(resources))
	seen := make(map[string]bool, len(resources))
	for _, res := range resources {
		c, err := compile(res)
		if err != nil {
			return err
		}
		if seen[c.path] {
			return &declarationError{path: c.path, method: -1, err: errors.New("path declared twice")}
		}
		seen[c.path] = true
		all = append(all, c)
	}

	for _, c := range all {
		d.register(r, c)
	}
	return nil
}

// register adds one route per verb, plus HEAD and OPTIONS when the resource
// does not declare them.
func (d *Dispatcher) register(r *router.Router, c *compiled) {
	for _, verb := range c.order {
		handle(r, verb, c.path, d.dispatch(c.byVerb[verb], verb == http.MethodHead))
	}

	if get, ok := c.byVerb[http.MethodGet]; ok {
		if _, ok := c.byVerb[http.MethodHead]; !ok {
			handle(r, http.MethodHead, c.path, d.dispatch(get, true))
		}
	}

	if _, ok := c.byVerb[http.MethodOptions]; !ok {
		bound := c.order
		r.OPTIONS(c.path, func(rc *router.Context) {
			allow.Write(rc.Response, bound)
		})
	}

	d.logger.Debug("mounted resource",
		"path", c.path,
		"methods", allow.Methods(c.order),
	)
}

func handle(r *router.Router, verb, path string, h router.HandlerFunc) {
	switch verb {
	case http.MethodGet:
		r.GET(path, h)
	case http.MethodHead:
		r.HEAD(path, h)
	case http.MethodPost:
		r.POST(path, h)
	case http.MethodPut:
		r.PUT(path, h)
	case http.MethodPatch:
		r.PATCH(path, h)
	case http.MethodDelete:
		r.DELETE(path, h)
	case http.MethodOptions:
		r.OPTIONS(path, h)
	}
}
