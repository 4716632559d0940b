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

package negotiation

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"rivaas.dev/negotiation/mediatype"
)

// noopLogger is used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// anyProducible stands for a resource that declares no media types.
var anyProducible = mediatype.Producible{MediaType: mediatype.Any, QS: mediatype.MaxQuality}

// Negotiator selects response representations. Create one with New.
type Negotiator struct {
	tieBreak       TieBreak
	defaultTypeRaw string
	defaultType    mediatype.MediaType
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	instruments    *instruments
}

// Result is the outcome of a successful negotiation.
type Result struct {
	// Producible is the winning declaration. It is "*/*" when the resource
	// declared nothing.
	Producible mediatype.Producible

	// Range is the client range the declaration was matched against.
	Range mediatype.Range

	// ContentType is the concrete media type to send, without q or qs.
	ContentType mediatype.MediaType

	// Weight is Range.Q times Producible.QS.
	Weight mediatype.Weight
}

// New creates a Negotiator.
//
// Example:
//
//	n, err := negotiation.New(
//	    negotiation.WithTieBreak(negotiation.PreferSpecific),
//	    negotiation.WithLogger(logger),
//	)
func New(opts ...Option) (*Negotiator, error) {
	n := &Negotiator{
		tieBreak:       PreferSpecific,
		defaultTypeRaw: DefaultType,
		logger:         noopLogger,
		meterProvider:  noop.NewMeterProvider(),
	}

	for _, opt := range opts {
		opt(n)
	}

	if err := n.validate(); err != nil {
		return nil, fmt.Errorf("negotiation: invalid configuration: %w", err)
	}

	inst, err := newInstruments(n.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("negotiation: create instruments: %w", err)
	}
	n.instruments = inst

	return n, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(opts ...Option) *Negotiator {
	n, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Negotiator) validate() error {
	switch n.tieBreak {
	case PreferSpecific, PreferDeclared:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidTieBreak, n.tieBreak)
	}

	mt, err := mediatype.Parse(n.defaultTypeRaw)
	if err != nil {
		return fmt.Errorf("default type: %w", err)
	}
	if !mt.IsConcrete() {
		return fmt.Errorf("%w: %s", ErrDefaultTypeNotConcrete, mt)
	}
	n.defaultType = mt

	return nil
}

// TieBreak returns the configured tie break policy.
func (n *Negotiator) TieBreak() TieBreak {
	return n.tieBreak
}

// NegotiateHeader parses an Accept header and negotiates against produces.
// A malformed header yields an error matching mediatype.ErrInvalidMediaType.
func (n *Negotiator) NegotiateHeader(ctx context.Context, header string, produces []mediatype.Producible) (Result, error) {
	accept, err := mediatype.ParseAccept(header)
	if err != nil {
		n.record(ctx, OutcomeInvalidAccept, mediatype.MediaType{})
		n.logger.DebugContext(ctx, "invalid accept header", "accept", header, "error", err)
		return Result{}, fmt.Errorf("negotiation: accept header: %w", err)
	}
	return n.Negotiate(ctx, accept, produces)
}

// Negotiate selects the best declaration in produces for the client ranges
// in accept. An empty accept is treated as "*/*". An empty produces means
// the resource can produce anything, and the client ranges alone decide.
//
// The error, if any, is a *NotAcceptableError.
func (n *Negotiator) Negotiate(ctx context.Context, accept []mediatype.Range, produces []mediatype.Producible) (Result, error) {
	if len(accept) == 0 {
		accept = []mediatype.Range{mediatype.AnyRange}
	}

	var (
		res Result
		ok  bool
	)
	if len(produces) == 0 {
		res, ok = n.unconstrained(accept)
	} else {
		res, ok = n.constrained(accept, produces)
	}

	if !ok {
		n.record(ctx, OutcomeNotAcceptable, mediatype.MediaType{})
		if n.logger.Enabled(ctx, slog.LevelDebug) {
			n.logger.DebugContext(ctx, "no acceptable representation",
				"accept", formatRanges(accept),
				"produces", formatProduces(produces),
			)
		}
		return Result{}, &NotAcceptableError{Accept: accept, Produces: produces}
	}

	n.record(ctx, OutcomeSelected, res.ContentType)
	if n.logger.Enabled(ctx, slog.LevelDebug) {
		n.logger.DebugContext(ctx, "negotiated representation",
			"content_type", res.ContentType.String(),
			"declaration", res.Producible.String(),
			"range", res.Range.String(),
			"weight", res.Weight.String(),
		)
	}
	return res, nil
}

// candidate is a compatible (range, declaration) pair.
type candidate struct {
	rng         mediatype.Range
	prod        mediatype.Producible
	weight      mediatype.Weight
	specificity int
}

// constrained ranks every compatible pair and resolves the winner.
func (n *Negotiator) constrained(accept []mediatype.Range, produces []mediatype.Producible) (Result, bool) {
	var (
		best  candidate
		found bool
	)

	for _, p := range produces {
		for _, r := range accept {
			if !mediatype.Compatible(r.MediaType, p.MediaType) {
				continue
			}
			// q=0 applies to the type the pair would send, so "text/*"
			// still serves "text/html, */*;q=0".
			if excluded(accept, mediatype.MostSpecific(p.MediaType, r.MediaType)) {
				continue
			}
			w := r.Q.Times(p.QS)
			if w == 0 {
				continue
			}
			c := candidate{
				rng:         r,
				prod:        p,
				weight:      w,
				specificity: r.Specificity() + p.Specificity(),
			}
			if !found || n.compare(c, best) < 0 {
				best, found = c, true
			}
		}
	}

	if !found {
		return Result{}, false
	}

	contentType, ok := n.resolve(best, accept)
	if !ok {
		return Result{}, false
	}

	return Result{
		Producible:  best.prod,
		Range:       best.rng,
		ContentType: contentType,
		Weight:      best.weight,
	}, true
}

// compare orders candidates, best first. Both policies are lexicographic so
// the result does not depend on the order candidates are visited in.
func (n *Negotiator) compare(a, b candidate) int {
	if c := cmp.Compare(b.weight, a.weight); c != 0 {
		return c
	}

	if n.tieBreak == PreferDeclared {
		return cmp.Or(
			cmp.Compare(b.rng.Specificity(), a.rng.Specificity()),
			cmp.Compare(a.prod.Order, b.prod.Order),
			cmp.Compare(b.prod.Specificity(), a.prod.Specificity()),
			cmp.Compare(a.rng.Index, b.rng.Index),
		)
	}

	return cmp.Or(
		cmp.Compare(b.specificity, a.specificity),
		cmp.Compare(b.prod.Specificity(), a.prod.Specificity()),
		cmp.Compare(a.prod.Order, b.prod.Order),
		cmp.Compare(a.rng.Index, b.rng.Index),
	)
}

// resolve turns the winning pair into a concrete Content-Type.
func (n *Negotiator) resolve(best candidate, accept []mediatype.Range) (mediatype.MediaType, bool) {
	mt := mediatype.MostSpecific(best.prod.MediaType, best.rng.MediaType)
	if mt.IsConcrete() {
		return mt.WithoutParams("q", "qs"), true
	}
	return n.concretize(mt, accept)
}

// concretize picks a concrete type within the wildcard mt: the most
// preferred concrete client range, then the default type.
func (n *Negotiator) concretize(mt mediatype.MediaType, accept []mediatype.Range) (mediatype.MediaType, bool) {
	for _, r := range preferenceOrder(accept) {
		if r.Q == 0 {
			break
		}
		if r.IsConcrete() && mediatype.Compatible(r.MediaType, mt) && !excluded(accept, r.MediaType) {
			return r.MediaType, true
		}
	}

	if mediatype.Compatible(n.defaultType, mt) && acceptable(accept, n.defaultType) {
		return n.defaultType, true
	}
	return mediatype.MediaType{}, false
}

// unconstrained handles resources that declare no media types. The client
// ranges are taken in preference order and the first one that yields a
// concrete type wins.
func (n *Negotiator) unconstrained(accept []mediatype.Range) (Result, bool) {
	for _, r := range preferenceOrder(accept) {
		if r.Q == 0 {
			break
		}

		var contentType mediatype.MediaType
		switch {
		case r.IsConcrete():
			contentType = r.MediaType
		case mediatype.Compatible(r.MediaType, n.defaultType) && acceptable(accept, n.defaultType):
			contentType = n.defaultType
		default:
			continue
		}

		return Result{
			Producible:  anyProducible,
			Range:       r,
			ContentType: contentType,
			Weight:      r.Q.Times(mediatype.MaxQuality),
		}, true
	}
	return Result{}, false
}

// preferenceOrder returns the ranges sorted by q, then specificity, then
// header order. The input is not modified.
func preferenceOrder(accept []mediatype.Range) []mediatype.Range {
	ordered := slices.Clone(accept)
	slices.SortStableFunc(ordered, func(a, b mediatype.Range) int {
		if c := cmp.Compare(b.Q, a.Q); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Specificity(), a.Specificity()); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return ordered
}

// excluded reports whether the most specific range covering mt has q=0.
func excluded(accept []mediatype.Range, mt mediatype.MediaType) bool {
	bestSpecificity := -1
	zero := false
	for _, r := range accept {
		if !mediatype.Covers(r.MediaType, mt) {
			continue
		}
		switch s := r.Specificity(); {
		case s > bestSpecificity:
			bestSpecificity = s
			zero = r.Q == 0
		case s == bestSpecificity && r.Q == 0:
			zero = true
		}
	}
	return zero
}

// acceptable reports whether some positive range admits mt and mt is not excluded.
func acceptable(accept []mediatype.Range, mt mediatype.MediaType) bool {
	if excluded(accept, mt) {
		return false
	}
	for _, r := range accept {
		if r.Q > 0 && mediatype.Compatible(r.MediaType, mt) {
			return true
		}
	}
	return false
}

func formatRanges(accept []mediatype.Range) string {
	parts := make([]string, len(accept))
	for i, r := range accept {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func formatProduces(produces []mediatype.Producible) string {
	parts := make([]string, len(produces))
	for i, p := range produces {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
