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
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/negotiation/mediatype"
)

const instrumentationName = "rivaas.dev/negotiation"

// Decision outcomes recorded on the "outcome" attribute.
const (
	OutcomeSelected      = "selected"
	OutcomeNotAcceptable = "not_acceptable"
	OutcomeInvalidAccept = "invalid_accept"
)

type instruments struct {
	decisions metric.Int64Counter
}

func newInstruments(provider metric.MeterProvider) (*instruments, error) {
	meter := provider.Meter(instrumentationName)

	decisions, err := meter.Int64Counter(
		"negotiation.decisions",
		metric.WithDescription("Content negotiation decisions by outcome"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	return &instruments{decisions: decisions}, nil
}

// record counts a decision and adds an event to the active span, if any.
func (n *Negotiator) record(ctx context.Context, outcome string, contentType mediatype.MediaType) {
	attrs := []attribute.KeyValue{
		attribute.String("outcome", outcome),
	}
	if contentType.Type != "" {
		attrs = append(attrs, attribute.String("content_type", contentType.Essence()))
	}

	n.instruments.decisions.Add(ctx, 1, metric.WithAttributes(attrs...))

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("negotiation."+outcome, trace.WithAttributes(attrs...))
	}
}
