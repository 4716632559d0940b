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
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// DefaultType is used when a wildcard match must be turned into a concrete
// Content-Type and the client lists no concrete type of its own.
const DefaultType = "application/octet-stream"

// TieBreak decides how a wildcard declaration competes with a concrete
// declaration when both reach the same weight.
type TieBreak int

const (
	// PreferSpecific ranks the more specific match first and only then
	// falls back to declaration order. With equal weights, "text/plain"
	// beats an earlier "text/*" for an Accept of "text/plain".
	PreferSpecific TieBreak = iota

	// PreferDeclared ranks by the specificity of the client range only and
	// then by declaration order, so a wildcard declaration is not penalised
	// for being a wildcard. With equal weights, an earlier "text/*" beats
	// "text/plain". For concrete declarations both policies agree.
	PreferDeclared
)

// String returns the policy name.
func (t TieBreak) String() string {
	switch t {
	case PreferSpecific:
		return "prefer-specific"
	case PreferDeclared:
		return "prefer-declared"
	default:
		return "unknown"
	}
}

// Option configures a Negotiator.
type Option func(*Negotiator)

// WithTieBreak sets the policy for equally weighted wildcard and concrete
// declarations. Default: PreferSpecific.
//
// Example:
//
//	negotiation.MustNew(negotiation.WithTieBreak(negotiation.PreferDeclared))
func WithTieBreak(t TieBreak) Option {
	return func(n *Negotiator) {
		n.tieBreak = t
	}
}

// WithDefaultType sets the Content-Type used when a match is still a
// wildcard after considering the client's concrete ranges.
// Default: "application/octet-stream". The value must be a concrete media type.
func WithDefaultType(mediaType string) Option {
	return func(n *Negotiator) {
		n.defaultTypeRaw = mediaType
	}
}

// WithLogger sets the logger used for debug output of each decision.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Negotiator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithMeterProvider records a "negotiation.decisions" counter on the given
// provider. By default a no-op provider is used.
//
// Example:
//
//	reader := sdkmetric.NewManualReader()
//	n := negotiation.MustNew(negotiation.WithMeterProvider(
//	    sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
//	))
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(n *Negotiator) {
		if provider != nil {
			n.meterProvider = provider
		}
	}
}
