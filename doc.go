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

// Package negotiation selects the representation a server should send for
// a request, given the client's Accept header and the media types the
// server declares it can produce.
//
// # Algorithm
//
// Every declaration is paired with every compatible client range. Each pair
// is scored by its weight, the product of the client "q" and the server "qs"
// quality, and the best pair wins. Pairs are ordered by:
//
//  1. weight, highest first
//  2. specificity of the match: a concrete range against a concrete
//     declaration beats "text/*" against a concrete declaration, which beats
//     "*/*" against anything
//  3. declaration order, earliest first
//  4. position of the range in the Accept header
//
// A pair is dropped when the most specific range covering the type it would
// send has q=0, so "*/*, text/html;q=0" never selects text/html while a
// "text/*" declaration still serves "text/plain, */*;q=0".
//
// When a resource declares nothing, the client's preferences alone decide:
// ranges are ordered by q, then specificity, then header order, and the
// first concrete one becomes the response Content-Type.
//
// Weights are fixed point integers; see [mediatype.Quality].
//
// # Quick Start
//
//	n := negotiation.MustNew()
//
//	produces := mediatype.MustParseProduces("application/foo;qs=0.4", "application/bar;qs=0.5")
//	res, err := n.NegotiateHeader(ctx, "application/foo;q=0.4, application/bar;q=0.4", produces)
//	if errors.Is(err, negotiation.ErrNotAcceptable) {
//	    // 406
//	}
//	w.Header().Set("Content-Type", res.ContentType.String()) // application/bar
//
// # Wildcard declarations
//
// A declaration may itself be a wildcard, such as "text/*". The response
// Content-Type is then taken from the matching client range. When both sides
// are wildcards, the first concrete range the client accepts is used, then
// the configured default type (application/octet-stream) if it is
// compatible; otherwise the request is not acceptable.
//
// Whether a concrete declaration beats an equally weighted wildcard
// declaration that was declared first is a policy choice, see [TieBreak].
//
// # Concurrency
//
// A Negotiator is immutable after construction and safe for concurrent use.
// Negotiation itself never blocks.
package negotiation
