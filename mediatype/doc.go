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

// Package mediatype models HTTP media types, the media ranges a client
// sends in an Accept header and the representations a server declares it
// can produce.
//
// Quality values ("q" on ranges, "qs" on declarations) are held as fixed
// point thousandths so that ordering never depends on floating point
// rounding:
//
//	q, _ := mediatype.ParseQuality("0.567") // 567
//
// Parsing is strict: a malformed media type is reported as a *ParseError
// rather than silently dropped.
//
//	ranges, err := mediatype.ParseAccept("text/html, application/json;q=0.8")
//	produces, err := mediatype.ParseProduces("application/json;qs=0.9", "text/html")
//
// All values are immutable after parsing and safe to share between
// goroutines.
package mediatype
