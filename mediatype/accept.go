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

package mediatype

// Range is one media range from an Accept header.
type Range struct {
	MediaType

	// Q is the client quality, MaxQuality when absent.
	Q Quality
	// Index is the position of the range in the header.
	Index int
}

// AnyRange is "*/*;q=1", the range assumed when a request has no Accept header.
var AnyRange = Range{MediaType: Any, Q: MaxQuality}

// ParseRange parses a single media range such as "text/*;q=0.5".
// The q parameter is removed from Params and stored in Q.
func ParseRange(s string) (Range, error) {
	p := newParser(s, 0, len(s))
	return p.mediaRange(0)
}

// ParseAccept parses an Accept header into its media ranges, in header order.
//
// Empty list elements are ignored, so "text/html,,application/json" holds two
// ranges. An empty or blank header yields a nil slice; it is up to the caller
// to treat that as AnyRange.
func ParseAccept(header string) ([]Range, error) {
	if isBlank(header) {
		return nil, nil
	}

	bounds := splitList(header)
	ranges := make([]Range, 0, len(bounds))
	for _, b := range bounds {
		if isBlank(header[b[0]:b[1]]) {
			continue
		}
		p := newParser(header, b[0], b[1])
		r, err := p.mediaRange(len(ranges))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// MustParseAccept is like ParseAccept but panics on error.
func MustParseAccept(header string) []Range {
	ranges, err := ParseAccept(header)
	if err != nil {
		panic(err)
	}
	return ranges
}

// String formats the range, adding q when it is below 1.
func (r Range) String() string {
	if r.Q == MaxQuality {
		return r.MediaType.String()
	}
	return r.MediaType.String() + ";q=" + r.Q.String()
}

func (p *parser) mediaRange(index int) (Range, error) {
	p.skipSpace()
	start := p.pos
	mt, err := p.mediaType()
	if err != nil {
		return Range{}, err
	}

	r := Range{MediaType: mt, Q: MaxQuality, Index: index}
	if v, ok := mt.Params["q"]; ok {
		q, err := ParseQuality(v)
		if err != nil {
			return Range{}, p.failAt(start, "invalid q parameter "+v)
		}
		r.Q = q
		r.MediaType = mt.WithoutParams("q")
	}
	return r, nil
}
