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

// Producible is a media type a server declares it can produce.
type Producible struct {
	MediaType

	// QS is the server side quality, MaxQuality when absent.
	QS Quality
	// Order is the declaration position, used to break ties.
	Order int
}

// ParseProducible parses a declaration such as "application/json;qs=0.9".
// The qs parameter is removed from Params and stored in QS.
func ParseProducible(s string, order int) (Producible, error) {
	p := newParser(s, 0, len(s))
	pr, err := p.producible(order)
	if err != nil {
		return Producible{}, err
	}
	if !p.done() {
		return Producible{}, p.fail("unexpected trailing characters")
	}
	return pr, nil
}

// ParseProduces parses declarations in order. Each declaration may itself
// be a comma separated list; orders are assigned across all of them.
//
//	ParseProduces("application/xml", "application/json;qs=0.5, text/plain")
//	// orders: xml 0, json 1, text 2
func ParseProduces(decls ...string) ([]Producible, error) {
	out := make([]Producible, 0, len(decls))
	for _, decl := range decls {
		for _, b := range splitList(decl) {
			if isBlank(decl[b[0]:b[1]]) {
				continue
			}
			p := newParser(decl, b[0], b[1])
			pr, err := p.producible(len(out))
			if err != nil {
				return nil, err
			}
			out = append(out, pr)
		}
	}
	return out, nil
}

// MustParseProduces is like ParseProduces but panics on error.
func MustParseProduces(decls ...string) []Producible {
	out, err := ParseProduces(decls...)
	if err != nil {
		panic(err)
	}
	return out
}

// String formats the declaration, adding qs when it is below 1.
func (p Producible) String() string {
	if p.QS == MaxQuality {
		return p.MediaType.String()
	}
	return p.MediaType.String() + ";qs=" + p.QS.String()
}

func (p *parser) producible(order int) (Producible, error) {
	p.skipSpace()
	start := p.pos
	mt, err := p.mediaType()
	if err != nil {
		return Producible{}, err
	}

	pr := Producible{MediaType: mt, QS: MaxQuality, Order: order}
	if v, ok := mt.Params["qs"]; ok {
		qs, err := ParseQuality(v)
		if err != nil {
			return Producible{}, p.failAt(start, "invalid qs parameter "+v)
		}
		pr.QS = qs
		pr.MediaType = mt.WithoutParams("qs")
	}
	return pr, nil
}
