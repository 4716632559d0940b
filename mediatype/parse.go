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

import "strings"

// parser scans in[pos:end]. Errors report offsets into the whole of in.
type parser struct {
	in  string
	pos int
	end int
}

func newParser(in string, start, end int) parser {
	return parser{in: in, pos: start, end: end}
}

func (p *parser) done() bool {
	return p.pos >= p.end
}

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) consume(c byte) bool {
	if !p.done() && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for !p.done() && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) token() string {
	start := p.pos
	for !p.done() && isTokenChar(p.in[p.pos]) {
		p.pos++
	}
	return p.in[start:p.pos]
}

// quoted reads a quoted-string starting at the opening quote.
func (p *parser) quoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote

	var b strings.Builder
	for !p.done() {
		c := p.in[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.done() {
				return "", p.failAt(start, "unterminated quoted string")
			}
			b.WriteByte(p.in[p.pos])
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return "", p.failAt(start, "unterminated quoted string")
}

func (p *parser) fail(reason string) *ParseError {
	return p.failAt(p.pos, reason)
}

func (p *parser) failAt(offset int, reason string) *ParseError {
	return &ParseError{Input: p.in, Offset: offset, Reason: reason}
}

// mediaType parses "type/subtype *( OWS ';' OWS name=value )" and leaves
// the parser after the last parameter and any trailing whitespace.
func (p *parser) mediaType() (MediaType, error) {
	p.skipSpace()

	typ := p.token()
	if typ == "" {
		if p.done() {
			return MediaType{}, p.fail("empty media type")
		}
		return MediaType{}, p.fail("invalid character in type")
	}
	if !p.consume('/') {
		return MediaType{}, p.fail("missing '/' separator")
	}
	sub := p.token()
	if sub == "" {
		return MediaType{}, p.fail("missing subtype")
	}

	mt := MediaType{Type: strings.ToLower(typ), Subtype: strings.ToLower(sub)}
	if mt.Type == Wildcard && mt.Subtype != Wildcard {
		return MediaType{}, p.fail("wildcard type requires wildcard subtype")
	}

	p.skipSpace()
	for !p.done() {
		if !p.consume(';') {
			return MediaType{}, p.fail("expected ';' before parameter")
		}
		p.skipSpace()
		if p.done() {
			break
		}
		if p.peek() == ';' {
			continue
		}

		nameAt := p.pos
		name := strings.ToLower(p.token())
		if name == "" {
			return MediaType{}, p.fail("missing parameter name")
		}
		p.skipSpace()
		if !p.consume('=') {
			return MediaType{}, p.fail("missing '=' after parameter name")
		}
		p.skipSpace()

		var value string
		if p.peek() == '"' {
			v, err := p.quoted()
			if err != nil {
				return MediaType{}, err
			}
			value = v
		} else {
			value = p.token()
			if value == "" {
				return MediaType{}, p.fail("missing parameter value")
			}
		}

		if mt.Params == nil {
			mt.Params = make(map[string]string, 2)
		}
		if _, dup := mt.Params[name]; dup {
			return MediaType{}, p.failAt(nameAt, "duplicate parameter "+name)
		}
		mt.Params[name] = value
		p.skipSpace()
	}

	return mt, nil
}

// splitList returns the [start, end) bounds of the comma separated elements
// of s. Commas inside quoted strings do not split.
func splitList(s string) [][2]int {
	var (
		parts   [][2]int
		start   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case inQuote && c == '\\':
			i++
		case c == '"':
			inQuote = !inQuote
		case c == ',' && !inQuote:
			parts = append(parts, [2]int{start, i})
			start = i + 1
		}
	}
	return append(parts, [2]int{start, len(s)})
}

// isBlank reports whether s holds only spaces and tabs.
func isBlank(s string) bool {
	return strings.Trim(s, " \t") == ""
}

func isToken(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// isTokenChar reports whether c is a tchar as defined by RFC 9110.
func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
