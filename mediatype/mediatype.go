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

import (
	"maps"
	"slices"
	"strings"
)

// Wildcard is the "*" used in place of a type or subtype.
const Wildcard = "*"

// MediaType is a parsed "type/subtype;name=value" string.
//
// Type and Subtype are lower-cased. Parameter names are lower-cased and
// values are kept verbatim, with quoted strings unquoted.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// Any is the "*/*" media type.
var Any = MediaType{Type: Wildcard, Subtype: Wildcard}

// Parse parses a single media type such as "text/html; charset=utf-8".
func Parse(s string) (MediaType, error) {
	p := newParser(s, 0, len(s))
	mt, err := p.mediaType()
	if err != nil {
		return MediaType{}, err
	}
	if !p.done() {
		return MediaType{}, p.fail("unexpected trailing characters")
	}
	return mt, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) MediaType {
	mt, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return mt
}

// Essence returns "type/subtype" without parameters.
func (m MediaType) Essence() string {
	return m.Type + "/" + m.Subtype
}

// String formats the media type with its parameters in sorted order.
func (m MediaType) String() string {
	if len(m.Params) == 0 {
		return m.Essence()
	}

	var b strings.Builder
	b.WriteString(m.Essence())
	for _, name := range slices.Sorted(maps.Keys(m.Params)) {
		b.WriteByte(';')
		b.WriteString(name)
		b.WriteByte('=')
		writeValue(&b, m.Params[name])
	}
	return b.String()
}

// Param returns the named parameter, matched case-insensitively.
func (m MediaType) Param(name string) (string, bool) {
	v, ok := m.Params[strings.ToLower(name)]
	return v, ok
}

// IsWildcardType reports whether the type is "*".
func (m MediaType) IsWildcardType() bool {
	return m.Type == Wildcard
}

// IsWildcardSubtype reports whether the subtype is "*".
func (m MediaType) IsWildcardSubtype() bool {
	return m.Subtype == Wildcard
}

// IsConcrete reports whether neither the type nor the subtype is a wildcard.
func (m MediaType) IsConcrete() bool {
	return !m.IsWildcardType() && !m.IsWildcardSubtype()
}

// Specificity is 2 for a concrete type, 1 for "type/*" and 0 for "*/*".
func (m MediaType) Specificity() int {
	switch {
	case m.IsWildcardType():
		return 0
	case m.IsWildcardSubtype():
		return 1
	default:
		return 2
	}
}

// WithoutParams returns a copy of m without the named parameters.
// The receiver's map is never modified.
func (m MediaType) WithoutParams(names ...string) MediaType {
	if len(m.Params) == 0 {
		return m
	}
	params := make(map[string]string, len(m.Params))
	for k, v := range m.Params {
		if !slices.Contains(names, k) {
			params[k] = v
		}
	}
	if len(params) == 0 {
		params = nil
	}
	return MediaType{Type: m.Type, Subtype: m.Subtype, Params: params}
}

// writeValue writes v as a token, or as a quoted string when it is not one.
func writeValue(b *strings.Builder, v string) {
	if v != "" && isToken(v) {
		b.WriteString(v)
		return
	}
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	b.WriteByte('"')
}
