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

// Compatible reports whether a and b can describe the same representation.
// A wildcard on either side matches anything in that position; concrete
// values must be equal, ignoring case. Parameters are not compared.
func Compatible(a, b MediaType) bool {
	return part(a.Type, b.Type) && part(a.Subtype, b.Subtype)
}

// Covers reports whether every type matched by m is also matched by r.
// Unlike Compatible it is one-directional: "text/*" covers "text/plain" but
// "text/plain" does not cover "text/*".
func Covers(r, m MediaType) bool {
	if r.Type != Wildcard && !strings.EqualFold(r.Type, m.Type) {
		return false
	}
	return r.Subtype == Wildcard || strings.EqualFold(r.Subtype, m.Subtype)
}

// MostSpecific returns the more specific of two compatible media types,
// preferring a when both are equally specific.
func MostSpecific(a, b MediaType) MediaType {
	if b.Specificity() > a.Specificity() {
		return b
	}
	return a
}

func part(a, b string) bool {
	return a == Wildcard || b == Wildcard || strings.EqualFold(a, b)
}
