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
	"testing"
)

func FuzzParseAccept(f *testing.F) {
	f.Add("text/html, application/json;q=0.8, */*;q=0.1")
	f.Add(`a/b;x="1,2\"3", c/d;q=0`)
	f.Add(",,,")
	f.Add("text/plain;q=1.000;level=1")

	f.Fuzz(func(t *testing.T, header string) {
		ranges, err := ParseAccept(header)
		if err != nil {
			if ranges != nil {
				t.Fatalf("ranges must be nil on error, got %v", ranges)
			}
			return
		}
		for i, r := range ranges {
			if r.Q > MaxQuality {
				t.Fatalf("quality out of range: %d", r.Q)
			}
			if r.Index != i {
				t.Fatalf("index %d at position %d", r.Index, i)
			}
			if _, ok := r.Params["q"]; ok {
				t.Fatalf("q left in params of %q", header)
			}
			again, err := ParseRange(r.String())
			if err != nil {
				t.Fatalf("re-parse %q: %v", r.String(), err)
			}
			if again.Essence() != r.Essence() || again.Q != r.Q {
				t.Fatalf("round trip changed %q into %q", r.String(), again.String())
			}
		}
	})
}

func FuzzParse(f *testing.F) {
	f.Add("text/plain")
	f.Add("application/vnd.api+json; charset=utf-8")
	f.Add("*/*")

	f.Fuzz(func(t *testing.T, in string) {
		mt, err := Parse(in)
		if err != nil {
			return
		}
		again, err := Parse(mt.String())
		if err != nil {
			t.Fatalf("re-parse %q: %v", mt.String(), err)
		}
		if again.String() != mt.String() {
			t.Fatalf("round trip changed %q into %q", mt.String(), again.String())
		}
	})
}
