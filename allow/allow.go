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

package allow

import (
	"net/http"
	"slices"
	"strings"
)

// Methods returns the methods to advertise for a path whose bound methods are
// bound. Names are upper-cased and de-duplicated and the result is sorted.
// OPTIONS is always present. HEAD is added when GET is bound; an explicitly
// bound HEAD is kept as is.
func Methods(bound []string) []string {
	out := make([]string, 0, len(bound)+2)
	for _, m := range bound {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		out = append(out, m)
	}

	if slices.Contains(out, http.MethodGet) {
		out = append(out, http.MethodHead)
	}
	out = append(out, http.MethodOptions)

	slices.Sort(out)
	return slices.Compact(out)
}

// Header returns the Allow header value for bound.
func Header(bound []string) string {
	return strings.Join(Methods(bound), ", ")
}

// Write sends the synthesized OPTIONS response: 200 OK, the Allow header and
// an empty body.
func Write(w http.ResponseWriter, bound []string) {
	write(w, Header(bound))
}

// Handler returns an http.Handler answering with the synthesized OPTIONS
// response for bound. The method list is computed once.
func Handler(bound []string) http.Handler {
	value := Header(bound)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		write(w, value)
	})
}

func write(w http.ResponseWriter, value string) {
	h := w.Header()
	h.Set("Allow", value)
	h.Set("Content-Length", "0")
	w.WriteHeader(http.StatusOK)
}
