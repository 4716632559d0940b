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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rivaas.dev/negotiation/mediatype"
)

var (
	// ErrNotAcceptable indicates that no declared representation is acceptable to the client.
	ErrNotAcceptable = errors.New("not acceptable")

	// ErrInvalidTieBreak indicates that an unknown TieBreak was configured.
	ErrInvalidTieBreak = errors.New("invalid tie break policy")

	// ErrDefaultTypeNotConcrete indicates that the default type contains a wildcard.
	ErrDefaultTypeNotConcrete = errors.New("default type must not be a wildcard")
)

// NotAcceptableError is returned when negotiation finds no match.
// It matches ErrNotAcceptable via errors.Is.
type NotAcceptableError struct {
	// Accept holds the client ranges that were considered.
	Accept []mediatype.Range
	// Produces holds the server declarations; empty when none were declared.
	Produces []mediatype.Producible
}

// Error implements error.
func (e *NotAcceptableError) Error() string {
	accept := make([]string, len(e.Accept))
	for i, r := range e.Accept {
		accept[i] = r.String()
	}
	if len(e.Produces) == 0 {
		return fmt.Sprintf("negotiation: no representation acceptable to %q", strings.Join(accept, ", "))
	}
	return fmt.Sprintf("negotiation: none of [%s] acceptable to %q",
		strings.Join(e.Available(), ", "), strings.Join(accept, ", "))
}

// Is reports whether target is ErrNotAcceptable.
func (e *NotAcceptableError) Is(target error) bool {
	return target == ErrNotAcceptable
}

// HTTPStatus returns 406 Not Acceptable.
func (e *NotAcceptableError) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// Code returns the machine readable problem code.
func (e *NotAcceptableError) Code() string {
	return "not_acceptable"
}

// Details lists the available representations for problem responses.
func (e *NotAcceptableError) Details() any {
	return map[string]any{"available": e.Available()}
}

// Available returns the declared media types, without qs.
func (e *NotAcceptableError) Available() []string {
	out := make([]string, len(e.Produces))
	for i, p := range e.Produces {
		out[i] = p.MediaType.String()
	}
	return out
}
