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
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidMediaType is matched by every *ParseError via errors.Is.
var ErrInvalidMediaType = errors.New("invalid media type")

// ParseError describes a malformed media type, media range or quality value.
type ParseError struct {
	// Input is the full string that was being parsed.
	Input string
	// Offset is the byte offset in Input where parsing stopped.
	Offset int
	// Reason is a short human readable description.
	Reason string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("mediatype: %s at offset %d in %q", e.Reason, e.Offset, e.Input)
}

// Is reports whether target is ErrInvalidMediaType.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidMediaType
}

// HTTPStatus returns 400 Bad Request.
func (e *ParseError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns the machine readable problem code.
func (e *ParseError) Code() string {
	return "invalid_media_type"
}
