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

package resource

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnsupportedMediaType indicates that no method consumes the request Content-Type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidResource indicates a resource declaration that cannot be mounted.
	ErrInvalidResource = errors.New("invalid resource")

	// ErrNilRouter is returned by Mount when the router is nil.
	ErrNilRouter = errors.New("router cannot be nil")
)

// UnsupportedMediaTypeError is written as a 415 problem response.
// It matches ErrUnsupportedMediaType via errors.Is.
type UnsupportedMediaTypeError struct {
	// ContentType is the request Content-Type.
	ContentType string
	// Supported lists the media types the methods consume.
	Supported []string
}

// Error implements error.
func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("content type %q not supported, expected one of [%s]",
		e.ContentType, strings.Join(e.Supported, ", "))
}

// Is reports whether target is ErrUnsupportedMediaType.
func (e *UnsupportedMediaTypeError) Is(target error) bool {
	return target == ErrUnsupportedMediaType
}

// HTTPStatus returns 415 Unsupported Media Type.
func (e *UnsupportedMediaTypeError) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// Code returns the machine readable problem code.
func (e *UnsupportedMediaTypeError) Code() string {
	return "unsupported_media_type"
}

// Details lists the supported media types.
func (e *UnsupportedMediaTypeError) Details() any {
	return map[string]any{"supported": e.Supported}
}

// declarationError reports a problem in a resource declaration.
type declarationError struct {
	path   string
	method int
	err    error
}

func (e *declarationError) Error() string {
	if e.method < 0 {
		return fmt.Sprintf("resource %q: %v", e.path, e.err)
	}
	return fmt.Sprintf("resource %q method %d: %v", e.path, e.method, e.err)
}

func (e *declarationError) Unwrap() []error {
	return []error{ErrInvalidResource, e.err}
}
