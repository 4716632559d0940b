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

// Package resource binds declarative resources to a [router.Router] and
// negotiates the response representation for every request.
//
// A Resource is a path plus the methods served there. Each Method names an
// HTTP verb, the media types it can produce and consume, and a Handler.
// Several methods may share a verb; the one whose declaration wins content
// negotiation handles the request:
//
//	d := resource.MustNew()
//	err := d.Mount(r, resource.Resource{
//	    Path: "/reports/:id",
//	    Methods: []resource.Method{
//	        {Verb: "GET", Produces: []string{"application/json"}, Handler: reportJSON},
//	        {Verb: "GET", Produces: []string{"text/csv;qs=0.5"}, Handler: reportCSV},
//	    },
//	})
//
// Mount also answers HEAD for every path with a GET method, using the GET
// handlers with the body discarded, and answers OPTIONS with a synthesized
// Allow header unless the resource declares its own OPTIONS method.
//
// Request failures are written as problem responses through a
// [errors.Formatter], RFC 9457 by default:
//
//   - 400 when the Accept or Content-Type header is malformed
//   - 406 when no declared representation is acceptable
//   - 415 when no method consumes the request Content-Type
package resource
