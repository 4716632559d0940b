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

// Package allow builds the Allow header and the default OPTIONS response for
// a resource path from the HTTP methods bound at that path.
//
// The synthesized list always contains OPTIONS and contains HEAD whenever GET
// is bound, since GET handlers also answer HEAD. A resource that registers its
// own OPTIONS handler replaces the synthesized response entirely; nothing from
// this package is merged into it.
//
// Example:
//
//	allow.Header([]string{"get", "post"}) // "GET, HEAD, OPTIONS, POST"
package allow
