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

// shortNames maps common short names to full media types.
var shortNames = map[string]string{
	"html":       "text/html",
	"json":       "application/json",
	"xml":        "application/xml",
	"text":       "text/plain",
	"txt":        "text/plain",
	"csv":        "text/csv",
	"yaml":       "application/yaml",
	"png":        "image/png",
	"jpg":        "image/jpeg",
	"jpeg":       "image/jpeg",
	"gif":        "image/gif",
	"webp":       "image/webp",
	"svg":        "image/svg+xml",
	"css":        "text/css",
	"js":         "application/javascript",
	"javascript": "application/javascript",
	"pdf":        "application/pdf",
	"zip":        "application/zip",
	"octet":      "application/octet-stream",
	"problem":    "application/problem+json",
}

// Normalize expands a short name such as "json" to its media type.
// Anything containing a '/' is returned trimmed and unchanged, as is an
// unknown short name.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, "/") {
		return name
	}
	if full, ok := shortNames[strings.ToLower(name)]; ok {
		return full
	}
	return name
}
