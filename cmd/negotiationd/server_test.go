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

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/tracing"
)

func newTestServer(t *testing.T, mutate func(*Config), traceOpts ...tracing.Option) *server {
	t.Helper()

	cfg, err := loadConfig("testdata/resources.yaml", mapSource{})
	require.NoError(t, err)
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newServer(cfg, logger, traceOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.shutdownTelemetry(context.Background()) })
	return s
}

func do(h http.Handler, method, path string, headers map[string]string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServerResources(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		wantStatus int
		wantType   string
		wantBody   string
	}{
		{
			name:       "json preferred by qs",
			method:     http.MethodGet,
			path:       "/reports/42",
			wantStatus: http.StatusOK,
			wantType:   "application/json",
			wantBody:   `{"id":"42"}`,
		},
		{
			name:       "csv on request",
			method:     http.MethodGet,
			path:       "/reports/7",
			headers:    map[string]string{"Accept": "text/csv"},
			wantStatus: http.StatusOK,
			wantType:   "text/csv",
			wantBody:   "id\n7\n",
		},
		{
			name:       "wildcard declaration takes client type",
			method:     http.MethodPost,
			path:       "/echo",
			headers:    map[string]string{"Accept": "text/markdown", "Content-Type": "application/json"},
			wantStatus: http.StatusCreated,
			wantType:   "text/markdown",
			wantBody:   "served as text/markdown",
		},
		{
			name:       "no declarations uses client type",
			method:     http.MethodGet,
			path:       "/anything",
			headers:    map[string]string{"Accept": "application/foo, application/bar"},
			wantStatus: http.StatusOK,
			wantType:   "application/foo",
			wantBody:   "application/foo",
		},
		{
			name:       "no declarations and no accept uses default type",
			method:     http.MethodGet,
			path:       "/anything",
			wantStatus: http.StatusOK,
			wantType:   "application/octet-stream",
			wantBody:   "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(s, tt.method, tt.path, tt.headers, "{}")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantType, w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestServerHeaders(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/echo", map[string]string{"Accept": "text/plain", "Content-Type": "application/json"}, "{}")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "negotiationd", w.Header().Get("X-Served-By"))
	assert.Equal(t, "Accept", w.Header().Get("Vary"))
}

func TestServerErrors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/reports/1", map[string]string{"Accept": "image/png"}, "")
	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	w = do(s, http.MethodPost, "/echo", map[string]string{"Content-Type": "text/plain"}, "hi")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = do(s, http.MethodGet, "/reports/1", map[string]string{"Accept": "text/csv;q=5"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServerOptionsAndHead(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	w := do(s, http.MethodOptions, "/reports/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET, HEAD, OPTIONS", w.Header().Get("Allow"))

	w = do(s, http.MethodOptions, "/echo", nil, "")
	assert.Equal(t, "OPTIONS, POST", w.Header().Get("Allow"))

	w = do(s, http.MethodHead, "/reports/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Body.String())
}

func TestServerMetrics(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	do(s, http.MethodGet, "/reports/1", nil, "")
	do(s, http.MethodGet, "/reports/1", map[string]string{"Accept": "image/png"}, "")

	w := do(s, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "negotiation")
	assert.Contains(t, body, `outcome="selected"`)
	assert.Contains(t, body, `outcome="not_acceptable"`)
	assert.Contains(t, body, "http_requests_total")
}

func TestServerTracing(t *testing.T) {
	t.Parallel()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	s := newTestServer(t, func(cfg *Config) { cfg.Trace = "stdout" }, tracing.WithTracerProvider(tp))

	w := do(s, http.MethodGet, "/reports/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	do(s, http.MethodGet, "/metrics", nil, "")

	ended := spans.Ended()
	require.Len(t, ended, 1, "the metrics path is not traced")

	var events []string
	for _, e := range ended[0].Events() {
		events = append(events, e.Name)
	}
	assert.Contains(t, events, "negotiation.selected")
}

func TestServerTracingDisabled(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	assert.Nil(t, s.shutdownTracing)
}
