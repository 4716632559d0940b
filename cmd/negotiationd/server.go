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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"text/template"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"

	"rivaas.dev/metrics"
	"rivaas.dev/router"
	"rivaas.dev/tracing"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/resource"
)

const serviceName = "negotiationd"

// server owns the router and the telemetry behind it.
type server struct {
	cfg           Config
	logger        *slog.Logger
	handler       http.Handler
	meterProvider *sdkmetric.MeterProvider
	recorder      *metrics.Recorder

	// shutdownTracing is nil unless a trace exporter is configured.
	shutdownTracing func(context.Context) error
}

// newServer builds the handler for cfg. traceOpts are appended to the
// tracing options when cfg.Trace selects an exporter.
func newServer(cfg Config, logger *slog.Logger, traceOpts ...tracing.Option) (*server, error) {
	s := &server{cfg: cfg, logger: logger}

	// Request metrics and negotiation decisions share one provider so a
	// single scrape returns both.
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	s.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	s.recorder, err = metrics.New(
		metrics.WithMeterProvider(s.meterProvider),
		metrics.WithServiceName(serviceName),
		metrics.WithServiceVersion(version),
		metrics.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create metrics recorder: %w", err)
	}

	n, err := negotiation.New(
		negotiation.WithTieBreak(tieBreaks[cfg.Negotiation.TieBreak]),
		negotiation.WithDefaultType(cfg.Negotiation.DefaultType),
		negotiation.WithLogger(logger),
		negotiation.WithMeterProvider(s.meterProvider),
	)
	if err != nil {
		return nil, err
	}

	d, err := resource.New(
		resource.WithNegotiator(n),
		resource.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	r, err := router.New()
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	resources, err := buildResources(cfg.Resources)
	if err != nil {
		return nil, err
	}
	if err := d.Mount(r, resources...); err != nil {
		return nil, fmt.Errorf("mount resources: %w", err)
	}

	scrape := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	r.GET(cfg.MetricsPath, func(c *router.Context) {
		scrape.ServeHTTP(c.Response, c.Request)
	})
	r.Warmup()

	s.handler = metrics.Middleware(s.recorder, metrics.WithExcludePaths(cfg.MetricsPath))(r)

	if cfg.Trace == "stdout" {
		opts := append([]tracing.Option{
			tracing.WithServiceName(serviceName),
			tracing.WithServiceVersion(version),
			tracing.WithLogger(logger),
			tracing.WithStdout(),
		}, traceOpts...)

		tracer, err := tracing.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create tracer: %w", err)
		}
		// Outermost, so negotiation events land on the request span.
		s.handler = tracing.Middleware(tracer, tracing.WithExcludePaths(cfg.MetricsPath))(s.handler)
		s.shutdownTracing = tracer.Shutdown
	}

	return s, nil
}

// ServeHTTP lets tests drive the server without a listener.
func (s *server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.handler.ServeHTTP(w, req)
}

// serve listens until ctx is done, then shuts down gracefully.
func (s *server) serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(
			httpServer.Shutdown(shutdownCtx),
			s.shutdownTelemetry(shutdownCtx),
		)
	})
	return g.Wait()
}

// shutdownTelemetry flushes traces, then stops metrics. The recorder
// leaves the shared provider alone, so it is shut down here.
func (s *server) shutdownTelemetry(ctx context.Context) error {
	var errs []error
	if s.shutdownTracing != nil {
		errs = append(errs, s.shutdownTracing(ctx))
	}
	errs = append(errs,
		s.recorder.Shutdown(ctx),
		s.meterProvider.Shutdown(ctx),
	)
	return errors.Join(errs...)
}

// bodyData is the data available to body templates.
type bodyData struct {
	ContentType string
	Method      int
	c           *router.Context
}

// Param returns the route parameter name.
func (d bodyData) Param(name string) string {
	return d.c.Param(name)
}

// buildResources turns the configured resources into resource declarations.
func buildResources(configs []ResourceConfig) ([]resource.Resource, error) {
	out := make([]resource.Resource, 0, len(configs))
	for _, rc := range configs {
		res := resource.Resource{Path: rc.Path}
		for j, mc := range rc.Methods {
			tmpl, err := template.New(fmt.Sprintf("%s#%d", rc.Path, j)).Parse(mc.Body)
			if err != nil {
				return nil, fmt.Errorf("resource %q method %d body: %w", rc.Path, j, err)
			}
			res.Methods = append(res.Methods, resource.Method{
				Verb:     mc.Verb,
				Produces: mc.Produces,
				Consumes: mc.Consumes,
				Handler:  respond(tmpl, mc.status(), mc.Headers),
			})
		}
		out = append(out, res)
	}
	return out, nil
}

// respond answers with the rendered template.
func respond(tmpl *template.Template, status int, headers map[string]string) resource.Handler {
	return func(c *router.Context, rep resource.Representation) error {
		var body strings.Builder
		err := tmpl.Execute(&body, bodyData{
			ContentType: rep.ContentType.String(),
			Method:      rep.Method,
			c:           c,
		})
		if err != nil {
			return fmt.Errorf("render body: %w", err)
		}

		for k, v := range headers {
			c.Header(k, v)
		}
		return c.String(status, body.String())
	}
}
