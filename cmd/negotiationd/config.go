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
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/goccy/go-yaml"
	"go-simpler.org/env"

	"rivaas.dev/logging"
	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/mediatype"
)

// Config is the daemon configuration. Values are layered: defaults, then
// the YAML file, then NEGOTIATION_* environment variables, then flags.
type Config struct {
	Addr            string        `yaml:"addr" env:"NEGOTIATION_ADDR"`
	MetricsPath     string        `yaml:"metrics_path" env:"NEGOTIATION_METRICS_PATH"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"NEGOTIATION_SHUTDOWN_TIMEOUT"`
	Trace           string        `yaml:"trace" env:"NEGOTIATION_TRACE"`

	Log         LogConfig         `yaml:"log"`
	Negotiation NegotiationConfig `yaml:"negotiation"`
	Resources   []ResourceConfig  `yaml:"resources"`
}

// LogConfig selects the log handler and level.
type LogConfig struct {
	Level  string `yaml:"level" env:"NEGOTIATION_LOG_LEVEL"`
	Format string `yaml:"format" env:"NEGOTIATION_LOG_FORMAT"`
}

// NegotiationConfig configures the negotiator.
type NegotiationConfig struct {
	TieBreak    string `yaml:"tie_break" env:"NEGOTIATION_TIE_BREAK"`
	DefaultType string `yaml:"default_type" env:"NEGOTIATION_DEFAULT_TYPE"`
}

// ResourceConfig declares a resource served by the daemon.
type ResourceConfig struct {
	Path    string         `yaml:"path"`
	Methods []MethodConfig `yaml:"methods"`
}

// MethodConfig declares one method. Body is a text/template executed with
// the negotiated content type and the route parameters.
type MethodConfig struct {
	Verb     string            `yaml:"verb"`
	Produces []string          `yaml:"produces"`
	Consumes []string          `yaml:"consumes"`
	Status   int               `yaml:"status"`
	Headers  map[string]string `yaml:"headers"`
	Body     string            `yaml:"body"`
}

var (
	levels = map[string]logging.Level{
		"debug": logging.LevelDebug,
		"info":  logging.LevelInfo,
		"warn":  logging.LevelWarn,
		"error": logging.LevelError,
	}

	tieBreaks = map[string]negotiation.TieBreak{
		negotiation.PreferSpecific.String(): negotiation.PreferSpecific,
		negotiation.PreferDeclared.String(): negotiation.PreferDeclared,
	}
)

func defaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MetricsPath:     "/metrics",
		ShutdownTimeout: 10 * time.Second,
		Trace:           "none",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Negotiation: NegotiationConfig{
			TieBreak:    negotiation.PreferSpecific.String(),
			DefaultType: negotiation.DefaultType,
		},
	}
}

// loadConfig reads path (optional) over the defaults and applies
// environment overrides from source. A nil source reads the process
// environment.
func loadConfig(path string, source env.Source) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Load(&cfg, &env.Options{Source: source, SliceSep: ","}); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	return cfg, nil
}

// applyArgs overrides cfg with the flags that were set.
func (cfg *Config) applyArgs(a args) {
	if a.Addr != "" {
		cfg.Addr = a.Addr
	}
	if a.LogLevel != "" {
		cfg.Log.Level = a.LogLevel
	}
	if a.LogFormat != "" {
		cfg.Log.Format = a.LogFormat
	}
	if a.TieBreak != "" {
		cfg.Negotiation.TieBreak = a.TieBreak
	}
}

// Validate checks cfg. Errors name the offending field.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.Addr == "" {
		errs = append(errs, errors.New("addr: must not be empty"))
	}
	if !strings.HasPrefix(cfg.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("metrics_path: %q must start with /", cfg.MetricsPath))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout: %s must be positive", cfg.ShutdownTimeout))
	}
	switch cfg.Trace {
	case "none", "stdout":
	default:
		errs = append(errs, fmt.Errorf("trace: unknown exporter %q", cfg.Trace))
	}

	if _, ok := levels[strings.ToLower(cfg.Log.Level)]; !ok {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", cfg.Log.Format))
	}

	if _, ok := tieBreaks[cfg.Negotiation.TieBreak]; !ok {
		errs = append(errs, fmt.Errorf("negotiation.tie_break: unknown policy %q", cfg.Negotiation.TieBreak))
	}
	if mt, err := mediatype.Parse(cfg.Negotiation.DefaultType); err != nil {
		errs = append(errs, fmt.Errorf("negotiation.default_type: %w", err))
	} else if !mt.IsConcrete() {
		errs = append(errs, fmt.Errorf("negotiation.default_type: %q must not be a wildcard", cfg.Negotiation.DefaultType))
	}

	for i, res := range cfg.Resources {
		errs = append(errs, res.validate(fmt.Sprintf("resources[%d]", i), cfg.MetricsPath)...)
	}

	return errors.Join(errs...)
}

func (res ResourceConfig) validate(field, metricsPath string) []error {
	var errs []error

	if !strings.HasPrefix(res.Path, "/") {
		errs = append(errs, fmt.Errorf("%s.path: %q must start with /", field, res.Path))
	}
	if res.Path == metricsPath {
		errs = append(errs, fmt.Errorf("%s.path: %q is reserved for metrics", field, res.Path))
	}
	if len(res.Methods) == 0 {
		errs = append(errs, fmt.Errorf("%s.methods: must not be empty", field))
	}

	for j, m := range res.Methods {
		mf := fmt.Sprintf("%s.methods[%d]", field, j)
		if m.Verb == "" {
			errs = append(errs, fmt.Errorf("%s.verb: must not be empty", mf))
		}
		if m.Status != 0 && (m.Status < 100 || m.Status > 599) {
			errs = append(errs, fmt.Errorf("%s.status: %d out of range", mf, m.Status))
		}
		if _, err := template.New(mf).Parse(m.Body); err != nil {
			errs = append(errs, fmt.Errorf("%s.body: %w", mf, err))
		}
	}

	return errs
}

// status returns the configured status, 200 when unset.
func (m MethodConfig) status() int {
	if m.Status == 0 {
		return http.StatusOK
	}
	return m.Status
}

// loggingOptions translates LogConfig for rivaas.dev/logging.
func (l LogConfig) loggingOptions() []logging.Option {
	opts := []logging.Option{
		logging.WithLevel(levels[strings.ToLower(l.Level)]),
		logging.WithServiceName("negotiationd"),
		logging.WithServiceVersion(version),
	}
	switch strings.ToLower(l.Format) {
	case "text":
		opts = append(opts, logging.WithTextHandler())
	case "console":
		opts = append(opts, logging.WithConsoleHandler())
	default:
		opts = append(opts, logging.WithJSONHandler())
	}
	return opts
}
