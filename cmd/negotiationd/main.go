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

// Command negotiationd serves resources declared in a YAML file, selecting
// each response representation by content negotiation.
//
// Usage:
//
//	negotiationd --config resources.yaml --addr :8080
//
// Every configured method answers with its body template and the negotiated
// Content-Type. OPTIONS and HEAD are synthesized. Decision counters are
// exposed for Prometheus at /metrics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"rivaas.dev/logging"
)

var version = "dev"

type args struct {
	Config    string `arg:"-c,--config" help:"YAML file declaring resources and settings"`
	Addr      string `arg:"-l,--addr" help:"listen address (default :8080)"`
	LogLevel  string `arg:"--log-level" help:"debug, info, warn or error"`
	LogFormat string `arg:"--log-format" help:"json, text or console"`
	TieBreak  string `arg:"--tie-break" help:"prefer-specific or prefer-declared"`
}

func (args) Description() string {
	return "negotiationd serves declared resources with HTTP content negotiation"
}

func (args) Version() string {
	return "negotiationd " + version
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := run(a); err != nil {
		fmt.Fprintln(os.Stderr, "negotiationd:", err)
		os.Exit(1)
	}
}

func run(a args) error {
	cfg, err := loadConfig(a.Config, nil)
	if err != nil {
		return err
	}
	cfg.applyArgs(a)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	lc, err := logging.New(append(cfg.Log.loggingOptions(), logging.WithOutput(os.Stdout))...)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = lc.Shutdown(context.Background()) }()
	logger := lc.Logger()

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		"version", version,
		"addr", cfg.Addr,
		"resources", len(cfg.Resources),
		"tie_break", cfg.Negotiation.TieBreak,
	)
	return srv.serve(ctx)
}
