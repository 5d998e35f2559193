// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/symgraph/pkg/logging"
	"github.com/AleutianAI/symgraph/pkg/telemetry"
)

// telemetryShutdownTimeout bounds the final flush of spans and metrics.
const telemetryShutdownTimeout = 5 * time.Second

// app holds state shared by the subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool
	logDir     string
	quiet      bool
	exporter   string

	config            Config
	logger            *logging.Logger
	shutdownTelemetry func(context.Context) error
}

// newRootCmd builds the command tree and the state it shares. Each call
// returns an independent tree so tests can run commands side by side.
// Run it with app.execute so the logger and telemetry are always released.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "symgraph",
		Short: "Build and query symbol graphs",
		Long: `symgraph loads symbol manifests into an in-memory symbol graph.

A manifest lists symbols by full name ("ns::Type::method") and the edges
between them. Hierarchy comes from the names: every "::" segment becomes
a node with a member edge to its parent.

Examples:
  symgraph build app.yaml util.yaml
  symgraph resolve app.yaml "app::Server::Run"
  symgraph merge --log-level debug a.yaml b.yaml
  symgraph remove app.yaml "app::Server"
  symgraph watch app.yaml
  symgraph build --telemetry stdout app.yaml`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.logJSON, "log-json", false, "log JSON to stderr")
	flags.StringVar(&a.logDir, "log-dir", "", "also write JSON logs to this directory")
	flags.BoolVar(&a.quiet, "quiet", false, "no console logging (log files still written)")
	flags.StringVar(&a.exporter, "telemetry", "", "export spans and metrics: none, stdout (written to stderr)")

	rootCmd.AddCommand(
		newBuildCmd(a),
		newResolveCmd(a),
		newMergeCmd(a),
		newRemoveCmd(a),
		newWatchCmd(a),
	)
	return rootCmd, a
}

// execute runs cmd and then releases the logger and telemetry providers,
// whether or not the command failed.
func (a *app) execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, a.teardown())
}

// setup loads the config file, applies flag overrides, opens the logger
// and installs telemetry.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		config.Logging.Level = a.logLevel
	}
	if flags.Changed("log-json") {
		config.Logging.JSON = a.logJSON
	}
	if flags.Changed("log-dir") {
		config.Logging.Dir = a.logDir
	}
	if flags.Changed("quiet") {
		config.Logging.Quiet = a.quiet
	}
	if flags.Changed("telemetry") {
		config.Telemetry.Exporter = a.exporter
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logConfig, err := config.loggingConfig()
	if err != nil {
		return err
	}
	logConfig.Output = cmd.ErrOrStderr()

	a.config = config
	a.logger = logging.New(logConfig).With("command", cmd.Name())

	telemetryConfig := config.telemetryConfig()
	telemetryConfig.Output = cmd.ErrOrStderr()
	shutdown, err := telemetry.Init(cmd.Context(), telemetryConfig)
	if err != nil {
		return err
	}
	a.shutdownTelemetry = shutdown

	a.logger.Debug("configuration loaded",
		"config", a.configPath,
		"level", config.Logging.Level,
		"telemetry", telemetryConfig.Exporter,
	)
	return nil
}

// teardown flushes telemetry and closes the logger. It is safe to call when
// setup never ran or failed part way.
func (a *app) teardown() error {
	var errs []error

	if a.shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		if err := a.shutdownTelemetry(ctx); err != nil {
			if a.logger != nil {
				a.logger.Error("telemetry shutdown failed", "error", err)
			}
			errs = append(errs, err)
		}
		cancel()
		a.shutdownTelemetry = nil
	}

	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			errs = append(errs, err)
		}
		a.logger = nil
	}
	return errors.Join(errs...)
}
