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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/symgraph/pkg/logging"
	"github.com/AleutianAI/symgraph/pkg/telemetry"
)

// Config is the optional YAML configuration file. Command-line flags
// override any value set here.
//
//	logging:
//	  level: debug
//	  json: false
//	  quiet: false
//	  dir: ~/.symgraph/logs
//	index:
//	  max_concurrency: 4
//	telemetry:
//	  exporter: stdout
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Index     IndexConfig     `yaml:"index"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
	Dir   string `yaml:"dir"`

	// Quiet turns off console logging; file logging is unaffected.
	Quiet bool `yaml:"quiet"`
}

// IndexConfig configures the merge command.
type IndexConfig struct {
	// MaxConcurrency bounds the passes applied at once. Zero means the
	// index default.
	MaxConcurrency int `yaml:"max_concurrency" validate:"gte=0,lte=256"`
}

// TelemetryConfig selects where spans and metrics are exported.
type TelemetryConfig struct {
	// Exporter is "none" or "stdout". stdout output goes to stderr.
	Exporter string `yaml:"exporter" validate:"omitempty,oneof=none stdout"`
}

// ErrInvalidConfig is returned when the configuration file does not parse
// or validate.
var ErrInvalidConfig = errors.New("invalid config")

var configValidate = validator.New()

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Telemetry: TelemetryConfig{Exporter: telemetry.ExporterNone},
	}
}

// LoadConfig reads and validates a YAML configuration file. An empty path
// returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return config, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// loggingConfig converts the logging section for pkg/logging.
func (c Config) loggingConfig() (logging.Config, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return logging.Config{
		Level:   level,
		LogDir:  c.Logging.Dir,
		Service: "symgraph",
		JSON:    c.Logging.JSON,
		Quiet:   c.Logging.Quiet,
	}, nil
}

// telemetryConfig converts the telemetry section for pkg/telemetry.
func (c Config) telemetryConfig() telemetry.Config {
	config := telemetry.DefaultConfig()
	if c.Telemetry.Exporter != "" {
		config.Exporter = c.Telemetry.Exporter
	}
	return config
}
