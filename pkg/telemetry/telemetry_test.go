// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "symgraph" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "symgraph")
	}
	if cfg.Exporter != ExporterNone {
		t.Errorf("Exporter = %q, want %q", cfg.Exporter, ExporterNone)
	}
}

func TestInit_NilContext(t *testing.T) {
	_, err := Init(nil, DefaultConfig())
	if err != ErrNilContext {
		t.Errorf("Init(nil, cfg) error = %v, want %v", err, ErrNilContext)
	}
}

func TestInit_UnknownExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exporter = "otlp"

	_, err := Init(context.Background(), cfg)
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("Init() error = %v, want %v", err, ErrUnknownExporter)
	}
}

func TestInit_NoneExporter(t *testing.T) {
	for _, exporter := range []string{"", ExporterNone} {
		cfg := DefaultConfig()
		cfg.Exporter = exporter

		shutdown, err := Init(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Init(%q) error = %v", exporter, err)
		}
		if shutdown == nil {
			t.Fatal("shutdown function is nil")
		}
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("shutdown() error = %v", err)
		}
	}
}

func TestInit_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Exporter = ExporterStdout
	cfg.Output = &buf

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "test.operation")
	span.End()

	counter, err := otel.Meter("test").Int64Counter("test_operations_total")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	counter.Add(context.Background(), 3)

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "test.operation") {
		t.Errorf("span not exported, output:\n%s", out)
	}
	if !strings.Contains(out, "test_operations_total") {
		t.Errorf("metric not exported, output:\n%s", out)
	}
	if !strings.Contains(out, "symgraph") {
		t.Errorf("resource attributes missing, output:\n%s", out)
	}
}
