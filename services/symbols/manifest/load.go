// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	manifestLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symgraph_manifest_loads_total",
		Help: "Total manifest loads by result",
	}, []string{"result"})

	manifestLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symgraph_manifest_load_duration_seconds",
		Help:    "Duration of manifest loading and parsing",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1},
	})

	manifestSymbols = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symgraph_manifest_symbols",
		Help:    "Number of symbols per loaded manifest",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)

var tracer = otel.Tracer("aleutian.symbols.manifest")

// Load reads, parses and validates the manifest at path.
//
// Errors:
//
//	ErrManifestTooLarge - the file exceeds MaxManifestFileSize
//	ErrInvalidManifest - the content does not parse or validate
//	fs errors - the file cannot be read
func Load(ctx context.Context, path string) (*Manifest, error) {
	ctx, span := tracer.Start(ctx, "manifest.Load",
		trace.WithAttributes(attribute.String("manifest.path", path)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		manifestLoadDuration.Observe(time.Since(start).Seconds())
	}()

	m, err := load(ctx, path)
	if err != nil {
		manifestLoads.WithLabelValues(loadResult(err)).Inc()
		endSpanWithError(span, err)
		return nil, err
	}

	manifestLoads.WithLabelValues("ok").Inc()
	manifestSymbols.Observe(float64(len(m.Symbols)))
	span.SetAttributes(
		attribute.Int("manifest.symbols", len(m.Symbols)),
		attribute.Int("manifest.edges", len(m.Edges)),
	)
	return m, nil
}

func load(ctx context.Context, path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}
	if info.Size() > MaxManifestFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrManifestTooLarge, path, info.Size(), MaxManifestFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxManifestFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(data) > MaxManifestFileSize {
		return nil, fmt.Errorf("%w: %s", ErrManifestTooLarge, path)
	}

	m, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest YAML. Unknown keys are rejected.
// An empty document yields an empty manifest.
func Parse(ctx context.Context, data []byte) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func loadResult(err error) string {
	switch {
	case errors.Is(err, ErrManifestTooLarge):
		return "too_large"
	case errors.Is(err, ErrInvalidManifest):
		return "invalid"
	default:
		return "io_error"
	}
}

// =============================================================================
// Tracing helpers
// =============================================================================

func startApplySpan(ctx context.Context, m *Manifest) (context.Context, trace.Span) {
	return tracer.Start(ctx, "manifest.Apply",
		trace.WithAttributes(
			attribute.Int("manifest.symbols", len(m.Symbols)),
			attribute.Int("manifest.edges", len(m.Edges)),
		),
	)
}

func setApplySpanResult(span trace.Span, stats ApplyStats) {
	span.SetAttributes(
		attribute.Int("apply.symbols", stats.Symbols),
		attribute.Int("apply.edges", stats.Edges),
	)
}

func endSpanWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
