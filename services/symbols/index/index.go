// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package index runs independent producer passes and merges their results.
//
// Each pass applies one manifest to its own graph. Passes run concurrently,
// one goroutine per graph, so every graph still has a single writer. All
// pass graphs draw ids from one shared allocator; the merge then copies
// nodes and edges by id into the result graph, in pass order.
//
// Ids are the only identity the merge knows about. Two passes that both
// declare "app::Server" create two distinct nodes with different ids, and
// both end up in the result.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/symgraph/services/symbols/graph"
	"github.com/AleutianAI/symgraph/services/symbols/ids"
	"github.com/AleutianAI/symgraph/services/symbols/manifest"
)

var tracer = otel.Tracer("aleutian.symbols.index")

// DefaultMaxConcurrency is the default number of passes applied at once.
const DefaultMaxConcurrency = 4

// Pass is one producer run.
type Pass struct {
	// Name identifies the pass in logs and errors, e.g. the manifest path.
	Name string

	Manifest *manifest.Manifest
}

// PassResult reports one pass.
type PassResult struct {
	Name       string
	GraphID    string
	Applied    manifest.ApplyStats
	Merged     graph.MergeStats
	DurationMs int64
}

// Result is the merged graph plus per-pass reports in pass order.
type Result struct {
	Graph  *graph.Graph
	Passes []PassResult
}

// Options configures an Indexer.
type Options struct {
	// Allocator is shared by the pass graphs and the result graph.
	// Default: a fresh ids.Sequence per Indexer
	Allocator ids.Allocator

	// Logger is handed to every graph.
	// Default: slog.Default()
	Logger *slog.Logger

	// MaxConcurrency bounds the passes applied at once. Values below 1
	// mean DefaultMaxConcurrency.
	MaxConcurrency int
}

// Option is a functional option for configuring an Indexer.
type Option func(*Options)

// WithAllocator sets the shared id allocator.
func WithAllocator(alloc ids.Allocator) Option {
	return func(o *Options) {
		o.Allocator = alloc
	}
}

// WithLogger sets the logger handed to every graph.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMaxConcurrency bounds the passes applied at once.
func WithMaxConcurrency(n int) Option {
	return func(o *Options) {
		o.MaxConcurrency = n
	}
}

// Indexer builds merged graphs from passes.
//
// Thread Safety:
//
//	Build may be called concurrently; each call creates its own graphs.
type Indexer struct {
	options Options
}

// NewIndexer creates an Indexer.
func NewIndexer(opts ...Option) *Indexer {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Allocator == nil {
		options.Allocator = ids.NewSequence()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.MaxConcurrency < 1 {
		options.MaxConcurrency = DefaultMaxConcurrency
	}
	return &Indexer{options: options}
}

// Build applies every pass to its own graph and merges the graphs.
//
// Description:
//
//	Passes are applied concurrently, at most MaxConcurrency at once. The
//	first failing pass cancels the others and Build returns its error.
//	When all passes succeed their graphs are merged into a new graph in
//	the order given, with identity-preserving plain copies.
//
// Outputs:
//
//	*Result - The merged graph and per-pass reports. Nil on error.
//	error - The first pass error, or the context error.
func (ix *Indexer) Build(ctx context.Context, passes ...Pass) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Indexer.Build",
		trace.WithAttributes(attribute.Int("index.pass_count", len(passes))),
	)
	defer span.End()

	partials := make([]*graph.Graph, len(passes))
	reports := make([]PassResult, len(passes))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(ix.options.MaxConcurrency)

	for i, pass := range passes {
		eg.Go(func() error {
			start := time.Now()
			g := ix.newGraph()

			applied, err := manifest.Apply(egCtx, g, pass.Manifest)
			if err != nil {
				return fmt.Errorf("pass %q: %w", pass.Name, err)
			}

			partials[i] = g
			reports[i] = PassResult{
				Name:       pass.Name,
				GraphID:    g.InstanceID(),
				Applied:    applied,
				DurationMs: time.Since(start).Milliseconds(),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pass failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return nil, err
	}

	merged := ix.newGraph()
	for i, partial := range partials {
		reports[i].Merged = merged.MergeFrom(partial)
		ix.options.Logger.Debug("merged pass",
			slog.String("pass", reports[i].Name),
			slog.String("graph_id", reports[i].GraphID),
			slog.Int("nodes_added", reports[i].Merged.NodesAdded),
			slog.Int("edges_added", reports[i].Merged.EdgesAdded),
		)
	}

	span.SetAttributes(
		attribute.Int("index.node_count", merged.NodeCount()),
		attribute.Int("index.edge_count", merged.EdgeCount()),
	)
	return &Result{Graph: merged, Passes: reports}, nil
}

func (ix *Indexer) newGraph() *graph.Graph {
	return graph.NewGraph(
		graph.WithAllocator(ix.options.Allocator),
		graph.WithLogger(ix.options.Logger),
	)
}
