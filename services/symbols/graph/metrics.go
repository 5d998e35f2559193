// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("aleutian.symbols.graph")

// Metrics for graph mutations.
var (
	nodesCreated       metric.Int64Counter
	edgesCreated       metric.Int64Counter
	nodesRemoved       metric.Int64Counter
	edgesRemoved       metric.Int64Counter
	tokensCopied       metric.Int64Counter
	contractViolations metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// Violation kinds reported on symbols_graph_contract_violations_total.
const (
	violationNodeNotOwned  = "node_not_owned"
	violationEdgeNotOwned  = "edge_not_owned"
	violationMemberRemoval = "member_edge_removal"
	violationResidualEdges = "residual_edges"
	violationHierarchy     = "hierarchy"
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		nodesCreated, err = meter.Int64Counter(
			"symbols_graph_nodes_created_total",
			metric.WithDescription("Nodes created through hierarchy construction"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesCreated, err = meter.Int64Counter(
			"symbols_graph_edges_created_total",
			metric.WithDescription("Edges created, by edge type"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesRemoved, err = meter.Int64Counter(
			"symbols_graph_nodes_removed_total",
			metric.WithDescription("Nodes removed, including cascaded children"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesRemoved, err = meter.Int64Counter(
			"symbols_graph_edges_removed_total",
			metric.WithDescription("Edges removed, directly or by cascade"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		tokensCopied, err = meter.Int64Counter(
			"symbols_graph_tokens_copied_total",
			metric.WithDescription("Nodes and edges added as plain copies from another graph"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		contractViolations, err = meter.Int64Counter(
			"symbols_graph_contract_violations_total",
			metric.WithDescription("Rejected operations, by violation kind"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordNodeCreated() {
	if err := initMetrics(); err != nil {
		return
	}
	nodesCreated.Add(context.Background(), 1)
}

func recordEdgeCreated(t EdgeType) {
	if err := initMetrics(); err != nil {
		return
	}
	edgesCreated.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("edge_type", t.String())),
	)
}

func recordRemoved(nodes, edges int) {
	if err := initMetrics(); err != nil {
		return
	}
	ctx := context.Background()
	if nodes > 0 {
		nodesRemoved.Add(ctx, int64(nodes))
	}
	if edges > 0 {
		edgesRemoved.Add(ctx, int64(edges))
	}
}

func recordCopied(kind string) {
	if err := initMetrics(); err != nil {
		return
	}
	tokensCopied.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

func recordViolation(kind string) {
	if err := initMetrics(); err != nil {
		return
	}
	contractViolations.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("violation", kind)),
	)
}
