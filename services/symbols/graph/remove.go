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
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// RemoveNode removes node, its member descendants and every incident edge.
//
// Description:
//
//	Member children are removed first, depth first, so a parent never
//	disappears while its children still exist. Then every remaining
//	incident edge of any type and direction is removed. Finally the node
//	itself is dropped.
//
// Errors:
//
//	ErrNodeNotOwned - node is nil or not owned; nothing is changed
//	ErrResidualEdges - node still listed edges this graph does not own after
//	the cascade; the node is removed regardless
func (g *Graph) RemoveNode(node *Node) error {
	if node == nil || !slices.Contains(g.nodes, node) {
		recordViolation(violationNodeNotOwned)
		attrs := []any{}
		if node != nil {
			attrs = append(attrs, slog.String("node", node.String()))
		}
		g.logger.Warn("node was not found in the graph", attrs...)
		return ErrNodeNotOwned
	}

	var errs []error
	nodes, edges := g.removeNodeCascade(node, &errs)
	recordRemoved(nodes, edges)
	return errors.Join(errs...)
}

// removeNodeCascade removes node in post order and returns how many nodes
// and edges went away.
func (g *Graph) removeNodeCascade(node *Node, errs *[]error) (int, int) {
	removedNodes, removedEdges := 0, 0

	// Snapshot: removing a child detaches its member edge from node.
	for _, child := range node.ChildNodes() {
		n, e := g.removeNodeCascade(child, errs)
		removedNodes += n
		removedEdges += e
	}

	for _, e := range slices.Clone(node.edges) {
		if g.removeEdgeInternal(e) {
			removedEdges++
		}
	}

	if len(node.edges) > 0 {
		recordViolation(violationResidualEdges)
		g.logger.Error("node still has edges after removal",
			slog.String("node", node.String()),
			slog.Int("residual_edges", len(node.edges)),
		)
		*errs = append(*errs, fmt.Errorf("%w: %s", ErrResidualEdges, node))
		for _, e := range slices.Clone(node.edges) {
			node.detachEdge(e)
		}
	}

	if i := slices.Index(g.nodes, node); i >= 0 {
		g.nodes = slices.Delete(g.nodes, i, i+1)
		removedNodes++
	}
	return removedNodes, removedEdges
}

// RemoveEdge removes a non-member edge.
//
// Errors:
//
//	ErrEdgeNotOwned - edge is nil or not owned; nothing is changed
//	ErrMemberEdgeRemoval - edge is a member edge; nothing is changed. Remove
//	the child node instead.
func (g *Graph) RemoveEdge(edge *Edge) error {
	if edge == nil || !slices.Contains(g.edges, edge) {
		recordViolation(violationEdgeNotOwned)
		attrs := []any{}
		if edge != nil {
			attrs = append(attrs, slog.String("edge", edge.String()))
		}
		g.logger.Warn("edge was not found in the graph", attrs...)
		return ErrEdgeNotOwned
	}

	if edge.IsMember() {
		recordViolation(violationMemberRemoval)
		g.logger.Error("can't remove member edge without removing the child node",
			slog.String("edge", edge.String()),
		)
		return ErrMemberEdgeRemoval
	}

	g.removeEdgeInternal(edge)
	recordRemoved(0, 1)
	return nil
}

// removeEdgeInternal drops an owned edge and detaches it from both
// endpoints. Returns false if the edge is not owned.
func (g *Graph) removeEdgeInternal(edge *Edge) bool {
	i := slices.Index(g.edges, edge)
	if i < 0 {
		return false
	}
	g.edges = slices.Delete(g.edges, i, i+1)
	edge.detach()
	return true
}
