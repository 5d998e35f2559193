// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the owned, hierarchical symbol multigraph.
//
// Nodes are symbols (namespaces, types, functions, variables) and edges are
// typed relations between them (containment, calls, inheritance, usage).
// The member edge type is special: it encodes parent to child containment,
// and every node has at most one incoming member edge, so containment forms
// a forest. A node's full name is the "::" joined chain of simple names from
// its root ancestor down to itself.
//
// # Ownership Model
//
// The Graph owns every Node and Edge it creates. Edges reference their
// endpoints but do not own them. Removing a node cascades to its member
// children and to every incident edge, so no owned edge is ever left
// pointing at a removed node.
//
// # Identity
//
// Ids come from an ids.Allocator that is shared by every graph whose
// contents will later be merged. Plain copies keep the source id, so merging
// the same entity twice is a no-op.
//
// # Thread Safety
//
// Graph is NOT safe for concurrent use. One goroutine owns a graph while it
// is being built; readers work on a graph nobody mutates any more. Mutating
// a graph from inside a ForEach callback is not supported.
//
// # Error Reporting
//
// Absence is reported as nil, never as an error. Contract violations are
// logged through the graph's slog.Logger and returned as the sentinel
// errors below; they never panic and never leave the graph half-modified.
package graph

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrNodeNotOwned is returned when removing a node this graph did not create
	// or already removed.
	ErrNodeNotOwned = errors.New("node not owned by graph")

	// ErrEdgeNotOwned is returned when removing an edge this graph did not create
	// or already removed.
	ErrEdgeNotOwned = errors.New("edge not owned by graph")

	// ErrMemberEdgeRemoval is returned when a member edge is removed directly.
	// Member edges only go away together with their child node.
	ErrMemberEdgeRemoval = errors.New("member edge can only be removed with its child node")

	// ErrResidualEdges is returned when a removed node still referenced edges
	// after the cascade. It indicates an edge the graph does not own was
	// attached to the node.
	ErrResidualEdges = errors.New("node still has edges after removal")
)
