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

import "fmt"

// Edge represents a directed, typed relation between two nodes.
//
// The endpoints are NOT owned by the edge. Both belong to the same graph as
// the edge, and the edge is listed in the incident set of both endpoints for
// as long as the graph owns it.
type Edge struct {
	components

	id       ID
	edgeType EdgeType
	from     *Node
	to       *Node
}

func newEdge(id ID, t EdgeType, from, to *Node) *Edge {
	e := &Edge{
		id:       id,
		edgeType: t,
		from:     from,
		to:       to,
	}
	from.attachEdge(e)
	to.attachEdge(e)
	return e
}

func (*Edge) sealedToken() {}

// ID returns the stable identifier of the edge.
func (e *Edge) ID() ID {
	return e.id
}

// Type returns the edge type.
func (e *Edge) Type() EdgeType {
	return e.edgeType
}

// From returns the source node.
func (e *Edge) From() *Node {
	return e.from
}

// To returns the target node.
func (e *Edge) To() *Node {
	return e.to
}

// IsMember reports whether the edge encodes hierarchy.
func (e *Edge) IsMember() bool {
	return e.edgeType == EdgeTypeMember
}

// String returns a one-line debug representation.
func (e *Edge) String() string {
	return fmt.Sprintf("%d %s: %s -> %s", e.id, e.edgeType, e.from.FullName(), e.to.FullName())
}

func (e *Edge) detach() {
	e.from.detachEdge(e)
	e.to.detachEdge(e)
}
