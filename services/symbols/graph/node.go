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
	"fmt"
	"slices"
)

// Node represents a symbol in the graph.
//
// Nodes are created only by a Graph. A node's incident edges include both
// outgoing and incoming edges of every type, in the order they were
// attached. The hierarchy is read from member edges: the single incoming
// member edge names the parent, outgoing member edges name the children.
type Node struct {
	components

	id       ID
	nodeType NodeType
	name     string

	// edges holds every incident edge. The edges are owned by the graph.
	edges []*Edge
}

func (*Node) sealedToken() {}

// ID returns the stable identifier of the node.
func (n *Node) ID() ID {
	return n.id
}

// Type returns the node type.
func (n *Node) Type() NodeType {
	return n.nodeType
}

// SetType changes the node type.
func (n *Node) SetType(t NodeType) {
	n.nodeType = t
}

// Name returns the simple (last segment) name of the node.
func (n *Node) Name() string {
	return n.name
}

// FullName returns the Delimiter-joined names from the root ancestor down to
// this node.
func (n *Node) FullName() string {
	var names []string
	for cur := n; cur != nil; cur = cur.ParentNode() {
		names = append(names, cur.name)
	}
	slices.Reverse(names)
	return JoinName(names)
}

// ParentNode returns the source of the incoming member edge, or nil for a
// root node.
func (n *Node) ParentNode() *Node {
	e := n.FindEdgeOfType(EdgeTypeMember, func(e *Edge) bool {
		return e.to == n
	})
	if e == nil {
		return nil
	}
	return e.from
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentNode() == nil
}

// FindChildNode returns the first immediate child for which pred is true.
func (n *Node) FindChildNode(pred func(*Node) bool) *Node {
	e := n.FindEdgeOfType(EdgeTypeMember, func(e *Edge) bool {
		return e.from == n && pred(e.to)
	})
	if e == nil {
		return nil
	}
	return e.to
}

// ForEachChildNode calls fn for every immediate child in attachment order.
func (n *Node) ForEachChildNode(fn func(*Node)) {
	n.ForEachEdgeOfType(EdgeTypeMember, func(e *Edge) {
		if e.from == n {
			fn(e.to)
		}
	})
}

// ChildNodes returns the immediate children in attachment order.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	n.ForEachChildNode(func(c *Node) {
		children = append(children, c)
	})
	return children
}

// Edges returns a copy of the incident edges.
func (n *Node) Edges() []*Edge {
	return slices.Clone(n.edges)
}

// EdgeCount returns the number of incident edges.
func (n *Node) EdgeCount() int {
	return len(n.edges)
}

// FindEdge returns the first incident edge for which pred is true.
func (n *Node) FindEdge(pred func(*Edge) bool) *Edge {
	for _, e := range n.edges {
		if pred(e) {
			return e
		}
	}
	return nil
}

// FindEdgeOfType returns the first incident edge of type t for which pred is
// true. A nil pred matches any edge of that type.
func (n *Node) FindEdgeOfType(t EdgeType, pred func(*Edge) bool) *Edge {
	return n.FindEdge(func(e *Edge) bool {
		return e.edgeType == t && (pred == nil || pred(e))
	})
}

// ForEachEdge calls fn for every incident edge.
//
// fn must not attach or detach edges of this node.
func (n *Node) ForEachEdge(fn func(*Edge)) {
	for _, e := range n.edges {
		fn(e)
	}
}

// ForEachEdgeOfType calls fn for every incident edge of type t.
func (n *Node) ForEachEdgeOfType(t EdgeType, fn func(*Edge)) {
	for _, e := range n.edges {
		if e.edgeType == t {
			fn(e)
		}
	}
}

// String returns a one-line debug representation.
func (n *Node) String() string {
	return fmt.Sprintf("%d %s %s", n.id, n.nodeType, n.name)
}

func (n *Node) attachEdge(e *Edge) {
	if slices.Contains(n.edges, e) {
		return
	}
	n.edges = append(n.edges, e)
}

func (n *Node) detachEdge(e *Edge) {
	if i := slices.Index(n.edges, e); i >= 0 {
		n.edges = slices.Delete(n.edges, i, i+1)
	}
}
