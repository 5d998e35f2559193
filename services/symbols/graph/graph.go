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
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AleutianAI/symgraph/services/symbols/ids"
)

// GraphOptions configures Graph behavior.
type GraphOptions struct {
	// Logger receives warnings and errors about contract violations.
	// Default: slog.Default()
	Logger *slog.Logger

	// Allocator hands out ids for created nodes and edges. Graphs whose
	// contents will be merged must share one Allocator.
	// Default: ids.Default()
	Allocator ids.Allocator
}

// DefaultGraphOptions returns the default graph configuration.
func DefaultGraphOptions() GraphOptions {
	return GraphOptions{
		Logger:    slog.Default(),
		Allocator: ids.Default(),
	}
}

// GraphOption is a functional option for configuring Graph.
type GraphOption func(*GraphOptions)

// WithLogger sets the logging sink.
func WithLogger(logger *slog.Logger) GraphOption {
	return func(o *GraphOptions) {
		o.Logger = logger
	}
}

// WithAllocator sets the id allocator.
func WithAllocator(alloc ids.Allocator) GraphOption {
	return func(o *GraphOptions) {
		o.Allocator = alloc
	}
}

// Graph owns a set of nodes and edges.
//
// Nodes and edges are kept in insertion order. All lookups are linear
// scans; callers needing faster access build their own index on top.
type Graph struct {
	instanceID string
	nodes      []*Node
	edges      []*Edge
	alloc      ids.Allocator
	logger     *slog.Logger
}

// NewGraph creates an empty graph.
//
// Example:
//
//	alloc := ids.NewSequence()
//	g := graph.NewGraph(graph.WithAllocator(alloc), graph.WithLogger(logger))
//	fn := g.CreateNodeHierarchy(graph.NodeTypeFunction, "app::Server::Run")
func NewGraph(opts ...GraphOption) *Graph {
	options := DefaultGraphOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Allocator == nil {
		options.Allocator = ids.Default()
	}

	instanceID := uuid.NewString()
	return &Graph{
		instanceID: instanceID,
		nodes:      make([]*Node, 0),
		edges:      make([]*Edge, 0),
		alloc:      options.Allocator,
		logger:     options.Logger.With(slog.String("graph_id", instanceID)),
	}
}

// InstanceID returns the unique identifier of this graph instance.
func (g *Graph) InstanceID() string {
	return g.instanceID
}

// NodeCount returns the number of owned nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of owned edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns the owned nodes in insertion order.
//
// The returned slice is a copy; the nodes are not.
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// Edges returns the owned edges in insertion order.
func (g *Graph) Edges() []*Edge {
	return slices.Clone(g.edges)
}

// FindNode returns the first node, in insertion order, for which pred is true.
func (g *Graph) FindNode(pred func(*Node) bool) *Node {
	if i := slices.IndexFunc(g.nodes, pred); i >= 0 {
		return g.nodes[i]
	}
	return nil
}

// FindEdge returns the first edge, in insertion order, for which pred is true.
func (g *Graph) FindEdge(pred func(*Edge) bool) *Edge {
	if i := slices.IndexFunc(g.edges, pred); i >= 0 {
		return g.edges[i]
	}
	return nil
}

// FindToken searches nodes first, then edges.
func (g *Graph) FindToken(pred func(Token) bool) Token {
	if n := g.FindNode(func(n *Node) bool { return pred(n) }); n != nil {
		return n
	}
	if e := g.FindEdge(func(e *Edge) bool { return pred(e) }); e != nil {
		return e
	}
	return nil
}

// GetNodeByID returns the node with the given id, or nil.
func (g *Graph) GetNodeByID(id ID) *Node {
	return g.FindNode(func(n *Node) bool {
		return n.id == id
	})
}

// GetEdgeByID returns the edge with the given id, or nil.
func (g *Graph) GetEdgeByID(id ID) *Edge {
	return g.FindEdge(func(e *Edge) bool {
		return e.id == id
	})
}

// GetTokenByID returns the node or edge with the given id, or nil.
func (g *Graph) GetTokenByID(id ID) Token {
	return g.FindToken(func(t Token) bool {
		return t.ID() == id
	})
}

// ForEachNode calls fn for every node in insertion order.
//
// fn must not mutate the graph.
func (g *Graph) ForEachNode(fn func(*Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

// ForEachEdge calls fn for every edge in insertion order.
//
// fn must not mutate the graph.
func (g *Graph) ForEachEdge(fn func(*Edge)) {
	for _, e := range g.edges {
		fn(e)
	}
}

// ForEachToken calls fn for every node, then every edge.
func (g *Graph) ForEachToken(fn func(Token)) {
	g.ForEachNode(func(n *Node) { fn(n) })
	g.ForEachEdge(func(e *Edge) { fn(e) })
}

// GetEdge returns the edge of type t from -> to, or nil.
func (g *Graph) GetEdge(t EdgeType, from, to *Node) *Edge {
	if from == nil || to == nil {
		return nil
	}
	return from.FindEdgeOfType(t, func(e *Edge) bool {
		return e.from == from && e.to == to
	})
}

// CreateEdge returns the edge of type t from -> to, creating it if needed.
//
// Description:
//
//	Edges are deduplicated by (type, from, to): calling CreateEdge twice
//	with the same arguments returns the same edge. Member edges must keep
//	the containment structure a forest, so a member edge is refused when
//	the target already has a different parent or is an ancestor of the
//	source.
//
// Outputs:
//
//	*Edge - The existing or created edge. Nil if an endpoint is nil or a
//	member edge was refused.
func (g *Graph) CreateEdge(t EdgeType, from, to *Node) *Edge {
	if from == nil || to == nil {
		return nil
	}
	if e := g.GetEdge(t, from, to); e != nil {
		return e
	}
	if t == EdgeTypeMember && !g.memberEdgeAllowed(from, to) {
		return nil
	}
	return g.insertEdge(t, from, to)
}

// memberEdgeAllowed reports whether from -> to may become a member edge and
// logs the reason when it may not.
func (g *Graph) memberEdgeAllowed(from, to *Node) bool {
	if parent := to.ParentNode(); parent != nil {
		recordViolation(violationHierarchy)
		g.logger.Error("node already has a parent",
			slog.String("child", to.FullName()),
			slog.String("parent", parent.FullName()),
			slog.String("requested_parent", from.FullName()),
		)
		return false
	}
	for cur := from; cur != nil; cur = cur.ParentNode() {
		if cur == to {
			recordViolation(violationHierarchy)
			g.logger.Error("member edge would create a cycle",
				slog.String("from", from.FullName()),
				slog.String("to", to.FullName()),
			)
			return false
		}
	}
	return true
}

func (g *Graph) insertEdge(t EdgeType, from, to *Node) *Edge {
	e := newEdge(g.alloc.Next(), t, from, to)
	g.edges = append(g.edges, e)
	recordEdgeCreated(t)
	return e
}

// Clear drops every node and edge.
func (g *Graph) Clear() {
	recordRemoved(len(g.nodes), len(g.edges))
	for _, n := range g.nodes {
		n.edges = nil
	}
	g.nodes = make([]*Node, 0)
	g.edges = make([]*Edge, 0)
}

// String renders the graph for diagnostics. It lists the node count, every
// node, the edge count and every edge, in insertion order.
func (g *Graph) String() string {
	var b strings.Builder
	b.WriteString("Graph:\n")
	b.WriteString("nodes (" + strconv.Itoa(len(g.nodes)) + ")\n")
	for _, n := range g.nodes {
		b.WriteString(n.String())
		b.WriteByte('\n')
	}
	b.WriteString("edges (" + strconv.Itoa(len(g.edges)) + ")\n")
	for _, e := range g.edges {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
