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

// AddNodeAsPlainCopy adds a copy of a node from another graph, keeping its id.
//
// Description:
//
//	If this graph already owns a node with the same id, that node is
//	returned unchanged, even if its attributes differ from the source.
//	Otherwise a shallow duplicate is added: same id, type, name and
//	components, no edges. Edges come along through AddEdgeAsPlainCopy.
//
// Outputs:
//
//	*Node - The node in this graph with node's id. Nil if node is nil.
func (g *Graph) AddNodeAsPlainCopy(node *Node) *Node {
	n, added := g.plainCopyNode(node)
	if added {
		recordCopied("node")
	}
	return n
}

// plainCopyNode is AddNodeAsPlainCopy without the metric. added reports
// whether a new node was appended.
func (g *Graph) plainCopyNode(node *Node) (*Node, bool) {
	if node == nil {
		return nil, false
	}
	if n := g.GetNodeByID(node.id); n != nil {
		return n, false
	}

	n := &Node{
		components: node.components.clone(),
		id:         node.id,
		nodeType:   node.nodeType,
		name:       node.name,
	}
	g.nodes = append(g.nodes, n)
	return n, true
}

// AddEdgeAsPlainCopy adds a copy of an edge from another graph, keeping its
// id. Both endpoints are copied first, as AddNodeAsPlainCopy does.
//
// Description:
//
//	Returns the owned edge with the same id if there is one. A member edge
//	that would give its target a second parent, or close a cycle, is
//	refused and leaves the graph unchanged: endpoints copied for it are
//	dropped again. If the target already hangs below the same parent the
//	existing member edge is returned.
//
// Outputs:
//
//	*Edge - The edge in this graph with edge's id, or the equivalent member
//	edge. Nil if edge is nil or a member edge was refused.
func (g *Graph) AddEdgeAsPlainCopy(edge *Edge) *Edge {
	if edge == nil {
		return nil
	}
	if e := g.GetEdgeByID(edge.id); e != nil {
		return e
	}

	nodesBefore := len(g.nodes)
	from, fromAdded := g.plainCopyNode(edge.from)
	to, toAdded := g.plainCopyNode(edge.to)

	if edge.IsMember() {
		if existing := g.GetEdge(EdgeTypeMember, from, to); existing != nil {
			return existing
		}
		if !g.memberEdgeAllowed(from, to) {
			// Copied endpoints have no edges yet and sit at the tail.
			g.nodes = g.nodes[:nodesBefore]
			return nil
		}
	}

	if fromAdded {
		recordCopied("node")
	}
	if toAdded {
		recordCopied("node")
	}

	e := newEdge(edge.id, edge.edgeType, from, to)
	e.components = edge.components.clone()
	g.edges = append(g.edges, e)
	recordCopied("edge")
	return e
}

// MergeStats reports what MergeFrom added.
type MergeStats struct {
	NodesAdded int
	EdgesAdded int
}

// MergeFrom copies every node and then every edge of other into g.
//
// Description:
//
//	Uses AddNodeAsPlainCopy and AddEdgeAsPlainCopy, so entities whose ids
//	g already owns are skipped and merging the same graph twice adds
//	nothing the second time. other is not modified.
func (g *Graph) MergeFrom(other *Graph) MergeStats {
	var stats MergeStats
	if other == nil || other == g {
		return stats
	}

	nodesBefore, edgesBefore := len(g.nodes), len(g.edges)
	other.ForEachNode(func(n *Node) {
		g.AddNodeAsPlainCopy(n)
	})
	other.ForEachEdge(func(e *Edge) {
		g.AddEdgeAsPlainCopy(e)
	})

	stats.NodesAdded = len(g.nodes) - nodesBefore
	stats.EdgesAdded = len(g.edges) - edgesBefore
	return stats
}
