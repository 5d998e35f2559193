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

// lastValidNode resolves names as deep as the hierarchy allows.
//
// Description:
//
//	Finds the root node named names[0], then walks children by exact name
//	match, one segment at a time, stopping at the first segment without a
//	matching child. If several siblings share a name the first attached one
//	is followed.
//
// Outputs:
//
//	*Node - The deepest node reached. Nil if no root matches names[0].
//	[]string - The segments that could not be resolved. Empty on an exact
//	match, equal to names when the root was not found.
func (g *Graph) lastValidNode(names []string) (*Node, []string) {
	if len(names) == 0 {
		return nil, names
	}

	root := names[0]
	node := g.FindNode(func(n *Node) bool {
		return n.name == root && n.IsRoot()
	})
	if node == nil {
		return nil, names
	}

	rest := names[1:]
	for len(rest) > 0 {
		name := rest[0]
		child := node.FindChildNode(func(n *Node) bool {
			return n.name == name
		})
		if child == nil {
			break
		}
		node = child
		rest = rest[1:]
	}
	return node, rest
}

// GetNode returns the node whose full name is exactly fullName, or nil.
//
// Example:
//
//	g.CreateNodeHierarchy(NodeTypeFunction, "A::B::C")
//	g.GetNode("A::B")    // the B node
//	g.GetNode("A::B::D") // nil
func (g *Graph) GetNode(fullName string) *Node {
	node, rest := g.lastValidNode(SplitName(fullName))
	if node == nil || len(rest) > 0 {
		return nil
	}
	return node
}

// CreateNodeHierarchy returns the node named fullName, creating it and any
// missing ancestors.
//
// Description:
//
//	Get-or-create. When the node already exists its type is replaced by
//	nodeType unless nodeType is NodeTypeUndefined; a type is never
//	downgraded to undefined. Otherwise the missing trailing segments are
//	created below the deepest existing ancestor, each linked to its
//	predecessor with a member edge. Only the deepest created node gets
//	nodeType; created ancestors are NodeTypeUndefined.
//
// Outputs:
//
//	*Node - The existing or created node. Nil if fullName is not a valid
//	full name (see SplitName).
func (g *Graph) CreateNodeHierarchy(nodeType NodeType, fullName string) *Node {
	names := SplitName(fullName)
	if names == nil {
		return nil
	}

	node, rest := g.lastValidNode(names)
	if node != nil && len(rest) == 0 {
		upgradeType(node, nodeType)
		return node
	}
	return g.insertNodeHierarchy(nodeType, rest, node)
}

// CreateNodeHierarchyWithDistinctSignature returns a node named fullName
// that carries signature, creating a same-named sibling when needed.
//
// Description:
//
//	Same-named siblings with different signatures are distinct symbols,
//	e.g. overloaded functions. Resolution order:
//
//	  1. The node at fullName carries signature: reuse it.
//	  2. A sibling with the same simple name and parent (or another root,
//	     for root names) carries signature: reuse it.
//	  3. The node at fullName exists with another or no signature: create
//	     a new sibling with the same name and parent.
//	  4. fullName does not fully resolve: create the missing hierarchy as
//	     CreateNodeHierarchy does.
//
//	A node reused in step 1 gets its type upgraded as in
//	CreateNodeHierarchy; a sibling reused in step 2 is returned unchanged.
//	Created nodes get the signature attached.
//
// Outputs:
//
//	*Node - The matching or created node. Nil if fullName is invalid.
func (g *Graph) CreateNodeHierarchyWithDistinctSignature(nodeType NodeType, fullName, signature string) *Node {
	names := SplitName(fullName)
	if names == nil {
		return nil
	}

	node, rest := g.lastValidNode(names)
	if node == nil || len(rest) > 0 {
		node = g.insertNodeHierarchy(nodeType, rest, node)
		node.SetComponent(SignatureComponent{Signature: signature})
		return node
	}

	if sig, ok := node.Signature(); ok && sig == signature {
		upgradeType(node, nodeType)
		return node
	}

	parent := node.ParentNode()
	name := node.name
	sameSymbol := func(n *Node) bool {
		sig, ok := n.Signature()
		return n.name == name && ok && sig == signature
	}

	var sibling *Node
	if parent != nil {
		sibling = parent.FindChildNode(sameSymbol)
	} else {
		sibling = g.FindNode(func(n *Node) bool {
			return sameSymbol(n) && n.IsRoot()
		})
	}
	if sibling != nil {
		return sibling
	}

	// A name collision with a different signature is expected here, so the
	// sibling is inserted directly instead of going through get-or-create.
	node = g.insertNode(nodeType, name, parent)
	node.SetComponent(SignatureComponent{Signature: signature})
	return node
}

// GetNodeWithSignature returns the node named fullName that carries
// signature, or nil. Same-named siblings are searched like
// CreateNodeHierarchyWithDistinctSignature does, without creating anything.
func (g *Graph) GetNodeWithSignature(fullName, signature string) *Node {
	node := g.GetNode(fullName)
	if node == nil {
		return nil
	}
	if sig, ok := node.Signature(); ok && sig == signature {
		return node
	}

	name := node.name
	sameSymbol := func(n *Node) bool {
		sig, ok := n.Signature()
		return n.name == name && ok && sig == signature
	}
	if parent := node.ParentNode(); parent != nil {
		return parent.FindChildNode(sameSymbol)
	}
	return g.FindNode(func(n *Node) bool {
		return sameSymbol(n) && n.IsRoot()
	})
}

func upgradeType(n *Node, t NodeType) {
	if t != NodeTypeUndefined {
		n.nodeType = t
	}
}

// insertNodeHierarchy creates one node per name below parent, in order.
// Only the last created node gets nodeType.
func (g *Graph) insertNodeHierarchy(nodeType NodeType, names []string, parent *Node) *Node {
	for i, name := range names {
		t := NodeTypeUndefined
		if i == len(names)-1 {
			t = nodeType
		}
		parent = g.insertNode(t, name, parent)
	}
	return parent
}

// insertNode creates a node and, if parent is non-nil, the member edge
// linking it to parent.
func (g *Graph) insertNode(nodeType NodeType, name string, parent *Node) *Node {
	n := &Node{
		id:       g.alloc.Next(),
		nodeType: nodeType,
		name:     name,
	}
	g.nodes = append(g.nodes, n)
	recordNodeCreated()

	if parent != nil {
		g.CreateEdge(EdgeTypeMember, parent, n)
	}
	return n
}
