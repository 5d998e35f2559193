// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package manifest loads YAML symbol manifests and applies them to graphs.
//
// A manifest is what a producer (an indexer pass) emits: a list of symbols
// named by full name, optionally with a signature, type and location, and a
// list of non-member relations between them. Containment is expressed only
// through full names; member edges are never listed explicitly.
//
//	symbols:
//	  - name: "app::Server::Run"
//	    type: method
//	    signature: "void Run()"
//	    access: public
//	    file: server.cpp
//	    line: 42
//	edges:
//	  - type: call
//	    from: "app::Server::Run"
//	    from_signature: "void Run()"
//	    to: "net::Listen"
//
// Thread Safety:
//
//	Load and Parse are safe for concurrent use. Apply mutates the target
//	graph and follows the graph's single-writer contract.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/symgraph/services/symbols/graph"
)

// MaxManifestFileSize is the largest manifest file Load accepts (4 MiB).
const MaxManifestFileSize = 4 * 1024 * 1024

// Sentinel errors for manifest operations.
var (
	// ErrInvalidManifest is returned when a manifest fails to parse or validate.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrManifestTooLarge is returned when a manifest file exceeds
	// MaxManifestFileSize.
	ErrManifestTooLarge = errors.New("manifest file too large")

	// ErrUnknownSymbol is returned when an edge endpoint does not resolve.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// Manifest is the root structure of a manifest file.
type Manifest struct {
	Symbols []Symbol `yaml:"symbols" validate:"dive"`
	Edges   []Edge   `yaml:"edges" validate:"dive"`
}

// Symbol declares one node.
type Symbol struct {
	// Name is the full name, e.g. "ns::Type::method".
	Name string `yaml:"name" validate:"required,full_name"`

	// Type is a graph.NodeType name. Empty means undefined.
	Type string `yaml:"type,omitempty" validate:"omitempty,node_type"`

	// Signature, when present, makes this symbol distinct from same-named
	// siblings with other signatures.
	Signature *string `yaml:"signature,omitempty"`

	// Access is a graph.AccessKind name. "none" clears an access declared
	// by an earlier symbol entry or manifest.
	Access string `yaml:"access,omitempty" validate:"omitempty,access_kind"`

	File    string `yaml:"file,omitempty"`
	Line    int    `yaml:"line,omitempty" validate:"gte=0"`
	EndLine int    `yaml:"end_line,omitempty" validate:"gte=0"`
}

// Edge declares one non-member relation.
type Edge struct {
	// Type is a graph.EdgeType name other than "member".
	Type string `yaml:"type" validate:"required,edge_type"`

	From          string  `yaml:"from" validate:"required,full_name"`
	FromSignature *string `yaml:"from_signature,omitempty"`
	To            string  `yaml:"to" validate:"required,full_name"`
	ToSignature   *string `yaml:"to_signature,omitempty"`

	File string `yaml:"file,omitempty"`
	Line int    `yaml:"line,omitempty" validate:"gte=0"`
}

// manifestValidate is the validator instance for manifest types.
// Initialized in init() with the graph vocabulary validators.
var manifestValidate *validator.Validate

func init() {
	manifestValidate = validator.New()

	_ = manifestValidate.RegisterValidation("full_name", validateFullName)
	_ = manifestValidate.RegisterValidation("node_type", validateNodeType)
	_ = manifestValidate.RegisterValidation("edge_type", validateEdgeType)
	_ = manifestValidate.RegisterValidation("access_kind", validateAccessKind)
}

func validateFullName(fl validator.FieldLevel) bool {
	return graph.SplitName(fl.Field().String()) != nil
}

func validateNodeType(fl validator.FieldLevel) bool {
	_, err := graph.ParseNodeType(fl.Field().String())
	return err == nil
}

// validateEdgeType rejects unknown types and member: hierarchy comes from
// full names only.
func validateEdgeType(fl validator.FieldLevel) bool {
	t, err := graph.ParseEdgeType(fl.Field().String())
	return err == nil && t != graph.EdgeTypeMember
}

func validateAccessKind(fl validator.FieldLevel) bool {
	_, err := graph.ParseAccessKind(fl.Field().String())
	return err == nil
}

// Validate checks the manifest against the graph vocabulary.
func (m *Manifest) Validate() error {
	if err := manifestValidate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return nil
}

// ApplyStats reports what Apply did.
type ApplyStats struct {
	Symbols int
	Edges   int
}

// Apply creates the manifest's symbols and edges in g.
//
// Description:
//
//	Symbols are created in order with get-or-create semantics; symbols with
//	a signature go through signature disambiguation. Edges are created
//	after all symbols, so an edge may reference a symbol declared later in
//	the file. An edge endpoint with a signature resolves to the sibling
//	carrying that signature.
//
// Errors:
//
//	ErrInvalidManifest - m fails validation; g is untouched
//	ErrUnknownSymbol - an edge endpoint does not resolve; symbols and the
//	edges before it have already been applied
//	context errors - ctx was cancelled between items
func Apply(ctx context.Context, g *graph.Graph, m *Manifest) (ApplyStats, error) {
	var stats ApplyStats
	if m == nil {
		return stats, fmt.Errorf("%w: manifest is nil", ErrInvalidManifest)
	}

	ctx, span := startApplySpan(ctx, m)
	defer span.End()

	if err := m.Validate(); err != nil {
		endSpanWithError(span, err)
		return stats, err
	}

	for i := range m.Symbols {
		if err := ctx.Err(); err != nil {
			endSpanWithError(span, err)
			return stats, err
		}
		if _, err := applySymbol(g, &m.Symbols[i]); err != nil {
			endSpanWithError(span, err)
			return stats, err
		}
		stats.Symbols++
	}

	for i := range m.Edges {
		if err := ctx.Err(); err != nil {
			endSpanWithError(span, err)
			return stats, err
		}
		if _, err := applyEdge(g, &m.Edges[i]); err != nil {
			endSpanWithError(span, err)
			return stats, err
		}
		stats.Edges++
	}

	setApplySpanResult(span, stats)
	return stats, nil
}

func applySymbol(g *graph.Graph, s *Symbol) (*graph.Node, error) {
	nodeType, err := graph.ParseNodeType(s.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	var node *graph.Node
	if s.Signature != nil {
		node = g.CreateNodeHierarchyWithDistinctSignature(nodeType, s.Name, *s.Signature)
	} else {
		node = g.CreateNodeHierarchy(nodeType, s.Name)
	}
	if node == nil {
		return nil, fmt.Errorf("%w: symbol name %q", ErrInvalidManifest, s.Name)
	}

	if s.Access != "" {
		access, err := graph.ParseAccessKind(s.Access)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		if access == graph.AccessNone {
			node.RemoveComponent(graph.ComponentKindAccess)
		} else {
			node.SetComponent(graph.AccessComponent{Access: access})
		}
	}
	if s.File != "" {
		node.SetComponent(location(s.File, s.Line, s.EndLine))
	}
	return node, nil
}

func applyEdge(g *graph.Graph, e *Edge) (*graph.Edge, error) {
	edgeType, err := graph.ParseEdgeType(e.Type)
	if err != nil || edgeType == graph.EdgeTypeMember {
		return nil, fmt.Errorf("%w: edge type %q", ErrInvalidManifest, e.Type)
	}

	from, err := resolve(g, e.From, e.FromSignature)
	if err != nil {
		return nil, err
	}
	to, err := resolve(g, e.To, e.ToSignature)
	if err != nil {
		return nil, err
	}

	edge := g.CreateEdge(edgeType, from, to)
	if e.File != "" {
		edge.SetComponent(location(e.File, e.Line, e.Line))
	}
	return edge, nil
}

func resolve(g *graph.Graph, name string, signature *string) (*graph.Node, error) {
	var node *graph.Node
	if signature != nil {
		node = g.GetNodeWithSignature(name, *signature)
	} else {
		node = g.GetNode(name)
	}
	if node == nil {
		if signature != nil {
			return nil, fmt.Errorf("%w: %s with signature %q", ErrUnknownSymbol, name, *signature)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, name)
	}
	return node, nil
}

func location(file string, line, endLine int) graph.LocationComponent {
	if endLine < line {
		endLine = line
	}
	return graph.LocationComponent{FilePath: file, StartLine: line, EndLine: endLine}
}
