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
	"strings"

	"github.com/AleutianAI/symgraph/services/symbols/ids"
)

// ID identifies a node or an edge. See package ids.
type ID = ids.ID

// Delimiter separates simple names inside a full name.
const Delimiter = "::"

// NodeType classifies a symbol.
type NodeType int

const (
	// NodeTypeUndefined marks a node whose kind is not known yet, typically
	// an ancestor created implicitly while building a deeper name.
	NodeTypeUndefined NodeType = iota
	NodeTypeNamespace
	NodeTypeType
	NodeTypeStruct
	NodeTypeClass
	NodeTypeInterface
	NodeTypeEnum
	NodeTypeEnumConstant
	NodeTypeTypedef
	NodeTypeFunction
	NodeTypeMethod
	NodeTypeField
	NodeTypeGlobalVariable
	NodeTypeMacro
	NodeTypeFile
	NodeTypeTemplateParameter

	// NumNodeTypes is the number of node types.
	NumNodeTypes
)

var nodeTypeNames = [NumNodeTypes]string{
	NodeTypeUndefined:         "undefined",
	NodeTypeNamespace:         "namespace",
	NodeTypeType:              "type",
	NodeTypeStruct:            "struct",
	NodeTypeClass:             "class",
	NodeTypeInterface:         "interface",
	NodeTypeEnum:              "enum",
	NodeTypeEnumConstant:      "enum_constant",
	NodeTypeTypedef:           "typedef",
	NodeTypeFunction:          "function",
	NodeTypeMethod:            "method",
	NodeTypeField:             "field",
	NodeTypeGlobalVariable:    "global_variable",
	NodeTypeMacro:             "macro",
	NodeTypeFile:              "file",
	NodeTypeTemplateParameter: "template_parameter",
}

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	if t >= 0 && t < NumNodeTypes {
		return nodeTypeNames[t]
	}
	return "unknown"
}

// ParseNodeType converts a name produced by NodeType.String back to a NodeType.
// The empty string parses as NodeTypeUndefined.
func ParseNodeType(s string) (NodeType, error) {
	if s == "" {
		return NodeTypeUndefined, nil
	}
	for t, name := range nodeTypeNames {
		if name == s {
			return NodeType(t), nil
		}
	}
	return NodeTypeUndefined, fmt.Errorf("unknown node type %q", s)
}

// EdgeType classifies a relation between two symbols.
type EdgeType int

const (
	// EdgeTypeMember links a parent to a child in the containment hierarchy.
	// It is the only edge type that encodes hierarchy.
	EdgeTypeMember EdgeType = iota
	EdgeTypeTypeOf
	EdgeTypeReturnTypeOf
	EdgeTypeParameterTypeOf
	EdgeTypeTypeUsage
	EdgeTypeInheritance
	EdgeTypeCall
	EdgeTypeUsage
	EdgeTypeOverride
	EdgeTypeInclude
	EdgeTypeImport

	// NumEdgeTypes is the number of edge types.
	NumEdgeTypes
)

var edgeTypeNames = [NumEdgeTypes]string{
	EdgeTypeMember:          "member",
	EdgeTypeTypeOf:          "type_of",
	EdgeTypeReturnTypeOf:    "return_type_of",
	EdgeTypeParameterTypeOf: "parameter_type_of",
	EdgeTypeTypeUsage:       "type_usage",
	EdgeTypeInheritance:     "inheritance",
	EdgeTypeCall:            "call",
	EdgeTypeUsage:           "usage",
	EdgeTypeOverride:        "override",
	EdgeTypeInclude:         "include",
	EdgeTypeImport:          "import",
}

// String returns the string representation of the EdgeType.
func (t EdgeType) String() string {
	if t >= 0 && t < NumEdgeTypes {
		return edgeTypeNames[t]
	}
	return "unknown"
}

// ParseEdgeType converts a name produced by EdgeType.String back to an EdgeType.
func ParseEdgeType(s string) (EdgeType, error) {
	for t, name := range edgeTypeNames {
		if name == s {
			return EdgeType(t), nil
		}
	}
	return EdgeTypeMember, fmt.Errorf("unknown edge type %q", s)
}

// SplitName splits a full name into its simple names.
//
// Returns nil if fullName is empty or contains an empty segment, e.g.
// "A::::B" or "::A". Such names never resolve and are never created.
func SplitName(fullName string) []string {
	if fullName == "" {
		return nil
	}
	names := strings.Split(fullName, Delimiter)
	for _, name := range names {
		if name == "" {
			return nil
		}
	}
	return names
}

// JoinName joins simple names into a full name.
func JoinName(names []string) string {
	return strings.Join(names, Delimiter)
}
