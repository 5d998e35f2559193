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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeType_String(t *testing.T) {
	tests := []struct {
		nodeType NodeType
		expected string
	}{
		{NodeTypeUndefined, "undefined"},
		{NodeTypeNamespace, "namespace"},
		{NodeTypeFunction, "function"},
		{NodeTypeEnumConstant, "enum_constant"},
		{NodeTypeTemplateParameter, "template_parameter"},
		{NodeType(99), "unknown"},
		{NodeType(-1), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.nodeType.String(); got != tc.expected {
			t.Errorf("NodeType(%d).String() = %q, expected %q", tc.nodeType, got, tc.expected)
		}
	}
}

func TestParseNodeType(t *testing.T) {
	for nt := NodeTypeUndefined; nt < NumNodeTypes; nt++ {
		parsed, err := ParseNodeType(nt.String())
		require.NoError(t, err)
		assert.Equal(t, nt, parsed)
	}

	parsed, err := ParseNodeType("")
	require.NoError(t, err)
	assert.Equal(t, NodeTypeUndefined, parsed)

	_, err = ParseNodeType("lambda")
	assert.Error(t, err)
}

func TestEdgeType_String(t *testing.T) {
	assert.Equal(t, "member", EdgeTypeMember.String())
	assert.Equal(t, "call", EdgeTypeCall.String())
	assert.Equal(t, "inheritance", EdgeTypeInheritance.String())
	assert.Equal(t, "unknown", NumEdgeTypes.String())
}

func TestParseEdgeType(t *testing.T) {
	for et := EdgeTypeMember; et < NumEdgeTypes; et++ {
		parsed, err := ParseEdgeType(et.String())
		require.NoError(t, err)
		assert.Equal(t, et, parsed)
	}

	_, err := ParseEdgeType("")
	assert.Error(t, err)
}

func TestParseAccessKind(t *testing.T) {
	a, err := ParseAccessKind("private")
	require.NoError(t, err)
	assert.Equal(t, AccessPrivate, a)

	a, err = ParseAccessKind("")
	require.NoError(t, err)
	assert.Equal(t, AccessNone, a)

	_, err = ParseAccessKind("internal")
	assert.Error(t, err)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		expected []string
	}{
		{"single", "A", []string{"A"}},
		{"nested", "A::B::C", []string{"A", "B", "C"}},
		{"single colon is part of the name", "A:B", []string{"A:B"}},
		{"empty", "", nil},
		{"leading delimiter", "::A", nil},
		{"trailing delimiter", "A::", nil},
		{"empty segment", "A::::B", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitName(tc.fullName))
		})
	}
}

func TestJoinName(t *testing.T) {
	assert.Equal(t, "A::B::C", JoinName([]string{"A", "B", "C"}))
	assert.Equal(t, "A", JoinName([]string{"A"}))
}

func TestComponents(t *testing.T) {
	g, _ := newTestGraph(t)
	n := g.CreateNodeHierarchy(NodeTypeFunction, "f")

	_, ok := n.Signature()
	assert.False(t, ok)
	assert.Equal(t, 0, n.ComponentCount())

	n.SetComponent(SignatureComponent{Signature: "void f()"})
	n.SetComponent(AccessComponent{Access: AccessPublic})
	n.SetComponent(nil)

	sig, ok := n.Signature()
	require.True(t, ok)
	assert.Equal(t, "void f()", sig)
	assert.Equal(t, 2, n.ComponentCount())

	// One component per kind: a second signature replaces the first.
	n.SetComponent(SignatureComponent{Signature: "void f(int)"})
	sig, _ = n.Signature()
	assert.Equal(t, "void f(int)", sig)
	assert.Equal(t, 2, n.ComponentCount())

	comp, ok := n.Component(ComponentKindAccess)
	require.True(t, ok)
	assert.Equal(t, AccessComponent{Access: AccessPublic}, comp)

	n.RemoveComponent(ComponentKindAccess)
	_, ok = n.Component(ComponentKindAccess)
	assert.False(t, ok)
}

func TestComponentKind_String(t *testing.T) {
	assert.Equal(t, "signature", ComponentKindSignature.String())
	assert.Equal(t, "access", ComponentKindAccess.String())
	assert.Equal(t, "location", ComponentKindLocation.String())
	assert.Equal(t, "unknown", ComponentKind(42).String())
}
