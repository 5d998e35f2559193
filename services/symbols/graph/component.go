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
	"maps"
)

// ComponentKind keys the component set of a token.
type ComponentKind int

const (
	// ComponentKindSignature holds a SignatureComponent.
	ComponentKindSignature ComponentKind = iota

	// ComponentKindAccess holds an AccessComponent.
	ComponentKindAccess

	// ComponentKindLocation holds a LocationComponent.
	ComponentKindLocation
)

// String returns the string representation of the ComponentKind.
func (k ComponentKind) String() string {
	switch k {
	case ComponentKindSignature:
		return "signature"
	case ComponentKindAccess:
		return "access"
	case ComponentKindLocation:
		return "location"
	default:
		return "unknown"
	}
}

// Component is an annotation attached to a node or an edge.
//
// A token holds at most one component per kind. Components are values;
// attaching a component of an existing kind replaces the old one.
type Component interface {
	Kind() ComponentKind
}

// SignatureComponent distinguishes same-named siblings such as overloads.
type SignatureComponent struct {
	Signature string
}

// Kind implements Component.
func (SignatureComponent) Kind() ComponentKind { return ComponentKindSignature }

// AccessKind is the declared visibility of a symbol.
type AccessKind int

const (
	AccessNone AccessKind = iota
	AccessPublic
	AccessProtected
	AccessPrivate
	AccessDefault
)

var accessKindNames = map[AccessKind]string{
	AccessNone:      "none",
	AccessPublic:    "public",
	AccessProtected: "protected",
	AccessPrivate:   "private",
	AccessDefault:   "default",
}

// String returns the string representation of the AccessKind.
func (a AccessKind) String() string {
	if name, ok := accessKindNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAccessKind converts a name produced by AccessKind.String back to an
// AccessKind. The empty string parses as AccessNone.
func ParseAccessKind(s string) (AccessKind, error) {
	if s == "" {
		return AccessNone, nil
	}
	for a, name := range accessKindNames {
		if name == s {
			return a, nil
		}
	}
	return AccessNone, fmt.Errorf("unknown access kind %q", s)
}

// AccessComponent records the visibility of a symbol.
type AccessComponent struct {
	Access AccessKind
}

// Kind implements Component.
func (AccessComponent) Kind() ComponentKind { return ComponentKindAccess }

// LocationComponent records where a symbol or relation appears in source.
type LocationComponent struct {
	FilePath  string
	StartLine int
	EndLine   int
}

// Kind implements Component.
func (LocationComponent) Kind() ComponentKind { return ComponentKindLocation }

// components is the per-token component set. The zero value is empty.
type components struct {
	byKind map[ComponentKind]Component
}

// Component returns the component of the given kind, if attached.
func (c *components) Component(kind ComponentKind) (Component, bool) {
	comp, ok := c.byKind[kind]
	return comp, ok
}

// SetComponent attaches comp, replacing any component of the same kind.
// A nil component is ignored.
func (c *components) SetComponent(comp Component) {
	if comp == nil {
		return
	}
	if c.byKind == nil {
		c.byKind = make(map[ComponentKind]Component, 1)
	}
	c.byKind[comp.Kind()] = comp
}

// RemoveComponent detaches the component of the given kind.
func (c *components) RemoveComponent(kind ComponentKind) {
	delete(c.byKind, kind)
}

// ComponentCount returns the number of attached components.
func (c *components) ComponentCount() int {
	return len(c.byKind)
}

// Signature returns the attached signature, if any.
func (c *components) Signature() (string, bool) {
	comp, ok := c.byKind[ComponentKindSignature].(SignatureComponent)
	if !ok {
		return "", false
	}
	return comp.Signature, true
}

// clone returns an independent copy. Component values are copied by value.
func (c *components) clone() components {
	if len(c.byKind) == 0 {
		return components{}
	}
	return components{byKind: maps.Clone(c.byKind)}
}
