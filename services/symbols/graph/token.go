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

// Token is the capability shared by nodes and edges: identity plus an
// attachable component set.
//
// The set of implementations is closed. Only *Node and *Edge satisfy Token.
type Token interface {
	// ID returns the stable identifier of the token.
	ID() ID

	// Component returns the component of the given kind, if attached.
	Component(kind ComponentKind) (Component, bool)

	// SetComponent attaches a component, replacing one of the same kind.
	SetComponent(comp Component)

	String() string

	sealedToken()
}

var (
	_ Token = (*Node)(nil)
	_ Token = (*Edge)(nil)
)
