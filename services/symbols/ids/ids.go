// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ids provides the id allocation authority for symbol graphs.
//
// Ids must be comparable across every graph that will later be merged, so
// allocation lives outside any single graph. All producers feeding one
// merged result share one Allocator.
//
// # Thread Safety
//
// Sequence is safe for concurrent use. Producer passes running in separate
// goroutines may draw from the same Sequence.
package ids

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a node or edge. Zero is never allocated.
type ID uint64

// None is the zero ID, used for "no id".
const None ID = 0

// IsValid reports whether the ID was allocated.
func (id ID) IsValid() bool {
	return id != None
}

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Allocator hands out ids that are never reused.
type Allocator interface {
	// Next returns a fresh, never before returned ID.
	Next() ID
}

// Sequence is a monotonically increasing Allocator.
type Sequence struct {
	last atomic.Uint64
}

// NewSequence creates a Sequence whose first ID is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceFrom creates a Sequence whose first ID is after+1.
//
// Use this when resuming allocation next to ids that already exist.
func NewSequenceFrom(after ID) *Sequence {
	s := &Sequence{}
	s.last.Store(uint64(after))
	return s
}

// Next returns the next ID in the sequence.
func (s *Sequence) Next() ID {
	return ID(s.last.Add(1))
}

// Last returns the most recently allocated ID, or None.
func (s *Sequence) Last() ID {
	return ID(s.last.Load())
}

var defaultSequence = NewSequence()

// Default returns the process-wide Sequence.
//
// Graphs created without an explicit allocator draw from it, which keeps
// ids unique across every graph in the process.
func Default() *Sequence {
	return defaultSequence
}

var _ Allocator = (*Sequence)(nil)
