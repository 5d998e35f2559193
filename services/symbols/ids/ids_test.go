// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ids

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_Next(t *testing.T) {
	s := NewSequence()

	assert.Equal(t, None, s.Last())
	assert.Equal(t, ID(1), s.Next())
	assert.Equal(t, ID(2), s.Next())
	assert.Equal(t, ID(2), s.Last())
}

func TestSequence_NewSequenceFrom(t *testing.T) {
	s := NewSequenceFrom(41)
	assert.Equal(t, ID(42), s.Next())
}

func TestID_IsValid(t *testing.T) {
	assert.False(t, None.IsValid())
	assert.True(t, ID(7).IsValid())
	assert.Equal(t, "7", ID(7).String())
}

func TestSequence_ConcurrentUnique(t *testing.T) {
	s := NewSequence()
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[ID]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]ID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, s.Next())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
	assert.Equal(t, ID(workers*perWorker), s.Last())
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
