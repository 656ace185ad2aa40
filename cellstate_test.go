// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

import (
	"sync"
	"testing"
)

func TestCellStateTransitions(t *testing.T) {
	c := newCellState()

	if got := c.state.LoadRelaxed(); got != stateEmpty {
		t.Fatalf("initial state: got %d, want stateEmpty", got)
	}

	if !c.tryPrepush() {
		t.Fatal("tryPrepush on empty slot: expected success")
	}
	if got := c.state.LoadRelaxed(); got != stateVolatile {
		t.Fatalf("state mid-push: got %d, want stateVolatile", got)
	}
	if c.tryPrepush() {
		t.Fatal("tryPrepush on volatile slot: expected failure")
	}

	c.postpush()
	if got := c.state.LoadRelaxed(); got != stateConstructed {
		t.Fatalf("state after postpush: got %d, want stateConstructed", got)
	}

	if !c.tryPrepop() {
		t.Fatal("tryPrepop on constructed slot: expected success")
	}
	if c.tryPrepop() {
		t.Fatal("tryPrepop on volatile slot: expected failure")
	}

	c.postpop()
	if got := c.state.LoadRelaxed(); got != stateEmpty {
		t.Fatalf("state after postpop: got %d, want stateEmpty", got)
	}
}

func TestCellStateAbortPush(t *testing.T) {
	c := newCellState()

	if !c.tryPrepush() {
		t.Fatal("tryPrepush: expected success")
	}
	c.abortPush()

	if got := c.state.LoadRelaxed(); got != stateEmpty {
		t.Fatalf("state after abortPush: got %d, want stateEmpty", got)
	}
	if !c.tryPrepush() {
		t.Fatal("tryPrepush after abortPush: expected the slot to be claimable again")
	}
}

// TestCellStateAtMostOnePerSlot checks property 5: no two goroutines ever
// simultaneously observe the same slot in VOLATILE on the same logical
// side.
func TestCellStateAtMostOnePerSlot(t *testing.T) {
	c := newCellState()
	c.postpush() // make it claimable by prepop

	const racers = 16
	var wg sync.WaitGroup
	var successes int
	var mu sync.Mutex

	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.tryPrepop() {
				mu.Lock()
				successes++
				mu.Unlock()
				c.postpop()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("concurrent tryPrepop successes: got %d, want exactly 1", successes)
	}
}

func TestCellBufferSlotMapping(t *testing.T) {
	b := newCellBuffer[int](8)

	seen := make(map[uint64]bool)
	for i := range uint64(8) {
		idx := rotlIndex(cellElemSize[int](), b.count, i)
		if idx >= 8 {
			t.Fatalf("rotlIndex(%d) = %d, out of range", i, idx)
		}
		if seen[idx] {
			t.Fatalf("rotlIndex(%d) = %d, collides with an earlier index", i, idx)
		}
		seen[idx] = true
	}
}

func TestRoundToPow2(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 2}, {1, 2}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {1000, 1024},
	}
	for _, tt := range tests {
		if got := roundToPow2(tt.in); got != tt.want {
			t.Fatalf("roundToPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
