// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slot states for cellState, encoded so that the sign carries meaning:
// positive means the payload side (empty, ready for a producer) owns the
// slot, negative means the consumer side (constructed, ready for a
// consumer) owns it, and zero is the transient state while either side is
// actively constructing or destructing the payload in place.
const (
	stateEmpty       int32 = 1
	stateVolatile    int32 = 0
	stateConstructed int32 = -1
)

// cellState is the per-slot tri-state latch of a cell ring buffer.
//
// prepush/postpush and prepop/postpop bracket a producer's and a
// consumer's in-place access to the slot's payload, respectively.
// Between prepush and postpush, or between prepop and postpop, the slot
// is in stateVolatile and neither side may touch the payload concurrently.
type cellState struct {
	_     pad
	state atomix.Int32
	_     padShort
}

func newCellState() cellState {
	c := cellState{}
	c.state.StoreRelaxed(stateEmpty)
	return c
}

// fix spins until the rightful owner has moved the state from actual, the
// value a prepush/prepop observed but could not claim, to the opposite
// sign. The CAS loops in prepush/prepop never write a state they cannot
// claim, so there is nothing to restore first.
func (c *cellState) fix(actual int32) {
	sw := spin.Wait{}
	for c.state.LoadRelaxed() != -actual {
		sw.Once()
	}
}

// prepush claims an empty slot for in-place construction, leaving it in
// stateVolatile. Blocks (spins) until a slot becomes available.
func (c *cellState) prepush() {
	sw := spin.Wait{}
	for {
		actual := c.state.LoadAcquire()
		if actual > stateVolatile {
			if c.state.CompareAndSwapAcqRel(actual, stateVolatile) {
				return
			}
			continue
		}
		c.fix(actual)
		sw.Once()
	}
}

// tryPrepush attempts to claim an empty slot without blocking.
func (c *cellState) tryPrepush() bool {
	actual := c.state.LoadAcquire()
	if actual <= stateVolatile {
		return false
	}
	return c.state.CompareAndSwapAcqRel(actual, stateVolatile)
}

// postpush releases a slot claimed by prepush, marking it constructed
// (owned by the consumer side).
func (c *cellState) postpush() {
	c.state.StoreRelease(stateConstructed)
}

// abortPush releases a slot claimed by prepush back to empty, used when
// the payload construction that would normally follow prepush failed.
func (c *cellState) abortPush() {
	c.state.StoreRelease(stateEmpty)
}

// prepop claims a constructed slot for in-place destruction, leaving it
// in stateVolatile. Blocks (spins) until a filled slot becomes available.
func (c *cellState) prepop() {
	sw := spin.Wait{}
	for {
		actual := c.state.LoadAcquire()
		if actual < stateVolatile {
			if c.state.CompareAndSwapAcqRel(actual, stateVolatile) {
				return
			}
			continue
		}
		c.fix(actual)
		sw.Once()
	}
}

// tryPrepop attempts to claim a constructed slot without blocking.
func (c *cellState) tryPrepop() bool {
	actual := c.state.LoadAcquire()
	if actual >= stateVolatile {
		return false
	}
	return c.state.CompareAndSwapAcqRel(actual, stateVolatile)
}

// postpop releases a slot claimed by prepop, marking it empty (owned by
// the producer side).
func (c *cellState) postpop() {
	c.state.StoreRelease(stateEmpty)
}
