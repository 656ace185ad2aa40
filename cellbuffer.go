// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

import "unsafe"

// cell holds one slot's state latch together with its payload. States and
// payloads are kept in the same array (the combined layout) rather than
// split into parallel arrays, see DESIGN.md for why the split layout used
// for over-sized T in the original is not reproduced here.
type cell[T any] struct {
	state   cellState
	payload T
}

// cellBuffer is the fixed-size ring storage backing a Queue. count must be
// a power of 2; index mapping goes through rotlIndex so that consecutive
// logical indices spread across cache lines instead of piling up on one.
type cellBuffer[T any] struct {
	cells []cell[T]
	count uint64
}

func newCellBuffer[T any](count uint64) *cellBuffer[T] {
	cells := make([]cell[T], count)
	for i := range cells {
		cells[i].state = newCellState()
	}
	return &cellBuffer[T]{cells: cells, count: count}
}

func (b *cellBuffer[T]) slot(index uint64) *cell[T] {
	return &b.cells[rotlIndex(cellElemSize[T](), b.count, index)]
}

// cellElemSize reports the element size used for the cache-line rotation
// computation. The buffer stores state and payload together, so the
// relevant unit is the size of one cell, not of T alone.
func cellElemSize[T any]() uint64 {
	var c cell[T]
	return uint64(unsafe.Sizeof(c))
}
