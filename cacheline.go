// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

// cacheLineSize is the assumed size of a CPU cache line in bytes.
const cacheLineSize = 64

// pad is cache line padding to prevent false sharing.
type pad [cacheLineSize]byte

// padShort is padding to fill a cache line after an 8-byte field.
type padShort [cacheLineSize - 8]byte

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// bitsOf returns the number of bits needed to represent n, i.e. the
// position of its highest set bit plus one. bitsOf(0) is 0.
func bitsOf(n uint64) uint64 {
	var bits uint64
	for n != 0 {
		bits++
		n >>= 1
	}
	return bits
}

// rotlIndex maps a monotonically increasing logical index onto a slot
// position in a ring of count cells (count a power of 2), left-rotating
// the cache-line sub-index into the low bits whenever more than one cell
// of elemSize bytes shares a cache line.
//
// Without the rotation, consecutive indices would land on consecutive
// cells within the same cache line, so a producer and the consumer
// chasing it would repeatedly contend on the same line. Rotating makes
// consecutive indices skip to the next cache line first, only wrapping
// back to fill in the remaining slots of a line once every line has been
// touched once.
func rotlIndex(elemSize, count, index uint64) uint64 {
	usefulBits := bitsOf(count - 1)
	usefulMask := (uint64(1) << usefulBits) - 1

	if elemSize < cacheLineSize && count > cacheLineSize/elemSize {
		innerBits := bitsOf(cacheLineSize/elemSize - 1)
		outerBits := usefulBits - innerBits
		innerMask := (uint64(1) << innerBits) - 1
		return (((index >> outerBits) & innerMask) | (index << innerBits)) & usefulMask
	}
	return index & usefulMask
}
