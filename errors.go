// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TryPush: no vacancy is available (the queue is full).
// For TryPop: no filled slot is available (the queue is empty).
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry (with backoff, spin, or a Wait variant) rather than propagating
// the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrDisposed indicates the operation was rejected because the
// corresponding side of the queue (push or pop) has been disposed.
//
// ErrDisposed wraps [ErrWouldBlock], so callers using [errors.Is] against
// ErrWouldBlock alone still match; callers that need to distinguish
// "disposed" from ordinary backpressure should use [IsDisposed].
var ErrDisposed = fmt.Errorf("vacq: disposed: %w", ErrWouldBlock)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsDisposed reports whether err indicates the operation was rejected
// because the queue side has been disposed.
func IsDisposed(err error) bool {
	return errors.Is(err, ErrDisposed)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock (which ErrDisposed also satisfies).
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
