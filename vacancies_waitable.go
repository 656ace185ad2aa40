// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

import (
	"math"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// WaitableVacancies is a credit counter whose count can go negative: a
// negative value is the number of callers currently parked in
// TryAcquireWait, waiting for a matching Add. This is the mutex/condition
// variable design (as opposed to the non-waitable cache-harvesting design
// behind [Vacancies]); the two are not interchangeable because harvesting
// credit into a cache would erase the negative "waiter backlog" signal
// waiting depends on.
//
// singleClient, set at construction, selects a cheaper non-atomic index
// dispenser when the caller guarantees only one goroutine will ever call
// TryAcquire/TryAcquireWait on this instance; it does not affect count,
// which is always atomic because Add must remain callable concurrently
// with waiters regardless of singleClient.
type WaitableVacancies struct {
	_     pad
	count atomix.Int64
	_     padShort

	mu       sync.Mutex
	cv       *sync.Cond
	awakened int64
	disposed bool

	_            pad
	index        atomix.Uint64
	_            padShort
	singleClient bool
}

// NewWaitableVacancies creates a WaitableVacancies with initCount
// vacancies already available.
func NewWaitableVacancies(initCount int64, singleClient bool) *WaitableVacancies {
	v := &WaitableVacancies{singleClient: singleClient}
	v.cv = sync.NewCond(&v.mu)
	v.count.StoreRelaxed(initCount)
	return v
}

// Add grants one additional vacancy, waking one waiter if count was
// negative (i.e. a caller was parked in TryAcquireWait).
func (v *WaitableVacancies) Add() {
	old := v.count.AddAcqRel(1) - 1
	if old < 0 {
		v.wake(1)
	}
}

// AddBunch grants k additional vacancies at once, waking up to k waiters.
// k must be positive.
func (v *WaitableVacancies) AddBunch(k int64) {
	before := v.count.AddAcqRel(k) - k
	if before >= 0 {
		return
	}
	woken := -before
	if woken > k {
		woken = k
	}
	v.wake(woken)
}

func (v *WaitableVacancies) wake(n int64) {
	v.mu.Lock()
	v.awakened += n
	v.mu.Unlock()
	if n == 1 {
		v.cv.Signal()
	} else {
		v.cv.Broadcast()
	}
}

// Count returns the current credit. A negative value is the number of
// goroutines parked in TryAcquireWait.
func (v *WaitableVacancies) Count() int64 {
	return v.count.LoadRelaxed()
}

// IsDisposed reports whether Dispose has been called.
func (v *WaitableVacancies) IsDisposed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.disposed
}

// Dispose wakes every parked waiter, each of which observes rejection
// rather than a vacancy. Dispose does not affect TryAcquire (non-waiting)
// callers; count-based backpressure continues to apply to them exactly
// as before.
func (v *WaitableVacancies) Dispose() {
	v.mu.Lock()
	v.disposed = true
	v.awakened = math.MaxInt64
	v.mu.Unlock()
	v.cv.Broadcast()
}

// TryAcquire attempts to claim one vacancy without blocking.
func (v *WaitableVacancies) TryAcquire() (index uint64, ok bool) {
	for {
		cur := v.count.LoadAcquire()
		if cur <= 0 {
			return 0, false
		}
		if v.count.CompareAndSwapAcqRel(cur, cur-1) {
			return v.nextIndex(), true
		}
	}
}

// TryAcquireWait claims one vacancy, blocking the calling goroutine until
// one is available or the vacancies is disposed. Returns false only if
// Dispose was observed while waiting.
func (v *WaitableVacancies) TryAcquireWait() (index uint64, ok bool) {
	old := v.count.AddAcqRel(-1) + 1
	if old > 0 {
		return v.nextIndex(), true
	}

	v.mu.Lock()
	for v.awakened <= 0 {
		v.cv.Wait()
	}
	v.awakened--
	success := !v.disposed
	v.mu.Unlock()

	if !success {
		return 0, false
	}
	return v.nextIndex(), true
}

// TryAcquireSpin claims one vacancy by adaptively busy-waiting instead of
// parking on the condition variable, until one is available or the
// vacancies is disposed. WaitableVacancies normally blocks via
// TryAcquireWait; this exists so a [Queue] built on WaitableVacancies
// satisfies the same vacancySide surface as one built on [Vacancies],
// letting Queue dispatch to either statically.
func (v *WaitableVacancies) TryAcquireSpin() (index uint64, ok bool) {
	if index, ok := v.TryAcquire(); ok {
		return index, true
	}
	sw := spin.Wait{}
	for {
		sw.Once()
		if v.IsDisposed() {
			return 0, false
		}
		if index, ok := v.TryAcquire(); ok {
			return index, true
		}
	}
}

func (v *WaitableVacancies) nextIndex() uint64 {
	if v.singleClient {
		i := v.index.LoadRelaxed()
		v.index.StoreRelaxed(i + 1)
		return i
	}
	return v.index.AddAcqRel(1) - 1
}
