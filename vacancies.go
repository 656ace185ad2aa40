// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Vacancies is a non-waitable credit counter: a count of available slots
// (vacancies) plus a monotonic index dispenser, used to hand each caller
// of TryAcquire a unique slot index without two callers ever receiving the
// same one.
//
// Count never goes negative. Callers that need to block until a vacancy
// appears should use a [WaitableVacancies] instead.
//
// singleClient, set at construction, selects a cheaper non-atomic cache
// path when the caller guarantees only one goroutine will ever call
// TryAcquire/TryAcquireSpin on this instance.
type Vacancies struct {
	_            pad
	count        atomix.Int64 // credit added by producers/consumers of the other side
	_            padShort
	cache        atomix.Int64 // harvested credit, decremented on every successful acquire
	_            padShort
	index        atomix.Uint64
	_            padShort
	disposed     atomix.Bool
	_            padShort
	singleClient bool
}

// NewVacancies creates a Vacancies with initCount vacancies already
// available. singleClient enables the single-caller fast path.
func NewVacancies(initCount int64, singleClient bool) *Vacancies {
	v := &Vacancies{singleClient: singleClient}
	v.cache.StoreRelaxed(initCount)
	return v
}

// Add grants one additional vacancy. Safe to call from any number of
// goroutines regardless of singleClient (singleClient only constrains
// TryAcquire/TryAcquireSpin callers).
func (v *Vacancies) Add() {
	v.count.AddAcqRel(1)
}

// Count returns (and harvests) the total credit currently available,
// folding freshly added credit into the cache.
func (v *Vacancies) Count() int64 {
	for {
		cur := v.count.LoadAcquire()
		if cur == 0 {
			return v.cache.LoadRelaxed()
		}
		if !v.count.CompareAndSwapAcqRel(cur, 0) {
			continue
		}
		return v.cache.AddAcqRel(cur)
	}
}

// IsDisposed reports whether Dispose has been called.
func (v *Vacancies) IsDisposed() bool {
	return v.disposed.Load()
}

// Dispose marks this side disposed. A disposed Vacancies still honors
// outstanding credit already cached, but TryAcquireSpin stops spinning and
// reports rejection once the cache and count both run dry.
func (v *Vacancies) Dispose() {
	v.disposed.Store(true)
}

// TryAcquire attempts to claim one vacancy without blocking. On success
// it returns the index to use and true; on failure it returns false.
func (v *Vacancies) TryAcquire() (index uint64, ok bool) {
	if !v.acquire() {
		return 0, false
	}
	return v.nextIndex(), true
}

// TryAcquireSpin attempts to claim one vacancy, spinning with adaptive
// back-off while none is available. Returns false only once IsDisposed is
// observed true and no credit remains.
func (v *Vacancies) TryAcquireSpin() (index uint64, ok bool) {
	if v.acquire() {
		return v.nextIndex(), true
	}
	sw := spin.Wait{}
	for {
		sw.Once()
		if v.disposed.Load() && v.count.LoadRelaxed() <= 0 && v.cache.LoadRelaxed() <= 0 {
			return 0, false
		}
		if v.acquire() {
			return v.nextIndex(), true
		}
	}
}

// TryAcquireWait claims one vacancy by adaptively spinning until one is
// available or disposal is observed with no credit left. Vacancies has no
// condition variable to park on, so unlike [WaitableVacancies.TryAcquireWait]
// this never performs an OS-level block; it exists so a [Queue] built on
// Vacancies satisfies the same vacancySide surface as one built on
// [WaitableVacancies], letting Queue dispatch to either statically.
func (v *Vacancies) TryAcquireWait() (index uint64, ok bool) {
	return v.TryAcquireSpin()
}

func (v *Vacancies) nextIndex() uint64 {
	if v.singleClient {
		i := v.index.LoadRelaxed()
		v.index.StoreRelaxed(i + 1)
		return i
	}
	return v.index.AddAcqRel(1) - 1
}

// acquire implements the cache-then-count harvest protocol from
// vacancies_new.hpp: try the local cache first, retrying it only while a
// concurrent harvest has refilled it, and fall through to the slower
// count harvest once the cache is dry.
func (v *Vacancies) acquire() bool {
	for {
		if v.tryCache() {
			return true
		}
		if !v.restoreCache() {
			break
		}
	}
	return v.tryCount()
}

func (v *Vacancies) tryCache() bool {
	if v.singleClient {
		cur := v.cache.LoadRelaxed()
		if cur <= 0 {
			return false
		}
		v.cache.StoreRelaxed(cur - 1)
		return true
	}
	return v.cache.AddAcqRel(-1) >= 0
}

func (v *Vacancies) restoreCache() bool {
	if v.singleClient {
		return false
	}
	return v.cache.AddAcqRel(1) > 0
}

func (v *Vacancies) tryCount() bool {
	for {
		cur := v.count.LoadAcquire()
		if cur <= 0 {
			return false
		}
		if !v.count.CompareAndSwapAcqRel(cur, 0) {
			continue
		}
		if v.singleClient {
			v.cache.StoreRelaxed(v.cache.LoadRelaxed() + cur - 1)
		} else {
			v.cache.AddAcqRel(cur - 1)
		}
		return true
	}
}
