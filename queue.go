// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

// vacancySide is the full capability set a [Queue] side can call on: both
// [Vacancies] and [WaitableVacancies] implement every method here (each
// degrading the operation it does not natively support — TryAcquireWait on
// Vacancies spins, TryAcquireSpin on WaitableVacancies busy-waits — rather
// than omitting it).
//
// Queue is generic over this interface as a type parameter, not a field
// type: Push and Pop are fixed once at a Queue's instantiation, so every
// q.push.Xxx()/q.pop.Xxx() call below compiles to a direct call against the
// concrete type argument, never an interface method lookup. This mirrors
// the original's template<Flags> static selection of the vacancies variant
// instead of resolving it dynamically per call (spec §9,
// "Dynamic-dispatch-free polymorphism").
type vacancySide interface {
	TryAcquire() (uint64, bool)
	TryAcquireSpin() (uint64, bool)
	TryAcquireWait() (uint64, bool)
	Add()
	Dispose()
	IsDisposed() bool
	Count() int64
}

// Queue is a bounded FIFO ring buffer gated by a vacancies counter on each
// side: the push side hands out indices into empty slots, the pop side
// hands out indices into filled slots, and each successful operation
// grants one vacancy to the other side.
//
// Push and Pop are fixed at construction (see [BuildQueue],
// [BuildWaitablePush], [BuildWaitablePop], [BuildWaitableQueue]) and never
// change, so the compiler resolves every push/pop method call statically.
//
// A Queue is safe for concurrent use by any number of goroutines on the
// push side and any number on the pop side, except that a side whose
// vacancies was constructed single-client (SingleProducer/SingleConsumer)
// admits only one goroutine; violating that restriction corrupts the
// index dispenser.
type Queue[T any, Push vacancySide, Pop vacancySide] struct {
	push   Push
	pop    Pop
	buffer *cellBuffer[T]
	cap    int
}

// newQueue wires a push/pop vacancies pair to a freshly allocated buffer.
// capacity must already be a power of 2.
func newQueue[T any, Push vacancySide, Pop vacancySide](capacity int, push Push, pop Pop) *Queue[T, Push, Pop] {
	return &Queue[T, Push, Pop]{
		push:   push,
		pop:    pop,
		buffer: newCellBuffer[T](uint64(capacity)),
		cap:    capacity,
	}
}

// Cap returns the queue's usable capacity.
func (q *Queue[T, Push, Pop]) Cap() int {
	return q.cap
}

// TryPush copies v into the queue without blocking.
// Returns [ErrWouldBlock] if the queue is full, or [ErrDisposed] instead
// if it is full and the push side has been disposed. Leftover credit on a
// disposed side is still honored.
func (q *Queue[T, Push, Pop]) TryPush(v T) error {
	return q.TryPushFunc(func() (T, error) { return v, nil })
}

// TryPushFunc constructs the pushed value in place by calling build once a
// slot is reserved, without blocking to reserve it. If build returns an
// error, the reservation is rolled back: the slot reverts to empty, the
// push credit is restored, no pop credit is granted, and the error from
// build is returned unchanged.
func (q *Queue[T, Push, Pop]) TryPushFunc(build func() (T, error)) error {
	index, ok := q.push.TryAcquire()
	if !ok {
		return sideRejection(q.push)
	}
	return q.pushAt(index, build)
}

// TryPushSpin is like TryPushFunc but spins with adaptive back-off instead
// of failing immediately when the queue is full, until a slot opens up or
// the push side is disposed.
func (q *Queue[T, Push, Pop]) TryPushSpin(v T) error {
	return q.TryPushSpinFunc(func() (T, error) { return v, nil })
}

// TryPushSpinFunc is the spinning counterpart of TryPushFunc.
func (q *Queue[T, Push, Pop]) TryPushSpinFunc(build func() (T, error)) error {
	index, ok := q.push.TryAcquireSpin()
	if !ok {
		return ErrDisposed
	}
	return q.pushAt(index, build)
}

// TryPushWait is like TryPushFunc but blocks the calling goroutine until a
// slot opens up or the push side is disposed, rather than failing or
// spinning. If the queue's push side was not built waitable (see
// [BuildWaitablePush], [BuildWaitableQueue]) this degrades to the same
// adaptive spin as TryPushSpin.
func (q *Queue[T, Push, Pop]) TryPushWait(v T) error {
	return q.TryPushWaitFunc(func() (T, error) { return v, nil })
}

// TryPushWaitFunc is the blocking counterpart of TryPushFunc.
func (q *Queue[T, Push, Pop]) TryPushWaitFunc(build func() (T, error)) error {
	index, ok := q.push.TryAcquireWait()
	if !ok {
		return ErrDisposed
	}
	return q.pushAt(index, build)
}

func (q *Queue[T, Push, Pop]) pushAt(index uint64, build func() (T, error)) error {
	cell := q.buffer.slot(index)
	cell.state.prepush()

	v, err := build()
	if err != nil {
		cell.state.abortPush()
		q.push.Add()
		return err
	}
	cell.payload = v
	cell.state.postpush()
	q.pop.Add()
	return nil
}

// TryPop removes and returns the oldest element without blocking.
// Returns [ErrWouldBlock] if the queue is empty, or [ErrDisposed] instead
// if it is empty and the pop side has been disposed. Leftover credit on a
// disposed side is still honored.
func (q *Queue[T, Push, Pop]) TryPop() (T, error) {
	var zero T
	index, ok := q.pop.TryAcquire()
	if !ok {
		return zero, sideRejection(q.pop)
	}
	return q.popAt(index)
}

// TryPopSpin is like TryPop but spins with adaptive back-off instead of
// failing immediately when the queue is empty.
func (q *Queue[T, Push, Pop]) TryPopSpin() (T, error) {
	var zero T
	index, ok := q.pop.TryAcquireSpin()
	if !ok {
		return zero, ErrDisposed
	}
	return q.popAt(index)
}

// TryPopWait is like TryPop but blocks the calling goroutine until an
// element is available or the pop side is disposed. If the queue's pop
// side was not built waitable (see [BuildWaitablePop], [BuildWaitableQueue])
// this degrades to the same adaptive spin as TryPopSpin.
func (q *Queue[T, Push, Pop]) TryPopWait() (T, error) {
	var zero T
	index, ok := q.pop.TryAcquireWait()
	if !ok {
		return zero, ErrDisposed
	}
	return q.popAt(index)
}

func (q *Queue[T, Push, Pop]) popAt(index uint64) (T, error) {
	cell := q.buffer.slot(index)
	cell.state.prepop()
	v := cell.payload
	var zero T
	cell.payload = zero
	cell.state.postpop()
	q.push.Add()
	return v, nil
}

// TryPopDirectly removes the oldest element and passes a pointer to it to
// callback in place, without copying it out first. The slot stays
// reserved (not yet released to the push side) for the duration of
// callback, so callback must not block for long.
//
// Returns [ErrWouldBlock] if the queue is empty, or [ErrDisposed] instead
// if it is empty and the pop side has been disposed.
func (q *Queue[T, Push, Pop]) TryPopDirectly(callback func(*T)) error {
	index, ok := q.pop.TryAcquire()
	if !ok {
		return sideRejection(q.pop)
	}
	return q.popDirectlyAt(index, callback)
}

// TryPopDirectlyWait is the blocking counterpart of TryPopDirectly.
func (q *Queue[T, Push, Pop]) TryPopDirectlyWait(callback func(*T)) error {
	index, ok := q.pop.TryAcquireWait()
	if !ok {
		return ErrDisposed
	}
	return q.popDirectlyAt(index, callback)
}

func (q *Queue[T, Push, Pop]) popDirectlyAt(index uint64, callback func(*T)) error {
	cell := q.buffer.slot(index)
	cell.state.prepop()
	callback(&cell.payload)
	var zero T
	cell.payload = zero
	cell.state.postpop()
	q.push.Add()
	return nil
}

// Dispose marks both sides of the queue disposed: waiting TryPushWait/
// TryPopWait/TryPushSpin/TryPopSpin callers unblock and report
// [ErrDisposed]. Dispose does not drain or destroy elements already in
// the queue; use [Queue.Close] for that. Dispose is idempotent and safe
// to call from any goroutine.
func (q *Queue[T, Push, Pop]) Dispose() {
	q.push.Dispose()
	q.pop.Dispose()
}

// Close disposes both sides and drains every element still queued,
// releasing their slots. Close is the idiomatic Go substitute for the
// original's destructor, which always disposed and drained on scope
// exit. Go has no destructors, so callers must call Close explicitly
// once a Queue is no longer needed.
func (q *Queue[T, Push, Pop]) Close() {
	q.Dispose()
	for {
		index, ok := q.pop.TryAcquire()
		if !ok {
			return
		}
		cell := q.buffer.slot(index)
		cell.state.prepop()
		var zero T
		cell.payload = zero
		cell.state.postpop()
	}
}

func sideRejection[S vacancySide](side S) error {
	if side.IsDisposed() {
		return ErrDisposed
	}
	return ErrWouldBlock
}
