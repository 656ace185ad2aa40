// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq

// Options configures the vacancies flags for each side of a Queue.
type Options struct {
	capacity int

	singlePush bool
	singlePop  bool
}

// Builder creates Queues with fluent configuration.
//
// By default both sides are safe for multiple goroutines. Declare
// single-client sides with SingleProducer/SingleConsumer for a cheaper
// index dispenser.
//
// Which sides are waitable is not a Builder flag: it is chosen at compile
// time by which Build function is called ([BuildQueue], [BuildWaitablePush],
// [BuildWaitablePop], [BuildWaitableQueue]), mirroring the original's
// template<Flags> selection instead of resolving the vacancies type at
// construction time through an interface.
//
// Example:
//
//	// SPSC, both sides waitable
//	q := vacq.BuildWaitableQueue[Event](vacq.New(1024).
//	        SingleProducer().SingleConsumer())
//
//	// MPMC, neither side waitable (default)
//	q := vacq.BuildQueue[Request](vacq.New(4096))
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// Capacity rounds up to the next power of 2. Panics if capacity < 2.
func New(capacity int) *Builder {
	if capacity < 2 {
		panic("vacq: capacity must be >= 2")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleProducer declares that only one goroutine will ever call a push
// operation, enabling the cheaper single-client index dispenser.
func (b *Builder) SingleProducer() *Builder {
	b.opts.singlePush = true
	return b
}

// SingleConsumer declares that only one goroutine will ever call a pop
// operation, enabling the cheaper single-client index dispenser.
func (b *Builder) SingleConsumer() *Builder {
	b.opts.singlePop = true
	return b
}

// BuildQueue creates a Queue with neither side built on [WaitableVacancies]:
// TryPushWait/TryPopWait still work but degrade to the same adaptive spin
// as TryPushSpin/TryPopSpin (see [Vacancies.TryAcquireWait]).
func BuildQueue[T any](b *Builder) *Queue[T, *Vacancies, *Vacancies] {
	capacity := roundToPow2(b.opts.capacity)
	push := NewVacancies(int64(capacity), b.opts.singlePush)
	pop := NewVacancies(0, b.opts.singlePop)
	return newQueue[T](capacity, push, pop)
}

// BuildWaitablePush creates a Queue whose push side is built on
// [WaitableVacancies], so TryPushWait/TryPushWaitFunc block on a condition
// variable rather than spinning until a slot opens up.
func BuildWaitablePush[T any](b *Builder) *Queue[T, *WaitableVacancies, *Vacancies] {
	capacity := roundToPow2(b.opts.capacity)
	push := NewWaitableVacancies(int64(capacity), b.opts.singlePush)
	pop := NewVacancies(0, b.opts.singlePop)
	return newQueue[T](capacity, push, pop)
}

// BuildWaitablePop creates a Queue whose pop side is built on
// [WaitableVacancies], so TryPopWait/TryPopDirectlyWait block on a
// condition variable rather than spinning until an element is available.
func BuildWaitablePop[T any](b *Builder) *Queue[T, *Vacancies, *WaitableVacancies] {
	capacity := roundToPow2(b.opts.capacity)
	push := NewVacancies(int64(capacity), b.opts.singlePush)
	pop := NewWaitableVacancies(0, b.opts.singlePop)
	return newQueue[T](capacity, push, pop)
}

// BuildWaitableQueue creates a Queue with both sides built on
// [WaitableVacancies].
func BuildWaitableQueue[T any](b *Builder) *Queue[T, *WaitableVacancies, *WaitableVacancies] {
	capacity := roundToPow2(b.opts.capacity)
	push := NewWaitableVacancies(int64(capacity), b.opts.singlePush)
	pop := NewWaitableVacancies(0, b.opts.singlePop)
	return newQueue[T](capacity, push, pop)
}
