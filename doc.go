// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package vacq provides a bounded FIFO queue gated by a pair of vacancies
// counters instead of the usual head/tail sequence numbers.
//
// Each side of the queue, push and pop, owns a credit counter: the push
// side hands out a unique slot index whenever a vacancy (an empty slot)
// is available, the pop side hands out a unique index whenever a filled
// slot is available, and every successful operation grants one credit to
// the other side. [Vacancies] is the non-waitable, cache-harvesting
// counter; [WaitableVacancies] additionally supports blocking until a
// credit appears.
//
// # Quick Start
//
//	q := vacq.BuildQueue[Event](vacq.New(1024))
//
//	if err := q.TryPush(ev); err != nil {
//	    // vacq.IsWouldBlock(err): queue full, backpressure
//	}
//
//	ev, err := q.TryPop()
//	if err == nil {
//	    process(ev)
//	}
//
// # Builder
//
// [New] returns a [Builder]. Declare single-goroutine sides for a cheaper
// index dispenser with SingleProducer/SingleConsumer. Which sides are
// waitable is a compile-time choice made by which Build function is
// called, not a Builder flag — this keeps the push/pop vacancies type
// concrete on every [Queue] instantiation instead of resolving it at
// runtime through an interface:
//
//	// SPSC pipeline stage, consumer blocks when empty
//	q := vacq.BuildWaitablePop[Frame](vacq.New(4096).
//	        SingleProducer().SingleConsumer())
//
// # Basic Usage
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.TryPush(item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !vacq.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// # Throwing Construction
//
// Where the payload is constructed from fallible inputs, TryPushFunc
// reserves a slot first and only then runs the constructor; if it fails,
// the slot reverts to empty, the push credit is restored, no pop credit
// is granted, and the constructor's error is returned unchanged:
//
//	err := q.TryPushFunc(func() (Resource, error) {
//	    return openResource(path)
//	})
//
// # Pop Without Copying
//
// TryPopDirectly hands the callback a pointer into the queue's own
// buffer instead of copying the value out first, useful for large
// payloads, but the slot is not released until callback returns, so keep
// it short:
//
//	err := q.TryPopDirectly(func(f *Frame) {
//	    encoder.Write(f)
//	})
//
// # Error Handling
//
// Operations return [ErrWouldBlock] when they cannot proceed immediately
// (sourced from [code.hybscloud.com/iox] for ecosystem consistency), and
// [ErrDisposed] (which also satisfies errors.Is against ErrWouldBlock)
// once the relevant side has been disposed:
//
//	vacq.IsWouldBlock(err)  // true if queue full/empty, including disposed
//	vacq.IsDisposed(err)    // true only if disposed
//	vacq.IsSemantic(err)    // true if control flow signal
//	vacq.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Shutdown
//
// [Queue.Dispose] wakes every goroutine parked in a Wait/Spin variant so
// it observes [ErrDisposed] instead of blocking forever; it does not
// touch elements already queued. [Queue.Close] disposes both sides and
// then drains remaining elements, the Go substitute for a destructor:
//
//	q.Dispose() // unblock any waiting goroutines
//	wg.Wait()   // let them exit
//	q.Close()   // drain what's left
//
// # Capacity
//
// Capacity rounds up to the next power of 2; minimum is 2.
//
// # Thread Safety
//
// Within the constraints declared to the [Builder] (SingleProducer/
// SingleConsumer), any number of goroutines may call push operations
// concurrently and any number may call pop operations concurrently.
// Calling a push operation from two goroutines on a queue built with
// SingleProducer corrupts the index dispenser; this is undefined
// behavior, not a checked error.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for adaptive CPU-pause back-off.
package vacq
