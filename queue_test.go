// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vacq_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/vacq"
)

// =============================================================================
// Capacity
// =============================================================================

func TestCapacityRounding(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{7, 8},
		{8, 8},
		{9, 16},
		{100, 128},
		{1000, 1024},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			q := vacq.BuildQueue[int](vacq.New(tt.input))
			if q.Cap() != tt.expected {
				t.Fatalf("New(%d).Cap() = %d, want %d", tt.input, q.Cap(), tt.expected)
			}
		})
	}
}

func TestPanicOnSmallCapacity(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for capacity < 2")
		}
	}()
	vacq.New(1)
}

// =============================================================================
// Basic operations / concrete scenarios from the testable-properties list
// =============================================================================

// TestSPSCScenario covers: N=8, push {100, 200}, pop twice.
// Expected popped values: 100 then 200, after which a further pop is
// rejected because no pop credit remains.
func TestSPSCScenario(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(8).SingleProducer().SingleConsumer())

	if err := q.TryPush(100); err != nil {
		t.Fatalf("push 100: %v", err)
	}
	if err := q.TryPush(200); err != nil {
		t.Fatalf("push 200: %v", err)
	}

	v, err := q.TryPop()
	if err != nil || v != 100 {
		t.Fatalf("pop 1: got (%d, %v), want (100, nil)", v, err)
	}
	v, err = q.TryPop()
	if err != nil || v != 200 {
		t.Fatalf("pop 2: got (%d, %v), want (200, nil)", v, err)
	}

	if _, err := q.TryPop(); !errors.Is(err, vacq.ErrWouldBlock) {
		t.Fatalf("pop on drained queue: got %v, want ErrWouldBlock", err)
	}
}

// TestRejectedWhenFull covers: N=4, push 4 values, 5th push rejected
// because no push credit remains.
func TestRejectedWhenFull(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(4))

	for i := range 4 {
		if err := q.TryPush(i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}

	if err := q.TryPush(999); !errors.Is(err, vacq.ErrWouldBlock) {
		t.Fatalf("5th push: got %v, want ErrWouldBlock", err)
	}
}

// TestThrowingConstructor covers: N=8, the value constructor fails on the
// 3rd push; afterwards only the 2 earlier items are poppable, the error is
// returned unchanged, and the failed push's credit is restored, so once
// both items are popped all 8 slots can be refilled.
func TestThrowingConstructor(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(8))

	wantErr := errors.New("constructor failed")

	push := func(n int, fail bool) error {
		return q.TryPushFunc(func() (int, error) {
			if fail {
				return 0, wantErr
			}
			return n, nil
		})
	}

	if err := push(1, false); err != nil {
		t.Fatalf("push 1: %v", err)
	}
	if err := push(2, false); err != nil {
		t.Fatalf("push 2: %v", err)
	}
	if err := push(0, true); !errors.Is(err, wantErr) {
		t.Fatalf("push 3 (throwing): got %v, want wantErr", err)
	}

	v, err := q.TryPop()
	if err != nil || v != 1 {
		t.Fatalf("pop 1: got (%d, %v), want (1, nil)", v, err)
	}
	v, err = q.TryPop()
	if err != nil || v != 2 {
		t.Fatalf("pop 2: got (%d, %v), want (2, nil)", v, err)
	}

	if _, err := q.TryPop(); !errors.Is(err, vacq.ErrWouldBlock) {
		t.Fatalf("3rd pop: got %v, want ErrWouldBlock (slot was rolled back)", err)
	}

	for i := range 8 {
		if err := q.TryPush(100 + i); err != nil {
			t.Fatalf("refill push %d: %v", i, err)
		}
	}
	if err := q.TryPush(999); !errors.Is(err, vacq.ErrWouldBlock) {
		t.Fatalf("refill overflow: got %v, want ErrWouldBlock", err)
	}
}

func TestTryPopDirectly(t *testing.T) {
	q := vacq.BuildQueue[string](vacq.New(4))

	if err := q.TryPush("hello"); err != nil {
		t.Fatalf("push: %v", err)
	}

	var got string
	err := q.TryPopDirectly(func(s *string) {
		got = *s
	})
	if err != nil {
		t.Fatalf("TryPopDirectly: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}

	if err := q.TryPopDirectly(func(s *string) {}); !errors.Is(err, vacq.ErrWouldBlock) {
		t.Fatalf("TryPopDirectly on empty: got %v, want ErrWouldBlock", err)
	}
}

func TestWrapAround(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(4))

	for round := range 10 {
		for i := range 4 {
			v := round*100 + i
			if err := q.TryPush(v); err != nil {
				t.Fatalf("round %d push %d: %v", round, i, err)
			}
		}
		for i := range 4 {
			v, err := q.TryPop()
			if err != nil {
				t.Fatalf("round %d pop %d: %v", round, i, err)
			}
			if want := round*100 + i; v != want {
				t.Fatalf("round %d pop %d: got %d, want %d", round, i, v, want)
			}
		}
	}
}

func TestZeroValue(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(4))
	if err := q.TryPush(0); err != nil {
		t.Fatalf("push 0: %v", err)
	}
	v, err := q.TryPop()
	if err != nil || v != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", v, err)
	}
}

// =============================================================================
// Dispose / Close
// =============================================================================

// TestDisposeIdempotent covers the open question in spec.md §9 on whether
// a disposed side still honors leftover credit for plain (non-spin,
// non-wait) TryAcquire: it does, matching vacancies_new.hpp's try_acquire,
// which never consults the disposed flag. Dispose only guarantees
// rejection once credit is actually exhausted, or for the Spin/Wait
// families (see TestSpinLivenessUnderDispose and
// TestDisposeLeavesLeftoverCreditUsable).
func TestDisposeIdempotent(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(4))
	q.Dispose()
	q.Dispose() // must not panic, must not double-release anything

	for i := range 4 {
		if err := q.TryPush(i); err != nil {
			t.Fatalf("push %d on leftover credit after dispose: %v", i, err)
		}
	}

	pushErr := q.TryPush(4)
	if !errors.Is(pushErr, vacq.ErrDisposed) {
		t.Fatalf("push once credit is exhausted: got %v, want ErrDisposed", pushErr)
	}
	if !vacq.IsWouldBlock(pushErr) {
		t.Fatalf("ErrDisposed must also satisfy IsWouldBlock")
	}
}

// TestDisposeLeavesLeftoverCreditUsable documents the chosen resolution to
// the same open question from the pop side's perspective.
func TestDisposeLeavesLeftoverCreditUsable(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(4))
	if err := q.TryPush(1); err != nil {
		t.Fatalf("push: %v", err)
	}

	q.Dispose()

	v, err := q.TryPop()
	if err != nil || v != 1 {
		t.Fatalf("pop on leftover credit after dispose: got (%d, %v), want (1, nil)", v, err)
	}
	if _, err := q.TryPop(); !errors.Is(err, vacq.ErrDisposed) {
		t.Fatalf("pop once credit is exhausted: got %v, want ErrDisposed", err)
	}
}

func TestCloseDrains(t *testing.T) {
	q := vacq.BuildQueue[int](vacq.New(4))
	for i := range 4 {
		if err := q.TryPush(i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}

	q.Close()

	if err := q.TryPush(0); !errors.Is(err, vacq.ErrDisposed) {
		t.Fatalf("push after close: got %v, want ErrDisposed", err)
	}
	if _, err := q.TryPop(); !errors.Is(err, vacq.ErrWouldBlock) {
		t.Fatalf("pop after close: got %v, want ErrWouldBlock (drained)", err)
	}
}

// =============================================================================
// Waitable sides
// =============================================================================

func TestTryPushWaitDegradesToSpinOnNonWaitableSide(t *testing.T) {
	// A Queue built with BuildQueue has neither side on WaitableVacancies,
	// so the Wait family falls back to spinning instead of panicking or
	// blocking forever.
	q := vacq.BuildQueue[int](vacq.New(2))
	if err := q.TryPushWait(1); err != nil {
		t.Fatalf("TryPushWait on non-waitable side: %v", err)
	}
	v, err := q.TryPopWait()
	if err != nil || v != 1 {
		t.Fatalf("TryPopWait: got (%d, %v), want (1, nil)", v, err)
	}
}

// TestBuildWaitablePopBlocksUntilPush covers a consumer parked in
// TryPopWait on an empty BuildWaitablePop queue, released by a producer's
// TryPush.
func TestBuildWaitablePopBlocksUntilPush(t *testing.T) {
	q := vacq.BuildWaitablePop[int](vacq.New(4))

	result := make(chan int, 1)
	go func() {
		v, err := q.TryPopWait()
		if err != nil {
			result <- -1
			return
		}
		result <- v
	}()

	time.Sleep(5 * time.Millisecond)
	if err := q.TryPush(42); err != nil {
		t.Fatalf("TryPush: %v", err)
	}

	select {
	case v := <-result:
		if v != 42 {
			t.Fatalf("TryPopWait: got %d, want 42", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TryPopWait did not unblock after TryPush")
	}
}

// TestBuildWaitablePushBlocksUntilPop covers a producer parked in
// TryPushWait on a full BuildWaitablePush queue, released by a consumer's
// TryPop.
func TestBuildWaitablePushBlocksUntilPop(t *testing.T) {
	q := vacq.BuildWaitablePush[int](vacq.New(2))
	if err := q.TryPush(1); err != nil {
		t.Fatalf("TryPush: %v", err)
	}
	if err := q.TryPush(2); err != nil {
		t.Fatalf("TryPush: %v", err)
	}

	result := make(chan error, 1)
	go func() {
		result <- q.TryPushWait(3)
	}()

	time.Sleep(5 * time.Millisecond)
	if _, err := q.TryPop(); err != nil {
		t.Fatalf("TryPop: %v", err)
	}

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("TryPushWait: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TryPushWait did not unblock after TryPop")
	}
}
