package scope

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestFireForget_CloseHandlesEveryAcceptedPayload(t *testing.T) {
	// Close races the worker dequeue; iterate to catch the window where
	// an accepted payload is still buffered when the scope ends.
	for i := 0; i < 500; i++ {
		var handled atomic.Int32
		h := NewFireForget(context.Background(), 8,
			func(_ context.Context, _ int) { handled.Add(1) },
			func() {},
		)
		if err := h.Fire(context.Background(), 1); err != nil {
			t.Fatal(err)
		}
		h.Close()
		if got := handled.Load(); got != 1 {
			t.Fatalf("iteration %d: accepted payload dropped at close (handled %d)", i, got)
		}
	}
}

func TestFireForget_FireAfterClose(t *testing.T) {
	h := NewFireForget(context.Background(), 1,
		func(_ context.Context, _ int) {},
		func() {},
	)
	h.Close()

	if err := h.Fire(context.Background(), 1); err != ErrScopeClosed {
		t.Fatalf("got %v, want ErrScopeClosed", err)
	}
}

func TestFireForget_TeardownRunsAfterDrain(t *testing.T) {
	var handled atomic.Int32
	var handledAtTeardown int32
	h := NewFireForget(context.Background(), 4,
		func(_ context.Context, _ int) { handled.Add(1) },
		func() { handledAtTeardown = handled.Load() },
	)
	for i := 0; i < 4; i++ {
		if err := h.Fire(context.Background(), i); err != nil {
			t.Fatal(err)
		}
	}
	h.Close()

	if handledAtTeardown != 4 {
		t.Fatalf("teardown saw %d handled payloads, want 4", handledAtTeardown)
	}
}
