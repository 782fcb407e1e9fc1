package coro_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/go-effects/perform/effects"
	"github.com/go-effects/perform/effects/coro"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// drive steps the scheduler until every coroutine has returned.
func drive(t *testing.T, sched *coro.Scheduler) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- sched.Wait() }()
	deadline := time.Now().Add(10 * time.Second)
	for {
		select {
		case err := <-done:
			return err
		default:
			if time.Now().After(deadline) {
				t.Fatal("scheduler wedged")
			}
			if sched.StepAll() == 0 {
				time.Sleep(time.Millisecond)
			}
		}
	}
}

func TestScheduler_ResumesPausedCoroutine(t *testing.T) {
	sched := coro.NewScheduler(context.Background(), 4)

	var steps []int
	var mu sync.Mutex
	record := func(n int) {
		mu.Lock()
		steps = append(steps, n)
		mu.Unlock()
	}

	sched.Go(func(ctx context.Context) error {
		record(1)
		if err := coro.Pause(ctx); err != nil {
			return err
		}
		record(2)
		return nil
	})

	require.NoError(t, drive(t, sched))
	assert.Equal(t, []int{1, 2}, steps)
}

func TestScheduler_InterleavesCoroutines(t *testing.T) {
	sched := coro.NewScheduler(context.Background(), 4)

	total := effects.NewBox(0)
	worker := func(steps int) func(context.Context) error {
		return func(ctx context.Context) error {
			for i := 0; i < steps; i++ {
				total.Update(func(n int) int { return n + 1 })
				if err := coro.Pause(ctx); err != nil {
					return err
				}
			}
			return nil
		}
	}

	sched.Go(worker(3))
	sched.Go(worker(5))

	require.NoError(t, drive(t, sched))
	assert.Equal(t, 8, total.Get())
}

func TestScheduler_StepReportsWhetherAnythingWasParked(t *testing.T) {
	sched := coro.NewScheduler(context.Background(), 1)
	assert.False(t, sched.Step())

	sched.Go(func(ctx context.Context) error {
		return coro.Pause(ctx)
	})

	// Wait for the coroutine to park itself.
	for sched.Paused() == 0 {
		time.Sleep(time.Millisecond)
	}
	assert.True(t, sched.Step())
	require.NoError(t, sched.Wait())
}

func TestScheduler_ShutdownUnblocksParkedCoroutines(t *testing.T) {
	sched := coro.NewScheduler(context.Background(), 2)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		sched.Go(func(ctx context.Context) error {
			errs <- coro.Pause(ctx)
			return nil
		})
	}

	for sched.Paused() < 2 {
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, sched.Shutdown())

	close(errs)
	count := 0
	for err := range errs {
		require.ErrorIs(t, err, effects.ErrScopeClosed)
		count++
	}
	assert.Equal(t, 2, count)
}
