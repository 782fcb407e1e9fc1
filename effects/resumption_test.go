package effects_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-effects/perform/effects"
)

var sigFetch = effects.NewSignature[string, string]("test.deferred.fetch")

func TestDeferredHandler_ResumesFromAnotherGoroutine(t *testing.T) {
	parked := make(chan *effects.Resumption[string], 1)

	ctx, end := effects.WithDeferredHandler(context.Background(), sigFetch, 1,
		func(_ context.Context, _ string, r *effects.Resumption[string]) {
			parked <- r
		})
	defer end()

	resolved := make(chan struct{})
	go func() {
		defer close(resolved)
		r := <-parked
		assert.NoError(t, r.Resume("later"))
	}()

	got, err := effects.Perform(ctx, sigFetch, "u")
	require.NoError(t, err)
	assert.Equal(t, "later", got)
	<-resolved
}

var sigOnce = effects.NewSignature[int, int]("test.deferred.once")

func TestResumption_IsOneShot(t *testing.T) {
	parked := make(chan *effects.Resumption[int], 1)

	ctx, end := effects.WithDeferredHandler(context.Background(), sigOnce, 1,
		func(_ context.Context, n int, r *effects.Resumption[int]) {
			parked <- r
		})
	defer end()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r := <-parked
		assert.False(t, r.Used())
		assert.NoError(t, r.Resume(1))
		assert.True(t, r.Used())
		assert.ErrorIs(t, r.Resume(2), effects.ErrResumptionUsed)
		assert.ErrorIs(t, r.Abandon(), effects.ErrResumptionUsed)
	}()

	got, err := effects.Perform(ctx, sigOnce, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	<-done
}

var sigDrop = effects.NewSignature[int, int]("test.deferred.drop")

func TestResumption_AbandonUnblocksPerformSite(t *testing.T) {
	ctx, end := effects.WithDeferredHandler(context.Background(), sigDrop, 1,
		func(_ context.Context, _ int, r *effects.Resumption[int]) {
			assert.NoError(t, r.Abandon())
			assert.ErrorIs(t, r.Resume(9), effects.ErrResumptionUsed)
		})
	defer end()

	_, err := effects.Perform(ctx, sigDrop, 1)
	require.ErrorIs(t, err, effects.ErrAbandoned)
}

var sigErr = effects.NewSignature[int, int]("test.deferred.err")

func TestResumption_ResumeErr(t *testing.T) {
	failed := errors.New("lookup failed")
	ctx, end := effects.WithDeferredHandler(context.Background(), sigErr, 1,
		func(_ context.Context, _ int, r *effects.Resumption[int]) {
			assert.NoError(t, r.ResumeErr(failed))
		})
	defer end()

	_, err := effects.Perform(ctx, sigErr, 1)
	require.ErrorIs(t, err, failed)
}

var sigStuck = effects.NewSignature[int, int]("test.deferred.stuck")

func TestDeferredHandler_ScopeCloseUnblocksSuspended(t *testing.T) {
	parked := make(chan *effects.Resumption[int], 1)
	ctx, end := effects.WithDeferredHandler(context.Background(), sigStuck, 1,
		func(_ context.Context, _ int, r *effects.Resumption[int]) {
			parked <- r
		})

	errCh := make(chan error, 1)
	go func() {
		_, err := effects.Perform(ctx, sigStuck, 1)
		errCh <- err
	}()

	// Wait until the computation is genuinely suspended, then end the
	// scope without ever resuming it.
	r := <-parked
	end()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, effects.ErrScopeClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("perform site still suspended after scope close")
	}

	// Resuming after the scope closed is consumed but goes nowhere.
	assert.NoError(t, r.Resume(3))
}

var sigCancel = effects.NewSignature[int, int]("test.deferred.cancel")

func TestPerform_ContextCancelUnblocksSuspended(t *testing.T) {
	parked := make(chan *effects.Resumption[int], 1)
	ctx, end := effects.WithDeferredHandler(context.Background(), sigCancel, 1,
		func(_ context.Context, _ int, r *effects.Resumption[int]) {
			parked <- r
		})
	defer end()

	performCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		_, err := effects.Perform(performCtx, sigCancel, 1)
		errCh <- err
	}()

	r := <-parked
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("perform site still suspended after cancel")
	}
	_ = r
}
