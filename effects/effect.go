package effects

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/go-effects/perform/effects/internal/scope"
)

// logger records handler scope lifecycle at debug level. It is a nop by
// default; install a real logger with SetLogger when tracing scopes.
var logger = zap.NewNop()

// SetLogger replaces the lifecycle logger. Call before registering
// handlers; the logger is not synchronized.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// WithHandler pushes a handler frame for sig onto the dynamic handler
// stack carried by ctx. The handler resumes implicitly: the value (or
// error) handleFn returns is what the perform site resumes with.
//
// The returned end function pops the frame, cancels the scope's workers,
// runs teardown, and hands back the parent context:
//
//	ctx, end := effects.WithHandler(ctx, sig, 1, handleFn)
//	defer end()
//
// Nested registrations for the same signature shadow outer ones; the
// perform site always reaches the innermost live frame.
func WithHandler[P, R any](
	ctx context.Context,
	sig Signature[P, R],
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	h := scope.NewResumable(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	return pushFrame(ctx, sig, scope.Performer[P, R](h), h.ID())
}

// WithDeferredHandler pushes a handler frame whose handler receives an
// explicit Resumption instead of resuming by returning. The handler may
// resume inline, store the resumption and resume later from another
// goroutine, or abandon the suspended computation.
func WithDeferredHandler[P, R any](
	ctx context.Context,
	sig Signature[P, R],
	bufferSize int,
	handleFn func(context.Context, P, *Resumption[R]),
	teardown ...func(),
) (context.Context, func() context.Context) {
	h := scope.NewDeferred(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	return pushFrame(ctx, sig, scope.Performer[P, R](h), h.ID())
}

// WithPartitionedHandler is WithHandler sharded over config.NumWorkers
// workers. Payloads are routed by hash of PartitionKey(), so per-key
// handling order is preserved while distinct keys proceed in parallel.
func WithPartitionedHandler[P Partitionable, R any](
	ctx context.Context,
	sig Signature[P, R],
	config ScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	h := scope.NewPartitionedResumable(ctx, config.BufferSize, config.NumWorkers, handleFn, normalizeTeardown(teardown))
	return pushFrame(ctx, sig, scope.Performer[P, R](h), h.ID())
}

// WithFireAndForgetHandler pushes a handler frame for effects that never
// resume. Suitable for logging, telemetry, and background publishing.
func WithFireAndForgetHandler[P any](
	ctx context.Context,
	sig Signature[P, Unit],
	bufferSize int,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	h := scope.NewFireForget(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	ctxWith := context.WithValue(ctx, sig.key(), h)
	logger.Debug("created fire-and-forget effect handler",
		zap.String("effectId", h.ID()), zap.String("signature", sig.Name()))
	return ctxWith, func() context.Context {
		h.Close()
		logger.Debug("closed fire-and-forget effect handler",
			zap.String("effectId", h.ID()), zap.String("signature", sig.Name()))
		return ctx
	}
}

// pushFrame registers a resumable performer under the signature's key
// and returns the frame-pop function. The pop closes the scope and hands
// back the parent context.
func pushFrame[P, R any](
	ctx context.Context,
	sig Signature[P, R],
	h scope.Performer[P, R],
	effectID string,
) (context.Context, func() context.Context) {
	ctxWith := context.WithValue(ctx, sig.key(), h)
	logger.Debug("created effect handler",
		zap.String("effectId", effectID), zap.String("signature", sig.Name()))
	return ctxWith, func() context.Context {
		h.Close()
		logger.Debug("closed effect handler",
			zap.String("effectId", effectID), zap.String("signature", sig.Name()))
		return ctx
	}
}

// Perform invokes the effect named by sig with the given payload and
// suspends the calling goroutine until the innermost enclosing handler
// resumes it. Resolution is dynamically scoped: the handler is whichever
// frame is innermost at call time, not wherever the performing function
// was defined, so effect signatures never need to be threaded through
// call chains as parameters.
//
// Returns ErrNoHandler when no enclosing frame handles sig, ErrAbandoned
// when the handler gave the computation up, ErrScopeClosed when the
// scope ended first, or ctx.Err() on cancellation.
func Perform[P, R any](ctx context.Context, sig Signature[P, R], payload P) (R, error) {
	var zero R
	raw := ctx.Value(sig.key())
	if raw == nil {
		return zero, fmt.Errorf("%w: %s", ErrNoHandler, sig.Name())
	}
	h, ok := raw.(scope.Performer[P, R])
	if !ok {
		return zero, fmt.Errorf("handler for %s is fire-and-forget, not resumable", sig.Name())
	}
	return h.Perform(ctx, payload)
}

// MustPerform is the panic-on-failure variant of Perform, for call sites
// where a missing handler is a programming error.
func MustPerform[P, R any](ctx context.Context, sig Signature[P, R], payload P) R {
	v, err := Perform(ctx, sig, payload)
	if err != nil {
		panic(err)
	}
	return v
}

// FireAndForget invokes a non-resuming effect: the payload is enqueued
// for the innermost fire-and-forget handler and the caller proceeds
// immediately.
func FireAndForget[P any](ctx context.Context, sig Signature[P, Unit], payload P) error {
	raw := ctx.Value(sig.key())
	if raw == nil {
		return fmt.Errorf("%w: %s", ErrNoHandler, sig.Name())
	}
	h, ok := raw.(scope.FireForget[P])
	if !ok {
		return fmt.Errorf("handler for %s is resumable, not fire-and-forget", sig.Name())
	}
	return h.Fire(ctx, payload)
}

// normalizeTeardown flattens the optional teardown argument. At most one
// teardown function is allowed per scope.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 0:
		return func() {}
	case 1:
		return teardown[0]
	default:
		panic("effects: at most one teardown function per handler scope")
	}
}
