package scope

import (
	"context"

	"github.com/google/uuid"
)

// Performer is the perform-side view of a resumable handler scope.
// Both Resumable and Deferred scopes satisfy it, so the perform site
// does not care whether the handler resumes inline or later.
type Performer[P, R any] interface {
	Perform(ctx context.Context, payload P) (R, error)
	Close()
}

// message carries one performed payload together with the channel the
// suspended computation blocks on until it is resumed.
type message[P, R any] struct {
	payload P
	reply   chan result[R]
}

type result[R any] struct {
	value R
	err   error
}

// common holds the lifecycle shared by every scope kind: a scope-local
// context cancelled on Close, and a one-time teardown.
type common struct {
	EffectID string
	done     <-chan struct{}
	closeFn  func()
	closed   bool
}

func newCommon(ctx context.Context, teardown func()) (common, context.Context) {
	sctx, cancel := context.WithCancel(ctx)
	return common{
		EffectID: uuid.New().String(),
		done:     sctx.Done(),
		closeFn: func() {
			cancel()
			teardown()
		},
	}, sctx
}

// Close cancels the scope context and runs teardown, once.
func (c *common) Close() {
	if !c.closed {
		c.closeFn()
		c.closed = true
	}
}

// ID returns the unique id assigned to this scope at creation.
func (c *common) ID() string { return c.EffectID }

// send enqueues a message for a scope worker, giving up when either the
// performing context or the scope itself ends first.
func send[P, R any](ctx context.Context, done <-chan struct{}, ch chan<- message[P, R], msg message[P, R]) error {
	select {
	case ch <- msg:
		return nil
	case <-done:
		return ErrScopeClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// await blocks the performing goroutine until the handler resumes it,
// the scope closes, or the performing context is cancelled.
func await[R any](ctx context.Context, done <-chan struct{}, reply <-chan result[R]) (R, error) {
	select {
	case res := <-reply:
		return res.value, res.err
	case <-done:
		var zero R
		return zero, ErrScopeClosed
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Resumable is a handler scope whose handler resumes inline: the value
// returned by handleFn is the value the perform site resumes with.
type Resumable[P, R any] struct {
	*resumableScope[P, R]
}

type resumableScope[P, R any] struct {
	common
	effectCh chan message[P, R]
}

// NewResumable starts a single worker goroutine applying handleFn to each
// performed payload and resuming the perform site with its result.
func NewResumable[P, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) Resumable[P, R] {
	c, sctx := newCommon(ctx, teardown)
	effectCh := make(chan message[P, R], bufferSize)
	go runResumableWorker(sctx, effectCh, handleFn)
	return Resumable[P, R]{&resumableScope[P, R]{common: c, effectCh: effectCh}}
}

func runResumableWorker[P, R any](
	sctx context.Context,
	ch <-chan message[P, R],
	handleFn func(context.Context, P) (R, error),
) {
	for {
		select {
		case msg := <-ch:
			v, err := handleFn(sctx, msg.payload)
			msg.reply <- result[R]{value: v, err: err}
		case <-sctx.Done():
			return
		}
	}
}

// Perform suspends the calling goroutine until the handler resumes it.
func (s Resumable[P, R]) Perform(ctx context.Context, payload P) (R, error) {
	reply := make(chan result[R], 1)
	if err := send(ctx, s.done, s.effectCh, message[P, R]{payload: payload, reply: reply}); err != nil {
		var zero R
		return zero, err
	}
	return await(ctx, s.done, reply)
}

// Deferred is a handler scope whose handler receives an explicit
// Resumption instead of resuming by returning. The handler may resume
// immediately, store the resumption and resume later from any goroutine,
// or abandon the suspended computation.
type Deferred[P, R any] struct {
	*deferredScope[P, R]
}

type deferredScope[P, R any] struct {
	common
	effectCh chan message[P, R]
}

// NewDeferred starts a single worker goroutine handing each performed
// payload to handleFn along with its one-shot resumption.
func NewDeferred[P, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P, *Resumption[R]),
	teardown func(),
) Deferred[P, R] {
	c, sctx := newCommon(ctx, teardown)
	effectCh := make(chan message[P, R], bufferSize)
	go func() {
		for {
			select {
			case msg := <-effectCh:
				handleFn(sctx, msg.payload, newResumption(msg.reply))
			case <-sctx.Done():
				return
			}
		}
	}()
	return Deferred[P, R]{&deferredScope[P, R]{common: c, effectCh: effectCh}}
}

// Perform suspends the calling goroutine until the resumption handed to
// the handler is resumed or abandoned, or until the scope closes.
func (s Deferred[P, R]) Perform(ctx context.Context, payload P) (R, error) {
	reply := make(chan result[R], 1)
	if err := send(ctx, s.done, s.effectCh, message[P, R]{payload: payload, reply: reply}); err != nil {
		var zero R
		return zero, err
	}
	return await(ctx, s.done, reply)
}
