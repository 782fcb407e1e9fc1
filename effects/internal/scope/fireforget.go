package scope

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// FireForget is a handler scope for effects that never resume: the
// perform site returns as soon as the payload is enqueued. A payload
// accepted by Fire is guaranteed to be handled, even when the scope
// closes right after: Close stops intake, drains the queue, and only
// then cancels the scope context and runs teardown.
type FireForget[P any] struct {
	*fireForgetScope[P]
}

type fireForgetScope[P any] struct {
	common
	mu       sync.RWMutex
	closing  bool
	effectCh chan P
}

// NewFireForget starts a single worker goroutine applying handleFn to
// each payload in arrival order.
func NewFireForget[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireForget[P] {
	sctx, cancel := context.WithCancel(ctx)
	s := &fireForgetScope[P]{effectCh: make(chan P, bufferSize)}
	workerDone := make(chan struct{})
	s.common = common{
		EffectID: uuid.New().String(),
		done:     sctx.Done(),
		closeFn: func() {
			s.mu.Lock()
			s.closing = true
			close(s.effectCh)
			s.mu.Unlock()
			<-workerDone
			cancel()
			teardown()
		},
	}
	go func() {
		defer close(workerDone)
		for payload := range s.effectCh {
			handleFn(sctx, payload)
		}
	}()
	return FireForget[P]{s}
}

// Fire enqueues the payload without waiting for it to be handled. A nil
// return means the payload will be handled before the scope ends.
func (s *fireForgetScope[P]) Fire(ctx context.Context, payload P) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closing {
		return ErrScopeClosed
	}
	select {
	case s.effectCh <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
