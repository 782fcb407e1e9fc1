// Package spawn provides a fire-and-forget structured-concurrency
// effect: computations request goroutines instead of starting them, and
// the handler scope guarantees every spawned routine is joined before
// the scope ends.
package spawn

import (
	"context"
	"sync"

	"github.com/go-effects/perform/effects"
	"github.com/go-effects/perform/effects/log"
)

// Payload is the batch of functions to run concurrently.
type Payload []func(context.Context)

var sigSpawn = effects.NewSignature[Payload, effects.Unit]("effects.spawn")

// WithHandler pushes a spawn frame. Ending the scope cancels every child
// context and blocks until all spawned routines return.
func WithHandler(ctx context.Context, bufferSize int) (context.Context, func() context.Context) {
	sv := &supervisor{}
	return effects.WithFireAndForgetHandler(
		ctx,
		sigSpawn,
		bufferSize,
		sv.spawn,
		sv.wg.Wait,
	)
}

// Effect runs each fn on its own goroutine under the innermost spawn
// scope. The functions receive the scope context, cancelled when the
// scope ends.
func Effect(ctx context.Context, fns ...func(context.Context)) error {
	return effects.FireAndForget(ctx, sigSpawn, Payload(fns))
}

type supervisor struct {
	wg sync.WaitGroup
}

// spawn starts each function on its own goroutine, recovering panics so
// one failed child cannot take down the scope worker.
func (sv *supervisor) spawn(ctx context.Context, fns Payload) {
	for _, fn := range fns {
		sv.wg.Add(1)
		go func(f func(context.Context)) {
			defer sv.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Effect(ctx, log.LevelError, "panic in spawned routine", map[string]interface{}{
						"error": r,
					})
				}
			}()
			f(ctx)
		}(fn)
	}
}
