// Package binding provides a dynamically scoped key-value lookup effect.
// A function deep in a call chain can ask for a binding without the
// value being threaded through every call in between; whichever binding
// handler is innermost answers, falling back to outer scopes for keys it
// does not hold.
package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-effects/perform/effects"
	"github.com/go-effects/perform/shared/helper"
)

// Payload is the looked-up key. Lookups for the same key are handled in
// order by the same worker.
type Payload string

// PartitionKey routes each key to a stable worker.
func (p Payload) PartitionKey() string { return string(p) }

var sigBinding = effects.NewSignature[Payload, any]("effects.binding")

// ErrNoSuchKey reports a key bound in no enclosing binding scope.
var ErrNoSuchKey = errors.New("no binding for key")

// WithHandler pushes a binding frame holding the given map. Keys missing
// from this frame are delegated to the next enclosing binding frame.
func WithHandler(
	ctx context.Context,
	config effects.ScopeConfig,
	bindings map[string]any,
) (context.Context, func() context.Context) {
	h := handler{bindings: normalizeBindings(bindings)}
	return effects.WithPartitionedHandler(ctx, sigBinding, config, h.handle)
}

// Effect looks key up in the innermost binding scope.
func Effect(ctx context.Context, key string) (any, error) {
	return effects.Perform(ctx, sigBinding, Payload(key))
}

// Get is the typed variant of Effect.
func Get[T any](ctx context.Context, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// MustGet panics when the key is unbound or mistyped.
func MustGet[T any](ctx context.Context, key string) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

type handler struct {
	bindings map[string]any
}

// handle answers from the local map, delegating misses outward. The ctx
// a handler runs under was captured at registration time, so performing
// the binding effect here resolves against the enclosing frames only.
func (h handler) handle(ctx context.Context, payload Payload) (any, error) {
	key := string(payload)
	if v, ok := h.bindings[key]; ok {
		return v, nil
	}
	v, err := Effect(ctx, key)
	if errors.Is(err, effects.ErrNoHandler) {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, key)
	}
	return v, err
}

func normalizeBindings(bindings map[string]any) map[string]any {
	if bindings == nil {
		bindings = make(map[string]any)
	}
	return bindings
}
