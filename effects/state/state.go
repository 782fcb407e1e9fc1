// Package state provides a keyed mutable store as a partitioned,
// resumable effect. Operations on the same key are handled in perform
// order by the same worker; distinct keys proceed in parallel. A frame
// may delegate misses to an enclosing state frame, giving nested scopes
// read-through cache behavior.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-effects/perform/effects"
	"github.com/go-effects/perform/shared/helper"
)

var sigState = effects.NewSignature[Payload, any]("effects.state")

// ErrNoSuchKey reports a key held by no enclosing state frame.
var ErrNoSuchKey = errors.New("key not found")

// WithHandler pushes a state frame seeded with init. With delegation
// enabled, a Load miss is retried against the enclosing state frame and
// a hit is cached locally.
//
// Every handled operation emits an effects.Observation; receive them via
// EffectObservations.
func WithHandler[K comparable, V comparable](
	ctx context.Context,
	config effects.ScopeConfig,
	delegation bool,
	init map[K]V,
) (context.Context, func() context.Context) {
	sink := make(chan effects.Observation, 2*config.NumWorkers)
	h := &handler[K, V]{
		store:      &sync.Map{},
		sink:       sink,
		delegation: delegation,
	}
	for k, v := range init {
		h.store.Store(k, v)
	}
	// The sink is never closed: workers may still be mid-handle when the
	// scope ends, and a dropped-not-closed sink cannot panic them.
	return effects.WithPartitionedHandler(
		ctx,
		sigState,
		config,
		effects.Observed(sigState, sink, h.handle),
	)
}

// EffectLoad retrieves the value under key from the innermost state
// frame (or, with delegation, the nearest frame that holds it).
func EffectLoad[K comparable, V comparable](ctx context.Context, key K) (V, error) {
	return helper.GetTypedValueOf[V](func() (any, error) {
		return effect(ctx, Load[K]{Key: key})
	})
}

// EffectStore unconditionally sets key to val.
func EffectStore[K comparable, V comparable](ctx context.Context, key K, val V) error {
	_, err := effect(ctx, Store[K, V]{Key: key, New: val})
	return err
}

// EffectCompareAndSwap replaces old with new under key when old still
// holds, reporting whether the swap happened.
func EffectCompareAndSwap[K comparable, V comparable](ctx context.Context, key K, old, new V) (bool, error) {
	return helper.GetTypedValueOf[bool](func() (any, error) {
		return effect(ctx, CompareAndSwap[K, V]{Key: key, Old: old, New: new})
	})
}

// EffectCompareAndDelete removes key when it still holds old, reporting
// whether the delete happened.
func EffectCompareAndDelete[K comparable, V comparable](ctx context.Context, key K, old V) (bool, error) {
	return helper.GetTypedValueOf[bool](func() (any, error) {
		return effect(ctx, CompareAndDelete[K, V]{Key: key, Old: old})
	})
}

// EffectObservations returns the innermost state frame's observation
// sink. Observations are dropped, not buffered, when nobody drains it.
func EffectObservations(ctx context.Context) (<-chan effects.Observation, error) {
	return helper.GetTypedValueOf[<-chan effects.Observation](func() (any, error) {
		return effect(ctx, Source{})
	})
}

func effect(ctx context.Context, payload Payload) (any, error) {
	return effects.Perform(ctx, sigState, payload)
}

type handler[K comparable, V comparable] struct {
	store      *sync.Map
	sink       chan effects.Observation
	delegation bool
}

// handle runs under the context captured at registration time, so the
// delegation performs below resolve against enclosing frames only.
func (h *handler[K, V]) handle(ctx context.Context, payload Payload) (any, error) {
	switch p := payload.(type) {

	case Load[K]:
		if v, ok := h.store.Load(p.Key); ok {
			return v, nil
		}
		if h.delegation {
			if v, err := effect(ctx, p); err == nil {
				cached, _ := h.store.LoadOrStore(p.Key, v)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrNoSuchKey, p.Key)

	case Store[K, V]:
		h.store.Store(p.Key, p.New)
		return true, nil

	case CompareAndSwap[K, V]:
		return h.store.CompareAndSwap(p.Key, p.Old, p.New), nil

	case CompareAndDelete[K, V]:
		return h.store.CompareAndDelete(p.Key, p.Old), nil

	case Source:
		return (<-chan effects.Observation)(h.sink), nil

	default:
		// Payload is sealed; a new case here is a bug, not an input error.
		panic(fmt.Sprintf("invalid state operation type: %T", payload))
	}
}
