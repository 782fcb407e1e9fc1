package scope

import (
	"context"

	"github.com/cespare/xxhash/v2"
)

// Partitionable payloads carry a key used to pick the worker that will
// handle them. Payloads with equal keys are handled in perform order.
type Partitionable interface {
	PartitionKey() string
}

func partitionIndex(p Partitionable, numWorkers int) int {
	if numWorkers <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(p.PartitionKey()) % uint64(numWorkers))
}

// PartitionedResumable is a Resumable scope sharded over several workers.
// Payloads are routed by hash of their partition key, preserving per-key
// handling order while allowing cross-key parallelism.
type PartitionedResumable[P Partitionable, R any] struct {
	*partitionedScope[P, R]
}

type partitionedScope[P Partitionable, R any] struct {
	common
	effectChs []chan message[P, R]
}

// NewPartitionedResumable starts numWorkers workers, each owning one
// shard of the effect channel space.
func NewPartitionedResumable[P Partitionable, R any](
	ctx context.Context,
	bufferSize, numWorkers int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) PartitionedResumable[P, R] {
	c, sctx := newCommon(ctx, teardown)
	effectChs := make([]chan message[P, R], numWorkers)
	for i := range effectChs {
		ch := make(chan message[P, R], bufferSize)
		go runResumableWorker(sctx, ch, handleFn)
		effectChs[i] = ch
	}
	return PartitionedResumable[P, R]{&partitionedScope[P, R]{common: c, effectChs: effectChs}}
}

// Perform routes the payload to its shard and suspends until resumed.
func (s PartitionedResumable[P, R]) Perform(ctx context.Context, payload P) (R, error) {
	reply := make(chan result[R], 1)
	ch := s.effectChs[partitionIndex(payload, len(s.effectChs))]
	if err := send(ctx, s.done, ch, message[P, R]{payload: payload, reply: reply}); err != nil {
		var zero R
		return zero, err
	}
	return await(ctx, s.done, reply)
}
