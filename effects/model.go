package effects

import "github.com/go-effects/perform/effects/internal/scope"

// Unit is the resume type of effects whose handlers produce no value.
type Unit = struct{}

// Partitionable payloads carry a key used to route them to a worker.
// Payloads with equal keys are handled in perform order.
type Partitionable = scope.Partitionable

// Resumption is the reified suspended computation a deferred handler
// receives. It is one-shot and may be resumed from any goroutine, inside
// or outside the handler's original dynamic extent.
type Resumption[R any] = scope.Resumption[R]

// ScopeConfig sizes a partitioned handler scope.
type ScopeConfig struct {
	BufferSize int
	NumWorkers int
}

// NewScopeConfig clamps both fields to at least 1.
func NewScopeConfig(bufferSize, numWorkers int) ScopeConfig {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return ScopeConfig{BufferSize: bufferSize, NumWorkers: numWorkers}
}
