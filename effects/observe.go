package effects

import (
	"context"
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan brackets when something happened.
type TimeSpan = timespan.TimeSpan

const epsilon = time.Millisecond

// Now returns a span of 2*epsilon centered on the current instant.
func Now() TimeSpan {
	now := time.Now()
	return timespan.BetweenTimes(now.Add(-epsilon), now.Add(epsilon))
}

// Observation records one handled effect: which operation and when.
type Observation struct {
	Signature string
	Span      TimeSpan
}

// Observed wraps a handler function so that every handled payload emits
// an Observation to sink. The send is non-blocking; when the sink is
// full the observation is dropped rather than stalling the handler.
func Observed[P, R any](
	sig Signature[P, R],
	sink chan<- Observation,
	handleFn func(context.Context, P) (R, error),
) func(context.Context, P) (R, error) {
	return func(ctx context.Context, payload P) (R, error) {
		from := time.Now()
		v, err := handleFn(ctx, payload)
		select {
		case sink <- Observation{
			Signature: sig.Name(),
			Span:      timespan.BetweenTimes(from, time.Now()),
		}:
		default:
		}
		return v, err
	}
}
