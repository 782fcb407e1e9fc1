package scope

import "errors"

var (
	// ErrScopeClosed reports that the handler scope ended while a perform
	// was still waiting to be resumed.
	ErrScopeClosed = errors.New("effect handler scope closed")

	// ErrAbandoned reports that the handler gave up the suspended
	// computation without resuming it.
	ErrAbandoned = errors.New("suspended computation abandoned by handler")

	// ErrResumptionUsed reports a second use of a one-shot resumption.
	ErrResumptionUsed = errors.New("resumption already used")
)
