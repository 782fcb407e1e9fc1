package effects

import (
	"errors"

	"github.com/go-effects/perform/effects/internal/scope"
)

// ErrNoHandler reports a perform with no enclosing handler for the
// effect's signature. Performing an unhandled effect is a hard failure;
// MustPerform turns it into a panic.
var ErrNoHandler = errors.New("no effect handler registered for this effect")

var (
	// ErrScopeClosed reports that the handler scope ended while a perform
	// was still suspended.
	ErrScopeClosed = scope.ErrScopeClosed

	// ErrAbandoned reports that the handler abandoned the suspended
	// computation without resuming it.
	ErrAbandoned = scope.ErrAbandoned

	// ErrResumptionUsed reports a second use of a one-shot resumption.
	ErrResumptionUsed = scope.ErrResumptionUsed
)
