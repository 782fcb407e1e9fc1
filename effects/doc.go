// Package effects implements algebraic effect handler semantics for Go.
//
// A computation performs a named effect operation without knowing how it
// will be handled; the nearest enclosing handler intercepts it and
// decides whether and how to resume. The three moving parts:
//
//   - Signatures declare effect operations: a name, a payload type, and
//     a resume type. See [NewSignature].
//   - Handler frames are dynamically scoped. [WithHandler] pushes a
//     frame onto the stack carried by a context.Context; the returned end
//     function pops it. Performing resolves to the innermost frame alive
//     at call time, composing across nested scopes and function calls
//     without threading handlers as parameters.
//   - Resumptions reify the suspended computation. Plain handlers resume
//     implicitly by returning; [WithDeferredHandler] hands the handler an
//     explicit [Resumption] it can store and invoke later, from anywhere.
//     A resumption fires at most once; it can also be abandoned.
//
// # Execution model
//
// Go has no native first-class continuations, so suspension is encoded
// on goroutines and channels: each handler scope owns worker goroutines
// reading an effect channel, and a perform blocks its goroutine on a
// reply channel until the handler resumes it, abandons it, or the scope
// closes. Cooperative, single-logical-thread use needs no locks; the
// only synchronized object is the one-shot Resumption.
//
// # Failure behavior
//
// Performing an effect with no enclosing handler is a hard failure:
// [Perform] returns [ErrNoHandler] and [MustPerform] panics. A handler
// that abandons its resumption unblocks the perform site with
// [ErrAbandoned]; ending a scope with performs still suspended unblocks
// them with [ErrScopeClosed].
//
// Example:
//
//	var Ask = effects.NewSignature[string, int]("example.ask")
//
//	ctx, end := effects.WithHandler(ctx, Ask, 1,
//		func(_ context.Context, key string) (int, error) {
//			return lookup(key), nil
//		})
//	defer end()
//
//	n, err := effects.Perform(ctx, Ask, "answer")
package effects
