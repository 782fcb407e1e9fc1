package effects

import "context"

var sigRaise = NewSignature[error, Unit]("effects.raise")

// WithRaiseHandler pushes a frame that intercepts raised errors. The
// raising computation is never resumed past the Raise call: Raise
// performs the effect and then unwinds by panicking, and the end
// function returned here recovers that panic at the scope boundary.
//
//	ctx, end := effects.WithRaiseHandler(ctx, func(err error) { ... })
//	defer end()
func WithRaiseHandler(ctx context.Context, handler func(error)) (context.Context, func() context.Context) {
	ctxWith, end := WithHandler(ctx, sigRaise, 1, func(_ context.Context, err error) (Unit, error) {
		handler(err)
		return Unit{}, nil
	})
	return ctxWith, func() context.Context {
		recover()
		return end()
	}
}

// Raise performs the raise effect with err and abandons the current
// computation. It never returns.
func Raise(ctx context.Context, err error) {
	Perform(ctx, sigRaise, err) //nolint:errcheck // unwinding regardless
	panic(err)
}

// RaiseIfErr unwraps fn's result, raising on error.
func RaiseIfErr[T any](ctx context.Context, fn func() (T, error)) T {
	res, err := fn()
	if err != nil {
		Raise(ctx, err)
	}
	return res
}

// RaiseIfErrOnly raises when fn fails.
func RaiseIfErrOnly(ctx context.Context, fn func() error) {
	if err := fn(); err != nil {
		Raise(ctx, err)
	}
}
