// Package log provides a fire-and-forget structured logging effect
// backed by zap. Code under a log handler scope emits logs without ever
// holding a logger: it performs the log effect and whichever handler is
// innermost decides where the record goes.
package log

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-effects/perform/effects"
)

// Level is the severity of a log payload.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Payload is one log record: severity, message, structured fields.
type Payload struct {
	Level   Level
	Message string
	Fields  map[string]interface{}
}

var sigLog = effects.NewSignature[Payload, effects.Unit]("effects.log")

// WithZapHandler pushes a log handler frame writing through the given
// zap logger. The teardown syncs the logger when the scope ends.
func WithZapHandler(
	ctx context.Context,
	bufferSize int,
	logger *zap.Logger,
) (context.Context, func() context.Context) {
	return effects.WithFireAndForgetHandler(
		ctx,
		sigLog,
		bufferSize,
		func(_ context.Context, payload Payload) {
			fields := make([]zap.Field, 0, len(payload.Fields))
			for k, v := range payload.Fields {
				fields = append(fields, zap.Any(k, v))
			}

			switch payload.Level {
			case LevelDebug:
				logger.Debug(payload.Message, fields...)
			case LevelWarn:
				logger.Warn(payload.Message, fields...)
			case LevelError:
				logger.Error(payload.Message, fields...)
			default:
				logger.Info(payload.Message, fields...)
			}
		},
		func() {
			_ = logger.Sync()
		},
	)
}

// WithNopHandler pushes a log handler that discards every record. Meant
// for tests of code that performs log effects.
func WithNopHandler(ctx context.Context) (context.Context, func() context.Context) {
	return WithZapHandler(ctx, 1, zap.NewNop())
}

// Effect emits one log record to the innermost log handler. Dropped
// silently when no log handler is in scope, matching the expectation
// that logging never fails the computation that logs.
func Effect(ctx context.Context, level Level, msg string, fields map[string]interface{}) {
	_ = effects.FireAndForget(ctx, sigLog, Payload{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}
