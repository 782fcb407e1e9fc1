// Package helper carries small generic utilities shared across effect
// packages.
package helper

import (
	"fmt"
	"time"
)

// GetTypedValueOf asserts the result of a getter function to T.
// Returns an error when the getter fails or the type does not match.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", res)
	}

	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}

// ErrMaxAttempts reports that Retry ran out of attempts.
var ErrMaxAttempts = fmt.Errorf("max attempts reached")

// Retry runs fn until it succeeds, waiting backoff between attempts and
// giving up after maxAttempts failures.
func Retry(maxAttempts int, backoff time.Duration, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("%w: %d, %w", ErrMaxAttempts, attempt, err)
		}
		time.Sleep(backoff)
	}
}
