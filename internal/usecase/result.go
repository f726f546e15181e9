// internal/usecase/result.go
package usecase

import "strings"

// Result is the outcome of a use case: either a value or a list of error
// messages, never both. Use cases return Results instead of errors so the
// state containers above them deal in one shape.
type Result[T any] struct {
	Success bool
	Value   T
	Errors  []string
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{Success: true, Value: value}
}

// Fail wraps one or more error messages.
func Fail[T any](messages ...string) Result[T] {
	return Result[T]{Errors: messages}
}

// FromError converts an error into a failed Result, substituting fallback
// when the error carries no message.
func FromError[T any](err error, fallback string) Result[T] {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	return Fail[T](msg)
}

// Err joins the error messages into the single string shown to users.
func (r Result[T]) Err() string {
	return strings.Join(r.Errors, "; ")
}
