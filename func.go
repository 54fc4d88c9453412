// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import "context"

// Func is a generic operation that accepts an input and returns a result.
//
// Result builders passed to [Retry] are Func[any, T] values: they receive
// the decoded JSON payload and return the typed result. The dial pipeline
// used by the connectors is also a chain of Func values.
//
// Func instances compose with [Compose2] and [Compose3].
//
// Resource cleanup contract: when a Func receives a closeable resource as
// input and returns an error, it closes that resource before returning.
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter wraps a function as a [Func] implementation.
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}

// MapFunc lifts a pure conversion into a [Func] that never fails.
func MapFunc[A, B any](fx func(A) B) Func[A, B] {
	return FuncAdapter[A, B](func(ctx context.Context, input A) (B, error) {
		return fx(input), nil
	})
}
