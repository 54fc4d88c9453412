// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"

	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewSpanID returns a UUIDv7 representing a span.
//
// [Retry] assigns one span ID to each logical API call, so that all the
// attempts, round trips, and body reads of that call can be correlated.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewSpanID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}

type spanIDKey struct{}

// ContextWithSpanID returns a context carrying the given span ID.
func ContextWithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

// SpanIDFromContext returns the span ID carried by ctx or an empty string.
func SpanIDFromContext(ctx context.Context) string {
	spanID, _ := ctx.Value(spanIDKey{}).(string)
	return spanID
}
