// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpanID(t *testing.T) {
	spanID := NewSpanID()

	parsed, err := uuid.Parse(spanID)
	require.NoError(t, err)

	// Should be version 7 (time-ordered)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewSpanIDUniqueness(t *testing.T) {
	const count = 100
	seen := make(map[string]struct{}, count)

	for range count {
		spanID := NewSpanID()
		_, duplicate := seen[spanID]
		require.False(t, duplicate, "duplicate span ID generated: %s", spanID)
		seen[spanID] = struct{}{}
	}
}

func TestSpanIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", SpanIDFromContext(ctx))

	spanID := NewSpanID()
	ctx = ContextWithSpanID(ctx, spanID)
	assert.Equal(t, spanID, SpanIDFromContext(ctx))
}
