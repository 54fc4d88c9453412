// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCountingConn returns a conn counting the calls to Close.
func newCountingConn() (*netstub.FuncConn, *atomic.Int32) {
	var count atomic.Int32
	conn := newMinimalConn()
	conn.CloseFunc = func() error {
		count.Add(1)
		return nil
	}
	return conn, &count
}

func TestCancelWatchFuncCloseDelegates(t *testing.T) {
	conn, count := newCountingConn()

	wrapped, err := NewCancelWatchFunc().Call(context.Background(), conn)
	require.NoError(t, err)

	require.NoError(t, wrapped.Close())
	assert.Equal(t, int32(1), count.Load())
}

func TestCancelWatchFuncClosesOnCancel(t *testing.T) {
	conn, count := newCountingConn()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := NewCancelWatchFunc().Call(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, int32(0), count.Load())

	cancel()
	assert.Eventually(t, func() bool {
		return count.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCancelWatchFuncAlreadyDone(t *testing.T) {
	conn, count := newCountingConn()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCancelWatchFunc().Call(ctx, conn)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return count.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

// After Close, cancelling the context does not close the conn again.
func TestCancelWatchFuncCloseStopsWatcher(t *testing.T) {
	conn, count := newCountingConn()
	ctx, cancel := context.WithCancel(context.Background())

	wrapped, err := NewCancelWatchFunc().Call(ctx, conn)
	require.NoError(t, err)
	require.NoError(t, wrapped.Close())

	cancel()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}
