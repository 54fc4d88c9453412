// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"net"
)

// NewCancelWatchFunc returns a new [*CancelWatchFunc].
func NewCancelWatchFunc() *CancelWatchFunc {
	return &CancelWatchFunc{}
}

// CancelWatchFunc closes the connection as soon as the context is done, so
// that blocked I/O fails immediately instead of waiting for a deadline.
//
// The resolvers use it for their per-lookup connections to the DNS server.
// The connectors must not use it: their pooled connections outlive the
// context of the request that dialed them.
//
// Closing the returned connection unregisters the watcher.
type CancelWatchFunc struct{}

var _ Func[net.Conn, net.Conn] = &CancelWatchFunc{}

// Call registers the watcher with [context.AfterFunc].
func (op *CancelWatchFunc) Call(ctx context.Context, conn net.Conn) (net.Conn, error) {
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	return &cancelWatchedConn{Conn: conn, stop: stop}, nil
}

type cancelWatchedConn struct {
	net.Conn
	stop func() bool
}

// Close unregisters the watcher and closes the underlying connection.
func (c *cancelWatchedConn) Close() error {
	c.stop()
	return c.Conn.Close()
}
