// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// NewHTTPConnector returns a new [*HTTPConnector].
func NewHTTPConnector(cfg *Config, logger SLogger) *HTTPConnector {
	return &HTTPConnector{
		SleepFunc: time.Sleep,
		session:   newHTTPSession(cfg, "blocking", logger),
	}
}

// HTTPConnector is the blocking [Connector].
//
// Get runs the request on the calling goroutine and Sleep suspends the
// calling goroutine for the whole delay. A single owner is expected.
type HTTPConnector struct {
	// SleepFunc implements Sleep. Tests override it to observe delays.
	//
	// Set by [NewHTTPConnector] to [time.Sleep].
	SleepFunc func(delay time.Duration)

	closeOnce sync.Once
	closed    atomic.Bool
	session   *httpSession
}

var _ Connector = &HTTPConnector{}

// Get implements [Connector].
func (c *HTTPConnector) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	if c.closed.Load() {
		return nil, ErrConnectorClosed
	}
	return c.session.get(ctx, endpoint, query)
}

// Sleep implements [Connector]. It returns early only when ctx is
// already done, or the connector closed, on entry.
func (c *HTTPConnector) Sleep(ctx context.Context, delay time.Duration) error {
	if c.closed.Load() {
		return ErrConnectorClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.SleepFunc(delay)
	return nil
}

// Close implements [Connector].
func (c *HTTPConnector) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.session.close()
	})
	return nil
}
