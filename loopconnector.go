// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// NewLoopConnector returns a new [*LoopConnector] and starts its dispatcher.
//
// The caller must Close the connector to stop the dispatcher.
func NewLoopConnector(cfg *Config, logger SLogger) *LoopConnector {
	c := &LoopConnector{
		done:    make(chan struct{}),
		session: newHTTPSession(cfg, "loop", logger),
		tasks:   make(chan loopTask),
	}
	c.wg.Add(1)
	go c.dispatch()
	return c
}

// LoopConnector is the suspending [Connector].
//
// A dispatcher goroutine owns the session. Get hands the request to the
// dispatcher, which runs it on a goroutine of its own, and the caller
// suspends until the response is ready or its context is done. Sleep
// asks the dispatcher for a timer and suspends until it fires.
//
// A LoopConnector is safe for concurrent use.
type LoopConnector struct {
	closeOnce sync.Once
	done      chan struct{}
	session   *httpSession
	tasks     chan loopTask
	wg        sync.WaitGroup
}

var _ Connector = &LoopConnector{}

// loopTask runs on the dispatcher. The closed argument tells the task
// that Close was called and it must fail with [ErrConnectorClosed].
type loopTask func(closed bool)

func (c *LoopConnector) dispatch() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case task := <-c.tasks:
			task(c.isClosed())
		}
	}
}

func (c *LoopConnector) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// submit hands task to the dispatcher.
func (c *LoopConnector) submit(ctx context.Context, task loopTask) error {
	select {
	case <-c.done:
		return ErrConnectorClosed
	case <-ctx.Done():
		return ctx.Err()
	case c.tasks <- task:
		return nil
	}
}

// Get implements [Connector].
//
// When ctx is done before the response arrives, Get returns ctx.Err() and
// the response, if any, is released when it arrives.
func (c *LoopConnector) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	pending := &loopPending{result: make(chan loopResult, 1)}
	err := c.submit(ctx, func(closed bool) {
		if closed {
			pending.deliver(loopResult{err: ErrConnectorClosed})
			return
		}
		go func() {
			resp, err := c.session.get(ctx, endpoint, query)
			pending.deliver(loopResult{resp: resp, err: err})
		}()
	})
	if err != nil {
		return nil, err
	}
	select {
	case res := <-pending.result:
		return res.resp, res.err
	case <-ctx.Done():
		pending.abandon()
		return nil, ctx.Err()
	}
}

// Sleep implements [Connector].
func (c *LoopConnector) Sleep(ctx context.Context, delay time.Duration) error {
	wake := make(chan error, 1)
	err := c.submit(ctx, func(closed bool) {
		if closed {
			wake <- ErrConnectorClosed
			return
		}
		time.AfterFunc(delay, func() {
			wake <- nil
		})
	})
	if err != nil {
		return err
	}
	select {
	case err := <-wake:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements [Connector]. It stops the dispatcher and drops the
// idle pooled connections. Requests already running are not interrupted.
func (c *LoopConnector) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.wg.Wait()
		c.session.close()
	})
	return nil
}

type loopResult struct {
	resp *Response
	err  error
}

// loopPending is the rendezvous between a suspended Get and the
// goroutine running its request.
type loopPending struct {
	abandoned bool
	mu        sync.Mutex
	result    chan loopResult
}

// deliver hands res to the caller, or releases it if the caller left.
func (p *loopPending) deliver(res loopResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.abandoned {
		res.release()
		return
	}
	p.result <- res // buffered and written at most once
}

// abandon marks the caller as gone and releases an already delivered result.
func (p *loopPending) abandon() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.abandoned = true
	select {
	case res := <-p.result:
		res.release()
	default:
	}
}

func (res loopResult) release() {
	if res.resp != nil {
		res.resp.Body.Close()
	}
}
