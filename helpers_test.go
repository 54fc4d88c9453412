// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
	"github.com/bassosimone/tlsstub"
)

// capturedRecords holds log records captured by newCapturingLogger.
//
// The connectors log from several goroutines, hence the mutex.
type capturedRecords struct {
	mu      sync.Mutex
	records []slog.Record
}

// All returns a copy of the captured records.
func (cr *capturedRecords) All() []slog.Record {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return append([]slog.Record{}, cr.records...)
}

// Messages returns the messages of the captured records, in order.
func (cr *capturedRecords) Messages() []string {
	var out []string
	for _, record := range cr.All() {
		out = append(out, record.Message)
	}
	return out
}

// WithMessage returns the records with the given message.
func (cr *capturedRecords) WithMessage(message string) []slog.Record {
	var out []slog.Record
	for _, record := range cr.All() {
		if record.Message == message {
			out = append(out, record)
		}
	}
	return out
}

// newCapturingLogger returns a logger that captures all log records.
func newCapturingLogger() (*slog.Logger, *capturedRecords) {
	captured := &capturedRecords{}
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			captured.mu.Lock()
			captured.records = append(captured.records, record)
			captured.mu.Unlock()
			return nil
		},
	}
	return slog.New(handler), captured
}

// recordAttr returns the value of the attribute called key.
func recordAttr(record slog.Record, key string) (slog.Value, bool) {
	var (
		found bool
		value slog.Value
	)
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			value, found = attr.Value, true
			return false
		}
		return true
	})
	return value, found
}

// newMockTLSEngine returns a [*tlsstub.FuncTLSEngine] whose ClientFunc
// returns conn and whose NameFunc returns "mock".
func newMockTLSEngine(conn TLSConn) *tlsstub.FuncTLSEngine[TLSConn] {
	return &tlsstub.FuncTLSEngine[TLSConn]{
		ClientFunc: func(c net.Conn, config *tls.Config) TLSConn {
			return conn
		},
		NameFunc: func() string {
			return "mock"
		},
		ParrotFunc: func() string {
			return ""
		},
	}
}

// newMinimalConn returns a [*netstub.FuncConn] with only LocalAddrFunc and
// RemoteAddrFunc set, the minimum required by the safeconn helpers.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{} },
	}
}

// stubCall records one call to [*stubConnector].
type stubCall struct {
	Endpoint string
	Query    url.Values
}

// stubReply is one scripted reply of [*stubConnector].
type stubReply struct {
	Status int
	Reason string
	Body   string
	Err    error
}

// stubConnector is a [Connector] replaying scripted replies. When the
// script is exhausted, it repeats the last reply.
type stubConnector struct {
	mu       sync.Mutex
	calls    []stubCall
	closed   int
	released int
	replies  []stubReply
	sleeps   []time.Duration
}

var _ Connector = &stubConnector{}

func newStubConnector(replies ...stubReply) *stubConnector {
	return &stubConnector{replies: replies}
}

func (c *stubConnector) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, stubCall{Endpoint: endpoint, Query: query})
	reply := c.replies[min(len(c.calls), len(c.replies))-1]
	if reply.Err != nil {
		return nil, reply.Err
	}
	body := &stubBody{Reader: strings.NewReader(reply.Body), onClose: func() {
		c.mu.Lock()
		c.released++
		c.mu.Unlock()
	}}
	return &Response{StatusCode: reply.Status, Reason: reply.Reason, Body: body}, nil
}

func (c *stubConnector) Sleep(ctx context.Context, delay time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, delay)
	return nil
}

func (c *stubConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

// Calls returns the recorded calls.
func (c *stubConnector) Calls() []stubCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]stubCall{}, c.calls...)
}

// Sleeps returns the recorded sleeps.
func (c *stubConnector) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration{}, c.sleeps...)
}

// Released returns how many response bodies were closed.
func (c *stubConnector) Released() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

type stubBody struct {
	io.Reader
	once    sync.Once
	onClose func()
}

func (b *stubBody) Close() error {
	b.once.Do(b.onClose)
	return nil
}
