// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// httpBodyWrap wraps a response body so that Close has "once" semantics and
// we emit structured log events lazily: httpBodyStreamStart on the first
// Read, and httpBodyStreamDone on Close (only if at least one Read happened).
func httpBodyWrap(body io.ReadCloser, session *httpSession, spanID string) io.ReadCloser {
	return &httpBodyWrapper{body: body, session: session, spanID: spanID}
}

type httpBodyWrapper struct {
	// body is the actual body.
	body io.ReadCloser

	// closeErr is the error returned by the first Close.
	closeErr error

	// closeOnce ensures that Close has "once" semantics.
	closeOnce sync.Once

	// count is the number of bytes read so far.
	count atomic.Int64

	// didRead tracks whether at least one Read happened.
	didRead atomic.Bool

	// readOnce ensures we log httpBodyStreamStart only once.
	readOnce sync.Once

	// session provides the logger and the clock.
	session *httpSession

	// spanID is the span of the logical call.
	spanID string

	// t0 is the time when we started reading the body.
	t0 time.Time
}

var _ io.ReadCloser = &httpBodyWrapper{}

// Close implements [io.ReadCloser].
func (b *httpBodyWrapper) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.body.Close()
		if b.didRead.Load() { // acquire: t0 is visible if this returns true
			b.session.logger.Info(
				"httpBodyStreamDone",
				slog.String("connector", b.session.name),
				slog.Any("err", b.closeErr),
				slog.String("errClass", b.session.errClassifier.Classify(b.closeErr)),
				slog.Int64("ioBytesCount", b.count.Load()),
				slog.String("spanID", b.spanID),
				slog.Time("t0", b.t0),
				slog.Time("t", b.session.timeNow()),
			)
		}
	})
	return b.closeErr
}

// Read implements [io.ReadCloser].
func (b *httpBodyWrapper) Read(buffer []byte) (int, error) {
	b.readOnce.Do(func() {
		b.t0 = b.session.timeNow() // write t0 BEFORE the atomic store (release)
		b.didRead.Store(true)      // release: makes t0 visible to Close
		b.session.logger.Info(
			"httpBodyStreamStart",
			slog.String("connector", b.session.name),
			slog.String("spanID", b.spanID),
			slog.Time("t", b.t0),
		)
	})
	count, err := b.body.Read(buffer)
	b.count.Add(int64(count))
	return count, err
}
