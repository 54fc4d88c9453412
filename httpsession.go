// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bassosimone/runtimex"
	"golang.org/x/net/http2"
)

// httpSession is the HTTP session owned by a [Connector].
//
// All the requests of a connector share its transport, hence its pool of
// connections, which are dialed through the [*DialPipeline].
type httpSession struct {
	client        *http.Client
	errClassifier ErrClassifier
	logger        SLogger
	name          string
	resolver      Resolver
	timeNow       func() time.Time
	transport     *http.Transport
	userAgent     string
}

func newHTTPSession(cfg *Config, name string, logger SLogger) *httpSession {
	if logger == nil {
		logger = DefaultSLogger()
	}
	dp := NewDialPipeline(cfg, logger)
	txp := &http.Transport{
		DialContext:         dp.DialContext,
		DialTLSContext:      dp.DialTLSContext,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 4,
		Proxy:               http.ProxyFromEnvironment,
	}

	// The transport has a custom DialTLSContext, for which net/http does
	// not enable HTTP/2 on its own.
	runtimex.Assert(http2.ConfigureTransport(txp) == nil)

	return &httpSession{
		client:        &http.Client{Transport: txp},
		errClassifier: cfg.ErrClassifier,
		logger:        logger,
		name:          name,
		resolver:      dp.Resolver,
		timeNow:       cfg.TimeNow,
		transport:     txp,
		userAgent:     cfg.UserAgent,
	}
}

// get performs the GET request and wraps the response body.
func (s *httpSession) get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	spanID := SpanIDFromContext(ctx)
	t0 := s.timeNow()
	s.logger.Info(
		"httpRoundTripStart",
		slog.String("connector", s.name),
		slog.String("httpMethod", req.Method),
		slog.String("httpPath", reqURL.Path),
		slog.String("spanID", spanID),
		slog.Time("t", t0),
	)

	resp, err := s.client.Do(req)

	var status int
	if resp != nil {
		status = resp.StatusCode
	}
	s.logger.Info(
		"httpRoundTripDone",
		slog.String("connector", s.name),
		slog.Any("err", err),
		slog.String("errClass", s.errClassifier.Classify(err)),
		slog.String("httpMethod", req.Method),
		slog.String("httpPath", reqURL.Path),
		slog.Int("httpResponseStatusCode", status),
		slog.String("spanID", spanID),
		slog.Time("t0", t0),
		slog.Time("t", s.timeNow()),
	)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Reason:     statusReason(resp),
		Body:       httpBodyWrap(resp.Body, s, spanID),
	}, nil
}

// idleConnectionsCloser is implemented by resolvers owning a connection
// pool, such as [*DNSResolver].
type idleConnectionsCloser interface {
	CloseIdleConnections()
}

// close drops the idle pooled connections, including the resolver's.
func (s *httpSession) close() {
	s.transport.CloseIdleConnections()
	if closer, ok := s.resolver.(idleConnectionsCloser); ok {
		closer.CloseIdleConnections()
	}
}

// statusReason extracts the reason phrase from the status line.
func statusReason(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if reason, found := strings.CutPrefix(resp.Status, prefix); found && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
