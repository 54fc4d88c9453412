// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"io"
	"net/url"
	"time"
)

// Connector performs HTTP GET requests against the API.
//
// This package provides two implementations, and the caller picks one
// when constructing the [*Client]:
//
//   - [*HTTPConnector] runs each request on the calling goroutine and
//     its Sleep blocks the caller for the whole delay.
//
//   - [*LoopConnector] runs requests on a dispatcher goroutine; callers
//     suspend on completion or on a dispatcher timer and resume when
//     the result is ready or their context is done.
//
// A Connector owns one underlying HTTP session, shared by all the requests
// it performs. Close releases the session and is idempotent. After Close,
// Get returns [ErrConnectorClosed].
type Connector interface {
	// Get performs a GET request for the endpoint with the given query.
	//
	// On success the caller owns the returned [*Response] and
	// must close its Body. Transport errors are returned unchanged.
	Get(ctx context.Context, endpoint string, query url.Values) (*Response, error)

	// Sleep waits for the given delay between attempts.
	Sleep(ctx context.Context, delay time.Duration) error

	// Close releases the underlying session.
	Close() error
}

// Response is the result of [Connector.Get].
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Reason is the status reason text (e.g., "Gateway Timeout").
	Reason string

	// Body is the response body, which must be closed.
	Body io.ReadCloser
}
