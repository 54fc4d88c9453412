// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityBuild returns the decoded JSON unchanged.
var identityBuild = MapFunc(func(raw any) any { return raw })

func TestRetryPolicyAttempts(t *testing.T) {
	assert.Equal(t, 5, RetryPolicy{}.Attempts())
	assert.Equal(t, 1, RetryPolicy{MaxRetries: -3}.Attempts())
	assert.Equal(t, 3, RetryPolicy{MaxRetries: 3}.Attempts())
	assert.Equal(t, RetryPolicy{MaxRetries: 5, Delay: time.Second}, DefaultRetryPolicy())
}

// Persistent gateway timeouts exhaust the attempts and surface the last body.
func TestRetryGivesUpOnPersistentGatewayTimeout(t *testing.T) {
	conn := newStubConnector(stubReply{Status: http.StatusGatewayTimeout, Reason: "Gateway Timeout", Body: "try later"})
	policy := RetryPolicy{MaxRetries: 3, Delay: 250 * time.Millisecond}

	_, err := Retry(context.Background(), conn, "/get_user", Params{"u": "5"}, identityBuild, policy, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusGatewayTimeout, httpErr.Code)
	assert.Equal(t, "Gateway Timeout", httpErr.Reason)
	assert.Equal(t, "try later", httpErr.Body)
	assert.Len(t, conn.Calls(), 3)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, conn.Sleeps())
	assert.Equal(t, 3, conn.Released())
}

func TestRetryDoesNotRetryOtherStatuses(t *testing.T) {
	conn := newStubConnector(stubReply{Status: http.StatusInternalServerError, Reason: "Internal Server Error", Body: "boom"})

	_, err := Retry(context.Background(), conn, "/get_user", nil, identityBuild, RetryPolicy{}, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 500, httpErr.Code)
	assert.Equal(t, "boom", httpErr.Body)
	assert.Len(t, conn.Calls(), 1)
	assert.Empty(t, conn.Sleeps())
	assert.Equal(t, 1, conn.Released())
}

func TestRetrySucceedsAfterGatewayTimeout(t *testing.T) {
	conn := newStubConnector(
		stubReply{Status: http.StatusGatewayTimeout, Reason: "Gateway Timeout"},
		stubReply{Status: http.StatusOK, Reason: "OK", Body: `[{"user_id": "5"}]`},
	)

	value, err := Retry(context.Background(), conn, "/get_user", Params{"u": "5"}, identityBuild, RetryPolicy{}, nil)

	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"user_id": "5"}}, value)
	assert.Len(t, conn.Calls(), 2)
	assert.Len(t, conn.Sleeps(), 1)
	assert.Equal(t, 2, conn.Released())
	for _, call := range conn.Calls() {
		assert.Equal(t, "/get_user", call.Endpoint)
		assert.Equal(t, "5", call.Query.Get("u"))
	}
}

func TestRetrySingleAttemptPolicy(t *testing.T) {
	conn := newStubConnector(stubReply{Status: http.StatusGatewayTimeout})

	_, err := Retry(context.Background(), conn, "/get_user", nil, identityBuild, RetryPolicy{MaxRetries: -1}, nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Len(t, conn.Calls(), 1)
	assert.Empty(t, conn.Sleeps())
}

func TestRetryTransportErrorIsReturnedUnchanged(t *testing.T) {
	expected := errors.New("mocked error")
	conn := newStubConnector(stubReply{Err: expected})

	_, err := Retry(context.Background(), conn, "/get_user", nil, identityBuild, RetryPolicy{}, nil)

	assert.Same(t, expected, err)
	assert.Len(t, conn.Calls(), 1)
}

func TestRetryDecodeErrorIsNotRetried(t *testing.T) {
	conn := newStubConnector(stubReply{Status: http.StatusOK, Body: "{not json"})

	_, err := Retry(context.Background(), conn, "/get_user", nil, identityBuild, RetryPolicy{}, nil)

	require.Error(t, err)
	assert.Len(t, conn.Calls(), 1)
	assert.Equal(t, 1, conn.Released())
}

func TestRetryBuildErrorIsReturned(t *testing.T) {
	conn := newStubConnector(stubReply{Status: http.StatusOK, Body: `[{"user_id": "x"}]`})
	build := NewListFunc(NewMaterializer(nil), UserSchema)

	_, err := Retry(context.Background(), conn, "/get_user", nil, build, RetryPolicy{}, nil)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Len(t, conn.Calls(), 1)
}

func TestRetrySleepErrorStopsRetrying(t *testing.T) {
	conn := &sleepFailingConnector{stubConnector: newStubConnector(stubReply{Status: http.StatusGatewayTimeout})}

	_, err := Retry(context.Background(), conn, "/get_user", nil, identityBuild, RetryPolicy{}, nil)

	assert.ErrorIs(t, err, ErrConnectorClosed)
	assert.Len(t, conn.Calls(), 1)
}

type sleepFailingConnector struct {
	*stubConnector
}

func (c *sleepFailingConnector) Sleep(ctx context.Context, delay time.Duration) error {
	return ErrConnectorClosed
}

func TestRetryLogsSpanID(t *testing.T) {
	logger, records := newCapturingLogger()
	conn := newStubConnector(
		stubReply{Status: http.StatusGatewayTimeout},
		stubReply{Status: http.StatusOK, Body: `[]`},
	)
	ctx := ContextWithSpanID(context.Background(), "span-1")

	_, err := Retry(ctx, conn, "/get_beatmaps", nil, identityBuild, RetryPolicy{}, logger)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"retryAttemptStart", "retryAttemptDone",
		"retryAttemptStart", "retryAttemptDone",
	}, records.Messages())
	for _, record := range records.All() {
		spanID, found := recordAttr(record, "spanID")
		require.True(t, found)
		assert.Equal(t, "span-1", spanID.String())
	}
	retry, _ := recordAttr(records.WithMessage("retryAttemptDone")[0], "retry")
	assert.True(t, retry.Bool())
}

func TestRetryWithUsesConfig(t *testing.T) {
	logger, records := newCapturingLogger()
	fixed := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg := NewConfig()
	cfg.ErrClassifier = ErrClassifierFunc(func(err error) string {
		if err == nil {
			return ""
		}
		return "ECUSTOM"
	})
	cfg.RetryPolicy = RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}
	cfg.TimeNow = func() time.Time { return fixed }
	conn := newStubConnector(stubReply{Status: http.StatusGatewayTimeout, Reason: "Gateway Timeout"})

	_, err := RetryWith(context.Background(), NewRetrier(cfg, logger), conn, "/get_user", nil, identityBuild)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Len(t, conn.Calls(), 2)
	assert.Equal(t, []time.Duration{time.Millisecond}, conn.Sleeps())
	done := records.WithMessage("retryAttemptDone")
	require.Len(t, done, 2)
	errClass, _ := recordAttr(done[1], "errClass")
	assert.Equal(t, "ECUSTOM", errClass.String())
	stamp, _ := recordAttr(done[1], "t")
	assert.True(t, fixed.Equal(stamp.Time()))
}

func TestNewRetrier(t *testing.T) {
	cfg := NewConfig()

	r := NewRetrier(cfg, nil)

	assert.NotNil(t, r.Logger)
	assert.NotNil(t, r.ErrClassifier)
	assert.NotNil(t, r.TimeNow)
	assert.Equal(t, cfg.RetryPolicy, r.Policy)
}
