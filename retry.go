// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// RetryPolicy controls the retries performed by [Retry].
type RetryPolicy struct {
	// MaxRetries is the total number of attempts, the first one included.
	// Zero means the default (5). A negative value means a single attempt.
	MaxRetries int

	// Delay is the pause between attempts.
	Delay time.Duration
}

// DefaultRetryPolicy returns the default policy: 5 attempts, 1s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 5, Delay: time.Second}
}

// Attempts returns the total number of attempts the policy allows.
func (p RetryPolicy) Attempts() int {
	switch {
	case p.MaxRetries == 0:
		return DefaultRetryPolicy().MaxRetries
	case p.MaxRetries < 0:
		return 1
	default:
		return p.MaxRetries
	}
}

// NewRetrier returns a new [*Retrier] using the policy, classifier, and
// clock of cfg.
//
// A nil logger means [DefaultSLogger].
func NewRetrier(cfg *Config, logger SLogger) *Retrier {
	if logger == nil {
		logger = DefaultSLogger()
	}
	return &Retrier{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		Policy:        cfg.RetryPolicy,
		TimeNow:       cfg.TimeNow,
	}
}

// Retrier holds the settings used by [RetryWith].
type Retrier struct {
	// ErrClassifier classifies the errors of the retryAttemptDone events.
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use.
	Logger SLogger

	// Policy controls the retries.
	Policy RetryPolicy

	// TimeNow returns the current time.
	TimeNow func() time.Time
}

// Retry is like [RetryWith] with the given policy and logger, the
// [DefaultErrClassifier], and [time.Now]. A nil logger means [DefaultSLogger].
func Retry[T any](ctx context.Context, conn Connector, endpoint string,
	params Params, build Func[any, T], policy RetryPolicy, logger SLogger) (T, error) {
	if logger == nil {
		logger = DefaultSLogger()
	}
	r := &Retrier{
		ErrClassifier: DefaultErrClassifier,
		Logger:        logger,
		Policy:        policy,
		TimeNow:       time.Now,
	}
	return RetryWith(ctx, r, conn, endpoint, params, build)
}

// RetryWith performs a GET request for endpoint through conn, retrying while
// the server answers 504 Gateway Timeout and the attempts allowed by
// r.Policy remain.
//
// Parameters whose value is nil are not sent. On 200, the body is decoded
// as JSON (numbers as [json.Number]) and passed to build, whose result is
// returned. Any other status, or 504 on the last attempt, yields an
// [*HTTPError] carrying the body text. Transport errors, decoding errors,
// and build errors are returned unchanged and are not retried.
//
// Each call uses the span ID carried by ctx, or a new one.
func RetryWith[T any](ctx context.Context, r *Retrier, conn Connector, endpoint string,
	params Params, build Func[any, T]) (T, error) {
	spanID := SpanIDFromContext(ctx)
	if spanID == "" {
		spanID = NewSpanID()
		ctx = ContextWithSpanID(ctx, spanID)
	}

	query := params.Values()
	attempts := r.Policy.Attempts()
	for attempt := 1; ; attempt++ {
		t0 := r.TimeNow()
		r.Logger.Info(
			"retryAttemptStart",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.String("endpoint", endpoint),
			slog.String("spanID", spanID),
			slog.Time("t", t0),
		)

		value, again, err := retryAttempt(ctx, conn, endpoint, query, build, attempt >= attempts)

		r.Logger.Info(
			"retryAttemptDone",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.String("endpoint", endpoint),
			slog.Any("err", err),
			slog.String("errClass", r.ErrClassifier.Classify(err)),
			slog.Bool("retry", again),
			slog.String("spanID", spanID),
			slog.Time("t0", t0),
			slog.Time("t", r.TimeNow()),
		)

		if !again {
			return value, err
		}
		if err := conn.Sleep(ctx, r.Policy.Delay); err != nil {
			var zero T
			return zero, err
		}
	}
}

// retryAttempt performs a single attempt. The response is always released
// before returning. The again result is true when we should retry.
func retryAttempt[T any](ctx context.Context, conn Connector, endpoint string,
	query url.Values, build Func[any, T], last bool) (value T, again bool, err error) {
	resp, err := conn.Get(ctx, endpoint, query)
	if err != nil {
		return value, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		decoder := json.NewDecoder(resp.Body)
		decoder.UseNumber()
		var raw any
		if err := decoder.Decode(&raw); err != nil {
			return value, false, err
		}
		value, err = build.Call(ctx, raw)
		return value, false, err

	case resp.StatusCode == http.StatusGatewayTimeout && !last:
		return value, true, nil

	default:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return value, false, err
		}
		return value, false, &HTTPError{Code: resp.StatusCode, Reason: resp.Reason, Body: string(body)}
	}
}
