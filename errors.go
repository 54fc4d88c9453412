// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"errors"
	"fmt"
)

// ErrConnectorClosed is returned by [Connector] methods invoked after Close.
var ErrConnectorClosed = errors.New("osuapi: connector closed")

// HTTPError is returned when the API answers with a non-200 status that
// we do not retry, or with a 504 status once the retry budget is spent.
type HTTPError struct {
	// Code is the HTTP status code (e.g., 504).
	Code int

	// Reason is the status reason text (e.g., "Gateway Timeout").
	Reason string

	// Body is the response body text, read before releasing the response.
	Body string
}

var _ error = &HTTPError{}

// Error implements error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("osuapi: http error %d %s: %s", e.Code, e.Reason, e.Body)
}

// ConversionError is returned when a declared field's raw JSON value
// cannot be converted to the field's type.
//
// The whole instance is discarded: there is no partial result.
type ConversionError struct {
	// Type is the name of the [*Schema] being materialized.
	Type string

	// Key is the offending JSON key, empty when the value
	// itself has the wrong shape (e.g., not an object).
	Key string

	// Err is the underlying cause.
	Err error
}

var _ error = &ConversionError{}

// Error implements error.
func (e *ConversionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("osuapi: cannot convert %s: %s", e.Type, e.Err.Error())
	}
	return fmt.Sprintf("osuapi: cannot convert %s.%s: %s", e.Type, e.Key, e.Err.Error())
}

// Unwrap returns the underlying cause.
func (e *ConversionError) Unwrap() error {
	return e.Err
}
