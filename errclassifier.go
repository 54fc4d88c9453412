// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"errors"

	"github.com/bassosimone/errclass"
)

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Implementations map errors to short, descriptive labels (e.g., "ETIMEDOUT",
// "ECONNRESET") that end up in the errClass attribute of log events.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier classifies errors using [errclass.New].
//
// API-level errors are classified before errclass sees them, so that a
// retry log line says "EHTTP" or "ECONVERSION" rather than "EGENERIC".
var DefaultErrClassifier = ErrClassifierFunc(classifyError)

const (
	// errClassHTTP is the class of [*HTTPError].
	errClassHTTP = "EHTTP"

	// errClassConversion is the class of [*ConversionError].
	errClassConversion = "ECONVERSION"
)

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	var (
		httpErr *HTTPError
		convErr *ConversionError
	)
	switch {
	case errors.As(err, &httpErr):
		return errClassHTTP
	case errors.As(err, &convErr):
		return errClassConversion
	default:
		return errclass.New(err)
	}
}
