// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"crypto/tls"
	"net"
	"time"
)

// DefaultUserAgent is the User-Agent header sent by the connectors.
const DefaultUserAgent = "osuapi/0.1 (+https://github.com/bassosimone/osuapi)"

// Config holds common configuration for the client and its connectors.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	//
	// Set by [NewConfig] to [DefaultBaseURL].
	BaseURL string

	// Dialer is used by [*ConnectFunc].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// Resolver maps the API host name to IP addresses.
	//
	// Set by [NewConfig] to [net.DefaultResolver].
	Resolver Resolver

	// RetryPolicy controls how many attempts [Retry] performs.
	//
	// Set by [NewConfig] to [DefaultRetryPolicy].
	RetryPolicy RetryPolicy

	// TLSConfig is the base TLS configuration. The dial pipeline clones
	// it and fills ServerName and NextProtos when they are empty.
	//
	// Set by [NewConfig] to an empty [*tls.Config].
	TLSConfig *tls.Config

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time

	// UserAgent is the User-Agent header.
	//
	// Set by [NewConfig] to [DefaultUserAgent].
	UserAgent string
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		Dialer:        &net.Dialer{},
		ErrClassifier: DefaultErrClassifier,
		Resolver:      net.DefaultResolver,
		RetryPolicy:   DefaultRetryPolicy(),
		TLSConfig:     &tls.Config{},
		TimeNow:       time.Now,
		UserAgent:     DefaultUserAgent,
	}
}
