// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
)

// errNoAddresses indicates that the resolver returned no usable address.
var errNoAddresses = errors.New("osuapi: no usable addresses for host")

// NewDialPipeline returns a [*DialPipeline] configured from cfg.
func NewDialPipeline(cfg *Config, logger SLogger) *DialPipeline {
	if logger == nil {
		logger = DefaultSLogger()
	}
	return &DialPipeline{
		Config:   cfg,
		Logger:   logger,
		Resolver: cfg.Resolver,
	}
}

// DialPipeline provides the DialContext and DialTLSContext functions of the
// connectors' [*http.Transport].
//
// Each dial resolves the host with the configured [Resolver], then tries
// every address in order with [*ConnectFunc] composed with
// [*ObserveConnFunc]. TLS dials additionally run [*TLSHandshakeFunc].
type DialPipeline struct {
	// Config provides the dialer, TLS config, classifier, and clock.
	Config *Config

	// Logger is the [SLogger] to use.
	Logger SLogger

	// Resolver maps host names to addresses.
	Resolver Resolver
}

// DialContext dials a cleartext connection to address ("host:port").
//
// When every address fails, the error of the first attempt is returned.
func (dp *DialPipeline) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	endpoints, err := dp.lookup(ctx, host, port)
	if err != nil {
		return nil, err
	}
	pipeline := Compose2[netip.AddrPort, net.Conn, net.Conn](
		NewConnectFunc(dp.Config, "tcp", dp.Logger),
		NewObserveConnFunc(dp.Config, dp.Logger),
	)
	var first error
	for _, endpoint := range endpoints {
		conn, err := pipeline.Call(ctx, endpoint)
		if err == nil {
			return conn, nil
		}
		if first == nil {
			first = err
		}
	}
	return nil, first
}

// DialTLSContext dials and then handshakes using the host as the SNI.
func (dp *DialPipeline) DialTLSContext(ctx context.Context, network, address string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	conn, err := dp.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	tconn, err := NewTLSHandshakeFunc(dp.Config, host, dp.Logger).Call(ctx, conn)
	if err != nil {
		return nil, err
	}
	return tconn, nil
}

// lookup resolves host and joins each address with port.
func (dp *DialPipeline) lookup(ctx context.Context, host, port string) ([]netip.AddrPort, error) {
	t0 := dp.Config.TimeNow()
	addrs, err := dp.resolve(ctx, host)
	dp.Logger.Info(
		"lookupHostDone",
		slog.Any("addrs", addrs),
		slog.Any("err", err),
		slog.String("errClass", dp.Config.ErrClassifier.Classify(err)),
		slog.String("host", host),
		slog.String("spanID", SpanIDFromContext(ctx)),
		slog.Time("t0", t0),
		slog.Time("t", dp.Config.TimeNow()),
	)
	if err != nil {
		return nil, err
	}
	var endpoints []netip.AddrPort
	for _, addr := range addrs {
		endpoint, err := netip.ParseAddrPort(net.JoinHostPort(addr, port))
		if err != nil {
			continue
		}
		endpoints = append(endpoints, endpoint)
	}
	if len(endpoints) <= 0 {
		return nil, fmt.Errorf("%w: %s", errNoAddresses, host)
	}
	return endpoints, nil
}

// resolve skips the resolver when host is already an IP address.
func (dp *DialPipeline) resolve(ctx context.Context, host string) ([]string, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return []string{addr.String()}, nil
	}
	return dp.Resolver.LookupHost(ctx, host)
}
