// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"

	"github.com/bassosimone/dnscodec"
	"github.com/miekg/dns"
)

// Resolver maps a host name to IP addresses.
//
// The [*net.Resolver] type satisfies this interface, and [NewConfig]
// uses [net.DefaultResolver]. Use [NewDNSResolver] to resolve the API host
// through a specific DNS server instead.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

var _ Resolver = &net.Resolver{}

// DNS protocols supported by [*DNSResolver].
const (
	DNSProtocolUDP   = "udp"
	DNSProtocolTCP   = "tcp"
	DNSProtocolHTTPS = "https"
)

// ErrUnsupportedDNSProtocol is returned by [NewDNSResolver] for an
// unknown protocol name.
var ErrUnsupportedDNSProtocol = errors.New("osuapi: unsupported DNS protocol")

// DNSResolver is a [Resolver] querying a single DNS server for A records.
//
// Each lookup opens a fresh connection (udp, tcp) through [*ConnectFunc],
// [*ObserveConnFunc], and [*CancelWatchFunc], and closes it when done. The
// https protocol uses HTTPClient instead.
type DNSResolver struct {
	// Config provides the dialer, classifier, and clock.
	Config *Config

	// HTTPClient is the client used by the https protocol.
	HTTPClient *http.Client

	// Logger is the [SLogger] to use.
	Logger SLogger

	// Protocol is one of "udp", "tcp", or "https".
	Protocol string

	// Server is "ip:port" for udp and tcp, or the URL for https.
	Server string

	// endpoint is the parsed Server for udp and tcp.
	endpoint netip.AddrPort
}

var _ Resolver = &DNSResolver{}

// NewDNSResolver returns a [*DNSResolver] for the given protocol and server.
//
// For udp and tcp, server must be an "ip:port" endpoint (e.g., "8.8.8.8:53").
// For https, server must be an https URL (e.g., "https://dns.google/dns-query").
func NewDNSResolver(cfg *Config, protocol, server string, logger SLogger) (*DNSResolver, error) {
	if logger == nil {
		logger = DefaultSLogger()
	}
	r := &DNSResolver{
		Config:   cfg,
		Logger:   logger,
		Protocol: protocol,
		Server:   server,
	}
	switch protocol {
	case DNSProtocolUDP, DNSProtocolTCP:
		endpoint, err := netip.ParseAddrPort(server)
		if err != nil {
			return nil, err
		}
		r.endpoint = endpoint
	case DNSProtocolHTTPS:
		parsed, err := url.Parse(server)
		if err != nil {
			return nil, err
		}
		if parsed.Scheme != "https" && parsed.Scheme != "http" {
			return nil, fmt.Errorf("osuapi: invalid DNS-over-HTTPS URL: %s", server)
		}
		r.HTTPClient = &http.Client{
			Transport: &http.Transport{
				DialContext:       cfg.Dialer.DialContext,
				ForceAttemptHTTP2: true,
				Proxy:             http.ProxyFromEnvironment,
				TLSClientConfig:   cfg.TLSConfig,
			},
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDNSProtocol, protocol)
	}
	return r, nil
}

// CloseIdleConnections closes the idle connections of the https protocol.
// The connectors call it on Close when the resolver is their [Config.Resolver].
func (r *DNSResolver) CloseIdleConnections() {
	if r.HTTPClient != nil {
		r.HTTPClient.CloseIdleConnections()
	}
}

// LookupHost implements [Resolver].
func (r *DNSResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	query := dnscodec.NewQuery(host, dns.TypeA)
	lc := newDNSExchangeLog(ctx, r)
	lc.start(host)
	resp, err := r.exchange(ctx, lc, query)
	if err != nil {
		lc.done(host, err)
		return nil, err
	}
	addrs, err := resp.RecordsA()
	lc.done(host, err)
	return addrs, err
}

func (r *DNSResolver) exchange(ctx context.Context,
	lc *dnsExchangeLog, query *dnscodec.Query) (*dnscodec.Response, error) {
	if r.Protocol == DNSProtocolHTTPS {
		return exchangeHTTPS(ctx, lc, r.HTTPClient, r.Server, query)
	}

	pipeline := Compose3(
		NewConnectFunc(r.Config, r.Protocol, r.Logger),
		NewObserveConnFunc(r.Config, r.Logger),
		NewCancelWatchFunc(),
	)
	conn, err := pipeline.Call(ctx, r.endpoint)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if r.Protocol == DNSProtocolTCP {
		return exchangeTCP(ctx, lc, conn, query)
	}
	return exchangeUDP(ctx, lc, conn, query)
}
