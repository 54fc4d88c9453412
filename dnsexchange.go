// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/bassosimone/dnscodec"
	"github.com/bassosimone/dnsoverhttps"
	"github.com/bassosimone/dnsoverstream"
	"github.com/bassosimone/minest"
	"github.com/bassosimone/safeconn"
)

// dnsExchangeLog holds the logging state of a single DNS exchange
// performed by [*DNSResolver].
type dnsExchangeLog struct {
	errClassifier ErrClassifier
	logger        SLogger
	rawQuery      []byte
	server        string
	serverProto   string
	spanID        string
	t0            time.Time
	timeNow       func() time.Time
}

func newDNSExchangeLog(ctx context.Context, r *DNSResolver) *dnsExchangeLog {
	return &dnsExchangeLog{
		errClassifier: r.Config.ErrClassifier,
		logger:        r.Logger,
		server:        r.Server,
		serverProto:   r.Protocol,
		spanID:        SpanIDFromContext(ctx),
		t0:            r.Config.TimeNow(),
		timeNow:       r.Config.TimeNow,
	}
}

func (lc *dnsExchangeLog) start(name string) {
	lc.logger.Info(
		"dnsExchangeStart",
		slog.String("dnsQueryName", name),
		slog.String("serverAddr", lc.server),
		slog.String("serverProtocol", lc.serverProto),
		slog.String("spanID", lc.spanID),
		slog.Time("t", lc.t0),
	)
}

func (lc *dnsExchangeLog) done(name string, err error) {
	lc.logger.Info(
		"dnsExchangeDone",
		slog.String("dnsQueryName", name),
		slog.Any("err", err),
		slog.String("errClass", lc.errClassifier.Classify(err)),
		slog.String("serverAddr", lc.server),
		slog.String("serverProtocol", lc.serverProto),
		slog.String("spanID", lc.spanID),
		slog.Time("t0", lc.t0),
		slog.Time("t", lc.timeNow()),
	)
}

// observeQuery logs the raw query and remembers it for observeResponse.
func (lc *dnsExchangeLog) observeQuery(rawQuery []byte) {
	lc.rawQuery = rawQuery
	lc.logger.Debug(
		"dnsQuery",
		slog.Any("dnsRawQuery", rawQuery),
		slog.String("serverProtocol", lc.serverProto),
		slog.String("spanID", lc.spanID),
		slog.Time("t", lc.timeNow()),
	)
}

func (lc *dnsExchangeLog) observeResponse(rawResp []byte) {
	lc.logger.Debug(
		"dnsResponse",
		slog.Any("dnsRawQuery", lc.rawQuery),
		slog.Any("dnsRawResponse", rawResp),
		slog.String("serverProtocol", lc.serverProto),
		slog.String("spanID", lc.spanID),
		slog.Time("t0", lc.t0),
		slog.Time("t", lc.timeNow()),
	)
}

// dnsUnusedDialer is a [Dialer] that panics if DialContext is called.
//
// The DNS transports below exchange over connections we dialed
// ourselves, so they must never dial on their own.
type dnsUnusedDialer struct{}

var _ Dialer = dnsUnusedDialer{}

// DialContext implements [Dialer] and always panics.
func (dnsUnusedDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	panic("osuapi: DNS transport must not dial; this is a programming error")
}

// dnsUnspecifiedAddr is the placeholder server address given to the DNS
// transports, which only use it when dialing.
var dnsUnspecifiedAddr = netip.AddrPortFrom(netip.IPv4Unspecified(), 0)

// exchangeUDP sends query over conn using DNS-over-UDP.
func exchangeUDP(ctx context.Context, lc *dnsExchangeLog,
	conn net.Conn, query *dnscodec.Query) (*dnscodec.Response, error) {
	txp := minest.NewDNSOverUDPTransport(dnsUnusedDialer{}, dnsUnspecifiedAddr)
	txp.ObserveRawQuery = lc.observeQuery
	txp.ObserveRawResponse = lc.observeResponse
	lc.logger.Debug("dnsConn", slog.String("localAddr", safeconn.LocalAddr(conn)))
	return txp.ExchangeWithConn(ctx, conn, query)
}

// exchangeTCP sends query over conn using DNS-over-TCP.
func exchangeTCP(ctx context.Context, lc *dnsExchangeLog,
	conn net.Conn, query *dnscodec.Query) (*dnscodec.Response, error) {
	txp := dnsoverstream.NewTransport(dnsoverstream.NewStreamOpenerDialerTCP(dnsUnusedDialer{}), dnsUnspecifiedAddr)
	txp.ObserveRawQuery = lc.observeQuery
	txp.ObserveRawResponse = lc.observeResponse
	lc.logger.Debug("dnsConn", slog.String("localAddr", safeconn.LocalAddr(conn)))
	return txp.ExchangeWithStreamOpener(ctx, dnsoverstream.NewTCPStreamOpener(conn), query)
}

// exchangeHTTPS sends query to serverURL using DNS-over-HTTPS.
func exchangeHTTPS(ctx context.Context, lc *dnsExchangeLog,
	client *http.Client, serverURL string, query *dnscodec.Query) (*dnscodec.Response, error) {
	httpReq, queryMsg, err := dnsoverhttps.NewRequestWithHook(ctx, query, serverURL, lc.observeQuery)
	if err != nil {
		return nil, err
	}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	return dnsoverhttps.ReadResponseWithHook(ctx, httpResp, queryMsg, lc.observeResponse)
}
