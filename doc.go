// SPDX-License-Identifier: GPL-3.0-or-later

// Package osuapi is a client for the osu! game statistics web API (v1).
//
// # Usage
//
//	cfg := osuapi.NewConfig()
//	conn := osuapi.NewHTTPConnector(cfg, logger)
//	client := osuapi.NewClient(cfg, key, conn, logger)
//	defer client.Close()
//	users, err := client.GetUser(ctx, osuapi.Username("peppy"), osuapi.WithMode(osuapi.ModeTaiko))
//
// # Domain Objects
//
// JSON payloads are materialized into [*Instance] values according to a
// [*Schema], which maps each JSON key to a named attribute and a
// [Converter]. Schemas may derive from a parent schema, inheriting its
// fields and overriding some. Typed wrappers such as [User], [Beatmap],
// and [Match] embed the instance and provide accessors.
//
// Every field is optional, because the server may omit any of them. An
// unknown key is logged at [slog.LevelWarn] as unknownAttribute and
// otherwise ignored, so new server fields never break clients. A known
// key whose value cannot be converted fails the whole object with a
// [*ConversionError].
//
// # Transport
//
// A [Connector] performs the requests. [*HTTPConnector] blocks the calling
// goroutine, while [*LoopConnector] runs requests on a dispatcher goroutine
// and lets callers suspend until results arrive. Both dial through a
// [*DialPipeline] built from [Func] stages ([ConnectFunc], [ObserveConnFunc],
// [TLSHandshakeFunc]) and resolve the API host with [Config.Resolver], which
// may be the system resolver or a [*DNSResolver] speaking DNS over UDP, TCP,
// or HTTPS.
//
// [Retry] retries a call while the server answers 504 Gateway Timeout,
// up to [RetryPolicy.MaxRetries] total attempts, sleeping through the
// connector between attempts. Other failures are returned as [*HTTPError].
//
// # Observability
//
// All components log through [SLogger], which [*slog.Logger] satisfies.
// Logging is disabled by default. Operations emit *Start/*Done span events;
// *Done events carry t0, t, err, and errClass (see [ErrClassifier]). All
// events of a logical API call share the spanID generated by [Retry] with
// [NewSpanID]. Per-I/O events are emitted at [slog.LevelDebug].
package osuapi
