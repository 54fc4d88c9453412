// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// UserRef identifies a user either by numeric ID or by name.
//
// Use [UserID] or [Username] to construct one.
type UserRef interface {
	// userParams returns the values of the "u" and "type" parameters.
	userParams() (u string, kind string)
}

// UserID refers to a user by numeric ID ("type=id").
type UserID int64

var _ UserRef = UserID(0)

func (id UserID) userParams() (string, string) {
	return strconv.FormatInt(int64(id), 10), "id"
}

// Username refers to a user by name ("type=string").
type Username string

var _ UserRef = Username("")

func (name Username) userParams() (string, string) {
	return string(name), "string"
}

// Option customizes the query parameters of a [*Client] method.
type Option func(params Params)

// WithMode selects the game mode.
func WithMode(mode Mode) Option {
	return func(params Params) {
		params["m"] = mode
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(limit int) Option {
	return func(params Params) {
		params["limit"] = limit
	}
}

// WithMods restricts the scores to the given modifiers.
func WithMods(mods Mods) Option {
	return func(params Params) {
		params["mods"] = mods
	}
}

// WithUser restricts the results to the given user.
func WithUser(user UserRef) Option {
	return func(params Params) {
		setUser(params, user)
	}
}

// WithSince restricts beatmaps to those ranked after t.
func WithSince(t time.Time) Option {
	return func(params Params) {
		params["since"] = t
	}
}

// WithBeatmapsetID restricts beatmaps to the given set.
func WithBeatmapsetID(id int64) Option {
	return func(params Params) {
		params["s"] = id
	}
}

// WithBeatmapID restricts beatmaps to the given beatmap.
func WithBeatmapID(id int64) Option {
	return func(params Params) {
		params["b"] = id
	}
}

// WithHash restricts beatmaps to the given file hash.
func WithHash(hash string) Option {
	return func(params Params) {
		params["h"] = hash
	}
}

// WithConverted includes converted beatmaps when true.
func WithConverted(include bool) Option {
	return func(params Params) {
		params["a"] = include
	}
}

// setUser sets "u" and "type", or clears both when user is nil.
func setUser(params Params, user UserRef) {
	if user == nil {
		params["u"], params["type"] = nil, nil
		return
	}
	params["u"], params["type"] = user.userParams()
}

// NewClient returns a new [*Client] authenticating with key.
//
// The client owns conn and closes it on Close.
func NewClient(cfg *Config, key string, conn Connector, logger SLogger) *Client {
	return &Client{
		BaseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		Connector:    conn,
		Key:          key,
		Materializer: NewMaterializer(logger),
		Retrier:      NewRetrier(cfg, logger),
	}
}

// Client is the osu! API client.
//
// Each method performs one logical call through [RetryWith] and materializes
// the JSON payload into the matching domain type.
type Client struct {
	// BaseURL is the API root.
	BaseURL string

	// Connector performs the requests.
	Connector Connector

	// Key is the API key sent as the "k" parameter.
	Key string

	// Materializer builds the domain objects.
	Materializer *Materializer

	// Retrier controls retries on 504 responses.
	Retrier *Retrier
}

// GetUser returns the profile of user, as a list holding zero or one user.
//
// Options: [WithMode].
func (c *Client) GetUser(ctx context.Context, user UserRef, options ...Option) ([]User, error) {
	params := c.params(user, options, Params{"m": ModeOsu})
	build := listOf(c.Materializer, UserSchema, func(inst *Instance) User { return User{inst} })
	return RetryWith(ctx, c.Retrier, c.Connector, c.url(EndpointUser), params, build)
}

// GetUserBest returns the best scores of user.
//
// Options: [WithMode], [WithLimit].
func (c *Client) GetUserBest(ctx context.Context, user UserRef, options ...Option) ([]SoloScore, error) {
	params := c.params(user, options, Params{"m": ModeOsu, "limit": DefaultUserBestLimit})
	build := listOf(c.Materializer, SoloScoreSchema, func(inst *Instance) SoloScore { return SoloScore{Score{inst}} })
	return RetryWith(ctx, c.Retrier, c.Connector, c.url(EndpointUserBest), params, build)
}

// GetUserRecent returns the most recent scores of user.
//
// Options: [WithMode], [WithLimit].
func (c *Client) GetUserRecent(ctx context.Context, user UserRef, options ...Option) ([]RecentScore, error) {
	params := c.params(user, options, Params{"m": ModeOsu, "limit": DefaultUserRecentLimit})
	build := listOf(c.Materializer, RecentScoreSchema, func(inst *Instance) RecentScore { return RecentScore{Score{inst}} })
	return RetryWith(ctx, c.Retrier, c.Connector, c.url(EndpointUserRecent), params, build)
}

// GetScores returns the top scores of a beatmap.
//
// Options: [WithUser], [WithMode], [WithMods], [WithLimit].
func (c *Client) GetScores(ctx context.Context, beatmapID int64, options ...Option) ([]BeatmapScore, error) {
	params := c.params(nil, options, Params{"b": beatmapID, "m": ModeOsu, "limit": DefaultScoresLimit})
	build := listOf(c.Materializer, BeatmapScoreSchema, func(inst *Instance) BeatmapScore { return BeatmapScore{Score{inst}} })
	return RetryWith(ctx, c.Retrier, c.Connector, c.url(EndpointScores), params, build)
}

// GetBeatmaps returns beatmaps, in the order the server returns them.
//
// Options: [WithSince], [WithBeatmapsetID], [WithBeatmapID], [WithUser],
// [WithMode], [WithConverted], [WithHash], [WithLimit].
func (c *Client) GetBeatmaps(ctx context.Context, options ...Option) ([]Beatmap, error) {
	params := c.params(nil, options, Params{"m": ModeOsu, "a": false, "limit": DefaultBeatmapsLimit})
	build := listOf(c.Materializer, BeatmapSchema, func(inst *Instance) Beatmap { return Beatmap{inst} })
	return RetryWith(ctx, c.Retrier, c.Connector, c.url(EndpointBeatmaps), params, build)
}

// GetMatch returns a multiplayer match.
func (c *Client) GetMatch(ctx context.Context, matchID int64) (Match, error) {
	params := c.params(nil, nil, Params{"mp": matchID})
	build := Compose2(NewObjectFunc(c.Materializer, MatchSchema), MapFunc(func(inst *Instance) Match {
		return Match{inst}
	}))
	return RetryWith(ctx, c.Retrier, c.Connector, c.url(EndpointMatch), params, build)
}

// Close closes the [Connector].
func (c *Client) Close() error {
	return c.Connector.Close()
}

func (c *Client) url(endpoint string) string {
	return c.BaseURL + endpoint
}

// params returns defaults, then the key and user, then the options applied.
func (c *Client) params(user UserRef, options []Option, defaults Params) Params {
	params := Params{"k": c.Key}
	for key, value := range defaults {
		params[key] = value
	}
	setUser(params, user)
	for _, option := range options {
		option(params)
	}
	return params
}

// listOf returns a builder materializing a JSON array with schema and
// wrapping each element.
func listOf[T any](mz *Materializer, schema *Schema, wrap func(*Instance) T) Func[any, []T] {
	return Compose2(NewListFunc(mz, schema), MapFunc(func(insts []*Instance) []T {
		return wrapAll(insts, wrap)
	}))
}
