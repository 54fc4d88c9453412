// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

// DefaultBaseURL is the root of the osu! API (v1).
const DefaultBaseURL = "https://osu.ppy.sh/api"

// Endpoint paths, relative to the base URL.
const (
	EndpointUser       = "/get_user"
	EndpointUserBest   = "/get_user_best"
	EndpointUserRecent = "/get_user_recent"
	EndpointScores     = "/get_scores"
	EndpointBeatmaps   = "/get_beatmaps"
	EndpointMatch      = "/get_match"
)

// Default result limits, matching the server side defaults.
const (
	DefaultUserBestLimit   = 50
	DefaultUserRecentLimit = 10
	DefaultScoresLimit     = 50
	DefaultBeatmapsLimit   = 500
)
