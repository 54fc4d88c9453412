// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"fmt"
	"time"
)

// The schemas below describe the API payloads. Derived schemas inherit
// the fields of their parent and may redeclare them.

// ScoreSchema contains the fields shared by every kind of score.
var ScoreSchema = NewSchema("Score", nil,
	Field("score", Int),
	Field("maxcombo", Int),
	Field("count50", Int),
	Field("count100", Int),
	Field("count300", Int),
	Field("countmiss", Int),
	Field("countkatu", Int),
	Field("countgeki", Int),
	Field("perfect", IntBool),
	Field("user_id", Int),
	Field("rank", String),
)

// TeamScoreSchema describes a player's score in a multiplayer game.
var TeamScoreSchema = NewSchema("TeamScore", ScoreSchema,
	Field("slot", Int),
	Field("team", Int),
	Field("enabled_mods", IntThenEnum[Mods]()),
	Field("passed", IntBool, WithSource("pass")),
)

// RecentScoreSchema describes an entry of /get_user_recent.
var RecentScoreSchema = NewSchema("RecentScore", ScoreSchema,
	Field("beatmap_id", Int),
	Field("enabled_mods", IntThenEnum[Mods]()),
	Field("date", DateTime),
)

// SoloScoreSchema describes an entry of /get_user_best.
var SoloScoreSchema = NewSchema("SoloScore", ScoreSchema,
	Field("beatmap_id", Int),
	Field("pp", NullableOf(Float)),
	Field("enabled_mods", IntThenEnum[Mods]()),
	Field("score_id", Int),
	Field("date", DateTime),
	Field("replay_available", IntBool),
)

// BeatmapScoreSchema describes an entry of /get_scores.
var BeatmapScoreSchema = NewSchema("BeatmapScore", ScoreSchema,
	Field("username", String),
	Field("pp", NullableOf(Float)),
	Field("enabled_mods", IntThenEnum[Mods]()),
	Field("date", DateTime),
	Field("score_id", Int),
	Field("replay_available", IntBool),
)

// UserEventSchema describes an entry of a user's recent events.
var UserEventSchema = NewSchema("UserEvent", nil,
	Field("display_html", String),
	Field("beatmap_id", NullableOf(Int)),
	Field("beatmapset_id", NullableOf(Int)),
	Field("date", DateTime),
	Field("epicfactor", Int),
)

// UserSchema describes an entry of /get_user.
var UserSchema = NewSchema("User", nil,
	Field("user_id", Int),
	Field("username", String),
	Field("count300", NullableOf(Int)),
	Field("count100", NullableOf(Int)),
	Field("count50", NullableOf(Int)),
	Field("playcount", NullableOf(Int)),
	Field("ranked_score", NullableOf(Int)),
	Field("total_score", NullableOf(Int)),
	Field("pp_rank", NullableOf(Int)),
	Field("level", NullableOf(Float)),
	Field("pp_raw", NullableOf(Float)),
	Field("total_seconds_played", NullableOf(Int)),
	Field("accuracy", NullableOf(Float)),
	Field("count_rank_ssh", NullableOf(Int)),
	Field("count_rank_ss", NullableOf(Int)),
	Field("count_rank_sh", NullableOf(Int)),
	Field("count_rank_s", NullableOf(Int)),
	Field("count_rank_a", NullableOf(Int)),
	Field("country", String),
	Field("pp_country_rank", NullableOf(Int)),
	Field("events", ListOf(Nested(UserEventSchema))),
	Field("join_date", DateTime),
)

// BeatmapSchema describes an entry of /get_beatmaps.
var BeatmapSchema = NewSchema("Beatmap", nil,
	Field("approved", IntThenEnum[BeatmapStatus]()),
	Field("approved_date", NullableOf(DateTime)),
	Field("submit_date", DateTime),
	Field("last_update", DateTime),
	Field("artist", String),
	Field("artist_unicode", NullableOf(String)),
	Field("beatmap_id", Int),
	Field("beatmapset_id", Int),
	Field("bpm", Float),
	Field("creator", String),
	Field("creator_id", Int),
	Field("difficultyrating", Float),
	Field("diff_aim", NullableOf(Float)),
	Field("diff_speed", NullableOf(Float)),
	Field("diff_size", Float),
	Field("diff_overall", Float),
	Field("diff_approach", Float),
	Field("diff_drain", Float),
	Field("hit_length", Int),
	Field("source", String),
	Field("genre_id", IntThenEnum[Genre]()),
	Field("language_id", IntThenEnum[Language]()),
	Field("title", String),
	Field("title_unicode", NullableOf(String)),
	Field("total_length", Int),
	Field("version", String),
	Field("file_md5", String),
	Field("mode", IntThenEnum[Mode]()),
	Field("tags", String),
	Field("favourite_count", Int),
	Field("rating", Float),
	Field("playcount", Int),
	Field("passcount", Int),
	Field("count_normal", NullableOf(Int)),
	Field("count_slider", NullableOf(Int)),
	Field("count_spinner", NullableOf(Int)),
	Field("max_combo", NullableOf(Int)),
	Field("storyboard", IntBool),
	Field("video", IntBool),
	Field("download_unavailable", IntBool),
	Field("audio_unavailable", IntBool),
	Field("packs", NullableOf(CSVListOf(String))),
)

// MatchMetadataSchema describes the "match" object of /get_match.
var MatchMetadataSchema = NewSchema("MatchMetadata", nil,
	Field("match_id", Int),
	Field("name", String),
	Field("start_time", DateTime),
	Field("end_time", NullableOf(DateTime)),
)

// GameSchema describes an entry of the "games" list of /get_match.
var GameSchema = NewSchema("Game", nil,
	Field("game_id", Int),
	Field("start_time", DateTime),
	Field("end_time", NullableOf(DateTime)),
	Field("beatmap_id", Int),
	Field("play_mode", IntThenEnum[Mode]()),
	Field("match_type", String),
	Field("scoring_type", IntThenEnum[ScoringType]()),
	Field("team_type", IntThenEnum[TeamType]()),
	Field("mods", IntThenEnum[Mods]()),
	Field("scores", ListOf(Nested(TeamScoreSchema))),
)

// MatchSchema describes the /get_match payload.
var MatchSchema = NewSchema("Match", nil,
	Field("match", Nested(MatchMetadataSchema)),
	Field("games", ListOf(Nested(GameSchema))),
)

// Score is an [*Instance] of [ScoreSchema] or of a derived schema.
type Score struct {
	*Instance
}

// UserID returns the ID of the player.
func (s Score) UserID() (int64, bool) {
	return s.Int("user_id")
}

// Points returns the score value.
func (s Score) Points() (int64, bool) {
	return s.Int("score")
}

// Rank returns the letter rank (e.g., "S").
func (s Score) Rank() (string, bool) {
	return s.Text("rank")
}

// Perfect returns whether the play is a full combo.
func (s Score) Perfect() (bool, bool) {
	return s.Bool("perfect")
}

// Accuracy returns the accuracy in [0, 1] computed with the formula for
// the given mode. Missing hit counts are treated as zero. The boolean is
// false when there are no hits to compute the accuracy from.
//
// See https://osu.ppy.sh/wiki/Accuracy.
func (s Score) Accuracy(mode Mode) (float64, bool) {
	count := func(name string) float64 {
		value, _ := s.Int(name)
		return float64(value)
	}
	var (
		n50   = count("count50")
		n100  = count("count100")
		n300  = count("count300")
		nmiss = count("countmiss")
		nkatu = count("countkatu")
		ngeki = count("countgeki")
	)
	var num, den float64
	switch mode {
	case ModeOsu:
		num = 6*n300 + 2*n100 + n50
		den = 6 * (n300 + n100 + n50 + nmiss)
	case ModeTaiko:
		num = n300 + ngeki + 0.5*(n100+nkatu)
		den = n300 + ngeki + n100 + nkatu + nmiss
	case ModeMania:
		num = 6*(ngeki+n300) + 4*nkatu + 2*n100 + n50
		den = 6 * (ngeki + n300 + nkatu + n100 + n50 + nmiss)
	case ModeCatch:
		num = n50 + n100 + n300
		den = n50 + n100 + n300 + nmiss + nkatu
	default:
		return 0, false
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// Mods returns the enabled modifiers.
func (s Score) Mods() (Mods, bool) {
	return Attr[Mods](s.Instance, "enabled_mods")
}

// PP returns the performance points. The boolean is false when
// the score is not eligible for performance points.
func (s Score) PP() (float64, bool) {
	return s.Float("pp")
}

// Date returns when the score was played.
func (s Score) Date() (time.Time, bool) {
	return s.Time("date")
}

// BeatmapID returns the beatmap the score was set on.
func (s Score) BeatmapID() (int64, bool) {
	return s.Int("beatmap_id")
}

// ScoreID returns the unique score identifier.
func (s Score) ScoreID() (int64, bool) {
	return s.Int("score_id")
}

// SoloScore is an entry of a user's best scores.
type SoloScore struct {
	Score
}

// ReplayAvailable returns whether the replay can be downloaded.
func (s SoloScore) ReplayAvailable() (bool, bool) {
	return s.Bool("replay_available")
}

// RecentScore is an entry of a user's recent scores.
type RecentScore struct {
	Score
}

// BeatmapScore is an entry of a beatmap's leaderboard.
type BeatmapScore struct {
	Score
}

// Username returns the name of the player.
func (s BeatmapScore) Username() (string, bool) {
	return s.Text("username")
}

// ReplayAvailable returns whether the replay can be downloaded.
func (s BeatmapScore) ReplayAvailable() (bool, bool) {
	return s.Bool("replay_available")
}

// TeamScore is a player's score in a multiplayer [Game].
type TeamScore struct {
	Score
}

// Slot returns the multiplayer slot of the player.
func (s TeamScore) Slot() (int64, bool) {
	return s.Int("slot")
}

// Team returns the team of the player.
func (s TeamScore) Team() (int64, bool) {
	return s.Int("team")
}

// Passed returns whether the player passed the beatmap.
func (s TeamScore) Passed() (bool, bool) {
	return s.Bool("passed")
}

// UserEvent is a notable event in a user's history.
type UserEvent struct {
	*Instance
}

// DisplayHTML returns the HTML describing the event.
func (e UserEvent) DisplayHTML() (string, bool) {
	return e.Text("display_html")
}

// BeatmapID returns the beatmap of the event. The boolean is
// false when the event does not concern a beatmap.
func (e UserEvent) BeatmapID() (int64, bool) {
	return e.Int("beatmap_id")
}

// Date returns when the event happened.
func (e UserEvent) Date() (time.Time, bool) {
	return e.Time("date")
}

// EpicFactor returns how notable the event is (between 1 and 32).
func (e UserEvent) EpicFactor() (int64, bool) {
	return e.Int("epicfactor")
}

// User is a player profile.
type User struct {
	*Instance
}

// UserID returns the unique user identifier.
func (u User) UserID() (int64, bool) {
	return u.Int("user_id")
}

// Username returns the name of the user.
func (u User) Username() (string, bool) {
	return u.Text("username")
}

// Country returns the country the user is registered to.
func (u User) Country() (string, bool) {
	return u.Text("country")
}

// PP returns the performance points of the user.
func (u User) PP() (float64, bool) {
	return u.Float("pp_raw")
}

// JoinDate returns when the user registered.
func (u User) JoinDate() (time.Time, bool) {
	return u.Time("join_date")
}

// TotalHits returns the sum of the career 300, 100, and 50 counts.
func (u User) TotalHits() (int64, bool) {
	var total int64
	for _, name := range []string{"count300", "count100", "count50"} {
		value, ok := u.Int(name)
		if !ok {
			return 0, false
		}
		total += value
	}
	return total, true
}

// Events returns the user's recent notable events.
func (u User) Events() []UserEvent {
	return wrapInstances(u.Instance, "events", func(inst *Instance) UserEvent {
		return UserEvent{inst}
	})
}

// URL returns the profile page URL, which requires a user ID.
func (u User) URL() string {
	id, _ := u.UserID()
	return fmt.Sprintf("https://osu.ppy.sh/u/%d", id)
}

// ProfileImage returns the avatar URL, which requires a user ID.
func (u User) ProfileImage() string {
	id, _ := u.UserID()
	return fmt.Sprintf("https://s.ppy.sh/a/%d", id)
}

// Beatmap is a single difficulty of a beatmap set.
type Beatmap struct {
	*Instance
}

// BeatmapID returns the unique beatmap identifier.
func (b Beatmap) BeatmapID() (int64, bool) {
	return b.Int("beatmap_id")
}

// BeatmapsetID returns the identifier of the containing set.
func (b Beatmap) BeatmapsetID() (int64, bool) {
	return b.Int("beatmapset_id")
}

// Title returns the song title.
func (b Beatmap) Title() (string, bool) {
	return b.Text("title")
}

// Artist returns the song artist.
func (b Beatmap) Artist() (string, bool) {
	return b.Text("artist")
}

// Creator returns the name of the mapper.
func (b Beatmap) Creator() (string, bool) {
	return b.Text("creator")
}

// Version returns the difficulty name.
func (b Beatmap) Version() (string, bool) {
	return b.Text("version")
}

// Status returns the ranked status.
func (b Beatmap) Status() (BeatmapStatus, bool) {
	return Attr[BeatmapStatus](b.Instance, "approved")
}

// ApprovedDate returns when the beatmap was ranked. The boolean
// is false when the beatmap is not ranked.
func (b Beatmap) ApprovedDate() (time.Time, bool) {
	return b.Time("approved_date")
}

// Mode returns the game mode of the beatmap.
func (b Beatmap) Mode() (Mode, bool) {
	return Attr[Mode](b.Instance, "mode")
}

// Genre returns the song genre.
func (b Beatmap) Genre() (Genre, bool) {
	return Attr[Genre](b.Instance, "genre_id")
}

// Language returns the song language.
func (b Beatmap) Language() (Language, bool) {
	return Attr[Language](b.Instance, "language_id")
}

// StarRating returns the difficulty rating.
func (b Beatmap) StarRating() (float64, bool) {
	return b.Float("difficultyrating")
}

// Packs returns the beatmap packs containing the beatmap.
func (b Beatmap) Packs() ([]string, bool) {
	return AttrList[string](b.Instance, "packs")
}

// URL returns the beatmap page URL.
func (b Beatmap) URL() string {
	id, _ := b.BeatmapID()
	return fmt.Sprintf("https://osu.ppy.sh/b/%d", id)
}

// SetURL returns the beatmap set page URL.
func (b Beatmap) SetURL() string {
	id, _ := b.BeatmapsetID()
	return fmt.Sprintf("https://osu.ppy.sh/s/%d", id)
}

// CoverImage returns the beatmap set cover URL.
func (b Beatmap) CoverImage() string {
	id, _ := b.BeatmapsetID()
	return fmt.Sprintf("https://assets.ppy.sh/beatmaps/%d/covers/cover.jpg", id)
}

// CoverThumbnail returns the beatmap set thumbnail URL.
func (b Beatmap) CoverThumbnail() string {
	id, _ := b.BeatmapsetID()
	return fmt.Sprintf("https://b.ppy.sh/thumb/%dl.jpg", id)
}

// MatchMetadata describes a multiplayer match.
type MatchMetadata struct {
	*Instance
}

// MatchID returns the unique match identifier.
func (m MatchMetadata) MatchID() (int64, bool) {
	return m.Int("match_id")
}

// Name returns the name the match had when it was created.
func (m MatchMetadata) Name() (string, bool) {
	return m.Text("name")
}

// StartTime returns when the match was created.
func (m MatchMetadata) StartTime() (time.Time, bool) {
	return m.Time("start_time")
}

// EndTime returns when the match ended. The boolean is false
// while the match is still in progress.
func (m MatchMetadata) EndTime() (time.Time, bool) {
	return m.Time("end_time")
}

// Game is one beatmap played within a multiplayer [Match].
type Game struct {
	*Instance
}

// GameID returns the unique game identifier.
func (g Game) GameID() (int64, bool) {
	return g.Int("game_id")
}

// BeatmapID returns the beatmap played.
func (g Game) BeatmapID() (int64, bool) {
	return g.Int("beatmap_id")
}

// PlayMode returns the game mode.
func (g Game) PlayMode() (Mode, bool) {
	return Attr[Mode](g.Instance, "play_mode")
}

// ScoringType returns how the winner is decided.
func (g Game) ScoringType() (ScoringType, bool) {
	return Attr[ScoringType](g.Instance, "scoring_type")
}

// TeamType returns the team arrangement.
func (g Game) TeamType() (TeamType, bool) {
	return Attr[TeamType](g.Instance, "team_type")
}

// Mods returns the modifiers enabled for all players.
func (g Game) Mods() (Mods, bool) {
	return Attr[Mods](g.Instance, "mods")
}

// Scores returns the scores of all the players.
func (g Game) Scores() []TeamScore {
	return wrapInstances(g.Instance, "scores", func(inst *Instance) TeamScore {
		return TeamScore{Score{inst}}
	})
}

// Match is a multiplayer match with its games.
type Match struct {
	*Instance
}

// Metadata returns information about the match.
func (m Match) Metadata() (MatchMetadata, bool) {
	inst, ok := Attr[*Instance](m.Instance, "match")
	return MatchMetadata{inst}, ok
}

// Games returns the games played in the match, in order.
func (m Match) Games() []Game {
	return wrapInstances(m.Instance, "games", func(inst *Instance) Game {
		return Game{inst}
	})
}

func wrapInstances[T any](inst *Instance, name string, wrap func(*Instance) T) []T {
	elems, _ := AttrList[*Instance](inst, name)
	return wrapAll(elems, wrap)
}

func wrapAll[T any](insts []*Instance, wrap func(*Instance) T) []T {
	out := make([]T, 0, len(insts))
	for _, inst := range insts {
		out = append(out, wrap(inst))
	}
	return out
}
