// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import "strconv"

// Mode is the game mode.
type Mode int

const (
	ModeOsu Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

var modeNames = map[Mode]string{
	ModeOsu:   "osu!standard",
	ModeTaiko: "osu!taiko",
	ModeCatch: "osu!catchthebeat",
	ModeMania: "osu!mania",
}

// Valid implements [Enum].
func (m Mode) Valid() bool {
	_, found := modeNames[m]
	return found
}

// String returns the display name (e.g., "osu!taiko").
func (m Mode) String() string {
	return enumString("Mode", modeNames, m)
}

// BeatmapStatus is the ranked status of a beatmap.
type BeatmapStatus int

const (
	StatusGraveyard BeatmapStatus = -2
	StatusWIP       BeatmapStatus = -1
	StatusPending   BeatmapStatus = 0
	StatusRanked    BeatmapStatus = 1
	StatusApproved  BeatmapStatus = 2
	StatusQualified BeatmapStatus = 3
	StatusLoved     BeatmapStatus = 4
)

var beatmapStatusNames = map[BeatmapStatus]string{
	StatusGraveyard: "graveyard",
	StatusWIP:       "wip",
	StatusPending:   "pending",
	StatusRanked:    "ranked",
	StatusApproved:  "approved",
	StatusQualified: "qualified",
	StatusLoved:     "loved",
}

// Valid implements [Enum].
func (s BeatmapStatus) Valid() bool {
	_, found := beatmapStatusNames[s]
	return found
}

func (s BeatmapStatus) String() string {
	return enumString("BeatmapStatus", beatmapStatusNames, s)
}

// Genre is the genre of a beatmap's song. Ordinal 8 is unassigned.
type Genre int

const (
	GenreAny         Genre = 0
	GenreUnspecified Genre = 1
	GenreVideoGame   Genre = 2
	GenreAnime       Genre = 3
	GenreRock        Genre = 4
	GenrePop         Genre = 5
	GenreOther       Genre = 6
	GenreNovelty     Genre = 7
	GenreHipHop      Genre = 9
	GenreElectronic  Genre = 10
)

var genreNames = map[Genre]string{
	GenreAny:         "any",
	GenreUnspecified: "unspecified",
	GenreVideoGame:   "video_game",
	GenreAnime:       "anime",
	GenreRock:        "rock",
	GenrePop:         "pop",
	GenreOther:       "other",
	GenreNovelty:     "novelty",
	GenreHipHop:      "hip_hop",
	GenreElectronic:  "electronic",
}

// Valid implements [Enum].
func (g Genre) Valid() bool {
	_, found := genreNames[g]
	return found
}

func (g Genre) String() string {
	return enumString("Genre", genreNames, g)
}

// Language is the language of a beatmap's song.
type Language int

const (
	LanguageAny Language = iota
	LanguageOther
	LanguageEnglish
	LanguageJapanese
	LanguageChinese
	LanguageInstrumental
	LanguageKorean
	LanguageFrench
	LanguageGerman
	LanguageSwedish
	LanguageSpanish
	LanguageItalian
)

var languageNames = map[Language]string{
	LanguageAny:          "any",
	LanguageOther:        "other",
	LanguageEnglish:      "english",
	LanguageJapanese:     "japanese",
	LanguageChinese:      "chinese",
	LanguageInstrumental: "instrumental",
	LanguageKorean:       "korean",
	LanguageFrench:       "french",
	LanguageGerman:       "german",
	LanguageSwedish:      "swedish",
	LanguageSpanish:      "spanish",
	LanguageItalian:      "italian",
}

// Valid implements [Enum].
func (l Language) Valid() bool {
	_, found := languageNames[l]
	return found
}

func (l Language) String() string {
	return enumString("Language", languageNames, l)
}

// ScoringType is how a multiplayer game decides the winner.
type ScoringType int

const (
	ScoringScore ScoringType = iota
	ScoringAccuracy
	ScoringCombo
	ScoringScoreV2
)

var scoringTypeNames = map[ScoringType]string{
	ScoringScore:    "score",
	ScoringAccuracy: "accuracy",
	ScoringCombo:    "combo",
	ScoringScoreV2:  "score_v2",
}

// Valid implements [Enum].
func (s ScoringType) Valid() bool {
	_, found := scoringTypeNames[s]
	return found
}

func (s ScoringType) String() string {
	return enumString("ScoringType", scoringTypeNames, s)
}

// TeamType is the team arrangement of a multiplayer game.
type TeamType int

const (
	TeamHeadToHead TeamType = iota
	TeamTagCoop
	TeamVs
	TeamTagTeamVs
)

var teamTypeNames = map[TeamType]string{
	TeamHeadToHead: "head_to_head",
	TeamTagCoop:    "tag_coop",
	TeamVs:         "team_vs",
	TeamTagTeamVs:  "tag_team_vs",
}

// Valid implements [Enum].
func (t TeamType) Valid() bool {
	_, found := teamTypeNames[t]
	return found
}

func (t TeamType) String() string {
	return enumString("TeamType", teamTypeNames, t)
}

func enumString[E ~int](typeName string, names map[E]string, value E) string {
	if name, found := names[value]; found {
		return name
	}
	return typeName + "(" + strconv.Itoa(int(value)) + ")"
}
