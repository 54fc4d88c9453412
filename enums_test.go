// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "osu!taiko", ModeTaiko.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
	assert.Equal(t, "score_v2", ScoringScoreV2.String())
	assert.Equal(t, "Genre(8)", Genre(8).String())
	assert.Equal(t, "BeatmapStatus(-3)", BeatmapStatus(-3).String())
}

func TestEnumValid(t *testing.T) {
	assert.True(t, ModeMania.Valid())
	assert.False(t, Mode(4).Valid())

	assert.True(t, StatusGraveyard.Valid())
	assert.True(t, StatusLoved.Valid())
	assert.False(t, BeatmapStatus(5).Valid())

	assert.True(t, GenreHipHop.Valid())
	assert.False(t, Genre(8).Valid(), "the API never assigned 8")

	assert.True(t, LanguageItalian.Valid())
	assert.False(t, Language(12).Valid())

	assert.True(t, ScoringCombo.Valid())
	assert.False(t, ScoringType(-1).Valid())

	assert.True(t, TeamTagTeamVs.Valid())
	assert.False(t, TeamType(4).Valid())
}
