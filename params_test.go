// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParamsValues(t *testing.T) {
	var (
		nilLimit *int
		limit    = 7
	)
	params := Params{
		"k":     "secret",
		"u":     nil,
		"type":  nil,
		"m":     ModeMania,
		"mods":  Hidden | HardRock,
		"a":     false,
		"x":     true,
		"since": time.Date(2020, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600)),
		"limit": &limit,
		"none":  nilLimit,
		"b":     int64(129891),
	}

	got := params.Values()

	want := url.Values{
		"k":     {"secret"},
		"m":     {"3"},
		"mods":  {"24"},
		"a":     {"0"},
		"x":     {"1"},
		"since": {"2020-01-02 02:04:05"},
		"limit": {"7"},
		"b":     {"129891"},
	}
	assert.Equal(t, want, got)
}

func TestParamsValuesEmpty(t *testing.T) {
	assert.Empty(t, Params{}.Values())
	assert.Empty(t, Params{"u": nil}.Values())
}
