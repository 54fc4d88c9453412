// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bassosimone/osuapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserRef(t *testing.T) {
	assert.Equal(t, osuapi.UserID(124493), parseUserRef("124493"))
	assert.Equal(t, osuapi.Username("peppy"), parseUserRef("peppy"))
	assert.Equal(t, osuapi.Username("1234"), parseUserRef("name:1234"))
}

// fakeAPI records the queries it receives and answers with canned JSON.
type fakeAPI struct {
	mu      sync.Mutex
	paths   []string
	queries []url.Values
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.queries = append(f.queries, r.URL.Query())
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/get_match":
		fmt.Fprint(w, `{"match": {"match_id": "7", "name": "test"}, "games": []}`)
	case "/api/get_user":
		fmt.Fprint(w, `[{"user_id": "2", "username": "peppy"}]`)
	default:
		fmt.Fprint(w, `[]`)
	}
}

func (f *fakeAPI) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

// setupCLI starts the fake API and writes a config file pointing to it.
func setupCLI(t *testing.T, connector string) (*fakeAPI, string) {
	api := &fakeAPI{}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	config := writeFile(t, "config.toml", fmt.Sprintf(
		"base_url = %q\nconnector = %q\napi_key = \"from-file\"\n", server.URL+"/api", connector))
	return api, config
}

func TestRunUsageErrors(t *testing.T) {
	tests := map[string][]string{
		"no command":      {},
		"unknown command": {"frobnicate"},
		"missing user":    {"user"},
		"bad match ID":    {"match", "abc"},
		"bad since":       {"beatmaps", "-since", "yesterday"},
		"unknown subflag": {"beatmaps", "-bogus"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, config := setupCLI(t, "blocking")
			var stdout, stderr bytes.Buffer

			code := run(append([]string{"-config", config, "-env", ""}, args...), &stdout, &stderr)

			assert.Equal(t, 2, code)
			assert.Contains(t, stderr.String(), "usage error")
		})
	}
}

func TestRunBadGlobalFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run([]string{"-nope"}, &stdout, &stderr))
}

func TestRunMissingKey(t *testing.T) {
	t.Setenv("OSU_API_KEY", "")
	config := writeFile(t, "config.toml", `base_url = "http://127.0.0.1:1/api"`)
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", config, "-env", "", "user", "2"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "no API key")
}

func TestRunGetUser(t *testing.T) {
	for _, connector := range []string{"blocking", "loop"} {
		t.Run(connector, func(t *testing.T) {
			t.Setenv("OSU_API_KEY", "from-env")
			api, config := setupCLI(t, connector)
			var stdout, stderr bytes.Buffer

			code := run([]string{"-config", config, "-env", "", "user", "-mode", "3", "peppy"}, &stdout, &stderr)

			require.Equal(t, 0, code, stderr.String())
			query := api.lastQuery()
			assert.Equal(t, "from-env", query.Get("k"))
			assert.Equal(t, "peppy", query.Get("u"))
			assert.Equal(t, "string", query.Get("type"))
			assert.Equal(t, "3", query.Get("m"))

			var users []map[string]any
			require.NoError(t, json.Unmarshal(stdout.Bytes(), &users))
			require.Len(t, users, 1)
			assert.Equal(t, "peppy", users[0]["username"])
		})
	}
}

func TestRunBeatmapsFlags(t *testing.T) {
	t.Setenv("OSU_API_KEY", "")
	api, config := setupCLI(t, "blocking")
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-config", config, "-env", "", "beatmaps",
		"-since", "2020-01-01 00:00:00", "-set", "39804", "-user", "2",
		"-converted", "-limit", "5", "-hash", "abc",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	query := api.lastQuery()
	assert.Equal(t, "from-file", query.Get("k"))
	assert.Equal(t, "2020-01-01 00:00:00", query.Get("since"))
	assert.Equal(t, "39804", query.Get("s"))
	assert.Equal(t, "2", query.Get("u"))
	assert.Equal(t, "id", query.Get("type"))
	assert.Equal(t, "1", query.Get("a"))
	assert.Equal(t, "5", query.Get("limit"))
	assert.Equal(t, "abc", query.Get("h"))
	assert.JSONEq(t, "[]", stdout.String())
}

func TestRunMatchAndScores(t *testing.T) {
	t.Setenv("OSU_API_KEY", "from-env")
	api, config := setupCLI(t, "loop")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", config, "-env", "", "match", "7"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "7", api.lastQuery().Get("mp"))
	assert.Contains(t, stdout.String(), `"match_id": 7`)

	stdout.Reset()
	code = run([]string{"-config", config, "-env", "", "scores", "-mods", "24", "129891"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	query := api.lastQuery()
	assert.Equal(t, "129891", query.Get("b"))
	assert.Equal(t, "24", query.Get("mods"))
}

func TestRunLoadsDotEnv(t *testing.T) {
	t.Setenv("OSU_API_KEY", "")
	os.Unsetenv("OSU_API_KEY") // godotenv does not override variables that are set
	api, config := setupCLI(t, "blocking")
	env := writeFile(t, ".env", "OSU_API_KEY=from-dotenv\n")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", config, "-env", env, "recent", "2"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "from-dotenv", api.lastQuery().Get("k"))
	assert.Equal(t, "/api/get_user_recent", api.paths[len(api.paths)-1])
}

func TestRunMissingDotEnvIsIgnored(t *testing.T) {
	t.Setenv("OSU_API_KEY", "from-env")
	_, config := setupCLI(t, "blocking")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", config, "-env", filepath.Join(t.TempDir(), ".env"), "best", "2"}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
}
