// SPDX-License-Identifier: GPL-3.0-or-later

// Command osuapi queries the osu! API and prints the results as JSON.
//
// Usage:
//
//	osuapi [-config file] [-env file] [-v] <command> [flags] [args]
//
// Commands:
//
//	user <user>                 profile of a user
//	best <user>                 best scores of a user
//	recent <user>               recent scores of a user
//	scores <beatmap-id>         top scores of a beatmap
//	beatmaps                    beatmaps matching the flags
//	match <match-id>            a multiplayer match
//
// A user is a numeric ID or a name; prefix a numeric name with "name:".
// The API key comes from OSU_API_KEY, possibly loaded from a .env file,
// or from api_key in the config file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bassosimone/osuapi"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errUsage indicates a command line error.
var errUsage = errors.New("usage error")

func run(args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("osuapi", flag.ContinueOnError)
	fset.SetOutput(stderr)
	configPath := fset.String("config", "", "config file (default ~/.config/osuapi/config.toml)")
	envPath := fset.String("env", ".env", "dotenv file to load (optional)")
	verbose := fset.Bool("v", false, "emit structured logs on stderr")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var logger osuapi.SLogger = osuapi.DefaultSLogger()
	if *verbose {
		logger = slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if err := execute(ctx, fset.Args(), *configPath, *envPath, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "osuapi: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func execute(ctx context.Context, args []string, configPath, envPath string,
	logger osuapi.SLogger, stdout io.Writer) error {
	if len(args) <= 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	// The .env file is optional: a missing file is not an error.
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	fc, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg := osuapi.NewConfig()
	kind, err := fc.apply(cfg, logger)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(os.Getenv("OSU_API_KEY"))
	if key == "" {
		key = strings.TrimSpace(fc.APIKey)
	}
	if key == "" {
		return errors.New("no API key: set OSU_API_KEY or api_key")
	}

	var conn osuapi.Connector
	switch kind {
	case "loop":
		conn = osuapi.NewLoopConnector(cfg, logger)
	default:
		conn = osuapi.NewHTTPConnector(cfg, logger)
	}
	client := osuapi.NewClient(cfg, key, conn, logger)
	defer client.Close()

	result, err := dispatch(ctx, client, args[0], args[1:])
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// dispatch runs the named command.
func dispatch(ctx context.Context, client *osuapi.Client, command string, args []string) (any, error) {
	fset := flag.NewFlagSet(command, flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	mode := fset.Int("mode", 0, "game mode (0=osu, 1=taiko, 2=ctb, 3=mania)")
	limit := fset.Int("limit", 0, "maximum number of results")
	mods := fset.Uint("mods", 0, "mods bitmask")
	user := fset.String("user", "", "restrict to this user")
	since := fset.String("since", "", "ranked after this UTC time (2006-01-02 15:04:05)")
	setID := fset.Int64("set", 0, "beatmap set ID")
	beatmapID := fset.Int64("beatmap", 0, "beatmap ID")
	hash := fset.String("hash", "", "beatmap file hash")
	converted := fset.Bool("converted", false, "include converted beatmaps")
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %s", errUsage, err.Error())
	}

	var options []osuapi.Option
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			options = append(options, osuapi.WithMode(osuapi.Mode(*mode)))
		case "limit":
			options = append(options, osuapi.WithLimit(*limit))
		case "mods":
			options = append(options, osuapi.WithMods(osuapi.Mods(*mods)))
		case "user":
			options = append(options, osuapi.WithUser(parseUserRef(*user)))
		case "set":
			options = append(options, osuapi.WithBeatmapsetID(*setID))
		case "beatmap":
			options = append(options, osuapi.WithBeatmapID(*beatmapID))
		case "hash":
			options = append(options, osuapi.WithHash(*hash))
		case "converted":
			options = append(options, osuapi.WithConverted(*converted))
		}
	})
	if *since != "" {
		t, err := time.ParseInLocation(osuapi.DateTimeLayout, *since, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: -since: %s", errUsage, err.Error())
		}
		options = append(options, osuapi.WithSince(t))
	}

	rest := fset.Args()
	switch command {
	case "user", "best", "recent":
		if len(rest) != 1 {
			return nil, fmt.Errorf("%w: %s expects one user", errUsage, command)
		}
		ref := parseUserRef(rest[0])
		switch command {
		case "user":
			return client.GetUser(ctx, ref, options...)
		case "best":
			return client.GetUserBest(ctx, ref, options...)
		default:
			return client.GetUserRecent(ctx, ref, options...)
		}

	case "scores", "match":
		if len(rest) != 1 {
			return nil, fmt.Errorf("%w: %s expects one ID", errUsage, command)
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ID: %s", errUsage, rest[0])
		}
		if command == "scores" {
			return client.GetScores(ctx, id, options...)
		}
		return client.GetMatch(ctx, id)

	case "beatmaps":
		return client.GetBeatmaps(ctx, options...)

	default:
		return nil, fmt.Errorf("%w: unknown command: %s", errUsage, command)
	}
}

// parseUserRef maps a numeric argument to a user ID and anything else to a
// user name. The "name:" prefix forces a name.
func parseUserRef(arg string) osuapi.UserRef {
	if name, found := strings.CutPrefix(arg, "name:"); found {
		return osuapi.Username(name)
	}
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return osuapi.UserID(id)
	}
	return osuapi.Username(arg)
}
