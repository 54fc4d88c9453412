// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bassosimone/osuapi"
	toml "github.com/pelletier/go-toml/v2"
)

// defaultConfigPath is used when the -config flag is empty.
const defaultConfigPath = "~/.config/osuapi/config.toml"

// fileConfig is the TOML configuration file.
//
//	api_key = "..."              # overridden by OSU_API_KEY
//	base_url = "https://osu.ppy.sh/api"
//	connector = "blocking"       # or "loop"
//	max_retries = 5
//	retry_delay = "1s"
//	user_agent = "..."
//
//	[resolver]
//	protocol = "udp"             # "system", "udp", "tcp", or "https"
//	server = "8.8.8.8:53"
type fileConfig struct {
	APIKey     string         `toml:"api_key"`
	BaseURL    string         `toml:"base_url"`
	Connector  string         `toml:"connector"`
	MaxRetries int            `toml:"max_retries"`
	RetryDelay string         `toml:"retry_delay"`
	UserAgent  string         `toml:"user_agent"`
	Resolver   resolverConfig `toml:"resolver"`
}

type resolverConfig struct {
	Protocol string `toml:"protocol"`
	Server   string `toml:"server"`
}

// loadConfig parses the config file at path. A missing file yields
// the zero config, meaning all defaults.
func loadConfig(path string) (fileConfig, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return fileConfig{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// apply copies the settings into cfg and returns the connector kind.
func (fc fileConfig) apply(cfg *osuapi.Config, logger osuapi.SLogger) (string, error) {
	if value := strings.TrimSpace(fc.BaseURL); value != "" {
		cfg.BaseURL = value
	}
	if value := strings.TrimSpace(fc.UserAgent); value != "" {
		cfg.UserAgent = value
	}
	if fc.MaxRetries != 0 {
		cfg.RetryPolicy.MaxRetries = fc.MaxRetries
	}
	if value := strings.TrimSpace(fc.RetryDelay); value != "" {
		delay, err := time.ParseDuration(value)
		if err != nil {
			return "", fmt.Errorf("parse retry_delay: %w", err)
		}
		cfg.RetryPolicy.Delay = delay
	}

	switch protocol := strings.TrimSpace(fc.Resolver.Protocol); protocol {
	case "", "system":
		// keep the system resolver
	default:
		resolver, err := osuapi.NewDNSResolver(cfg, protocol, strings.TrimSpace(fc.Resolver.Server), logger)
		if err != nil {
			return "", fmt.Errorf("configure resolver: %w", err)
		}
		cfg.Resolver = resolver
	}

	switch kind := strings.TrimSpace(fc.Connector); kind {
	case "", "blocking":
		return "blocking", nil
	case "loop":
		return "loop", nil
	default:
		return "", fmt.Errorf("unknown connector: %q", kind)
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultConfigPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
