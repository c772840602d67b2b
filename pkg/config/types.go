package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent prepdeck configuration stored as
// config.toml in the .prepdeck/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Stub    StubConfig   `toml:"stub"`
	Cache   CacheConfig  `toml:"cache"`
}

// ClientConfig holds settings for commands that talk to the Prep API server
// (sessions, kb, tui). APITarget is a full URL (scheme + host + port).
type ClientConfig struct {
	APITarget      string `toml:"api_target,omitempty"`
	TimeoutSeconds uint   `toml:"timeout_seconds,omitempty"`
}

// StubConfig holds settings for the local development stub server.
type StubConfig struct {
	Listen string `toml:"listen,omitempty"`
	Seed   bool   `toml:"seed,omitempty"`
}

// CacheConfig holds settings for the local session history cache.
// An empty Path resolves to history.db inside the .prepdeck/ directory.
type CacheConfig struct {
	Path string `toml:"path,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"client.timeout_seconds": {
		get: func(c *Config) string {
			if c.Client.TimeoutSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Client.TimeoutSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for client.timeout_seconds: %w", err)
			}
			c.Client.TimeoutSeconds = uint(n)
			return nil
		},
	},
	"stub.listen": {
		get: func(c *Config) string { return c.Stub.Listen },
		set: func(c *Config, v string) error { c.Stub.Listen = v; return nil },
	},
	"stub.seed": {
		get: func(c *Config) string { return strconv.FormatBool(c.Stub.Seed) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for stub.seed: %w", err)
			}
			c.Stub.Seed = b
			return nil
		},
	},
	"cache.path": {
		get: func(c *Config) string { return c.Cache.Path },
		set: func(c *Config, v string) error { c.Cache.Path = v; return nil },
	},
}
