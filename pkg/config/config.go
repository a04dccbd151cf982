// Package config loads y0's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/y0/config.toml, falling back to
// ~/.config/y0/config.toml. A missing file is not an error: [Load] returns
// [Default]. Command-line flags override whatever the file sets.
//
//	[engine]
//	max_depth = 0        # 0 uses the engine default, 4n+16
//	parallel = false
//
//	[cache]
//	backend = "file"     # none, file, redis or mongo
//	dir = ""             # defaults to the XDG cache directory
//	ttl = "720h"
//	redis_addr = "localhost:6379"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "y0"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Aryan-Seth/y0/pkg/cache"
	y0errors "github.com/Aryan-Seth/y0/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "y0"

// Config is the decoded configuration file.
type Config struct {
	Engine Engine `toml:"engine"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Engine tunes the identification engines.
type Engine struct {
	MaxDepth int  `toml:"max_depth"`
	Parallel bool `toml:"parallel"`
}

// Cache selects the result cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPrefix   string   `toml:"redis_prefix"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// Server configures "y0 serve".
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: Cache{
			Backend:       cache.BackendFile,
			TTL:           Duration{cache.TTLIdentify},
			RedisAddr:     "localhost:6379",
			RedisPrefix:   AppName + ":",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: AppName,
		},
		Server: Server{Addr: ":8080"},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory, ~/.cache/y0 unless
// XDG_CACHE_HOME is set.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// Load reads the file at path over [Default]. An empty path means [Path].
// A missing file yields the defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), y0errors.Wrap(y0errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), y0errors.New(y0errors.ErrCodeInvalidFormat,
			"%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be checked by decoding alone.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return y0errors.New(y0errors.ErrCodeInvalidInput,
			"unknown cache backend %q", c.Cache.Backend)
	}
	if c.Engine.MaxDepth < 0 {
		return y0errors.New(y0errors.ErrCodeInvalidInput, "engine.max_depth must not be negative")
	}
	if c.Cache.TTL.Duration < 0 {
		return y0errors.New(y0errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// CacheOptions converts the cache section into [cache.Options], filling in
// the XDG cache directory for the file backend.
func (c Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPrefix:   c.Cache.RedisPrefix,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return opts, fmt.Errorf("cache dir: %w", err)
		}
		opts.Dir = dir
	}
	return opts, nil
}
