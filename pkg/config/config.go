// Package config loads the optional weavr.toml configuration file.
//
// Every setting has a default, so weavr runs without any config file. A file
// found by [FindConfigPath] overrides the defaults section by section:
//
//	[paths]
//	input  = "weavr-self-model.json"
//	output = "weavr-model.json"
//
//	[layout]
//	slice_width = 1200
//	row_height  = 180
//
// Layout geometry left out of the file keeps its default. Geometry that is
// set must be positive; an explicit 0 is rejected rather than read as "use
// the default".
//
//	[layout.columns]
//	READMODEL = 900
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/weavr/pkg/cache"
	"github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/layout"
	"github.com/matzehuels/weavr/pkg/model"
)

// Default values.
const (
	DefaultInput        = "weavr-self-model.json"
	DefaultOutput       = "weavr-model.json"
	DefaultAddr         = ":8080"
	DefaultCacheBackend = cache.BackendFile
	DefaultCachePrefix  = "weavr:"
	DefaultMaxBodyBytes = 10 << 20
)

// Config is the root of weavr.toml.
type Config struct {
	Paths  PathsConfig  `toml:"paths"`
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// PathsConfig names the default input and output model files.
type PathsConfig struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

// LayoutConfig overrides layout geometry. Nil fields keep the defaults.
type LayoutConfig struct {
	SliceWidth *int           `toml:"slice_width"`
	SliceGap   *int           `toml:"slice_gap"`
	RowHeight  *int           `toml:"row_height"`
	BaseY      *int           `toml:"base_y"`
	Height     *int           `toml:"height"`
	Columns    map[string]int `toml:"columns"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

// ServerConfig configures weavr serve.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string such as "90s" or "24h".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Load finds and loads the config file, or returns defaults if none found.
// The returned path is empty when defaults are used.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return Default(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, path, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Paths.Input == "" {
		c.Paths.Input = DefaultInput
	}
	if c.Paths.Output == "" {
		c.Paths.Output = DefaultOutput
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = DefaultCachePrefix
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(cache.TTLFix)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(30 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	for _, p := range []string{c.Paths.Input, c.Paths.Output} {
		if err := errors.ValidateModelPath(p); err != nil {
			return err
		}
	}

	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	for name, v := range map[string]*int{
		"slice_width": c.Layout.SliceWidth,
		"slice_gap":   c.Layout.SliceGap,
		"row_height":  c.Layout.RowHeight,
		"base_y":      c.Layout.BaseY,
		"height":      c.Layout.Height,
	} {
		if v != nil && *v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.%s must be positive, got %d", name, *v)
		}
	}
	for t := range c.Layout.Columns {
		if _, ok := model.ParseSchema(t); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.columns: unknown schema type %q", t)
		}
	}
	return nil
}

// LayoutOptions converts the layout section into [layout.Options].
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.Options{
		SliceWidth: deref(c.Layout.SliceWidth),
		SliceGap:   deref(c.Layout.SliceGap),
		RowHeight:  deref(c.Layout.RowHeight),
		BaseY:      deref(c.Layout.BaseY),
		Height:     deref(c.Layout.Height),
	}
	if len(c.Layout.Columns) > 0 {
		opts.Columns = make(map[model.SchemaType]int, len(c.Layout.Columns))
		for t, x := range c.Layout.Columns {
			opts.Columns[model.SchemaType(t)] = x
		}
	}
	return opts.WithDefaults()
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// CacheOptions converts the cache section into [cache.Options]. defaultDir
// is used when no directory is configured.
func (c *Config) CacheOptions(defaultDir string) cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      dir,
		RedisURL: c.Cache.RedisURL,
		Prefix:   c.Cache.Prefix,
	}
}
