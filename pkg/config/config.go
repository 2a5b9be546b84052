// Package config loads irdump settings from a TOML file.
//
//	[debug]
//	schedule_on_dump = true
//	probabilities = true
//
//	[output]
//	formats = ["bgv", "svg"]
//	dir = "dumps"
//
//	[cache]
//	backend = "file"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
// Missing sections keep the values of [Default].
package config

import (
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/irdump/pkg/dump"
	"github.com/matzehuels/irdump/pkg/errors"
)

// DefaultPath is the file [Find] looks for when no path is given.
const DefaultPath = "irdump.toml"

// Output formats.
const (
	FormatBinary = "bgv"
	FormatJSON   = "json"
	FormatDOT    = "dot"
	FormatSVG    = "svg"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Formats lists the valid output formats.
var Formats = []string{FormatBinary, FormatJSON, FormatDOT, FormatSVG}

var backends = []string{BackendFile, BackendRedis, BackendNone}

// Config is the full configuration.
type Config struct {
	Debug  Debug  `toml:"debug"`
	Output Output `toml:"output"`
	Cache  Cache  `toml:"cache"`
}

// Debug holds the dump options.
type Debug struct {
	ScheduleOnDump bool    `toml:"schedule_on_dump"`
	Probabilities  bool    `toml:"probabilities"`
	LoopFrequency  float64 `toml:"loop_frequency"`
}

// Options converts d to dump options.
func (d Debug) Options() dump.Options {
	return dump.Options{ScheduleOnDump: d.ScheduleOnDump, Probabilities: d.Probabilities}
}

// Output selects what is written.
type Output struct {
	Formats  []string `toml:"formats"`
	Dir      string   `toml:"dir"`
	Detailed bool     `toml:"detailed"`
}

// Cache selects the artifact cache.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:  Debug{ScheduleOnDump: true, LoopFrequency: 10},
		Output: Output{Formats: []string{FormatBinary}, Dir: "."},
		Cache:  Cache{Backend: BackendFile, RedisAddr: "localhost:6379", TTL: Duration{24 * time.Hour}},
	}
}

// Load reads and validates the file at path on top of [Default].
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find loads path, or DefaultPath when path is empty and that file exists,
// or returns [Default].
func Find(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}
	return Default(), nil
}

// Validate checks formats, backend and numeric ranges.
func (c *Config) Validate() error {
	if len(c.Output.Formats) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no output formats")
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (valid: %v)", f, Formats)
		}
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (valid: %v)", c.Cache.Backend, backends)
	}
	if c.Debug.LoopFrequency < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "loop_frequency must be at least 1, got %v", c.Debug.LoopFrequency)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative cache ttl %s", c.Cache.TTL)
	}
	return nil
}
