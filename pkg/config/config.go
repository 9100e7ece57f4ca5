// Package config loads justgrid settings from a TOML file.
//
// The file is optional. Values it sets override the built-in defaults, and
// command-line flags override the file:
//
//	[layout]
//	container_width = 1200
//	max_row_height = 320
//	spacing = 8
//
//	[render]
//	formats = ["svg", "html"]
//	style = "filled"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the listen address of `justgrid serve`.
const DefaultAddr = ":8080"

// Config is the decoded configuration file.
type Config struct {
	Layout Layout `toml:"layout"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Layout holds layout engine parameters.
type Layout struct {
	ContainerWidth  int  `toml:"container_width"`
	MaxRowHeight    int  `toml:"max_row_height"`
	Spacing         int  `toml:"spacing"`
	JustifyTrailing bool `toml:"justify_trailing"`
}

// Render holds output settings.
type Render struct {
	Formats   []string `toml:"formats"`
	Style     string   `toml:"style"`
	Captions  bool     `toml:"captions"`
	ImageBase string   `toml:"image_base"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
	KeyPrefix     string   `toml:"key_prefix"` // Namespace for shared backends
}

// Server holds HTTP API settings.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
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

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Layout: Layout{
			ContainerWidth: pipeline.DefaultContainerWidth,
			MaxRowHeight:   pipeline.DefaultMaxRowHeight,
			Spacing:        pipeline.DefaultSpacing,
		},
		Render: Render{
			Formats: []string{pipeline.FormatSVG},
			Style:   pipeline.DefaultStyle,
		},
		Cache:  Cache{Backend: BackendFile},
		Server: Server{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/justgrid/config.toml, falling back
// to ~/.config/justgrid/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "justgrid", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "justgrid", "config.toml"), nil
}

// Load reads the configuration at path on top of Default. An empty path
// means DefaultPath, and a missing default file is not an error. A missing
// explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data into a copy of base. Keys the file omits keep
// their base value. Unknown keys are rejected.
func Parse(data []byte, base *Config) (*Config, error) {
	cfg := *base
	cfg.Render.Formats = append([]string(nil), base.Render.Formats...)

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the pipeline would reject late.
func (c *Config) Validate() error {
	opts := c.Options()
	if err := opts.Params().Validate(); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Style != "" {
		if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
			return err
		}
	}
	if err := errors.ValidateURL(c.Render.ImageBase); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}

// Options returns pipeline options seeded from the configuration.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		ContainerWidth:  c.Layout.ContainerWidth,
		MaxRowHeight:    c.Layout.MaxRowHeight,
		Spacing:         c.Layout.Spacing,
		JustifyTrailing: c.Layout.JustifyTrailing,
		Formats:         append([]string(nil), c.Render.Formats...),
		Style:           c.Render.Style,
		Captions:        c.Render.Captions,
		ImageBase:       c.Render.ImageBase,
	}
}
