package app

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Backend  string  `toml:"backend"`
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Scale    int     `toml:"scale"`
	TPS      int     `toml:"tps"`
	Seed     int64   `toml:"seed"`
	Density  float64 `toml:"density"`
	Pattern  string  `toml:"pattern"`
	Title    string  `toml:"title"`
	LogLevel string  `toml:"log_level"`
	Overlay  bool    `toml:"overlay"`

	ConfigFile string `toml:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    1280,
		Height:   720,
		Scale:    4,
		TPS:      10,
		Seed:     42,
		Density:  0.5,
		Title:    "gpulife",
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Backend, "backend", c.Backend, "rendering backend ("+strings.Join(Backends(), ", ")+")")
	fs.IntVar(&c.Width, "width", c.Width, "initial window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height in pixels")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel-block size of one cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "generations per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random initial state")
	fs.Float64Var(&c.Density, "density", c.Density, "probability that a seeded cell starts alive")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "named initial pattern instead of random noise")
	fs.StringVar(&c.Title, "title", c.Title, "window title")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.Overlay, "overlay", c.Overlay, "show the stats overlay at startup")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "TOML file with default settings")
}

// Load reads TOML settings from path into c. Keys absent from the file keep
// their current values.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("app: read config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("app: parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first setting that cannot be run.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("app: window size must be positive, got %dx%d", c.Width, c.Height)
	case c.Scale < 1:
		return fmt.Errorf("app: scale must be at least 1, got %d", c.Scale)
	case c.Width < c.Scale || c.Height < c.Scale:
		return fmt.Errorf("app: window %dx%d is smaller than one %d-pixel cell", c.Width, c.Height, c.Scale)
	case c.TPS <= 0:
		return fmt.Errorf("app: tps must be positive, got %d", c.TPS)
	case c.Density < 0 || c.Density > 1:
		return fmt.Errorf("app: density must be within [0,1], got %v", c.Density)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("app: log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Parse binds a fresh Config to fs and parses args. When -config names a
// file, it is loaded first and the flags are applied again on top so that
// explicit flags override file settings.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	c := NewConfig()
	c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.ConfigFile != "" {
		path := c.ConfigFile
		if err := c.Load(path); err != nil {
			return nil, err
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		c.ConfigFile = path
	}
	if c.Backend == "" {
		names := Backends()
		if len(names) == 0 {
			return nil, ErrNoBackends
		}
		c.Backend = names[0]
	}
	return c, c.Validate()
}

// ErrNoBackends is returned when the binary was built without any backend.
var ErrNoBackends = errors.New("app: no rendering backend compiled in")
