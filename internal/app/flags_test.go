package app

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("gol", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func withBackend(t *testing.T, name string) {
	t.Helper()
	prev := backends
	backends = map[string]Runner{}
	RegisterBackend(name, func(*Config) error { return nil })
	t.Cleanup(func() { backends = prev })
}

func TestParseDefaults(t *testing.T) {
	withBackend(t, "fake")
	cfg, err := Parse(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "fake", cfg.Backend)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, 4, cfg.Scale)
	assert.Equal(t, 10, cfg.TPS)
}

func TestParseConfigFileThenFlags(t *testing.T) {
	withBackend(t, "fake")
	path := filepath.Join(t.TempDir(), "gol.toml")
	body := "width = 640\nheight = 480\nscale = 8\npattern = \"glider\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Parse(newFlagSet(), []string{"-config", path, "-scale", "2"})
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 2, cfg.Scale, "flag overrides file")
	assert.Equal(t, "glider", cfg.Pattern)
	assert.Equal(t, path, cfg.ConfigFile)
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", lvl.String())
}

func TestParseRejectsBadFile(t *testing.T) {
	withBackend(t, "fake")
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = = 3"), 0o644))
	_, err := Parse(newFlagSet(), []string{"-config", path})
	assert.Error(t, err)

	_, err = Parse(newFlagSet(), []string{"-config", filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
}

func TestParseWithoutBackends(t *testing.T) {
	prev := backends
	backends = map[string]Runner{}
	t.Cleanup(func() { backends = prev })
	_, err := Parse(newFlagSet(), nil)
	assert.ErrorIs(t, err, ErrNoBackends)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":  func(c *Config) { c.Width = 0 },
		"zero scale":  func(c *Config) { c.Scale = 0 },
		"tiny window": func(c *Config) { c.Width, c.Scale = 3, 4 },
		"zero tps":    func(c *Config) { c.TPS = 0 },
		"density":     func(c *Config) { c.Density = 1.5 },
		"log level":   func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewConfig()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, NewConfig().Validate())
}

func TestRegistry(t *testing.T) {
	withBackend(t, "b")
	RegisterBackend("a", func(*Config) error { return nil })
	RegisterBackend("", func(*Config) error { return nil })
	RegisterBackend("c", nil)
	assert.Equal(t, []string{"a", "b"}, Backends())
	_, ok := Backend("a")
	assert.True(t, ok)
	_, ok = Backend("c")
	assert.False(t, ok)
}
