package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/justgrid/pkg/cache"
	"github.com/matzehuels/justgrid/pkg/errors"
	"github.com/matzehuels/justgrid/pkg/pipeline"
)

func TestParseOverridesDefaults(t *testing.T) {
	data := `
[layout]
container_width = 800
spacing = 0

[render]
formats = ["svg", "html"]
style = "filled"

[cache]
backend = "none"
ttl = "36h"

[server]
addr = "127.0.0.1:9000"
`
	cfg, err := Parse([]byte(data), Default())
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Layout.ContainerWidth)
	assert.Equal(t, pipeline.DefaultMaxRowHeight, cfg.Layout.MaxRowHeight)
	assert.Equal(t, 0, cfg.Layout.Spacing)
	assert.Equal(t, []string{"svg", "html"}, cfg.Render.Formats)
	assert.Equal(t, "filled", cfg.Render.Style)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)
	assert.Equal(t, 36*time.Hour, cfg.Cache.TTL.Duration)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	opts := cfg.Options()
	assert.Equal(t, 800, opts.ContainerWidth)
	assert.Equal(t, 0, opts.Spacing)
}

func TestParseDoesNotMutateBase(t *testing.T) {
	base := Default()
	_, err := Parse([]byte("[render]\nformats = [\"json\"]\n"), base)
	require.NoError(t, err)
	assert.Equal(t, []string{"svg"}, base.Render.Formats)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[layout\n"},
		{"unknown key", "[layout]\nwidth = 3\n"},
		{"negative spacing", "[layout]\nspacing = -2\n"},
		{"bad format", "[render]\nformats = [\"png\"]\n"},
		{"bad style", "[render]\nstyle = \"neon\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), Default())
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err), "want INVALID_* code, got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file falls back to defaults.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "justgrid", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[layout]\nmax_row_height = 200\n"), 0o644))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Layout.MaxRowHeight)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, err := Cache{Backend: BackendNone}.OpenCache(ctx)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, c)

	dir := t.TempDir()
	c, err = Cache{Backend: BackendFile, Dir: dir}.OpenCache(ctx)
	require.NoError(t, err)
	fc, ok := c.(*cache.FileCache)
	require.True(t, ok)
	assert.Equal(t, dir, fc.Dir())

	mr := miniredis.RunT(t)
	c, err = Cache{Backend: BackendRedis, RedisAddr: mr.Addr()}.OpenCache(ctx)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("justgrid:k"))
}

func TestKeyer(t *testing.T) {
	opts := cache.LayoutKeyOpts{ContainerWidth: 800, MaxRowHeight: 300}
	plain := Cache{}.Keyer().LayoutKey("abc", opts)
	scoped := Cache{KeyPrefix: "tenant-a:"}.Keyer().LayoutKey("abc", opts)
	assert.Equal(t, "tenant-a:"+plain, scoped)
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Layout.ContainerWidth)
	assert.Equal(t, []string{"svg", "html"}, cfg.Render.Formats)
	assert.True(t, cfg.Render.Captions)
	assert.Equal(t, 168*time.Hour, cfg.Cache.TTL.Duration)
}
