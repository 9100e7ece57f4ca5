package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/justgrid/pkg/config"
)

func newTestCLI() *CLI {
	return &CLI{
		Logger: newLogger(io.Discard, LogInfo),
		Config: config.Default(),
		Out:    io.Discard,
		Status: io.Discard,
	}
}

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name      string
		xdg       string
		configDir string
		want      string
	}{
		{"home default", "", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", "", filepath.Join("/tmp/custom-cache", appName)},
		{"config wins over xdg", "/tmp/custom-cache", "/srv/justgrid-cache", "/srv/justgrid-cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			c := newTestCLI()
			c.Config.Cache.Dir = tt.configDir

			got, err := c.cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"manifest", "", "gallery.json", "gallery"},
		{"directory", "", "photos/", "photos"},
		{"layout document", "", "out/g.layout.json", "out/g"},
		{"pdf", "", "deck.pdf", "deck"},
		{"remote manifest", "", "https://example.com/m/gallery.yaml", "gallery"},
		{"output with format ext", "site/index.html", "gallery.json", "site/index"},
		{"output without ext", "site/index", "gallery.json", "site/index"},
		{"output with other ext", "out.v2", "gallery.json", "out.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}
