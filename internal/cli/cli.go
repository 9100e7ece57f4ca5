// Package cli implements the justgrid command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/pkg/buildinfo"
	"github.com/matzehuels/justgrid/pkg/cache"
	"github.com/matzehuels/justgrid/pkg/config"
	"github.com/matzehuels/justgrid/pkg/httputil"
	"github.com/matzehuels/justgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "justgrid"

// layoutSuffix marks files written by the layout command.
const layoutSuffix = ".layout.json"

// remoteTTL bounds how long fetched manifests are reused.
const remoteTTL = time.Hour

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	// Out receives command results and Status receives spinner frames.
	// Nil means stdout and stderr.
	Out    io.Writer
	Status io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

func (c *CLI) status() io.Writer {
	if c.Status == nil {
		return os.Stderr
	}
	return c.Status
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "justgrid packs images into justified gallery rows",
		Long: `justgrid arranges images, PDF pages or manifest entries into rows of equal
height that exactly fill a container width, and renders the result as SVG,
HTML or a JSON layout document.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Before loading, so config loading is logged at debug level.
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/justgrid/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, c.Config.Cache.Keyer(), c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	runner.Fetcher = httputil.NewFetcher(httputil.WithCache(cc, remoteTTL))
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return c.Config.Cache.OpenCache(ctx)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured dir, else the
// XDG default (~/.cache/justgrid/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// basePath derives the output path stem from the output flag and the
// input. A directory input "photos/" becomes "photos"; a layout document
// "g.layout.json" becomes "g".
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidateFormats([]string{strings.TrimPrefix(ext, ".")}) == nil {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	input = strings.TrimRight(input, string(os.PathSeparator)+"/")
	if strings.HasSuffix(input, layoutSuffix) {
		return strings.TrimSuffix(input, layoutSuffix)
	}
	if isRemote(input) {
		input = filepath.Base(input)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
