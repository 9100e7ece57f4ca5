package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/pkg/cache"
	"github.com/matzehuels/justgrid/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and artifacts",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		Long: `Remove all cached entries.

With --expired, only stale entries of the file cache are removed. Redis
expires entries on its own.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := c.ui()
			switch c.Config.Cache.Backend {
			case config.BackendNone:
				out.info("Caching is disabled")
				return nil
			case config.BackendRedis:
				if expired {
					out.info("Redis expires entries itself; nothing to prune")
					return nil
				}
				cc, err := c.Config.Cache.OpenCache(cmd.Context())
				if err != nil {
					return err
				}
				defer cc.Close()
				rc, ok := cc.(*cache.RedisCache)
				if !ok {
					return fmt.Errorf("unexpected cache backend %T", cc)
				}
				n, err := rc.Clear(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				out.success("Cleared %s", plural(n, "cached entry"))
				out.detail("Redis: %s", c.Config.Cache.RedisAddr)
				return nil
			}

			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				out.info("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			sweep, verb := fc.Clear, "Cleared"
			if expired {
				sweep, verb = fc.Prune, "Pruned"
			}
			n, err := sweep()
			if err != nil {
				return err
			}
			out.success("%s %s", verb, plural(n, "cached entry"))
			out.detail("Directory: %s", dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == config.BackendRedis {
				c.ui().print("redis://" + c.Config.Cache.RedisAddr)
				return nil
			}
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			c.ui().print(dir)
			return nil
		},
	}
}
