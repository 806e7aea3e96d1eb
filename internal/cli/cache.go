package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCommand creates the artifact cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the compiled artifact cache",
	}

	cmd.PersistentFlags().String("cache-backend", "", "artifact cache: file, redis or none")
	cmd.PersistentFlags().String("cache-dir", "", "directory for the file cache")
	cmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis cache")

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached PDF and PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config().Cache
			if cfg.Backend == backendNone {
				printInfo("Caching is disabled")
				return nil
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.ClearCache(cmd.Context()); err != nil {
				return err
			}

			printSuccess("Cleared %s cache", cfg.Backend)
			if cfg.Backend == backendRedis {
				printDetail("Address: %s", cfg.RedisAddr)
			} else if dir, err := c.fileCacheDir(); err == nil {
				printDetail("Directory: %s", dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// fileCacheDir is the configured cache directory, or the XDG default.
func (c *CLI) fileCacheDir() (string, error) {
	if dir := c.config().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cacheDir()
}
