// Package cli implements the statewalk command-line interface.
//
// # Commands
//
//   - order: find a crossing-minimal row ordering for a layered graph
//   - enumerate: list the solutions of a bundled puzzle model
//   - paths: list the source-to-sink paths of a graph
//   - normalize: turn a directed graph into a proper layered DAG
//   - serve: run the HTTP API
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Results go
// to stdout; status lines and logs go to stderr so output can be piped.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statewalk/pkg/buildinfo"
	"github.com/matzehuels/statewalk/pkg/cache"
	"github.com/matzehuels/statewalk/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "statewalk"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: DefaultConfig()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "statewalk enumerates state spaces with a lazy depth-first engine",
		Long: `statewalk walks search trees in place: it orders the rows of layered
graphs to minimize edge crossings, enumerates puzzle solutions and lists graph
paths, all on one apply/rollback search engine.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/statewalk/config.toml, or $STATEWALK_CONFIG)")

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.enumerateCommand())
	root.AddCommand(c.pathsCommand())
	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Cache.Namespace)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache picks Redis when an address is configured, else the file cache.
// A file cache that cannot be created degrades to no caching.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	cc := c.cfg.Cache
	switch {
	case noCache || cc.Disabled:
		return cache.NewNullCache(), nil
	case cc.RedisAddr != "":
		return cache.NewRedisCache(cc.RedisAddr, cc.RedisPassword, cc.RedisDB), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the configured cache directory or the user default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
