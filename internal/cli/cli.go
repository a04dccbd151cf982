// Package cli implements the y0 command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Aryan-Seth/y0/pkg/buildinfo"
	"github.com/Aryan-Seth/y0/pkg/cache"
	"github.com/Aryan-Seth/y0/pkg/config"
	"github.com/Aryan-Seth/y0/pkg/pipeline"
)

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

	// configPath overrides the default config file location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "y0",
		Short: "y0 decides whether causal effects are identifiable",
		Long: `y0 reads causal graphs with directed and bidirected edges and decides
whether an interventional distribution can be computed from the available
data. It implements the ID algorithm, gz-identification with surrogate
experiments, z2-identification across domains, and the apt-order machinery
for cyclic graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/y0/config.toml)")

	root.AddCommand(c.identifyCommand())
	root.AddCommand(c.districtsCommand())
	root.AddCommand(c.aptOrderCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner from the config file. noCache forces
// the null cache regardless of the configured backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.MaxDepth = cfg.Engine.MaxDepth
	r.Parallel = cfg.Engine.Parallel
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts, err := cfg.CacheOptions()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", opts.Backend, err)
	}
	c.Logger.Debug("cache ready", "backend", opts.Backend)
	return store, nil
}
