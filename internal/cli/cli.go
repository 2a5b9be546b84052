// Package cli implements the irdump command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/irdump/pkg/buildinfo"
	"github.com/matzehuels/irdump/pkg/cache"
	"github.com/matzehuels/irdump/pkg/config"
	"github.com/matzehuels/irdump/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "irdump"

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
		Use:          appName,
		Short:        "irdump exports compiler IR graphs for inspection",
		Long:         `irdump loads compiler IR graph files, schedules them, annotates every node with derived debug properties and writes the result as binary graph dumps, JSON, DOT or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Artifact keys are scoped
// to the running build.
func (c *CLI) newRunner(ctx context.Context, cfg config.Cache, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	dir, err := fileCacheDir(cfg)
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/irdump/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// fileCacheDir is the configured cache directory, or cacheDir.
func fileCacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// debugFlags are the dump options shared by dump, inspect and browse. Flags
// override the configuration file only when given.
type debugFlags struct {
	configPath    string
	schedule      bool
	probabilities bool
	reportError   string
}

func (f *debugFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default ./"+config.DefaultPath+" when present)")
	cmd.Flags().BoolVar(&f.schedule, "schedule", false, "schedule graphs that have no schedule")
	cmd.Flags().BoolVar(&f.probabilities, "probabilities", false, "annotate fixed nodes with block probabilities")
	cmd.Flags().StringVar(&f.reportError, "error", "", "dump as if compilation failed with this message")
}

// options loads the configuration and builds pipeline options for source.
func (f *debugFlags) options(cmd *cobra.Command, source string) (*config.Config, pipeline.Options, error) {
	cfg, err := config.Find(f.configPath)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts := pipeline.FromConfig(cfg, source)
	if cmd.Flags().Changed("schedule") {
		opts.ScheduleOnDump = f.schedule
	}
	if cmd.Flags().Changed("probabilities") {
		opts.Probabilities = f.probabilities
	}
	opts.ReportError = f.reportError
	opts.Logger = loggerFromContext(cmd.Context())
	return cfg, opts, nil
}
