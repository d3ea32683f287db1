package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/argviz/pkg/buildinfo"
	"github.com/matzehuels/argviz/pkg/cache"
	"github.com/matzehuels/argviz/pkg/config"
	"github.com/matzehuels/argviz/pkg/engine"
	"github.com/matzehuels/argviz/pkg/observability"
	"github.com/matzehuels/argviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "argviz"

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

	// ConfigPath overrides the settings file location.
	ConfigPath string
	// NoCache disables the transcript and artifact cache.
	NoCache bool
	// Verbose switches the logger to debug before settings are read.
	Verbose bool

	settings config.Settings
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Settings are loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "argviz draws Gorgias argumentation proofs as attack trees",
		Long: `argviz runs a Gorgias query through SWI-Prolog, reconstructs the dialectical
proof tree from the engine's transcript and renders it as a positioned attack tree.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.loadSettings(cmd.ErrOrStderr()) },
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "settings file (default $XDG_CONFIG_HOME/argviz/settings.toml)")
	root.PersistentFlags().BoolVar(&c.NoCache, "no-cache", false, "disable caching")
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.translateCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadSettings reads the settings file and applies --verbose and print_debug.
// Unknown keys are reported on w.
func (c *CLI) loadSettings(w io.Writer) error {
	if c.Verbose {
		c.SetLogLevel(LogDebug)
	}
	s, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.settings = s
	if s.User.PrintDebug {
		c.SetLogLevel(LogDebug)
	}
	if len(s.Unknown) > 0 {
		printWarning(w, "Ignoring unknown settings in %s: %s", s.Source, strings.Join(s.Unknown, ", "))
	}
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	cache, err := newCache(c.NoCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.newEngine(), c.Logger), nil
}

// newEngine builds the SWI-Prolog runner from the user settings.
func (c *CLI) newEngine() *engine.Runner {
	u := c.settings.User
	return engine.New(engine.Config{
		SwiplPath:      u.SwiplPath,
		QueryFunction:  u.QueryFunction,
		ResultVariable: u.ResultVariable,
		Timeout:        u.EngineTimeout.Duration,
		Logger:         c.Logger,
	})
}

// options returns pipeline options carrying the user settings.
func (c *CLI) options() pipeline.Options {
	opts := pipeline.FromSettings(c.settings)
	opts.Logger = c.Logger
	return opts
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/argviz/).
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
