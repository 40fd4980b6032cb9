// Package cli implements the boxtree command-line interface.
//
// This package provides commands for laying out box diagrams, rendering
// them to various formats, inspecting the containment hierarchy, and
// serving the layout engine over HTTP. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Run the layout engine over a diagram file
//   - render: Generate SVG, PNG, PDF, JSON, or DOT output
//   - tree: Visualize the containment hierarchy as a node-link graph
//   - fit: Compute a parent's minimum enclosing size
//   - add: Insert a new rectangle with a computed position
//   - serve: Expose the engine as an HTTP API
//   - cache: Manage the layout and render cache
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/boxtree-io/boxtree/pkg/buildinfo"
	"github.com/boxtree-io/boxtree/pkg/cache"
	"github.com/boxtree-io/boxtree/pkg/config"
	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "boxtree"

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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfig reads the configuration file. A missing file leaves the
// defaults in place; a malformed one is an error.
func (c *CLI) LoadConfig() error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil // no home dir, stick with defaults
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "boxtree",
		Short:        "Boxtree lays out hierarchical box diagrams",
		Long:         `Boxtree is a CLI tool for automatic layout of hierarchical box diagrams: it packs nested rectangles with grid, flow, and mixed-flow algorithms and renders the result to SVG, PNG, PDF, JSON, or DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/boxtree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	mgr, err := layout.NewManager(c.Config.Algorithm)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, mgr, c.Logger), nil
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

// cacheDir returns the cache directory using XDG standard (~/.cache/boxtree/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions builds pipeline options from the loaded configuration.
func (c *CLI) baseOptions() pipeline.Options {
	opts := pipeline.Options{
		Algorithm: c.Config.Algorithm,
		Margins:   &c.Config.Margins,
		Style:     c.Config.Render.Style,
		GridSize:  c.Config.Render.GridSize,
		Logger:    c.Logger,
	}
	if c.Config.Leaf.LeafFixedWidth || c.Config.Leaf.LeafFixedHeight {
		leaf := c.Config.Leaf
		opts.Fixed = &leaf
	}
	opts.SetDefaults()
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
