// Package cli implements the tilecraft command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tilecraft/tilecraft/pkg/buildinfo"
	"github.com/tilecraft/tilecraft/pkg/config"
	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/grid"
	"github.com/tilecraft/tilecraft/pkg/state"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tilecraft"

	// defaultStateName is the document edit commands work on when no
	// --state flag is given.
	defaultStateName = "default"
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

	configPath string
	dataDir    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tilecraft arranges photos on a collage grid",
		Long: `Tilecraft is a CLI tool for building photo collages on a fixed grid:
16:9 landscape photos take one cell, 9:16 portrait photos take a vertical
three-cell strip, and the result composes into a single print-ready image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: tilecraft.toml if present)")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "state directory (default: from config)")

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.forgetCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Store
// =============================================================================

// loadConfig reads the effective configuration, honoring --config and
// --data-dir overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.dataDir != "" {
		cfg.State.DataDir = c.dataDir
	}
	return cfg, nil
}

func (c *CLI) newStore(cfg *config.Config) (*state.Store, error) {
	return state.NewStore(cfg.State.DataDir)
}

// =============================================================================
// Working State
// =============================================================================

// workspace is one loaded editing session: the grid plus the document
// context it came from.
type workspace struct {
	grid     *grid.Grid
	imageDir string
	missing  int
}

// loadWorkspace opens the named state document, or starts a fresh grid with
// the configured dimensions when the document does not exist yet.
func (c *CLI) loadWorkspace(store *state.Store, cfg *config.Config, name string) (*workspace, error) {
	doc, err := store.Load(name)
	if err != nil {
		if errors.Is(err, errors.ErrCodeStateNotFound) {
			c.Logger.Debug("no saved state, starting fresh", "name", name)
			return &workspace{grid: grid.New(cfg.Grid.Rows, cfg.Grid.Cols)}, nil
		}
		return nil, err
	}

	g, res, err := state.Restore(doc)
	if err != nil {
		return nil, err
	}
	if res.MissingAssets > 0 {
		c.Logger.Warn("dropped assets whose files are gone", "count", res.MissingAssets)
	}
	return &workspace{grid: g, imageDir: doc.ImageDirectory, missing: res.MissingAssets}, nil
}

// openWorkspace bundles the config, store, and workspace loading every
// editing command starts with.
func (c *CLI) openWorkspace(name string) (*config.Config, *state.Store, *workspace, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := c.newStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	ws, err := c.loadWorkspace(store, cfg, name)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, ws, nil
}

// saveWorkspace snapshots the grid back into the named document.
func (c *CLI) saveWorkspace(store *state.Store, cfg *config.Config, ws *workspace, name string) error {
	doc := state.Snapshot(ws.grid, ws.imageDir)
	doc.GridConfig.CellWidth = cfg.Preview.CellWidth
	doc.GridConfig.CellHeight = cfg.Preview.CellHeight
	saved, err := store.Save(doc, name)
	if err != nil {
		return err
	}
	c.Logger.Debug("state saved", "file", saved)
	return nil
}

