// Package config loads tool configuration from a TOML file, falling back to
// built-in defaults for anything unset.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/scan"
)

// DefaultFile is the config file name looked up in the working directory
// when no explicit path is given.
const DefaultFile = "tilecraft.toml"

// GridConfig sets the default grid extent.
type GridConfig struct {
	Rows int `toml:"rows"`
	Cols int `toml:"cols"`
}

// CellConfig sets the pixel size of one landscape cell for a render target.
type CellConfig struct {
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`
}

// ScanConfig controls image discovery.
type ScanConfig struct {
	Extensions []string `toml:"extensions"`
}

// StateConfig controls where state documents are stored.
type StateConfig struct {
	DataDir string `toml:"data_dir"`
}

// Config is the complete tool configuration.
type Config struct {
	Grid    GridConfig  `toml:"grid"`
	Preview CellConfig  `toml:"preview"`
	Export  CellConfig  `toml:"export"`
	Scan    ScanConfig  `toml:"scan"`
	State   StateConfig `toml:"state"`
}

// Default returns the built-in configuration: a 13x10 grid, 160x90 preview
// cells, and 480x270 export cells for a 1920-wide print at four columns.
func Default() *Config {
	return &Config{
		Grid:    GridConfig{Rows: 13, Cols: 10},
		Preview: CellConfig{CellWidth: 160, CellHeight: 90},
		Export:  CellConfig{CellWidth: 480, CellHeight: 270},
		Scan:    ScanConfig{Extensions: scan.DefaultExtensions},
		State:   StateConfig{DataDir: "data"},
	}
}

// Load reads the config at path over the defaults. An empty path tries
// DefaultFile in the working directory and silently keeps the defaults when
// it does not exist; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading config %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configured dimensions are usable.
func (c *Config) Validate() error {
	if err := errors.ValidateGridSize(c.Grid.Rows, c.Grid.Cols); err != nil {
		return err
	}
	if err := errors.ValidateCellSize(c.Preview.CellWidth, c.Preview.CellHeight); err != nil {
		return err
	}
	return errors.ValidateCellSize(c.Export.CellWidth, c.Export.CellHeight)
}
