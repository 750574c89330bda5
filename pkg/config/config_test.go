package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tilecraft/tilecraft/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Grid.Rows != 13 || cfg.Grid.Cols != 10 {
		t.Errorf("default grid = %dx%d, want 13x10", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilecraft.toml")
	content := `
[grid]
rows = 6
cols = 4

[export]
cell_width = 960
cell_height = 540
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Rows != 6 || cfg.Grid.Cols != 4 {
		t.Errorf("grid = %dx%d, want 6x4", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Export.CellWidth != 960 {
		t.Errorf("export cell width = %d, want 960", cfg.Export.CellWidth)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Preview.CellWidth != 160 || cfg.State.DataDir != "data" {
		t.Error("unset sections lost their defaults")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load missing explicit path = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[grid]\nrows = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("Load with zero rows = %v, want INVALID_DIMENSIONS", err)
	}
}

func TestLoadRejectsBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syntax.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load with bad syntax = %v, want INVALID_FORMAT", err)
	}
}
