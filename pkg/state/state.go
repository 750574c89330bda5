// Package state persists grid layouts as versioned JSON documents.
//
// A document records the full asset pools and a sparse rows x cols layout
// array holding only primary cells; portrait sub-cells are reconstructed on
// load by replaying placement. Asset paths are stored relative to the image
// directory when one is recorded and the path resolves inside it, which
// keeps documents portable across machines.
package state

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/grid"
)

// Version is the document format version this package reads and writes.
const Version = "1.0"

// AssetRecord is the wire form of one pool entry.
type AssetRecord struct {
	Path        string           `json:"path"`
	Orientation grid.Orientation `json:"orientation"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
}

// LayoutCell is the wire form of a primary cell. Sub-cells of a portrait
// span are never serialized.
type LayoutCell struct {
	Row        int         `json:"row"`
	Col        int         `json:"col"`
	Image      AssetRecord `json:"image"`
	IsMainCell bool        `json:"is_main_cell"`
}

// GridConfig records the grid extent plus advisory render dimensions. Only
// rows and cols affect restoration; the cell sizes travel along so a
// document carries enough context to re-render as it looked when saved.
type GridConfig struct {
	Rows       int `json:"rows"`
	Cols       int `json:"cols"`
	CellWidth  int `json:"cell_width,omitempty"`
	CellHeight int `json:"cell_height,omitempty"`
}

// Pools is the wire form of the two asset pools.
type Pools struct {
	Unused []AssetRecord `json:"unused"`
	Used   []AssetRecord `json:"used"`
}

// Document is a complete serialized grid.
type Document struct {
	Version        string          `json:"version"`
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	ImageDirectory string          `json:"image_directory,omitempty"`
	GridConfig     GridConfig      `json:"grid_config"`
	Images         Pools           `json:"images"`
	GridLayout     [][]*LayoutCell `json:"grid_layout"`
}

// ============================================================================
// Snapshot
// ============================================================================

// Snapshot serializes g into a new document. Asset paths are rewritten
// relative to baseDir when they resolve inside it; paths that would need a
// ".." escape stay absolute. An empty baseDir keeps every path as-is.
func Snapshot(g *grid.Grid, baseDir string) *Document {
	doc := &Document{
		Version:        Version,
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		ImageDirectory: baseDir,
		GridConfig:     GridConfig{Rows: g.Rows(), Cols: g.Cols()},
	}

	record := func(a *grid.Asset) AssetRecord {
		return AssetRecord{
			Path:        portablePath(a.Path, baseDir),
			Orientation: a.Orientation,
			Width:       a.Width,
			Height:      a.Height,
		}
	}
	doc.Images.Unused = make([]AssetRecord, 0, len(g.Unused()))
	for _, a := range g.Unused() {
		doc.Images.Unused = append(doc.Images.Unused, record(a))
	}
	doc.Images.Used = make([]AssetRecord, 0, len(g.Used()))
	for _, a := range g.Used() {
		doc.Images.Used = append(doc.Images.Used, record(a))
	}

	doc.GridLayout = make([][]*LayoutCell, g.Rows())
	for row := range doc.GridLayout {
		doc.GridLayout[row] = make([]*LayoutCell, g.Cols())
		for col := range doc.GridLayout[row] {
			c, _ := g.CellAt(row, col)
			if !c.Occupied() || !c.Primary() {
				continue
			}
			doc.GridLayout[row][col] = &LayoutCell{
				Row:        row,
				Col:        col,
				Image:      record(c.Image()),
				IsMainCell: true,
			}
		}
	}
	return doc
}

// portablePath relativizes path against baseDir when the result stays inside
// the directory.
func portablePath(path, baseDir string) string {
	if baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// ============================================================================
// Restore
// ============================================================================

// RestoreOption configures restoration.
type RestoreOption func(*restorer)

// WithExistsCheck substitutes the file-existence probe used to detect
// dangling asset references. Tests use this to restore without touching the
// filesystem.
func WithExistsCheck(exists func(path string) bool) RestoreOption {
	return func(r *restorer) { r.exists = exists }
}

type restorer struct {
	exists func(path string) bool
}

// RestoreResult reports what survived a restore.
type RestoreResult struct {
	// Placed is the number of layout entries successfully replayed.
	Placed int
	// MissingAssets counts pool entries whose resolved file no longer
	// exists. Their layout entries are skipped silently.
	MissingAssets int
	// SkippedPlacements counts layout entries that could not be replayed:
	// their asset was dropped or the recorded position no longer fits.
	SkippedPlacements int
}

// Restore builds a fresh grid from doc. Missing asset files are recoverable:
// the asset and its placements are dropped and counted. A structurally
// malformed document is not: Restore returns an error and no grid, leaving
// whatever the caller currently holds untouched.
func Restore(doc *Document, opts ...RestoreOption) (*grid.Grid, *RestoreResult, error) {
	r := &restorer{exists: func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}}
	for _, opt := range opts {
		opt(r)
	}

	if err := validate(doc); err != nil {
		return nil, nil, err
	}

	g := grid.New(doc.GridConfig.Rows, doc.GridConfig.Cols)
	res := &RestoreResult{}

	for _, rec := range append(append([]AssetRecord{}, doc.Images.Unused...), doc.Images.Used...) {
		path := resolvePath(rec.Path, doc.ImageDirectory)
		if !r.exists(path) {
			res.MissingAssets++
			continue
		}
		g.AddUnused(&grid.Asset{
			Path:        path,
			Orientation: rec.Orientation,
			Width:       rec.Width,
			Height:      rec.Height,
		})
	}

	for _, row := range doc.GridLayout {
		for _, cell := range row {
			if cell == nil || !cell.IsMainCell {
				continue
			}
			asset := g.FindAsset(resolvePath(cell.Image.Path, doc.ImageDirectory))
			if asset == nil {
				// Dropped with its missing file; already counted.
				continue
			}
			if g.Place(cell.Row, cell.Col, asset) {
				res.Placed++
			} else {
				res.SkippedPlacements++
			}
		}
	}
	return g, res, nil
}

func resolvePath(path, baseDir string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// validate checks the structural invariants a document must satisfy before
// any of it is trusted.
func validate(doc *Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidState, "empty state document")
	}
	if doc.Version == "" {
		return errors.New(errors.ErrCodeInvalidState, "state document has no version field")
	}
	if err := errors.ValidateGridSize(doc.GridConfig.Rows, doc.GridConfig.Cols); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidState, err, "state document grid_config is invalid")
	}
	for _, rec := range doc.Images.Unused {
		if err := validateRecord(rec); err != nil {
			return err
		}
	}
	for _, rec := range doc.Images.Used {
		if err := validateRecord(rec); err != nil {
			return err
		}
	}
	for _, row := range doc.GridLayout {
		for _, cell := range row {
			if cell == nil {
				continue
			}
			if err := validateRecord(cell.Image); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRecord(rec AssetRecord) error {
	if rec.Path == "" {
		return errors.New(errors.ErrCodeInvalidState, "asset record has an empty path")
	}
	if !rec.Orientation.Valid() {
		return errors.New(errors.ErrCodeInvalidState, "asset %s has unknown orientation %q", rec.Path, rec.Orientation)
	}
	return nil
}
