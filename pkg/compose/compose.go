// Package compose renders a populated grid into a single raster image.
//
// The output is cropped to the bounding box of occupied cells, so a sparse
// grid does not produce acres of empty background. Within that box every
// cell maps to a fixed pixel rectangle: landscape assets fill one cell,
// portrait assets fill a three-cell vertical strip including the spacing
// rows between the cells. Asset pixels are fitted into the target rectangle
// preserving aspect ratio, never upscaled, and centered on both axes.
package compose

import (
	"context"
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/geometry"
	"github.com/tilecraft/tilecraft/pkg/grid"
)

// ============================================================================
// Options
// ============================================================================

// Option configures a Composer.
type Option func(*Composer)

// WithCellSize sets the pixel size of a single landscape cell.
func WithCellSize(width, height int) Option {
	return func(c *Composer) {
		c.cellWidth = width
		c.cellHeight = height
	}
}

// WithSpacing overrides the derived inter-cell spacing.
func WithSpacing(px int) Option {
	return func(c *Composer) { c.spacing = px }
}

// WithBackground sets the canvas fill color.
func WithBackground(col color.Color) Option {
	return func(c *Composer) { c.background = col }
}

// WithGridLines draws separator lines in the spacing gaps and backs every
// tile rectangle with white, for on-screen preview renders.
func WithGridLines(on bool) Option {
	return func(c *Composer) { c.gridLines = on }
}

// WithIndices overlays each tile with its anchor coordinates, for
// cross-referencing a render against grid positions.
func WithIndices(on bool) Option {
	return func(c *Composer) { c.indices = on }
}

// WithLoader substitutes the image loader. Tests use this to compose from
// in-memory images.
func WithLoader(l Loader) Option {
	return func(c *Composer) { c.loader = l }
}

// Composer renders grids at a fixed cell size. A negative spacing override
// means the spacing is derived from the cell height so that a three-cell
// portrait strip keeps the 9:16 aspect ratio.
type Composer struct {
	cellWidth  int
	cellHeight int
	spacing    int // -1: derive from cell height
	background color.Color
	gridLines  bool
	indices    bool
	loader     Loader
}

// New builds a Composer for preview-quality rendering. The defaults produce
// 160x90 cells on a white background with grid lines off.
func New(opts ...Option) *Composer {
	c := &Composer{
		cellWidth:  160,
		cellHeight: 90,
		spacing:    -1,
		background: color.White,
		loader:     DiskLoader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Spacing returns the effective inter-cell spacing in pixels.
func (c *Composer) Spacing() int {
	if c.spacing >= 0 {
		return c.spacing
	}
	return geometry.Spacing(c.cellHeight)
}

// ============================================================================
// Valid area
// ============================================================================

// ValidArea returns the bounding box over every occupied cell, extended to
// enclose the full span of portrait placements. It is the crop window the
// compositor renders. ok is false when nothing is placed.
func ValidArea(g *grid.Grid) (area grid.Region, ok bool) {
	all := g.PlacementsIn(grid.Region{Rows: g.Rows(), Cols: g.Cols()}, "")
	if len(all) == 0 {
		return grid.Region{}, false
	}

	minRow, minCol := g.Rows(), g.Cols()
	maxRow, maxCol := 0, 0
	for _, p := range all {
		if p.Row < minRow {
			minRow = p.Row
		}
		if p.Col < minCol {
			minCol = p.Col
		}
		if end := p.Row + len(p.Cells) - 1; end > maxRow {
			maxRow = end
		}
		if p.Col > maxCol {
			maxCol = p.Col
		}
	}
	return grid.Region{
		Row:  minRow,
		Col:  minCol,
		Rows: maxRow - minRow + 1,
		Cols: maxCol - minCol + 1,
	}, true
}

// CanvasSize returns the output pixel dimensions for an area of the given
// cell extent. Spacing contributes only between cells, so a single row or
// column adds no gap.
func (c *Composer) CanvasSize(rows, cols int) (w, h int) {
	s := c.Spacing()
	w = cols*c.cellWidth + (cols-1)*s
	h = rows*c.cellHeight + (rows-1)*s
	return w, h
}

// ============================================================================
// Rendering
// ============================================================================

// tileRect returns the pixel rectangle a placement covers, relative to the
// top-left of the valid area.
func (c *Composer) tileRect(p grid.Placement, area grid.Region) image.Rectangle {
	s := c.Spacing()
	x := (p.Col - area.Col) * (c.cellWidth + s)
	y := (p.Row - area.Row) * (c.cellHeight + s)
	h := c.cellHeight
	if p.Asset.Orientation == grid.Portrait {
		h = geometry.PortraitHeight(c.cellHeight, s)
	}
	return image.Rect(x, y, x+c.cellWidth, y+h)
}

// Compose renders every placement of g onto one canvas cropped to the valid
// area. Assets that fail to load are drawn as crossed placeholder tiles
// rather than aborting the whole render. An entirely empty grid is an error:
// there is nothing to compose.
func (c *Composer) Compose(ctx context.Context, g *grid.Grid) (image.Image, error) {
	if err := errors.ValidateCellSize(c.cellWidth, c.cellHeight); err != nil {
		return nil, err
	}

	area, ok := ValidArea(g)
	if !ok {
		return nil, errors.New(errors.ErrCodeEmptyGrid, "no images placed on the grid")
	}

	w, h := c.CanvasSize(area.Rows, area.Cols)
	dc := gg.NewContext(w, h)
	dc.SetColor(c.background)
	dc.Clear()

	if c.gridLines {
		c.drawGridLines(dc, area.Rows, area.Cols)
	}

	for _, p := range g.PlacementsIn(area, "") {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c.drawTile(dc, p, area)
	}

	return dc.Image(), nil
}

// drawGridLines strokes a separator through the middle of every spacing gap.
// With zero spacing the lines land exactly on the shared cell boundary.
func (c *Composer) drawGridLines(dc *gg.Context, rows, cols int) {
	s := c.Spacing()
	w, h := c.CanvasSize(rows, cols)
	dc.SetColor(color.NRGBA{R: 64, G: 64, B: 64, A: 255})
	dc.SetLineWidth(1)
	for col := 1; col < cols; col++ {
		x := float64(col*(c.cellWidth+s)) - float64(s)/2
		dc.DrawLine(x, 0, x, float64(h))
	}
	for row := 1; row < rows; row++ {
		y := float64(row*(c.cellHeight+s)) - float64(s)/2
		dc.DrawLine(0, y, float64(w), y)
	}
	dc.Stroke()
}

func (c *Composer) drawTile(dc *gg.Context, p grid.Placement, area grid.Region) {
	rect := c.tileRect(p, area)

	if c.gridLines {
		dc.SetColor(color.White)
		dc.DrawRectangle(float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()))
		dc.Fill()
	}

	src, err := c.loader(p.Asset.Path)
	if err != nil {
		c.drawPlaceholder(dc, rect)
	} else {
		fitted := imaging.Fit(src, rect.Dx(), rect.Dy(), imaging.Lanczos)
		x := rect.Min.X + (rect.Dx()-fitted.Bounds().Dx())/2
		y := rect.Min.Y + (rect.Dy()-fitted.Bounds().Dy())/2
		dc.DrawImage(fitted, x, y)
	}

	if c.indices {
		c.drawIndex(dc, rect, p.Row, p.Col)
	}
}

// drawPlaceholder marks an unloadable asset with a gray tile and a cross so
// the gap is visible in the output instead of silently blending into the
// background.
func (c *Composer) drawPlaceholder(dc *gg.Context, rect image.Rectangle) {
	x0, y0 := float64(rect.Min.X), float64(rect.Min.Y)
	x1, y1 := float64(rect.Max.X), float64(rect.Max.Y)

	dc.SetColor(color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	dc.Fill()

	dc.SetColor(color.NRGBA{R: 120, G: 120, B: 120, A: 255})
	dc.SetLineWidth(2)
	dc.DrawLine(x0, y0, x1, y1)
	dc.DrawLine(x0, y1, x1, y0)
	dc.Stroke()
}

// drawIndex labels a tile with its anchor row and column, centered.
func (c *Composer) drawIndex(dc *gg.Context, rect image.Rectangle, row, col int) {
	label := strconv.Itoa(row) + "," + strconv.Itoa(col)
	cx := float64(rect.Min.X+rect.Max.X) / 2
	cy := float64(rect.Min.Y+rect.Max.Y) / 2
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(color.NRGBA{R: 220, G: 40, B: 40, A: 255})
	dc.DrawStringAnchored(label, cx, cy, 0.5, 0.5)
}
