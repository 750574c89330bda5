// Package grid implements the placement and occupancy model for the photo
// collage: a rows x cols matrix of cells, two disjoint asset pools, and the
// region-based bulk operations built on top of the single-cell primitives.
//
// A landscape asset occupies exactly one cell; a portrait asset occupies
// three vertically contiguous cells in one column, with the topmost cell as
// the primary (the canonical owner of the asset reference) and the two cells
// below it carrying a value-typed backref to the primary position.
//
// All operations are total over any integer input: out-of-range coordinates
// yield false or nil, never a panic, and no operation is partially applied
// on failure. Grid is not safe for concurrent use without external
// synchronization.
package grid

// Position identifies a cell by zero-indexed (row, column).
type Position struct {
	Row int
	Col int
}

// Cell is one slot of the grid. The zero value is an empty cell.
type Cell struct {
	image      *Asset
	primary    bool
	primaryPos Position // set only on non-primary cells of a portrait span
}

// Image returns the occupying asset, or nil for an empty cell.
func (c Cell) Image() *Asset { return c.image }

// Occupied reports whether the cell holds an asset.
func (c Cell) Occupied() bool { return c.image != nil }

// Primary reports whether this cell is the primary cell of its placement.
// Empty cells report true: only portrait sub-cells are non-primary.
func (c Cell) Primary() bool { return c.image == nil || c.primary }

// PrimaryRef returns the position of the primary cell for a portrait
// sub-cell. ok is false for empty cells and primaries, which carry no backref.
func (c Cell) PrimaryRef() (Position, bool) {
	if c.image == nil || c.primary {
		return Position{}, false
	}
	return c.primaryPos, true
}

// Grid owns the cell matrix and the two asset pools. Every asset is in
// exactly one pool at any time; membership in used coincides with occupying
// at least one cell.
type Grid struct {
	rows   int
	cols   int
	cells  [][]Cell
	unused []*Asset
	used   []*Asset
}

// New creates an empty grid. Dimensions are clamped to a minimum of 1x1.
func New(rows, cols int) *Grid {
	g := &Grid{}
	g.Resize(rows, cols)
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) addresses an existing cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Resize rebuilds the grid with all cells empty. Every placed asset returns
// to the unused pool and the used pool is cleared. There is no error path:
// any positive dimensions are accepted, non-positive ones clamp to 1.
func (g *Grid) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	g.unused = append(g.unused, g.used...)
	g.used = nil

	g.rows = rows
	g.cols = cols
	g.cells = make([][]Cell, rows)
	for r := range g.cells {
		g.cells[r] = make([]Cell, cols)
	}
}

// CellAt returns a read-only copy of the cell at (row, col).
// ok is false for out-of-range coordinates.
func (g *Grid) CellAt(row, col int) (Cell, bool) {
	if !g.InBounds(row, col) {
		return Cell{}, false
	}
	return g.cells[row][col], true
}

// PrimaryAt resolves (row, col) to the primary position of the placement
// covering it. Empty cells and primary cells resolve to themselves; portrait
// sub-cells resolve through their backref.
func (g *Grid) PrimaryAt(row, col int) Position {
	if g.InBounds(row, col) {
		if ref, ok := g.cells[row][col].PrimaryRef(); ok {
			return ref
		}
	}
	return Position{Row: row, Col: col}
}

// CanPlace reports whether asset a fits at anchor (row, col): the full span
// must exist within the grid and every spanned cell must be unoccupied.
func (g *Grid) CanPlace(row, col int, a *Asset) bool {
	if a == nil || !g.InBounds(row, col) {
		return false
	}
	span := a.Orientation.Span()
	if row+span > g.rows {
		return false
	}
	for i := 0; i < span; i++ {
		if g.cells[row+i][col].Occupied() {
			return false
		}
	}
	return true
}

// Place occupies the span anchored at (row, col) with asset a and moves it
// from the unused pool to the used pool. It returns false without mutation
// if the placement is not possible. This is the sole cell-occupation entry
// point: every higher-level movement is expressed as Remove+Place pairs.
//
// The pool move is idempotent: an asset already in used is not duplicated,
// and an asset never seen before simply joins used.
func (g *Grid) Place(row, col int, a *Asset) bool {
	if !g.CanPlace(row, col, a) {
		return false
	}

	span := a.Orientation.Span()
	anchor := Position{Row: row, Col: col}
	for i := 0; i < span; i++ {
		c := &g.cells[row+i][col]
		c.image = a
		c.primary = i == 0
		if i > 0 {
			c.primaryPos = anchor
		} else {
			c.primaryPos = Position{}
		}
	}

	g.unused = removeAsset(g.unused, a)
	if !containsAsset(g.used, a) {
		g.used = append(g.used, a)
	}
	return true
}

// Remove clears the placement covering (row, col) and returns the removed
// asset, or nil if the cell is empty or out of range.
//
// Rather than trusting the theoretical span, Remove scans the entire grid
// for cells referencing the asset and clears them all. This is the
// authoritative cleanup path and tolerates any transient inconsistency.
func (g *Grid) Remove(row, col int) *Asset {
	if !g.InBounds(row, col) {
		return nil
	}
	a := g.cells[row][col].image
	if a == nil {
		return nil
	}

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c].image == a {
				g.cells[r][c] = Cell{}
			}
		}
	}

	g.used = removeAsset(g.used, a)
	if !containsAsset(g.unused, a) {
		g.unused = append(g.unused, a)
	}
	return a
}

// Unused returns a copy of the unused pool in order.
func (g *Grid) Unused() []*Asset {
	return append([]*Asset(nil), g.unused...)
}

// Used returns a copy of the used pool in order.
func (g *Grid) Used() []*Asset {
	return append([]*Asset(nil), g.used...)
}

// AddUnused appends an asset to the unused pool unless an asset with the
// same path is already present in either pool. It reports whether the asset
// was added.
func (g *Grid) AddUnused(a *Asset) bool {
	if a == nil || g.FindAsset(a.Path) != nil {
		return false
	}
	g.unused = append(g.unused, a)
	return true
}

// FindAsset looks up an asset by path across both pools.
func (g *Grid) FindAsset(path string) *Asset {
	for _, a := range g.unused {
		if a.Path == path {
			return a
		}
	}
	for _, a := range g.used {
		if a.Path == path {
			return a
		}
	}
	return nil
}

// Forget removes the asset with the given path from the grid and from both
// pools, destroying it as far as the model is concerned. It reports whether
// an asset was found.
func (g *Grid) Forget(path string) bool {
	a := g.FindAsset(path)
	if a == nil {
		return false
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c].image == a {
				g.cells[r][c] = Cell{}
			}
		}
	}
	g.unused = removeAsset(g.unused, a)
	g.used = removeAsset(g.used, a)
	return true
}

func containsAsset(pool []*Asset, a *Asset) bool {
	for _, p := range pool {
		if p == a {
			return true
		}
	}
	return false
}

func removeAsset(pool []*Asset, a *Asset) []*Asset {
	for i, p := range pool {
		if p == a {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}
