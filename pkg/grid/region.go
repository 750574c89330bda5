package grid

import "fmt"

// Region is a rectangular sub-range of grid coordinates used for bulk
// editing. It is transient state owned by the editor and never persisted.
type Region struct {
	Row  int // top row, inclusive
	Col  int // left column, inclusive
	Rows int // height in cells
	Cols int // width in cells
}

// RegionAt returns the 1x1 region covering a single cell.
func RegionAt(row, col int) Region {
	return Region{Row: row, Col: col, Rows: 1, Cols: 1}
}

// NormalizeDrag builds the minimal bounding region over two corner cells,
// both inclusive, independent of drag direction.
func NormalizeDrag(startRow, startCol, curRow, curCol int) Region {
	if curRow < startRow {
		startRow, curRow = curRow, startRow
	}
	if curCol < startCol {
		startCol, curCol = curCol, startCol
	}
	return Region{
		Row:  startRow,
		Col:  startCol,
		Rows: curRow - startRow + 1,
		Cols: curCol - startCol + 1,
	}
}

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool { return r.Rows <= 0 || r.Cols <= 0 }

// EndRow returns the exclusive bottom bound.
func (r Region) EndRow() int { return r.Row + r.Rows }

// EndCol returns the exclusive right bound.
func (r Region) EndCol() int { return r.Col + r.Cols }

// Contains reports whether (row, col) lies inside the region.
func (r Region) Contains(row, col int) bool {
	return row >= r.Row && row < r.EndRow() && col >= r.Col && col < r.EndCol()
}

// String renders the region as "(top,left) h x w" for status output.
func (r Region) String() string {
	return fmt.Sprintf("(%d,%d) %dx%d", r.Row, r.Col, r.Rows, r.Cols)
}

// ClampRegion intersects r with the grid extent. The result may be empty.
func (g *Grid) ClampRegion(r Region) Region {
	top, left := r.Row, r.Col
	if top < 0 {
		top = 0
	}
	if left < 0 {
		left = 0
	}
	bottom, right := r.EndRow(), r.EndCol()
	if bottom > g.rows {
		bottom = g.rows
	}
	if right > g.cols {
		right = g.cols
	}
	return Region{Row: top, Col: left, Rows: bottom - top, Cols: right - left}
}

// Placement describes one asset intersecting a region: its anchor (primary
// position) and the full set of cells its span occupies.
type Placement struct {
	Asset *Asset
	Row   int // anchor row (primary cell)
	Col   int // anchor column
	Cells []Position
}

// PlacementsIn returns the placements with at least one cell inside the
// region, deduplicated by primary position: a portrait asset contributes one
// entry no matter how many of its three cells intersect. Pass an empty
// orientation to match both; otherwise only placements of that orientation
// are returned. Results are in row-major order of first intersection.
func (g *Grid) PlacementsIn(r Region, o Orientation) []Placement {
	r = g.ClampRegion(r)
	if r.Empty() {
		return nil
	}

	seen := make(map[Position]bool)
	var out []Placement
	for row := r.Row; row < r.EndRow(); row++ {
		for col := r.Col; col < r.EndCol(); col++ {
			c := g.cells[row][col]
			if !c.Occupied() {
				continue
			}
			if o != "" && c.image.Orientation != o {
				continue
			}
			anchor := g.PrimaryAt(row, col)
			if seen[anchor] {
				continue
			}
			seen[anchor] = true

			span := c.image.Orientation.Span()
			cells := make([]Position, span)
			for i := 0; i < span; i++ {
				cells[i] = Position{Row: anchor.Row + i, Col: anchor.Col}
			}
			out = append(out, Placement{
				Asset: c.image,
				Row:   anchor.Row,
				Col:   anchor.Col,
				Cells: cells,
			})
		}
	}
	return out
}

// ExpandForSpans grows the region vertically until every portrait placement
// it touches is fully enclosed. Horizontal bounds are never altered: spans
// are vertical-only, so only the top and bottom can move. A single pass
// suffices because spans have uniform length and expansion is derived from
// placements already identified by one intersection test. The result is
// clamped to the grid; a region touching no portrait span is returned
// unchanged. The operation is idempotent.
func (g *Grid) ExpandForSpans(r Region) Region {
	clamped := g.ClampRegion(r)
	if clamped.Empty() {
		return r
	}

	top, bottom := clamped.Row, clamped.EndRow()
	expanded := false
	for _, p := range g.PlacementsIn(clamped, Portrait) {
		if p.Row < top {
			top = p.Row
			expanded = true
		}
		if end := p.Row + len(p.Cells); end > bottom {
			bottom = end
			expanded = true
		}
	}
	if !expanded {
		return r
	}

	if top < 0 {
		top = 0
	}
	if bottom > g.rows {
		bottom = g.rows
	}
	return Region{Row: top, Col: clamped.Col, Rows: bottom - top, Cols: clamped.Cols}
}
