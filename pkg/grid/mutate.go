package grid

import "github.com/tilecraft/tilecraft/pkg/errors"

// MoveResult reports the outcome of a region move.
type MoveResult struct {
	// Moved is the number of assets relocated.
	Moved int
	// ClearedConflicts is the number of assets that were not part of the
	// move but sat in a destination cell and were removed by the
	// last-write-wins conflict policy.
	ClearedConflicts int
}

// MoveRegion translates every placement anchored inside the region by
// (dRow, dCol). The whole operation is rejected without mutation if any
// destination span would fall outside the grid.
//
// Movement uses clear-then-place semantics: the union of all source and
// destination span cells is cleared first, then every moved asset is placed
// at its new anchor. Clearing first prevents a mover's old position from
// blocking its own destination, and makes conflict resolution deterministic:
// an unrelated asset occupying a destination cell is removed (returned to
// the unused pool) rather than blocking the move. Because the whole region
// translates rigidly, no two moved assets ever contend for the same
// destination cell.
func (g *Grid) MoveRegion(r Region, dRow, dCol int) (MoveResult, error) {
	r = g.ClampRegion(r)
	if r.Empty() {
		return MoveResult{}, errors.New(errors.ErrCodeInvalidRegion, "region %s covers no cells", r)
	}

	type move struct {
		asset    *Asset
		src, dst Position
	}
	var moves []move
	for row := r.Row; row < r.EndRow(); row++ {
		for col := r.Col; col < r.EndCol(); col++ {
			c := g.cells[row][col]
			if c.Occupied() && c.Primary() {
				moves = append(moves, move{
					asset: c.image,
					src:   Position{Row: row, Col: col},
					dst:   Position{Row: row + dRow, Col: col + dCol},
				})
			}
		}
	}
	if len(moves) == 0 {
		return MoveResult{}, nil
	}

	// Validate every destination span before touching anything.
	for _, m := range moves {
		span := m.asset.Orientation.Span()
		if !g.InBounds(m.dst.Row, m.dst.Col) || m.dst.Row+span > g.rows {
			return MoveResult{}, errors.New(errors.ErrCodeOutOfBounds,
				"moving %s to (%d,%d) leaves the %dx%d grid", m.asset, m.dst.Row, m.dst.Col, g.rows, g.cols)
		}
	}

	// Union of source and destination span cells.
	union := make(map[Position]bool)
	for _, m := range moves {
		for i := 0; i < m.asset.Orientation.Span(); i++ {
			union[Position{Row: m.src.Row + i, Col: m.src.Col}] = true
			union[Position{Row: m.dst.Row + i, Col: m.dst.Col}] = true
		}
	}

	cleared := make(map[*Asset]bool)
	for pos := range union {
		if a := g.Remove(pos.Row, pos.Col); a != nil {
			cleared[a] = true
		}
	}

	for _, m := range moves {
		g.Place(m.dst.Row, m.dst.Col, m.asset)
	}

	return MoveResult{
		Moved:            len(moves),
		ClearedConflicts: len(cleared) - len(moves),
	}, nil
}

// ClearRegion removes every placement touching the region and returns the
// number of assets cleared. The region is first expanded to fully enclose
// any partially overlapping portrait span, so a span is never half-cleared.
// Removal is naturally idempotent on cells that are already empty.
func (g *Grid) ClearRegion(r Region) int {
	r = g.ExpandForSpans(r)
	r = g.ClampRegion(r)

	cleared := 0
	for row := r.Row; row < r.EndRow(); row++ {
		for col := r.Col; col < r.EndCol(); col++ {
			if g.Remove(row, col) != nil {
				cleared++
			}
		}
	}
	return cleared
}
