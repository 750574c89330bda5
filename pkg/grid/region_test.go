package grid

import "testing"

func TestNormalizeDrag(t *testing.T) {
	tests := []struct {
		name                   string
		r1, c1, r2, c2         int
		wantRow, wantCol       int
		wantRows, wantCols     int
	}{
		{"down-right", 1, 1, 3, 4, 1, 1, 3, 4},
		{"up-left", 3, 4, 1, 1, 1, 1, 3, 4},
		{"down-left", 1, 4, 3, 1, 1, 1, 3, 4},
		{"single cell", 2, 2, 2, 2, 2, 2, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDrag(tt.r1, tt.c1, tt.r2, tt.c2)
			want := Region{Row: tt.wantRow, Col: tt.wantCol, Rows: tt.wantRows, Cols: tt.wantCols}
			if got != want {
				t.Errorf("NormalizeDrag = %v, want %v", got, want)
			}
		})
	}
}

func TestRegionAt(t *testing.T) {
	if got := RegionAt(4, 7); got != (Region{Row: 4, Col: 7, Rows: 1, Cols: 1}) {
		t.Errorf("RegionAt(4, 7) = %v", got)
	}
}

func TestClampRegion(t *testing.T) {
	g := New(5, 5)
	got := g.ClampRegion(Region{Row: -2, Col: 3, Rows: 10, Cols: 10})
	want := Region{Row: 0, Col: 3, Rows: 5, Cols: 2}
	if got != want {
		t.Errorf("ClampRegion = %v, want %v", got, want)
	}
	if !g.ClampRegion(Region{Row: 8, Col: 8, Rows: 2, Cols: 2}).Empty() {
		t.Error("fully out-of-range region should clamp to empty")
	}
}

func TestExpandForSpans(t *testing.T) {
	// Portrait P1 at (0,1) spans rows 0-2 of column 1.
	g := New(13, 10)
	p1 := portrait("p1.jpg")
	g.Place(0, 1, p1)

	// Region covering only P1's top cell grows to the full span.
	got := g.ExpandForSpans(Region{Row: 0, Col: 1, Rows: 1, Cols: 1})
	want := Region{Row: 0, Col: 1, Rows: 3, Cols: 1}
	if got != want {
		t.Errorf("ExpandForSpans = %v, want %v", got, want)
	}

	// Intersecting the middle cell expands both directions.
	got = g.ExpandForSpans(Region{Row: 1, Col: 0, Rows: 1, Cols: 5})
	want = Region{Row: 0, Col: 0, Rows: 3, Cols: 5}
	if got != want {
		t.Errorf("ExpandForSpans via middle cell = %v, want %v", got, want)
	}

	// Column bounds are never altered.
	if got.Col != 0 || got.Cols != 5 {
		t.Errorf("expansion changed horizontal bounds: %v", got)
	}
}

func TestExpandForSpansIdempotent(t *testing.T) {
	g := New(13, 10)
	g.Place(2, 3, portrait("p.jpg"))
	g.Place(4, 5, portrait("q.jpg"))

	r := Region{Row: 3, Col: 2, Rows: 2, Cols: 5}
	once := g.ExpandForSpans(r)
	twice := g.ExpandForSpans(once)
	if once != twice {
		t.Errorf("ExpandForSpans not idempotent: %v then %v", once, twice)
	}
}

func TestExpandForSpansNoPortrait(t *testing.T) {
	g := New(13, 10)
	g.Place(0, 0, landscape("l.jpg"))

	r := Region{Row: 0, Col: 0, Rows: 2, Cols: 2}
	if got := g.ExpandForSpans(r); got != r {
		t.Errorf("ExpandForSpans = %v, want unchanged %v", got, r)
	}
}

func TestPlacementsInDedup(t *testing.T) {
	g := New(13, 10)
	p := portrait("p.jpg")
	l := landscape("l.jpg")
	g.Place(0, 1, p)
	g.Place(1, 2, l)

	// Region covers all three cells of P plus L: P contributes one entry.
	all := g.PlacementsIn(Region{Row: 0, Col: 0, Rows: 4, Cols: 4}, "")
	if len(all) != 2 {
		t.Fatalf("PlacementsIn = %d entries, want 2", len(all))
	}

	ports := g.PlacementsIn(Region{Row: 0, Col: 0, Rows: 4, Cols: 4}, Portrait)
	if len(ports) != 1 {
		t.Fatalf("portrait placements = %d, want 1", len(ports))
	}
	got := ports[0]
	if got.Asset != p || got.Row != 0 || got.Col != 1 {
		t.Errorf("placement = %+v, want anchor (0,1)", got)
	}
	wantCells := []Position{{0, 1}, {1, 1}, {2, 1}}
	if len(got.Cells) != 3 {
		t.Fatalf("span cells = %v, want %v", got.Cells, wantCells)
	}
	for i, c := range got.Cells {
		if c != wantCells[i] {
			t.Errorf("span cell %d = %v, want %v", i, c, wantCells[i])
		}
	}

	lands := g.PlacementsIn(Region{Row: 0, Col: 0, Rows: 4, Cols: 4}, Landscape)
	if len(lands) != 1 || lands[0].Asset != l {
		t.Errorf("landscape placements = %v, want [l]", lands)
	}
}

func TestPlacementsInTouchingOneSpanCell(t *testing.T) {
	g := New(13, 10)
	p := portrait("p.jpg")
	g.Place(0, 1, p)

	// Region intersects only the bottom sub-cell; anchor still reported.
	got := g.PlacementsIn(Region{Row: 2, Col: 1, Rows: 1, Cols: 1}, Portrait)
	if len(got) != 1 || got[0].Row != 0 || got[0].Col != 1 {
		t.Errorf("PlacementsIn via sub-cell = %+v, want anchor (0,1)", got)
	}
}
