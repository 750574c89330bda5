package compose

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/geometry"
	"github.com/tilecraft/tilecraft/pkg/grid"
)

// solidLoader serves fixed in-memory images keyed by asset path.
func solidLoader(images map[string]image.Image) Loader {
	return func(path string) (image.Image, error) {
		img, ok := images[path]
		if !ok {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no image for %s", path)
		}
		return img, nil
	}
}

func solid(w, h int, col color.Color) image.Image {
	return imaging.New(w, h, color.NRGBAModel.Convert(col).(color.NRGBA))
}

func rgbAt(img image.Image, x, y int) (uint32, uint32, uint32) {
	r, g, b, _ := img.At(x, y).RGBA()
	return r, g, b
}

func TestValidArea(t *testing.T) {
	g := grid.New(13, 10)
	if _, ok := ValidArea(g); ok {
		t.Fatal("ValidArea on empty grid = ok")
	}

	g.Place(2, 3, &grid.Asset{Path: "p.jpg", Orientation: grid.Portrait, Width: 1080, Height: 1920})
	g.Place(1, 7, &grid.Asset{Path: "l.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})

	area, ok := ValidArea(g)
	if !ok {
		t.Fatal("ValidArea = !ok with two placements")
	}
	// Rows 1..4 (portrait span reaches row 4), columns 3..7.
	want := grid.Region{Row: 1, Col: 3, Rows: 4, Cols: 5}
	if area != want {
		t.Errorf("ValidArea = %v, want %v", area, want)
	}
}

func TestComposeSinglePortraitCanvas(t *testing.T) {
	// One portrait anywhere on a large grid crops to its own strip: one
	// cell wide, three cells plus two spacing gaps tall.
	g := grid.New(13, 10)
	g.Place(2, 3, &grid.Asset{Path: "p1.jpg", Orientation: grid.Portrait, Width: 1080, Height: 1920})

	c := New(
		WithCellSize(160, 90),
		WithLoader(solidLoader(map[string]image.Image{"p1.jpg": solid(1080, 1920, color.Black)})),
	)
	img, err := c.Compose(context.Background(), g)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	wantH := 3*90 + 2*geometry.Spacing(90)
	if img.Bounds().Dx() != 160 || img.Bounds().Dy() != wantH {
		t.Errorf("canvas = %dx%d, want 160x%d", img.Bounds().Dx(), img.Bounds().Dy(), wantH)
	}
}

func TestComposeTilePixels(t *testing.T) {
	// Black landscapes in the outer cells of a 1x3 grid. The 16:9 sources
	// fit their cells exactly, so the tile centers are black; the spacing
	// gaps and the empty middle cell stay the background color.
	g := grid.New(1, 3)
	g.Place(0, 0, &grid.Asset{Path: "a.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})
	g.Place(0, 2, &grid.Asset{Path: "b.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})

	black := solid(1920, 1080, color.Black)
	c := New(
		WithCellSize(160, 90),
		WithLoader(solidLoader(map[string]image.Image{"a.jpg": black, "b.jpg": black})),
	)
	img, err := c.Compose(context.Background(), g)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	s := geometry.Spacing(90)
	if r, _, _ := rgbAt(img, 80, 45); r != 0 {
		t.Errorf("left tile center not black: r=%d", r)
	}
	if r, _, _ := rgbAt(img, 2*(160+s)+80, 45); r != 0 {
		t.Errorf("right tile center not black: r=%d", r)
	}
	if r, _, _ := rgbAt(img, 160+s/2, 45); r != 0xffff {
		t.Errorf("spacing gap not background: r=%d", r)
	}
	if r, _, _ := rgbAt(img, 160+s+80, 45); r != 0xffff {
		t.Errorf("empty middle cell not background: r=%d", r)
	}
}

func TestComposeEmptyGrid(t *testing.T) {
	g := grid.New(5, 5)
	c := New(WithLoader(solidLoader(nil)))
	if _, err := c.Compose(context.Background(), g); !errors.Is(err, errors.ErrCodeEmptyGrid) {
		t.Errorf("Compose on empty grid = %v, want EMPTY_GRID", err)
	}
}

func TestComposePlaceholderOnLoadFailure(t *testing.T) {
	// Missing source file renders as a placeholder tile, not a hard error.
	g := grid.New(1, 1)
	g.Place(0, 0, &grid.Asset{Path: "gone.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})

	c := New(WithCellSize(160, 90), WithLoader(solidLoader(nil)))
	img, err := c.Compose(context.Background(), g)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if r, _, _ := rgbAt(img, 10, 45); r == 0xffff {
		t.Error("placeholder tile missing: pixel is still background")
	}
}

func TestComposeCancelled(t *testing.T) {
	g := grid.New(1, 1)
	g.Place(0, 0, &grid.Asset{Path: "l.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(WithLoader(solidLoader(map[string]image.Image{"l.jpg": solid(16, 9, color.Black)})))
	if _, err := c.Compose(ctx, g); err == nil {
		t.Error("Compose with cancelled context = nil error")
	}
}

func TestExportWritesFile(t *testing.T) {
	g := grid.New(2, 2)
	black := solid(1920, 1080, color.Black)
	g.Place(0, 0, &grid.Asset{Path: "a.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})
	g.Place(1, 1, &grid.Asset{Path: "b.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})

	out := filepath.Join(t.TempDir(), "collage.png")
	err := Export(context.Background(), g, out,
		WithLoader(solidLoader(map[string]image.Image{"a.jpg": black, "b.jpg": black})))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	saved, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("reopening export: %v", err)
	}
	wantW := 2*480 + geometry.ExportSpacing(270)
	if saved.Bounds().Dx() != wantW {
		t.Errorf("export width = %d, want %d", saved.Bounds().Dx(), wantW)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	g := grid.New(2, 2)
	err := Export(context.Background(), g, "out.gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Export to .gif = %v, want INVALID_FORMAT", err)
	}
}

func TestExportSpacingFloor(t *testing.T) {
	// Even at a cell height too small for derived spacing, export keeps at
	// least one pixel between cells.
	g := grid.New(1, 2)
	black := solid(16, 9, color.Black)
	g.Place(0, 0, &grid.Asset{Path: "a.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})
	g.Place(0, 1, &grid.Asset{Path: "b.jpg", Orientation: grid.Landscape, Width: 1920, Height: 1080})

	out := filepath.Join(t.TempDir(), "tiny.png")
	err := Export(context.Background(), g, out,
		WithCellSize(16, 9),
		WithLoader(solidLoader(map[string]image.Image{"a.jpg": black, "b.jpg": black})))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	saved, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("reopening export: %v", err)
	}
	if got := saved.Bounds().Dx(); got != 2*16+1 {
		t.Errorf("export width = %d, want %d", got, 2*16+1)
	}
}
