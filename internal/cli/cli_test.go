package cli

import (
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogDebug)
	c.dataDir = t.TempDir()
	return c
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func TestScanPlaceWorkflow(t *testing.T) {
	c := testCLI(t)
	photos := t.TempDir()
	writeTestPNG(t, filepath.Join(photos, "land.png"), 160, 90)
	writeTestPNG(t, filepath.Join(photos, "port.png"), 90, 160)

	if err := c.runScan(context.Background(), photos, "trip"); err != nil {
		t.Fatalf("runScan: %v", err)
	}

	_, _, ws, err := c.openWorkspace("trip")
	if err != nil {
		t.Fatalf("openWorkspace after scan: %v", err)
	}
	if got := len(ws.grid.Unused()); got != 2 {
		t.Fatalf("unused pool = %d after scan, want 2", got)
	}
	if ws.imageDir == "" {
		t.Error("scan did not record the image directory")
	}

	if err := c.runPlace(0, 0, "land.png", "trip"); err != nil {
		t.Fatalf("runPlace: %v", err)
	}

	// The placement survives a reload through the state store.
	_, _, ws, err = c.openWorkspace("trip")
	if err != nil {
		t.Fatalf("openWorkspace after place: %v", err)
	}
	cell, _ := ws.grid.CellAt(0, 0)
	if !cell.Occupied() {
		t.Error("placement not persisted")
	}
	if got := len(ws.grid.Unused()); got != 1 {
		t.Errorf("unused pool = %d after place, want 1", got)
	}
}

func TestPlaceRejectsOccupiedCell(t *testing.T) {
	c := testCLI(t)
	photos := t.TempDir()
	writeTestPNG(t, filepath.Join(photos, "a.png"), 160, 90)
	writeTestPNG(t, filepath.Join(photos, "b.png"), 160, 90)

	if err := c.runScan(context.Background(), photos, "s"); err != nil {
		t.Fatal(err)
	}
	if err := c.runPlace(0, 0, "a.png", "s"); err != nil {
		t.Fatal(err)
	}
	if err := c.runPlace(0, 0, "b.png", "s"); err == nil {
		t.Error("placing over an occupied cell succeeded")
	}
}

func TestLoadWorkspaceFreshState(t *testing.T) {
	c := testCLI(t)
	cfg, store, ws, err := c.openWorkspace("brand-new")
	if err != nil {
		t.Fatalf("openWorkspace: %v", err)
	}
	if ws.grid.Rows() != cfg.Grid.Rows || ws.grid.Cols() != cfg.Grid.Cols {
		t.Errorf("fresh grid = %dx%d, want configured %dx%d",
			ws.grid.Rows(), ws.grid.Cols(), cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if store.Path() != c.dataDir {
		t.Errorf("store path = %s, want %s", store.Path(), c.dataDir)
	}
}

func TestRemoveWorkflow(t *testing.T) {
	c := testCLI(t)
	photos := t.TempDir()
	writeTestPNG(t, filepath.Join(photos, "p.png"), 90, 160)

	if err := c.runScan(context.Background(), photos, "s"); err != nil {
		t.Fatal(err)
	}
	if err := c.runPlace(2, 2, "p.png", "s"); err != nil {
		t.Fatal(err)
	}
	// Remove via a sub-cell of the portrait span.
	if err := c.runRemove(4, 2, "s"); err != nil {
		t.Fatalf("runRemove: %v", err)
	}

	_, _, ws, err := c.openWorkspace("s")
	if err != nil {
		t.Fatal(err)
	}
	if cell, _ := ws.grid.CellAt(2, 2); cell.Occupied() {
		t.Error("portrait still placed after remove")
	}
	if got := len(ws.grid.Unused()); got != 1 {
		t.Errorf("unused pool = %d, want 1", got)
	}
}
