package cli

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/grid"
	"github.com/tilecraft/tilecraft/pkg/scan"
)

// =============================================================================
// Place
// =============================================================================

// placeCommand creates the place command for putting an image on the grid.
func (c *CLI) placeCommand() *cobra.Command {
	var stateName string

	cmd := &cobra.Command{
		Use:   "place <row> <col> <image>",
		Short: "Place an image at a grid position",
		Long: `Place an image at a grid position.

A landscape image occupies the single cell at (row, col); a portrait image
occupies (row, col) through (row+2, col). Placement is rejected when any of
those cells is occupied or outside the grid.

The image may be named by its path or by the file name of an already
scanned image. A path that is not in the pool yet is probed and added.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parsePosition(args[0], args[1])
			if err != nil {
				return err
			}
			return c.runPlace(row, col, args[2], stateName)
		},
	}

	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to update")
	return cmd
}

func (c *CLI) runPlace(row, col int, image, stateName string) error {
	cfg, store, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	asset, err := c.resolveAsset(ws, image)
	if err != nil {
		return err
	}

	if !ws.grid.Place(row, col, asset) {
		if !ws.grid.CanPlace(row, col, asset) {
			return errors.New(errors.ErrCodeInvalidInput,
				"cannot place %s at (%d,%d): cell occupied or span outside the %dx%d grid",
				asset, row, col, ws.grid.Rows(), ws.grid.Cols())
		}
		return errors.New(errors.ErrCodeInternal, "placement of %s at (%d,%d) failed", asset, row, col)
	}

	if err := c.saveWorkspace(store, cfg, ws, stateName); err != nil {
		return err
	}
	printSuccess("Placed %s at (%d,%d)", asset, row, col)
	printGridStats(ws.grid.Rows(), ws.grid.Cols(), len(ws.grid.Used()), len(ws.grid.Unused()))
	return nil
}

// resolveAsset finds the named image in the pools, or probes it from disk
// when it is a path the state has not seen yet.
func (c *CLI) resolveAsset(ws *workspace, image string) (*grid.Asset, error) {
	path := image
	if !filepath.IsAbs(path) && ws.imageDir != "" {
		path = filepath.Join(ws.imageDir, image)
	}
	if a := ws.grid.FindAsset(path); a != nil {
		return a, nil
	}
	if a := ws.grid.FindAsset(image); a != nil {
		return a, nil
	}

	// Match scanned images by file name.
	for _, pool := range [][]*grid.Asset{ws.grid.Unused(), ws.grid.Used()} {
		for _, a := range pool {
			if filepath.Base(a.Path) == image {
				return a, nil
			}
		}
	}

	asset, err := scan.Probe(path)
	if err != nil {
		return nil, err
	}
	ws.grid.AddUnused(asset)
	c.Logger.Debug("probed new image", "path", asset.Path, "orientation", asset.Orientation)
	return asset, nil
}

// =============================================================================
// Remove
// =============================================================================

// removeCommand creates the remove command for clearing a single placement.
func (c *CLI) removeCommand() *cobra.Command {
	var stateName string

	cmd := &cobra.Command{
		Use:   "remove <row> <col>",
		Short: "Remove the placement covering a cell",
		Long: `Remove the placement covering a cell.

Any cell of a portrait span works: the whole span is cleared and the image
returns to the unused pool. Removing an empty cell is a no-op.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parsePosition(args[0], args[1])
			if err != nil {
				return err
			}
			return c.runRemove(row, col, stateName)
		},
	}

	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to update")
	return cmd
}

func (c *CLI) runRemove(row, col int, stateName string) error {
	cfg, store, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	asset := ws.grid.Remove(row, col)
	if asset == nil {
		printInfo("Cell (%d,%d) is already empty", row, col)
		return nil
	}

	if err := c.saveWorkspace(store, cfg, ws, stateName); err != nil {
		return err
	}
	printSuccess("Removed %s from (%d,%d)", asset, row, col)
	return nil
}

// =============================================================================
// Move
// =============================================================================

// moveCommand creates the move command for shifting a region of placements.
func (c *CLI) moveCommand() *cobra.Command {
	var (
		stateName string
		regionArg string
	)

	cmd := &cobra.Command{
		Use:   "move <rows-down> <cols-right>",
		Short: "Move every placement in a region",
		Long: `Move every placement in a region by a row and column delta.

The region is given as top,left,rows,cols and grows automatically to cover
full portrait spans. Negative deltas move up or left. The move is all or
nothing: if any destination would leave the grid, nothing changes. An
unrelated image sitting in a destination cell is cleared back to the
unused pool.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dRow, dCol, err := parsePosition(args[0], args[1])
			if err != nil {
				return err
			}
			return c.runMove(regionArg, dRow, dCol, stateName)
		},
	}

	cmd.Flags().StringVarP(&regionArg, "region", "r", "", "region to move as top,left,rows,cols (required)")
	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to update")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}

func (c *CLI) runMove(regionArg string, dRow, dCol int, stateName string) error {
	region, err := parseRegion(regionArg)
	if err != nil {
		return err
	}

	cfg, store, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	region = ws.grid.ExpandForSpans(region)
	res, err := ws.grid.MoveRegion(region, dRow, dCol)
	if err != nil {
		return err
	}

	if err := c.saveWorkspace(store, cfg, ws, stateName); err != nil {
		return err
	}
	printSuccess("Moved %d placements by (%d,%d)", res.Moved, dRow, dCol)
	if res.ClearedConflicts > 0 {
		printWarning("Cleared %d images that were in the way", res.ClearedConflicts)
	}
	return nil
}

// =============================================================================
// Clear
// =============================================================================

// clearCommand creates the clear command for emptying a region.
func (c *CLI) clearCommand() *cobra.Command {
	var (
		stateName string
		regionArg string
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear every placement in a region",
		Long: `Clear every placement in a region.

The region is given as top,left,rows,cols and grows automatically to cover
full portrait spans, so a span is never half-cleared. Cleared images return
to the unused pool. Without --region the whole grid is cleared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClear(regionArg, stateName)
		},
	}

	cmd.Flags().StringVarP(&regionArg, "region", "r", "", "region to clear as top,left,rows,cols (default: whole grid)")
	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to update")
	return cmd
}

func (c *CLI) runClear(regionArg, stateName string) error {
	cfg, store, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	region := grid.Region{Rows: ws.grid.Rows(), Cols: ws.grid.Cols()}
	if regionArg != "" {
		region, err = parseRegion(regionArg)
		if err != nil {
			return err
		}
	}

	cleared := ws.grid.ClearRegion(region)
	if cleared == 0 {
		printInfo("Nothing to clear in %s", region)
		return nil
	}

	if err := c.saveWorkspace(store, cfg, ws, stateName); err != nil {
		return err
	}
	printSuccess("Cleared %d placements", cleared)
	return nil
}

// =============================================================================
// Resize
// =============================================================================

// resizeCommand creates the resize command for changing the grid extent.
func (c *CLI) resizeCommand() *cobra.Command {
	var stateName string

	cmd := &cobra.Command{
		Use:   "resize <rows> <cols>",
		Short: "Resize the grid",
		Long: `Resize the grid to a new extent.

Resizing empties the layout: every placed image returns to the unused pool
so nothing is silently dropped by a shrinking grid.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, cols, err := parsePosition(args[0], args[1])
			if err != nil {
				return err
			}
			return c.runResize(rows, cols, stateName)
		},
	}

	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to update")
	return cmd
}

func (c *CLI) runResize(rows, cols int, stateName string) error {
	if err := errors.ValidateGridSize(rows, cols); err != nil {
		return err
	}

	cfg, store, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	returned := len(ws.grid.Used())
	ws.grid.Resize(rows, cols)

	if err := c.saveWorkspace(store, cfg, ws, stateName); err != nil {
		return err
	}
	printSuccess("Resized grid to %dx%d", rows, cols)
	if returned > 0 {
		printDetail("%d placed images returned to the unused pool", returned)
	}
	return nil
}

// =============================================================================
// Shared Helpers
// =============================================================================

// parsePosition parses two integer arguments.
func parsePosition(a, b string) (int, int, error) {
	first, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%q is not a number", a)
	}
	second, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%q is not a number", b)
	}
	return first, second, nil
}

// parseRegion parses a top,left,rows,cols region argument.
func parseRegion(s string) (grid.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return grid.Region{}, errors.New(errors.ErrCodeInvalidRegion,
			"region must be top,left,rows,cols, got %q", s)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return grid.Region{}, errors.New(errors.ErrCodeInvalidRegion,
				"region component %q is not a number", p)
		}
		nums[i] = n
	}
	r := grid.Region{Row: nums[0], Col: nums[1], Rows: nums[2], Cols: nums[3]}
	if r.Empty() {
		return grid.Region{}, errors.New(errors.ErrCodeInvalidRegion, "region %s covers no cells", r)
	}
	return r, nil
}
