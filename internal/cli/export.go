package cli

import (
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/tilecraft/tilecraft/pkg/compose"
	"github.com/tilecraft/tilecraft/pkg/errors"
)

// =============================================================================
// Preview
// =============================================================================

// previewCommand creates the preview command for a quick on-screen render.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		stateName   string
		output      string
		showIndices bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a small preview of the grid",
		Long: `Render a small preview of the grid.

The preview uses the configured preview cell size, draws separator lines in
the spacing gaps, and can overlay each tile with its placement number for
cross-referencing against 'state info'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), output, stateName, showIndices)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output image file")
	cmd.Flags().BoolVar(&showIndices, "indices", false, "overlay cell coordinates on tiles")
	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to render")
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, output, stateName string, showIndices bool) error {
	if err := errors.ValidateExportPath(output); err != nil {
		return err
	}

	cfg, _, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	comp := compose.New(
		compose.WithCellSize(cfg.Preview.CellWidth, cfg.Preview.CellHeight),
		compose.WithGridLines(true),
		compose.WithIndices(showIndices),
	)
	img, err := comp.Compose(ctx, ws.grid)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, output); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "saving preview to %s", output)
	}

	printSuccess("Preview rendered")
	printFile(output)
	printGridStats(ws.grid.Rows(), ws.grid.Cols(), len(ws.grid.Used()), len(ws.grid.Unused()))
	return nil
}

// =============================================================================
// Export
// =============================================================================

// exportCommand creates the export command for print-quality output.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		stateName  string
		cellWidth  int
		cellHeight int
	)

	cmd := &cobra.Command{
		Use:   "export <output>",
		Short: "Compose the grid into a print-quality image",
		Long: `Compose the grid into a print-quality image.

The output format follows the file extension (png, jpg, bmp, or tiff). The
canvas is cropped to the bounding box of placed images; cell size defaults
to the configured export dimensions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], stateName, cellWidth, cellHeight)
		},
	}

	cmd.Flags().IntVar(&cellWidth, "cell-width", 0, "override export cell width")
	cmd.Flags().IntVar(&cellHeight, "cell-height", 0, "override export cell height")
	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to render")
	return cmd
}

func (c *CLI) runExport(ctx context.Context, output, stateName string, cellWidth, cellHeight int) error {
	cfg, _, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	if cellWidth <= 0 {
		cellWidth = cfg.Export.CellWidth
	}
	if cellHeight <= 0 {
		cellHeight = cfg.Export.CellHeight
	}

	tracker := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %d images...", len(ws.grid.Used())))
	spinner.Start()

	err = compose.Export(ctx, ws.grid, output, compose.WithCellSize(cellWidth, cellHeight))
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	tracker.done(fmt.Sprintf("Composed %d images", len(ws.grid.Used())))

	printSuccess("Export complete")
	printFile(output)
	printGridStats(ws.grid.Rows(), ws.grid.Cols(), len(ws.grid.Used()), len(ws.grid.Unused()))
	return nil
}
