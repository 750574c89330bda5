package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tilecraft/tilecraft/pkg/scan"
)

// scanCommand creates the scan command for discovering images.
func (c *CLI) scanCommand() *cobra.Command {
	var stateName string

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Discover grid-ready images in a directory",
		Long: `Discover grid-ready images in a directory.

Scan reads image headers (never full pixel data) from every file with a
recognized extension, classifies each as landscape (16:9) or portrait
(9:16), and adds the usable ones to the state's unused pool. Images whose
aspect ratio fits neither shape are skipped.

The directory becomes the state's image directory, so saved layouts store
paths relative to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), args[0], stateName)
		},
	}

	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to update")
	return cmd
}

func (c *CLI) runScan(ctx context.Context, dir, stateName string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.newStore(cfg)
	if err != nil {
		return err
	}
	ws, err := c.loadWorkspace(store, cfg, stateName)
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve directory %s: %w", dir, err)
	}

	tracker := newProgress(c.Logger)
	scanner := scan.New(scan.WithExtensions(cfg.Scan.Extensions), scan.WithLogger(c.Logger))
	res, err := scanner.Scan(ctx, absDir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	added := 0
	for _, a := range res.Assets {
		if ws.grid.AddUnused(a) {
			added++
		}
	}
	ws.imageDir = absDir

	if err := c.saveWorkspace(store, cfg, ws, stateName); err != nil {
		return err
	}
	tracker.done(fmt.Sprintf("Scanned %d images", len(res.Assets)))

	printSuccess("Found %d images, %d new", len(res.Assets), added)
	if res.Skipped > 0 {
		printWarning("Skipped %d files (unreadable or wrong aspect ratio)", res.Skipped)
	}
	printGridStats(ws.grid.Rows(), ws.grid.Cols(), len(ws.grid.Used()), len(ws.grid.Unused()))
	printNewline()
	printNextStep("Place an image", appName+" place <row> <col> <image>")

	return nil
}

// forgetCommand creates the forget command for dropping an image from the
// pools entirely.
func (c *CLI) forgetCommand() *cobra.Command {
	var stateName string

	cmd := &cobra.Command{
		Use:   "forget <image>",
		Short: "Drop an image from the pools",
		Long: `Drop an image from the pools.

Unlike remove, which returns a placed image to the unused pool, forget
erases the image from the state entirely, clearing its placement if it has
one. The file on disk is untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runForget(args[0], stateName)
		},
	}

	cmd.Flags().StringVarP(&stateName, "state", "s", defaultStateName, "state document to update")
	return cmd
}

func (c *CLI) runForget(image, stateName string) error {
	cfg, store, ws, err := c.openWorkspace(stateName)
	if err != nil {
		return err
	}

	asset, err := c.resolveAsset(ws, image)
	if err != nil {
		return err
	}
	ws.grid.Forget(asset.Path)

	if err := c.saveWorkspace(store, cfg, ws, stateName); err != nil {
		return err
	}
	printSuccess("Forgot %s", asset)
	return nil
}
