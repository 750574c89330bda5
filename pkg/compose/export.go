package compose

import (
	"context"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/geometry"
	"github.com/tilecraft/tilecraft/pkg/grid"
)

// Export composes g at print quality and writes the result to path, with the
// format chosen by the file extension. Export renders on a plain white
// background without grid lines, and the spacing floor is one pixel so the
// portrait-strip proportion survives even at tiny cell sizes.
func Export(ctx context.Context, g *grid.Grid, path string, opts ...Option) error {
	if err := errors.ValidateExportPath(path); err != nil {
		return err
	}

	c := New(append([]Option{
		WithCellSize(480, 270),
		WithBackground(color.White),
	}, opts...)...)
	if c.spacing < 0 {
		c.spacing = geometry.ExportSpacing(c.cellHeight)
	}

	img, err := c.Compose(ctx, g)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "saving composite to %s", path)
	}
	return nil
}
