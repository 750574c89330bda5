package compose

import (
	"image"

	"github.com/disintegration/imaging"
)

// Loader opens an asset image by path. The default loader reads from disk;
// tests substitute an in-memory implementation.
type Loader func(path string) (image.Image, error)

// DiskLoader opens images from the filesystem, honoring EXIF orientation.
func DiskLoader(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}
