package grid

import (
	"fmt"
	"path/filepath"

	"github.com/tilecraft/tilecraft/pkg/geometry"
)

// Orientation classifies an image as a landscape (16:9) or portrait (9:16)
// tile. The string values double as the wire format used in state files.
type Orientation string

const (
	// Landscape is a 16:9 tile occupying a single grid cell.
	Landscape Orientation = "horizontal"
	// Portrait is a 9:16 tile occupying geometry.PortraitSpan vertically
	// stacked cells in one column.
	Portrait Orientation = "vertical"
)

// Span returns the number of vertically stacked cells a tile of this
// orientation occupies.
func (o Orientation) Span() int {
	if o == Portrait {
		return geometry.PortraitSpan
	}
	return 1
}

// Valid reports whether o is one of the two known orientations.
func (o Orientation) Valid() bool {
	return o == Landscape || o == Portrait
}

// Classify determines the orientation of an image from its pixel dimensions.
// The aspect ratio must fall within geometry.RatioTolerance of 16:9 or 9:16;
// anything else is rejected (ok = false) and never enters the pools.
func Classify(width, height int) (Orientation, bool) {
	if width <= 0 || height <= 0 {
		return "", false
	}
	ratio := float64(width) / float64(height)
	if diff := ratio - geometry.LandscapeRatio; diff > -geometry.RatioTolerance && diff < geometry.RatioTolerance {
		return Landscape, true
	}
	if diff := ratio - 1/geometry.LandscapeRatio; diff > -geometry.RatioTolerance && diff < geometry.RatioTolerance {
		return Portrait, true
	}
	return "", false
}

// Asset is an immutable record of a source photograph. The path is its
// identity: pools and cells share the same *Asset, never copies, and two
// assets with the same path are considered the same image.
type Asset struct {
	Path        string
	Orientation Orientation
	Width       int
	Height      int
}

// NewAsset classifies the image at path from its dimensions and returns the
// asset, or ok = false if the aspect ratio fits neither tile shape.
func NewAsset(path string, width, height int) (*Asset, bool) {
	o, ok := Classify(width, height)
	if !ok {
		return nil, false
	}
	return &Asset{Path: path, Orientation: o, Width: width, Height: height}, true
}

// String renders the asset as "name (orientation)" for logs and listings.
func (a *Asset) String() string {
	return fmt.Sprintf("%s (%s)", filepath.Base(a.Path), a.Orientation)
}
