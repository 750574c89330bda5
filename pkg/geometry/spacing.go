// Package geometry derives the pixel spacing that keeps portrait tiles at a
// true 9:16 aspect ratio.
//
// A landscape cell is 16:9, so its height is 9/16 of its width. A portrait
// tile spans three vertically stacked cells plus the two gaps between them,
// and its own 9:16 shape requires
//
//	3*cellHeight + 2*spacing = cellWidth * 16/9 = cellHeight * 256/81
//
// which solves to spacing = cellHeight * (256/81 - 3) / 2. The 256/81
// factor is (16/9)^2: width-to-height squared, because the portrait strip
// is as much taller than the cell as the cell is wider than tall.
package geometry

const (
	// PortraitSpan is the number of vertically stacked cells a portrait
	// tile occupies.
	PortraitSpan = 3

	// LandscapeRatio is the width/height ratio of a landscape cell.
	LandscapeRatio = 16.0 / 9.0

	// RatioTolerance is how far an image's aspect ratio may deviate from
	// 16:9 or 9:16 and still classify.
	RatioTolerance = 0.1
)

// Spacing returns the inter-cell gap in pixels that makes a three-cell
// portrait strip exactly 9:16 for the given cell height. The result is
// never negative; integer division may round the ideal value down by a
// fraction of a pixel.
func Spacing(cellHeight int) int {
	portrait := cellHeight * 256 / 81
	s := (portrait - PortraitSpan*cellHeight) / 2
	if s < 0 {
		return 0
	}
	return s
}

// ExportSpacing is Spacing with a one-pixel floor, so exported composites
// always separate adjacent tiles even at tiny cell sizes.
func ExportSpacing(cellHeight int) int {
	if s := Spacing(cellHeight); s > 1 {
		return s
	}
	return 1
}

// PortraitHeight returns the pixel height of a portrait tile: three cells
// plus the two gaps between them.
func PortraitHeight(cellHeight, spacing int) int {
	return PortraitSpan*cellHeight + (PortraitSpan-1)*spacing
}
