package errors

import (
	"strings"
	"unicode"
)

// ValidateStateFilename validates a state file name for safety.
// It ensures the name is a simple basename without path components, so a
// user-supplied name cannot escape the data directory.
func ValidateStateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidState, "state filename cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidState, "state filename cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidState, "state filename cannot be a hidden file")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidState, "state filename contains invalid control characters")
		}
	}

	return nil
}

// ValidateCellSize validates the cell dimensions used for composition.
// Both dimensions must be positive; an upper bound guards against canvases
// that cannot be allocated.
func ValidateCellSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidDimensions, "cell size must be positive, got %dx%d", width, height)
	}

	const maxCellSize = 16384
	if width > maxCellSize || height > maxCellSize {
		return New(ErrCodeInvalidDimensions, "cell size too large (max %d), got %dx%d", maxCellSize, width, height)
	}

	return nil
}

// ValidateGridSize validates grid dimensions.
func ValidateGridSize(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return New(ErrCodeInvalidDimensions, "grid size must be positive, got %dx%d", rows, cols)
	}

	const maxGridDim = 1000
	if rows > maxGridDim || cols > maxGridDim {
		return New(ErrCodeInvalidDimensions, "grid size too large (max %d), got %dx%d", maxGridDim, rows, cols)
	}

	return nil
}

// exportExtensions is the set of raster formats the exporter can write.
var exportExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ValidateExportPath validates an export output path, requiring a supported
// raster extension so the format can be selected from it.
func ValidateExportPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	dot := strings.LastIndex(path, ".")
	if dot < 0 {
		return New(ErrCodeInvalidFormat, "output path %q has no extension", path)
	}
	if !exportExtensions[strings.ToLower(path[dot:])] {
		return New(ErrCodeInvalidFormat, "unsupported output format %q (use png, jpg, bmp, or tiff)", path[dot:])
	}

	return nil
}
