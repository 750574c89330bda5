// Package scan discovers grid-ready images in a directory.
//
// Scanning reads only image headers, never full pixel data, so probing a
// directory of large photos stays cheap. Files whose aspect ratio is neither
// near 16:9 nor near 9:16 are skipped: they cannot be placed on the grid.
package scan

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register the decoders the scanner can probe.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/charmbracelet/log"

	"github.com/tilecraft/tilecraft/pkg/errors"
	"github.com/tilecraft/tilecraft/pkg/grid"
)

// DefaultExtensions lists the file extensions considered image candidates.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".tif"}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExtensions replaces the candidate extension list. Extensions are
// matched case-insensitively and must include the leading dot.
func WithExtensions(exts []string) Option {
	return func(s *Scanner) {
		s.exts = make(map[string]bool, len(exts))
		for _, e := range exts {
			s.exts[strings.ToLower(e)] = true
		}
	}
}

// WithLogger sets the logger used for per-file skip diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// Scanner probes a single directory for placeable images.
type Scanner struct {
	exts   map[string]bool
	logger *log.Logger
}

// New builds a Scanner with the default extension list.
func New(opts ...Option) *Scanner {
	s := &Scanner{logger: log.Default()}
	WithExtensions(DefaultExtensions)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result summarizes one directory scan.
type Result struct {
	// Assets holds the classified images in directory order.
	Assets []*grid.Asset
	// Skipped counts candidate files that could not be used: unreadable,
	// undecodable, or with an aspect ratio the grid cannot hold.
	Skipped int
}

// Scan probes dir, non-recursively, and returns every image that classifies
// as landscape or portrait. Files that fail to decode or do not fit either
// orientation are counted as skipped, not treated as errors. The context is
// checked between files so a scan over a slow filesystem can be cancelled.
func (s *Scanner) Scan(ctx context.Context, dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading image directory %s", dir)
	}

	res := &Result{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !s.exts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		w, h, err := probe(path)
		if err != nil {
			s.logger.Debug("skipping unreadable image", "path", path, "error", err)
			res.Skipped++
			continue
		}

		asset, ok := grid.NewAsset(path, w, h)
		if !ok {
			s.logger.Debug("skipping image with unsupported aspect ratio", "path", path, "width", w, "height", h)
			res.Skipped++
			continue
		}
		res.Assets = append(res.Assets, asset)
	}
	return res, nil
}

// Probe classifies a single image file into a grid asset. Unlike Scan it
// treats an unusable file as an error, since the caller named it explicitly.
func Probe(path string) (*grid.Asset, error) {
	w, h, err := probe(path)
	if err != nil {
		return nil, err
	}
	asset, ok := grid.NewAsset(path, w, h)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s is %dx%d, which is neither 16:9 nor 9:16", filepath.Base(path), w, h)
	}
	return asset, nil
}

// probe reads just enough of the file to learn its pixel dimensions.
func probe(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeDecode, err, "decoding %s", filepath.Base(path))
	}
	return cfg.Width, cfg.Height, nil
}
