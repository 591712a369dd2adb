// Package raster converts PDF documents into per-page raster images.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ledongthuc/pdf"
)

// DefaultDPI is the rendering resolution applied when none is configured.
const DefaultDPI = 200

// Rasterizer renders a PDF into one encoded image per page, in page order.
// A document with zero pages yields an empty slice and no error.
type Rasterizer interface {
	Rasterize(ctx context.Context, content []byte) ([][]byte, error)
}

// PdftoppmRasterizer renders PDF pages to PNG with the Poppler pdftoppm
// binary.
type PdftoppmRasterizer struct {
	binary string
	dpi    int
	runner Runner
}

// PdftoppmOption configures a PdftoppmRasterizer.
type PdftoppmOption func(*PdftoppmRasterizer)

// WithBinary overrides the pdftoppm binary name or path.
func WithBinary(name string) PdftoppmOption {
	return func(r *PdftoppmRasterizer) {
		if name != "" {
			r.binary = name
		}
	}
}

// WithDPI sets the rendering resolution.
func WithDPI(dpi int) PdftoppmOption {
	return func(r *PdftoppmRasterizer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithRunner replaces the subprocess runner. Tests use this to avoid
// spawning Poppler.
func WithRunner(runner Runner) PdftoppmOption {
	return func(r *PdftoppmRasterizer) {
		if runner != nil {
			r.runner = runner
		}
	}
}

// NewPdftoppmRasterizer constructs a rasterizer with defaults applied.
func NewPdftoppmRasterizer(opts ...PdftoppmOption) *PdftoppmRasterizer {
	r := &PdftoppmRasterizer{
		binary: "pdftoppm",
		dpi:    DefaultDPI,
		runner: execRunner{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rasterize renders one PNG per page. The document is parsed first to learn
// the page count, so an empty document returns before any subprocess is
// spawned.
func (r *PdftoppmRasterizer) Rasterize(ctx context.Context, content []byte) ([][]byte, error) {
	pages, err := PageCount(content)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, nil
	}

	tmpDir, err := os.MkdirTemp("", "yomitori-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, content, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp>/page
	if _, errb, err := r.runner.Run(ctx, r.binary, "-r", strconv.Itoa(r.dpi), "-png", pdfPath, prefix); err != nil {
		if msg := bytes.TrimSpace(errb); len(msg) > 0 {
			return nil, fmt.Errorf("pdftoppm: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}

	// pdftoppm zero-pads page numbers (page-01.png, page-02.png, ...) so a
	// lexical sort restores page order.
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("collect page images: %w", err)
	}
	sort.Strings(matches)
	if len(matches) != pages {
		return nil, fmt.Errorf("rendered %d of %d pages", len(matches), pages)
	}

	images := make([][]byte, 0, len(matches))
	for _, m := range matches {
		img, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("read page image: %w", err)
		}
		images = append(images, img)
	}
	return images, nil
}

// PageCount parses the document and returns its page count without rendering
// anything. The parser panics on some malformed files, so the panic is
// recovered into an error.
func PageCount(content []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return reader.NumPage(), nil
}
