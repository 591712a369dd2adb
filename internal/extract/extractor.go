// Package extract turns uploaded image and PDF files into text via OCR.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/yomitori/internal/ocr"
	"github.com/hyperjump/yomitori/internal/raster"
)

// ErrUnsupportedFormat reports an upload whose filename suffix is neither a
// recognized image type nor .pdf. Content is never inspected for these.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// imageExts are the suffixes routed to single-image OCR. Only the full .tiff
// spelling is recognized, not .tif.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
}

// Kind classifies an upload by its filename suffix.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindPDF
)

// KindOf returns the dispatch kind for filename. Matching is
// case-insensitive, so PHOTO.PNG and photo.png classify identically.
func KindOf(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExts[ext]:
		return KindImage
	case ext == ".pdf":
		return KindPDF
	default:
		return KindUnsupported
	}
}

// Service extracts text from uploads by dispatching on filename kind.
type Service struct {
	engine     ocr.Engine
	rasterizer raster.Rasterizer
}

// NewService returns a Service backed by the given OCR engine and PDF
// rasterizer.
func NewService(engine ocr.Engine, rasterizer raster.Rasterizer) *Service {
	return &Service{engine: engine, rasterizer: rasterizer}
}

// ExtractUpload returns the text extracted from an uploaded file. Images get
// a single recognition pass; PDFs are rasterized and recognized page by
// page. The combined text is trimmed of surrounding whitespace exactly once,
// leaving interior page delimiters untouched.
func (s *Service) ExtractUpload(ctx context.Context, filename string, content []byte) (string, error) {
	var text string
	switch KindOf(filename) {
	case KindImage:
		t, err := s.engine.Recognize(ctx, content)
		if err != nil {
			return "", err
		}
		text = t
	case KindPDF:
		t, err := s.extractPDF(ctx, content)
		if err != nil {
			return "", err
		}
		text = t
	default:
		return "", ErrUnsupportedFormat
	}
	return strings.TrimSpace(text), nil
}

// ExtractFile reads the file at path and extracts its text. The filename's
// base decides the dispatch, same as an upload.
func (s *Service) ExtractFile(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return s.ExtractUpload(ctx, filepath.Base(path), content)
}
