package extract

import (
	"context"
	"fmt"
	"strings"
)

// extractPDF rasterizes the document and recognizes each page strictly in
// order. Every page contributes a labeled block with a 1-based index; a
// failure on any page abandons the whole document. A zero-page document
// yields an empty string.
func (s *Service) extractPDF(ctx context.Context, content []byte) (string, error) {
	images, err := s.rasterizer.Rasterize(ctx, content)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, img := range images {
		pageText, err := s.engine.Recognize(ctx, img)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		fmt.Fprintf(&b, "--- Page %d ---\n%s\n", i+1, pageText)
	}
	return b.String(), nil
}
