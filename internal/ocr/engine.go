package ocr

import "context"

// Engine recognizes text in a single encoded image (PNG, JPEG, BMP, TIFF).
// The language model is fixed when the engine is constructed and never varies
// per call.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}
