// Package ocr provides optical character recognition for encoded images.
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages is the language model applied when none is configured:
// Korean and English recognized together in one pass.
var DefaultLanguages = []string{"kor", "eng"}

// TesseractEngine implements Engine using the gosseract client.
type TesseractEngine struct {
	languages      []string
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
}

// TesseractOption configures a TesseractEngine.
type TesseractOption func(*TesseractEngine)

// WithTessdataPrefix points the engine at a non-default tessdata directory.
func WithTessdataPrefix(dir string) TesseractOption {
	return func(e *TesseractEngine) {
		e.tessdataPrefix = dir
	}
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine recognizing the
// given languages together. An empty list falls back to DefaultLanguages.
func NewTesseractEngine(languages []string, opts ...TesseractOption) *TesseractEngine {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	e := &TesseractEngine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Languages returns the language codes the engine recognizes.
func (e *TesseractEngine) Languages() []string {
	return append([]string(nil), e.languages...)
}

// Recognize performs OCR on a single encoded image. A fresh client is created
// per call so concurrent requests never share Tesseract state. The recognized
// text is returned exactly as Tesseract produced it, untrimmed.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	c := e.clientFactory()
	defer c.Close()
	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
