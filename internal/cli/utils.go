// Package cli provides CLI utilities for yomitori.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/yomitori/internal/models"
)

// ExtractionOutputFormat is the format for extraction result output.
type ExtractionOutputFormat string

const (
	// OutputText is the bare recognized text (default), suitable for piping.
	OutputText ExtractionOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON ExtractionOutputFormat = "json"
)

// WriteExtractionResult writes the result to w in the given format. Use
// OutputJSON for parseable output consumable by other apps.
func WriteExtractionResult(w io.Writer, result *models.ExtractionResult, format ExtractionOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		if result.Text != "" {
			fmt.Fprintln(w, result.Text)
		}
		return nil
	}
}

// PrintExtractionResult prints the result to stdout in text format.
func PrintExtractionResult(result *models.ExtractionResult) {
	_ = WriteExtractionResult(os.Stdout, result, OutputText)
}
