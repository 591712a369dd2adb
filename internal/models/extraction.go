// Package models defines the data structures for uploads and extraction
// results.
package models

// Upload is one uploaded file held in memory for the duration of a request.
type Upload struct {
	Filename string
	Content  []byte
}

// Size returns the upload's content length in bytes.
func (u Upload) Size() int {
	return len(u.Content)
}

// ExtractionResult is the success response for an extraction request. Text
// holds the recognized text, trimmed of surrounding whitespace.
type ExtractionResult struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// ErrorResponse carries the detail message for a failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
