// Package e2e provides end-to-end tests driving the HTTP API with a table of upload cases.
package e2e

import "net/http"

// ExtractionCase defines one upload against POST /extract-text and the exact
// response it must produce. Content doubles as the recognized text: the e2e
// engine echoes the bytes it is given, so WantText can be asserted verbatim.
// Pages is non-nil for PDF uploads and lists the page texts the rasterizer
// yields for this document.
type ExtractionCase struct {
	Name       string
	Filename   string
	Content    []byte
	Pages      []string
	WantStatus int
	WantText   string
	WantDetail string
}

// BuildExtractionCases returns upload cases covering every supported image
// extension (both letter cases), the PDF page pipeline, and rejected formats.
func BuildExtractionCases() []ExtractionCase {
	return []ExtractionCase{
		{
			Name:       "png lowercase",
			Filename:   "scan.png",
			Content:    []byte("receipt total 4200 yen"),
			WantStatus: http.StatusOK,
			WantText:   "receipt total 4200 yen",
		},
		{
			Name:       "jpg",
			Filename:   "photo.jpg",
			Content:    []byte("storefront sign"),
			WantStatus: http.StatusOK,
			WantText:   "storefront sign",
		},
		{
			Name:       "jpeg long form",
			Filename:   "photo.jpeg",
			Content:    []byte("menu board"),
			WantStatus: http.StatusOK,
			WantText:   "menu board",
		},
		{
			Name:       "bmp",
			Filename:   "fax.bmp",
			Content:    []byte("fax cover sheet"),
			WantStatus: http.StatusOK,
			WantText:   "fax cover sheet",
		},
		{
			Name:       "tiff long form",
			Filename:   "archive.tiff",
			Content:    []byte("archived contract"),
			WantStatus: http.StatusOK,
			WantText:   "archived contract",
		},
		{
			Name:       "uppercase extension",
			Filename:   "SCAN.PNG",
			Content:    []byte("shouted filename"),
			WantStatus: http.StatusOK,
			WantText:   "shouted filename",
		},
		{
			Name:       "mixed case extension",
			Filename:   "Photo.JpG",
			Content:    []byte("mixed case"),
			WantStatus: http.StatusOK,
			WantText:   "mixed case",
		},
		{
			Name:       "surrounding whitespace trimmed",
			Filename:   "padded.png",
			Content:    []byte("  spaced out \n"),
			WantStatus: http.StatusOK,
			WantText:   "spaced out",
		},
		{
			Name:       "pdf two pages",
			Filename:   "report.pdf",
			Content:    []byte("pdf:two-pages"),
			Pages:      []string{"First page body\n", "Second page body\n"},
			WantStatus: http.StatusOK,
			WantText:   "--- Page 1 ---\nFirst page body\n\n--- Page 2 ---\nSecond page body",
		},
		{
			Name:       "pdf single page",
			Filename:   "memo.pdf",
			Content:    []byte("pdf:one-page"),
			Pages:      []string{"Only page body\n"},
			WantStatus: http.StatusOK,
			WantText:   "--- Page 1 ---\nOnly page body",
		},
		{
			Name:       "pdf zero pages",
			Filename:   "empty.pdf",
			Content:    []byte("pdf:zero-pages"),
			Pages:      []string{},
			WantStatus: http.StatusOK,
			WantText:   "",
		},
		{
			Name:       "tif short form rejected",
			Filename:   "scan.tif",
			Content:    []byte("looks like a tiff"),
			WantStatus: http.StatusBadRequest,
			WantDetail: "Unsupported file format",
		},
		{
			Name:       "plain text rejected",
			Filename:   "notes.txt",
			Content:    []byte("already text"),
			WantStatus: http.StatusBadRequest,
			WantDetail: "Unsupported file format",
		},
		{
			Name:       "word document rejected",
			Filename:   "letter.docx",
			Content:    []byte("office payload"),
			WantStatus: http.StatusBadRequest,
			WantDetail: "Unsupported file format",
		},
		{
			Name:       "no extension rejected",
			Filename:   "README",
			Content:    []byte("no suffix at all"),
			WantStatus: http.StatusBadRequest,
			WantDetail: "Unsupported file format",
		},
		{
			Name:       "trailing dot rejected",
			Filename:   "scan.",
			Content:    []byte("empty suffix"),
			WantStatus: http.StatusBadRequest,
			WantDetail: "Unsupported file format",
		},
	}
}
