package e2e

import (
	"bytes"
	"image/png"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/hyperjump/yomitori/internal/raster"
)

func TestTinyPNG_Decodes(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(TinyPNG()))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 8 {
		t.Errorf("bounds = %v, want 8x8", bounds)
	}
}

func TestMinimalPDF_PageCounts(t *testing.T) {
	for _, pages := range []int{0, 1, 3} {
		got, err := raster.PageCount(MinimalPDF(pages))
		if err != nil {
			t.Fatalf("PageCount(%d pages) error = %v", pages, err)
		}
		if got != pages {
			t.Errorf("PageCount(%d pages) = %d", pages, got)
		}
	}
}

func TestMultipartUpload_RoundTrip(t *testing.T) {
	content := []byte("upload payload")
	body, contentType, err := MultipartUpload("file", "scan.png", content)
	if err != nil {
		t.Fatalf("MultipartUpload: %v", err)
	}

	req := httptest.NewRequest("POST", "/extract-text", body)
	req.Header.Set("Content-Type", contentType)
	f, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	defer f.Close()
	if header.Filename != "scan.png" {
		t.Errorf("filename = %q, want %q", header.Filename, "scan.png")
	}
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read part: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("part content = %q, want %q", got, content)
	}
}
