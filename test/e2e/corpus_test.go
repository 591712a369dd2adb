package e2e

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildExtractionCases_CoversEverySupportedExtension(t *testing.T) {
	cases := BuildExtractionCases()
	covered := make(map[string]bool)
	for _, c := range cases {
		if c.WantStatus == http.StatusOK {
			covered[strings.ToLower(filepath.Ext(c.Filename))] = true
		}
	}
	for _, ext := range SupportedImageExtensions {
		if !covered[ext] {
			t.Errorf("no passing case uploads a %s file", ext)
		}
	}
	if !covered[".pdf"] {
		t.Error("no passing case uploads a .pdf file")
	}
}

func TestBuildExtractionCases_NamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range BuildExtractionCases() {
		if c.Name == "" {
			t.Error("case with empty name")
		}
		if seen[c.Name] {
			t.Errorf("duplicate case name %q", c.Name)
		}
		seen[c.Name] = true
	}
}

func TestBuildExtractionCases_Shape(t *testing.T) {
	for _, c := range BuildExtractionCases() {
		if c.Filename == "" {
			t.Errorf("case %q: empty filename", c.Name)
		}
		isPDF := strings.EqualFold(filepath.Ext(c.Filename), ".pdf")
		if isPDF && c.WantStatus == http.StatusOK && c.Pages == nil {
			t.Errorf("case %q: PDF case without page table", c.Name)
		}
		if !isPDF && c.Pages != nil {
			t.Errorf("case %q: page table on non-PDF upload", c.Name)
		}
		switch c.WantStatus {
		case http.StatusOK:
			if c.WantDetail != "" {
				t.Errorf("case %q: detail set on success case", c.Name)
			}
		default:
			if c.WantDetail == "" {
				t.Errorf("case %q: error case without expected detail", c.Name)
			}
		}
	}
}
