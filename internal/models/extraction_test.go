package models

import (
	"encoding/json"
	"testing"
)

func TestExtractionResult_wireFormat(t *testing.T) {
	data, err := json.Marshal(ExtractionResult{Filename: "scan.png", Text: "hello"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"filename":"scan.png","text":"hello"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestErrorResponse_wireFormat(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Detail: "Unsupported file format"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"detail":"Unsupported file format"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestUpload_size(t *testing.T) {
	u := Upload{Filename: "a.png", Content: []byte("12345")}
	if u.Size() != 5 {
		t.Errorf("Size() = %d", u.Size())
	}
}
