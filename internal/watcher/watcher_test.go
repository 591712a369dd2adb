package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestWatcher_AddRemoveDirectories(t *testing.T) {
	dir := t.TempDir()
	var extracted, removed []string
	var mu sync.Mutex
	onExtract := func(path string) {
		mu.Lock()
		extracted = append(extracted, path)
		mu.Unlock()
	}
	onRemove := func(path string) {
		mu.Lock()
		removed = append(removed, path)
		mu.Unlock()
	}

	w := NewWatcher(nil, []string{".png"}, true, onExtract, onRemove)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.AddDirectory(dir, false); err != nil {
		t.Fatal(err)
	}
	dirs := w.Directories()
	if len(dirs) != 1 || filepath.Clean(dirs[0]) != filepath.Clean(dir) {
		t.Errorf("Directories() = %v", dirs)
	}

	if err := w.RemoveDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 0 {
		t.Errorf("after remove: %v", w.Directories())
	}
	_ = extracted
	_ = removed
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := mkdirAll(sub); err != nil {
		t.Fatal(err)
	}

	var extracted []string
	var mu sync.Mutex
	onExtract := func(path string) {
		mu.Lock()
		extracted = append(extracted, path)
		mu.Unlock()
	}
	w := NewWatcher([]string{dir}, []string{".png"}, true, onExtract, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Create a .png file
	fPath := filepath.Join(sub, "scan.png")
	if err := writeFile(fPath, "png-bytes"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(600 * time.Millisecond)
	mu.Lock()
	count := len(extracted)
	mu.Unlock()
	if count < 1 {
		t.Errorf("expected at least one extract callback, got %d", count)
	}
}

func TestWatcher_CustomDebounce(t *testing.T) {
	w := NewWatcher(nil, nil, true, nil, nil, WithDebounce(50*time.Millisecond))
	if w.debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v", w.debounce)
	}
	w = NewWatcher(nil, nil, true, nil, nil, WithDebounce(0))
	if w.debounce != defaultDebounce {
		t.Errorf("zero debounce should keep default, got %v", w.debounce)
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.png", []string{".png"}, true},
		{"/a/b.PNG", []string{".png"}, true},
		{"/a/b.tif", []string{".tiff"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.png", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		got := inDir(tt.dir, tt.path)
		if got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestWatcher_SyncExistingFiles_extractsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "a.png"), "png-bytes"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "ignore.xyz"), "x"); err != nil {
		t.Fatal(err)
	}

	var extracted []string
	var mu sync.Mutex
	onExtract := func(path string) {
		mu.Lock()
		extracted = append(extracted, path)
		mu.Unlock()
	}
	w := NewWatcher([]string{dir}, []string{".png"}, true, onExtract, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.SyncExistingFiles()

	mu.Lock()
	defer mu.Unlock()
	if len(extracted) != 1 || !strings.HasSuffix(extracted[0], "a.png") {
		t.Errorf("expected one extracted file a.png, got %v", extracted)
	}
}

func TestWatcher_Start_createsMissingRootDirectory(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "watch", "me")
	// Ensure the root does not exist.
	_ = os.RemoveAll(filepath.Join(base, "watch"))

	w := NewWatcher([]string{root}, []string{".png"}, true, nil, nil)
	// Use Background so we don't cancel; avoid race with run() reading w.watcher after Stop() nils it.
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Don't call Stop() to avoid race where run() reads w.watcher after Stop() nils it; test exit is enough.

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root directory should exist after Start: %v", err)
	}
}

func TestWatcher_HandleNewDirectory_extractsFilesInNewFolder(t *testing.T) {
	dir := t.TempDir()

	var extracted []string
	var mu sync.Mutex
	onExtract := func(path string) {
		mu.Lock()
		extracted = append(extracted, path)
		mu.Unlock()
	}

	w := NewWatcher([]string{dir}, []string{".png", ".pdf"}, true, onExtract, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Simulate copying a folder with files into the watched directory
	newFolder := filepath.Join(dir, "new-folder")
	if err := mkdirAll(newFolder); err != nil {
		t.Fatal(err)
	}

	// Create files inside the new folder
	if err := writeFile(filepath.Join(newFolder, "scan1.png"), "png-bytes"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(newFolder, "report.pdf"), "%PDF"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(newFolder, "ignore.xyz"), "skip"); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce and directory handling
	time.Sleep(800 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	// Should have extracted the matching files (scan1.png and report.pdf)
	if len(extracted) < 2 {
		t.Errorf("expected at least 2 extracted files, got %d: %v", len(extracted), extracted)
	}

	// Verify the correct files were picked up
	pngFound, pdfFound := false, false
	for _, p := range extracted {
		if strings.HasSuffix(p, "scan1.png") {
			pngFound = true
		}
		if strings.HasSuffix(p, "report.pdf") {
			pdfFound = true
		}
		if strings.HasSuffix(p, "ignore.xyz") {
			t.Errorf("ignore.xyz should not be extracted")
		}
	}
	if !pngFound || !pdfFound {
		t.Errorf("expected scan1.png and report.pdf to be extracted, got %v", extracted)
	}
}

func TestWatcher_HandleNewDirectory_recursiveSubfolders(t *testing.T) {
	dir := t.TempDir()

	var extracted []string
	var mu sync.Mutex
	onExtract := func(path string) {
		mu.Lock()
		extracted = append(extracted, path)
		mu.Unlock()
	}

	w := NewWatcher([]string{dir}, []string{".png"}, true, onExtract, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Create a nested folder structure
	nested := filepath.Join(dir, "level1", "level2")
	if err := mkdirAll(nested); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(nested, "deep.png"), "deep content"); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce and directory handling
	time.Sleep(800 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	// Should have extracted the deep file
	found := false
	for _, p := range extracted {
		if strings.HasSuffix(p, "deep.png") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected deep.png to be extracted, got %v", extracted)
	}
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
