package dataset

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "go-ocr-benchmark/internal/errors"
)

func makeDataset(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte("img.jpg\t[{\"transcription\": \"A\"}]\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestDiscoverFindsNestedDatasets(t *testing.T) {
	root := t.TempDir()
	makeDataset(t, root, "set_a")
	makeDataset(t, root, "set_b")

	// directory without a manifest is not a dataset
	if err := os.MkdirAll(filepath.Join(root, "not_a_set"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	dirs, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("got %d datasets, want 2", len(dirs))
	}
	for _, d := range dirs {
		if d.ManifestPath != filepath.Join(d.Path, ManifestName) {
			t.Errorf("unexpected manifest path %q", d.ManifestPath)
		}
	}
}

func TestDiscoverRootLevelManifest(t *testing.T) {
	root := t.TempDir()
	makeDataset(t, root, ".")

	dirs, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(dirs) != 1 || dirs[0].Path != root {
		t.Errorf("expected the root itself as the dataset, got %+v", dirs)
	}
}

func TestDiscoverEmptyRootIsFatal(t *testing.T) {
	_, err := Discover(t.TempDir())
	if err == nil {
		t.Fatal("expected error for root without datasets")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeFatalIO) {
		t.Errorf("expected fatal IO error, got %v", err)
	}
}

func TestDiscoverMissingRootIsFatal(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeFatalIO) {
		t.Errorf("expected fatal IO error, got %v", err)
	}
}

func TestResolveImagePath(t *testing.T) {
	dir := Directory{Name: "set", Path: filepath.Join("data", "set")}

	got := ResolveImagePath(dir, "sub/img.jpg")
	want := filepath.Join("data", "set", "sub", "img.jpg")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	abs := string(filepath.Separator) + filepath.Join("abs", "img.jpg")
	if got := ResolveImagePath(dir, abs); got != abs {
		t.Errorf("absolute path should pass through, got %q", got)
	}
}

func TestResolveImagePathKeepsURLSchemes(t *testing.T) {
	dir := Directory{Name: "set", Path: filepath.Join("data", "set")}

	urls := []string{
		"http://cdn.example.com/img1.jpg",
		"https://cdn.example.com/img1.jpg",
		"azblob://images/set/img1.jpg",
	}
	for _, url := range urls {
		if got := ResolveImagePath(dir, url); got != url {
			t.Errorf("URL %q should pass through unchanged, got %q", url, got)
		}
	}
}
