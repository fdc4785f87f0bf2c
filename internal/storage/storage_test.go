package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestLocalFetcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(path, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := NewLocalFetcher().Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("got %q", data)
	}

	if _, err := NewLocalFetcher().Fetch(context.Background(), filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHTTPFetcherSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-data"))
	}))
	defer server.Close()

	data, err := NewHTTPFetcher().Fetch(context.Background(), server.URL+"/img.jpg")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(data) != "image-data" {
		t.Errorf("got %q", data)
	}
}

func TestHTTPFetcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	data, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(data) != "ok" || calls.Load() != 2 {
		t.Errorf("got %q after %d calls", data, calls.Load())
	}
}

func TestHTTPFetcherDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := NewHTTPFetcher().Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("404 should not be retried, got %d calls", calls.Load())
	}
}

func TestRouterDispatch(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(localPath, []byte("local"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote"))
	}))
	defer server.Close()

	router := NewRouter(NewLocalFetcher(), NewHTTPFetcher(), nil)

	data, err := router.Fetch(context.Background(), localPath)
	if err != nil || string(data) != "local" {
		t.Errorf("local dispatch failed: %q %v", data, err)
	}

	data, err = router.Fetch(context.Background(), server.URL)
	if err != nil || string(data) != "remote" {
		t.Errorf("http dispatch failed: %q %v", data, err)
	}

	if _, err := router.Fetch(context.Background(), "azblob://container/blob.jpg"); err != ErrNoBlobStorage {
		t.Errorf("expected ErrNoBlobStorage, got %v", err)
	}
}

func TestParseBlobPath(t *testing.T) {
	tests := []struct {
		path          string
		wantContainer string
		wantBlob      string
		wantErr       bool
	}{
		{"azblob://images/set_a/img.jpg", "images", "set_a/img.jpg", false},
		{"azblob://images", "", "", true},
		{"https://images/blob.jpg", "", "", true},
	}
	for _, tt := range tests {
		container, blob, err := parseBlobPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBlobPath(%q) error = %v", tt.path, err)
			continue
		}
		if container != tt.wantContainer || blob != tt.wantBlob {
			t.Errorf("parseBlobPath(%q) = %q/%q", tt.path, container, blob)
		}
	}
}
