package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNoBlobStorage is returned for azblob paths when blob storage is not
// configured.
var ErrNoBlobStorage = errors.New("blob storage not configured")

// LocalFetcher reads images from the local filesystem.
type LocalFetcher struct{}

// NewLocalFetcher creates a filesystem-backed image fetcher.
func NewLocalFetcher() *LocalFetcher {
	return &LocalFetcher{}
}

func (f *LocalFetcher) Fetch(ctx context.Context, imagePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", imagePath, err)
	}
	return data, nil
}
