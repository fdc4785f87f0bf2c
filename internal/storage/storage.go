package storage

import (
	"context"
	"strings"
)

// Fetcher resolves an image path or URL to its raw bytes. Implementations
// cover the local filesystem, HTTP endpoints and Azure blob storage.
type Fetcher interface {
	Fetch(ctx context.Context, imagePath string) ([]byte, error)
}

// Router dispatches fetches by path scheme: http(s) URLs go to the HTTP
// fetcher, azblob URLs to blob storage, everything else to the local one.
type Router struct {
	local Fetcher
	http  Fetcher
	azure Fetcher
}

// NewRouter builds a scheme router. The azure fetcher may be nil when no
// blob credentials are configured.
func NewRouter(local, http, azure Fetcher) *Router {
	return &Router{local: local, http: http, azure: azure}
}

func (r *Router) Fetch(ctx context.Context, imagePath string) ([]byte, error) {
	switch {
	case strings.HasPrefix(imagePath, "http://"), strings.HasPrefix(imagePath, "https://"):
		return r.http.Fetch(ctx, imagePath)
	case strings.HasPrefix(imagePath, "azblob://"):
		if r.azure == nil {
			return nil, ErrNoBlobStorage
		}
		return r.azure.Fetch(ctx, imagePath)
	default:
		return r.local.Fetch(ctx, imagePath)
	}
}
