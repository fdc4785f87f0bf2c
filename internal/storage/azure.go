package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureFetcher reads images from Azure blob storage. Paths use the form
// azblob://container/blob/name.jpg.
type AzureFetcher struct {
	client *azblob.Client
}

// NewAzureFetcher creates a blob-backed image fetcher from shared-key
// credentials.
func NewAzureFetcher(accountName, accountKey string) (*AzureFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureFetcher{client: client}, nil
}

func (f *AzureFetcher) Fetch(ctx context.Context, imagePath string) ([]byte, error) {
	container, blob, err := parseBlobPath(imagePath)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// parseBlobPath splits azblob://container/path/to/blob into its parts.
func parseBlobPath(imagePath string) (container, blob string, err error) {
	parsed, err := url.Parse(imagePath)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob path: %w", err)
	}
	if parsed.Scheme != "azblob" || parsed.Host == "" {
		return "", "", fmt.Errorf("blob path must look like azblob://container/blob, got %s", imagePath)
	}
	blob = strings.TrimPrefix(parsed.Path, "/")
	if blob == "" {
		return "", "", fmt.Errorf("blob path %s names no blob", imagePath)
	}
	return parsed.Host, blob, nil
}
