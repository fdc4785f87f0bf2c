package factory

import (
	"fmt"
	"sort"

	"go-ocr-benchmark/internal/config"
	"go-ocr-benchmark/internal/engine"
	apperrors "go-ocr-benchmark/internal/errors"
	"go-ocr-benchmark/internal/storage"
)

// StorageType represents different types of image storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// EngineFactory creates recognition engines from configuration.
type EngineFactory struct {
	engines map[string]config.EngineOptions
	fetcher engine.ImageFetcher
}

// NewEngineFactory creates an engine factory backed by the configured
// engine options and a shared image fetcher.
func NewEngineFactory(engines map[string]config.EngineOptions, fetcher engine.ImageFetcher) *EngineFactory {
	return &EngineFactory{engines: engines, fetcher: fetcher}
}

// Create builds the named engine. Options come from the engine's config
// section and are passed through opaquely.
func (f *EngineFactory) Create(name string) (engine.Engine, error) {
	opts, ok := f.engines[name]
	if !ok {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("engine %q is not configured (available: %v)", name, f.Available()), nil)
	}

	switch name {
	case "tesseract":
		eng, err := engine.NewTesseractEngine(opts, f.fetcher)
		if err != nil {
			return nil, apperrors.NewConfigError("create tesseract engine", err)
		}
		return eng, nil
	case "vlm":
		eng, err := engine.NewVLMEngine(opts, f.fetcher)
		if err != nil {
			return nil, apperrors.NewConfigError("create vlm engine", err)
		}
		return eng, nil
	default:
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("unsupported engine type: %s", name), nil)
	}
}

// Available lists the configured engine names, sorted for stable output.
func (f *EngineFactory) Available() []string {
	names := make([]string, 0, len(f.engines))
	for name := range f.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StorageFactory creates image fetchers.
type StorageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() *StorageFactory {
	return &StorageFactory{}
}

// CreateStorage creates a fetcher for the specified backend type. Azure
// needs shared-key credentials.
func (f *StorageFactory) CreateStorage(storageType StorageType, accountName, accountKey string) (storage.Fetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPFetcher(), nil
	case LocalStorage:
		return storage.NewLocalFetcher(), nil
	case AzureStorage:
		if accountName == "" || accountKey == "" {
			return nil, fmt.Errorf("azure storage requires account name and key")
		}
		return storage.NewAzureFetcher(accountName, accountKey)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// CreateRouter builds the scheme-dispatching fetcher used by engines. The
// azure fetcher is optional and enabled only when credentials are present.
func (f *StorageFactory) CreateRouter(accountName, accountKey string) (*storage.Router, error) {
	local, err := f.CreateStorage(LocalStorage, "", "")
	if err != nil {
		return nil, err
	}
	http, err := f.CreateStorage(HTTPStorage, "", "")
	if err != nil {
		return nil, err
	}

	var azure storage.Fetcher
	if accountName != "" && accountKey != "" {
		azure, err = f.CreateStorage(AzureStorage, accountName, accountKey)
		if err != nil {
			return nil, err
		}
	}
	return storage.NewRouter(local, http, azure), nil
}
