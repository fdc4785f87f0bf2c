package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "go-ocr-benchmark/internal/errors"
	"go-ocr-benchmark/internal/logger"
)

// Directory is one dataset directory found under an images root.
type Directory struct {
	Name         string
	Path         string
	ManifestPath string
}

// Discover finds dataset directories under root. A dataset directory is any
// directory containing a Label.txt, searched at the root itself and one
// nesting level below it. A root with no datasets at all is fatal.
func Discover(root string) ([]Directory, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, apperrors.NewFatalIOError(
			fmt.Sprintf("images directory %s not accessible", root), err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewFatalIOError(
			fmt.Sprintf("%s is not a directory", root), nil)
	}

	var dirs []Directory

	if manifest := manifestIn(root); manifest != "" {
		dirs = append(dirs, Directory{
			Name:         filepath.Base(root),
			Path:         root,
			ManifestPath: manifest,
		})
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, apperrors.NewFatalIOError(
			fmt.Sprintf("cannot list images directory %s", root), err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(root, entry.Name())
		if manifest := manifestIn(sub); manifest != "" {
			dirs = append(dirs, Directory{
				Name:         entry.Name(),
				Path:         sub,
				ManifestPath: manifest,
			})
		}
	}

	if len(dirs) == 0 {
		return nil, apperrors.NewFatalIOError(
			fmt.Sprintf("no dataset with %s found under %s", ManifestName, root), nil)
	}

	logger.WithFields(map[string]interface{}{
		"root":     root,
		"datasets": len(dirs),
	}).Debug("Dataset discovery complete")

	return dirs, nil
}

func manifestIn(dir string) string {
	manifest := filepath.Join(dir, ManifestName)
	if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
		return manifest
	}
	return ""
}

// ResolveImagePath joins a manifest-relative image path with its dataset
// directory. Absolute paths and remote URLs pass through unchanged so the
// storage router sees their scheme intact.
func ResolveImagePath(dir Directory, imagePath string) string {
	if filepath.IsAbs(imagePath) || hasRemoteScheme(imagePath) {
		return imagePath
	}
	return filepath.Join(dir.Path, filepath.FromSlash(imagePath))
}

func hasRemoteScheme(imagePath string) bool {
	return strings.HasPrefix(imagePath, "http://") ||
		strings.HasPrefix(imagePath, "https://") ||
		strings.HasPrefix(imagePath, "azblob://")
}
