package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalSource reads corpus chunk documents from a local directory tree
type LocalSource struct {
	basePath string
}

// NewLocalSource creates a source rooted at basePath
func NewLocalSource(basePath string) (*LocalSource, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("corpus directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path is not a directory: %s", basePath)
	}
	return &LocalSource{basePath: basePath}, nil
}

// List walks the directory and returns all chunk JSON keys in sorted order
func (s *LocalSource) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus documents: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Open retrieves one chunk document
func (s *LocalSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("corpus document not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open corpus document: %w", err)
	}
	return file, nil
}
