package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource resolves extensions that live on the local filesystem.
type FileSource struct {
	// BasePath is the directory relative references are joined to.
	// When empty the working directory is used.
	BasePath string
}

var _ Source = &FileSource{}

func (s *FileSource) Scheme() string {
	return PackageTypeFile
}

func (s *FileSource) Resolve(ctx context.Context, ref string) (*Resolved, error) {
	path := ref
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to expand ~: %w", err)
		}

		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		base := s.BasePath
		if base == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			base = wd
		}

		path = filepath.Join(base, path)
	}

	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("extension not found at %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("extension path %s is not a regular file", path)
	}

	return &Resolved{
		Ref:    ref,
		Scheme: PackageTypeFile,
		Path:   path,
	}, nil
}
