// Package workspace expands the source and test patterns of a test group into
// the concrete files a harness would load.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"k8s.io/utils/set"

	"github.com/cartograph/testgroups/pkg/group"
	"github.com/cartograph/testgroups/pkg/log"
)

const (
	FieldSources = "sources"
	FieldTests   = "tests"
)

var ErrInvalidPattern = errors.New("invalid pattern")

// FileSet is the expansion of one group. Paths are slash separated and
// relative to Root.
type FileSet struct {
	Root    string   `json:"root"`
	Sources []string `json:"sources"`
	Tests   []string `json:"tests"`

	// Unmatched maps a field name to the patterns that matched no file
	Unmatched map[string][]string `json:"unmatched,omitempty"`
}

// RootDir returns the absolute root directory of g for a descriptor loaded
// from baseDir.
func RootDir(baseDir string, g group.TestGroupConfig) (string, error) {
	if g.RootPath == "" {
		return "", fmt.Errorf("rootPath is empty")
	}

	root := g.RootPath
	if !filepath.IsAbs(root) {
		root = filepath.Join(baseDir, root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for rootPath %q: %w", g.RootPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("rootPath %q: %w", g.RootPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("rootPath %q resolves to %s which is not a directory", g.RootPath, abs)
	}

	return abs, nil
}

// ValidatePattern reports whether p is a usable source or test pattern.
// Patterns are relative to rootPath and may not leave it.
func ValidatePattern(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPattern)
	}

	slashed := filepath.ToSlash(p)
	if filepath.IsAbs(p) || strings.HasPrefix(slashed, "/") {
		return fmt.Errorf("%w: %q is absolute, patterns are relative to rootPath", ErrInvalidPattern, p)
	}
	if slices.Contains(strings.Split(slashed, "/"), "..") {
		return fmt.Errorf("%w: %q leaves rootPath", ErrInvalidPattern, p)
	}
	if !doublestar.ValidatePattern(slashed) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
	}

	return nil
}

// Expand resolves the group's rootPath against baseDir and expands its source
// and test patterns. Files keep declaration order: pattern order first, then
// lexical order within a pattern. A file is only listed once, sources first.
func Expand(ctx context.Context, baseDir string, g group.TestGroupConfig) (*FileSet, error) {
	root, err := RootDir(baseDir, g)
	if err != nil {
		return nil, err
	}

	fset := &FileSet{Root: root}
	seen := set.New[string]()

	fset.Sources, err = expandField(ctx, fset, seen, FieldSources, g.Sources)
	if err != nil {
		return nil, err
	}

	fset.Tests, err = expandField(ctx, fset, seen, FieldTests, g.Tests)
	if err != nil {
		return nil, err
	}

	return fset, nil
}

func expandField(ctx context.Context, fset *FileSet, seen set.Set[string], field string, patterns []string) ([]string, error) {
	logger := log.WithComponent(ctx, "workspace")

	files := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := Glob(fset.Root, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}

		logger.Debug().Str("field", field).Str("pattern", p).Int("matches", len(matches)).Msg("expanded pattern")

		if len(matches) == 0 {
			if fset.Unmatched == nil {
				fset.Unmatched = make(map[string][]string)
			}
			fset.Unmatched[field] = append(fset.Unmatched[field], p)
			continue
		}

		for _, m := range matches {
			if seen.Has(m) {
				continue
			}
			seen.Insert(m)
			files = append(files, m)
		}
	}

	return files, nil
}

// Glob returns the regular files under root matching pattern, as sorted
// slash-separated paths relative to root. Only the pattern is glob syntax,
// root is taken literally.
func Glob(root, pattern string) ([]string, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(root), path.Clean(filepath.ToSlash(pattern)), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	slices.Sort(matches)

	return matches, nil
}
