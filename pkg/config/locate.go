package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("no test group descriptor found")

// FileNames are the descriptor names Locate looks for, in order.
var FileNames = []string{"testgroups.yaml", "testgroups.yml"}

// searchDirs are checked under the starting directory, in order.
var searchDirs = []string{".", "test", "spec"}

// Locate finds the descriptor for the project rooted at dir.
func Locate(dir string) (string, error) {
	for _, sub := range searchDirs {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, sub, name)
			info, err := os.Stat(candidate)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return "", fmt.Errorf("checking %s: %w", candidate, err)
			}
			if info.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("%w in %s (looked for %v in ./, test/ and spec/)", ErrNotFound, dir, FileNames)
}
