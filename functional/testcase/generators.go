package testcase

import (
	"os"
	"path/filepath"
	"testing"
)

// DefaultDescriptorPath is where the descriptor is written unless the test case says otherwise
const DefaultDescriptorPath = "spec/testgroups.yaml"

// Generator lays out a project in a temporary directory
type Generator struct {
	t       *testing.T
	tempDir string
}

// NewGenerator creates a new generator with a temporary directory
func NewGenerator(t *testing.T) (*Generator, error) {
	tempDir, err := os.MkdirTemp("", "testgroups-functional-*")
	if err != nil {
		return nil, err
	}

	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})

	return &Generator{
		t:       t,
		tempDir: tempDir,
	}, nil
}

// TempDir returns the temporary directory path
func (g *Generator) TempDir() string {
	return g.tempDir
}

// WriteFile writes content to a slash separated path under the project root
func (g *Generator) WriteFile(path string, content []byte) (string, error) {
	full := filepath.Join(g.tempDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return "", err
	}

	return full, nil
}
