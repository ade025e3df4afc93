package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_Scheme(t *testing.T) {
	s := &FileSource{}
	assert.Equal(t, PackageTypeFile, s.Scheme())
}

func TestFileSource_Resolve(t *testing.T) {
	tmpDir := t.TempDir()

	pluginPath := filepath.Join(tmpDir, "plugins", "coffee.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(pluginPath), 0755))
	require.NoError(t, os.WriteFile(pluginPath, []byte("module.exports = {};"), 0644))

	dirPath := filepath.Join(tmpDir, "ext-dir")
	require.NoError(t, os.Mkdir(dirPath, 0755))

	tt := map[string]struct {
		ref          string
		expectedPath string
		expectErr    bool
		errMsg       string
	}{
		"absolute path": {
			ref:          pluginPath,
			expectedPath: pluginPath,
		},
		"relative to base path": {
			ref:          "./plugins/coffee.js",
			expectedPath: pluginPath,
		},
		"parent relative to base path": {
			ref:          "../" + filepath.Base(tmpDir) + "/plugins/coffee.js",
			expectedPath: pluginPath,
		},
		"file not found": {
			ref:       filepath.Join(tmpDir, "nonexistent.js"),
			expectErr: true,
			errMsg:    "extension not found",
		},
		"path is directory": {
			ref:       dirPath,
			expectErr: true,
			errMsg:    "not a regular file",
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			s := &FileSource{BasePath: tmpDir}
			result, err := s.Resolve(context.Background(), tc.ref)

			if tc.expectErr {
				assert.Error(t, err)
				if tc.errMsg != "" {
					assert.Contains(t, err.Error(), tc.errMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedPath, result.Path)
			assert.Equal(t, tc.ref, result.Ref)
			assert.Equal(t, PackageTypeFile, result.Scheme)
		})
	}
}
