package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/cartograph/testgroups/pkg/config"
	"github.com/cartograph/testgroups/pkg/extension"
	"github.com/cartograph/testgroups/pkg/group"
)

const browserDescriptor = `apiVersion: testgroups/v1alpha1
kind: TestGroups
groups:
  Browser tests:
    environment: browser
    rootPath: ../
    sources:
      - lib/cartograph.js
    tests:
      - "spec/**/*.spec.{coffee,js}"
    extensions:
      - buster-coffee
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// project writes descriptor to spec/testgroups.yaml under a temp dir along
// with empty files, and returns the descriptor path.
func project(t *testing.T, descriptor string, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}

	path := filepath.Join(dir, "spec", "testgroups.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(descriptor), 0644))

	return path
}

func browserProject(t *testing.T) string {
	return project(t, browserDescriptor, "lib/cartograph.js", "spec/map.spec.coffee", "spec/router.spec.js")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	path := browserProject(t)

	out, err := execute(t, "--config", path, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "GROUP")
	assert.Contains(t, out, "Browser tests")
	assert.Contains(t, out, "browser")
	assert.Contains(t, out, "../")
	assert.NotContains(t, out, "buster-coffee")

	out, err = execute(t, "--config", path, "--verbose", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "buster-coffee")
}

func TestList_DescriptorLookup(t *testing.T) {
	path := browserProject(t)

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv(EnvConfig, path)
		out, err := execute(t, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Browser tests")
	})

	t.Run("located from working directory", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		t.Chdir(filepath.Dir(filepath.Dir(path)))
		out, err := execute(t, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Browser tests")
	})

	t.Run("nothing to locate", func(t *testing.T) {
		t.Setenv(EnvConfig, "")
		t.Chdir(t.TempDir())
		_, err := execute(t, "list")
		assert.ErrorIs(t, err, config.ErrNotFound)
	})
}

func TestShow(t *testing.T) {
	path := browserProject(t)
	expected := group.TestGroupConfig{
		Environment: group.EnvBrowser,
		RootPath:    "../",
		Sources:     []string{"lib/cartograph.js"},
		Tests:       []string{"spec/**/*.spec.{coffee,js}"},
		Extensions:  []extension.Ref{"buster-coffee"},
	}

	tt := map[string]struct {
		args   []string
		decode func([]byte, any) error
	}{
		"yaml": {
			args:   []string{"show", "Browser tests"},
			decode: func(b []byte, v any) error { return yaml.Unmarshal(b, v) },
		},
		"json": {
			args:   []string{"show", "Browser tests", "-o", "json"},
			decode: json.Unmarshal,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			out, err := execute(t, append([]string{"--config", path}, tc.args...)...)
			require.NoError(t, err)

			var got group.TestGroupConfig
			require.NoError(t, tc.decode([]byte(out), &got))
			assert.Equal(t, expected, got)
		})
	}
}

func TestShow_Errors(t *testing.T) {
	path := browserProject(t)

	_, err := execute(t, "--config", path, "show", "Node tests")
	assert.ErrorIs(t, err, config.ErrUnknownGroup)

	_, err = execute(t, "--config", path, "show", "Browser tests", "-o", "toml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestFiles(t *testing.T) {
	path := project(t, `kind: TestGroups
groups:
  Browser tests:
    environment: browser
    rootPath: ../
    sources:
      - lib/cartograph.js
      - vendor/*.js
    tests:
      - "spec/**/*.spec.{coffee,js}"
`, "lib/cartograph.js", "spec/map.spec.coffee", "spec/nested/router.spec.js")

	out, err := execute(t, "--config", path, "files", "Browser tests")
	require.NoError(t, err)
	assert.Contains(t, out, "Root: "+filepath.Dir(filepath.Dir(path)))
	assert.Contains(t, out, "lib/cartograph.js")
	assert.Contains(t, out, "spec/map.spec.coffee")
	assert.Contains(t, out, "spec/nested/router.spec.js")
	assert.Contains(t, out, `sources pattern "vendor/*.js" matches no files`)
}

func TestCheck(t *testing.T) {
	tt := map[string]struct {
		descriptor  string
		files       []string
		args        []string
		expectErr   error
		contains    []string
		notContains []string
	}{
		"browser tests": {
			descriptor: browserDescriptor,
			files:      []string{"lib/cartograph.js", "spec/map.spec.coffee"},
			contains:   []string{"✓ Browser tests (1 sources, 1 tests)", "1 groups checked, no problems"},
		},
		"no matching tests": {
			descriptor: browserDescriptor,
			files:      []string{"lib/cartograph.js"},
			expectErr:  errCheckFailed,
			contains:   []string{"✗ Browser tests", "tests: no matching test files"},
		},
		"schema violation": {
			descriptor: `kind: TestGroups
groups:
  g:
    environment: deno
    rootPath: ../
    tests: ["spec/*.js"]
`,
			files:     []string{"spec/a.js"},
			expectErr: errCheckFailed,
			contains:  []string{"schema validation failed", "unknown environment"},
		},
		"selected group": {
			descriptor: `kind: TestGroups
groups:
  good:
    environment: node
    rootPath: ../
    tests: ["test/*.js"]
  bad:
    environment: node
    rootPath: ../missing
    tests: ["test/*.js"]
`,
			files:       []string{"test/a.js"},
			args:        []string{"--group", "good"},
			contains:    []string{"✓ good"},
			notContains: []string{"bad"},
		},
		"unknown selected group": {
			descriptor: browserDescriptor,
			args:       []string{"--group", "Node tests"},
			expectErr:  config.ErrUnknownGroup,
		},
		"malformed descriptor": {
			descriptor: `kind: TestGroups
groups: {}
`,
			expectErr: config.ErrNoGroups,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			path := project(t, tc.descriptor, tc.files...)

			out, err := execute(t, append([]string{"--config", path, "check"}, tc.args...)...)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
			} else {
				assert.NoError(t, err)
			}

			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestCheck_ProblemsAreNotPrintedAsErrors(t *testing.T) {
	path := project(t, browserDescriptor, "lib/cartograph.js")

	out, err := execute(t, "--config", path, "check")
	assert.ErrorIs(t, err, errCheckFailed)
	assert.NotContains(t, out, "Error: check failed")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileNames[0])

	out, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	desc, err := config.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Browser tests"}, desc.Names())
	g, _ := desc.Get("Browser tests")
	assert.Equal(t, group.EnvBrowser, g.Environment)
	assert.Equal(t, []extension.Ref{"buster-coffee"}, g.Extensions)

	_, err = execute(t, "init", dir)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", path, "--force", "--environment", "node")
	require.NoError(t, err)

	desc, err = config.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Node tests"}, desc.Names())
}

func TestInit_InvalidEnvironment(t *testing.T) {
	_, err := execute(t, "init", t.TempDir(), "--environment", "deno")
	assert.ErrorContains(t, err, "unknown environment")
}

func TestRoot_InvalidLogFlags(t *testing.T) {
	path := browserProject(t)

	_, err := execute(t, "--config", path, "--log-level", "loud", "list")
	assert.ErrorContains(t, err, "invalid log level")

	_, err = execute(t, "--config", path, "--log-format", "xml", "list")
	assert.ErrorContains(t, err, "unknown log format")
}

func TestCheck_Example(t *testing.T) {
	out, err := execute(t, "--config", filepath.Join("..", "..", "examples", "cartograph", "spec", "testgroups.yaml"), "check")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Browser tests (1 sources, 2 tests)")
	assert.Contains(t, out, "✓ Node tests (1 sources, 1 tests)")
}
