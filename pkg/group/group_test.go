package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartograph/testgroups/pkg/extension"
)

func TestParseEnvironment(t *testing.T) {
	tt := map[string]struct {
		input     string
		expected  Environment
		expectErr bool
	}{
		"browser": {input: "browser", expected: EnvBrowser},
		"node":    {input: "node", expected: EnvNode},
		"unknown": {input: "deno", expectErr: true},
		"empty":   {input: "", expectErr: true},
		"case":    {input: "Browser", expectErr: true},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			got, err := ParseEnvironment(tc.input)
			if tc.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown environment")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEnvironments(t *testing.T) {
	assert.Equal(t, []Environment{EnvBrowser, EnvNode}, Environments())
}

func TestTestGroupConfig_Clone(t *testing.T) {
	orig := TestGroupConfig{
		Environment: EnvBrowser,
		RootPath:    "../",
		Sources:     []string{"lib/cartograph.js"},
		Tests:       []string{"spec/**/*.spec.{coffee,js}"},
		Extensions:  []extension.Ref{"buster-coffee"},
	}

	clone := orig.Clone()
	assert.Equal(t, orig, clone)

	clone.Sources[0] = "lib/other.js"
	clone.Tests[0] = "test/**/*.js"
	clone.Extensions[0] = "buster-amd"

	assert.Equal(t, "lib/cartograph.js", orig.Sources[0])
	assert.Equal(t, "spec/**/*.spec.{coffee,js}", orig.Tests[0])
	assert.Equal(t, extension.Ref("buster-coffee"), orig.Extensions[0])
}

func TestTestGroupConfig_CloneKeepsNil(t *testing.T) {
	clone := TestGroupConfig{Environment: EnvNode, RootPath: "."}.Clone()
	assert.Nil(t, clone.Sources)
	assert.Nil(t, clone.Tests)
	assert.Nil(t, clone.Extensions)
}
