package check

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument(t *testing.T) {
	tt := map[string]struct {
		doc       string
		expectErr bool
	}{
		"browser tests": {
			doc: browserDescriptor,
		},
		"env alias": {
			doc: `kind: TestGroups
groups:
  node:
    env: node
    rootPath: .
    tests: ["test/*.js"]
`,
		},
		"missing kind": {
			doc: `groups:
  g:
    rootPath: .
`,
			expectErr: true,
		},
		"wrong api version": {
			doc: `apiVersion: testgroups/v2
kind: TestGroups
groups:
  g:
    rootPath: .
`,
			expectErr: true,
		},
		"no groups": {
			doc: `kind: TestGroups
groups: {}
`,
			expectErr: true,
		},
		"missing root path": {
			doc: `kind: TestGroups
groups:
  g:
    environment: node
`,
			expectErr: true,
		},
		"empty root path": {
			doc: `kind: TestGroups
groups:
  g:
    rootPath: ""
`,
			expectErr: true,
		},
		"unknown environment": {
			doc: `kind: TestGroups
groups:
  g:
    environment: deno
    rootPath: .
`,
			expectErr: true,
		},
		"unknown group field": {
			doc: `kind: TestGroups
groups:
  g:
    rootPath: .
    autoRun: true
`,
			expectErr: true,
		},
		"unknown top level field": {
			doc: `kind: TestGroups
extends: base.yaml
groups:
  g:
    rootPath: .
`,
			expectErr: true,
		},
		"empty test pattern": {
			doc: `kind: TestGroups
groups:
  g:
    rootPath: .
    tests: [""]
`,
			expectErr: true,
		},
		"tests not a list": {
			doc: `kind: TestGroups
groups:
  g:
    rootPath: .
    tests: spec/*.js
`,
			expectErr: true,
		},
		"not yaml": {
			doc:       "kind: [TestGroups",
			expectErr: true,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			err := ValidateDocument([]byte(tc.doc))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDocument_Fixtures(t *testing.T) {
	for _, path := range []string{
		"../config/testdata/spec/testgroups.yaml",
		"../config/testdata/multi.yaml",
	} {
		t.Run(path, func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NoError(t, ValidateDocument(data))
		})
	}
}

func TestDocumentSchema_Resolves(t *testing.T) {
	_, err := DocumentSchema().Resolve(nil)
	assert.NoError(t, err)
}
