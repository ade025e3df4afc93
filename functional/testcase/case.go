// Package testcase provides a fluent API for defining functional test cases
// that exercise the testgroups binary against generated projects.
package testcase

import (
	"testing"
)

// TestCase represents a complete functional test scenario
type TestCase struct {
	t    *testing.T
	name string

	// Project layout
	descriptor     string
	descriptorPath string
	files          []string

	// Command line, without the binary
	args []string
	env  map[string]string

	// Assertions to run after the test
	assertions []Assertion
}

// New creates a new test case with the given name
func New(t *testing.T, name string) *TestCase {
	return &TestCase{
		t:              t,
		name:           name,
		descriptorPath: DefaultDescriptorPath,
		env:            make(map[string]string),
		assertions:     make([]Assertion, 0),
	}
}

// WithDescriptor sets the descriptor document written into the project
func (tc *TestCase) WithDescriptor(doc string) *TestCase {
	tc.descriptor = doc
	return tc
}

// WithDescriptorAt changes where the descriptor is written, relative to the project root
func (tc *TestCase) WithDescriptorAt(path string) *TestCase {
	tc.descriptorPath = path
	return tc
}

// WithFiles adds empty files to the project, slash separated and relative to its root
func (tc *TestCase) WithFiles(paths ...string) *TestCase {
	tc.files = append(tc.files, paths...)
	return tc
}

// WithEnv sets an environment variable for the command
func (tc *TestCase) WithEnv(key, value string) *TestCase {
	tc.env[key] = value
	return tc
}

// Args sets the command line arguments
func (tc *TestCase) Args(args ...string) *TestCase {
	tc.args = args
	return tc
}

// Expect adds an assertion to be checked after the test runs
func (tc *TestCase) Expect(a Assertion) *TestCase {
	tc.assertions = append(tc.assertions, a)
	return tc
}

// ExpectExitCode asserts the command exit code
func (tc *TestCase) ExpectExitCode(code int) *TestCase {
	return tc.Expect(&ExitCodeAssertion{Expected: code})
}

// ExpectOutputContains asserts the combined output contains every substring
func (tc *TestCase) ExpectOutputContains(substrings ...string) *TestCase {
	for _, s := range substrings {
		tc.Expect(&OutputContainsAssertion{Contains: s})
	}
	return tc
}

// ExpectOutputNotContains asserts the combined output does not contain the substring
func (tc *TestCase) ExpectOutputNotContains(s string) *TestCase {
	return tc.Expect(&OutputContainsAssertion{Contains: s, Negate: true})
}

// ExpectFile asserts that a file exists in the project after the run
func (tc *TestCase) ExpectFile(path string) *TestCase {
	return tc.Expect(&FileExistsAssertion{Path: path})
}

// Run executes the test case
func (tc *TestCase) Run() {
	tc.t.Helper()
	tc.t.Logf("running functional case %q", tc.name)
	(&Runner{tc: tc, t: tc.t}).Run()
}
