package testcase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// RunContext holds everything assertions can look at after a run
type RunContext struct {
	ProjectDir    string
	CommandOutput string
	CommandError  error
	ExitCode      int
}

// Assertion checks one property of a finished run
type Assertion interface {
	Assert(t *testing.T, ctx *RunContext)
}

// ExitCodeAssertion checks the exit code of the binary
type ExitCodeAssertion struct {
	Expected int
}

func (a *ExitCodeAssertion) Assert(t *testing.T, ctx *RunContext) {
	t.Helper()
	if ctx.ExitCode != a.Expected {
		t.Errorf("expected exit code %d, got %d\noutput:\n%s", a.Expected, ctx.ExitCode, ctx.CommandOutput)
	}
}

// OutputContainsAssertion checks the combined stdout and stderr
type OutputContainsAssertion struct {
	Contains string
	Negate   bool
}

func (a *OutputContainsAssertion) Assert(t *testing.T, ctx *RunContext) {
	t.Helper()
	found := strings.Contains(ctx.CommandOutput, a.Contains)
	switch {
	case a.Negate && found:
		t.Errorf("expected output not to contain %q\noutput:\n%s", a.Contains, ctx.CommandOutput)
	case !a.Negate && !found:
		t.Errorf("expected output to contain %q\noutput:\n%s", a.Contains, ctx.CommandOutput)
	}
}

// FileExistsAssertion checks that the run left a file in the project
type FileExistsAssertion struct {
	Path string
}

func (a *FileExistsAssertion) Assert(t *testing.T, ctx *RunContext) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(ctx.ProjectDir, filepath.FromSlash(a.Path))); err != nil {
		t.Errorf("expected file %s to exist: %v", a.Path, err)
	}
}
