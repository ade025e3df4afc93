package testcase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// EnvTestgroupsBinary names the environment variable holding the binary under test
const EnvTestgroupsBinary = "TESTGROUPS_BINARY"

// Runner orchestrates the execution of a test case
type Runner struct {
	tc *TestCase
	t  *testing.T

	generator *Generator
}

// Run executes the test case
func (r *Runner) Run() {
	r.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := r.generateProject(); err != nil {
		r.t.Fatalf("project generation failed: %v", err)
	}

	runCtx := r.runBinary(ctx)

	for _, assertion := range r.tc.assertions {
		assertion.Assert(r.t, runCtx)
	}
}

func (r *Runner) generateProject() error {
	var err error
	r.generator, err = NewGenerator(r.t)
	if err != nil {
		return err
	}

	for _, f := range r.tc.files {
		if _, err := r.generator.WriteFile(f, nil); err != nil {
			return err
		}
	}

	if r.tc.descriptor != "" {
		if _, err := r.generator.WriteFile(r.tc.descriptorPath, []byte(r.tc.descriptor)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) runBinary(ctx context.Context) *RunContext {
	runCtx := &RunContext{ProjectDir: r.generator.TempDir()}

	binary, err := GetTestgroupsBinary()
	if err != nil {
		r.t.Fatalf("failed to find testgroups binary: %v", err)
	}

	cmd := exec.CommandContext(ctx, binary, r.tc.args...)

	// descriptors are located from the project root
	cmd.Dir = r.generator.TempDir()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Env = os.Environ()
	for k, v := range r.tc.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	err = cmd.Run()
	runCtx.CommandOutput = stdout.String() + stderr.String()
	runCtx.CommandError = err

	if cmd.ProcessState != nil {
		runCtx.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		r.t.Logf("testgroups %v: %v", r.tc.args, err)
		r.t.Logf("command output:\n%s", runCtx.CommandOutput)
	}

	return runCtx
}

// GetTestgroupsBinary returns the path to the testgroups binary.
// It first checks the TESTGROUPS_BINARY environment variable,
// then looks for the binary in common locations.
func GetTestgroupsBinary() (string, error) {
	if path := os.Getenv(EnvTestgroupsBinary); path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
		return "", fmt.Errorf("%s set to %q but file not found", EnvTestgroupsBinary, path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	candidates := []string{
		filepath.Join(wd, "..", "..", "bin", "testgroups"), // from functional/tests
		filepath.Join(wd, "..", "bin", "testgroups"),       // from functional
		filepath.Join(wd, "bin", "testgroups"),             // repo root
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("testgroups binary not found; set %s environment variable", EnvTestgroupsBinary)
}
