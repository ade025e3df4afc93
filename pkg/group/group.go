// Package group defines the record describing one runnable test group.
package group

import (
	"fmt"
	"slices"

	"k8s.io/utils/set"

	"github.com/cartograph/testgroups/pkg/extension"
)

// Environment is the execution context a group runs in.
type Environment string

const (
	EnvBrowser Environment = "browser"
	EnvNode    Environment = "node"
)

var knownEnvironments = set.New(EnvBrowser, EnvNode)

// Known reports whether the harness supports the environment.
func (e Environment) Known() bool {
	return knownEnvironments.Has(e)
}

// Environments returns the supported environments in sorted order.
func Environments() []Environment {
	return knownEnvironments.SortedList()
}

// ParseEnvironment returns the environment named by s.
func ParseEnvironment(s string) (Environment, error) {
	e := Environment(s)
	if !e.Known() {
		return "", fmt.Errorf("unknown environment %q: expected one of %v", s, Environments())
	}

	return e, nil
}

// TestGroupConfig is the record for a single test group. Paths in Sources and
// Tests are relative to RootPath, which is relative to the descriptor file.
type TestGroupConfig struct {
	Environment Environment     `json:"environment" yaml:"environment"`
	RootPath    string          `json:"rootPath" yaml:"rootPath"`
	Sources     []string        `json:"sources,omitempty" yaml:"sources,omitempty"`
	Tests       []string        `json:"tests,omitempty" yaml:"tests,omitempty"`
	Extensions  []extension.Ref `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Clone returns a deep copy of g.
func (g TestGroupConfig) Clone() TestGroupConfig {
	return TestGroupConfig{
		Environment: g.Environment,
		RootPath:    g.RootPath,
		Sources:     slices.Clone(g.Sources),
		Tests:       slices.Clone(g.Tests),
		Extensions:  slices.Clone(g.Extensions),
	}
}
