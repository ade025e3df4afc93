// Package config loads test-group descriptors: named collections of
// group.TestGroupConfig records read once at harness startup.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
	"k8s.io/utils/set"

	"github.com/cartograph/testgroups/pkg/extension"
	"github.com/cartograph/testgroups/pkg/group"
	"github.com/cartograph/testgroups/pkg/util"
)

const (
	KindTestGroups = "TestGroups"
)

var (
	ErrNoGroups       = errors.New("descriptor declares no test groups")
	ErrDuplicateGroup = errors.New("duplicate test group")
	ErrUnknownGroup   = errors.New("unknown test group")
)

// Entry pairs a group name with its record, for building descriptors in code.
type Entry struct {
	Name  string
	Group group.TestGroupConfig
}

// Descriptor is an immutable, ordered mapping from group name to record.
// All accessors return copies.
type Descriptor struct {
	meta   util.TypeMeta
	dir    string
	names  []string
	groups map[string]group.TestGroupConfig
}

// New builds a descriptor from entries, keeping their order.
func New(entries ...Entry) (*Descriptor, error) {
	return newDescriptor(util.TypeMeta{Kind: KindTestGroups}, "", entries)
}

func newDescriptor(meta util.TypeMeta, dir string, entries []Entry) (*Descriptor, error) {
	if len(entries) == 0 {
		return nil, ErrNoGroups
	}

	d := &Descriptor{
		meta:   meta,
		dir:    dir,
		names:  make([]string, 0, len(entries)),
		groups: make(map[string]group.TestGroupConfig, len(entries)),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("test group name cannot be empty")
		}
		if _, exists := d.groups[e.Name]; exists {
			return nil, fmt.Errorf("%w %q", ErrDuplicateGroup, e.Name)
		}

		d.names = append(d.names, e.Name)
		d.groups[e.Name] = e.Group.Clone()
	}

	return d, nil
}

// Get returns the group declared under name.
func (d *Descriptor) Get(name string) (group.TestGroupConfig, bool) {
	g, ok := d.groups[name]
	if !ok {
		return group.TestGroupConfig{}, false
	}

	return g.Clone(), true
}

// Names returns the group names in declaration order.
func (d *Descriptor) Names() []string {
	return slices.Clone(d.names)
}

// Len returns the number of groups.
func (d *Descriptor) Len() int {
	return len(d.names)
}

// All iterates the groups in declaration order.
func (d *Descriptor) All() iter.Seq2[string, group.TestGroupConfig] {
	return func(yield func(string, group.TestGroupConfig) bool) {
		for _, name := range d.names {
			if !yield(name, d.groups[name].Clone()) {
				return
			}
		}
	}
}

// Entries returns the groups in declaration order.
func (d *Descriptor) Entries() []Entry {
	entries := make([]Entry, 0, len(d.names))
	for name, g := range d.All() {
		entries = append(entries, Entry{Name: name, Group: g})
	}

	return entries
}

// Dir is the directory rootPath values are relative to. It is empty for
// descriptors built with New.
func (d *Descriptor) Dir() string {
	return d.dir
}

// APIVersion returns the document apiVersion, defaulting to v1alpha1.
func (d *Descriptor) APIVersion() string {
	return d.meta.GetAPIVersion()
}

// Select returns a descriptor holding only the named groups, in declaration
// order. With no names it returns an equal copy of d.
func (d *Descriptor) Select(names ...string) (*Descriptor, error) {
	if len(names) == 0 {
		return newDescriptor(d.meta, d.dir, d.Entries())
	}

	var errs []error
	for _, name := range names {
		if _, ok := d.groups[name]; !ok {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownGroup, name))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	entries := make([]Entry, 0, len(names))
	for name, g := range d.All() {
		if slices.Contains(names, name) {
			entries = append(entries, Entry{Name: name, Group: g})
		}
	}

	return newDescriptor(d.meta, d.dir, entries)
}

// document is the on-disk layout.
type document struct {
	util.TypeMeta `yaml:",inline"`
	Groups        map[string]rawGroup `yaml:"groups"`
}

type rawGroup struct {
	Environment string          `yaml:"environment,omitempty"`
	Env         string          `yaml:"env,omitempty"`
	RootPath    string          `yaml:"rootPath"`
	Sources     []string        `yaml:"sources,omitempty"`
	Tests       []string        `yaml:"tests,omitempty"`
	Extensions  []extension.Ref `yaml:"extensions,omitempty"`
}

func (r rawGroup) toGroup() (group.TestGroupConfig, error) {
	env := r.Environment
	if r.Env != "" {
		if env != "" && env != r.Env {
			return group.TestGroupConfig{}, fmt.Errorf("both environment %q and env %q are set", r.Environment, r.Env)
		}
		env = r.Env
	}

	return group.TestGroupConfig{
		Environment: group.Environment(env),
		RootPath:    r.RootPath,
		Sources:     r.Sources,
		Tests:       r.Tests,
		Extensions:  r.Extensions,
	}, nil
}

// Read decodes a descriptor document. basePath is the directory the
// document's rootPath values are relative to.
func Read(data []byte, basePath string) (*Descriptor, error) {
	meta, err := util.ReadTypeMeta(data, KindTestGroups)
	if err != nil {
		return nil, err
	}

	// before decoding, which would reject a repeated group with a bare yaml error
	order, err := groupOrder(data)
	if err != nil {
		return nil, err
	}

	doc := &document{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(order))
	for _, name := range order {
		g, err := doc.Groups[name].toGroup()
		if err != nil {
			return nil, fmt.Errorf("test group %q: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Group: g})
	}

	return newDescriptor(*meta, basePath, entries)
}

// groupOrder returns the keys of the groups mapping as they appear in data.
// A key declared twice is an ErrDuplicateGroup.
func groupOrder(data []byte) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	top := root.Content[0]
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "groups" {
			continue
		}

		groups := top.Content[i+1]
		if groups.Kind != yaml.MappingNode {
			return nil, nil
		}

		names := make([]string, 0, len(groups.Content)/2)
		seen := set.New[string]()
		for j := 0; j+1 < len(groups.Content); j += 2 {
			key := groups.Content[j]
			if seen.Has(key.Value) {
				return nil, fmt.Errorf("line %d: %w %q", key.Line, ErrDuplicateGroup, key.Value)
			}
			seen.Insert(key.Value)
			names = append(names, key.Value)
		}
		return names, nil
	}

	return nil, nil
}

func FromFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s' for test groups: %w", path, err)
	}

	// Convert to absolute path to ensure basePath is absolute
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", path, err)
	}

	d, err := Read(data, filepath.Dir(absPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load test groups from '%s': %w", path, err)
	}

	return d, nil
}

// Encode renders d as a descriptor document, groups in declaration order.
func Encode(d *Descriptor) ([]byte, error) {
	groups := &yaml.Node{Kind: yaml.MappingNode}
	for name, g := range d.All() {
		value := &yaml.Node{}
		if err := value.Encode(rawGroup{
			Environment: string(g.Environment),
			RootPath:    g.RootPath,
			Sources:     g.Sources,
			Tests:       g.Tests,
			Extensions:  g.Extensions,
		}); err != nil {
			return nil, fmt.Errorf("encoding test group %q: %w", name, err)
		}

		groups.Content = append(groups.Content, strNode(name), value)
	}

	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			strNode("apiVersion"), strNode(d.APIVersion()),
			strNode("kind"), strNode(KindTestGroups),
			strNode("groups"), groups,
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// strNode tags the scalar as a string so names like "true" stay quoted.
func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
