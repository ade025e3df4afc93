package resolver

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Plugin is a harness extension known by name.
type Plugin struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Syntaxes    []string `json:"syntaxes,omitempty"` // file extensions, e.g. ".coffee"
}

// Catalog holds the plugins a harness can load by bare name.
type Catalog struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

func NewCatalog(plugins ...Plugin) (*Catalog, error) {
	c := &Catalog{plugins: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		if err := c.Register(p); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// DefaultCatalog returns a new catalog with the plugins shipped alongside the harness.
func DefaultCatalog() *Catalog {
	return &Catalog{
		plugins: map[string]Plugin{
			"buster-coffee": {
				Name:        "buster-coffee",
				Description: "Compiles CoffeeScript sources and specs before they are loaded",
				Syntaxes:    []string{".coffee"},
			},
		},
	}
}

func (c *Catalog) Register(p Plugin) error {
	if p.Name == "" {
		return fmt.Errorf("plugin name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.plugins[p.Name]; exists {
		return fmt.Errorf("plugin %q already registered", p.Name)
	}

	p.Syntaxes = slices.Clone(p.Syntaxes)
	c.plugins[p.Name] = p
	return nil
}

func (c *Catalog) Lookup(name string) (Plugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.plugins[name]
	if !ok {
		return Plugin{}, false
	}

	p.Syntaxes = slices.Clone(p.Syntaxes)
	return p, true
}

// Names returns the registered plugin names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.plugins))
	for name := range c.plugins {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// CatalogSource resolves bare extension names against a Catalog
type CatalogSource struct {
	Catalog *Catalog
}

var _ Source = &CatalogSource{}

func (s *CatalogSource) Scheme() string {
	return PackageTypeCatalog
}

func (s *CatalogSource) Resolve(ctx context.Context, ref string) (*Resolved, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("no plugin catalog configured to resolve %q", ref)
	}

	p, ok := s.Catalog.Lookup(ref)
	if !ok {
		return nil, fmt.Errorf("unknown extension %q", ref)
	}

	return &Resolved{
		Ref:    ref,
		Scheme: PackageTypeCatalog,
		Plugin: &p,
	}, nil
}
