package resolver

import (
	"context"
)

const (
	PackageTypeFile    = "file"
	PackageTypeCatalog = "catalog"
	PackageTypeUnknown = "unknown"
)

type Resolver interface {
	// Resolve maps an extension reference to something the harness can load
	Resolve(ctx context.Context, ref string) (*Resolved, error)
}

// Source handles resolution for a specific scheme (e.g. local fs, plugin catalog)
type Source interface {
	// Scheme returns the scheme this source handles (e.g. "file", "catalog")
	Scheme() string

	// Resolve resolves a reference (without scheme prefix)
	Resolve(ctx context.Context, ref string) (*Resolved, error)
}

// Resolved describes a loadable extension.
type Resolved struct {
	Ref    string `json:"ref"`
	Scheme string `json:"scheme"`

	// Path is set for file extensions
	Path string `json:"path,omitempty"`

	// Plugin is set for catalog extensions
	Plugin *Plugin `json:"plugin,omitempty"`
}

// Syntaxes returns the file extensions the resolved extension adds support for.
func (r *Resolved) Syntaxes() []string {
	if r == nil || r.Plugin == nil {
		return nil
	}

	return append([]string(nil), r.Plugin.Syntaxes...)
}
