package resolver

import (
	"context"
	"fmt"
	"strings"
)

// Options configures the resolver behavior
type Options struct {
	// BasePath is the directory to use when resolving relative file paths
	BasePath string

	// Catalog lists the plugins resolvable by bare name. Nil means DefaultCatalog().
	Catalog *Catalog

	// Sources replace the built-in source for their scheme
	Sources []Source
}

// GetResolver creates a resolver with the given options
func GetResolver(opts Options) Resolver {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	sources := map[string]Source{
		PackageTypeFile:    &FileSource{BasePath: opts.BasePath},
		PackageTypeCatalog: &CatalogSource{Catalog: catalog},
	}

	for _, s := range opts.Sources {
		sources[s.Scheme()] = s
	}

	return &registry{
		sources: sources,
	}
}

type registry struct {
	sources map[string]Source
}

var _ Resolver = &registry{}

func (r *registry) Resolve(ctx context.Context, ref string) (*Resolved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scheme, path := parseRef(ref)

	source, ok := r.sources[scheme]
	if !ok {
		return nil, fmt.Errorf("unknown scheme in extension reference %q", ref)
	}

	resolved, err := source.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}

	// sources see the reference without its prefix
	resolved.Ref = ref
	return resolved, nil
}

func parseRef(ref string) (scheme, path string) {
	if path, ok := strings.CutPrefix(ref, "file://"); ok {
		return PackageTypeFile, path
	}

	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "~/") {
		return PackageTypeFile, ref
	}

	if path, ok := strings.CutPrefix(ref, "catalog://"); ok {
		return PackageTypeCatalog, path
	}

	if ref != "" && !strings.Contains(ref, "://") {
		return PackageTypeCatalog, ref
	}

	return PackageTypeUnknown, ref
}
