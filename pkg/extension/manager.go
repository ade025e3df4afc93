package extension

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/cartograph/testgroups/pkg/extension/resolver"
	"github.com/cartograph/testgroups/pkg/log"
)

type Manager interface {
	// Get returns the resolved extension for ref, resolving it on first use
	Get(ctx context.Context, ref Ref) (*resolver.Resolved, error)
	// ResolveAll resolves refs concurrently, results are in input order
	ResolveAll(ctx context.Context, refs []Ref) ([]*resolver.Resolved, error)
	// Resolved returns the extensions resolved so far
	Resolved() map[Ref]*resolver.Resolved
}

type manager struct {
	mu       sync.Mutex
	resolved map[Ref]*resolver.Resolved
	group    singleflight.Group
	resolver resolver.Resolver
}

var _ Manager = &manager{}

func NewManager(res resolver.Resolver) Manager {
	return &manager{
		resolved: make(map[Ref]*resolver.Resolved),
		resolver: res,
	}
}

func (m *manager) Get(ctx context.Context, ref Ref) (*resolver.Resolved, error) {
	if ref == "" {
		return nil, fmt.Errorf("extension reference cannot be empty")
	}

	m.mu.Lock()
	if r, ok := m.resolved[ref]; ok {
		m.mu.Unlock()
		return r, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(string(ref), func() (any, error) {
		log.FromContext(ctx).Debug().Str("ref", string(ref)).Msg("resolving extension")

		r, err := m.resolver.Resolve(ctx, string(ref))
		if err != nil {
			return nil, fmt.Errorf("resolving extension %q: %w", ref, err)
		}

		m.mu.Lock()
		m.resolved[ref] = r
		m.mu.Unlock()

		return r, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*resolver.Resolved), nil
}

func (m *manager) ResolveAll(ctx context.Context, refs []Ref) ([]*resolver.Resolved, error) {
	out := make([]*resolver.Resolved, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			r, err := m.Get(gctx, ref)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (m *manager) Resolved() map[Ref]*resolver.Resolved {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Ref]*resolver.Resolved, len(m.resolved))
	for k, v := range m.resolved {
		out[k] = v
	}

	return out
}
