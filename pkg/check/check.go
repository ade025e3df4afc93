// Package check validates test groups the way a harness would before running
// them: environments, root directories, patterns, matching files and
// extensions.
package check

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/set"

	"github.com/cartograph/testgroups/pkg/config"
	"github.com/cartograph/testgroups/pkg/extension"
	"github.com/cartograph/testgroups/pkg/extension/resolver"
	"github.com/cartograph/testgroups/pkg/group"
	"github.com/cartograph/testgroups/pkg/log"
	"github.com/cartograph/testgroups/pkg/workspace"
)

const (
	FieldEnvironment = "environment"
	FieldRootPath    = "rootPath"
	FieldSources     = workspace.FieldSources
	FieldTests       = workspace.FieldTests
	FieldExtensions  = "extensions"
)

// NativeSyntaxes are the file extensions every environment loads without an extension.
var NativeSyntaxes = []string{".js"}

// Problem is one thing wrong with a group.
type Problem struct {
	Group   string `json:"group"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Group, p.Field, p.Message)
}

// GroupReport is the result of checking one group.
type GroupReport struct {
	Name       string               `json:"name"`
	Files      *workspace.FileSet   `json:"files,omitempty"`
	Extensions []*resolver.Resolved `json:"extensions,omitempty"`
	Problems   []Problem            `json:"problems,omitempty"`
}

func (r *GroupReport) addf(field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{
		Group:   r.Name,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *GroupReport) OK() bool {
	return len(r.Problems) == 0
}

// Report holds one GroupReport per checked group, in declaration order.
type Report struct {
	Groups []GroupReport `json:"groups"`
}

func (r *Report) OK() bool {
	for i := range r.Groups {
		if !r.Groups[i].OK() {
			return false
		}
	}

	return true
}

// Problems returns all problems in group order.
func (r *Report) Problems() []Problem {
	var out []Problem
	for _, g := range r.Groups {
		out = append(out, g.Problems...)
	}

	return out
}

type Options struct {
	// Manager resolves extensions. When nil one is built with a resolver
	// rooted at the descriptor directory.
	Manager extension.Manager
}

// Run checks every group of desc concurrently. Problems are reported in the
// Report; the error is reserved for the run itself failing, e.g. cancellation.
func Run(ctx context.Context, desc *config.Descriptor, opts Options) (*Report, error) {
	if desc == nil {
		return nil, fmt.Errorf("descriptor cannot be nil")
	}

	manager := opts.Manager
	if manager == nil {
		manager = extension.NewManager(resolver.GetResolver(resolver.Options{
			BasePath: desc.Dir(),
		}))
	}

	entries := desc.Entries()
	report := &Report{Groups: make([]GroupReport, len(entries))}

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			gr, err := checkGroup(gctx, desc.Dir(), e.Name, e.Group, manager)
			if err != nil {
				return err
			}
			report.Groups[i] = *gr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

func checkGroup(ctx context.Context, baseDir, name string, g group.TestGroupConfig, manager extension.Manager) (*GroupReport, error) {
	logger := log.WithComponent(ctx, "check").With().Str("group", name).Logger()
	logger.Debug().Msg("checking group")

	r := &GroupReport{Name: name}

	if !g.Environment.Known() {
		r.addf(FieldEnvironment, "unknown environment %q: expected one of %v", g.Environment, group.Environments())
	}

	patternsOK := checkPatterns(r, FieldSources, g.Sources)
	patternsOK = checkPatterns(r, FieldTests, g.Tests) && patternsOK
	if len(g.Tests) == 0 {
		r.addf(FieldTests, "no test patterns declared")
	}

	var rootOK bool
	if g.RootPath == "" {
		r.addf(FieldRootPath, "rootPath is empty")
	} else if _, err := workspace.RootDir(baseDir, g); err != nil {
		r.addf(FieldRootPath, "%v", err)
	} else {
		rootOK = true
	}

	resolved := make([]*resolver.Resolved, 0, len(g.Extensions))
	for _, ref := range g.Extensions {
		ext, err := manager.Get(ctx, ref)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.addf(FieldExtensions, "%v", err)
			continue
		}
		resolved = append(resolved, ext)
	}
	r.Extensions = resolved

	if !rootOK || !patternsOK {
		return r, nil
	}

	files, err := workspace.Expand(ctx, baseDir, g)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		r.addf(FieldRootPath, "%v", err)
		return r, nil
	}
	r.Files = files

	for _, p := range files.Unmatched[FieldSources] {
		r.addf(FieldSources, "pattern %q matches no files", p)
	}
	for _, p := range files.Unmatched[FieldTests] {
		r.addf(FieldTests, "pattern %q matches no files", p)
	}
	if len(g.Tests) > 0 && len(files.Tests) == 0 {
		r.addf(FieldTests, "no matching test files")
	}

	checkSyntaxes(r, files, resolved)

	logger.Debug().
		Int("sources", len(files.Sources)).
		Int("tests", len(files.Tests)).
		Int("problems", len(r.Problems)).
		Msg("checked group")

	return r, nil
}

func checkPatterns(r *GroupReport, field string, patterns []string) bool {
	ok := true
	for i, p := range patterns {
		if err := workspace.ValidatePattern(p); err != nil {
			r.addf(field, "entry %d: %v", i, err)
			ok = false
		}
	}

	return ok
}

// checkSyntaxes reports files no native loader or resolved extension handles.
func checkSyntaxes(r *GroupReport, files *workspace.FileSet, resolved []*resolver.Resolved) {
	handled := set.New(NativeSyntaxes...)
	for _, ext := range resolved {
		handled.Insert(ext.Syntaxes()...)
	}

	unhandled := make(map[string][]string)
	for _, f := range slices.Concat(files.Sources, files.Tests) {
		ext := strings.ToLower(path.Ext(f))
		if handled.Has(ext) {
			continue
		}
		unhandled[ext] = append(unhandled[ext], f)
	}

	for _, ext := range set.KeySet(unhandled).SortedList() {
		matched := unhandled[ext]
		label := ext
		if label == "" {
			label = "extensionless"
		}
		r.addf(FieldExtensions, "no extension handles %s files (%d matched, e.g. %s)", label, len(matched), matched[0])
	}
}
