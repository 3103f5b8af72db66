// SPDX-License-Identifier: MPL-2.0

package fileworkspace

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/invowk/spice/pkg/model"
	"github.com/invowk/spice/pkg/traversal"
)

// Slice is the variant view of a file Workspace. Its edge indices are filled
// in as modules load.
type Slice struct {
	variant   string
	workspace *Workspace

	mu    sync.RWMutex
	deps  map[string][]model.Edge
	rdeps map[string][]model.Edge
}

func newSlice(variant string, w *Workspace) *Slice {
	return &Slice{
		variant:   variant,
		workspace: w,
		deps:      make(map[string][]model.Edge),
		rdeps:     make(map[string][]model.Edge),
	}
}

// registerDeps records the outgoing edges of address and the matching reverse
// edges. Dependencies on address itself are dropped, as are non-local targets
// when localOnly is set. Reverse edges are keyed on the (source, target) pair:
// a target listed twice by one source gets a single reverse edge carrying the
// tags of the first listing. Registering the same address again replaces its
// outgoing edges and leaves the reverse edges unchanged.
func (s *Slice) registerDeps(address string, deps []model.Dependency, localOnly bool) {
	edges := make([]model.Edge, 0, len(deps))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dep := range deps {
		if dep.Target == address {
			continue
		}
		if localOnly && !model.IsLocalAddress(dep.Target) {
			continue
		}
		edges = append(edges, model.Edge{Target: dep.Target, Tags: slices.Clone(dep.Tags)})

		if !slices.ContainsFunc(s.rdeps[dep.Target], func(e model.Edge) bool { return e.Target == address }) {
			s.rdeps[dep.Target] = append(s.rdeps[dep.Target], model.Edge{Target: address, Tags: slices.Clone(dep.Tags)})
		}
	}
	s.deps[address] = edges
}

// Variant implements model.Slice.
func (s *Slice) Variant() string { return s.variant }

// Workspace implements model.Slice.
func (s *Slice) Workspace() model.Workspace { return s.workspace }

// NodeAt implements model.Slice.
func (s *Slice) NodeAt(ctx context.Context, address string) (model.Node, error) {
	return s.workspace.NodeAt(ctx, address)
}

// DependenciesOf implements model.Slice. External nodes have no known edges.
func (s *Slice) DependenciesOf(_ context.Context, node model.Node) ([]model.Edge, error) {
	switch n := node.(type) {
	case *model.ModuleNode, *model.TestNode:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return slices.Clone(s.deps[n.Address()]), nil
	case *model.ExternalNode:
		return nil, nil
	default:
		return nil, model.NewInvalidGraphError("unsupported node type %T", node)
	}
}

// DependenciesOfAddress implements model.Slice.
func (s *Slice) DependenciesOfAddress(ctx context.Context, address string) ([]model.Edge, error) {
	node, err := s.NodeAt(ctx, address)
	if err != nil {
		return nil, err
	}
	return s.DependenciesOf(ctx, node)
}

// DependenciesOn implements model.Slice. It loads the whole workspace first,
// since any module may depend on node.
func (s *Slice) DependenciesOn(ctx context.Context, node model.Node) ([]model.Edge, error) {
	switch node.(type) {
	case *model.ModuleNode, *model.TestNode:
		return s.DependenciesOnAddress(ctx, node.Address())
	case *model.ExternalNode:
		return nil, nil
	default:
		return nil, model.NewInvalidGraphError("unsupported node type %T", node)
	}
}

// DependenciesOnAddress implements model.Slice. The address is not resolved,
// so referrers of a missing address can be listed.
func (s *Slice) DependenciesOnAddress(ctx context.Context, address string) ([]model.Edge, error) {
	if err := s.workspace.LoadAll(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rdeps[address]), nil
}

// Validate implements model.Slice. The transitive dependencies of roots are
// loaded before any validator runs; addresses that do not resolve are left
// for the validators to report.
func (s *Slice) Validate(ctx context.Context, validators []model.Validator, roots ...model.Node) error {
	if err := s.Load(ctx, roots...); err != nil {
		return err
	}
	return model.RunValidators(ctx, validators, s.workspace, s, roots...)
}

// Load forces loading of everything reachable from roots.
func (s *Slice) Load(ctx context.Context, roots ...model.Node) error {
	tolerateMissing := func(_ context.Context, _ model.Slice, _ string, err error) (model.Node, error) {
		if errors.Is(err, model.ErrNoSuchAddress) {
			return nil, nil
		}
		return nil, err
	}
	return traversal.NewForward(nil, traversal.WithNodeError(tolerateMissing)).Walk(ctx, s, roots...)
}

// ValidateAddresses implements model.Slice. Roots are resolved in parallel,
// bounded by the workspace thread count.
func (s *Slice) ValidateAddresses(ctx context.Context, validators []model.Validator, roots ...string) error {
	nodes := make([]model.Node, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workspace.opts.threadCount)
	for i, address := range roots {
		g.Go(func() error {
			node, err := s.NodeAt(gctx, address)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return s.Validate(ctx, validators, nodes...)
}

var _ model.Slice = (*Slice)(nil)
