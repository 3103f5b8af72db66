// SPDX-License-Identifier: MPL-2.0

package traversal

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/invowk/spice/internal/dag"
	"github.com/invowk/spice/pkg/model"
)

// DepsCollector gathers, in breadth-first order, the address of every node
// reachable over dependencies, roots included. It accumulates across walks;
// create a new collector for an independent result.
type DepsCollector struct {
	deps   []string
	walker *Walker
}

// NewDepsCollector creates a collector. Options are passed to the underlying walker.
func NewDepsCollector(opts ...Option) *DepsCollector {
	c := &DepsCollector{}
	c.walker = NewForward(func(node model.Node) error {
		c.deps = append(c.deps, node.Address())
		return nil
	}, opts...)
	return c
}

// Walk adds everything reachable from roots to the collected addresses.
func (c *DepsCollector) Walk(ctx context.Context, slice model.Slice, roots ...model.Node) error {
	return c.walker.Walk(ctx, slice, roots...)
}

// Deps returns a copy of the collected addresses.
func (c *DepsCollector) Deps() []string { return slices.Clone(c.deps) }

// Collect returns the addresses reachable from roots, roots first.
func Collect(ctx context.Context, slice model.Slice, roots ...model.Node) ([]string, error) {
	c := NewDepsCollector()
	if err := c.Walk(ctx, slice, roots...); err != nil {
		return nil, err
	}
	return c.Deps(), nil
}

// TopologicalOrder returns the closure of roots ordered dependencies first,
// grouped into layers that can be built in parallel. A cycle in the closure
// fails with an error matching both model.ErrInvalidGraph and
// model.ErrCyclicReference.
func TopologicalOrder(ctx context.Context, slice model.Slice, roots ...model.Node) ([][]string, error) {
	g := dag.New()
	walker := NewForward(func(node model.Node) error {
		g.AddNode(node.Address())
		edges, err := slice.DependenciesOf(ctx, node)
		if err != nil {
			return err
		}
		for _, e := range edges {
			g.AddEdge(e.Target, node.Address())
		}
		return nil
	})
	if err := walker.Walk(ctx, slice, roots...); err != nil {
		return nil, err
	}

	layers, err := g.Layers()
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		return nil, &model.InvalidGraphError{
			Reason: "cannot order variant '" + slice.Variant() + "'",
			Cause:  fmt.Errorf("%w: %w", model.ErrCyclicReference, cycleErr),
		}
	}
	return layers, err
}
