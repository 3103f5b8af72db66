// SPDX-License-Identifier: MPL-2.0

// Package traversal walks a Slice breadth-first. The walk is parameterized by
// an edge selector (forward dependencies, reverse dependencies, or anything
// else that yields edges) and by two recovery hooks: one for addresses that
// fail to resolve and one for nodes whose edges cannot be listed. By default
// both hooks propagate the failure.
//
// The walk is sequential and relies only on the public Slice contract, so it
// drives lazy loading in workspaces that load on demand.
package traversal

import (
	"context"

	"github.com/invowk/spice/pkg/model"
)

type (
	// EdgeFunc selects the edges to follow from node.
	EdgeFunc func(ctx context.Context, slice model.Slice, node model.Node) ([]model.Edge, error)

	// VisitFunc is called once per reached node, in breadth-first order.
	// Returning an error stops the walk.
	VisitFunc func(node model.Node) error

	// NodeErrorFunc recovers from a failure to resolve address. Returning a
	// nil node and nil error skips the address; the walk does not descend
	// from it but continues with the rest of the queue.
	NodeErrorFunc func(ctx context.Context, slice model.Slice, address string, err error) (model.Node, error)

	// EdgeErrorFunc recovers from a failure to list the edges of node by
	// returning replacement target addresses.
	EdgeErrorFunc func(ctx context.Context, slice model.Slice, node model.Node, err error) ([]string, error)

	// Option configures a Walker.
	Option func(*Walker)

	// Walker is a reusable breadth-first walk configuration.
	Walker struct {
		edges       EdgeFunc
		visit       VisitFunc
		onNodeError NodeErrorFunc
		onEdgeError EdgeErrorFunc
	}
)

// Forward follows Slice.DependenciesOf.
func Forward(ctx context.Context, slice model.Slice, node model.Node) ([]model.Edge, error) {
	return slice.DependenciesOf(ctx, node)
}

// Reverse follows Slice.DependenciesOn.
func Reverse(ctx context.Context, slice model.Slice, node model.Node) ([]model.Edge, error) {
	return slice.DependenciesOn(ctx, node)
}

// WithNodeError installs a recovery hook for addresses that fail to resolve.
func WithNodeError(fn NodeErrorFunc) Option {
	return func(w *Walker) {
		if fn != nil {
			w.onNodeError = fn
		}
	}
}

// WithEdgeError installs a recovery hook for nodes whose edges fail to list.
func WithEdgeError(fn EdgeErrorFunc) Option {
	return func(w *Walker) {
		if fn != nil {
			w.onEdgeError = fn
		}
	}
}

// New creates a walker that follows edges and calls visit on each node.
// A nil visit only forces resolution of every reached address.
func New(edges EdgeFunc, visit VisitFunc, opts ...Option) *Walker {
	w := &Walker{
		edges: edges,
		visit: visit,
		onNodeError: func(_ context.Context, _ model.Slice, _ string, err error) (model.Node, error) {
			return nil, err
		},
		onEdgeError: func(_ context.Context, _ model.Slice, _ model.Node, err error) ([]string, error) {
			return nil, err
		},
	}
	if w.visit == nil {
		w.visit = func(model.Node) error { return nil }
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewForward creates a walker over dependencies.
func NewForward(visit VisitFunc, opts ...Option) *Walker {
	return New(Forward, visit, opts...)
}

// NewReverse creates a walker over reverse dependencies.
func NewReverse(visit VisitFunc, opts ...Option) *Walker {
	return New(Reverse, visit, opts...)
}

// Walk visits every node reachable from roots, each at most once. Addresses
// are resolved through the slice when dequeued, so unreached addresses are
// never loaded.
func (w *Walker) Walk(ctx context.Context, slice model.Slice, roots ...model.Node) error {
	queue := make([]string, 0, len(roots))
	for _, root := range roots {
		queue = append(queue, root.Address())
	}
	seen := make(map[string]struct{}, len(queue))

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		current := queue[0]
		queue = queue[1:]
		if _, ok := seen[current]; ok {
			continue
		}
		seen[current] = struct{}{}

		node, err := slice.NodeAt(ctx, current)
		if err != nil {
			if node, err = w.onNodeError(ctx, slice, current, err); err != nil {
				return err
			}
		}
		if node == nil {
			continue
		}
		if err := w.visit(node); err != nil {
			return err
		}

		var next []string
		edges, err := w.edges(ctx, slice, node)
		if err != nil {
			if next, err = w.onEdgeError(ctx, slice, node, err); err != nil {
				return err
			}
		} else {
			next = model.EdgeTargets(edges)
		}
		queue = append(queue, next...)
	}
	return nil
}
