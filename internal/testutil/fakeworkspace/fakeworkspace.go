// SPDX-License-Identifier: MPL-2.0

// Package fakeworkspace provides a small in-memory model.Workspace with canned
// nodes, for testing graph algorithms without a filesystem.
//
// Module nodes are merged with the workspace defaults and their tests are
// derived, like a real workspace would do. Unlike the file-backed workspace,
// self-targeting dependencies are kept as edges, so a module depending on
// itself is a cycle here.
package fakeworkspace

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/spice/internal/pathindex"
	"github.com/invowk/spice/pkg/model"
)

type (
	// Workspace is an immutable in-memory workspace. It is not optimized for
	// scale and is safe for concurrent reads only.
	Workspace struct {
		document model.WorkspaceDocument
		nodes    []model.Node
		byAddr   map[string]model.Node
		index    *pathindex.Index
		slices   map[string]*Slice
	}

	// Slice is the variant view of a fake Workspace, with edges computed up front.
	Slice struct {
		variant   string
		workspace *Workspace
		deps      map[string][]model.Edge
		rdeps     map[string][]model.Edge
	}
)

// New builds a workspace from document and nodes. Module documents are merged
// with the workspace definitions and tests are derived from every variant.
// Duplicate addresses, including derived test addresses, are rejected.
func New(document model.WorkspaceDocument, nodes ...model.Node) (*Workspace, error) {
	w := &Workspace{
		document: document,
		byAddr:   make(map[string]model.Node),
		index:    pathindex.New(),
		slices:   make(map[string]*Slice),
	}

	var duplicates []string
	add := func(node model.Node) bool {
		if _, ok := w.byAddr[node.Address()]; ok {
			if !slices.Contains(duplicates, node.Address()) {
				duplicates = append(duplicates, node.Address())
			}
			return false
		}
		w.byAddr[node.Address()] = node
		w.nodes = append(w.nodes, node)
		return true
	}

	for _, node := range nodes {
		module, ok := node.(*model.ModuleNode)
		if !ok {
			add(node)
			continue
		}
		merged, err := module.Module.MergeDefaults(document.Definitions)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", module.Address(), err)
		}
		mergedNode := model.NewModuleNode(module.Address(), merged)
		if !add(mergedNode) {
			continue
		}

		var tests []*model.TestNode
		for variant, config := range merged.Variants.All() {
			for name, testConfig := range config.Tests.All() {
				test := model.NewTestNode(module.Address(), variant, name, testConfig)
				tests = append(tests, test)
				add(test)
			}
		}
		if err := w.index.Add(mergedNode, tests); err != nil {
			return nil, err
		}
	}
	if len(duplicates) > 0 {
		return nil, fmt.Errorf("Duplicate addresses added to FakeWorkspace: [%s]", strings.Join(duplicates, ", "))
	}

	for _, variant := range document.Variants() {
		w.slices[variant] = newSlice(variant, w)
	}
	return w, nil
}

func newSlice(variant string, w *Workspace) *Slice {
	s := &Slice{
		variant:   variant,
		workspace: w,
		deps:      make(map[string][]model.Edge),
		rdeps:     make(map[string][]model.Edge),
	}
	for _, node := range w.nodes {
		var declared []model.Dependency
		switch n := node.(type) {
		case *model.ModuleNode:
			if config, ok := n.Module.Variants.Get(variant); ok {
				declared = config.Deps
			}
		case *model.TestNode:
			if n.Variant() != variant {
				continue
			}
			declared = n.Config.Deps
		case *model.ExternalNode:
			continue
		}
		s.deps[node.Address()] = model.EdgesFrom(declared)
		for _, dep := range declared {
			if !hasSource(s.rdeps[dep.Target], node.Address()) {
				s.rdeps[dep.Target] = append(s.rdeps[dep.Target], model.Edge{Target: node.Address(), Tags: dep.Tags})
			}
		}
	}
	return s
}

// hasSource reports whether a reverse edge from source is already recorded.
func hasSource(edges []model.Edge, source string) bool {
	return slices.ContainsFunc(edges, func(e model.Edge) bool { return e.Target == source })
}

// Document implements model.Workspace.
func (w *Workspace) Document() model.WorkspaceDocument { return w.document }

// Variants implements model.Workspace.
func (w *Workspace) Variants() []string { return w.document.Variants() }

// Nodes implements model.Workspace.
func (w *Workspace) Nodes(context.Context) ([]model.Node, error) { return slices.Clone(w.nodes), nil }

// NodeAt implements model.Workspace.
func (w *Workspace) NodeAt(_ context.Context, address string) (model.Node, error) {
	if node, ok := w.byAddr[address]; ok {
		return node, nil
	}
	return nil, &model.NoSuchAddressError{Address: address}
}

// FindModule implements model.Workspace.
func (w *Workspace) FindModule(_ context.Context, path string) (*model.ModuleNode, error) {
	return w.index.FindModule(path), nil
}

// FindNode implements model.Workspace.
func (w *Workspace) FindNode(_ context.Context, path string) ([]model.FindResult, error) {
	return w.index.Find(path), nil
}

// Slice implements model.Workspace.
func (w *Workspace) Slice(variant string) (model.Slice, error) {
	s, ok := w.slices[variant]
	if !ok {
		return nil, fmt.Errorf("No such variant: %s: %w", variant, model.ErrUnknownVariant)
	}
	return s, nil
}

// Validate implements model.Workspace by validating every variant rooted at every node.
func (w *Workspace) Validate(ctx context.Context, validators []model.Validator) error {
	for _, variant := range w.Variants() {
		if err := w.slices[variant].Validate(ctx, validators, w.nodes...); err != nil {
			return err
		}
	}
	return nil
}

// Variant implements model.Slice.
func (s *Slice) Variant() string { return s.variant }

// Workspace implements model.Slice.
func (s *Slice) Workspace() model.Workspace { return s.workspace }

// NodeAt implements model.Slice.
func (s *Slice) NodeAt(ctx context.Context, address string) (model.Node, error) {
	return s.workspace.NodeAt(ctx, address)
}

// DependenciesOf implements model.Slice.
func (s *Slice) DependenciesOf(ctx context.Context, node model.Node) ([]model.Edge, error) {
	return s.DependenciesOfAddress(ctx, node.Address())
}

// DependenciesOfAddress implements model.Slice.
func (s *Slice) DependenciesOfAddress(_ context.Context, address string) ([]model.Edge, error) {
	return slices.Clone(s.deps[address]), nil
}

// DependenciesOn implements model.Slice.
func (s *Slice) DependenciesOn(ctx context.Context, node model.Node) ([]model.Edge, error) {
	return s.DependenciesOnAddress(ctx, node.Address())
}

// DependenciesOnAddress implements model.Slice.
func (s *Slice) DependenciesOnAddress(_ context.Context, address string) ([]model.Edge, error) {
	return slices.Clone(s.rdeps[address]), nil
}

// Validate implements model.Slice.
func (s *Slice) Validate(ctx context.Context, validators []model.Validator, roots ...model.Node) error {
	return model.RunValidators(ctx, validators, s.workspace, s, roots...)
}

// ValidateAddresses implements model.Slice.
func (s *Slice) ValidateAddresses(ctx context.Context, validators []model.Validator, roots ...string) error {
	nodes, err := model.ResolveAll(ctx, s, roots...)
	if err != nil {
		return err
	}
	return s.Validate(ctx, validators, nodes...)
}

var (
	_ model.Workspace = (*Workspace)(nil)
	_ model.Slice     = (*Slice)(nil)
)
