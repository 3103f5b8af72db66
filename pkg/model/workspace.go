// SPDX-License-Identifier: MPL-2.0

package model

import (
	"context"
	"fmt"
)

type (
	// Workspace is the supergraph of every module, test and variant declared
	// under one workspace root. Address lookup, path lookup and slicing start
	// here; dependency queries happen on a Slice.
	//
	// Implementations decide how much state they load up front. Operations
	// marked whole-graph may load every module before answering.
	Workspace interface {
		// Document returns the workspace declaration.
		Document() WorkspaceDocument
		// Variants lists the declared variants in declaration order.
		Variants() []string
		// Nodes returns every module and test node in the workspace. Whole-graph.
		Nodes(ctx context.Context) ([]Node, error)
		// Validate runs validators against every variant slice, rooted at every
		// node. Whole-graph.
		Validate(ctx context.Context, validators []Validator) error
		// NodeAt resolves an address to its node. The owning module of a test
		// address is loaded before the test is looked up.
		NodeAt(ctx context.Context, address string) (Node, error)
		// FindNode returns every result the workspace-rooted path belongs to.
		// All results belong to the same module.
		FindNode(ctx context.Context, path string) ([]FindResult, error)
		// FindModule returns the module containing the workspace-rooted path,
		// or nil when no module contains it.
		FindModule(ctx context.Context, path string) (*ModuleNode, error)
		// Slice returns the view of the graph for one variant.
		Slice(variant string) (Slice, error)
	}

	// Slice is a variant-scoped view of a workspace and the place where all
	// edge queries happen. A slice never answers with a partial edge set: it
	// loads what it needs or fails.
	Slice interface {
		Variant() string
		Workspace() Workspace
		// NodeAt is Workspace.NodeAt, located here for convenience.
		NodeAt(ctx context.Context, address string) (Node, error)
		// DependenciesOf returns the edges whose source is node.
		DependenciesOf(ctx context.Context, node Node) ([]Edge, error)
		// DependenciesOfAddress resolves address and returns its outgoing edges.
		DependenciesOfAddress(ctx context.Context, address string) ([]Edge, error)
		// DependenciesOn returns the edges whose target is node. Edge.Target in
		// the result is the dependent address.
		DependenciesOn(ctx context.Context, node Node) ([]Edge, error)
		// DependenciesOnAddress returns the edges whose target is address,
		// without requiring address itself to resolve.
		DependenciesOnAddress(ctx context.Context, address string) ([]Edge, error)
		// Validate applies validators, in order, to the subgraph reachable from roots.
		Validate(ctx context.Context, validators []Validator, roots ...Node) error
		// ValidateAddresses resolves roots and then behaves like Validate.
		ValidateAddresses(ctx context.Context, validators []Validator, roots ...string) error
	}

	// Validator checks one graph invariant for the subgraph reachable from roots
	// in a slice. It returns an error describing every violation it found, or nil.
	Validator interface {
		Validate(ctx context.Context, ws Workspace, slice Slice, roots ...Node) error
	}

	// ValidatorFunc adapts a function to the Validator interface.
	ValidatorFunc func(ctx context.Context, ws Workspace, slice Slice, roots ...Node) error
)

// Validate implements Validator.
func (f ValidatorFunc) Validate(ctx context.Context, ws Workspace, slice Slice, roots ...Node) error {
	return f(ctx, ws, slice, roots...)
}

// RunValidators applies validators to roots in order and stops at the first failure.
func RunValidators(ctx context.Context, validators []Validator, ws Workspace, slice Slice, roots ...Node) error {
	for _, v := range validators {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.Validate(ctx, ws, slice, roots...); err != nil {
			return err
		}
	}
	return nil
}

// ResolveAll resolves every address through the slice, failing on the first
// address that cannot be resolved.
func ResolveAll(ctx context.Context, slice Slice, addresses ...string) ([]Node, error) {
	nodes := make([]Node, 0, len(addresses))
	for _, address := range addresses {
		node, err := slice.NodeAt(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("resolve root %s: %w", address, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
