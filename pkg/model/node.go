// SPDX-License-Identifier: MPL-2.0

package model

import (
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type (
	// Node is a vertex in the build graph. The set of node kinds is closed:
	// every Node is exactly one of *ModuleNode, *TestNode or *ExternalNode,
	// and consumers are expected to switch over all three.
	//
	// A node's dependencies only exist in the context of a variant Slice.
	Node interface {
		// Address is the node's identifier in the workspace address space,
		// e.g. "/foo/bar", "/foo/bar:debug:unit" or "maven://foo.bar:baz".
		Address() string

		sealed()
	}

	// ModuleNode is a local module, addressed from the workspace root, carrying
	// its merged (complete) declaration. A module "contains" its variants and
	// tests, but tests are separate nodes.
	ModuleNode struct {
		address string
		// Module is the declaration of this module, merged with workspace defaults
		// when loaded by a workspace.
		Module ModuleDocument
	}

	// TestNode is a test target scoped to one module and one variant. Its address
	// is always <module>:<variant>:<name>, and the module part must resolve to a
	// ModuleNode in the same workspace.
	TestNode struct {
		address string
		// Config is the merged test configuration.
		Config TestConfiguration
	}

	// ExternalNode is an address outside the local workspace (e.g. a maven
	// artifact). It has no edges in this graph.
	ExternalNode struct {
		address string
	}
)

// declarationCmpOpts treats nil and empty collections as equal, since a loaded
// declaration and a hand-built one differ only in that respect.
var declarationCmpOpts = []cmp.Option{cmpopts.EquateEmpty()}

// NewModuleNode creates a module node for address with the given declaration.
func NewModuleNode(address string, module ModuleDocument) *ModuleNode {
	return &ModuleNode{address: address, Module: module}
}

// Address implements Node.
func (n *ModuleNode) Address() string { return n.address }

func (*ModuleNode) sealed() {}

// Path returns the address segments of the module ("/foo/bar" -> [foo bar]).
func (n *ModuleNode) Path() []string { return PathSegments(n.address) }

// Equal reports whether both nodes have the same address and an equal declaration.
func (n *ModuleNode) Equal(other *ModuleNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.address == other.address && cmp.Equal(n.Module, other.Module, declarationCmpOpts...)
}

// NewTestNode creates a test node for the named test of a module variant.
func NewTestNode(module, variant, name string, config TestConfiguration) *TestNode {
	return &TestNode{address: TestAddress(module, variant, name), Config: config}
}

// Address implements Node.
func (n *TestNode) Address() string { return n.address }

func (*TestNode) sealed() {}

// Module returns the address of the module that owns this test.
func (n *TestNode) Module() string { return n.part(0) }

// Variant returns the variant the test is declared under.
func (n *TestNode) Variant() string { return n.part(1) }

// Name returns the test name.
func (n *TestNode) Name() string { return n.part(2) }

func (n *TestNode) part(i int) string {
	parts := strings.SplitN(n.address, TestSeparator, 3)
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// Equal reports whether both test nodes have the same address and configuration.
func (n *TestNode) Equal(other *TestNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.address == other.address && cmp.Equal(n.Config, other.Config, declarationCmpOpts...)
}

// NewExternalNode creates an external node for address.
func NewExternalNode(address string) *ExternalNode {
	return &ExternalNode{address: address}
}

// Address implements Node.
func (n *ExternalNode) Address() string { return n.address }

func (*ExternalNode) sealed() {}

// NodesEqual compares two nodes of any kind structurally.
func NodesEqual(a, b Node) bool {
	switch x := a.(type) {
	case *ModuleNode:
		y, ok := b.(*ModuleNode)
		return ok && x.Equal(y)
	case *TestNode:
		y, ok := b.(*TestNode)
		return ok && x.Equal(y)
	case *ExternalNode:
		y, ok := b.(*ExternalNode)
		return ok && x.address == y.address
	default:
		return a == nil && b == nil
	}
}
