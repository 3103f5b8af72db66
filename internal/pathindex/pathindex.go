// SPDX-License-Identifier: MPL-2.0

// Package pathindex maps workspace-rooted filesystem paths to the module that
// owns them, and within a module to the variants and tests whose source roots
// contain them. It enforces that modules never nest.
package pathindex

import (
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/invowk/spice/pkg/model"
)

type (
	// Index is a segment-keyed trie of module addresses. It is safe for
	// concurrent use. Branches are only ever added, and a leaf is immutable
	// once installed.
	Index struct {
		mu   sync.RWMutex
		root *branch
		size int
	}

	branch struct {
		children map[string]*branch
		leaf     *leaf
	}

	// leaf is the terminal record of one module: the node plus the source
	// roots of its variants and tests, as workspace-rooted clean paths.
	leaf struct {
		module   *model.ModuleNode
		variants []sourceRoots[string]
		tests    []sourceRoots[*model.TestNode]
	}

	sourceRoots[T any] struct {
		owner T
		roots []string
	}
)

// New creates an empty index.
func New() *Index {
	return &Index{root: &branch{}}
}

// Add installs module and its tests at the module's address.
//
// It fails with an *model.InvalidAddressError when an ancestor of the address
// already holds a module, or when modules are already registered below it.
// Adding an equal module at the same address again is a no-op; adding a
// different one fails with an *model.InvalidGraphError.
func (x *Index) Add(module *model.ModuleNode, tests []*model.TestNode) error {
	address := module.Address()
	segments := model.PathSegments(address)

	x.mu.Lock()
	defer x.mu.Unlock()

	current := x.root
	for _, segment := range segments {
		if current.leaf != nil {
			return &model.InvalidAddressError{
				Address: address,
				Reason:  "Path is below existing address " + current.leaf.module.Address(),
			}
		}
		next, ok := current.children[segment]
		if !ok {
			// A fresh branch has nothing below it, so no later check can fail
			// after this point and leave a half-built chain behind.
			next = &branch{}
			if current.children == nil {
				current.children = make(map[string]*branch)
			}
			current.children[segment] = next
		}
		current = next
	}

	if current.leaf != nil {
		if model.NodesEqual(current.leaf.module, module) {
			return nil
		}
		return model.NewInvalidGraphError("Inconsistent reload of module %s", address)
	}
	if len(current.children) > 0 {
		children := make([]string, 0, len(current.children))
		for segment := range current.children {
			children = append(children, segment)
		}
		slices.Sort(children)
		return &model.InvalidAddressError{
			Address: address,
			Reason:  "Path is above existing addresses [" + strings.Join(children, ", ") + "]",
		}
	}

	current.leaf = newLeaf(module, tests)
	x.size++
	return nil
}

func newLeaf(module *model.ModuleNode, tests []*model.TestNode) *leaf {
	address := module.Address()
	l := &leaf{module: module}
	for variant, config := range module.Module.Variants.All() {
		l.variants = append(l.variants, sourceRoots[string]{owner: variant, roots: rootsOf(address, config.Srcs)})
	}
	for _, test := range tests {
		l.tests = append(l.tests, sourceRoots[*model.TestNode]{owner: test, roots: rootsOf(address, test.Config.Srcs)})
	}
	return l
}

func rootsOf(moduleAddress string, srcs []string) []string {
	roots := make([]string, 0, len(srcs))
	for _, src := range srcs {
		roots = append(roots, path.Join(moduleAddress, path.Clean(src)))
	}
	return roots
}

// Len returns the number of modules in the index.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.size
}

// FindModule returns the module containing p, or nil.
func (x *Index) FindModule(p string) *model.ModuleNode {
	if l := x.resolve(p); l != nil {
		return l.module
	}
	return nil
}

// Find classifies p within its owning module. Test source roots win over
// variant source roots, which win over the module as a whole. Overlapping
// roots yield several results of the same kind. Find returns nil when no
// module contains p.
func (x *Index) Find(p string) []model.FindResult {
	l := x.resolve(p)
	if l == nil {
		return nil
	}
	p = path.Clean(p)

	var results []model.FindResult
	for _, t := range l.tests {
		if underAny(p, t.roots) {
			results = append(results, model.TestResult{Test: t.owner})
		}
	}
	if len(results) > 0 {
		return results
	}
	for _, v := range l.variants {
		if underAny(p, v.roots) {
			results = append(results, model.VariantResult{Module: l.module, Variant: v.owner})
		}
	}
	if len(results) > 0 {
		return results
	}
	return []model.FindResult{model.GeneralResult{Module: l.module}}
}

// resolve walks p from the root and returns the first leaf on the way. By the
// no-nesting invariant no deeper leaf can exist.
func (x *Index) resolve(p string) *leaf {
	x.mu.RLock()
	defer x.mu.RUnlock()

	current := x.root
	for _, segment := range model.PathSegments(path.Clean(p)) {
		if current.leaf != nil {
			return current.leaf
		}
		next, ok := current.children[segment]
		if !ok {
			return nil
		}
		current = next
	}
	return current.leaf
}

// underAny reports whether p equals or lies below one of roots, segment-wise.
func underAny(p string, roots []string) bool {
	for _, root := range roots {
		if p == root || strings.HasPrefix(p, root+"/") || root == "/" {
			return true
		}
	}
	return false
}
