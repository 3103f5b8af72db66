// SPDX-License-Identifier: MPL-2.0

package fakeworkspace

import (
	"testing"

	"github.com/invowk/spice/pkg/model"
)

// Document returns a workspace document named "fake" whose definitions declare
// the given variants, each with src/main/java sources and a "unit" test rooted
// at src/test/java.
func Document(variants ...string) model.WorkspaceDocument {
	var declared model.OrderedMap[model.VariantConfiguration]
	for _, v := range variants {
		declared.Set(v, model.VariantConfiguration{
			Srcs: []string{"src/main/java"},
			Tests: model.OrderedMapOf(model.Entry[model.TestConfiguration]{
				Key:   "unit",
				Value: model.TestConfiguration{Srcs: []string{"src/test/java"}},
			}),
		})
	}
	return model.WorkspaceDocument{
		Name:        "fake",
		Definitions: model.ModuleDocument{Variants: declared},
	}
}

// Module returns an unmerged module node whose variant declares deps.
func Module(address, variant string, deps ...string) *model.ModuleNode {
	config := model.VariantConfiguration{}
	for _, d := range deps {
		config.Deps = append(config.Deps, model.Dep(d))
	}
	return model.NewModuleNode(address, model.ModuleDocument{
		Variants: model.OrderedMapOf(model.Entry[model.VariantConfiguration]{Key: variant, Value: config}),
	})
}

// MustNew is New for tests: it fails the test on error.
func MustNew(t testing.TB, document model.WorkspaceDocument, nodes ...model.Node) *Workspace {
	t.Helper()
	w, err := New(document, nodes...)
	if err != nil {
		t.Fatalf("failed to build fake workspace: %v", err)
	}
	return w
}

// MustSlice returns the slice for variant or fails the test.
func (w *Workspace) MustSlice(t testing.TB, variant string) model.Slice {
	t.Helper()
	s, err := w.Slice(variant)
	if err != nil {
		t.Fatalf("failed to slice %q: %v", variant, err)
	}
	return s
}

// MustNodeAt returns the node at address or fails the test.
func (w *Workspace) MustNodeAt(t testing.TB, address string) model.Node {
	t.Helper()
	n, ok := w.byAddr[address]
	if !ok {
		t.Fatalf("no node at %s", address)
	}
	return n
}
