// SPDX-License-Identifier: MPL-2.0

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTestAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address string
		want    bool
	}{
		{"/a:debug:unit", true},
		{"/group1/e:release:ui-tests", true},
		{"/a:v2:test_0", true},
		{"/a", false},
		{"a:debug:unit", false},
		{"/a:debug", false},
		{"/a:debug:unit:extra", false},
		{"/a:de.bug:unit", false},
		{"maven://com.squareup:foo", false},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTestAddress(tt.address))
		})
	}
}

func TestIsExternalAddress(t *testing.T) {
	t.Parallel()

	assert.True(t, IsExternalAddress("maven://com.squareup:foo"))
	assert.False(t, IsExternalAddress("/a"))
	assert.False(t, IsExternalAddress("://nothing"))
	assert.False(t, IsExternalAddress("/a/b://c"))
}

func TestTestNodeParts(t *testing.T) {
	t.Parallel()

	node := NewTestNode("/group1/e", "debug", "unit", TestConfiguration{})
	assert.Equal(t, "/group1/e:debug:unit", node.Address())
	assert.Equal(t, "/group1/e", node.Module())
	assert.Equal(t, "debug", node.Variant())
	assert.Equal(t, "unit", node.Name())
	assert.Equal(t, "/group1/e", ModuleOf(node.Address()))
}

func TestPathSegments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, PathSegments("/a/b/c/"))
	assert.Nil(t, PathSegments("/"))
}

func TestNodesEqual(t *testing.T) {
	t.Parallel()

	doc := ModuleDocument{Name: "a", Variants: OrderedMapOf(
		Entry[VariantConfiguration]{Key: "main", Value: VariantConfiguration{Srcs: []string{"src"}}},
	)}
	same := ModuleDocument{Name: "a", Tools: []string{}, Variants: OrderedMapOf(
		Entry[VariantConfiguration]{Key: "main", Value: VariantConfiguration{Srcs: []string{"src"}, Deps: []Dependency{}}},
	)}
	other := ModuleDocument{Name: "b"}

	assert.True(t, NodesEqual(NewModuleNode("/a", doc), NewModuleNode("/a", same)))
	assert.False(t, NodesEqual(NewModuleNode("/a", doc), NewModuleNode("/a", other)))
	assert.False(t, NodesEqual(NewModuleNode("/a", doc), NewModuleNode("/b", doc)))
	assert.False(t, NodesEqual(NewModuleNode("/a", doc), NewExternalNode("/a")))
	assert.True(t, NodesEqual(NewExternalNode("maven://x:y"), NewExternalNode("maven://x:y")))
}
