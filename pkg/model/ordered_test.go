// SPDX-License-Identifier: MPL-2.0

package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOrderedMapKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	var m OrderedMap[int]
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("zeta", 3)

	assert.Equal(t, []string{"zeta", "alpha"}, m.Keys())
	v, ok := m.Get("zeta")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestVariantConfigurationYAML(t *testing.T) {
	t.Parallel()

	const src = `
srcs: [src/main/java]
deps:
  - /a
  - /b: [compile, runtime]
tests:
  unit:
    srcs: [src/test/java]
  smoke:
`
	var v VariantConfiguration
	require.NoError(t, yaml.Unmarshal([]byte(src), &v))

	assert.Equal(t, []Dependency{Dep("/a"), Dep("/b", "compile", "runtime")}, v.Deps)
	assert.Equal(t, []string{"unit", "smoke"}, v.Tests.Keys())
	smoke, ok := v.Tests.Get("smoke")
	require.True(t, ok)
	assert.Empty(t, smoke.Srcs)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- /a\n")
	assert.Contains(t, string(out), "- /b: [compile, runtime]\n")

	var back VariantConfiguration
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, NodesEqual(
		NewModuleNode("/x", ModuleDocument{Variants: OrderedMapOf(Entry[VariantConfiguration]{Key: "v", Value: v})}),
		NewModuleNode("/x", ModuleDocument{Variants: OrderedMapOf(Entry[VariantConfiguration]{Key: "v", Value: back})}),
	))
}

func TestDependencyRejectsMultiEntryMapping(t *testing.T) {
	t.Parallel()

	var deps []Dependency
	err := yaml.Unmarshal([]byte("- {/a: [x], /b: [y]}\n"), &deps)
	assert.Error(t, err)
}

func TestOrderedMapJSON(t *testing.T) {
	t.Parallel()

	m := OrderedMapOf(Entry[string]{Key: "b", Value: "1"}, Entry[string]{Key: "a", Value: "2"})
	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":"1","a":"2"}`, string(out))
	assert.Less(t, strings.Index(string(out), `"b"`), strings.Index(string(out), `"a"`))

	var back OrderedMap[string]
	require.NoError(t, json.Unmarshal([]byte(`{"z":"1","y":"2","x":"3"}`), &back))
	assert.Equal(t, []string{"z", "y", "x"}, back.Keys())

	var empty OrderedMap[string]
	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestOrderedMapEqual(t *testing.T) {
	t.Parallel()

	ab := OrderedMapOf(Entry[[]string]{Key: "a", Value: nil}, Entry[[]string]{Key: "b", Value: []string{"x"}})
	same := OrderedMapOf(Entry[[]string]{Key: "a", Value: []string{}}, Entry[[]string]{Key: "b", Value: []string{"x"}})
	ba := OrderedMapOf(Entry[[]string]{Key: "b", Value: []string{"x"}}, Entry[[]string]{Key: "a", Value: nil})

	assert.True(t, ab.Equal(same), "nil and empty values compare equal")
	assert.False(t, ab.Equal(ba), "order matters")
	assert.True(t, OrderedMap[int]{}.Equal(OrderedMapOf[int]()))
	assert.Zero(t, OrderedMap[int]{}.Len())
	assert.Empty(t, OrderedMap[int]{}.Keys())
}

func TestOrderedMapNullYAML(t *testing.T) {
	t.Parallel()

	var doc struct {
		Tests OrderedMap[TestConfiguration] `yaml:"tests"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("tests:\n"), &doc))
	assert.Zero(t, doc.Tests.Len())

	require.Error(t, yaml.Unmarshal([]byte("tests: [a, b]\n"), &doc))
}
