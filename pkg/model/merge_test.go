// SPDX-License-Identifier: MPL-2.0

package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() ModuleDocument {
	return ModuleDocument{
		Name:  "defaults",
		Tools: []string{"kotlin", "java"},
		Variants: OrderedMapOf(
			Entry[VariantConfiguration]{Key: "debug", Value: VariantConfiguration{
				Srcs: []string{"src/main/java", "src/debug/java"},
				Deps: []Dependency{Dep("/common")},
				Tests: OrderedMapOf(Entry[TestConfiguration]{Key: "unit", Value: TestConfiguration{
					Srcs:  []string{"src/test/java"},
					Deps:  []Dependency{Dep("/junit")},
					Tools: []string{"junit"},
				}}),
			}},
			Entry[VariantConfiguration]{Key: "release", Value: VariantConfiguration{
				Srcs: []string{"src/main/java", "src/release/java"},
			}},
		),
	}
}

func TestMergeDefaults(t *testing.T) {
	t.Parallel()

	module := ModuleDocument{
		Namespace: "com.example.a",
		Tools:     []string{"java", "protoc"},
		Variants: OrderedMapOf(
			Entry[VariantConfiguration]{Key: "debug", Value: VariantConfiguration{
				Deps: []Dependency{Dep("/b", "compile")},
				Tests: OrderedMapOf(Entry[TestConfiguration]{Key: "unit", Value: TestConfiguration{
					Deps:  []Dependency{Dep("/truth")},
					Tools: []string{"robolectric"},
				}}),
				Tools: []string{"lint"},
			}},
			Entry[VariantConfiguration]{Key: "staging", Value: VariantConfiguration{
				Srcs: []string{"src/staging"},
			}},
		),
	}

	merged, err := module.MergeDefaults(testDefaults())
	require.NoError(t, err)

	assert.True(t, merged.Complete)
	assert.Equal(t, "defaults", merged.Name)
	assert.Equal(t, "com.example.a", merged.Namespace)
	assert.Equal(t, []string{"kotlin", "java", "protoc"}, merged.Tools)
	assert.Equal(t, []string{"debug", "release", "staging"}, merged.Variants.Keys())

	debug, ok := merged.Variants.Get("debug")
	require.True(t, ok)
	assert.Equal(t, []string{"src/main/java", "src/debug/java"}, debug.Srcs, "srcs kept when the override declares none")
	assert.Equal(t, []Dependency{Dep("/common"), Dep("/b", "compile")}, debug.Deps)
	assert.Empty(t, debug.Tools, "variant tools are not carried through a merge")

	unit, ok := debug.Tests.Get("unit")
	require.True(t, ok)
	assert.Equal(t, []string{"src/test/java"}, unit.Srcs)
	assert.Equal(t, []Dependency{Dep("/junit"), Dep("/truth")}, unit.Deps)
	assert.Equal(t, []string{"junit", "robolectric"}, unit.Tools)

	staging, ok := merged.Variants.Get("staging")
	require.True(t, ok)
	assert.Equal(t, []string{"src/staging"}, staging.Srcs)
}

func TestMergeReplacesSrcsWhenOverridden(t *testing.T) {
	t.Parallel()

	module := ModuleDocument{Variants: OrderedMapOf(
		Entry[VariantConfiguration]{Key: "release", Value: VariantConfiguration{Srcs: []string{"src"}}},
	)}
	merged, err := module.MergeDefaults(testDefaults())
	require.NoError(t, err)

	release, _ := merged.Variants.Get("release")
	assert.Equal(t, []string{"src"}, release.Srcs)
}

func TestMergeDoesNotDeduplicateDeps(t *testing.T) {
	t.Parallel()

	module := ModuleDocument{Variants: OrderedMapOf(
		Entry[VariantConfiguration]{Key: "debug", Value: VariantConfiguration{Deps: []Dependency{Dep("/common", "runtime")}}},
	)}
	merged, err := module.MergeDefaults(testDefaults())
	require.NoError(t, err)

	debug, _ := merged.Variants.Get("debug")
	assert.Equal(t, []Dependency{Dep("/common"), Dep("/common", "runtime")}, debug.Deps)
}

func TestMergeDefaultsRejectsCompleteDocument(t *testing.T) {
	t.Parallel()

	merged, err := ModuleDocument{}.MergeDefaults(testDefaults())
	require.NoError(t, err)

	_, err = merged.MergeDefaults(testDefaults())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyComplete))
}

func TestMergeDoesNotAliasDefaults(t *testing.T) {
	t.Parallel()

	defaults := testDefaults()
	merged, err := ModuleDocument{}.MergeDefaults(defaults)
	require.NoError(t, err)

	debug, _ := merged.Variants.Get("debug")
	debug.Srcs[0] = "mutated"

	original, _ := defaults.Variants.Get("debug")
	assert.Equal(t, "src/main/java", original.Srcs[0])
}
