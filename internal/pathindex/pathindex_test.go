// SPDX-License-Identifier: MPL-2.0

package pathindex

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invowk/spice/pkg/model"
)

func variants(entries ...model.Entry[model.VariantConfiguration]) model.OrderedMap[model.VariantConfiguration] {
	return model.OrderedMapOf(entries...)
}

func variant(name string, srcs ...string) model.Entry[model.VariantConfiguration] {
	return model.Entry[model.VariantConfiguration]{Key: name, Value: model.VariantConfiguration{Srcs: srcs}}
}

func moduleA() (*model.ModuleNode, []*model.TestNode) {
	module := model.NewModuleNode("/a", model.ModuleDocument{Variants: variants(
		variant("debug", "src/main/java", "src/debug/java"),
		variant("release", "src/main/java", "src/release/java"),
	)})
	tests := []*model.TestNode{
		model.NewTestNode("/a", "debug", "unit", model.TestConfiguration{Srcs: []string{"src/test/java"}}),
		model.NewTestNode("/a", "release", "unit", model.TestConfiguration{Srcs: []string{"src/test/java"}}),
		// Overlaps the variant roots on purpose.
		model.NewTestNode("/a", "debug", "golden", model.TestConfiguration{Srcs: []string{"src/main/java/golden"}}),
	}
	return module, tests
}

func TestAddIsIdempotentForEqualNodes(t *testing.T) {
	t.Parallel()

	x := New()
	module, tests := moduleA()
	require.NoError(t, x.Add(module, tests))

	again, againTests := moduleA()
	require.NoError(t, x.Add(again, againTests))
	assert.Equal(t, 1, x.Len())
}

func TestAddRejectsInconsistentReload(t *testing.T) {
	t.Parallel()

	x := New()
	module, tests := moduleA()
	require.NoError(t, x.Add(module, tests))

	changed := model.NewModuleNode("/a", model.ModuleDocument{Name: "changed"})
	err := x.Add(changed, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidGraph)
	assert.Same(t, module, x.FindModule("/a/BUILD"))
}

func TestAddRejectsNesting(t *testing.T) {
	t.Parallel()

	pairs := []struct{ outer, inner string }{
		{"/a", "/a/b"},
		{"/a/b", "/a/b/c/d"},
		{"/x", "/x/y/z"},
	}
	for _, p := range pairs {
		t.Run(fmt.Sprintf("%s above %s", p.outer, p.inner), func(t *testing.T) {
			t.Parallel()

			outerFirst := New()
			require.NoError(t, outerFirst.Add(model.NewModuleNode(p.outer, model.ModuleDocument{}), nil))
			err := outerFirst.Add(model.NewModuleNode(p.inner, model.ModuleDocument{}), nil)
			var invalid *model.InvalidAddressError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, p.inner, invalid.Address)
			assert.Equal(t, "Path is below existing address "+p.outer, invalid.Reason)

			innerFirst := New()
			require.NoError(t, innerFirst.Add(model.NewModuleNode(p.inner, model.ModuleDocument{}), nil))
			err = innerFirst.Add(model.NewModuleNode(p.outer, model.ModuleDocument{}), nil)
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, p.outer, invalid.Address)
			assert.Contains(t, invalid.Reason, "Path is above existing addresses [")
		})
	}
}

func TestAddReportsChildSegments(t *testing.T) {
	t.Parallel()

	x := New()
	require.NoError(t, x.Add(model.NewModuleNode("/c/e", model.ModuleDocument{}), nil))
	require.NoError(t, x.Add(model.NewModuleNode("/c/d/f", model.ModuleDocument{}), nil))

	err := x.Add(model.NewModuleNode("/c", model.ModuleDocument{}), nil)
	require.Error(t, err)
	assert.EqualError(t, err, "Unsupported address: /c (Path is above existing addresses [d, e])")
}

func TestSiblingsWithSharedPrefixDoNotConflict(t *testing.T) {
	t.Parallel()

	x := New()
	require.NoError(t, x.Add(model.NewModuleNode("/group1/e", model.ModuleDocument{}), nil))
	require.NoError(t, x.Add(model.NewModuleNode("/group1/f", model.ModuleDocument{}), nil))
	require.NoError(t, x.Add(model.NewModuleNode("/group10", model.ModuleDocument{}), nil))
	assert.Equal(t, 3, x.Len())
}

func TestFindSpecificity(t *testing.T) {
	t.Parallel()

	x := New()
	module, tests := moduleA()
	require.NoError(t, x.Add(module, tests))

	t.Run("shared variant root", func(t *testing.T) {
		t.Parallel()
		results := x.Find("/a/src/main/java/com/example/A.java")
		assert.Equal(t, []model.FindResult{
			model.VariantResult{Module: module, Variant: "debug"},
			model.VariantResult{Module: module, Variant: "release"},
		}, results)
	})

	t.Run("single variant root", func(t *testing.T) {
		t.Parallel()
		results := x.Find("/a/src/debug/java")
		assert.Equal(t, []model.FindResult{model.VariantResult{Module: module, Variant: "debug"}}, results)
	})

	t.Run("test root wins over variant root", func(t *testing.T) {
		t.Parallel()
		results := x.Find("/a/src/main/java/golden/Golden.java")
		assert.Equal(t, []model.FindResult{model.TestResult{Test: tests[2]}}, results)
	})

	t.Run("overlapping test roots", func(t *testing.T) {
		t.Parallel()
		results := x.Find("/a/src/test/java")
		assert.Equal(t, []model.FindResult{
			model.TestResult{Test: tests[0]},
			model.TestResult{Test: tests[1]},
		}, results)
	})

	t.Run("general", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []model.FindResult{model.GeneralResult{Module: module}}, x.Find("/a/module.spice.yml"))
		assert.Equal(t, []model.FindResult{model.GeneralResult{Module: module}}, x.Find("/a"))
	})

	t.Run("root prefix is segment aware", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []model.FindResult{model.GeneralResult{Module: module}}, x.Find("/a/src/main/javascript"))
	})

	t.Run("outside any module", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, x.Find("/b/src"))
		assert.Nil(t, x.Find("/"))
		assert.Nil(t, x.FindModule("/b"))
	})
}

func TestConcurrentAdd(t *testing.T) {
	t.Parallel()

	x := New()
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			address := fmt.Sprintf("/group%d/m%d", i%4, i%16)
			assert.NoError(t, x.Add(model.NewModuleNode(address, model.ModuleDocument{}), nil))
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, x.Len())
}
