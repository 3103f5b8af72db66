// SPDX-License-Identifier: MPL-2.0

package traversal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invowk/spice/internal/testutil/fakeworkspace"
	"github.com/invowk/spice/pkg/model"
)

// diamond is /a -> /b, /c and /b, /c -> /d.
func diamond(t *testing.T) (*fakeworkspace.Workspace, model.Slice) {
	t.Helper()
	ws := fakeworkspace.MustNew(t, fakeworkspace.Document("main"),
		fakeworkspace.Module("/a", "main", "/b", "/c"),
		fakeworkspace.Module("/b", "main", "/d"),
		fakeworkspace.Module("/c", "main", "/d"),
		fakeworkspace.Module("/d", "main"),
	)
	return ws, ws.MustSlice(t, "main")
}

func addresses(t *testing.T, walk func(VisitFunc) *Walker, slice model.Slice, roots ...model.Node) []string {
	t.Helper()
	var visited []string
	err := walk(func(n model.Node) error {
		visited = append(visited, n.Address())
		return nil
	}).Walk(context.Background(), slice, roots...)
	require.NoError(t, err)
	return visited
}

func forward(opts ...Option) func(VisitFunc) *Walker {
	return func(v VisitFunc) *Walker { return NewForward(v, opts...) }
}

func reverse(opts ...Option) func(VisitFunc) *Walker {
	return func(v VisitFunc) *Walker { return NewReverse(v, opts...) }
}

func TestForwardWalkIsBreadthFirst(t *testing.T) {
	t.Parallel()
	ws, slice := diamond(t)

	got := addresses(t, forward(), slice, ws.MustNodeAt(t, "/a"))
	assert.Equal(t, []string{"/a", "/b", "/c", "/d"}, got)
}

func TestReverseWalk(t *testing.T) {
	t.Parallel()
	ws, slice := diamond(t)

	got := addresses(t, reverse(), slice, ws.MustNodeAt(t, "/d"))
	assert.Equal(t, []string{"/d", "/b", "/c", "/a"}, got)
}

func TestWalkVisitsSharedRootsOnce(t *testing.T) {
	t.Parallel()
	ws, slice := diamond(t)

	got := addresses(t, forward(), slice, ws.MustNodeAt(t, "/b"), ws.MustNodeAt(t, "/c"), ws.MustNodeAt(t, "/b"))
	assert.Equal(t, []string{"/b", "/c", "/d"}, got)
}

func TestWalkTerminatesOnCycles(t *testing.T) {
	t.Parallel()
	ws := fakeworkspace.MustNew(t, fakeworkspace.Document("main"),
		fakeworkspace.Module("/x", "main", "/y"),
		fakeworkspace.Module("/y", "main", "/x", "/y"),
	)

	got := addresses(t, forward(), ws.MustSlice(t, "main"), ws.MustNodeAt(t, "/x"))
	assert.Equal(t, []string{"/x", "/y"}, got)
}

func TestVisitErrorStopsWalk(t *testing.T) {
	t.Parallel()
	ws, slice := diamond(t)
	stop := errors.New("stop")

	var visited []string
	err := NewForward(func(n model.Node) error {
		visited = append(visited, n.Address())
		if n.Address() == "/b" {
			return stop
		}
		return nil
	}).Walk(context.Background(), slice, ws.MustNodeAt(t, "/a"))

	require.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"/a", "/b"}, visited)
}

func TestNodeErrorHook(t *testing.T) {
	t.Parallel()
	ws := fakeworkspace.MustNew(t, fakeworkspace.Document("main"),
		fakeworkspace.Module("/a", "main", "/missing", "/b"),
		fakeworkspace.Module("/b", "main", "/gone"),
	)
	slice := ws.MustSlice(t, "main")
	root := ws.MustNodeAt(t, "/a")

	t.Run("propagates by default", func(t *testing.T) {
		t.Parallel()
		err := NewForward(nil).Walk(context.Background(), slice, root)
		var noSuch *model.NoSuchAddressError
		require.ErrorAs(t, err, &noSuch)
		assert.Equal(t, "/missing", noSuch.Address)
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		var missing []string
		skip := WithNodeError(func(_ context.Context, _ model.Slice, address string, err error) (model.Node, error) {
			if errors.Is(err, model.ErrNoSuchAddress) {
				missing = append(missing, address)
				return nil, nil
			}
			return nil, err
		})
		got := addresses(t, forward(skip), slice, root)
		assert.Equal(t, []string{"/a", "/b"}, got)
		assert.Equal(t, []string{"/missing", "/gone"}, missing)
	})

	t.Run("substitute", func(t *testing.T) {
		t.Parallel()
		external := WithNodeError(func(_ context.Context, _ model.Slice, address string, _ error) (model.Node, error) {
			return model.NewExternalNode("maven://stub" + address), nil
		})
		got := addresses(t, forward(external), slice, root)
		assert.Equal(t, []string{"/a", "maven://stub/missing", "/b", "maven://stub/gone"}, got)
	})
}

// failingSlice fails to list the dependencies of one address.
type failingSlice struct {
	model.Slice
	address string
	err     error
}

func (s failingSlice) DependenciesOf(ctx context.Context, node model.Node) ([]model.Edge, error) {
	if node.Address() == s.address {
		return nil, s.err
	}
	return s.Slice.DependenciesOf(ctx, node)
}

func TestEdgeErrorHook(t *testing.T) {
	t.Parallel()
	ws, slice := diamond(t)
	broken := errors.New("broken")
	failing := failingSlice{Slice: slice, address: "/b", err: broken}
	root := ws.MustNodeAt(t, "/a")

	t.Run("propagates by default", func(t *testing.T) {
		t.Parallel()
		err := NewForward(nil).Walk(context.Background(), failing, root)
		require.ErrorIs(t, err, broken)
	})

	t.Run("replacement targets", func(t *testing.T) {
		t.Parallel()
		replace := WithEdgeError(func(_ context.Context, _ model.Slice, node model.Node, _ error) ([]string, error) {
			return nil, nil
		})
		got := addresses(t, forward(replace), failing, root)
		assert.Equal(t, []string{"/a", "/b", "/c", "/d"}, got)

		got = addresses(t, forward(replace), failing, ws.MustNodeAt(t, "/b"))
		assert.Equal(t, []string{"/b"}, got)
	})
}

func TestWalkHonorsCancellation(t *testing.T) {
	t.Parallel()
	ws, slice := diamond(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewForward(nil).Walk(ctx, slice, ws.MustNodeAt(t, "/a"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCustomEdgeFunc(t *testing.T) {
	t.Parallel()
	ws, slice := diamond(t)

	// Only the first dependency of each node.
	first := func(ctx context.Context, s model.Slice, n model.Node) ([]model.Edge, error) {
		edges, err := Forward(ctx, s, n)
		if len(edges) > 1 {
			edges = edges[:1]
		}
		return edges, err
	}
	got := addresses(t, func(v VisitFunc) *Walker { return New(first, v) }, slice, ws.MustNodeAt(t, "/a"))
	assert.Equal(t, []string{"/a", "/b", "/d"}, got)
}
