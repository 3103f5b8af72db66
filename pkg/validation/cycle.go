// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"
	"log/slog"
	"slices"

	"github.com/invowk/spice/pkg/model"
)

// DependencyCycle fails when a dependency cycle is reachable from the roots.
// It walks depth-first, keeping the addresses on the current path and the
// addresses already proven acyclic.
type DependencyCycle struct{}

type cycleState struct {
	slice     model.Slice
	validated map[string]struct{}
	onPath    map[string]struct{}
	path      []string
}

// Validate implements model.Validator.
func (DependencyCycle) Validate(ctx context.Context, _ model.Workspace, slice model.Slice, roots ...model.Node) error {
	state := &cycleState{
		slice:     slice,
		validated: make(map[string]struct{}),
		onPath:    make(map[string]struct{}),
	}
	for _, root := range roots {
		if err := state.check(ctx, root); err != nil {
			return err
		}
	}
	slog.Debug("no dependency cycles", "variant", slice.Variant(), "nodes", len(state.validated))
	return nil
}

func (s *cycleState) check(ctx context.Context, node model.Node) error {
	address := node.Address()
	if _, ok := s.validated[address]; ok {
		return nil
	}
	if _, ok := s.onPath[address]; ok {
		return &model.CyclicReferenceError{
			Variant: s.slice.Variant(),
			Address: address,
			Path:    append(slices.Clone(s.path), address),
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.onPath[address] = struct{}{}
	s.path = append(s.path, address)

	edges, err := s.slice.DependenciesOf(ctx, node)
	if err != nil {
		return err
	}
	for _, edge := range edges {
		next, err := s.slice.NodeAt(ctx, edge.Target)
		if err != nil {
			return err
		}
		if err := s.check(ctx, next); err != nil {
			return err
		}
	}

	s.path = s.path[:len(s.path)-1]
	delete(s.onPath, address)
	s.validated[address] = struct{}{}
	return nil
}
