// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/invowk/spice/pkg/model"
	"github.com/invowk/spice/pkg/traversal"
)

// Completeness fails when any address reachable from the roots cannot be
// resolved. Every missing address is reported once, together with the
// addresses that depend on it, after the whole reachable graph is walked.
type Completeness struct{}

// Validate implements model.Validator.
func (Completeness) Validate(ctx context.Context, _ model.Workspace, slice model.Slice, roots ...model.Node) error {
	var missing []model.MissingReference
	walker := traversal.NewForward(nil, traversal.WithNodeError(
		func(ctx context.Context, slice model.Slice, address string, err error) (model.Node, error) {
			if !errors.Is(err, model.ErrNoSuchAddress) {
				return nil, err
			}
			referrers, rerr := slice.DependenciesOnAddress(ctx, address)
			if rerr != nil {
				return nil, rerr
			}
			missing = append(missing, model.MissingReference{
				Address:      address,
				ReferencedBy: uniqueTargets(referrers),
			})
			return nil, nil
		}))
	if err := walker.Walk(ctx, slice, roots...); err != nil {
		return err
	}
	if len(missing) > 0 {
		return &model.IncompleteGraphError{Missing: missing}
	}
	slog.Debug("graph complete", "variant", slice.Variant(), "roots", len(roots))
	return nil
}

func uniqueTargets(edges []model.Edge) []string {
	seen := make(map[string]struct{}, len(edges))
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.Target]; ok {
			continue
		}
		seen[e.Target] = struct{}{}
		out = append(out, e.Target)
	}
	return out
}
