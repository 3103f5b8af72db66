// SPDX-License-Identifier: MPL-2.0

package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/invowk/spice/pkg/model"
)

// TestLeaf checks the whole workspace: every test node must have a
// module:variant:test address, and no test may be the target of a dependency
// in the slice. The roots are ignored.
type TestLeaf struct{}

// Validate implements model.Validator.
func (TestLeaf) Validate(ctx context.Context, ws model.Workspace, slice model.Slice, _ ...model.Node) error {
	nodes, err := ws.Nodes(ctx)
	if err != nil {
		return err
	}
	var tests []*model.TestNode
	for _, node := range nodes {
		if test, ok := node.(*model.TestNode); ok {
			tests = append(tests, test)
		}
	}

	var malformed strings.Builder
	for _, test := range tests {
		if !model.IsTestAddress(test.Address()) {
			fmt.Fprintf(&malformed, "  - %s\n", test.Address())
		}
	}
	if malformed.Len() > 0 {
		return model.NewInvalidGraphError("InvalidGraph: Test nodes have invalid addresses:\n%s", malformed.String())
	}

	var dependants strings.Builder
	seen := make(map[[2]string]struct{})
	for _, test := range tests {
		edges, err := slice.DependenciesOn(ctx, test)
		if err != nil {
			return err
		}
		for _, edge := range edges {
			pair := [2]string{edge.Target, test.Address()}
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			fmt.Fprintf(&dependants, "  %s -> %s\n", pair[0], pair[1])
		}
	}
	if dependants.Len() > 0 {
		return model.NewInvalidGraphError("InvalidGraph: Tests may not be the target of a dependency:\n%s", dependants.String())
	}
	return nil
}
