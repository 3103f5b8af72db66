// SPDX-License-Identifier: MPL-2.0

// Package validation provides the graph invariant checks run against
// workspace slices: dependency cycles, dangling references, and tests used as
// dependencies.
package validation

import "github.com/invowk/spice/pkg/model"

// Standard returns the validators every workspace is expected to pass, in the
// order they should run. Completeness runs first so that later validators can
// assume every reachable address resolves.
func Standard() []model.Validator {
	return []model.Validator{Completeness{}, DependencyCycle{}, TestLeaf{}}
}

// ByName returns the validators with the given names ("completeness", "cycle",
// "test-leaf"), in the order given. Unknown names are reported in missing.
func ByName(names ...string) (validators []model.Validator, missing []string) {
	for _, name := range names {
		switch name {
		case "completeness":
			validators = append(validators, Completeness{})
		case "cycle":
			validators = append(validators, DependencyCycle{})
		case "test-leaf":
			validators = append(validators, TestLeaf{})
		default:
			missing = append(missing, name)
		}
	}
	return validators, missing
}
