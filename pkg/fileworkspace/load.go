// SPDX-License-Identifier: MPL-2.0

package fileworkspace

import (
	"context"
	"errors"
	"os"

	"github.com/invowk/spice/internal/telemetry"
	"github.com/invowk/spice/pkg/model"
	"github.com/invowk/spice/pkg/serialization"
)

// load materializes the module at address: its declaration is read, parsed
// and merged with the workspace defaults, its tests are derived, the module
// is inserted into the path index and its edges are registered with every
// variant slice. Graph errors propagate unchanged; anything else becomes a
// NoSuchAddressError.
func (w *Workspace) load(ctx context.Context, address string) (*model.ModuleNode, error) {
	module, tests, err := w.materialize(ctx, address)
	if err != nil {
		if errors.Is(err, model.ErrInvalidGraph) {
			return nil, err
		}
		return nil, &model.NoSuchAddressError{Address: address, Cause: err}
	}
	for _, test := range tests {
		w.nodes.LoadOrStore(test.Address(), test)
	}
	w.opts.logger.Debug("loaded module", "address", address, "variants", module.Module.Variants.Len(), "tests", len(tests))
	return module, nil
}

func (w *Workspace) materialize(ctx context.Context, address string) (*model.ModuleNode, []*model.TestNode, error) {
	file := w.scanner.ModuleFile(address)

	var data []byte
	err := w.opts.recorder.Trace(ctx, telemetry.PhaseRead, address, func(context.Context) error {
		var err error
		data, err = os.ReadFile(file)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var document model.ModuleDocument
	err = w.opts.recorder.Trace(ctx, telemetry.PhaseParse, address, func(context.Context) error {
		var err error
		document, err = serialization.UnmarshalModule(data, file)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	merged, err := document.MergeDefaults(w.document.Definitions)
	if err != nil {
		return nil, nil, err
	}
	module := model.NewModuleNode(address, merged)

	type registration struct {
		slice   *Slice
		address string
		deps    []model.Dependency
	}
	var (
		tests         []*model.TestNode
		registrations []registration
	)
	for variant, config := range merged.Variants.All() {
		slice, err := w.slice(variant)
		if err != nil {
			return nil, nil, err
		}
		registrations = append(registrations, registration{slice, address, config.Deps})
		for name, testConfig := range config.Tests.All() {
			test := model.NewTestNode(address, variant, name, testConfig)
			tests = append(tests, test)
			registrations = append(registrations, registration{slice, test.Address(), testConfig.Deps})
		}
	}

	err = w.opts.recorder.Trace(ctx, telemetry.PhaseIndex, address, func(context.Context) error {
		return w.index.Add(module, tests)
	})
	if err != nil {
		return nil, nil, err
	}
	for _, r := range registrations {
		r.slice.registerDeps(r.address, r.deps, w.opts.localOnly)
	}
	return module, tests, nil
}
