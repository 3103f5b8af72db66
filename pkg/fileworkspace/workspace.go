// SPDX-License-Identifier: MPL-2.0

package fileworkspace

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/invowk/spice/internal/discovery"
	"github.com/invowk/spice/internal/pathindex"
	"github.com/invowk/spice/internal/telemetry"
	"github.com/invowk/spice/pkg/model"
	"github.com/invowk/spice/pkg/serialization"
)

// fullLoadKey is the singleflight key for full loads. It cannot collide with
// an address, which always starts with "/".
const fullLoadKey = "\x00all"

// Workspace is a model.Workspace backed by declaration files on disk.
type Workspace struct {
	document model.WorkspaceDocument
	file     string
	opts     options
	scanner  *discovery.Scanner
	index    *pathindex.Index
	slices   map[string]*Slice

	nodes       sync.Map // address -> model.Node
	loads       singleflight.Group
	fullyLoaded atomic.Bool
}

// Open reads the workspace declaration at path, which is either the
// declaration file itself or the directory holding it. No module is loaded.
func Open(ctx context.Context, path string, opts ...Option) (*Workspace, error) {
	o := applyOptions(opts...)

	file := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		file = filepath.Join(path, o.workspaceFileName)
	}
	file, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace path %s: %w", path, err)
	}

	var document model.WorkspaceDocument
	err = o.recorder.Trace(ctx, telemetry.PhaseWorkspace, "/", func(context.Context) error {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read workspace file: %w", err)
		}
		document, err = serialization.UnmarshalWorkspace(data, file)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newWorkspace(document, file, o), nil
}

func newWorkspace(document model.WorkspaceDocument, file string, o options) *Workspace {
	w := &Workspace{
		document: document,
		file:     file,
		opts:     o,
		scanner: discovery.New(filepath.Dir(file),
			discovery.WithModuleFileName(o.moduleFileName),
			discovery.WithWorkspaceFileName(o.workspaceFileName),
			discovery.WithFollowSymlinks(o.followSymlinks),
			discovery.WithLogger(o.logger),
		),
		index:  pathindex.New(),
		slices: make(map[string]*Slice),
	}
	for _, variant := range document.Variants() {
		w.slices[variant] = newSlice(variant, w)
	}
	return w
}

// File returns the absolute path of the workspace declaration file.
func (w *Workspace) File() string { return w.file }

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.scanner.Root() }

// Document implements model.Workspace.
func (w *Workspace) Document() model.WorkspaceDocument { return w.document }

// Variants implements model.Workspace.
func (w *Workspace) Variants() []string { return w.document.Variants() }

// FullyLoaded reports whether the whole tree has been scanned.
func (w *Workspace) FullyLoaded() bool { return w.fullyLoaded.Load() }

// Slice implements model.Workspace.
func (w *Workspace) Slice(variant string) (model.Slice, error) {
	return w.slice(variant)
}

func (w *Workspace) slice(variant string) (*Slice, error) {
	s, ok := w.slices[variant]
	if !ok {
		return nil, &model.UnknownVariantError{Variant: variant, Workspace: w.file}
	}
	return s, nil
}

// NodeAt implements model.Workspace. Module addresses are loaded at most once
// per concurrent burst of callers; test addresses load their module first.
// Local addresses must be clean paths, so "/a/" and "/a/../a" never alias "/a".
func (w *Workspace) NodeAt(ctx context.Context, address string) (model.Node, error) {
	if node, ok := w.nodes.Load(address); ok {
		return node.(model.Node), nil
	}
	switch {
	case model.IsLocalAddress(address) && path.Clean(address) != address:
		return nil, &model.InvalidAddressError{
			Address: address,
			Reason:  "Must be a clean path",
		}
	case model.IsTestAddress(address):
		if _, err := w.NodeAt(ctx, model.ModuleOf(address)); err != nil {
			return nil, err
		}
		if node, ok := w.nodes.Load(address); ok {
			return node.(model.Node), nil
		}
		return nil, &model.NoSuchAddressError{Address: address}
	case model.IsLocalAddress(address):
		v, err, _ := w.loads.Do(address, func() (any, error) {
			if node, ok := w.nodes.Load(address); ok {
				return node, nil
			}
			node, err := w.load(ctx, address)
			w.opts.recorder.ModuleLoaded(err)
			if err != nil {
				return nil, err
			}
			actual, _ := w.nodes.LoadOrStore(address, node)
			return actual, nil
		})
		if err != nil {
			return nil, err
		}
		return v.(model.Node), nil
	default:
		return nil, &model.InvalidAddressError{Address: address}
	}
}

// Nodes implements model.Workspace. It loads the whole tree and returns every
// module and test node sorted by address.
func (w *Workspace) Nodes(ctx context.Context) ([]model.Node, error) {
	if err := w.LoadAll(ctx); err != nil {
		return nil, err
	}
	return w.loadedNodes(), nil
}

func (w *Workspace) loadedNodes() []model.Node {
	var nodes []model.Node
	w.nodes.Range(func(_, v any) bool {
		nodes = append(nodes, v.(model.Node))
		return true
	})
	slices.SortFunc(nodes, func(a, b model.Node) int {
		return cmp.Compare(a.Address(), b.Address())
	})
	return nodes
}

// LoadAll scans the workspace tree and loads every module not loaded yet.
// Directories of already loaded modules, symlinked directories (unless
// symlinks are followed) and nested workspaces are not scanned. Any module
// that fails to load fails the whole scan.
func (w *Workspace) LoadAll(ctx context.Context) error {
	if w.fullyLoaded.Load() {
		return nil
	}
	_, err, _ := w.loads.Do(fullLoadKey, func() (any, error) {
		if w.fullyLoaded.Load() {
			return nil, nil
		}
		return nil, w.loadAll(ctx)
	})
	return err
}

func (w *Workspace) loadAll(ctx context.Context) error {
	loaded := make(map[string]struct{})
	w.nodes.Range(func(k, v any) bool {
		if _, ok := v.(*model.ModuleNode); ok {
			loaded[k.(string)] = struct{}{}
		}
		return true
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.threadCount)
	diagnostics, walkErr := w.scanner.Walk(gctx,
		func(address string) bool {
			_, ok := loaded[address]
			return ok
		},
		func(address string) error {
			g.Go(func() error {
				_, err := w.NodeAt(gctx, address)
				return err
			})
			return nil
		},
	)
	if err := g.Wait(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}

	for _, d := range diagnostics {
		if d.Severity == discovery.SeverityError {
			w.opts.logger.Warn(d.Message, "code", d.Code, "address", d.Path, "error", d.Cause)
			continue
		}
		w.opts.logger.Debug(d.Message, "code", d.Code, "address", d.Path)
	}

	w.fullyLoaded.Store(true)
	var modules, tests int
	for _, node := range w.loadedNodes() {
		switch node.(type) {
		case *model.ModuleNode:
			modules++
		case *model.TestNode:
			tests++
		}
	}
	w.opts.logger.Info("workspace fully loaded", "root", w.Root(), "modules", modules, "tests", tests)
	return nil
}

// Validate implements model.Workspace. Every variant is validated rooted at
// every node, with up to the configured thread count of variants in parallel.
func (w *Workspace) Validate(ctx context.Context, validators []model.Validator) error {
	nodes, err := w.Nodes(ctx)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.threadCount)
	for _, variant := range w.Variants() {
		s := w.slices[variant]
		g.Go(func() error {
			return s.Validate(gctx, validators, nodes...)
		})
	}
	return g.Wait()
}

// FindModule implements model.Workspace. The path must be absolute, relative
// to the workspace root.
func (w *Workspace) FindModule(ctx context.Context, path string) (*model.ModuleNode, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	if module := w.index.FindModule(path); module != nil {
		return module, nil
	}
	if !w.opts.dynamicLoading {
		return nil, nil
	}
	if err := w.loadAlongPath(ctx, path); err != nil {
		if errors.Is(err, model.ErrNoSuchAddress) {
			return nil, nil
		}
		return nil, err
	}
	return w.index.FindModule(path), nil
}

// FindNode implements model.Workspace. The path must be absolute, relative
// to the workspace root.
func (w *Workspace) FindNode(ctx context.Context, path string) ([]model.FindResult, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	if results := w.index.Find(path); len(results) > 0 {
		return results, nil
	}
	if !w.opts.dynamicLoading {
		return nil, nil
	}
	if err := w.loadAlongPath(ctx, path); err != nil {
		if errors.Is(err, model.ErrNoSuchAddress) {
			return nil, nil
		}
		return nil, err
	}
	return w.index.Find(path), nil
}

// loadAlongPath loads the first module found walking down path. Crossing a
// nested workspace boundary first is a NoSuchAddressError.
func (w *Workspace) loadAlongPath(ctx context.Context, path string) error {
	address, err := w.scanner.FindAlongPath(path)
	if err != nil {
		return &model.NoSuchAddressError{Address: path, Cause: err}
	}
	if address == "" {
		return nil
	}
	_, err = w.NodeAt(ctx, address)
	return err
}

func checkPath(path string) error {
	if !strings.HasPrefix(path, model.AddressSeparator) {
		return &model.InvalidAddressError{
			Address: path,
			Reason:  "Must be an absolute path (relative to the workspace root)",
		}
	}
	return nil
}

var _ model.Workspace = (*Workspace)(nil)
