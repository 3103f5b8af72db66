// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
)

const (
	// DefaultModuleFileName is the file whose presence marks a module directory.
	DefaultModuleFileName = "module.spice.yml"
	// DefaultWorkspaceFileName is the file whose presence marks a workspace root.
	DefaultWorkspaceFileName = "workspace.spice.yml"
)

type (
	// Scanner walks the directory tree of a single workspace.
	Scanner struct {
		root              string
		moduleFileName    string
		workspaceFileName string
		followSymlinks    bool
		logger            *slog.Logger
	}

	// Option configures a Scanner.
	Option func(*Scanner)

	// SkipFunc reports whether the directory at address should not be entered.
	SkipFunc func(address string) bool

	// FoundFunc receives the address of every module directory. Returning an
	// error stops the walk.
	FoundFunc func(address string) error

	walk struct {
		ctx         context.Context
		skip        SkipFunc
		found       FoundFunc
		visited     map[string]struct{}
		diagnostics []Diagnostic
	}
)

// WithModuleFileName overrides DefaultModuleFileName.
func WithModuleFileName(name string) Option {
	return func(s *Scanner) {
		if name != "" {
			s.moduleFileName = name
		}
	}
}

// WithWorkspaceFileName overrides DefaultWorkspaceFileName. Child workspaces
// are only detected when they use the same file name.
func WithWorkspaceFileName(name string) Option {
	return func(s *Scanner) {
		if name != "" {
			s.workspaceFileName = name
		}
	}
}

// WithFollowSymlinks makes the scanner descend into symlinked directories.
func WithFollowSymlinks(follow bool) Option {
	return func(s *Scanner) {
		s.followSymlinks = follow
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Scanner rooted at the workspace directory root.
func New(root string, opts ...Option) *Scanner {
	s := &Scanner{
		root:              root,
		moduleFileName:    DefaultModuleFileName,
		workspaceFileName: DefaultWorkspaceFileName,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the workspace directory.
func (s *Scanner) Root() string { return s.root }

// ModuleFileName returns the module file name the scanner looks for.
func (s *Scanner) ModuleFileName() string { return s.moduleFileName }

// Dir returns the directory on disk for a module address.
func (s *Scanner) Dir(address string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+address)))
}

// ModuleFile returns the module file on disk for a module address.
func (s *Scanner) ModuleFile(address string) string {
	return filepath.Join(s.Dir(address), s.moduleFileName)
}

// Walk visits the workspace top-down and calls found for every directory
// holding a module file. A directory is not entered when skip returns true
// for its address, when it is a symlink and symlinks are not followed, or
// when it is the root of a child workspace. Modules below a module are still
// reported, so the caller sees them and can reject the nesting.
//
// Pruned directories and unreadable subdirectories are returned as
// diagnostics. An unreadable workspace root is an error.
func (s *Scanner) Walk(ctx context.Context, skip SkipFunc, found FoundFunc) ([]Diagnostic, error) {
	if skip == nil {
		skip = func(string) bool { return false }
	}
	w := &walk{ctx: ctx, skip: skip, found: found, visited: map[string]struct{}{}}
	if s.followSymlinks {
		if real, err := filepath.EvalSymlinks(s.root); err == nil {
			w.visited[real] = struct{}{}
		}
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace root %s: %w", s.root, err)
	}
	if err := s.visit(w, "/", entries); err != nil {
		return w.diagnostics, err
	}
	return w.diagnostics, nil
}

func (s *Scanner) enter(w *walk, dir, address string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if w.skip(address) {
		return nil
	}
	if fileExists(filepath.Join(dir, s.workspaceFileName)) {
		s.logger.Debug("skipping nested workspace", "address", address)
		w.diagnostics = append(w.diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeNestedWorkspaceSkipped,
			Message:  "directory holds a child workspace and was not scanned",
			Path:     address,
		})
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("failed to read directory during module discovery", "dir", dir, "error", err)
		w.diagnostics = append(w.diagnostics, Diagnostic{
			Severity: SeverityError,
			Code:     CodeDirUnreadable,
			Message:  "directory could not be read",
			Path:     address,
			Cause:    err,
		})
		return nil
	}
	return s.visit(w, address, entries)
}

func (s *Scanner) visit(w *walk, address string, entries []fs.DirEntry) error {
	if address == "/" && w.skip(address) {
		return nil
	}
	for _, e := range entries {
		if e.Name() == s.moduleFileName && !e.IsDir() {
			if err := w.found(address); err != nil {
				return err
			}
			break
		}
	}
	dir := s.Dir(address)
	for _, e := range entries {
		child := path.Join(address, e.Name())
		full := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			if s.followSymlinks && !s.markVisited(w, full, child) {
				continue
			}
			if err := s.enter(w, full, child); err != nil {
				return err
			}
		case e.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(full)
			if err != nil || !info.IsDir() {
				continue
			}
			if !s.followSymlinks {
				w.diagnostics = append(w.diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeSymlinkSkipped,
					Message:  "symlinked directory was not followed",
					Path:     child,
				})
				continue
			}
			if !s.markVisited(w, full, child) {
				continue
			}
			if err := s.enter(w, full, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// markVisited records the resolved directory and reports whether it was new.
func (s *Scanner) markVisited(w *walk, full, address string) bool {
	real, err := filepath.EvalSymlinks(full)
	if err != nil {
		return true
	}
	if _, ok := w.visited[real]; ok {
		w.diagnostics = append(w.diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeSymlinkLoop,
			Message:  "directory was already scanned through another path",
			Path:     address,
		})
		return false
	}
	w.visited[real] = struct{}{}
	return true
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("failed to stat file during module discovery", "path", p, "error", err)
		}
		return false
	}
	return !info.IsDir()
}
