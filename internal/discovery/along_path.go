// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInNestedWorkspace is returned by FindAlongPath when the path crosses the
// root of a child workspace before reaching a module.
var ErrInNestedWorkspace = errors.New("path belongs to a nested workspace")

// FindAlongPath walks the directories named by the absolute workspace path p,
// starting below the workspace root, and returns the address of the first
// directory holding a module file. It returns "" when no directory along the
// path holds one. Path elements that are not directories are ignored, so p
// may name a file inside a module.
func (s *Scanner) FindAlongPath(p string) (string, error) {
	elements := strings.Split(strings.Trim(path.Clean("/"+p), "/"), "/")
	dir := s.root
	address := ""
	for _, element := range elements {
		if element == "" {
			continue
		}
		dir = filepath.Join(dir, element)
		address += "/" + element

		info, err := os.Lstat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", nil
			}
			return "", fmt.Errorf("failed to inspect %s: %w", address, err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			if !s.followSymlinks {
				return "", nil
			}
			if info, err = os.Stat(dir); err != nil {
				return "", nil
			}
		}
		if !info.IsDir() {
			continue
		}
		if fileExists(filepath.Join(dir, s.workspaceFileName)) {
			return "", fmt.Errorf("%w: %s", ErrInNestedWorkspace, address)
		}
		if fileExists(filepath.Join(dir, s.moduleFileName)) {
			return address, nil
		}
	}
	return "", nil
}
