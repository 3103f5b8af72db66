// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrSchema is matched by every schema violation returned from this package.
var ErrSchema = errors.New("schema violation")

// ValidationError is one schema violation at a path within a file.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string
	// CUEPath is the JSON-style path to the invalid value (e.g. "variants.debug.deps[0]").
	CUEPath string
	// Message is the violation message.
	Message string
}

func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Is matches ErrSchema.
func (e *ValidationError) Is(target error) bool { return target == ErrSchema }

// ValidationErrors is the set of violations found in one file.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		if e.CUEPath != "" {
			lines[i] = e.CUEPath + ": " + e.Message
		} else {
			lines[i] = e.Message
		}
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", errs[0].FilePath, strings.Join(lines, "\n  "))
}

// Is matches ErrSchema.
func (errs ValidationErrors) Is(target error) bool { return target == ErrSchema }

// FormatError converts a CUE error into ValidationErrors with JSON-style paths.
// Non-CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	out := make(ValidationErrors, 0, len(cueErrs))
	for _, e := range cueErrs {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path at the start of the message.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		out = append(out, &ValidationError{FilePath: filePath, CUEPath: pathStr, Message: msg})
	}
	return out
}

// formatPath converts a CUE error path (["variants", "debug", "deps", "0"]) to
// JSON-path notation ("variants.debug.deps[0]").
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error if data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
