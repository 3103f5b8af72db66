// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeSymlinkSkipped is reported when a symlinked directory is pruned.
	CodeSymlinkSkipped DiagnosticCode = "symlink_skipped"
	// CodeSymlinkLoop is reported when a followed symlink leads back to a visited directory.
	CodeSymlinkLoop DiagnosticCode = "symlink_loop"
	// CodeNestedWorkspaceSkipped is reported when a child workspace root is pruned.
	CodeNestedWorkspaceSkipped DiagnosticCode = "nested_workspace_skipped"
	// CodeDirUnreadable is reported when a directory cannot be listed.
	CodeDirUnreadable DiagnosticCode = "dir_unreadable"
)

var (
	// ErrInvalidSeverity is returned when a Severity value is not recognized.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is returned when a DiagnosticCode value is not recognized.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable identifier for a diagnostic.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "nested_workspace_skipped").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the workspace address associated with this diagnostic.
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// IsValid reports whether the severity is one of the known levels.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidSeverity, string(s))}
	}
}

// IsValid reports whether the code is one of the known diagnostic codes.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeSymlinkSkipped, CodeSymlinkLoop, CodeNestedWorkspaceSkipped, CodeDirUnreadable:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidDiagnosticCode, string(c))}
	}
}

func (d Diagnostic) String() string {
	if d.Cause != nil {
		return fmt.Sprintf("%s [%s] %s: %s (%v)", d.Severity, d.Code, d.Path, d.Message, d.Cause)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Path, d.Message)
}
