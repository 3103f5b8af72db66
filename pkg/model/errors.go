// SPDX-License-Identifier: MPL-2.0

package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph is the class of every graph failure. All typed errors in
	// this package match it with errors.Is.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrNoSuchAddress is returned when an address cannot be resolved to a node.
	ErrNoSuchAddress = errors.New("no such address")
	// ErrInvalidAddress is returned for malformed or structurally conflicting addresses.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrCyclicReference is returned when a dependency cycle is found.
	ErrCyclicReference = errors.New("cyclic reference")
	// ErrIncompleteGraph is returned when dependency targets cannot be found.
	ErrIncompleteGraph = errors.New("incomplete graph")
	// ErrUnknownVariant is returned when a slice is requested for an undeclared variant.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrAlreadyComplete is returned when defaults are merged into a complete document.
	ErrAlreadyComplete = errors.New("module document already complete")
)

type (
	// InvalidGraphError reports a graph-shape violation that has no more specific type,
	// such as test-leaf violations or an inconsistent module reload.
	InvalidGraphError struct {
		Reason string
		Cause  error
	}

	// NoSuchAddressError reports that an address could not be resolved. Cause
	// carries the underlying read or parse failure, if any.
	NoSuchAddressError struct {
		Address string
		Cause   error
	}

	// InvalidAddressError reports an unsupported address form or a path index conflict.
	InvalidAddressError struct {
		Address string
		Reason  string
	}

	// CyclicReferenceError reports a dependency cycle found in a variant.
	// Address is the node that was reached twice; Path runs from the
	// validation root to the second occurrence of Address.
	CyclicReferenceError struct {
		Variant string
		Address string
		Path    []string
	}

	// MissingReference is one dangling dependency target with the addresses that reference it.
	MissingReference struct {
		Address      string
		ReferencedBy []string
	}

	// IncompleteGraphError aggregates every dangling dependency target found in one walk.
	IncompleteGraphError struct {
		Missing []MissingReference
	}

	// UnknownVariantError reports a variant not declared by the workspace.
	UnknownVariantError struct {
		Variant   string
		Workspace string
	}
)

// NewInvalidGraphError creates an InvalidGraphError with a formatted reason.
func NewInvalidGraphError(format string, args ...any) *InvalidGraphError {
	return &InvalidGraphError{Reason: fmt.Sprintf(format, args...)}
}

func (e *InvalidGraphError) Error() string {
	if e.Cause != nil {
		return e.Reason + ": " + e.Cause.Error()
	}
	return e.Reason
}

func (e *InvalidGraphError) Unwrap() error { return e.Cause }

// Is matches ErrInvalidGraph.
func (e *InvalidGraphError) Is(target error) bool { return target == ErrInvalidGraph }

func (e *NoSuchAddressError) Error() string {
	return "No such address found in graph: " + e.Address
}

func (e *NoSuchAddressError) Unwrap() error { return e.Cause }

// Is matches ErrNoSuchAddress and ErrInvalidGraph.
func (e *NoSuchAddressError) Is(target error) bool {
	return target == ErrNoSuchAddress || target == ErrInvalidGraph
}

func (e *InvalidAddressError) Error() string {
	if e.Reason == "" {
		return "Unsupported address: " + e.Address
	}
	return fmt.Sprintf("Unsupported address: %s (%s)", e.Address, e.Reason)
}

// Is matches ErrInvalidAddress and ErrInvalidGraph.
func (e *InvalidAddressError) Is(target error) bool {
	return target == ErrInvalidAddress || target == ErrInvalidGraph
}

func (e *CyclicReferenceError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Cycle detected in '%s' at %q", e.Variant, e.Address)
	if len(e.Path) > 0 && e.Path[0] != e.Address {
		fmt.Fprintf(&sb, " from %s", e.Path[0])
	}
	sb.WriteString(":\n")
	for _, address := range e.Path {
		fmt.Fprintf(&sb, "   - %s\n", address)
	}
	return sb.String()
}

// Is matches ErrCyclicReference and ErrInvalidGraph.
func (e *CyclicReferenceError) Is(target error) bool {
	return target == ErrCyclicReference || target == ErrInvalidGraph
}

func (e *IncompleteGraphError) Error() string {
	var sb strings.Builder
	sb.WriteString("Incomplete graph had dependency targets which could not be found in the graph:\n")
	for _, m := range e.Missing {
		fmt.Fprintf(&sb, "  - %s (referenced by %s)\n", m.Address, strings.Join(m.ReferencedBy, ", "))
	}
	return sb.String()
}

// Is matches ErrIncompleteGraph and ErrInvalidGraph.
func (e *IncompleteGraphError) Is(target error) bool {
	return target == ErrIncompleteGraph || target == ErrInvalidGraph
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("No such variant %q declared in workspace definitions in %s", e.Variant, e.Workspace)
}

// Is matches ErrUnknownVariant.
func (e *UnknownVariantError) Is(target error) bool { return target == ErrUnknownVariant }
