// SPDX-License-Identifier: MPL-2.0

// Package discovery locates spice module files beneath a workspace root.
//
// Discovery never parses module documents. It reports module addresses to a
// callback and leaves loading to the caller, so a workspace can fan the
// returned addresses out to its own loaders.
//
// File organization:
//   - diagnostic.go: Severity, DiagnosticCode and Diagnostic
//   - discovery.go: Scanner construction and the top-down Walk
//   - along_path.go: FindAlongPath for dynamic, path-driven lookup
package discovery
