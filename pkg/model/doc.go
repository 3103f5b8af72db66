// SPDX-License-Identifier: MPL-2.0

// Package model defines the spice build graph: addresses, the three node kinds
// (module, test, external), module and workspace declarations with their
// default-merging rules, dependency edges, and the Workspace/Slice/Validator
// contracts that graph implementations and graph algorithms share.
//
// File organization:
//   - address.go: address classification and construction helpers
//   - node.go: the closed Node sum type (ModuleNode, TestNode, ExternalNode)
//   - document.go: module/variant/test declarations and their merge rules
//   - workspace_document.go: workspace-level declarations (defaults, tools, externals)
//   - ordered.go: insertion-ordered string-keyed map used by declarations
//   - errors.go: the graph error taxonomy
//   - workspace.go: Workspace, Slice, FindResult and Validator contracts
package model
