// SPDX-License-Identifier: MPL-2.0

// Package fileworkspace implements model.Workspace over a directory tree.
//
// The workspace root holds a workspace declaration file (workspace.spice.yml
// by default); every directory below it holding a module declaration file
// (module.spice.yml) is a module, addressed by its path relative to the root.
// Modules are loaded lazily: an address is read, parsed, merged with the
// workspace defaults and indexed the first time it is asked for. Operations
// that need the whole graph scan the tree first.
//
// The workspace is safe for concurrent use. Loading the same address twice
// must produce an equal node, so declaration files are assumed not to change
// for the lifetime of a Workspace.
package fileworkspace
