// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the spice CLI.
//
// The root command opens the workspace named by --workspace, loads spice.cue
// configuration next to it, and dispatches to subcommands that list variants
// and nodes, query dependencies, locate the module owning a path, validate the
// graph and print a build order. Results are printed as styled text or as
// JSON, YAML or TOML.
package cmd
