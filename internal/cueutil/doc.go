// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates data against embedded CUE schemas.
//
// Two flows are supported:
//
//   - CUE source (the spice.cue config file): compile the schema, compile the
//     user data, unify with the root definition, validate, decode.
//   - Already-decoded data (YAML declarations): encode the Go value into CUE,
//     unify with the root definition and validate. Decoding into typed
//     values is left to the caller's codec.
//
// Errors carry the file name and a JSON-style path to the offending field,
// e.g. "module.spice.yml: variants.debug.deps[1]: conflicting values".
package cueutil
