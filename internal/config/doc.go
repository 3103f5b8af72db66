// SPDX-License-Identifier: MPL-2.0

// Package config handles spice configuration using Viper with CUE as the file format.
//
// Configuration is read from spice.cue in the workspace directory, or from an
// explicit file. The file is validated against an embedded CUE schema
// (config_schema.cue) before it is merged over the defaults. SPICE_* environment
// variables take precedence over both.
package config
