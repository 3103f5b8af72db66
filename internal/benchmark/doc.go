// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of spice:
//   - Declaration parsing and schema validation
//   - Workspace discovery
//   - Full workspace loads at several thread counts
//   - Graph validation and path lookups on a loaded workspace
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark
