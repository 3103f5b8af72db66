// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build workspace trees on
// disk. Helpers fail the test on error instead of returning it.
package testutil
