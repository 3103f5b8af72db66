// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions. The issue catalog holds Markdown guidance, rendered with
// glamour, for each kind of workspace or graph failure; Classify maps engine
// errors onto it.
package issue
