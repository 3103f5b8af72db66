// SPDX-License-Identifier: MPL-2.0

package model

import (
	"regexp"
	"strings"
)

const (
	// AddressSeparator separates path segments of a module address.
	AddressSeparator = "/"
	// TestSeparator separates module, variant and test name in a test address.
	TestSeparator = ":"
	// ExternalSchemeSeparator separates the scheme of an external address from its target.
	ExternalSchemeSeparator = "://"
)

// testAddressPattern is the only accepted shape of a test address:
// <module-address>:<variant>:<test-name>.
var testAddressPattern = regexp.MustCompile(`^/[a-zA-Z0-9_/-]*:[a-zA-Z0-9_-]*:[a-zA-Z0-9_-]*$`)

// IsTestAddress reports whether address has the module:variant:test shape.
func IsTestAddress(address string) bool {
	return testAddressPattern.MatchString(address)
}

// IsLocalAddress reports whether address is rooted at the workspace (starts with "/").
func IsLocalAddress(address string) bool {
	return strings.HasPrefix(address, AddressSeparator)
}

// IsExternalAddress reports whether address uses a <scheme>://<target> form.
func IsExternalAddress(address string) bool {
	scheme, _, found := strings.Cut(address, ExternalSchemeSeparator)
	return found && scheme != "" && !strings.Contains(scheme, AddressSeparator)
}

// TestAddress builds the address of a test declared under a module variant.
func TestAddress(module, variant, name string) string {
	return module + TestSeparator + variant + TestSeparator + name
}

// ModuleOf returns the module part of a test address, or the address itself
// when it carries no test suffix.
func ModuleOf(address string) string {
	module, _, _ := strings.Cut(address, TestSeparator)
	return module
}

// PathSegments splits a workspace-rooted path or module address into its
// segments, ignoring leading and trailing separators.
func PathSegments(path string) []string {
	trimmed := strings.Trim(path, AddressSeparator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, AddressSeparator)
}
