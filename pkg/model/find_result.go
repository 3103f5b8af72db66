// SPDX-License-Identifier: MPL-2.0

package model

type (
	// FindResult is one answer to "which node does this path belong to". It is
	// exactly one of GeneralResult, VariantResult or TestResult.
	//
	// A path lands in a GeneralResult only when it sits inside a module but in
	// none of its declared source roots. Overlapping source roots can place a
	// path in several variant or test results of the same module, never in
	// more than one module.
	FindResult interface {
		Node() Node
		findResult()
	}

	// GeneralResult locates a path in a module outside every declared source root.
	GeneralResult struct {
		Module *ModuleNode
	}

	// VariantResult locates a path in the source roots of a module variant.
	VariantResult struct {
		Module  *ModuleNode
		Variant string
	}

	// TestResult locates a path in the source roots of a test.
	TestResult struct {
		Test *TestNode
	}
)

// Node implements FindResult.
func (r GeneralResult) Node() Node { return r.Module }

// Node implements FindResult.
func (r VariantResult) Node() Node { return r.Module }

// Node implements FindResult.
func (r TestResult) Node() Node { return r.Test }

func (GeneralResult) findResult() {}
func (VariantResult) findResult() {}
func (TestResult) findResult()    {}

// ModuleOfResult returns the module a result belongs to. For a TestResult
// only the module address is known, so the returned node is nil and the
// address is taken from the test.
func ModuleOfResult(r FindResult) (address string, module *ModuleNode) {
	switch v := r.(type) {
	case GeneralResult:
		return v.Module.Address(), v.Module
	case VariantResult:
		return v.Module.Address(), v.Module
	case TestResult:
		return v.Test.Module(), nil
	default:
		return "", nil
	}
}
