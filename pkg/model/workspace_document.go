// SPDX-License-Identifier: MPL-2.0

package model

type (
	// WorkspaceDocument is the declaration at the root of a workspace.
	WorkspaceDocument struct {
		// Name is largely documentary and used in tool reporting.
		Name string `yaml:"name" json:"name"`
		// Tools are capability descriptors that modules may require.
		Tools []ToolDefinition `yaml:"declared_tools,omitempty" json:"declared_tools,omitempty"`
		// External lists workspaces outside the local address space. They are
		// parsed and preserved but never resolved.
		External []ExternalWorkspaceDocument `yaml:"external,omitempty" json:"external,omitempty"`
		// Definitions are the defaults every module declaration is merged onto.
		// Its variant keys are the workspace's variants.
		Definitions ModuleDocument `yaml:"definitions" json:"definitions"`
	}

	// ToolDefinition declares a tool and the compatibility predicates
	// (any/all/not) a module's tool requirements are checked against.
	ToolDefinition struct {
		Name       string             `yaml:"name" json:"name"`
		Any        []string           `yaml:"any,omitempty" json:"any,omitempty"`
		All        []string           `yaml:"all,omitempty" json:"all,omitempty"`
		Not        []string           `yaml:"not,omitempty" json:"not,omitempty"`
		Properties OrderedMap[string] `yaml:"properties,omitempty" json:"properties,omitzero"`
	}

	// ExternalWorkspaceDocument names an external address space. Addresses of
	// the form <name>://<target> refer to artifacts declared here, interpreted
	// according to Type (e.g. "maven").
	ExternalWorkspaceDocument struct {
		Name       string                                `yaml:"name" json:"name"`
		Type       string                                `yaml:"type" json:"type"`
		Properties OrderedMap[[]string]                  `yaml:"properties,omitempty" json:"properties,omitzero"`
		Artifacts  OrderedMap[ExternalNodeConfiguration] `yaml:"artifacts,omitempty" json:"artifacts,omitzero"`
	}

	// ExternalNodeConfiguration is the per-artifact configuration of an external workspace.
	ExternalNodeConfiguration struct {
		Exclude []string           `yaml:"exclude,omitempty" json:"exclude,omitempty"`
		Include []string           `yaml:"include,omitempty" json:"include,omitempty"`
		Deps    []string           `yaml:"deps,omitempty" json:"deps,omitempty"`
		Hashes  OrderedMap[string] `yaml:"hashes,omitempty" json:"hashes,omitzero"`
	}
)

// Variants returns the variant names declared by the workspace defaults, in declaration order.
func (w WorkspaceDocument) Variants() []string {
	return w.Definitions.Variants.Keys()
}

// HasVariant reports whether variant is declared by the workspace.
func (w WorkspaceDocument) HasVariant(variant string) bool {
	return w.Definitions.Variants.Has(variant)
}
