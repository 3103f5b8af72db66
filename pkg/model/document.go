// SPDX-License-Identifier: MPL-2.0

package model

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

type (
	// ModuleDocument is the declaration of a module, either as written in a
	// module file or after merging it with workspace defaults. A document is
	// Complete once it is the result of a merge.
	ModuleDocument struct {
		Name      string                           `yaml:"name,omitempty" json:"name,omitempty"`
		Namespace string                           `yaml:"namespace,omitempty" json:"namespace,omitempty"`
		Tools     []string                         `yaml:"tools,omitempty" json:"tools,omitempty"`
		Variants  OrderedMap[VariantConfiguration] `yaml:"variants,omitempty" json:"variants,omitzero"`
		Complete  bool                             `yaml:"-" json:"-"`
	}

	// VariantConfiguration describes how a module is built in one variant.
	VariantConfiguration struct {
		Srcs  []string                      `yaml:"srcs,omitempty" json:"srcs,omitempty"`
		Deps  []Dependency                  `yaml:"deps,omitempty" json:"deps,omitempty"`
		Tests OrderedMap[TestConfiguration] `yaml:"tests,omitempty" json:"tests,omitzero"`
		Tools []string                      `yaml:"tools,omitempty" json:"tools,omitempty"`
	}

	// TestConfiguration describes a test target declared inside a variant.
	TestConfiguration struct {
		Srcs  []string     `yaml:"srcs,omitempty" json:"srcs,omitempty"`
		Deps  []Dependency `yaml:"deps,omitempty" json:"deps,omitempty"`
		Tools []string     `yaml:"tools,omitempty" json:"tools,omitempty"`
	}

	// Dependency is a declared edge target with optional tags. In YAML it is
	// written either as a bare address ("- /foo") or as a single-entry mapping
	// from address to tag list ("- /foo: [compile]").
	Dependency struct {
		Target string   `json:"target"`
		Tags   []string `json:"tags,omitempty"`
	}
)

// MergeDefaults applies the document onto workspace defaults and returns the
// complete result. It fails with ErrAlreadyComplete if the document has already
// been merged, since merging twice would duplicate concatenated deps.
func (d ModuleDocument) MergeDefaults(defaults ModuleDocument) (ModuleDocument, error) {
	if d.Complete {
		return ModuleDocument{}, fmt.Errorf("merge defaults into module %q: %w", d.Name, ErrAlreadyComplete)
	}
	return defaults.Merge(d), nil
}

// Merge overlays override onto d. Scalars come from override when set, tools
// are unioned, and variants present in both are merged key by key. The result
// is always Complete.
func (d ModuleDocument) Merge(override ModuleDocument) ModuleDocument {
	merged := ModuleDocument{
		Name:      d.Name,
		Namespace: d.Namespace,
		Tools:     union(d.Tools, override.Tools),
		Variants:  mergeOrdered(d.Variants, override.Variants, VariantConfiguration.Merge),
		Complete:  true,
	}
	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Namespace != "" {
		merged.Namespace = override.Namespace
	}
	return merged
}

// Merge overlays override onto v. Non-empty override srcs replace the base
// srcs, deps are concatenated (base first) and tests are merged key by key.
// Variant tools are not carried into the result.
func (v VariantConfiguration) Merge(override VariantConfiguration) VariantConfiguration {
	srcs := v.Srcs
	if len(override.Srcs) > 0 {
		srcs = override.Srcs
	}
	return VariantConfiguration{
		Srcs:  slices.Clone(srcs),
		Deps:  slices.Concat(v.Deps, override.Deps),
		Tests: mergeOrdered(v.Tests, override.Tests, TestConfiguration.Merge),
	}
}

// Merge overlays override onto t. Non-empty override srcs replace the base
// srcs; deps and tools are concatenated.
func (t TestConfiguration) Merge(override TestConfiguration) TestConfiguration {
	srcs := t.Srcs
	if len(override.Srcs) > 0 {
		srcs = override.Srcs
	}
	return TestConfiguration{
		Srcs:  slices.Clone(srcs),
		Deps:  slices.Concat(t.Deps, override.Deps),
		Tools: slices.Concat(t.Tools, override.Tools),
	}
}

// Dep is shorthand for building a Dependency.
func Dep(target string, tags ...string) Dependency {
	return Dependency{Target: target, Tags: tags}
}

// UnmarshalYAML accepts both the bare-address and the address-to-tags forms.
func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*d = Dependency{Target: node.Value}
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: dependency mapping must have exactly one entry", node.Line)
		}
		var tags []string
		if valueNode := node.Content[1]; valueNode.Tag != "!!null" {
			if err := valueNode.Decode(&tags); err != nil {
				return fmt.Errorf("line %d: dependency tags: %w", node.Line, err)
			}
		}
		*d = Dependency{Target: node.Content[0].Value, Tags: tags}
		return nil
	default:
		return fmt.Errorf("line %d: dependency must be an address or a single-entry mapping", node.Line)
	}
}

// MarshalYAML writes untagged dependencies as a bare address and tagged ones
// as a single-entry mapping with a flow-style tag list.
func (d Dependency) MarshalYAML() (any, error) {
	if len(d.Tags) == 0 {
		return d.Target, nil
	}
	tags := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, tag := range d.Tags {
		tags.Content = append(tags.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag})
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.Target},
			tags,
		},
	}, nil
}

// union returns the distinct elements of a followed by those of b, in first-seen order.
func union(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range slices.Concat(a, b) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
