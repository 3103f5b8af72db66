// SPDX-License-Identifier: MPL-2.0

package model

// Edge is a dependency relationship seen from one end. In a forward index the
// Target is the node depended upon; in a reverse index it is the dependent.
// Tags are opaque metadata and do not contribute to edge identity.
type Edge struct {
	Target string   `json:"target" yaml:"target"`
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// EdgeTargets returns the target address of each edge, preserving order.
func EdgeTargets(edges []Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.Target
	}
	return out
}

// EdgesFrom turns declared dependencies into forward edges.
func EdgesFrom(deps []Dependency) []Edge {
	out := make([]Edge, len(deps))
	for i, d := range deps {
		out[i] = Edge{Target: d.Target, Tags: d.Tags}
	}
	return out
}
