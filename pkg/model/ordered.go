// SPDX-License-Identifier: MPL-2.0

package model

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/google/go-cmp/cmp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a string-keyed map that remembers insertion order. Declaration
// maps (variants, tests, tools) use it so that iteration, merge results and
// serialized output follow the order in which entries were declared.
//
// The zero value is an empty map ready for use. Copies share entries.
type OrderedMap[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// OrderedMapOf builds an OrderedMap from entries, preserving their order.
func OrderedMapOf[V any](entries ...Entry[V]) OrderedMap[V] {
	var m OrderedMap[V]
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Entry is a single key/value pair of an OrderedMap.
type Entry[V any] struct {
	Key   string
	Value V
}

// Len returns the number of entries.
func (m OrderedMap[V]) Len() int {
	if m.m == nil {
		return 0
	}
	return m.m.Len()
}

// Keys returns the keys in insertion order.
func (m OrderedMap[V]) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Get returns the value stored under key.
func (m OrderedMap[V]) Get(key string) (V, bool) {
	if m.m == nil {
		var zero V
		return zero, false
	}
	return m.m.Get(key)
}

// Has reports whether key is present.
func (m OrderedMap[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. A new key is appended to the order; an existing
// key keeps its position.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.m == nil {
		m.m = orderedmap.New[string, V]()
	}
	m.m.Set(key, value)
}

// All iterates the entries in insertion order.
func (m OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m.m == nil {
			return
		}
		for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold equal values under the same keys in the
// same order. Nil and empty collections inside values compare equal. go-cmp
// picks this method up when comparing documents.
func (m OrderedMap[V]) Equal(other OrderedMap[V]) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for p, q := m.m.Oldest(), other.m.Oldest(); p != nil; p, q = p.Next(), q.Next() {
		if p.Key != q.Key || !cmp.Equal(p.Value, q.Value, declarationCmpOpts...) {
			return false
		}
	}
	return true
}

// mergeOrdered unions two maps. Keys only in base keep their base value, keys in
// both are combined with merge(base, override), and keys only in override are
// appended in override order.
func mergeOrdered[V any](base, override OrderedMap[V], merge func(V, V) V) OrderedMap[V] {
	var out OrderedMap[V]
	for k, v := range base.All() {
		if o, ok := override.Get(k); ok {
			out.Set(k, merge(v, o))
			continue
		}
		out.Set(k, v)
	}
	for k, v := range override.All() {
		if !base.Has(k) {
			out.Set(k, v)
		}
	}
	return out
}

// UnmarshalYAML decodes a YAML mapping, keeping document order. A null node
// decodes to an empty map; a key with a null value decodes to the zero value.
func (m *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	*m = OrderedMap[V]{m: orderedmap.New[string, V]()}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	return m.m.UnmarshalYAML(node)
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m OrderedMap[V]) MarshalYAML() (any, error) {
	if m.m == nil {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	return m.m.MarshalYAML()
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	if m.m == nil {
		return []byte("{}"), nil
	}
	return m.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping document order.
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	*m = OrderedMap[V]{m: orderedmap.New[string, V]()}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	return m.m.UnmarshalJSON(data)
}

// IsZero reports whether the map is empty, so omitempty drops it.
func (m OrderedMap[V]) IsZero() bool { return m.Len() == 0 }
