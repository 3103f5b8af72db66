// SPDX-License-Identifier: MPL-2.0

// Package dag orders build graph addresses so that every address comes after
// the addresses it depends on. It backs the build-order traversal and the
// `spice order` command.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing ordering.
	CycleError struct {
		// Remaining lists every node that could not be ordered, in insertion
		// order. It includes the cycle members and anything downstream of them.
		Remaining []string
	}

	// Graph is a directed graph whose edges mean "must be built before".
	// An edge from A to B says A is a dependency of B.
	Graph struct {
		// dependents maps each node to the nodes that must follow it.
		dependents map[string][]string
		// edges deduplicates (from, to) pairs so tags on parallel edges do
		// not skew in-degrees.
		edges map[[2]string]struct{}
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes   []string
		nodeSet map[string]struct{}
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among: %s", strings.Join(e.Remaining, ", "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		dependents: make(map[string][]string),
		edges:      make(map[[2]string]struct{}),
		nodeSet:    make(map[string]struct{}),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.nodeSet[name]; ok {
		return
	}
	g.nodeSet[name] = struct{}{}
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from must be built before to. Both nodes are added
// implicitly; repeating an edge is a no-op.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if _, ok := g.edges[key]; ok {
		return
	}
	g.edges[key] = struct{}{}
	g.dependents[from] = append(g.dependents[from], to)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// TopologicalSort returns every node, dependencies first, using Kahn's
// algorithm. Nodes that become ready at the same time keep insertion order.
func (g *Graph) TopologicalSort() ([]string, error) {
	layers, err := g.Layers()
	if err != nil {
		return nil, err
	}
	var order []string
	for _, layer := range layers {
		order = append(order, layer...)
	}
	return order, nil
}

// Layers groups nodes into waves: every node's dependencies are in earlier
// waves, so the nodes of one wave can be built in parallel.
func (g *Graph) Layers() ([][]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, targets := range g.dependents {
		for _, target := range targets {
			inDegree[target]++
		}
	}

	var current []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			current = append(current, node)
		}
	}

	var layers [][]string
	ordered := 0
	for len(current) > 0 {
		layers = append(layers, current)
		ordered += len(current)

		var next []string
		for _, node := range current {
			for _, dependent := range g.dependents[node] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		current = next
	}

	if ordered != len(g.nodes) {
		var remaining []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				remaining = append(remaining, node)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}
	return layers, nil
}
