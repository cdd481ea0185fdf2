// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package graph turns a solver's Resolution Input into the small, rendering-
ready graph a lockfile is written from: real packages only (no virtual
extras, no marker forks, no interpreter sentinel), their union-of-demanded
version ranges, and the side information (activated extras, accumulated
markers, editables, diagnostics) the renderer and downstream tooling need.

The adjacency structure is purpose-built rather than borrowed from a
general graph library (SPEC_FULL §9 "graph library choice"): nodes and
edges are dense-indexed slices, with separate outgoing/incoming
edge-index lists per node, appended to as each new edge is installed.
*/
package graph

import (
	"github.com/depsolve/pinlock/dist"
	"github.com/depsolve/pinlock/vrange"
)

// NodeID indexes into Graph.Nodes.
type NodeID int

// Node is one real (non-virtual, non-marker-forked) package in the graph.
type Node struct {
	Dist dist.ResolvedDist

	// Markers is the disjunction of every marker fork's raw source text
	// that contributed a version to this node's (name, version), or "" if
	// the package was never marker-conditioned. It is kept as source text,
	// not a parsed tree: the only live use is the renderer's trailing
	// comment, and a tree built for shape only (no bound variable values)
	// would render as garbage. It is the node's own condition, separate
	// from graph.Synthesize's environment-wide conjunction.
	Markers string
}

// Edge is one dependency, after Pass B's range-union: the stored Range is
// the union of every DependencyEdge with this (From, To) in the
// Resolution Input.
type Edge struct {
	From, To NodeID
	Range    vrange.Range
}

// Graph is the graph builder's output.
type Graph struct {
	Nodes []Node
	Edges []Edge

	// Extras maps a node's package name to the sorted, deduplicated list
	// of extras some requester activated on it.
	Extras map[string][]string

	// Diagnostics holds non-fatal findings collected while building,
	// such as a requested extra the target package does not provide.
	Diagnostics []Diagnostic

	outgoing map[NodeID][]int // edge indices, in Edges
	incoming map[NodeID][]int
}

func newGraph() *Graph {
	return &Graph{
		Extras:   make(map[string][]string),
		outgoing: make(map[NodeID][]int),
		incoming: make(map[NodeID][]int),
	}
}

// Outgoing returns the edges leading out of n, in the order they were
// installed.
func (g *Graph) Outgoing(n NodeID) []Edge {
	idxs := g.outgoing[n]
	out := make([]Edge, len(idxs))
	for i, e := range idxs {
		out[i] = g.Edges[e]
	}
	return out
}

// Incoming returns the edges leading into n, in the order they were
// installed.
func (g *Graph) Incoming(n NodeID) []Edge {
	idxs := g.incoming[n]
	out := make([]Edge, len(idxs))
	for i, e := range idxs {
		out[i] = g.Edges[e]
	}
	return out
}

// addEdge installs or unions a (from, to) edge, returning its index.
func (g *Graph) addEdge(from, to NodeID, r vrange.Range) (int, error) {
	for _, i := range g.outgoing[from] {
		e := &g.Edges[i]
		if e.To == to {
			u, err := e.Range.Union(r)
			if err != nil {
				return 0, err
			}
			e.Range = u
			return i, nil
		}
	}
	idx := len(g.Edges)
	g.Edges = append(g.Edges, Edge{From: from, To: to, Range: r})
	g.outgoing[from] = append(g.outgoing[from], idx)
	g.incoming[to] = append(g.incoming[to], idx)
	return idx, nil
}
