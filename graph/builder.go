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

package graph

import (
	"sort"

	"github.com/depsolve/pinlock/dist"
	"github.com/depsolve/pinlock/identity"
	"github.com/depsolve/pinlock/input"
	"github.com/depsolve/pinlock/marker"
	"github.com/depsolve/pinlock/pin"
	"github.com/depsolve/pinlock/vrange"
)

// structuralEnv is used only to parse a marker's shape (for accumulation
// and, later, for Parameters) when the bound value of each variable does
// not matter yet. Real values are bound separately, by graph.Synthesize,
// against the live MarkerEnvironment.
var structuralEnv = marker.StaticEnvironment{}

// Build runs the three-pass graph construction algorithm (SPEC_FULL §4.3)
// over a solver's Resolution Input: Pass A materializes one Node per real
// package name and folds extras into it, Pass B installs and unions
// dependency edges, Pass C sorts each package's extras. It returns a *ResolveError, wrapped,
// for any precondition violation between the input and its collaborators.
func Build(in input.ResolutionInput, idx input.Index, prefs input.Preferences, eds input.Editables) (*Graph, error) {
	g := newGraph()
	nodeIndex := make(map[string]NodeID) // package name -> its one real node
	markerAcc := make(map[pin.Key]string)

	// Pass A, sub-pass 1: every real (non-virtual) identity. Deferring
	// virtual (extra-bearing) identities to sub-pass 2 means a base
	// node always exists by the time its extras are folded in, whatever
	// order the input's map iterates in.
	for id, versions := range in.Packages {
		if id.Kind != identity.KindConcrete || id.Extra != "" {
			continue
		}
		for _, version := range versions {
			if id.Marker != "" {
				key := pin.Key{Name: id.Name, Version: version}
				// Parsing here only validates the marker's syntax; the
				// tree is discarded. Rendering needs the original source
				// text, not a tree built against structuralEnv, whose
				// variables carry no real value.
				if _, err := marker.Parse(id.Marker, structuralEnv); err != nil {
					return nil, wrapResolveError("parsing marker for "+id.String(), err)
				}
				if existing, ok := markerAcc[key]; ok {
					markerAcc[key] = "(" + existing + ") or (" + id.Marker + ")"
				} else {
					markerAcc[key] = id.Marker
				}
			}
			if err := materialize(g, nodeIndex, in, idx, prefs, eds, id, version); err != nil {
				return nil, err
			}
		}
	}

	// Attach the accumulated marker disjunction to each node it belongs
	// to, now that every fork has been folded in. A real package has at
	// most one materialized node, so key.Name alone locates it.
	for key, text := range markerAcc {
		if n, ok := nodeIndex[key.Name]; ok {
			g.Nodes[n].Markers = text
		}
	}

	// Pass A, sub-pass 2: extras.
	for id, versions := range in.Packages {
		if id.Kind != identity.KindConcrete || id.Extra == "" {
			continue
		}
		for _, version := range versions {
			if err := foldExtra(g, nodeIndex, idx, id, version); err != nil {
				return nil, err
			}
		}
	}

	// Pass B: dependency edges.
	for _, dep := range in.Dependencies {
		from, ok := nodeIndex[dep.From]
		if !ok {
			return nil, resolveErrorf("dependency edge references unknown package %q", dep.From)
		}
		to, ok := nodeIndex[dep.To]
		if !ok {
			return nil, resolveErrorf("dependency edge references unknown package %q", dep.To)
		}
		r, err := vrange.Parse(dep.Range)
		if err != nil {
			return nil, wrapResolveError("parsing range for "+dep.From+" -> "+dep.To, err)
		}
		if _, err := g.addEdge(from, to, r); err != nil {
			return nil, wrapResolveError("unioning range for "+dep.From+" -> "+dep.To, err)
		}
	}

	// Pass C: finalize extras into a deterministic order.
	for name, extras := range g.Extras {
		sort.Strings(extras)
		g.Extras[name] = extras
	}

	return g, nil
}

// materialize builds and installs the node for one real (name, version)
// pair, honoring the editable-overrides-URL rule and the hash resolution
// order (preferences, then index, else none).
func materialize(g *Graph, nodeIndex map[string]NodeID, in input.ResolutionInput, idx input.Index, prefs input.Preferences, eds input.Editables, id identity.Identity, version string) error {
	if _, ok := nodeIndex[id.Name]; ok {
		// Already materialized by another fork of the same real package;
		// its version is shared (the solver guarantees at most one
		// version per real identity), so there is nothing more to do.
		return nil
	}

	if eds != nil {
		if verbatim, _, ok := eds.Get(id.Name); ok {
			d := dist.NewEditable(id.Name, verbatim)
			nodeIndex[id.Name] = NodeID(len(g.Nodes))
			g.Nodes = append(g.Nodes, Node{Dist: d})
			return nil
		}
	}

	if in.Pins == nil {
		return resolveErrorf("no pin table supplied for %s %s", id.Name, version)
	}
	d, ok := in.Pins.Get(id.Name, version)
	if !ok {
		return resolveErrorf("no pin recorded for %s %s", id.Name, version)
	}

	if id.URL != "" && d.Kind == dist.URL {
		precise := d.Verbatim
		if in.URLs != nil {
			precise = in.URLs.ApplyRedirect(d.Verbatim)
		}
		d.Precise = precise
	}

	if d.Kind != dist.Editable {
		var hashes []dist.Hash
		if prefs != nil {
			if h, ok := prefs.MatchHashes(id.Name, version); ok {
				hashes = h
				d.Attrs.SetAttr(dist.FromPreferences, "")
			}
		}
		if hashes == nil && idx != nil {
			if h, ok := idx.Hashes(id.Name, version); ok {
				hashes = h
			}
		}
		d.Hashes = dist.SortHashes(hashes)
	}

	nodeIndex[id.Name] = NodeID(len(g.Nodes))
	g.Nodes = append(g.Nodes, Node{Dist: d})
	return nil
}

// foldExtra activates id.Extra on its base package's node, or records a
// MissingExtra diagnostic if the base distribution's metadata does not
// list it.
func foldExtra(g *Graph, nodeIndex map[string]NodeID, idx input.Index, id identity.Identity, version string) error {
	base := id.Base()
	n, ok := nodeIndex[base.Name]
	if !ok {
		return resolveErrorf("extra %q requested on unknown base distribution %q", id.Extra, base.Name)
	}
	node := &g.Nodes[n]

	ref := input.DistRef{Name: base.Name, Version: version}
	if node.Dist.Kind == dist.URL {
		ref = input.DistRef{Name: base.Name, URL: node.Dist.Verbatim}
	}
	meta, found := idx.Metadata(ref)
	if !found {
		return resolveErrorf("extra %q requested on unknown base distribution %q", id.Extra, base.Name)
	}

	if meta.ProvidesExtras[id.Extra] {
		for _, e := range g.Extras[base.Name] {
			if e == id.Extra {
				return nil
			}
		}
		g.Extras[base.Name] = append(g.Extras[base.Name], id.Extra)
		return nil
	}
	g.Diagnostics = append(g.Diagnostics, MissingExtra{Dist: node.Dist, Extra: id.Extra})
	return nil
}
