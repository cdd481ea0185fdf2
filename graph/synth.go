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
	"github.com/depsolve/pinlock/input"
	"github.com/depsolve/pinlock/marker"
)

// Synthesize implements Marker Synthesis (SPEC_FULL §4.4): a sound but not
// complete algorithm that collects every environment parameter referenced
// by a requirement marker reachable from g, then emits a conjunction
// pinning each one to its current value in env. The result is nil (no
// parameters referenced, vacuously true) when nothing in the graph's
// reachable requirements mentions an environment variable.
//
// direct is the root manifest's own requirement list, whose markers are
// reachable even though no node in g represents the manifest itself.
func Synthesize(g *Graph, idx input.Index, eds input.Editables, direct []input.Requirement, env marker.Environment) (marker.Tree, error) {
	seen := make(map[string]bool)
	var params []string
	collect := func(raw string) error {
		if raw == "" {
			return nil
		}
		tree, err := marker.Parse(raw, structuralEnv)
		if err != nil {
			return err
		}
		for _, name := range marker.Parameters(tree) {
			if !seen[name] {
				seen[name] = true
				params = append(params, name)
			}
		}
		return nil
	}

	for _, req := range direct {
		if err := collect(req.RawMarker); err != nil {
			return nil, err
		}
	}

	for _, n := range g.Nodes {
		meta, ok := metadataFor(n.Dist, idx, eds)
		if !ok {
			return nil, resolveErrorf("missing metadata for %s during marker synthesis", n.Dist.CoreText())
		}
		for _, req := range meta.RequiresDist {
			if err := collect(req.RawMarker); err != nil {
				return nil, err
			}
		}
	}

	if len(params) == 0 {
		return nil, nil
	}
	sort.Strings(params)

	exprs := make([]marker.Tree, 0, len(params))
	for _, name := range params {
		v := marker.Variable(name, env)
		expr, err := marker.NewExpression(marker.OpEqual, v, marker.Literal(v.Value))
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return marker.Conjoin(exprs...), nil
}

func metadataFor(d dist.ResolvedDist, idx input.Index, eds input.Editables) (input.Metadata, bool) {
	if d.Kind == dist.Editable {
		if eds == nil {
			return input.Metadata{}, false
		}
		_, meta, ok := eds.Get(d.Name)
		return meta, ok
	}
	ref := input.DistRef{Name: d.Name, Version: d.Version}
	if d.Kind == dist.URL {
		ref = input.DistRef{Name: d.Name, URL: d.Verbatim}
	}
	if idx == nil {
		return input.Metadata{}, false
	}
	return idx.Metadata(ref)
}
