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

// Package vrange wraps deps.dev/util/semver's PyPI constraint sets with the
// one operation the graph builder needs from an edge's demanded range:
// commutative, associative union of every requester's constraint on the
// same dependency (SPEC_FULL §4.3 Pass B, §8 "Edge range union").
package vrange

import "deps.dev/util/semver"

// Range is the set of versions satisfying one or more PEP 440 specifiers,
// unioned together as successive requesters are discovered.
type Range struct {
	set  semver.Set
	strs []string // Constraint strings unioned in, for String().
}

// Parse builds a Range from a single PEP 440 version specifier, such as
// ">=1.2,<2" or "" (meaning "any version").
func Parse(specifier string) (Range, error) {
	c, err := semver.PyPI.ParseConstraint(specifier)
	if err != nil {
		return Range{}, err
	}
	return Range{set: c.Set(), strs: []string{specifier}}, nil
}

// Union merges other into r, returning the result. Union is commutative and
// associative: the stored range for an edge is independent of the order in
// which requesters are discovered.
func (r Range) Union(other Range) (Range, error) {
	if len(r.strs) == 0 {
		return other, nil
	}
	if len(other.strs) == 0 {
		return r, nil
	}
	merged := r.set
	if err := merged.Union(other.set); err != nil {
		return Range{}, err
	}
	strs := append(append([]string{}, r.strs...), other.strs...)
	return Range{set: merged, strs: strs}, nil
}

// Match reports whether version satisfies the range.
func (r Range) Match(version *semver.Version) bool {
	return r.set.MatchVersion(version)
}

// String renders the range the way it would appear in a requirement line:
// the original specifiers, joined with a comma if more than one contributed
// (mirroring how PEP 440 composes multiple specifiers into one clause).
func (r Range) String() string {
	if len(r.strs) == 0 {
		return ""
	}
	out := r.strs[0]
	for _, s := range r.strs[1:] {
		if s == "" || s == out {
			continue
		}
		out += "," + s
	}
	return out
}
