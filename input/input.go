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
Package input defines the shape of a solver's fixed-point output (the
Resolution Input the graph builder consumes) and the collaborator
interfaces it is read alongside: Index, Preferences, and Editables. None of
these fetch anything themselves — per SPEC_FULL §1, network fetching and
editable discovery are external collaborators, referenced only by
interface.
*/
package input

import (
	"github.com/depsolve/pinlock/dist"
	"github.com/depsolve/pinlock/identity"
	"github.com/depsolve/pinlock/pin"
)

// DependencyEdge is one requester's demanded range on a dependency, prior
// to the graph builder's range-union pass. Multiple DependencyEdges may
// share the same (From, To): the builder unions their Range values into a
// single stored edge (SPEC_FULL §4.3 Pass B).
type DependencyEdge struct {
	From, To string
	Range    string // A PEP 440 version specifier, possibly empty (any version).
}

// ResolutionInput is the solver's fixed point: for every package identity
// it assigned at least one version to, plus every dependency edge it
// discovered between concrete-real packages.
type ResolutionInput struct {
	// Packages maps each assigned identity to the version(s) chosen for
	// it. Order within the slice, and iteration order of the map, carry
	// no meaning (SPEC_FULL §5 "Pass A processes ... in an unspecified
	// order").
	Packages map[identity.Identity][]string

	Dependencies []DependencyEdge

	Pins *pin.PinTable
	URLs *pin.URLRegistry
}

// DistRef names the concrete artifact whose metadata is being requested:
// either (Name, Version) for a registry artifact or (Name, URL) for a
// direct-URL artifact, matching how PackageId is constructed in SPEC_FULL
// §4.4.
type DistRef struct {
	Name    string
	Version string // Set for a registry DistRef.
	URL     string // Set for a URL DistRef.
}

// Requirement is one entry of a distribution's requires_dist list.
type Requirement struct {
	Name      string
	Extra     string // Set if this requirement is on name[Extra].
	Range     string // A PEP 440 specifier, possibly empty.
	RawMarker string // Raw PEP 508 marker source, possibly empty.
	URL       string // Set if this is a direct-URL requirement.
}

// Metadata is the subset of a distribution's package metadata the graph
// builder and marker synthesis need.
type Metadata struct {
	ProvidesExtras map[string]bool
	RequiresDist   []Requirement
}

// Index supplies per-package version and metadata information, as a cache
// sitting in front of a real package index would.
type Index interface {
	// Hashes returns the index-supplied content hashes for (name,
	// version), used when no preference hash is available (SPEC_FULL
	// §4.3 "Hash resolution order", step 2).
	Hashes(name, version string) ([]dist.Hash, bool)
	// Metadata returns the given distribution's package metadata.
	Metadata(ref DistRef) (Metadata, bool)
	// Redirect resolves a verbatim URL's fetch-time canonicalization, if
	// any is known.
	Redirect(verbatimURL string) (string, bool)
}

// Preferences supplies hashes recorded by a prior lockfile, consulted
// before the Index (SPEC_FULL §4.3 "Hash resolution order", step 1).
type Preferences interface {
	MatchHashes(name, version string) ([]dist.Hash, bool)
}

// Editables resolves a package name to its local, in-source descriptor and
// metadata, when that name is being installed in editable mode.
type Editables interface {
	Get(name string) (verbatim string, meta Metadata, ok bool)
}
