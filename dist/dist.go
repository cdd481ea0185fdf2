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

// Package dist holds ResolvedDist, the tagged variant that replaces any OO
// artifact-descriptor hierarchy (SPEC_FULL §9 "Dynamic dispatch"): a pinned
// package is either a registry artifact, a direct-URL artifact, or an
// editable (in-source) artifact.
package dist

import (
	"fmt"

	"github.com/depsolve/pinlock/internal/attr"
)

// Kind tags which shape of ResolvedDist is populated.
type Kind byte

const (
	// Registry is an artifact fetched from a package index by name+version.
	Registry Kind = iota
	// URL is an artifact fetched directly from a user-declared URL.
	URL
	// Editable is a local, in-source package installed in development mode.
	Editable
)

func (k Kind) String() string {
	switch k {
	case Registry:
		return "registry"
	case URL:
		return "url"
	case Editable:
		return "editable"
	default:
		return "unknown"
	}
}

// Provenance attribute keys, stored in ResolvedDist.Attrs (SPEC_FULL §3).
const (
	// FromPreferences marks a dist whose hashes came from a prior
	// lockfile (the graph builder's hash-resolution step 1) rather than
	// the index (step 2).
	FromPreferences uint8 = iota
)

// Hash is one content hash recorded for a pinned distribution, such as
// "sha256:2c6f...". Hashes are compared, and therefore sorted, first by
// algorithm then by value, matching the order a rendered --hash= block must
// appear in (SPEC_FULL §8 "Hash sorting").
type Hash struct {
	Algorithm string
	Value     string
}

func (h Hash) String() string { return h.Algorithm + ":" + h.Value }

// Compare returns -1, 0 or 1 depending on whether h sorts before, the same
// as, or after other.
func (h Hash) Compare(other Hash) int {
	if c := compareStr(h.Algorithm, other.Algorithm); c != 0 {
		return c
	}
	return compareStr(h.Value, other.Value)
}

func compareStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ResolvedDist is a fully-materialized descriptor for what to install for a
// pinned (name, version): one of a registry artifact, a URL artifact, or an
// editable source, per Kind.
type ResolvedDist struct {
	Kind Kind
	Name string

	// Version is set for Registry only.
	Version string

	// Verbatim is the user-visible URL or path text, preserved even after
	// fetch-target canonicalization (the "Verbatim URL" glossary entry).
	// Set for URL and Editable.
	Verbatim string

	// Precise is the redirect-applied fetch URL. Set for URL only; equals
	// Verbatim when no redirect applied.
	Precise string

	// Hashes holds this dist's content hashes, already sorted (SPEC_FULL
	// §8 "Hash sorting" is an invariant of the constructors below, not of
	// the caller).
	Hashes []Hash

	Attrs attr.Set
}

// NewRegistry builds a registry ResolvedDist, sorting hashes into their
// canonical order.
func NewRegistry(name, version string, hashes []Hash) ResolvedDist {
	return ResolvedDist{Kind: Registry, Name: name, Version: version, Hashes: sortedHashes(hashes)}
}

// NewURL builds a direct-URL ResolvedDist. precise is the fetch-time target
// after redirect application; it may equal verbatim.
func NewURL(name, verbatim, precise string, hashes []Hash) ResolvedDist {
	return ResolvedDist{Kind: URL, Name: name, Verbatim: verbatim, Precise: precise, Hashes: sortedHashes(hashes)}
}

// NewEditable builds an editable-source ResolvedDist.
func NewEditable(name, verbatim string) ResolvedDist {
	return ResolvedDist{Kind: Editable, Name: name, Verbatim: verbatim}
}

// SortHashes returns hashes in their canonical sorted order, for a
// collaborator (such as the graph builder) attaching index- or
// preference-supplied hashes to an already-built ResolvedDist.
func SortHashes(hashes []Hash) []Hash { return sortedHashes(hashes) }

func sortedHashes(hashes []Hash) []Hash {
	if len(hashes) == 0 {
		return nil
	}
	out := append([]Hash{}, hashes...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Compare(out[j-1]) < 0; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// CoreText renders the non-annotated, non-hash portion of a lockfile line
// for d: "-e <verbatim>" for editables, "<name>==<version>" for registry
// artifacts, "<name> @ <url>" for URL artifacts, using the verbatim form so
// the user-visible text of the URL survives rendering unchanged.
func (d ResolvedDist) CoreText() string {
	switch d.Kind {
	case Editable:
		return fmt.Sprintf("-e %s", d.Verbatim)
	case URL:
		return fmt.Sprintf("%s @ %s", d.Name, d.Verbatim)
	default:
		return fmt.Sprintf("%s==%s", d.Name, d.Version)
	}
}

// FetchURL returns the URL d should actually be downloaded from: the
// redirect-applied Precise form for a URL dist, empty otherwise.
func (d ResolvedDist) FetchURL() string {
	if d.Kind != URL {
		return ""
	}
	return d.Precise
}
