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

package input

import "github.com/depsolve/pinlock/dist"

type distKey struct {
	name, version string
}

// MemoryIndex is a fully in-memory Index, Preferences, and Editables,
// built by the caller with an Add*-then-query API. It is the graph
// builder's test fixture, adapted from the teacher package's LocalClient:
// the same "populate a map, then satisfy a collaborator interface" idiom,
// generalized from version-and-requirements storage to metadata, hashes,
// redirects, and editables.
type MemoryIndex struct {
	hashes      map[distKey][]dist.Hash
	preferences map[distKey][]dist.Hash
	metadata    map[DistRef]Metadata
	redirects   map[string]string
	editables   map[string]editableEntry
}

type editableEntry struct {
	verbatim string
	meta     Metadata
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		hashes:      make(map[distKey][]dist.Hash),
		preferences: make(map[distKey][]dist.Hash),
		metadata:    make(map[DistRef]Metadata),
		redirects:   make(map[string]string),
		editables:   make(map[string]editableEntry),
	}
}

// AddVersion records the index-supplied hashes and metadata for one
// registry (name, version).
func (m *MemoryIndex) AddVersion(name, version string, hashes []dist.Hash, meta Metadata) {
	m.hashes[distKey{name, version}] = hashes
	m.metadata[DistRef{Name: name, Version: version}] = meta
}

// AddURLVersion records the metadata for a direct-URL distribution.
func (m *MemoryIndex) AddURLVersion(name, url string, meta Metadata) {
	m.metadata[DistRef{Name: name, URL: url}] = meta
}

// AddPreferenceHashes records hashes as if they came from a prior
// lockfile, so they take priority over AddVersion's index hashes.
func (m *MemoryIndex) AddPreferenceHashes(name, version string, hashes []dist.Hash) {
	m.preferences[distKey{name, version}] = hashes
}

// AddRedirect records that fetching verbatimURL actually resolves to
// preciseURL.
func (m *MemoryIndex) AddRedirect(verbatimURL, preciseURL string) {
	m.redirects[verbatimURL] = preciseURL
}

// AddEditable records an editable package's local descriptor and metadata.
func (m *MemoryIndex) AddEditable(name, verbatim string, meta Metadata) {
	m.editables[name] = editableEntry{verbatim: verbatim, meta: meta}
}

// Hashes implements Index.
func (m *MemoryIndex) Hashes(name, version string) ([]dist.Hash, bool) {
	h, ok := m.hashes[distKey{name, version}]
	return h, ok
}

// Metadata implements Index.
func (m *MemoryIndex) Metadata(ref DistRef) (Metadata, bool) {
	md, ok := m.metadata[ref]
	return md, ok
}

// Redirect implements Index.
func (m *MemoryIndex) Redirect(verbatimURL string) (string, bool) {
	p, ok := m.redirects[verbatimURL]
	return p, ok
}

// MatchHashes implements Preferences.
func (m *MemoryIndex) MatchHashes(name, version string) ([]dist.Hash, bool) {
	h, ok := m.preferences[distKey{name, version}]
	return h, ok
}

// Get implements Editables.
func (m *MemoryIndex) Get(name string) (string, Metadata, bool) {
	e, ok := m.editables[name]
	return e.verbatim, e.meta, ok
}
