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

// Package pin holds the two pure lookup tables a resolution input carries
// up-front: PinTable (which artifact backs each pinned (name, version)) and
// URLRegistry (which packages were pre-declared as direct-URL
// dependencies, and how their URLs canonicalize at fetch time).
package pin

import "github.com/depsolve/pinlock/dist"

// Key identifies a single pinned (name, version) entry in a PinTable.
type Key struct {
	Name    string
	Version string
}

// PinTable maps a (name, version) to the concrete distribution chosen for
// it. Every concrete-real package identity in a Resolution Input must have
// a total entry here; the graph builder treats a miss as a fatal
// ResolveError (a broken contract with the collaborator that built the
// input, not a recoverable condition).
type PinTable struct {
	pins map[Key]dist.ResolvedDist
}

// NewPinTable creates an empty PinTable.
func NewPinTable() *PinTable {
	return &PinTable{pins: make(map[Key]dist.ResolvedDist)}
}

// Set records the distribution chosen for (name, version).
func (t *PinTable) Set(name, version string, d dist.ResolvedDist) {
	t.pins[Key{Name: name, Version: version}] = d
}

// Get returns the distribution pinned for (name, version), if any.
func (t *PinTable) Get(name, version string) (dist.ResolvedDist, bool) {
	d, ok := t.pins[Key{Name: name, Version: version}]
	return d, ok
}

// URLRegistry maps a package name to its pre-declared, user-visible direct
// URL, and separately resolves fetch-time redirects of any verbatim URL to
// its precise (e.g., hash-qualified) form. All URL dependencies, direct or
// transitive, must have their name present here before the solver runs
// (SPEC_FULL §9 "URL pre-registration"); a name missing from urls when a
// Concrete identity carries a URL is a builder precondition violation.
type URLRegistry struct {
	urls      map[string]string
	redirects map[string]string
}

// NewURLRegistry creates an empty URLRegistry.
func NewURLRegistry() *URLRegistry {
	return &URLRegistry{urls: make(map[string]string), redirects: make(map[string]string)}
}

// Declare pre-registers name's verbatim direct URL.
func (r *URLRegistry) Declare(name, verbatimURL string) {
	r.urls[name] = verbatimURL
}

// URL implements identity.URLRegistry.
func (r *URLRegistry) URL(name string) (string, bool) {
	u, ok := r.urls[name]
	return u, ok
}

// AddRedirect records that fetching verbatimURL actually resolves to
// preciseURL (for example, with a hash fragment appended by the index).
func (r *URLRegistry) AddRedirect(verbatimURL, preciseURL string) {
	r.redirects[verbatimURL] = preciseURL
}

// ApplyRedirect rewrites verbatimURL's fetch target to its precise form,
// if a redirect was recorded, leaving the string unchanged otherwise. It is
// idempotent: a precise URL is never itself a redirect source, so applying
// it a second time is a no-op (SPEC_FULL §8 "URL redirect idempotence").
func (r *URLRegistry) ApplyRedirect(verbatimURL string) string {
	if precise, ok := r.redirects[verbatimURL]; ok {
		return precise
	}
	return verbatimURL
}
