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

import (
	"testing"

	"github.com/depsolve/pinlock/dist"
)

func TestMemoryIndexVersion(t *testing.T) {
	idx := NewMemoryIndex()
	meta := Metadata{ProvidesExtras: map[string]bool{"socks": true}}
	idx.AddVersion("requests", "2.31.0", []dist.Hash{{Algorithm: "sha256", Value: "abc"}}, meta)

	h, ok := idx.Hashes("requests", "2.31.0")
	if !ok || len(h) != 1 || h[0].Value != "abc" {
		t.Errorf("Hashes(requests, 2.31.0) = %v, %v, want the recorded hash", h, ok)
	}
	if _, ok := idx.Hashes("requests", "2.30.0"); ok {
		t.Errorf("Hashes(requests, 2.30.0) found an entry, want miss")
	}

	md, ok := idx.Metadata(DistRef{Name: "requests", Version: "2.31.0"})
	if !ok || !md.ProvidesExtras["socks"] {
		t.Errorf("Metadata(requests, 2.31.0) = %v, %v, want socks extra", md, ok)
	}
}

func TestMemoryIndexPreferenceOverridesIndex(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddVersion("a", "1.0", []dist.Hash{{Algorithm: "sha256", Value: "index"}}, Metadata{})
	idx.AddPreferenceHashes("a", "1.0", []dist.Hash{{Algorithm: "sha256", Value: "locked"}})

	pref, ok := idx.MatchHashes("a", "1.0")
	if !ok || pref[0].Value != "locked" {
		t.Errorf("MatchHashes(a, 1.0) = %v, %v, want the preference hash", pref, ok)
	}
	fromIdx, ok := idx.Hashes("a", "1.0")
	if !ok || fromIdx[0].Value != "index" {
		t.Errorf("Hashes(a, 1.0) = %v, %v, want the index hash unchanged", fromIdx, ok)
	}
}

func TestMemoryIndexRedirect(t *testing.T) {
	idx := NewMemoryIndex()
	idx.AddRedirect("https://u/a.tgz", "https://u/a.tgz#sha=deadbeef")

	p, ok := idx.Redirect("https://u/a.tgz")
	if !ok || p != "https://u/a.tgz#sha=deadbeef" {
		t.Errorf("Redirect(a.tgz) = %q, %v, want the precise URL", p, ok)
	}
	if _, ok := idx.Redirect("https://u/b.tgz"); ok {
		t.Errorf("Redirect(b.tgz) found an entry, want miss")
	}
}

func TestMemoryIndexEditable(t *testing.T) {
	idx := NewMemoryIndex()
	meta := Metadata{RequiresDist: []Requirement{{Name: "click", Range: ">=8"}}}
	idx.AddEditable("mypkg", "./mypkg", meta)

	verbatim, md, ok := idx.Get("mypkg")
	if !ok || verbatim != "./mypkg" || len(md.RequiresDist) != 1 {
		t.Errorf("Get(mypkg) = %q, %v, %v, want the editable descriptor", verbatim, md, ok)
	}
	if _, _, ok := idx.Get("other"); ok {
		t.Errorf("Get(other) found an entry, want miss")
	}
}

func TestMemoryIndexURLVersion(t *testing.T) {
	idx := NewMemoryIndex()
	meta := Metadata{RequiresDist: []Requirement{{Name: "idna"}}}
	idx.AddURLVersion("mypkg", "https://u/mypkg.tgz", meta)

	md, ok := idx.Metadata(DistRef{Name: "mypkg", URL: "https://u/mypkg.tgz"})
	if !ok || len(md.RequiresDist) != 1 {
		t.Errorf("Metadata(mypkg, URL) = %v, %v, want the recorded metadata", md, ok)
	}
}
