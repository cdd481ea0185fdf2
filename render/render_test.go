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

package render

import (
	"strings"
	"testing"

	"github.com/depsolve/pinlock/dist"
	"github.com/depsolve/pinlock/graph"
	"github.com/depsolve/pinlock/identity"
	"github.com/depsolve/pinlock/input"
	"github.com/depsolve/pinlock/pin"
)

func buildSimpleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	pins := pin.NewPinTable()
	pins.Set("root", "0", dist.NewRegistry("root", "0", nil))
	pins.Set("a", "1.0", dist.NewRegistry("a", "1.0", []dist.Hash{{Algorithm: "sha256", Value: "abc"}}))
	pins.Set("b", "2.0", dist.NewRegistry("b", "2.0", nil))
	in := input.ResolutionInput{
		Packages: map[identity.Identity][]string{
			identity.Concrete("root", "", "", nil): {"0"},
			identity.Concrete("a", "", "", nil):     {"1.0"},
			identity.Concrete("b", "", "", nil):     {"2.0"},
		},
		Dependencies: []input.DependencyEdge{
			{From: "root", To: "a", Range: ""},
			{From: "b", To: "a", Range: ""},
		},
		Pins: pins,
	}
	g, err := graph.Build(in, input.NewMemoryIndex(), input.NewMemoryIndex(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// Scenario 1, bare render.
func TestWriteBare(t *testing.T) {
	pins := pin.NewPinTable()
	pins.Set("a", "1.0", dist.NewRegistry("a", "1.0", nil))
	in := input.ResolutionInput{
		Packages: map[identity.Identity][]string{identity.Concrete("a", "", "", nil): {"1.0"}},
		Pins:     pins,
	}
	g, err := graph.Build(in, input.NewMemoryIndex(), input.NewMemoryIndex(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var sb strings.Builder
	if err := Write(&sb, g, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := sb.String(), "a==1.0\n"; got != want {
		t.Errorf("Write = %q, want %q", got, want)
	}
}

func TestWriteDeterministic(t *testing.T) {
	g := buildSimpleGraph(t)
	opts := Options{IncludeAnnotations: true, ShowHashes: true}
	var first, second strings.Builder
	if err := Write(&first, g, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(&second, g, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("two renders of the same graph differ:\n%q\n%q", first.String(), second.String())
	}
}

func TestWriteNoEmitPackages(t *testing.T) {
	g := buildSimpleGraph(t)
	var sb strings.Builder
	if err := Write(&sb, g, Options{NoEmitPackages: []string{"root"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(sb.String(), "root==") {
		t.Errorf("Write = %q, want root's own line omitted", sb.String())
	}
}

// The common case in a real lockfile: exactly one requester, Split style.
// Per original_source/crates/uv-resolver/src/resolution.rs:730-737, the via
// comment always sits on its own indented line, never inline with the pin.
func TestWriteAnnotationsSplitSingle(t *testing.T) {
	pins := pin.NewPinTable()
	pins.Set("root", "0", dist.NewRegistry("root", "0", nil))
	pins.Set("a", "1.0", dist.NewRegistry("a", "1.0", nil))
	in := input.ResolutionInput{
		Packages: map[identity.Identity][]string{
			identity.Concrete("root", "", "", nil): {"0"},
			identity.Concrete("a", "", "", nil):     {"1.0"},
		},
		Dependencies: []input.DependencyEdge{
			{From: "root", To: "a", Range: ""},
		},
		Pins: pins,
	}
	g, err := graph.Build(in, input.NewMemoryIndex(), input.NewMemoryIndex(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var sb strings.Builder
	if err := Write(&sb, g, Options{IncludeAnnotations: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "a==1.0\n    ") || !strings.Contains(out, "# via root") {
		t.Errorf("Write = %q, want the via comment on its own indented line", out)
	}
	if strings.Contains(out, "a==1.0    ") {
		t.Errorf("Write = %q, want no inline via comment for a single requester", out)
	}
}

func TestWriteAnnotationsSplitMultiple(t *testing.T) {
	g := buildSimpleGraph(t)
	var sb strings.Builder
	if err := Write(&sb, g, Options{IncludeAnnotations: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "# via"+ansiReset+"\n") || !strings.Contains(out, "#   b") || !strings.Contains(out, "#   root") {
		t.Errorf("Write = %q, want a multi-requester via block for a", out)
	}
}

func TestWriteAnnotationsLineStyle(t *testing.T) {
	g := buildSimpleGraph(t)
	var sb strings.Builder
	if err := Write(&sb, g, Options{IncludeAnnotations: true, AnnotationStyle: Line}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(sb.String(), "# via b, root") {
		t.Errorf("Write = %q, want a single via-line comment", sb.String())
	}
}

// A marker-forked node's comment must echo the original marker source, not
// a garbled debug form built from a shape-only, unbound parse.
func TestWriteMarkerAnnotation(t *testing.T) {
	pins := pin.NewPinTable()
	pins.Set("a", "1.0", dist.NewRegistry("a", "1.0", nil))
	in := input.ResolutionInput{
		Packages: map[identity.Identity][]string{
			identity.Concrete("a", "", `python_version >= "3.8"`, nil): {"1.0"},
		},
		Pins: pins,
	}
	g, err := graph.Build(in, input.NewMemoryIndex(), input.NewMemoryIndex(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var sb strings.Builder
	if err := Write(&sb, g, Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	const want = "a==1.0 # python_version >= \"3.8\"\n"
	if got := sb.String(); got != want {
		t.Errorf("Write = %q, want %q", got, want)
	}
}

func TestWriteNoTrailingWhitespace(t *testing.T) {
	g := buildSimpleGraph(t)
	var sb strings.Builder
	if err := Write(&sb, g, Options{IncludeAnnotations: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, line := range strings.Split(sb.String(), "\n") {
		if line != strings.TrimRight(line, " \t") {
			t.Errorf("line %q has trailing whitespace", line)
		}
	}
}
