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
Package render writes a pinned resolution graph as the canonical lockfile
text: one line per node, in NodeKey order, with optional extras, hashes,
and "via" provenance annotations (SPEC_FULL §4.5).
*/
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/depsolve/pinlock/dist"
	"github.com/depsolve/pinlock/graph"
)

// AnnotationStyle selects how multiple requesters of the same pin are
// rendered as a "via" comment.
type AnnotationStyle int

const (
	// Split renders a single requester as "# via <name>" on its own
	// indented line, and a multi-requester block as an indented,
	// one-name-per-line list. This is the default: it is what a reader
	// scanning a long lockfile is used to.
	Split AnnotationStyle = iota
	// Line always renders a single "# via a, b, c" comment, regardless of
	// how many requesters there are.
	Line
)

// Options configures one render pass. The zero value renders bare pins:
// no extras, no hashes, no annotations, Split style, nothing filtered.
type Options struct {
	AnnotationStyle    AnnotationStyle
	IncludeExtras      bool
	ShowHashes         bool
	IncludeAnnotations bool
	// NoEmitPackages names packages to omit from the rendered listing
	// (e.g. the interpreter itself, or a base library pinned elsewhere).
	// They still appear in other packages' "via" annotations.
	NoEmitPackages []string
}

const payloadWidth = 24

const (
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// nodeKey orders rendered lines: all editables, lexicographically by their
// verbatim source, before all distributions, lexicographically by name.
type nodeKey struct {
	editable bool
	key      string
}

func (k nodeKey) less(o nodeKey) bool {
	if k.editable != o.editable {
		return k.editable
	}
	return k.key < o.key
}

func keyFor(d dist.ResolvedDist) nodeKey {
	if d.Kind == dist.Editable {
		return nodeKey{editable: true, key: d.Verbatim}
	}
	return nodeKey{key: d.Name}
}

// Write renders g to w as the canonical lockfile text.
func Write(w io.Writer, g *graph.Graph, opts Options) error {
	omit := make(map[string]bool, len(opts.NoEmitPackages))
	for _, name := range opts.NoEmitPackages {
		omit[name] = true
	}

	type ordered struct {
		id  graph.NodeID
		key nodeKey
	}
	var rows []ordered
	for i, n := range g.Nodes {
		if omit[n.Dist.Name] {
			continue
		}
		rows = append(rows, ordered{id: graph.NodeID(i), key: keyFor(n.Dist)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].key == rows[j].key {
			return rows[i].id < rows[j].id
		}
		return rows[i].key.less(rows[j].key)
	})

	for _, row := range rows {
		line := renderLine(g, row.id, opts)
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func renderLine(g *graph.Graph, id graph.NodeID, opts Options) string {
	node := g.Nodes[id]
	d := node.Dist

	payload := d.CoreText()
	if opts.IncludeExtras {
		if extras := g.Extras[d.Name]; len(extras) > 0 {
			payload = withExtras(d, extras)
		}
	}
	if node.Markers != "" {
		payload += " # " + node.Markers
	}
	if opts.ShowHashes {
		for _, h := range d.Hashes {
			payload += " \\\n    --hash=" + h.String()
		}
	}

	if !opts.IncludeAnnotations {
		return trimTrailing(payload)
	}
	requesters := requesterNames(g, id)
	if len(requesters) == 0 {
		return trimTrailing(payload)
	}

	switch opts.AnnotationStyle {
	case Line:
		sep := "  "
		if opts.ShowHashes && len(d.Hashes) > 0 {
			sep = "\n    "
		}
		comment := ansiGreen + "# via " + strings.Join(requesters, ", ") + ansiReset
		return trimTrailing(pad(payload) + sep + comment)
	default: // Split
		if len(requesters) == 1 {
			var b strings.Builder
			b.WriteString(trimTrailing(payload))
			b.WriteString("\n    " + ansiGreen + "# via " + requesters[0] + ansiReset)
			return trimLinesTrailing(b.String())
		}
		var b strings.Builder
		b.WriteString(trimTrailing(payload))
		b.WriteString("\n    " + ansiGreen + "# via" + ansiReset)
		for _, r := range requesters {
			b.WriteString("\n    " + ansiGreen + "#   " + r + ansiReset)
		}
		return trimLinesTrailing(b.String())
	}
}

func withExtras(d dist.ResolvedDist, extras []string) string {
	suffix := fmt.Sprintf("[%s]", strings.Join(extras, ", "))
	switch d.Kind {
	case dist.URL:
		return fmt.Sprintf("%s%s @ %s", d.Name, suffix, d.Verbatim)
	default:
		return fmt.Sprintf("%s%s==%s", d.Name, suffix, d.Version)
	}
}

func requesterNames(g *graph.Graph, id graph.NodeID) []string {
	in := g.Incoming(id)
	names := make([]string, 0, len(in))
	for _, e := range in {
		names = append(names, g.Nodes[e.From].Dist.Name)
	}
	sort.Strings(names)
	return names
}

func pad(payload string) string {
	if strings.Contains(payload, "\n") || len(payload) >= payloadWidth {
		return payload
	}
	return payload + strings.Repeat(" ", payloadWidth-len(payload))
}

func trimTrailing(s string) string {
	return trimLinesTrailing(s)
}

func trimLinesTrailing(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}
