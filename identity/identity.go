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
Package identity defines PackageIdentity, the sum type a PubGrub-style
solver uses to satisfy its single-root, single-version-per-identity
requirements while still letting this core model extras, marker forks, and
direct URL dependencies uniformly.
*/
package identity

import (
	"fmt"

	"github.com/depsolve/pinlock/marker"
)

// Kind tags which shape of PackageIdentity is populated.
type Kind byte

const (
	// KindRoot is the synthetic starting point; at most one per resolution.
	KindRoot Kind = iota
	// KindInterpreter is a sentinel for interpreter-version constraints.
	KindInterpreter
	// KindConcrete is a real package, possibly virtual (extra-bearing),
	// marker-conditioned, or URL-pinned.
	KindConcrete
)

// InterpreterKind distinguishes the two interpreter sentinels a resolution
// can reference.
type InterpreterKind byte

const (
	// Installed is the Python version actually present in the environment.
	Installed InterpreterKind = iota
	// Target is the Python version dependencies are being resolved for.
	Target
)

// Identity is a single comparable struct encoding the four shapes a
// PackageIdentity can take. It is deliberately not an interface: every
// field participates in equality, and a flat comparable struct can be used
// directly as a map key (input.ResolutionInput.Packages), mirroring how the
// teacher package uses plain comparable PackageKey/VersionKey values.
//
// Two Identity values are the same identity iff every field matches,
// including URL: a Concrete with url set and one with url unset, same name,
// are distinct identities (and must not both appear in a valid resolution
// input: at most one URL form per name).
type Identity struct {
	Kind Kind

	// RootName is set only for KindRoot, and only when the root has a name
	// (a named project root rather than an anonymous one).
	RootName string

	// InterpreterKind is set only for KindInterpreter.
	InterpreterKind InterpreterKind

	// The following are set only for KindConcrete.
	Name   string
	Extra  string // "" if this is not the virtual extra-bearing form.
	Marker string // Raw marker source; "" if unconditioned. Identity keys
	// off the raw text (lexically), matching the solver's own
	// fork-splitting, which never reparses a marker to test semantic
	// equivalence with another.
	URL string // "" if not URL-pinned.
}

// Root constructs the synthetic root identity, optionally named.
func Root(name string) Identity {
	return Identity{Kind: KindRoot, RootName: name}
}

// Interpreter constructs one of the two interpreter sentinels.
func Interpreter(kind InterpreterKind) Identity {
	return Identity{Kind: KindInterpreter, InterpreterKind: kind}
}

// URLRegistry resolves a package name to its pre-declared, user-visible
// direct URL, if any. See pin.URLRegistry.
type URLRegistry interface {
	URL(name string) (string, bool)
}

// Concrete constructs a real package identity, looking up its pre-declared
// URL (if any) in urls. extra and rawMarker may be empty.
func Concrete(name, extra, rawMarker string, urls URLRegistry) Identity {
	id := Identity{Kind: KindConcrete, Name: name, Extra: extra, Marker: rawMarker}
	if urls != nil {
		if u, ok := urls.URL(name); ok {
			id.URL = u
		}
	}
	return id
}

// IsVirtual reports whether id is the extra-bearing virtual form of a
// concrete package: it must always co-exist with, and edge into, the
// identity obtained by clearing Extra.
func (id Identity) IsVirtual() bool {
	return id.Kind == KindConcrete && id.Extra != ""
}

// Base returns the real, non-virtual identity backing id: itself if id is
// already real, or id with Extra cleared if id is virtual.
func (id Identity) Base() Identity {
	id.Extra = ""
	return id
}

// NameKey returns the identity's canonical name: "<NONE>" for an unnamed root,
// "<PYTHON>" for an interpreter sentinel, the package name otherwise.
func (id Identity) NameKey() string {
	switch id.Kind {
	case KindRoot:
		if id.RootName == "" {
			return "<NONE>"
		}
		return id.RootName
	case KindInterpreter:
		return "<PYTHON>"
	default:
		return id.Name
	}
}

// String renders id the way the solver's trace output does.
func (id Identity) String() string {
	switch id.Kind {
	case KindRoot:
		if id.RootName == "" {
			return "root"
		}
		return id.RootName
	case KindInterpreter:
		return "Python"
	default:
		s := id.Name
		if id.Extra != "" {
			s = fmt.Sprintf("%s[%s]", s, id.Extra)
		}
		if id.Marker != "" {
			s = fmt.Sprintf("%s{%s}", s, id.Marker)
		}
		return s
	}
}

// ParsedMarker parses id's raw marker source, if any, binding its named
// variables against env. It returns (nil, nil) when id carries no marker.
func (id Identity) ParsedMarker(env marker.Environment) (marker.Tree, error) {
	if id.Marker == "" {
		return nil, nil
	}
	return marker.Parse(id.Marker, env)
}
