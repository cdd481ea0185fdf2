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
	"fmt"

	"github.com/depsolve/pinlock/dist"
)

// Diagnostic is a non-fatal finding recorded while building a Graph: the
// resolution is still valid, but something about it is worth surfacing to
// whoever consumes the lockfile.
type Diagnostic interface {
	Message() string
}

// MissingExtra records that some requester asked for dist[Extra], but
// dist's own metadata does not list Extra among its provided extras.
type MissingExtra struct {
	Dist  dist.ResolvedDist
	Extra string
}

func (d MissingExtra) Message() string {
	return fmt.Sprintf("The package `%s` does not have an extra named `%s`.", d.Dist.CoreText(), d.Extra)
}
