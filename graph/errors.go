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

import "fmt"

// ResolveError reports a fatal inconsistency between the Resolution Input
// and its collaborators (Pins, URLs, Index, Editables): one that means the
// solver's contract with the graph builder was broken, not a condition a
// valid resolution can produce. Building stops at the first ResolveError;
// the partially built graph is discarded.
type ResolveError struct {
	msg string
	err error
}

func (e *ResolveError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *ResolveError) Unwrap() error { return e.err }

func resolveErrorf(format string, args ...any) *ResolveError {
	return &ResolveError{msg: fmt.Sprintf(format, args...)}
}

func wrapResolveError(msg string, err error) *ResolveError {
	return &ResolveError{msg: msg, err: err}
}
