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

package marker

import "deps.dev/util/semver"

// StaticEnvironment is a fixed Environment, keyed by variable name. An empty
// one backs the graph package's shape-only marker parsing, and populated
// ones back the tests of this package and of graph; callers that read a live environment (an interpreter's sysconfig,
// say) supply their own Environment instead.
type StaticEnvironment map[string]string

func (e StaticEnvironment) GetString(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

func (e StaticEnvironment) GetVersion(name string) (*semver.Version, bool) {
	s, ok := e[name]
	if !ok {
		return nil, false
	}
	v, err := semver.PyPI.Parse(s)
	if err != nil {
		return nil, false
	}
	return v, true
}
