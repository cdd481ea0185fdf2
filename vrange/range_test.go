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

package vrange

import (
	"testing"

	"deps.dev/util/semver"
)

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := semver.PyPI.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func TestUnion(t *testing.T) {
	a, err := Parse(">=1,<2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse(">=1.2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	u, err := a.Union(b)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if !u.Match(mustVersion(t, "1.0")) {
		t.Errorf("Union(>=1,<2, >=1.2) should match 1.0")
	}
	if !u.Match(mustVersion(t, "1.5")) {
		t.Errorf("Union(>=1,<2, >=1.2) should match 1.5")
	}
	if !u.Match(mustVersion(t, "3.0")) {
		t.Errorf("Union(>=1,<2, >=1.2) should match 3.0 (>=1.2 covers it)")
	}
	if u.Match(mustVersion(t, "0.5")) {
		t.Errorf("Union(>=1,<2, >=1.2) should not match 0.5")
	}
}

func TestUnionCommutative(t *testing.T) {
	a, _ := Parse(">=1,<2")
	b, _ := Parse(">=1.2")
	ab, err := a.Union(b)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	ba, err := b.Union(a)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	for _, v := range []string{"0.5", "1.0", "1.5", "3.0"} {
		if ab.Match(mustVersion(t, v)) != ba.Match(mustVersion(t, v)) {
			t.Errorf("Union not commutative at version %s", v)
		}
	}
}

func TestEmptyUnion(t *testing.T) {
	var empty Range
	a, _ := Parse(">=1")
	u, err := empty.Union(a)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if !u.Match(mustVersion(t, "1.0")) {
		t.Errorf("Union(empty, >=1) should match 1.0")
	}
}
