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

package identity

import "testing"

type fakeURLs map[string]string

func (f fakeURLs) URL(name string) (string, bool) {
	u, ok := f[name]
	return u, ok
}

func TestString(t *testing.T) {
	cases := []struct {
		id   Identity
		want string
	}{
		{id: Root(""), want: "root"},
		{id: Root("myproject"), want: "myproject"},
		{id: Interpreter(Installed), want: "Python"},
		{id: Concrete("requests", "", "", nil), want: "requests"},
		{id: Concrete("requests", "socks", "", nil), want: "requests[socks]"},
		{id: Concrete("requests", "", `sys_platform == "linux"`, nil), want: `requests{sys_platform == "linux"}`},
		{id: Concrete("requests", "socks", `sys_platform == "linux"`, nil), want: `requests[socks]{sys_platform == "linux"}`},
	}
	for _, c := range cases {
		if got := c.id.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestNameKey(t *testing.T) {
	if got := Root("").NameKey(); got != "<NONE>" {
		t.Errorf("Root(\"\").NameKey() = %q, want <NONE>", got)
	}
	if got := Interpreter(Target).NameKey(); got != "<PYTHON>" {
		t.Errorf("Interpreter(Target).NameKey() = %q, want <PYTHON>", got)
	}
	if got := Concrete("flask", "", "", nil).NameKey(); got != "flask" {
		t.Errorf("Concrete(flask).NameKey() = %q, want flask", got)
	}
}

func TestConcreteURLLookup(t *testing.T) {
	urls := fakeURLs{"werkzeug": "https://example.com/werkzeug.tgz"}
	id := Concrete("werkzeug", "", "", urls)
	if id.URL != "https://example.com/werkzeug.tgz" {
		t.Errorf("Concrete(werkzeug).URL = %q, want the pre-declared URL", id.URL)
	}
	other := Concrete("flask", "", "", urls)
	if other.URL != "" {
		t.Errorf("Concrete(flask).URL = %q, want empty", other.URL)
	}
}

func TestVirtualAndBase(t *testing.T) {
	virtual := Concrete("black", "jupyter", "", nil)
	if !virtual.IsVirtual() {
		t.Errorf("Concrete(black, jupyter).IsVirtual() = false, want true")
	}
	base := virtual.Base()
	if base.IsVirtual() {
		t.Errorf("Base().IsVirtual() = true, want false")
	}
	if base != Concrete("black", "", "", nil) {
		t.Errorf("Base() = %+v, want the real black identity", base)
	}
}

func TestEquality(t *testing.T) {
	a := Concrete("flask", "", "", nil)
	b := Concrete("flask", "", "", nil)
	if a != b {
		t.Errorf("two equivalent Concrete identities compared unequal")
	}
	c := Concrete("flask", "async", "", nil)
	if a == c {
		t.Errorf("identities differing by Extra compared equal")
	}
}
