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
Package marker parses and evaluates PEP 508 environment markers
(https://www.python.org/dev/peps/pep-0508/#environment-markers).
The relevant parts of the grammar are:

	marker       = marker_or
	marker_or    = marker_and wsp* 'or' marker_or
	             | marker_and
	marker_and   = marker_expr wsp* 'and' marker_and
	             | marker_expr
	marker_expr  = marker_var marker_op marker_var
	             | wsp* '(' marker ')'
	marker_var   = wsp* (env_var | python_str)
	env_var      = 'python_version' | 'python_full_version' | 'os_name'
	             | 'sys_platform' | 'platform_release' | 'platform_system'
	             | 'platform_machine' | 'platform_python_implementation'
	             | 'implementation_name' | 'implementation_version' | 'extra'
	marker_op    = version_cmp | (wsp* 'in') | (wsp* 'not' wsp+ 'in')
	version_cmp  = wsp* ('<=' | '<' | '!=' | '==' | '>=' | '>' | '~=' | '===')

The rules for marker_or and marker_and have been loosened to allow more than
one marker_or/marker_and without parentheses, matching pip's actual parser
rather than the letter of the grammar.
*/
package marker

import (
	"fmt"
	"strings"

	"deps.dev/util/semver"
)

// Tree is a parsed environment marker. It is one of Expression, And or Or.
type Tree interface {
	String() string
	// Eval evaluates the marker given the set of activated extras.
	Eval(extras map[string]bool) bool
	// Walk calls visit for every named, non-extra variable referenced
	// anywhere in the tree. A variable may be visited more than once.
	Walk(visit func(name string))
}

// And is the conjunction of two marker trees.
type And struct {
	Left, Right Tree
}

func (a And) String() string { return fmt.Sprintf("(%s and %s)", a.Left, a.Right) }

func (a And) Eval(extras map[string]bool) bool {
	return a.Left.Eval(extras) && a.Right.Eval(extras)
}

func (a And) Walk(visit func(name string)) {
	a.Left.Walk(visit)
	a.Right.Walk(visit)
}

// Or is the disjunction of two marker trees.
type Or struct {
	Left, Right Tree
}

func (o Or) String() string { return fmt.Sprintf("(%s or %s)", o.Left, o.Right) }

func (o Or) Eval(extras map[string]bool) bool {
	return o.Left.Eval(extras) || o.Right.Eval(extras)
}

func (o Or) Walk(visit func(name string)) {
	o.Left.Walk(visit)
	o.Right.Walk(visit)
}

// Conjoin folds a list of trees into their conjunction using And, preserving
// list order. It panics if ts is empty.
func Conjoin(ts ...Tree) Tree {
	t := ts[0]
	for _, next := range ts[1:] {
		t = And{Left: t, Right: next}
	}
	return t
}

// Disjoin folds a list of trees into their disjunction using Or, preserving
// list order. It panics if ts is empty.
func Disjoin(ts ...Tree) Tree {
	t := ts[0]
	for _, next := range ts[1:] {
		t = Or{Left: t, Right: next}
	}
	return t
}

// Environment supplies the live values of PEP 508 environment variables, so
// that a parsed marker's named variables can be bound to something
// comparable. It is implemented by the collaborator the graph package calls
// MarkerEnvironment (SPEC_FULL §6).
type Environment interface {
	// GetString returns the current string value of the named variable.
	GetString(name string) (string, bool)
	// GetVersion returns the current value of the named variable as a
	// parsed PEP 440 version, when that variable is version-like
	// (python_version, python_full_version, implementation_version).
	GetVersion(name string) (*semver.Version, bool)
}

// Var is a reference to a marker variable: either one of the predefined
// environment names (bound, at parse time, to a value from an Environment),
// or a quoted string literal (Name == "").
type Var struct {
	Name    string // Empty if this is a literal.
	Value   string
	version *semver.Version // Set if Value parses as a PEP 440 version.
}

func (v Var) String() string {
	if v.Name != "" {
		return fmt.Sprintf("%s(%q)", v.Name, v.Value)
	}
	return fmt.Sprintf("%q", v.Value)
}

// Literal constructs a string-literal Var, as would appear quoted in a
// marker source string.
func Literal(value string) Var { return mkVar(value) }

func mkVar(value string) Var {
	v := Var{Value: value}
	if ver, err := semver.PyPI.Parse(value); err == nil {
		v.version = ver
	}
	return v
}

// Variable constructs a Var bound to name's current value in env, the same
// way a named variable is bound while parsing. Graph-level marker synthesis
// uses this directly, without going through Parse, to build the equality
// conjuncts it emits (SPEC_FULL §4.4).
func Variable(name string, env Environment) Var {
	return bindVar(name, env)
}

// bindVar constructs a Var for a known environment variable name, looking
// its current value up in env. The "extra" variable is never bound this
// way: its value is only known at fold time, from the activated extra set
// passed to Eval.
func bindVar(name string, env Environment) Var {
	if name == "extra" {
		return Var{Name: "extra"}
	}
	v := Var{Name: name}
	if s, ok := env.GetString(name); ok {
		v.Value = s
	}
	if ver, ok := env.GetVersion(name); ok {
		v.version = ver
	} else if v.Value != "" {
		if ver, err := semver.PyPI.Parse(v.Value); err == nil {
			v.version = ver
		}
	}
	return v
}

// Op is a comparison operator appearing between two Vars in an Expression.
type Op byte

const (
	OpUnknown Op = iota
	OpLessEqual
	OpLess
	OpNotEqual
	OpEqual
	OpGreaterEqual
	OpGreater
	OpTildeEqual
	OpStrictEqual
	OpIn
	OpNotIn
)

func (o Op) String() string {
	switch o {
	case OpLessEqual:
		return "<="
	case OpLess:
		return "<"
	case OpNotEqual:
		return "!="
	case OpEqual:
		return "=="
	case OpGreaterEqual:
		return ">="
	case OpGreater:
		return ">"
	case OpTildeEqual:
		return "~="
	case OpStrictEqual:
		return "==="
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	default:
		return "?"
	}
}

// opsByLength holds every Op with a fixed-length string form, longest first,
// so the parser can greedily match without backtracking.
var opsByLength = []Op{
	OpStrictEqual,
	OpLessEqual, OpNotEqual, OpEqual, OpGreaterEqual, OpTildeEqual, OpIn,
	OpLess, OpGreater,
}

// Expression is a binary comparison between two Vars. Per PEP 508, version
// comparisons are preferred when both sides parse as PEP 440 versions;
// otherwise comparison falls back to Python string semantics.
type Expression struct {
	Op          Op
	Left, Right Var
	// constraint is set when both sides are valid versions and Op is a
	// version-comparison operator (not ===); it backs Eval with real
	// version-range matching rather than string comparison.
	constraint *semver.Constraint
}

func (e Expression) String() string {
	c := "nil"
	if e.constraint != nil {
		c = e.constraint.Set().String()
	}
	return fmt.Sprintf("(%s %s %s (%s))", e.Left, e.Op, e.Right, c)
}

// NewExpression builds an Expression, computing its version constraint (if
// any) and validating extra-comparison and ~=-comparison restrictions the
// same way the PEP 508 reference implementation does.
func NewExpression(op Op, left, right Var) (Expression, error) {
	if (left.version == nil || right.version == nil) && op == OpTildeEqual {
		return Expression{}, fmt.Errorf("~= must compare versions, got %s %s %s", left, op, right)
	}
	if (left.Name == "extra" || right.Name == "extra") && op != OpEqual {
		return Expression{}, fmt.Errorf("extra can only be compared with '==', got: %s %s %s", left, op, right)
	}
	e := Expression{Op: op, Left: left, Right: right}
	if left.version != nil && right.version != nil && op != OpStrictEqual {
		c, err := semver.PyPI.ParseConstraint(op.String() + right.Value)
		if err != nil {
			return Expression{}, err
		}
		e.constraint = c
	}
	return e, nil
}

// Eval evaluates the expression given the set of activated extras.
func (e Expression) Eval(extras map[string]bool) bool {
	if e.Left.Name == "extra" || e.Right.Name == "extra" {
		v := e.Left.Value
		if e.Left.Name == "extra" {
			v = e.Right.Value
		}
		return extras[v]
	}
	if e.constraint != nil {
		return e.constraint.Set().MatchVersion(e.Left.version)
	}
	switch e.Op {
	case OpLessEqual:
		return e.Left.Value <= e.Right.Value
	case OpLess:
		return e.Left.Value < e.Right.Value
	case OpNotEqual:
		return e.Left.Value != e.Right.Value
	case OpEqual, OpStrictEqual:
		return e.Left.Value == e.Right.Value
	case OpGreaterEqual:
		return e.Left.Value >= e.Right.Value
	case OpGreater:
		return e.Left.Value > e.Right.Value
	case OpIn:
		return strings.Contains(e.Right.Value, e.Left.Value)
	case OpNotIn:
		return !strings.Contains(e.Right.Value, e.Left.Value)
	default:
		panic(fmt.Errorf("marker: unknown or invalid op: %v", e.Op))
	}
}

// Walk visits each named variable, skipping "extra" (its value is only
// known at resolution time, not part of the ambient environment) and
// literals (Name == "").
func (e Expression) Walk(visit func(name string)) {
	if e.Left.Name != "" && e.Left.Name != "extra" {
		visit(e.Left.Name)
	}
	if e.Right.Name != "" && e.Right.Name != "extra" {
		visit(e.Right.Name)
	}
}

// Parameters collects the set of distinct, non-extra environment variable
// names referenced anywhere in t, as used by marker synthesis (SPEC_FULL
// §4.4).
func Parameters(t Tree) []string {
	seen := make(map[string]bool)
	var order []string
	t.Walk(func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	})
	return order
}
