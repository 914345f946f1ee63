// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package ast

import "github.com/trident-lang/trident/pkg/source"

// Stmt is the closed set of statement forms making up a Block.
type Stmt interface {
	isStmt()
}

// Let binds a new (optionally typed) local variable.  The type may be nil,
// in which case the checker infers it from Value.
type Let struct {
	Name  string
	Type  Ty
	Value source.Spanned[Expr]
}

// Place is the left-hand side of an Assign statement: a local, an array
// index, or a struct field, chained arbitrarily (e.g. `a[i].x`).
type Place struct {
	Base    string
	Indices []PlaceIndex
}

// PlaceIndex is one link in a Place's access chain.
type PlaceIndex struct {
	// Field is set for a `.name` access; Index is set (and Field empty) for
	// a `[expr]` access.
	Field string
	Index *source.Spanned[Expr]
}

// Assign writes to an existing, mutable place.
type Assign struct {
	Target Place
	Value  source.Spanned[Expr]
}

// ExprStmt evaluates an expression for its side effects, discarding any
// value (used for `assert(...)`, `assert_eq(...)`, and calls to impure
// functions).
type ExprStmt struct{ Value source.Spanned[Expr] }

// Return exits the enclosing function with the given value (absent for a
// Unit-returning function).
type Return struct{ Value *source.Spanned[Expr] }

// For iterates Var over 0..Bound (a compile-time array size), executing
// Body on each iteration; the loop bound feeds the cost model's per-loop
// weighting.
type For struct {
	Var   string
	Bound ArraySize
	Body  Block
}

// If is a conditional; Else is nil when there is no else-branch.
type If struct {
	Cond source.Spanned[Expr]
	Then Block
	Else *Block
}

// MatchArm is one `pattern => block` arm of a Match.
type MatchArm struct {
	// Literal is the constant this arm matches; Default is true for the
	// wildcard arm (`_`).
	Literal uint64
	Default bool
	Body    Block
}

// Match is a multi-way conditional over an integer-valued scrutinee.
type Match struct {
	Scrutinee source.Spanned[Expr]
	Arms      []MatchArm
}

// Reveal emits a named event with the given field values into the proof's
// public output.
type Reveal struct {
	Event  string
	Fields []StructFieldInit
}

// Seal commits the given value into the proof without revealing it.
type Seal struct{ Value source.Spanned[Expr] }

// Asm splices opaque target-assembly lines directly into the emitted
// output, bypassing lowering for the enclosing statement.
type Asm struct{ Lines string }

func (*Let) isStmt()      {}
func (*Assign) isStmt()   {}
func (*ExprStmt) isStmt() {}
func (*Return) isStmt()   {}
func (*For) isStmt()      {}
func (*If) isStmt()       {}
func (*Match) isStmt()    {}
func (*Reveal) isStmt()   {}
func (*Seal) isStmt()     {}
func (*Asm) isStmt()      {}

// Block is an ordered sequence of statements plus an optional tail
// expression, whose value (if present) is the value of the block.
type Block struct {
	Stmts []source.Spanned[Stmt]
	Tail  *source.Spanned[Expr]
}

// Terminates reports whether this block always exits via Return or
// `assert(false)`, per the "terminating statement" analysis of spec §9: a
// statement terminates iff it is Return, assert(false), or an if/match
// where every arm terminates.  Used only for the unreachable-code warning.
func (b *Block) Terminates() bool {
	for _, s := range b.Stmts {
		if StmtTerminates(s.Node) {
			return true
		}
	}

	return false
}

// StmtTerminates implements the per-statement half of the terminating-
// statement analysis described in spec §9.
func StmtTerminates(s Stmt) bool {
	switch v := s.(type) {
	case *Return:
		return true
	case *ExprStmt:
		if call, ok := v.Value.Node.(*Call); ok && len(call.Path) == 1 && call.Path[0] == "assert" {
			if len(call.Args) == 1 {
				if lit, ok := call.Args[0].Node.(BoolLit); ok && !lit.Value {
					return true
				}
			}
		}

		return false
	case *If:
		if v.Else == nil {
			return false
		}

		return v.Then.Terminates() && v.Else.Terminates()
	case *Match:
		if len(v.Arms) == 0 {
			return false
		}

		for _, arm := range v.Arms {
			if !arm.Body.Terminates() {
				return false
			}
		}

		return true
	default:
		return false
	}
}
