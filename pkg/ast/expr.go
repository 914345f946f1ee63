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

// Expr is the closed set of expression forms.  Each variant carries its own
// Span via the enclosing source.Spanned wrapper at the point of use (AST
// nodes are typically stored as source.Spanned[Expr]); a Ty field is
// attached post typecheck via the Checked map rather than mutating nodes in
// place, keeping the parser's output immutable.
type Expr interface {
	isExpr()
}

// BinOp names a binary operator.
type BinOp uint8

// Binary operators, grouped by the typing rule that governs them.
const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLe
	OpAnd
	OpOr
)

// UnOp names a unary operator.
type UnOp uint8

const (
	// OpNeg is arithmetic (modular) negation.
	OpNeg UnOp = iota
	// OpNot is boolean negation.
	OpNot
)

// IntLit is an integer literal.
type IntLit struct{ Value uint64 }

// BoolLit is a boolean literal.
type BoolLit struct{ Value bool }

// Ident is a bare name reference, resolved to a local, parameter, constant,
// or function during type checking.
type Ident struct{ Name string }

// Binary applies a binary operator to two sub-expressions.
type Binary struct {
	Op          BinOp
	Left, Right source.Spanned[Expr]
}

// Unary applies a unary operator to one sub-expression.
type Unary struct {
	Op  UnOp
	Arg source.Spanned[Expr]
}

// Call invokes a named function with the given arguments and, for generic
// functions, explicit size arguments (e.g. `first<3>(a)`).
type Call struct {
	Path     []string
	SizeArgs []ArraySize
	Args     []source.Spanned[Expr]
}

// Index accesses one element of an array.
type Index struct {
	Array source.Spanned[Expr]
	Index source.Spanned[Expr]
}

// FieldAccess reads a named field of a struct-typed expression.
type FieldAccess struct {
	Target source.Spanned[Expr]
	Field  string
}

// ArrayLit constructs an array value from its elements.
type ArrayLit struct{ Elements []source.Spanned[Expr] }

// StructFieldInit is one `name: expr` entry of a struct literal.
type StructFieldInit struct {
	Name  string
	Value source.Spanned[Expr]
}

// StructLit constructs a struct value.
type StructLit struct {
	Name   string
	Fields []StructFieldInit
}

func (IntLit) isExpr()      {}
func (BoolLit) isExpr()     {}
func (Ident) isExpr()       {}
func (*Binary) isExpr()     {}
func (*Unary) isExpr()      {}
func (*Call) isExpr()       {}
func (*Index) isExpr()      {}
func (*FieldAccess) isExpr() {}
func (*ArrayLit) isExpr()   {}
func (*StructLit) isExpr()  {}
