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

// Package ast defines the abstract syntax tree of a single source file: the
// closed variant sets for types, items, statements and expressions.  Every
// exhaustive consumer (typecheck, lowering, hashing) switches on the
// concrete type of these interfaces; adding a new variant is meant to be a
// compile-time failure at every consumer, following the teacher's Type/Expr
// interface style in pkg/corset/ast/type.go and expression.go.
package ast

import "fmt"

// Ty is the closed set of types recognised by the checker.  Before name
// resolution a type may be Named; afterwards every Named has been replaced
// by a concrete Ty (see the "no Named in typed AST" invariant).
type Ty interface {
	fmt.Stringer
	isTy()
}

// Field is the base prime-field element type.
type Field struct{}

// XField is the degree-3 extension of Field.
type XField struct{}

// Bool is the boolean type.
type Bool struct{}

// U32 is a 32-bit unsigned integer type.
type U32 struct{}

// Digest is a 5-element field tuple, the output of the Poseidon2 sponge.
type Digest struct{}

// Unit is the empty/void type.
type Unit struct{}

// Array is a fixed-size homogeneous sequence of Element, whose Size is a
// compile-time expression.
type Array struct {
	Element Ty
	Size    ArraySize
}

// Tuple is an ordered, unnamed product of types.
type Tuple struct {
	Elements []Ty
}

// StructField is one named, typed field of a Struct type.
type StructField struct {
	Name string
	Type Ty
}

// Struct is a record type with ordered named fields.
type Struct struct {
	Name   string
	Fields []StructField
}

// Named is a module-qualified type path which has not yet been resolved to
// a concrete Ty.  No Named survives into the typed AST.
type Named struct {
	Path []string
}

func (Field) isTy()    {}
func (XField) isTy()   {}
func (Bool) isTy()     {}
func (U32) isTy()      {}
func (Digest) isTy()   {}
func (Unit) isTy()     {}
func (*Array) isTy()   {}
func (*Tuple) isTy()   {}
func (*Struct) isTy()  {}
func (*Named) isTy()   {}

// String renders a Ty in source syntax.
func (Field) String() string  { return "Field" }
func (XField) String() string { return "XField" }
func (Bool) String() string   { return "Bool" }
func (U32) String() string    { return "U32" }
func (Digest) String() string { return "Digest" }
func (Unit) String() string   { return "Unit" }

func (a *Array) String() string {
	return fmt.Sprintf("[%s; %s]", a.Element, a.Size)
}

func (t *Tuple) String() string {
	s := "("

	for i, e := range t.Elements {
		if i > 0 {
			s += ", "
		}

		s += e.String()
	}

	return s + ")"
}

func (s *Struct) String() string { return s.Name }

func (n *Named) String() string {
	s := ""

	for i, p := range n.Path {
		if i > 0 {
			s += "."
		}

		s += p
	}

	return s
}

// Equals performs a structural equality check between two resolved types.
// Named types are never equal to anything (they should not appear in a
// typed AST); this is used by the type checker to compare operand types.
func Equals(a, b Ty) bool {
	switch x := a.(type) {
	case Field:
		_, ok := b.(Field)
		return ok
	case XField:
		_, ok := b.(XField)
		return ok
	case Bool:
		_, ok := b.(Bool)
		return ok
	case U32:
		_, ok := b.(U32)
		return ok
	case Digest:
		_, ok := b.(Digest)
		return ok
	case Unit:
		_, ok := b.(Unit)
		return ok
	case *Array:
		y, ok := b.(*Array)
		return ok && Equals(x.Element, y.Element) && ArraySizeEquals(x.Size, y.Size)
	case *Tuple:
		y, ok := b.(*Tuple)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}

		for i := range x.Elements {
			if !Equals(x.Elements[i], y.Elements[i]) {
				return false
			}
		}

		return true
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.Name == y.Name
	default:
		return false
	}
}

// ArraySize is a compile-time expression denoting the length of an Array
// type.  It is evaluated to a Literal during type checking (see the "array
// sizes fully evaluated" invariant).
type ArraySize interface {
	fmt.Stringer
	isArraySize()
}

// SizeLiteral is a fully-evaluated array size.
type SizeLiteral struct{ Value uint64 }

// SizeParam references an enclosing generic size parameter by name.
type SizeParam struct{ Name string }

// SizeAdd is the sum of two array-size expressions.
type SizeAdd struct{ Left, Right ArraySize }

// SizeMul is the product of two array-size expressions.
type SizeMul struct{ Left, Right ArraySize }

func (SizeLiteral) isArraySize() {}
func (SizeParam) isArraySize()   {}
func (*SizeAdd) isArraySize()    {}
func (*SizeMul) isArraySize()    {}

func (s SizeLiteral) String() string { return fmt.Sprintf("%d", s.Value) }
func (s SizeParam) String() string   { return s.Name }
func (s *SizeAdd) String() string    { return fmt.Sprintf("(%s + %s)", s.Left, s.Right) }
func (s *SizeMul) String() string    { return fmt.Sprintf("(%s * %s)", s.Left, s.Right) }

// ArraySizeEquals performs structural equality over two (fully evaluated)
// array sizes.
func ArraySizeEquals(a, b ArraySize) bool {
	x, ok := a.(SizeLiteral)
	if !ok {
		return false
	}

	y, ok := b.(SizeLiteral)

	return ok && x.Value == y.Value
}

// EvalArraySize folds an ArraySize expression to a literal value, given a
// substitution for any size parameters in scope.  Per spec §9, only `+` and
// `*` are supported; there is no subtraction, so no underflow case can
// arise here by construction.
func EvalArraySize(size ArraySize, params map[string]uint64) (uint64, bool) {
	switch s := size.(type) {
	case SizeLiteral:
		return s.Value, true
	case SizeParam:
		v, ok := params[s.Name]
		return v, ok
	case *SizeAdd:
		l, ok1 := EvalArraySize(s.Left, params)
		r, ok2 := EvalArraySize(s.Right, params)

		return l + r, ok1 && ok2
	case *SizeMul:
		l, ok1 := EvalArraySize(s.Left, params)
		r, ok2 := EvalArraySize(s.Right, params)

		return l * r, ok1 && ok2
	default:
		return 0, false
	}
}
