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

// Item is the closed set of top-level declaration kinds: Fn, Struct, Event,
// Const, Use.
type Item interface {
	isItem()
}

// Visibility is the declared visibility of a top-level item.
type Visibility uint8

const (
	// Private items are visible only within their own module.
	Private Visibility = iota
	// Public items are visible to any module that `use`s this one.
	Public
)

// Attr is a specification attribute attached to a function:
// `#[requires(expr)]`, `#[ensures(expr)]`, or `#[cfg(flag)]`.
type Attr struct {
	Requires []source.Spanned[Expr]
	Ensures  []source.Spanned[Expr]
	CfgFlags []string
}

// Param is one value parameter of a function.
type Param struct {
	Name string
	Type Ty
}

// FnDef is a function declaration.
type FnDef struct {
	Visibility Visibility
	Name       string
	TypeParams []string
	Params     []Param
	ReturnType Ty // nil means Unit
	Body       *Block
	IsTest     bool
	IsPure     bool
	Attrs      Attr
}

// StructDef is a struct declaration.
type StructDef struct {
	Visibility Visibility
	Name       string
	Fields     []StructField
}

// EventField is one named, typed field of an Event declaration.
type EventField struct {
	Name string
	Type Ty
}

// EventDef is an event declaration, matched against `reveal` statements by
// name and field set.
type EventDef struct {
	Visibility Visibility
	Name       string
	Fields     []EventField
}

// ConstDef is a module-level constant, evaluated under an empty environment
// during global collection.
type ConstDef struct {
	Visibility Visibility
	Name       string
	Type       Ty
	Value      source.Spanned[Expr]
}

// UseDecl imports a dotted module name, making its public items visible.
type UseDecl struct {
	DottedName string
}

func (*FnDef) isItem()     {}
func (*StructDef) isItem() {}
func (*EventDef) isItem()  {}
func (*ConstDef) isItem()  {}
func (*UseDecl) isItem()   {}

// HeaderKind distinguishes an entry file (`program NAME`) from a library
// file (`module NAME`).
type HeaderKind uint8

const (
	// ProgramHeader marks an entry file.
	ProgramHeader HeaderKind = iota
	// ModuleHeader marks a library file.
	ModuleHeader
)

// Header is the first declaration of a `.tri` file.
type Header struct {
	Kind HeaderKind
	Name string
}

// File is the parsed form of a single source file.
type File struct {
	Header Header
	Items  []source.Spanned[Item]
}
