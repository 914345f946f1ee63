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

// Package typecheck resolves names, checks types, validates attributes, and
// produces a typed Program from a topologically ordered set of modules.
// Scope handling follows spec §9's "scoped resources" guidance: a stack of
// name -> {ty, mutable} mappings, entered on block start and exited on every
// path out of the block, mirroring the enter/exit discipline of the
// teacher's ModuleScope in pkg/corset/scope.go (generalised here to a flat
// lexical stack rather than a module tree, since Trident resolves modules
// before type checking rather than during it).
package typecheck

import (
	"github.com/trident-lang/trident/pkg/ast"
)

// Program is the checked, fully-resolved form of a set of modules: every
// Named type has been replaced by a concrete ast.Ty, and every array size
// with no free generic size parameter has been folded to a Literal.
type Program struct {
	Structs   map[string]*ast.StructDef
	Events    map[string]*ast.EventDef
	Consts    map[string]*ConstValue
	Functions map[string]*ast.FnDef
	// EntryFn is the qualified name of `main` in the entry module, if any.
	EntryFn string
}

// ConstValue is the evaluated value of a module-level constant.
type ConstValue struct {
	Type  ast.Ty
	Value int64
}

// NewProgram constructs an empty Program ready for global collection.
func NewProgram() *Program {
	return &Program{
		Structs:   map[string]*ast.StructDef{},
		Events:    map[string]*ast.EventDef{},
		Consts:    map[string]*ConstValue{},
		Functions: map[string]*ast.FnDef{},
	}
}

// qualify joins a module's dotted name and a local item name into the
// module-qualified name used as a Program map key.
func qualify(module, name string) string {
	if module == "" {
		return name
	}

	return module + "." + name
}
