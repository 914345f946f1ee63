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
package typecheck

import (
	"fmt"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/diag"
	"github.com/trident-lang/trident/pkg/resolve"
	"github.com/trident-lang/trident/pkg/source"
)

// Checker carries the state of one type-checking run: the program being
// built, the accumulated diagnostics, and the active cfg flags gating
// `#[cfg(flag)]` items.
type Checker struct {
	program  *Program
	diags    diag.Diagnostics
	cfgFlags map[string]bool
	// instantiations caches one specialized FnDef per distinct generic call
	// site, keyed by (fn_name, argument-type-tuple, size-tuple) per spec §9.
	instantiations map[string]*ast.FnDef
	checking       map[string]bool // recursion guard while monomorphizing
}

// Check type-checks a topologically ordered module set under the given cfg
// flags, returning the typed Program or the diagnostics that prevented it.
func Check(modules []resolve.ModuleInfo, cfgFlags map[string]bool) (*Program, diag.Diagnostics) {
	c := &Checker{
		program:        NewProgram(),
		cfgFlags:       cfgFlags,
		instantiations: map[string]*ast.FnDef{},
		checking:       map[string]bool{},
	}

	c.collectGlobals(modules)

	if c.diags.HasErrors() {
		return nil, c.diags
	}

	c.resolveTypes()

	if c.diags.HasErrors() {
		return nil, c.diags
	}

	for _, m := range modules {
		for _, item := range m.AST.Items {
			fn, ok := item.Node.(*ast.FnDef)
			if !ok || !c.enabled(fn.Attrs.CfgFlags) || fn.Body == nil {
				continue
			}

			name := qualify(m.DottedName, fn.Name)
			c.checkFn(name, fn, m.DottedName)
		}

		if m.AST.Header.Kind == ast.ProgramHeader {
			if _, ok := c.program.Functions[qualify(m.DottedName, "main")]; ok {
				c.program.EntryFn = qualify(m.DottedName, "main")
			}
		}
	}

	return c.program, c.diags
}

func (c *Checker) enabled(flags []string) bool {
	for _, f := range flags {
		if !c.cfgFlags[f] {
			return false
		}
	}

	return true
}

func (c *Checker) errf(span source.Span, msg string) {
	c.diags = append(c.diags, diag.New(span, msg))
}

func (c *Checker) warnf(span source.Span, msg, help string) {
	c.diags = append(c.diags, diag.Warn(span, msg).WithHelp(help))
}

// collectGlobals registers structs, events, consts and function signatures
// for every module, enforcing per-module name uniqueness and event field
// uniqueness, and evaluating const initializers under an empty environment.
func (c *Checker) collectGlobals(modules []resolve.ModuleInfo) {
	for _, m := range modules {
		seen := map[string]bool{}

		for _, item := range m.AST.Items {
			var name string

			switch v := item.Node.(type) {
			case *ast.FnDef:
				if !c.enabled(v.Attrs.CfgFlags) {
					continue
				}

				name = v.Name
				c.program.Functions[qualify(m.DottedName, name)] = v
			case *ast.StructDef:
				name = v.Name
				c.program.Structs[qualify(m.DottedName, name)] = v
			case *ast.EventDef:
				name = v.Name
				c.checkEventFieldUniqueness(item.Span, v)
				c.program.Events[qualify(m.DottedName, name)] = v
			case *ast.ConstDef:
				name = v.Name

				val, ty, ok := c.evalConstExpr(v.Value.Node)
				if !ok {
					c.errf(v.Value.Span, "const initializer is not a compile-time constant")
				}

				c.program.Consts[qualify(m.DottedName, name)] = &ConstValue{Type: ty, Value: val}
			case *ast.UseDecl:
				continue
			}

			if name == "" {
				continue
			}

			if seen[name] {
				c.errf(item.Span, fmt.Sprintf("duplicate top-level name %q in module %q", name, m.DottedName))
			}

			seen[name] = true
		}
	}
}

func (c *Checker) checkEventFieldUniqueness(span source.Span, e *ast.EventDef) {
	seen := map[string]bool{}
	for _, f := range e.Fields {
		if seen[f.Name] {
			c.errf(span, fmt.Sprintf("duplicate field %q in event %q", f.Name, e.Name))
		}

		seen[f.Name] = true
	}
}

// evalConstExpr evaluates a restricted constant-expression language (integer
// and boolean literals, plus +/-/* over integers) under the empty
// environment required for module-level consts.
func (c *Checker) evalConstExpr(e ast.Expr) (int64, ast.Ty, bool) {
	switch v := e.(type) {
	case ast.IntLit:
		return int64(v.Value), ast.Field{}, true
	case ast.BoolLit:
		b := int64(0)
		if v.Value {
			b = 1
		}

		return b, ast.Bool{}, true
	case *ast.Unary:
		val, ty, ok := c.evalConstExpr(v.Arg.Node)
		if v.Op == ast.OpNeg {
			return -val, ty, ok
		}

		return val, ty, ok
	case *ast.Binary:
		l, lt, ok1 := c.evalConstExpr(v.Left.Node)
		r, _, ok2 := c.evalConstExpr(v.Right.Node)

		if !ok1 || !ok2 {
			return 0, nil, false
		}

		switch v.Op {
		case ast.OpAdd:
			return l + r, lt, true
		case ast.OpSub:
			return l - r, lt, true
		case ast.OpMul:
			return l * r, lt, true
		default:
			return 0, nil, false
		}
	default:
		return 0, nil, false
	}
}
