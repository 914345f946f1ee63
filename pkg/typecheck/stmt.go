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
	"github.com/trident-lang/trident/pkg/source"
)

// checkBlock checks every statement in order, warning once a preceding
// statement has been found to terminate (spec §9's "terminating statement"
// analysis), and returns the type of the optional tail expression (Unit if
// absent).
func (c *Checker) checkBlock(ctx *fnContext, b *ast.Block) ast.Ty {
	ctx.scopes.pushScope()
	defer ctx.scopes.popScope()

	terminated := false

	for _, s := range b.Stmts {
		if terminated {
			c.warnf(s.Span, "unreachable statement", "remove this statement or the preceding terminating one")
		}

		c.checkStmt(ctx, s)

		if ast.StmtTerminates(s.Node) {
			terminated = true
		}
	}

	if b.Tail == nil {
		return ast.Unit{}
	}

	if terminated {
		c.warnf(b.Tail.Span, "unreachable tail expression", "remove this expression or the preceding terminating statement")
	}

	return c.checkExpr(ctx, *b.Tail)
}

func (c *Checker) checkStmt(ctx *fnContext, se source.Spanned[ast.Stmt]) {
	switch s := se.Node.(type) {
	case *ast.Let:
		valTy := c.checkExpr(ctx, s.Value)

		declared := s.Type
		if declared == nil {
			declared = valTy
		} else if !numericAssignable(s.Value.Node, valTy, declared) && !ast.Equals(valTy, declared) {
			c.errf(s.Value.Span, fmt.Sprintf("let %q: expected %s, got %s", s.Name, declared, valTy))
		}

		ctx.scopes.bind(s.Name, local{ty: declared, mutable: true})
	case *ast.Assign:
		c.checkAssign(ctx, se.Span, s)
	case *ast.ExprStmt:
		c.checkExpr(ctx, s.Value)
	case *ast.Return:
		var got ast.Ty = ast.Unit{}
		if s.Value != nil {
			got = c.checkExpr(ctx, *s.Value)
		}

		if !ast.Equals(got, ctx.retTy) {
			c.errf(se.Span, fmt.Sprintf("return type mismatch: expected %s, got %s", ctx.retTy, got))
		}
	case *ast.For:
		bound := s.Bound
		ctx.scopes.pushScope()
		ctx.scopes.bind(s.Var, local{ty: ast.U32{}, mutable: false})
		c.checkBlock(ctx, &s.Body)
		ctx.scopes.popScope()

		if _, ok := ast.EvalArraySize(bound, ctx.sizeArgs); !ok {
			c.warnf(se.Span, "loop bound is not a compile-time constant",
				"cost analysis will record a loop_bound_waste entry for this loop")
		}
	case *ast.If:
		condTy := c.checkExpr(ctx, s.Cond)
		if !ast.Equals(condTy, ast.Bool{}) {
			c.errf(s.Cond.Span, fmt.Sprintf("if condition must be Bool, got %s", condTy))
		}

		c.checkBlock(ctx, &s.Then)

		if s.Else != nil {
			c.checkBlock(ctx, s.Else)
		}
	case *ast.Match:
		c.checkExpr(ctx, s.Scrutinee)

		hasDefault := false

		for _, arm := range s.Arms {
			if arm.Default {
				hasDefault = true
			}

			c.checkBlock(ctx, &arm.Body)
		}

		if !hasDefault {
			c.warnf(se.Span, "match has no wildcard arm", "add a `_ => { ... }` arm to cover unmatched values")
		}
	case *ast.Reveal:
		c.checkReveal(ctx, se.Span, s)
	case *ast.Seal:
		if ctx.pure {
			c.errf(se.Span, fmt.Sprintf("#[pure] function %q may not seal a value", ctx.fnName))
		}

		c.checkExpr(ctx, s.Value)
	case *ast.Asm:
		// Opaque target lines bypass type checking by construction.
	default:
		c.errf(se.Span, fmt.Sprintf("unhandled statement form %T", s))
	}
}

func (c *Checker) checkAssign(ctx *fnContext, span source.Span, s *ast.Assign) {
	base, ok := ctx.scopes.lookup(s.Target.Base)
	if !ok {
		c.errf(span, fmt.Sprintf("assignment to undefined name %q", s.Target.Base))
		return
	}

	if !base.mutable {
		c.errf(span, fmt.Sprintf("%q is not mutable", s.Target.Base))
	}

	ty := base.ty

	for _, idx := range s.Target.Indices {
		if idx.Index != nil {
			idxTy := c.checkExpr(ctx, *idx.Index)
			if !ast.Equals(idxTy, ast.U32{}) {
				if _, lit := idx.Index.Node.(ast.IntLit); !lit {
					c.errf(span, fmt.Sprintf("array index must be U32, got %s", idxTy))
				}
			}

			arr, arrOk := ty.(*ast.Array)
			if !arrOk {
				c.errf(span, fmt.Sprintf("cannot index non-array type %s", ty))
				return
			}

			ty = arr.Element

			continue
		}

		st, stOk := ty.(*ast.Struct)
		if !stOk {
			c.errf(span, fmt.Sprintf("field access on non-struct type %s", ty))
			return
		}

		found := false

		for _, f := range st.Fields {
			if f.Name == idx.Field {
				ty = f.Type
				found = true

				break
			}
		}

		if !found {
			c.errf(span, fmt.Sprintf("struct %q has no field %q", st.Name, idx.Field))
			return
		}
	}

	valTy := c.checkExpr(ctx, s.Value)
	if !numericAssignable(s.Value.Node, valTy, ty) && !ast.Equals(valTy, ty) {
		c.errf(span, fmt.Sprintf("assignment type mismatch: expected %s, got %s", ty, valTy))
	}
}

// checkReveal validates a `reveal E { field: expr, ... }` statement against
// E's declared field set and types.
func (c *Checker) checkReveal(ctx *fnContext, span source.Span, s *ast.Reveal) {
	if ctx.pure {
		c.errf(span, fmt.Sprintf("#[pure] function %q may not reveal", ctx.fnName))
	}

	var def *ast.EventDef

	for key, ev := range c.program.Events {
		if key == s.Event || lastSegment(key) == s.Event {
			def = ev
			break
		}
	}

	if def == nil {
		c.errf(span, fmt.Sprintf("unknown event %q", s.Event))
		return
	}

	declared := map[string]ast.Ty{}
	for _, f := range def.Fields {
		declared[f.Name] = f.Type
	}

	seen := map[string]bool{}

	for _, init := range s.Fields {
		want, ok := declared[init.Name]
		if !ok {
			c.errf(init.Value.Span, fmt.Sprintf("event %q has no field %q", def.Name, init.Name))
			continue
		}

		seen[init.Name] = true
		got := c.checkExpr(ctx, init.Value)

		if !numericAssignable(init.Value.Node, got, want) && !ast.Equals(got, want) {
			c.errf(init.Value.Span, fmt.Sprintf("reveal field %q: expected %s, got %s", init.Name, want, got))
		}
	}

	for _, f := range def.Fields {
		if !seen[f.Name] {
			c.errf(span, fmt.Sprintf("reveal %q missing field %q", def.Name, f.Name))
		}
	}
}
