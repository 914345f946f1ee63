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
	"strings"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/source"
)

// checkExpr infers the type of an expression per spec §4.4's typing rules.
// Integer literals are numerically polymorphic: checkExpr reports them as
// Field, but numericAssignable treats them as compatible with U32/XField wherever an
// operand type is otherwise fixed by context.
func (c *Checker) checkExpr(ctx *fnContext, se source.Spanned[ast.Expr]) ast.Ty {
	switch e := se.Node.(type) {
	case ast.IntLit:
		return ast.Field{}
	case ast.BoolLit:
		return ast.Bool{}
	case ast.Ident:
		return c.checkIdent(ctx, se.Span, e.Name)
	case *ast.Binary:
		return c.checkBinary(ctx, se.Span, e)
	case *ast.Unary:
		return c.checkUnary(ctx, se.Span, e)
	case *ast.Call:
		return c.checkCall(ctx, se.Span, e)
	case *ast.Index:
		return c.checkIndex(ctx, se.Span, e)
	case *ast.FieldAccess:
		return c.checkFieldAccess(ctx, se.Span, e)
	case *ast.ArrayLit:
		return c.checkArrayLit(ctx, se.Span, e)
	case *ast.StructLit:
		return c.checkStructLit(ctx, se.Span, e)
	default:
		c.errf(se.Span, fmt.Sprintf("unhandled expression form %T", e))
		return ast.Unit{}
	}
}

// checkIdent resolves a bare name against, in order: the lexical scope, the
// enclosing module's constants, and any qualified const visible by its
// trailing path segment.
func (c *Checker) checkIdent(ctx *fnContext, span source.Span, name string) ast.Ty {
	if l, ok := ctx.scopes.lookup(name); ok {
		return l.ty
	}

	if cv, ok := c.program.Consts[qualify(ctx.module, name)]; ok {
		return cv.Type
	}

	for key, cv := range c.program.Consts {
		if lastSegment(key) == name {
			return cv.Type
		}
	}

	c.errf(span, fmt.Sprintf("undefined name %q", name))

	return ast.Field{}
}

// isNumeric reports whether ty is one of the arithmetic operand types.
func isNumeric(ty ast.Ty) bool {
	switch ty.(type) {
	case ast.Field, ast.XField, ast.U32:
		return true
	default:
		return false
	}
}

// numericAssignable reports whether an operand of inferred type `got`,
// arising from expression node `node`, may stand in for type `want`. An
// IntLit is polymorphic over all numeric types; everything else must match
// exactly.
func numericAssignable(node ast.Expr, got, want ast.Ty) bool {
	if _, ok := node.(ast.IntLit); ok {
		return isNumeric(want)
	}

	return ast.Equals(got, want)
}

func (c *Checker) checkBinary(ctx *fnContext, span source.Span, e *ast.Binary) ast.Ty {
	lt := c.checkExpr(ctx, e.Left)
	rt := c.checkExpr(ctx, e.Right)

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if !isNumeric(lt) || !numericAssignable(e.Right.Node, rt, lt) {
			c.errf(span, fmt.Sprintf("arithmetic operands must share a numeric type, got %s and %s", lt, rt))
			return ast.Field{}
		}

		if _, ok := e.Left.Node.(ast.IntLit); ok {
			return rt
		}

		return lt
	case ast.OpEq, ast.OpNeq:
		if !numericAssignable(e.Left.Node, lt, rt) && !numericAssignable(e.Right.Node, rt, lt) {
			c.errf(span, fmt.Sprintf("comparison operands must share a type, got %s and %s", lt, rt))
		}

		return ast.Bool{}
	case ast.OpLt, ast.OpLe:
		if !ast.Equals(lt, ast.U32{}) || !ast.Equals(rt, ast.U32{}) {
			if _, lok := e.Left.Node.(ast.IntLit); !lok || !ast.Equals(rt, ast.U32{}) {
				if _, rok := e.Right.Node.(ast.IntLit); !rok || !ast.Equals(lt, ast.U32{}) {
					c.errf(span, fmt.Sprintf("'<'/'<=' require U32 operands, got %s and %s", lt, rt))
				}
			}
		}

		return ast.Bool{}
	case ast.OpAnd, ast.OpOr:
		if !ast.Equals(lt, ast.Bool{}) || !ast.Equals(rt, ast.Bool{}) {
			c.errf(span, fmt.Sprintf("logical operands must be Bool, got %s and %s", lt, rt))
		}

		return ast.Bool{}
	default:
		c.errf(span, "unknown binary operator")
		return ast.Field{}
	}
}

func (c *Checker) checkUnary(ctx *fnContext, span source.Span, e *ast.Unary) ast.Ty {
	argTy := c.checkExpr(ctx, e.Arg)

	switch e.Op {
	case ast.OpNeg:
		if !isNumeric(argTy) {
			c.errf(span, fmt.Sprintf("negation requires a numeric operand, got %s", argTy))
		}

		return argTy
	case ast.OpNot:
		if !ast.Equals(argTy, ast.Bool{}) {
			c.errf(span, fmt.Sprintf("'!' requires a Bool operand, got %s", argTy))
		}

		return ast.Bool{}
	default:
		c.errf(span, "unknown unary operator")
		return argTy
	}
}

func (c *Checker) checkIndex(ctx *fnContext, span source.Span, e *ast.Index) ast.Ty {
	arrTy := c.checkExpr(ctx, e.Array)
	idxTy := c.checkExpr(ctx, e.Index)

	if !ast.Equals(idxTy, ast.U32{}) {
		if _, ok := e.Index.Node.(ast.IntLit); !ok {
			c.errf(span, fmt.Sprintf("array index must be U32, got %s", idxTy))
		}
	}

	arr, ok := arrTy.(*ast.Array)
	if !ok {
		c.errf(span, fmt.Sprintf("cannot index non-array type %s", arrTy))
		return ast.Field{}
	}

	if lit, litOk := e.Index.Node.(ast.IntLit); litOk {
		if n, szOk := ast.EvalArraySize(arr.Size, nil); szOk && lit.Value >= n {
			c.errf(span, fmt.Sprintf("constant index %d out of range for array of size %d", lit.Value, n))
		}
	}

	return arr.Element
}

func (c *Checker) checkFieldAccess(ctx *fnContext, span source.Span, e *ast.FieldAccess) ast.Ty {
	targetTy := c.checkExpr(ctx, e.Target)

	s, ok := targetTy.(*ast.Struct)
	if !ok {
		c.errf(span, fmt.Sprintf("field access on non-struct type %s", targetTy))
		return ast.Field{}
	}

	for _, f := range s.Fields {
		if f.Name == e.Field {
			return f.Type
		}
	}

	c.errf(span, fmt.Sprintf("struct %q has no field %q", s.Name, e.Field))

	return ast.Field{}
}

func (c *Checker) checkArrayLit(ctx *fnContext, span source.Span, e *ast.ArrayLit) ast.Ty {
	if len(e.Elements) == 0 {
		c.errf(span, "empty array literal requires an explicit type")
		return &ast.Array{Element: ast.Field{}, Size: ast.SizeLiteral{Value: 0}}
	}

	elemTy := c.checkExpr(ctx, e.Elements[0])

	for _, el := range e.Elements[1:] {
		ty := c.checkExpr(ctx, el)
		if !numericAssignable(el.Node, ty, elemTy) && !ast.Equals(ty, elemTy) {
			c.errf(el.Span, fmt.Sprintf("array element type mismatch: expected %s, got %s", elemTy, ty))
		}
	}

	return &ast.Array{Element: elemTy, Size: ast.SizeLiteral{Value: uint64(len(e.Elements))}}
}

func (c *Checker) checkStructLit(ctx *fnContext, span source.Span, e *ast.StructLit) ast.Ty {
	var def *ast.StructDef

	for key, s := range c.program.Structs {
		if key == e.Name || lastSegment(key) == e.Name {
			def = s
			break
		}
	}

	if def == nil {
		c.errf(span, fmt.Sprintf("unknown struct %q", e.Name))
		return ast.Field{}
	}

	declared := map[string]ast.Ty{}
	for _, f := range def.Fields {
		declared[f.Name] = f.Type
	}

	seen := map[string]bool{}

	for _, init := range e.Fields {
		want, ok := declared[init.Name]
		if !ok {
			c.errf(init.Value.Span, fmt.Sprintf("struct %q has no field %q", def.Name, init.Name))
			continue
		}

		seen[init.Name] = true
		got := c.checkExpr(ctx, init.Value)

		if !numericAssignable(init.Value.Node, got, want) && !ast.Equals(got, want) {
			c.errf(init.Value.Span, fmt.Sprintf("field %q: expected %s, got %s", init.Name, want, got))
		}
	}

	var missing []string
	for _, f := range def.Fields {
		if !seen[f.Name] {
			missing = append(missing, f.Name)
		}
	}

	if len(missing) > 0 {
		c.errf(span, fmt.Sprintf("struct literal %q missing field(s): %s", def.Name, strings.Join(missing, ", ")))
	}

	return def
}

// checkCall validates call arity and argument types, records generic
// instantiations for later monomorphization, and rejects I/O intrinsics and
// impure callees when ctx is itself pure.
func (c *Checker) checkCall(ctx *fnContext, span source.Span, e *ast.Call) ast.Ty {
	key := strings.Join(e.Path, ".")
	short := e.Path[len(e.Path)-1]

	if ctx.pure && (ioIntrinsics[short] || strings.HasPrefix(short, "divine")) {
		c.errf(span, fmt.Sprintf("#[pure] function %q may not call I/O primitive %q", ctx.fnName, short))
	}

	if hashIntrinsics[short] {
		for _, a := range e.Args {
			c.checkExpr(ctx, a)
		}

		return ast.Digest{}
	}

	switch short {
	case "assert":
		if len(e.Args) != 1 {
			c.errf(span, "assert expects exactly one argument")
			return ast.Unit{}
		}

		argTy := c.checkExpr(ctx, e.Args[0])
		if !ast.Equals(argTy, ast.Bool{}) {
			c.errf(span, fmt.Sprintf("assert expects a Bool argument, got %s", argTy))
		}

		return ast.Unit{}
	case "assert_eq":
		if len(e.Args) != 2 {
			c.errf(span, "assert_eq expects exactly two arguments")
			return ast.Unit{}
		}

		lt := c.checkExpr(ctx, e.Args[0])
		rt := c.checkExpr(ctx, e.Args[1])

		if !numericAssignable(e.Args[0].Node, lt, rt) && !numericAssignable(e.Args[1].Node, rt, lt) {
			c.errf(span, fmt.Sprintf("assert_eq operands must share a type, got %s and %s", lt, rt))
		}

		return ast.Unit{}
	}

	var fn *ast.FnDef

	fn, ok := c.program.Functions[qualify(ctx.module, key)]
	if !ok {
		for fnKey, f := range c.program.Functions {
			if fnKey == key || lastSegment(fnKey) == short {
				fn = f
				ok = true
				break
			}
		}
	}

	if !ok {
		if short == "pub_write" {
			// pub_write is a pure side effect: it has no result value.
			return ast.Unit{}
		}

		if ioIntrinsics[short] || strings.HasPrefix(short, "divine") {
			// Compiler-known intrinsics have no user-visible FnDef;
			// argument/return typing for them is target-defined.
			return ast.Field{}
		}

		c.errf(span, fmt.Sprintf("call to undefined function %q", key))

		return ast.Field{}
	}

	if ctx.pure && !fn.IsPure && fn.Body != nil {
		c.errf(span, fmt.Sprintf("#[pure] function %q may not call impure function %q", ctx.fnName, short))
	}

	if len(fn.TypeParams) == 0 && len(e.Args) != len(fn.Params) {
		c.errf(span, fmt.Sprintf("call to %q expects %d argument(s), got %d", short, len(fn.Params), len(e.Args)))
	}

	argTys := make([]ast.Ty, len(e.Args))
	for i, a := range e.Args {
		argTys[i] = c.checkExpr(ctx, a)
	}

	if len(fn.TypeParams) == 0 {
		for i := 0; i < len(e.Args) && i < len(fn.Params); i++ {
			want := fn.Params[i].Type
			if !numericAssignable(e.Args[i].Node, argTys[i], want) && !ast.Equals(argTys[i], want) {
				c.errf(e.Args[i].Span, fmt.Sprintf("argument %d of %q: expected %s, got %s", i+1, short, want, argTys[i]))
			}
		}

		if fn.ReturnType == nil {
			return ast.Unit{}
		}

		return fn.ReturnType
	}

	return c.checkGenericCall(ctx, span, short, fn, e, argTys)
}
