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

// Package testrunner discovers and executes `#[test]` functions against a
// small reference tree-walking interpreter, rather than a real prover
// backend: a `#[test]` function is checker-validated to take no parameters
// and return nothing, so its only observable effect is which `assert`/
// `assert_eq` calls it reaches, making a direct AST interpretation
// sufficient without ever lowering to TIR/LIR. The interpreter's
// environment-stack shape mirrors the teacher's own evaluator in
// pkg/hir/passes/evaluate (walk a checked AST over a scope of bound
// values), generalised here from HIR's column-valued environment to
// Trident's scalar/array/struct-valued one.
package testrunner

import (
	"fmt"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/field"
	"github.com/trident-lang/trident/pkg/typecheck"
)

// TestResult is the outcome of running one `#[test]` function.
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

// Report collects every test result from one run.
type Report struct {
	Results []TestResult
}

// Passed reports whether every test in the report succeeded.
func (r Report) Passed() bool {
	for _, t := range r.Results {
		if !t.Passed {
			return false
		}
	}

	return true
}

// Discover lists the `#[test]` functions declared directly in f.
func Discover(f *ast.File) []string {
	var names []string

	for _, it := range f.Items {
		if fn, ok := it.Node.(*ast.FnDef); ok && fn.IsTest {
			names = append(names, fn.Name)
		}
	}

	return names
}

// Run executes every `#[test]` function in prog and reports their outcomes.
func Run(prog *typecheck.Program) Report {
	var report Report

	for name, fn := range prog.Functions {
		if !fn.IsTest {
			continue
		}

		report.Results = append(report.Results, runOne(prog, name, fn))
	}

	return report
}

func runOne(prog *typecheck.Program, name string, fn *ast.FnDef) (result TestResult) {
	result.Name = name

	defer func() {
		if r := recover(); r != nil {
			result.Passed = false
			result.Message = fmt.Sprintf("%v", r)
		}
	}()

	interp := &interpreter{prog: prog, scopes: []map[string]value{{}}, module: moduleOf(name)}

	if fn.Body != nil {
		interp.block(fn.Body)
	}

	result.Passed = true

	return result
}

// value is the interpreter's dynamic value representation: exactly one of
// the fields is meaningful, selected by kind.
type value struct {
	kind   valueKind
	field  field.Field
	xfield field.XField
	b      bool
	u32    uint64
	arr    []value
	strct  map[string]value
}

type valueKind uint8

const (
	kindField valueKind = iota
	kindXField
	kindBool
	kindU32
	kindArray
	kindStruct
	kindUnit
)

type testFailure struct{ msg string }

func (f testFailure) Error() string { return f.msg }

func fail(format string, args ...any) {
	panic(testFailure{msg: fmt.Sprintf(format, args...)})
}

type interpreter struct {
	prog   *typecheck.Program
	scopes []map[string]value
	module string
}

// moduleOf returns the module-qualifying prefix of a Program-map key, e.g.
// "p" for "p.main", or "" for an unqualified key.
func moduleOf(qualifiedName string) string {
	for i := len(qualifiedName) - 1; i >= 0; i-- {
		if qualifiedName[i] == '.' {
			return qualifiedName[:i]
		}
	}

	return ""
}

// resolveCallee finds the FnDef a call's (possibly unqualified) short name
// refers to from the calling interpreter's own module, mirroring
// typecheck's own call resolution: the module-qualified name first, then a
// scan for any function whose last dotted segment matches.
func (in *interpreter) resolveCallee(short string) (string, *ast.FnDef, bool) {
	qualified := short
	if in.module != "" {
		qualified = in.module + "." + short
	}

	if fn, ok := in.prog.Functions[qualified]; ok {
		return qualified, fn, true
	}

	for name, fn := range in.prog.Functions {
		if name == short || lastSegment(name) == short {
			return name, fn, true
		}
	}

	return "", nil, false
}

// lastSegment returns the portion of a dotted name after its final dot, or
// the whole string if it has none.
func lastSegment(qualifiedName string) string {
	for i := len(qualifiedName) - 1; i >= 0; i-- {
		if qualifiedName[i] == '.' {
			return qualifiedName[i+1:]
		}
	}

	return qualifiedName
}

func (in *interpreter) push() { in.scopes = append(in.scopes, map[string]value{}) }

func (in *interpreter) pop() { in.scopes = in.scopes[:len(in.scopes)-1] }

func (in *interpreter) bind(name string, v value) {
	in.scopes[len(in.scopes)-1][name] = v
}

func (in *interpreter) lookup(name string) (value, bool) {
	for i := len(in.scopes) - 1; i >= 0; i-- {
		if v, ok := in.scopes[i][name]; ok {
			return v, true
		}
	}

	if c, ok := in.prog.Consts[name]; ok {
		return value{kind: kindField, field: field.FromUint64(uint64(c.Value))}, true
	}

	return value{}, false
}

// blockResult signals non-local control flow out of a block.
type blockResult struct {
	returned bool
	value    value
}

func (in *interpreter) block(b *ast.Block) blockResult {
	in.push()
	defer in.pop()

	for _, s := range b.Stmts {
		if r := in.stmt(s.Node); r.returned {
			return r
		}
	}

	if b.Tail != nil {
		return blockResult{value: in.expr(b.Tail.Node)}
	}

	return blockResult{}
}

func (in *interpreter) stmt(s ast.Stmt) blockResult {
	switch v := s.(type) {
	case *ast.Let:
		in.bind(v.Name, in.expr(v.Value.Node))
	case *ast.Assign:
		in.assign(v.Target, in.expr(v.Value.Node))
	case *ast.ExprStmt:
		in.expr(v.Value.Node)
	case *ast.Return:
		if v.Value != nil {
			return blockResult{returned: true, value: in.expr(v.Value.Node)}
		}

		return blockResult{returned: true}
	case *ast.For:
		bound, _ := ast.EvalArraySize(v.Bound, nil)

		for i := uint64(0); i < bound; i++ {
			in.push()
			in.bind(v.Var, value{kind: kindU32, u32: i})

			for _, st := range v.Body.Stmts {
				if r := in.stmt(st.Node); r.returned {
					in.pop()
					return r
				}
			}

			in.pop()
		}
	case *ast.If:
		if asBool(in.expr(v.Cond.Node)) {
			if r := in.block(&v.Then); r.returned {
				return r
			}
		} else if v.Else != nil {
			if r := in.block(v.Else); r.returned {
				return r
			}
		}
	case *ast.Match:
		scrut := in.expr(v.Scrutinee.Node)

		for _, arm := range v.Arms {
			if arm.Default || asU32(scrut) == arm.Literal {
				if r := in.block(&arm.Body); r.returned {
					return r
				}

				break
			}
		}
	case *ast.Seal, *ast.Reveal, *ast.Asm:
		// The checker rejects these only in `#[pure]` functions, so they
		// can appear in a `#[test]` body; the interpreter treats them as
		// no-ops.
	}

	return blockResult{}
}

func (in *interpreter) assign(target ast.Place, v value) {
	cur, ok := in.lookup(target.Base)
	if !ok {
		fail("undefined variable %q", target.Base)
	}

	if len(target.Indices) == 0 {
		in.rebind(target.Base, v)
		return
	}

	root := &cur
	for i, idx := range target.Indices {
		last := i == len(target.Indices)-1

		if idx.Field != "" {
			if last {
				root.strct[idx.Field] = v
				break
			}

			child := root.strct[idx.Field]
			root = &child
		} else {
			n := asU32(in.expr(idx.Index.Node))
			if last {
				root.arr[n] = v
				break
			}

			root = &root.arr[n]
		}
	}

	in.rebind(target.Base, cur)
}

func (in *interpreter) rebind(name string, v value) {
	for i := len(in.scopes) - 1; i >= 0; i-- {
		if _, ok := in.scopes[i][name]; ok {
			in.scopes[i][name] = v
			return
		}
	}

	in.bind(name, v)
}

func (in *interpreter) expr(e ast.Expr) value {
	switch v := e.(type) {
	case ast.IntLit:
		return value{kind: kindField, field: field.FromUint64(v.Value)}
	case ast.BoolLit:
		return value{kind: kindBool, b: v.Value}
	case ast.Ident:
		val, ok := in.lookup(v.Name)
		if !ok {
			fail("undefined variable %q", v.Name)
		}

		return val
	case *ast.Binary:
		return in.binary(v)
	case *ast.Unary:
		return in.unary(v)
	case *ast.Call:
		return in.call(v)
	case *ast.Index:
		arr := in.expr(v.Array.Node)
		idx := asU32(in.expr(v.Index.Node))

		if idx >= uint64(len(arr.arr)) {
			fail("index %d out of range (len %d)", idx, len(arr.arr))
		}

		return arr.arr[idx]
	case *ast.FieldAccess:
		target := in.expr(v.Target.Node)
		return target.strct[v.Field]
	case *ast.ArrayLit:
		arr := make([]value, len(v.Elements))

		for i, el := range v.Elements {
			arr[i] = in.expr(el.Node)
		}

		return value{kind: kindArray, arr: arr}
	case *ast.StructLit:
		fields := map[string]value{}

		for _, f := range v.Fields {
			fields[f.Name] = in.expr(f.Value.Node)
		}

		return value{kind: kindStruct, strct: fields}
	default:
		return value{kind: kindUnit}
	}
}

func (in *interpreter) binary(v *ast.Binary) value {
	if v.Op == ast.OpAnd || v.Op == ast.OpOr {
		l := asBool(in.expr(v.Left.Node))

		if v.Op == ast.OpAnd && !l {
			return value{kind: kindBool, b: false}
		}

		if v.Op == ast.OpOr && l {
			return value{kind: kindBool, b: true}
		}

		return value{kind: kindBool, b: asBool(in.expr(v.Right.Node))}
	}

	l, r := in.expr(v.Left.Node), in.expr(v.Right.Node)

	switch v.Op {
	case ast.OpLt:
		return value{kind: kindBool, b: asU32(l) < asU32(r)}
	case ast.OpLe:
		return value{kind: kindBool, b: asU32(l) <= asU32(r)}
	case ast.OpEq:
		return value{kind: kindBool, b: valuesEqual(l, r)}
	case ast.OpNeq:
		return value{kind: kindBool, b: !valuesEqual(l, r)}
	}

	if l.kind == kindU32 {
		lu, ru := l.u32, r.u32

		switch v.Op {
		case ast.OpAdd:
			return value{kind: kindU32, u32: lu + ru}
		case ast.OpSub:
			return value{kind: kindU32, u32: lu - ru}
		case ast.OpMul:
			return value{kind: kindU32, u32: lu * ru}
		default:
			if ru == 0 {
				fail("division by zero")
			}

			return value{kind: kindU32, u32: lu / ru}
		}
	}

	lf, rf := toField(l), toField(r)

	switch v.Op {
	case ast.OpAdd:
		return value{kind: kindField, field: lf.Add(rf)}
	case ast.OpSub:
		return value{kind: kindField, field: lf.Sub(rf)}
	case ast.OpMul:
		return value{kind: kindField, field: lf.Mul(rf)}
	default:
		return value{kind: kindField, field: lf.Div(rf)}
	}
}

func (in *interpreter) unary(v *ast.Unary) value {
	arg := in.expr(v.Arg.Node)

	if v.Op == ast.OpNot {
		return value{kind: kindBool, b: !asBool(arg)}
	}

	return value{kind: kindField, field: toField(arg).Neg()}
}

func (in *interpreter) call(v *ast.Call) value {
	short := v.Path[len(v.Path)-1]

	args := make([]value, len(v.Args))
	for i, a := range v.Args {
		args[i] = in.expr(a.Node)
	}

	switch short {
	case "assert":
		if !asBool(args[0]) {
			fail("assertion failed")
		}

		return value{kind: kindUnit}
	case "assert_eq":
		if !valuesEqual(args[0], args[1]) {
			fail("assertion failed: left != right")
		}

		return value{kind: kindUnit}
	}

	calleeName, callee, ok := in.resolveCallee(short)
	if !ok || callee.Body == nil {
		fail("cannot evaluate call to %q in test", short)
	}

	callIn := &interpreter{prog: in.prog, scopes: []map[string]value{{}}, module: moduleOf(calleeName)}

	for i, p := range callee.Params {
		callIn.bind(p.Name, args[i])
	}

	r := callIn.block(callee.Body)

	return r.value
}

func asBool(v value) bool { return v.kind == kindBool && v.b }

func asU32(v value) uint64 {
	if v.kind == kindU32 {
		return v.u32
	}

	return toField(v).Uint64()
}

func toField(v value) field.Field {
	if v.kind == kindField {
		return v.field
	}

	return field.FromUint64(v.u32)
}

func valuesEqual(a, b value) bool {
	if a.kind == kindBool || b.kind == kindBool {
		return asBool(a) == asBool(b)
	}

	if a.kind == kindU32 || b.kind == kindU32 {
		return asU32(a) == asU32(b)
	}

	return toField(a).Equal(toField(b))
}
