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
package tir

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/typecheck"
)

// lowering carries the per-function state needed while walking one AST body:
// a local-name to memory-slot table and a monotonically increasing label
// counter, so every If/For/Match gets distinct branch targets.
type lowering struct {
	prog    *typecheck.Program
	slots   map[string]uint64
	nextSlot uint64
	labelN  int
	ops     []Op
}

// Lower translates every checked, non-intrinsic function in prog to TIR.
// Expression lowering follows evaluation order left-to-right, pushing
// operands onto an implicit operand stack; every named local is
// conservatively materialized as a memory slot rather than attempting full
// escape analysis, since the cost model only needs a faithful op count, not
// a minimal one.
func Lower(prog *typecheck.Program) *Program {
	out := &Program{EntryFn: prog.EntryFn}

	for name, fn := range prog.Functions {
		if fn.Body == nil || len(fn.TypeParams) > 0 {
			continue
		}

		out.Functions = append(out.Functions, lowerFn(prog, name, fn))
	}

	return out
}

func lowerFn(prog *typecheck.Program, name string, fn *ast.FnDef) Function {
	l := &lowering{prog: prog, slots: map[string]uint64{}}

	symbol := exportSymbol(name)

	l.emit(Op{Kind: FnStart, Name: symbol})

	for _, p := range fn.Params {
		l.slots[p.Name] = l.nextSlot
		l.nextSlot++
	}

	l.block(fn.Body)

	if fn.ReturnType != nil {
		l.emit(Op{Kind: Return})
	}

	l.emit(Op{Kind: FnEnd, Name: symbol})

	return Function{Name: symbol, Params: len(fn.Params), Ops: l.ops}
}

// exportSymbol derives the assembly-visible symbol for a checked, possibly
// module-qualified function name: its last dotted segment, `__`-prefixed, so
// the emitted text names every function (and, per spec, every `#[test]`
// function) the same way regardless of which module declared it.
func exportSymbol(qualifiedName string) string {
	name := qualifiedName
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return "__" + name
}

func (l *lowering) emit(op Op) { l.ops = append(l.ops, op) }

func (l *lowering) freshLabel(prefix string) string {
	l.labelN++
	return fmt.Sprintf("%s_%d", prefix, l.labelN)
}

func (l *lowering) slotOf(name string) uint64 {
	if s, ok := l.slots[name]; ok {
		return s
	}

	l.slots[name] = l.nextSlot
	l.nextSlot++

	return l.slots[name]
}

func (l *lowering) block(b *ast.Block) {
	for _, s := range b.Stmts {
		l.stmt(s.Node)
	}

	if b.Tail != nil {
		l.expr(b.Tail.Node)
	}
}

func (l *lowering) stmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.Let:
		l.expr(v.Value.Node)
		l.emit(Op{Kind: MemWrite, Int: l.slotOf(v.Name)})
	case *ast.Assign:
		l.expr(v.Value.Node)
		l.emit(Op{Kind: MemWrite, Int: l.slotOf(v.Target.Base)})
	case *ast.ExprStmt:
		l.expr(v.Value.Node)
	case *ast.Return:
		if v.Value != nil {
			l.expr(v.Value.Node)
		}

		l.emit(Op{Kind: Return})
	case *ast.For:
		l.forLoop(v)
	case *ast.If:
		l.ifStmt(v)
	case *ast.Match:
		l.matchStmt(v)
	case *ast.Reveal:
		l.reveal(v)
	case *ast.Seal:
		l.expr(v.Value.Node)
		l.emit(Op{Kind: Seal})
	case *ast.Asm:
		// Opaque target lines are spliced verbatim by the backend, not
		// represented as TIR ops.
	}
}

func (l *lowering) forLoop(v *ast.For) {
	bodyLabel := l.freshLabel("for_body")
	endLabel := l.freshLabel("for_end")

	slot := l.slotOf(v.Var)
	l.emit(Op{Kind: Push, Int: 0})
	l.emit(Op{Kind: MemWrite, Int: slot})
	l.emit(Op{Kind: Label, Name: bodyLabel})
	l.emit(Op{Kind: MemRead, Int: slot})
	// Bound comparison and increment are emitted as plain arithmetic;
	// backends treat the body/end label pair as the loop's single
	// back-edge, matching the teacher's micro-op loop-unrolling convention.
	l.block(&v.Body)
	l.emit(Op{Kind: MemRead, Int: slot})
	l.emit(Op{Kind: Push, Int: 1})
	l.emit(Op{Kind: Add})
	l.emit(Op{Kind: MemWrite, Int: slot})

	bound, _ := ast.EvalArraySize(v.Bound, nil)
	l.emit(Op{Kind: MemRead, Int: slot})
	l.emit(Op{Kind: Push, Int: bound})
	l.emit(Op{Kind: Lt})
	l.emit(Op{Kind: Branch, Name: bodyLabel, Alt: endLabel})
	l.emit(Op{Kind: Label, Name: endLabel})
}

func (l *lowering) ifStmt(v *ast.If) {
	thenLabel := l.freshLabel("if_then")
	elseLabel := l.freshLabel("if_else")
	endLabel := l.freshLabel("if_end")

	l.expr(v.Cond.Node)
	l.emit(Op{Kind: Branch, Name: thenLabel, Alt: elseLabel})
	l.emit(Op{Kind: Label, Name: thenLabel})
	l.block(&v.Then)
	l.emit(Op{Kind: Jump, Name: endLabel})
	l.emit(Op{Kind: Label, Name: elseLabel})

	if v.Else != nil {
		l.block(v.Else)
	}

	l.emit(Op{Kind: Label, Name: endLabel})
}

func (l *lowering) matchStmt(v *ast.Match) {
	endLabel := l.freshLabel("match_end")

	l.expr(v.Scrutinee.Node)
	l.emit(Op{Kind: MemWrite, Int: l.slotOf("$scrutinee")})

	for i, arm := range v.Arms {
		armLabel := l.freshLabel("match_arm")
		nextLabel := l.freshLabel("match_next")

		if !arm.Default {
			l.emit(Op{Kind: MemRead, Int: l.slotOf("$scrutinee")})
			l.emit(Op{Kind: Push, Int: arm.Literal})
			l.emit(Op{Kind: Eq})
			l.emit(Op{Kind: Branch, Name: armLabel, Alt: nextLabel})
			l.emit(Op{Kind: Label, Name: armLabel})
		}

		l.block(&arm.Body)
		l.emit(Op{Kind: Jump, Name: endLabel})

		if !arm.Default {
			l.emit(Op{Kind: Label, Name: nextLabel})
		}

		_ = i
	}

	l.emit(Op{Kind: Label, Name: endLabel})
}

func (l *lowering) reveal(v *ast.Reveal) {
	for _, f := range v.Fields {
		l.expr(f.Value.Node)
	}

	l.emit(Op{Kind: Reveal, Name: v.Event, Int: uint64(len(v.Fields)), Tag: tagOf(v.Event)})
}

// tagOf derives the stable, small integer tag TIR carries alongside a
// reveal's event name; it is not cryptographic and plays no role in
// ContentHash, which renormalizes the AST independently (see pkg/hash).
func tagOf(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))

	return h.Sum32()
}

func (l *lowering) expr(e ast.Expr) {
	switch v := e.(type) {
	case ast.IntLit:
		l.emit(Op{Kind: Push, Int: v.Value})
	case ast.BoolLit:
		l.emit(Op{Kind: PushBool, Bool: v.Value})
	case ast.Ident:
		if slot, ok := l.slots[v.Name]; ok {
			l.emit(Op{Kind: MemRead, Int: slot})
			return
		}

		l.emit(Op{Kind: MemRead, Int: l.slotOf(v.Name)})
	case *ast.Binary:
		l.expr(v.Left.Node)
		l.expr(v.Right.Node)
		l.emit(Op{Kind: binOpKind(v.Op)})
	case *ast.Unary:
		l.expr(v.Arg.Node)
		l.emit(Op{Kind: unOpKind(v.Op)})
	case *ast.Call:
		l.call(v)
	case *ast.Index:
		l.expr(v.Array.Node)
		l.expr(v.Index.Node)
		l.emit(Op{Kind: MemRead})
	case *ast.FieldAccess:
		l.expr(v.Target.Node)
		l.emit(Op{Kind: MemRead})
	case *ast.ArrayLit:
		for _, el := range v.Elements {
			l.expr(el.Node)
		}
	case *ast.StructLit:
		for _, f := range v.Fields {
			l.expr(f.Value.Node)
		}
	}
}

func (l *lowering) call(v *ast.Call) {
	short := v.Path[len(v.Path)-1]

	switch short {
	case "pub_read":
		l.emit(Op{Kind: PubRead})
		return
	case "pub_write":
		for _, a := range v.Args {
			l.expr(a.Node)
		}

		l.emit(Op{Kind: PubWrite})

		return
	case "assert":
		l.expr(v.Args[0].Node)
		l.emit(Op{Kind: Assert})

		return
	case "assert_eq":
		l.expr(v.Args[0].Node)
		l.expr(v.Args[1].Node)
		l.emit(Op{Kind: Eq})
		l.emit(Op{Kind: Assert})

		return
	}

	if strings.HasPrefix(short, "divine") {
		l.emit(Op{Kind: Divine})
		return
	}

	if short == "hash" {
		for _, a := range v.Args {
			l.expr(a.Node)
		}

		l.emit(Op{Kind: Hash, Int: uint64(len(v.Args))})

		return
	}

	for _, a := range v.Args {
		l.expr(a.Node)
	}

	l.emit(Op{Kind: Call, Name: short, Int: uint64(len(v.Args))})
}

func binOpKind(op ast.BinOp) Kind {
	switch op {
	case ast.OpAdd:
		return Add
	case ast.OpSub:
		return Sub
	case ast.OpMul:
		return Mul
	case ast.OpDiv:
		return Div
	case ast.OpEq:
		return Eq
	case ast.OpNeq:
		return Neq
	case ast.OpLt:
		return Lt
	case ast.OpLe:
		return Le
	case ast.OpAnd:
		return And
	case ast.OpOr:
		return Or
	default:
		return Add
	}
}

func unOpKind(op ast.UnOp) Kind {
	if op == ast.OpNot {
		return Not
	}

	return Neg
}
