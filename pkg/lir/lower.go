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
package lir

import "github.com/trident-lang/trident/pkg/tir"

// lowerState simulates TIR's implicit operand stack with a stack of virtual
// registers, so that every TIR push (literal, mload, call result) becomes a
// fresh register and every pop (arithmetic operand, assert argument) becomes
// a register read. TIR memory slots map 1:1 onto LIR registers, since both
// already give every local a dense small integer identity.
type lowerState struct {
	stack   []Reg
	nextReg Reg
	ops     []Op
}

// Lower translates every TIR function to LIR, one function at a time. The
// translation is deliberately naive per spec §4.5: no attempt is made to
// reuse registers or eliminate redundant loads, since register allocation
// itself is a backend concern.
func Lower(prog *tir.Program) *Program {
	out := &Program{EntryFn: prog.EntryFn}

	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, lowerFn(fn))
	}

	return out
}

func lowerFn(fn tir.Function) Function {
	// Params occupy registers 0..Params-1 directly; they never sit on the
	// simulated operand stack, since TIR only ever reaches them through
	// MemRead (mapped straight onto a register Move below).
	s := &lowerState{nextReg: Reg(fn.Params)}

	for _, op := range fn.Ops {
		s.lowerOp(op)
	}

	maxReg := s.nextReg
	if fn.Params > int(maxReg) {
		maxReg = Reg(fn.Params)
	}

	return Function{Name: fn.Name, Params: fn.Params, NumRegs: int(maxReg), Ops: s.ops}
}

func (s *lowerState) fresh() Reg {
	r := s.nextReg
	s.nextReg++

	return r
}

func (s *lowerState) push(r Reg) { s.stack = append(s.stack, r) }

func (s *lowerState) pop() Reg {
	if len(s.stack) == 0 {
		return s.fresh() // defensive: malformed TIR, keep lowering total
	}

	r := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	return r
}

func (s *lowerState) emit(op Op) { s.ops = append(s.ops, op) }

func (s *lowerState) lowerOp(op tir.Op) {
	switch op.Kind {
	case tir.Push:
		dst := s.fresh()
		s.emit(Op{Kind: LoadImm, Dst: dst, Imm: int64(op.Int)})
		s.push(dst)
	case tir.PushBool:
		dst := s.fresh()
		imm := int64(0)

		if op.Bool {
			imm = 1
		}

		s.emit(Op{Kind: LoadImm, Dst: dst, Imm: imm})
		s.push(dst)
	case tir.Add, tir.Sub, tir.Mul, tir.Div, tir.Eq, tir.Neq, tir.Lt, tir.Le, tir.And, tir.Or:
		r := s.pop()
		l := s.pop()
		dst := s.fresh()
		s.emit(Op{Kind: binKind(op.Kind), Dst: dst, Src1: l, Src2: r})
		s.push(dst)
	case tir.Neg, tir.Not:
		src := s.pop()
		dst := s.fresh()
		s.emit(Op{Kind: unKind(op.Kind), Dst: dst, Src1: src})
		s.push(dst)
	case tir.Dup:
		top := s.stack[len(s.stack)-1]
		dst := s.fresh()
		s.emit(Op{Kind: Move, Dst: dst, Src1: top})
		s.push(dst)
	case tir.Drop:
		s.pop()
	case tir.MemRead:
		dst := s.fresh()
		s.emit(Op{Kind: Move, Dst: dst, Src1: Reg(op.Int)})
		s.push(dst)
	case tir.MemWrite:
		src := s.pop()
		s.emit(Op{Kind: Move, Dst: Reg(op.Int), Src1: src})
	case tir.Call:
		args := make([]Reg, op.Int)
		for i := int(op.Int) - 1; i >= 0; i-- {
			args[i] = s.pop()
		}

		dst := s.fresh()
		s.emit(Op{Kind: Call, Dst: dst, Name: op.Name, ArgCount: int(op.Int), Src1: firstOrZero(args)})
		s.push(dst)
	case tir.Return:
		var src Reg
		if len(s.stack) > 0 {
			src = s.pop()
		}

		s.emit(Op{Kind: Return, Src1: src})
	case tir.Label:
		s.emit(Op{Kind: LabelDef, Name: op.Name})
	case tir.Branch:
		cond := s.pop()
		s.emit(Op{Kind: Branch, Src1: cond, IfTrue: op.Name, IfFalse: op.Alt})
	case tir.Jump:
		s.emit(Op{Kind: Jump, Name: op.Name})
	case tir.FnStart:
		s.emit(Op{Kind: FnStart, Name: op.Name})
	case tir.FnEnd:
		s.emit(Op{Kind: FnEnd, Name: op.Name})
	case tir.PubRead:
		dst := s.fresh()
		s.emit(Op{Kind: PubRead, Dst: dst})
		s.push(dst)
	case tir.PubWrite:
		src := s.pop()
		s.emit(Op{Kind: PubWrite, Src1: src})
	case tir.Divine:
		dst := s.fresh()
		s.emit(Op{Kind: Divine, Dst: dst})
		s.push(dst)
	case tir.Hash:
		args := make([]Reg, op.Int)
		for i := int(op.Int) - 1; i >= 0; i-- {
			args[i] = s.pop()
		}

		dst := s.fresh()
		s.emit(Op{Kind: Hash, Dst: dst, ArgCount: int(op.Int), Src1: firstOrZero(args)})
		s.push(dst)
	case tir.Sponge:
		src := s.pop()
		s.emit(Op{Kind: Sponge, Src1: src})
	case tir.Assert:
		src := s.pop()
		s.emit(Op{Kind: Assert, Src1: src})
	case tir.Reveal:
		args := make([]Reg, op.Int)
		for i := int(op.Int) - 1; i >= 0; i-- {
			args[i] = s.pop()
		}

		s.emit(Op{Kind: Reveal, Name: op.Name, ArgCount: int(op.Int), Src1: firstOrZero(args)})
	case tir.Seal:
		src := s.pop()
		s.emit(Op{Kind: Seal, Src1: src})
	}
}

func firstOrZero(regs []Reg) Reg {
	if len(regs) == 0 {
		return 0
	}

	return regs[0]
}

func binKind(k tir.Kind) Kind {
	switch k {
	case tir.Add:
		return Add
	case tir.Sub:
		return Sub
	case tir.Mul:
		return Mul
	case tir.Div:
		return Div
	case tir.Eq:
		return Eq
	case tir.Neq:
		return Neq
	case tir.Lt:
		return Lt
	case tir.Le:
		return Le
	case tir.And:
		return And
	default:
		return Or
	}
}

func unKind(k tir.Kind) Kind {
	if k == tir.Not {
		return Not
	}

	return Neg
}
