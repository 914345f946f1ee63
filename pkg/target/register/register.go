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

// Package register implements the register-machine backends (RISC-V-style
// targets such as openvm/sp1), consuming lir.Program's three-address form
// directly. Instruction naming follows the teacher's pkg/asm.Instruction
// family (Add/Sub/Jmp/Jcond with Rdest/Rsrcl/Rsrcr fields).
package register

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/trident-lang/trident/pkg/lir"
)

// RegisterLowering lowers a LIR program to machine bytes and, separately, to
// human-readable assembly text.
type RegisterLowering interface {
	Name() string
	Lower(prog *lir.Program) []byte
	LowerText(prog *lir.Program) []string
}

// ByName resolves a target name, defaulting to the RISC-V-style backend for
// an unrecognized name.
func ByName(name string) RegisterLowering {
	switch strings.ToLower(name) {
	default:
		return RISCV{}
	}
}

// insnOp is the fixed-width encoding's opcode byte, one per lir.Kind that
// has a machine-level representation.
type insnOp uint8

const (
	opLoadImm insnOp = iota
	opMove
	opAdd
	opSub
	opMul
	opDiv
	opNeg
	opEq
	opLt
	opAndOp
	opOrOp
	opNot
	opLoad
	opStore
	opCall
	opReturn
	opBranch
	opJump
	opEcall // PubRead/PubWrite/Divine/Hash/Sponge/Assert/Reveal/Seal
	opNeq
	opLe
)

// RISCV is a RISC-V-style register backend, grounded on the teacher's
// width/Rdest/Rsrcl/Rsrcr instruction shape (pkg/asm.Add/Sub) and its
// fixed-width encoding convention (pkg/asm/io micro-ops).
type RISCV struct{}

func (RISCV) Name() string { return "riscv" }

// Lower emits one 16-byte instruction word per LIR op: [opcode, dst, src1,
// src2 (4 bytes each, little-endian)], with the low 32 bits of Imm in the
// src2 slot for LoadImm and Load, which have no second source register.
// Name (call, jump and label targets) is not part of the encoding.
func (RISCV) Lower(prog *lir.Program) []byte {
	var out []byte

	for _, fn := range prog.Functions {
		for _, op := range fn.Ops {
			word := make([]byte, 16)
			word[0] = byte(riscOpOf(op.Kind))
			binary.LittleEndian.PutUint32(word[4:8], uint32(op.Dst))
			binary.LittleEndian.PutUint32(word[8:12], uint32(op.Src1))
			src2 := uint32(op.Src2)
			if op.Kind == lir.LoadImm || op.Kind == lir.Load {
				src2 = uint32(op.Imm)
			}

			binary.LittleEndian.PutUint32(word[12:16], src2)
			out = append(out, word...)
		}
	}

	return out
}

func (RISCV) LowerText(prog *lir.Program) []string {
	var lines []string

	for _, fn := range prog.Functions {
		lines = append(lines, fmt.Sprintf("%s:", fn.Name))

		for _, op := range fn.Ops {
			lines = append(lines, lirOpText(op))
		}
	}

	return lines
}

func lirOpText(op lir.Op) string {
	switch op.Kind {
	case lir.LoadImm:
		return fmt.Sprintf("  li %s, %d", op.Dst, op.Imm)
	case lir.Move:
		return fmt.Sprintf("  mv %s, %s", op.Dst, op.Src1)
	case lir.Add, lir.Sub, lir.Mul, lir.Div, lir.Eq, lir.Neq, lir.Lt, lir.Le, lir.And, lir.Or:
		return fmt.Sprintf("  %s %s, %s, %s", riscMnemonic(op.Kind), op.Dst, op.Src1, op.Src2)
	case lir.Neg, lir.Not:
		return fmt.Sprintf("  %s %s, %s", riscMnemonic(op.Kind), op.Dst, op.Src1)
	case lir.Load:
		return fmt.Sprintf("  lw %s, %d(%s)", op.Dst, op.Imm, op.Src1)
	case lir.Store:
		return fmt.Sprintf("  sw %s, %d(%s)", op.Src2, op.Imm, op.Src1)
	case lir.Call:
		return fmt.Sprintf("  call %s", op.Name)
	case lir.Return:
		return fmt.Sprintf("  ret %s", op.Src1)
	case lir.Branch:
		return fmt.Sprintf("  bnez %s, %s, %s", op.Src1, op.IfTrue, op.IfFalse)
	case lir.Jump:
		return fmt.Sprintf("  j %s", op.Name)
	case lir.LabelDef:
		return op.Name + ":"
	case lir.FnStart, lir.FnEnd:
		return fmt.Sprintf("  # %s %s", riscMnemonic(op.Kind), op.Name)
	case lir.PubRead:
		return fmt.Sprintf("  ecall pub_read, %s", op.Dst)
	case lir.PubWrite:
		return fmt.Sprintf("  ecall pub_write, %s", op.Src1)
	case lir.Divine:
		return fmt.Sprintf("  ecall divine, %s", op.Dst)
	case lir.Hash:
		return fmt.Sprintf("  ecall hash, %s, %s, %d", op.Dst, op.Src1, op.ArgCount)
	case lir.Sponge:
		return fmt.Sprintf("  ecall sponge, %s", op.Src1)
	case lir.Assert:
		return fmt.Sprintf("  ecall assert, %s", op.Src1)
	case lir.Reveal:
		return fmt.Sprintf("  ecall reveal, %s, %s, %d", op.Name, op.Src1, op.ArgCount)
	case lir.Seal:
		return fmt.Sprintf("  ecall seal, %s", op.Src1)
	default:
		return "  nop"
	}
}

func riscMnemonic(k lir.Kind) string {
	switch k {
	case lir.Add:
		return "add"
	case lir.Sub:
		return "sub"
	case lir.Mul:
		return "mul"
	case lir.Div:
		return "div"
	case lir.Neg:
		return "neg"
	case lir.Eq:
		return "seq"
	case lir.Neq:
		return "sne"
	case lir.Lt:
		return "slt"
	case lir.Le:
		return "sle"
	case lir.And:
		return "and"
	case lir.Or:
		return "or"
	case lir.Not:
		return "not"
	case lir.FnStart:
		return "fn_start"
	case lir.FnEnd:
		return "fn_end"
	default:
		return "nop"
	}
}

func riscOpOf(k lir.Kind) insnOp {
	switch k {
	case lir.LoadImm:
		return opLoadImm
	case lir.Move:
		return opMove
	case lir.Add:
		return opAdd
	case lir.Sub:
		return opSub
	case lir.Mul:
		return opMul
	case lir.Div:
		return opDiv
	case lir.Neg:
		return opNeg
	case lir.Eq:
		return opEq
	case lir.Neq:
		return opNeq
	case lir.Lt:
		return opLt
	case lir.Le:
		return opLe
	case lir.And:
		return opAndOp
	case lir.Or:
		return opOrOp
	case lir.Not:
		return opNot
	case lir.Load:
		return opLoad
	case lir.Store:
		return opStore
	case lir.Call:
		return opCall
	case lir.Return:
		return opReturn
	case lir.Branch:
		return opBranch
	case lir.Jump:
		return opJump
	default:
		return opEcall
	}
}
