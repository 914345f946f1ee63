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

// Package lir is the three-address, register-level intermediate
// representation that register targets (pkg/target/register) lower from.
// Register allocation itself is out of scope: lowering from TIR emits a
// fresh virtual register for every value a stack op would have pushed, and
// a backend is free to allocate or spill those as it sees fit.
package lir

import "fmt"

// Reg is a virtual register, assigned densely starting at 0 for one
// function's lowering.
type Reg uint32

func (r Reg) String() string { return fmt.Sprintf("r%d", r) }

// Kind names one LIR opcode.
type Kind uint8

const (
	LoadImm Kind = iota
	Move
	Add
	Sub
	Mul
	Div
	Neg
	Eq
	Neq
	Lt
	Le
	And
	Or
	Not
	Load  // Load Dst, [Src1 + Imm]
	Store // Store [Src1 + Imm], Src2
	Call
	Return
	Branch // if Src1 != 0, IfTrue else IfFalse
	Jump
	LabelDef
	FnStart
	FnEnd
	Entry
	PubRead
	PubWrite
	Divine
	Hash
	Sponge
	Assert
	Reveal
	Seal
)

// Op is one LIR instruction in three-address form: at most one destination
// register and two source registers/operands, plus opcode-specific extras.
type Op struct {
	Kind     Kind
	Dst      Reg
	Src1     Reg
	Src2     Reg
	Imm      int64
	Name     string
	IfTrue   string
	IfFalse  string
	ArgCount int
}

// Function is one lowered function: its name, parameter count (params occupy
// registers 0..Params-1), and its flat op sequence.
type Function struct {
	Name    string
	Params  int
	NumRegs int
	Ops     []Op
}

// Program is a full LIR module, mirroring tir.Program one function at a
// time.
type Program struct {
	Functions []Function
	EntryFn   string
}
