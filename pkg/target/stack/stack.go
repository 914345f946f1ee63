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

// Package stack implements the stack-machine backends: Triton VM and Miden
// VM, both consuming tir.Program directly since TIR is already a stack IR.
package stack

import (
	"fmt"
	"strings"

	"github.com/trident-lang/trident/pkg/tir"
)

// StackLowering lowers a TIR program to a sequence of target-assembly lines.
type StackLowering interface {
	// Name is the target's canonical lowercase identifier, e.g. "triton".
	Name() string
	// Lower emits, per function, a `# name` comment line followed by one
	// entry per TIR op in order; a Branch entry spans two lines.
	Lower(prog *tir.Program) []string
}

// ByName resolves a target name to its StackLowering, defaulting to Triton
// for an unrecognized name per spec §4.5.
func ByName(name string) StackLowering {
	switch strings.ToLower(name) {
	case "miden":
		return Miden{}
	default:
		return Triton{}
	}
}

// Triton lowers to Triton VM's stack-assembly dialect.
type Triton struct{}

func (Triton) Name() string { return "triton" }

func (Triton) Lower(prog *tir.Program) []string {
	return lowerGeneric(prog, tritonMnemonics)
}

// Miden lowers to Miden VM's stack-assembly dialect.
type Miden struct{}

func (Miden) Name() string { return "miden" }

func (Miden) Lower(prog *tir.Program) []string {
	return lowerGeneric(prog, midenMnemonics)
}

// mnemonics maps a TIR opcode to the target's instruction name; only the
// textual spelling differs between Triton and Miden, since both are
// push-down stack machines operating over the same base field.
type mnemonics map[tir.Kind]string

var tritonMnemonics = mnemonics{
	tir.Add: "add", tir.Sub: "sub", tir.Mul: "mul", tir.Div: "invert mul", tir.Neg: "push -1 mul",
	tir.Eq: "eq", tir.Neq: "eq push 0 eq", tir.Lt: "lt", tir.Le: "lt push 0 eq",
	tir.And: "and", tir.Or: "or", tir.Not: "push 1 xor",
	tir.Dup: "dup 0", tir.Drop: "pop 1", tir.Return: "return",
	tir.PubRead: "read_io 1", tir.PubWrite: "write_io 1", tir.Divine: "divine 1",
	tir.Hash: "hash", tir.Sponge: "sponge_absorb", tir.Assert: "assert",
}

var midenMnemonics = mnemonics{
	tir.Add: "add", tir.Sub: "sub", tir.Mul: "mul", tir.Div: "div", tir.Neg: "neg",
	tir.Eq: "eq", tir.Neq: "neq", tir.Lt: "lt", tir.Le: "lte",
	tir.And: "and", tir.Or: "or", tir.Not: "not",
	tir.Dup: "dup.0", tir.Drop: "drop", tir.Return: "end",
	tir.PubRead: "adv_push.1", tir.PubWrite: "mem_store.0", tir.Divine: "adv_push.1",
	tir.Hash: "hperm", tir.Sponge: "hperm", tir.Assert: "assert",
}

func lowerGeneric(prog *tir.Program, m mnemonics) []string {
	var lines []string

	for _, fn := range prog.Functions {
		lines = append(lines, fmt.Sprintf("# %s", fn.Name))

		for _, op := range fn.Ops {
			lines = append(lines, lowerOp(op, m))
		}
	}

	return lines
}

func lowerOp(op tir.Op, m mnemonics) string {
	switch op.Kind {
	case tir.Push:
		return fmt.Sprintf("push %d", op.Int)
	case tir.PushBool:
		if op.Bool {
			return "push 1"
		}

		return "push 0"
	case tir.MemRead:
		return fmt.Sprintf("read_mem %d", op.Int)
	case tir.MemWrite:
		return fmt.Sprintf("write_mem %d", op.Int)
	case tir.Call:
		return fmt.Sprintf("call %s", op.Name)
	case tir.FnStart:
		return fmt.Sprintf("%s:", op.Name)
	case tir.FnEnd:
		return "# end " + op.Name
	case tir.Label:
		return op.Name + ":"
	case tir.Branch:
		return fmt.Sprintf("skiz call %s\ncall %s", op.Name, op.Alt)
	case tir.Jump:
		return "call " + op.Name
	case tir.Reveal:
		return fmt.Sprintf("write_io %d # reveal %s", op.Int, op.Name)
	case tir.Seal:
		return "hash # seal"
	default:
		if mnemonic, ok := m[op.Kind]; ok {
			return mnemonic
		}

		return fmt.Sprintf("# unsupported op %v", op.Kind)
	}
}
