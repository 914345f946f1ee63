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

// Package tir is the stack-machine intermediate representation that sits
// between the typed AST and the register-level LIR. TIR is structured:
// control flow is still expressed as Label/Branch/Jump rather than a flat
// CFG, and nested blocks lower to flat op sequences bracketed by
// FnStart/FnEnd, so a backend never has to reconstruct block boundaries.
package tir

import "fmt"

// Kind names one TIR opcode. The set is closed: every stack-machine target
// in pkg/target/stack switches on Kind exhaustively.
type Kind uint8

const (
	// Push places a constant field element on the operand stack.
	Push Kind = iota
	// PushBool places a boolean constant on the operand stack.
	PushBool
	// Add, Sub, Mul, Div pop two operands and push their result.
	Add
	Sub
	Mul
	Div
	// Neg pops one operand and pushes its negation.
	Neg
	// Eq, Neq, Lt, Le pop two operands and push a Bool result.
	Eq
	Neq
	Lt
	Le
	// And, Or pop two Bool operands and push a Bool result; Not pops one.
	And
	Or
	Not
	// Dup duplicates the top-of-stack value; Drop discards it.
	Dup
	Drop
	// MemRead pushes the value at the named local slot; MemWrite pops the
	// top of stack into it. Every named local and parameter has its own
	// slot.
	MemRead
	MemWrite
	// Call invokes a named function; the callee consumes Count arguments
	// already on the stack and leaves its result (if any) on top.
	Call
	// Return pops the function's result (if any) and exits the current
	// frame.
	Return
	// Label marks a branch target; Branch pops a Bool and jumps to one of
	// two labels; Jump is unconditional.
	Label
	Branch
	Jump
	// FnStart/FnEnd bracket one function's op sequence.
	FnStart
	FnEnd
	// PubRead/PubWrite are the public I/O primitives; Divine reads a
	// nondeterministic witness value.
	PubRead
	PubWrite
	Divine
	// Hash pops Count elements and pushes a Digest; Sponge absorbs Count
	// elements into a running sponge state.
	Hash
	Sponge
	// Assert pops a Bool and fails the proof if it is false.
	Assert
	// Reveal emits a named event with Count field values already pushed;
	// Seal commits one value without revealing it.
	Reveal
	Seal
)

// Op is one TIR instruction. Not every field is meaningful for every Kind;
// see the Kind doc comments above for which fields a given opcode reads.
type Op struct {
	Kind  Kind
	Int   uint64 // Push literal, MemRead/MemWrite slot, Hash/Reveal field count
	Bool  bool   // PushBool literal
	Name  string // Call target, Label/Branch/Jump target, Reveal event name
	Alt   string // Branch's else-target
	Tag   uint32 // Reveal's event tag (structural hash of its name)
}

func (o Op) String() string {
	switch o.Kind {
	case Push:
		return fmt.Sprintf("push %d", o.Int)
	case PushBool:
		return fmt.Sprintf("push %t", o.Bool)
	case MemRead, MemWrite:
		return fmt.Sprintf("%s %%%d", kindNames[o.Kind], o.Int)
	case Call:
		return fmt.Sprintf("call %s", o.Name)
	case Label:
		return fmt.Sprintf("%s:", o.Name)
	case Branch:
		return fmt.Sprintf("branch %s, %s", o.Name, o.Alt)
	case Jump:
		return fmt.Sprintf("jump %s", o.Name)
	case Hash, Reveal:
		return fmt.Sprintf("%s %s/%d", kindNames[o.Kind], o.Name, o.Int)
	default:
		return kindNames[o.Kind]
	}
}

var kindNames = map[Kind]string{
	Push: "push", PushBool: "push", Add: "add", Sub: "sub", Mul: "mul", Div: "div", Neg: "neg",
	Eq: "eq", Neq: "neq", Lt: "lt", Le: "le", And: "and", Or: "or", Not: "not",
	Dup: "dup", Drop: "drop", MemRead: "mload", MemWrite: "mstore",
	Call: "call", Return: "return", Label: "label", Branch: "branch", Jump: "jump",
	FnStart: "fn_start", FnEnd: "fn_end", PubRead: "pub_read", PubWrite: "pub_write", Divine: "divine",
	Hash: "hash", Sponge: "sponge", Assert: "assert", Reveal: "reveal", Seal: "seal",
}

// Function is one lowered function body: a name and its flat op sequence,
// bracketed by FnStart/FnEnd.
type Function struct {
	Name   string
	Params int
	Ops    []Op
}

// Program is a full lowered TIR module: every checked, non-intrinsic
// function plus the name of the entry function (if any).
type Program struct {
	Functions []Function
	EntryFn   string
}
