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

// Package kir is the optional Kernel IR. No other package in this module
// imports it, and no GPU batch-lowering path exists: Lower is a
// near-identity structural mirror of tir.Program, kept as a separate
// package only so a future batch backend has a stable type to target
// without coupling to pkg/tir's op set directly.
package kir

import "github.com/trident-lang/trident/pkg/tir"

// Op is a type alias of tir.Op, so KIR and TIR share one opcode set.
type Op = tir.Op

// Function mirrors tir.Function.
type Function struct {
	Name   string
	Params int
	Ops    []Op
}

// Program is the Kernel IR form of a compiled module.
type Program struct {
	Functions []Function
	EntryFn   string
}

// Lower performs the near-identity TIR->KIR translation. Because KIR has no
// batching transform yet, this is simply a type-level copy; a real batch
// lowering would group Ops across functions by opcode for SIMD dispatch.
func Lower(prog *tir.Program) *Program {
	out := &Program{EntryFn: prog.EntryFn}

	for _, fn := range prog.Functions {
		out.Functions = append(out.Functions, Function{Name: fn.Name, Params: fn.Params, Ops: fn.Ops})
	}

	return out
}
