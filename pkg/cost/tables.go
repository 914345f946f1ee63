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
package cost

import "strings"

// ModelByName resolves a target name to its CostModel, defaulting to Triton
// for an unrecognized name, matching pkg/target/stack.ByName's convention.
func ModelByName(name string) CostModel {
	switch strings.ToLower(name) {
	case "miden":
		return Miden{}
	case "cycles", "riscv", "openvm", "sp1":
		return Cycles{}
	default:
		return Triton{}
	}
}

// Triton is Triton VM's cost model: six AIR tables (processor, hash, u32,
// op_stack, ram, jump_stack).
type Triton struct{}

func (Triton) Name() string { return "triton" }

func (Triton) Tables() []string {
	return []string{"processor", "hash", "u32", "op_stack", "ram", "jump_stack"}
}

func (Triton) CallOverhead() uint64 { return 2 }

func (Triton) ColumnCount() uint64 { return 379 }

func (Triton) Weight(op string) (string, uint64) {
	switch op {
	case "push", "mem_read", "mem_write", "unop":
		return "processor", 1
	case "binop_add":
		return "processor", 1
	case "binop_mul":
		return "processor", 1
	case "binop_div":
		return "u32", 4
	case "binop_cmp":
		return "u32", 2
	case "branch", "loop_overhead", "param":
		return "op_stack", 1
	case "reveal":
		return "hash", 1
	case "hash", "sponge":
		return "hash", 1
	case "call":
		return "processor", 1
	case "asm":
		return "processor", 1
	default:
		return "processor", 1
	}
}

// Miden is Miden VM's cost model: four AIR tables (processor, hash,
// chiplets, stack).
type Miden struct{}

func (Miden) Name() string { return "miden" }

func (Miden) Tables() []string {
	return []string{"processor", "hash", "chiplets", "stack"}
}

func (Miden) CallOverhead() uint64 { return 3 }

func (Miden) ColumnCount() uint64 { return 223 }

func (Miden) Weight(op string) (string, uint64) {
	switch op {
	case "push", "mem_read", "mem_write", "unop":
		return "stack", 1
	case "binop_add", "binop_mul":
		return "stack", 1
	case "binop_div":
		return "chiplets", 2
	case "binop_cmp":
		return "stack", 2
	case "branch", "loop_overhead", "param":
		return "stack", 1
	case "reveal", "hash", "sponge":
		return "hash", 1
	case "call":
		return "processor", 1
	case "asm":
		return "processor", 1
	default:
		return "processor", 1
	}
}

// Cycles is a generic cycle-VM cost model with a single "cycles" table,
// used by register targets where every operation is roughly one machine
// cycle (spec §4.6's "cycle-VMs: cycles").
type Cycles struct{}

func (Cycles) Name() string { return "cycles" }

func (Cycles) Tables() []string { return []string{"cycles"} }

func (Cycles) CallOverhead() uint64 { return 4 }

func (Cycles) ColumnCount() uint64 { return 32 }

func (Cycles) Weight(op string) (string, uint64) {
	switch op {
	case "binop_div":
		return "cycles", 20
	case "hash", "sponge", "reveal":
		return "cycles", 8
	case "call":
		return "cycles", 1
	default:
		return "cycles", 1
	}
}
