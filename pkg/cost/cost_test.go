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

import (
	"math/bits"
	"reflect"
	"testing"

	"github.com/trident-lang/trident/pkg/parser"
	"github.com/trident-lang/trident/pkg/resolve"
	"github.com/trident-lang/trident/pkg/source"
	"github.com/trident-lang/trident/pkg/typecheck"
)

func checkSource(t *testing.T, src string) *typecheck.Program {
	t.Helper()

	set := source.NewSet()
	id := set.Add("t.tri", []byte(src))

	f, diags := parser.Parse(set, id)
	if diags.HasErrors() {
		t.Fatalf("Parse(%q) produced errors: %v", src, diags)
	}

	module := resolve.ModuleInfo{DottedName: f.Header.Name, FilePath: "t.tri", AST: f}

	prog, diags := typecheck.Check([]resolve.ModuleInfo{module}, nil)
	if diags.HasErrors() {
		t.Fatalf("Check(%q) produced errors: %v", src, diags)
	}

	return prog
}

// Cost JSON round-trip: FromJSON(cost.ToJSON()) == cost.
func Test_ProgramCost_JSONRoundTrip(t *testing.T) {
	prog := checkSource(t, "program p\nfn main(){ pub_write(pub_read()) }")
	want := Analyze(prog, Triton{})

	data, err := want.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	if !reflect.DeepEqual(want, got) {
		t.Errorf("FromJSON(ToJSON(cost)) = %+v, want %+v", got, want)
	}
}

// Padded height is always a power of two (popcount <= 1).
func Test_ProgramCost_PaddedHeightIsPowerOfTwo(t *testing.T) {
	sources := []string{
		"program p\nfn main(){ pub_write(pub_read()) }",
		"program p\nfn main(){ let mut i: U32 = 0; for i in 0..100 { pub_write(i); } }",
	}

	for _, src := range sources {
		prog := checkSource(t, src)
		c := Analyze(prog, Triton{})

		if bits.OnesCount64(c.PaddedHeight) > 1 {
			t.Errorf("PaddedHeight = %d is not a power of two", c.PaddedHeight)
		}
	}
}

// A loop body's cost is charged exactly `weight` times, not weight+1: a
// single no-op-free iteration charged once outside a loop must equal 1/4 of
// the same body run through a 4-iteration loop for every table entry that
// scales with the body (loop_overhead itself is charged once per loop, not
// per iteration, so it is excluded from the comparison).
func Test_Analyze_LoopBodyChargedExactlyWeightTimes(t *testing.T) {
	unrolled := checkSource(t, "program p\nfn main(){ pub_write(1); pub_write(1); pub_write(1); pub_write(1); }")
	looped := checkSource(t, "program p\nfn main(){ for i in 0..4 { pub_write(1); } }")

	cu := Analyze(unrolled, Triton{})
	cl := Analyze(looped, Triton{})

	if cu.Total["processor"] != cl.Total["processor"] {
		t.Errorf("looped Total[processor] = %d, unrolled Total[processor] = %d, want equal",
			cl.Total["processor"], cu.Total["processor"])
	}
}

// Call overhead lands in whatever table the active model declares for "call",
// even when that model has only a single table (Cycles).
func Test_Analyze_CallOverheadUsesModelTable(t *testing.T) {
	prog := checkSource(t, "program p\nfn helper(a:Field)->Field{ a } fn main(){ pub_write(helper(1)); }")

	c := Analyze(prog, Cycles{})

	if c.Total["cycles"] == 0 {
		t.Errorf("Total[cycles] = 0, want call overhead counted in the model's only table")
	}
}

// hash(...) charges the model's hash table, and AttestationHashRows reports
// it.
func Test_Analyze_HashBuiltinChargesHashTable(t *testing.T) {
	prog := checkSource(t, "program p\nfn main(){ let d: Field = 1; let h: Digest = hash(d, 2); seal h; }")

	c := Analyze(prog, Triton{})

	if c.Total["hash"] == 0 {
		t.Errorf("Total[hash] = 0, want > 0")
	}

	if c.AttestationHashRows == 0 {
		t.Errorf("AttestationHashRows = 0, want > 0")
	}
}

// Functions breakdown: a reachable callee is charged for its own body, not
// inlined into the caller's entry.
func Test_Analyze_FunctionsBreakdownExcludesCallees(t *testing.T) {
	prog := checkSource(t, "program p\nfn helper(a:Field)->Field{ a } fn main(){ pub_write(helper(1)); }")

	c := Analyze(prog, Triton{})

	names := map[string]bool{}
	for _, fc := range c.Functions {
		names[fc.Name] = true
	}

	if !names["p.main"] || !names["p.helper"] {
		t.Errorf("Functions = %v, want entries for both p.main and p.helper", names)
	}
}
