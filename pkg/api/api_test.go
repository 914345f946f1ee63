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
package api

import (
	"strings"
	"testing"
)

// Scenario 1: a pure read/write program checks clean, and its assembly names
// the entry function __main without inventing a __<test-name> label, since
// no #[test] function is declared.
func Test_Scenario_ReadWriteChecksAndLowers(t *testing.T) {
	src := "program test\nfn main(){ pub_write(pub_read()) }"

	asm, diags := Compile("t.tri", []byte(src))
	if diags.HasErrors() {
		t.Fatalf("Compile(%q) = %v, want no errors", src, diags)
	}

	var symbols []string

	for _, line := range asm {
		if strings.HasPrefix(line, "__") && strings.HasSuffix(line, ":") {
			symbols = append(symbols, strings.TrimSuffix(line, ":"))
		}
	}

	if len(symbols) != 1 || symbols[0] != "__main" {
		t.Errorf("function symbols = %v, want exactly [__main]", symbols)
	}
}

// Scenario 2: assigning a pub_read() (Field) result to a Bool-typed let
// binding is a type error.
func Test_Scenario_ReadIntoWrongTypeFails(t *testing.T) {
	src := "program test\nfn main(){ let x: Bool = pub_read(); }"

	_, diags := CheckSilent("t.tri", []byte(src), nil)
	if !diags.HasErrors() {
		t.Fatalf("CheckSilent(%q) = no errors, want a type error", src)
	}

	if !strings.Contains(diags.Error(), "Bool") || !strings.Contains(diags.Error(), "Field") {
		t.Errorf("diagnostic %q does not mention both Bool and Field", diags.Error())
	}
}

// Scenario 3: a struct-field-access program compiles and its estimated cost
// charges at least one processor row.
func Test_Scenario_StructProgramHasProcessorCost(t *testing.T) {
	src := "program test\n" +
		"struct Pt { x: Field, y: Field }\n" +
		"fn main(){ let a:Pt=Pt{x:1,y:2}; let b:Pt=Pt{x:3,y:4}; pub_write(a.x+b.y) }"

	_, diags := CheckSilent("t.tri", []byte(src), nil)
	if diags.HasErrors() {
		t.Fatalf("CheckSilent(%q) = %v, want no errors", src, diags)
	}

	c, diags := AnalyzeCosts("t.tri", []byte(src), "triton")
	if diags.HasErrors() {
		t.Fatalf("AnalyzeCosts(%q) = %v, want no errors", src, diags)
	}

	if c.Total["processor"] == 0 {
		t.Errorf("Total[processor] = 0, want > 0")
	}
}

// Scenario 4: renaming a function's parameters leaves its hash unchanged.
func Test_Scenario_HashIsRenameInvariant(t *testing.T) {
	p1 := "program p\nfn add(a:Field,b:Field)->Field{ a+b } fn main(){}"
	p2 := "program p\nfn add(x:Field,y:Field)->Field{ x+y } fn main(){}"

	prog1, diags1 := CheckSilent("p1.tri", []byte(p1), nil)
	if diags1.HasErrors() {
		t.Fatalf("CheckSilent(p1) = %v, want no errors", diags1)
	}

	prog2, diags2 := CheckSilent("p2.tri", []byte(p2), nil)
	if diags2.HasErrors() {
		t.Fatalf("CheckSilent(p2) = %v, want no errors", diags2)
	}

	h1 := HashFileContent(prog1, "p.add")
	h2 := HashFileContent(prog2, "p.add")

	if h1 != h2 {
		t.Errorf("hash_file(p1)[add] = %x, hash_file(p2)[add] = %x, want equal", h1, h2)
	}
}

// Scenario 5: adding a #[requires(...)] attribute leaves a function's hash
// unchanged.
func Test_Scenario_HashIsSpecInvariant(t *testing.T) {
	withReq := "program p\n#[requires(a>0)]\nfn f(a:Field)->Field{ a }"
	without := "program p\nfn f(a:Field)->Field{ a }"

	prog1, diags1 := CheckSilent("p1.tri", []byte(withReq), nil)
	if diags1.HasErrors() {
		t.Fatalf("CheckSilent(withReq) = %v, want no errors", diags1)
	}

	prog2, diags2 := CheckSilent("p2.tri", []byte(without), nil)
	if diags2.HasErrors() {
		t.Fatalf("CheckSilent(without) = %v, want no errors", diags2)
	}

	h1 := HashFileContent(prog1, "p.f")
	h2 := HashFileContent(prog2, "p.f")

	if h1 != h2 {
		t.Errorf("hash_file with #[requires] = %x, without = %x, want equal", h1, h2)
	}
}

// Scenario 6: a program calling the hash builtin reports a non-zero hash
// table total, and annotating its source marks the call site.
func Test_Scenario_HashBuiltinCostAndAnnotation(t *testing.T) {
	src := "program test\nfn main(){ let d: Field = 1; let h: Digest = hash(d, 2); seal h; }"

	c, diags := AnalyzeCosts("t.tri", []byte(src), "triton")
	if diags.HasErrors() {
		t.Fatalf("AnalyzeCosts(%q) = %v, want no errors", src, diags)
	}

	if c.Total["hash"] == 0 {
		t.Errorf("Total[hash] = 0, want > 0")
	}

	annotated, diags := AnnotateSource("t.tri", []byte(src), "triton")
	if diags.HasErrors() {
		t.Fatalf("AnnotateSource(%q) = %v, want no errors", src, diags)
	}

	var marked bool

	for _, line := range strings.Split(annotated, "\n") {
		if strings.Contains(line, "hash(") && strings.Contains(line, "[hash=") {
			marked = true
		}
	}

	if !marked {
		t.Errorf("annotated source has no [hash=] marker on the hash(...) line:\n%s", annotated)
	}
}
