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
package hash

import (
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

func Test_Program_RenameInvariance(t *testing.T) {
	p1 := checkSource(t, "program p\nfn add(a:Field,b:Field)->Field{ a+b } fn main(){}")
	p2 := checkSource(t, "program p\nfn add(x:Field,y:Field)->Field{ x+y } fn main(){}")

	if Program(p1, "p.add") != Program(p2, "p.add") {
		t.Errorf("renaming parameters changed ContentHash")
	}
}

func Test_Program_SpecInvariance(t *testing.T) {
	p1 := checkSource(t, "program p\n#[requires(a>0)]\nfn f(a:Field)->Field{ a }")
	p2 := checkSource(t, "program p\nfn f(a:Field)->Field{ a }")

	if Program(p1, "p.f") != Program(p2, "p.f") {
		t.Errorf("adding #[requires] changed ContentHash")
	}
}

func Test_Program_Determinism(t *testing.T) {
	prog := checkSource(t, "program p\nfn f(a:Field)->Field{ a }")

	if Program(prog, "p.f") != Program(prog, "p.f") {
		t.Errorf("Program(prog, %q) is not deterministic across calls", "p.f")
	}
}

func Test_Program_DistinctBodiesHashDifferently(t *testing.T) {
	p1 := checkSource(t, "program p\nfn f(a:Field)->Field{ a } fn main(){}")
	p2 := checkSource(t, "program p\nfn f(a:Field)->Field{ a+a } fn main(){}")

	if Program(p1, "p.f") == Program(p2, "p.f") {
		t.Errorf("structurally different bodies hashed identically")
	}
}
