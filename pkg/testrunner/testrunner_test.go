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
package testrunner

import (
	"testing"

	"github.com/trident-lang/trident/pkg/parser"
	"github.com/trident-lang/trident/pkg/resolve"
	"github.com/trident-lang/trident/pkg/source"
	"github.com/trident-lang/trident/pkg/typecheck"
)

func parseAndCheck(t *testing.T, src string) *typecheck.Program {
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

func Test_Discover_ListsOnlyTestFunctions(t *testing.T) {
	src := "program p\nfn main(){}\n#[test]\nfn t_one(){ assert(true); }\n#[test]\nfn t_two(){ assert(true); }"

	set := source.NewSet()
	id := set.Add("t.tri", []byte(src))

	f, diags := parser.Parse(set, id)
	if diags.HasErrors() {
		t.Fatalf("Parse(%q) produced errors: %v", src, diags)
	}

	names := Discover(f)
	if len(names) != 2 {
		t.Fatalf("Discover found %d test functions, want 2: %v", len(names), names)
	}
}

func Test_Run_PassingAssertionSucceeds(t *testing.T) {
	src := "program p\nfn main(){}\n#[test]\nfn t_ok(){ assert_eq(1+1, 2); }"

	prog := parseAndCheck(t, src)

	report := Run(prog)
	if !report.Passed() {
		t.Errorf("report = %+v, want all passed", report.Results)
	}
}

func Test_Run_FailingAssertionFails(t *testing.T) {
	src := "program p\nfn main(){}\n#[test]\nfn t_bad(){ assert(false); }"

	prog := parseAndCheck(t, src)

	report := Run(prog)
	if report.Passed() {
		t.Errorf("report = %+v, want at least one failure", report.Results)
	}
}

// A #[test] function calling a helper declared in the same module resolves
// it by its unqualified name and runs its body.
func Test_Run_CallsSameModuleHelper(t *testing.T) {
	src := "program p\nfn double(a:Field)->Field{ a+a } fn main(){}\n#[test]\nfn t_double(){ assert_eq(double(2), 4); }"

	prog := parseAndCheck(t, src)

	report := Run(prog)
	if !report.Passed() {
		t.Errorf("report = %+v, want all passed", report.Results)
	}
}
