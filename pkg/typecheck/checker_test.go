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
package typecheck

import (
	"testing"

	"github.com/trident-lang/trident/pkg/diag"
	"github.com/trident-lang/trident/pkg/parser"
	"github.com/trident-lang/trident/pkg/resolve"
	"github.com/trident-lang/trident/pkg/source"
)

func checkModule(t *testing.T, src string) diag.Diagnostics {
	t.Helper()

	set := source.NewSet()
	id := set.Add("t.tri", []byte(src))

	f, diags := parser.Parse(set, id)
	if diags.HasErrors() {
		t.Fatalf("Parse(%q) produced errors: %v", src, diags)
	}

	module := resolve.ModuleInfo{DottedName: f.Header.Name, FilePath: "t.tri", AST: f}

	_, diags = Check([]resolve.ModuleInfo{module}, nil)

	return diags
}

func countWarnings(diags diag.Diagnostics) int {
	n := 0

	for _, d := range diags {
		if d.Severity == diag.Warning {
			n++
		}
	}

	return n
}

// A statement following a `return` is unreachable and triggers exactly one
// warning, without also failing the check.
func Test_Check_UnreachableStatementWarnsOnce(t *testing.T) {
	src := "program test\nfn main(){ return; let x: Field = 1; }"

	diags := checkModule(t, src)
	if diags.HasErrors() {
		t.Fatalf("checkModule(%q) = %v, want no errors", src, diags)
	}

	if n := countWarnings(diags); n != 1 {
		t.Errorf("warning count = %d, want exactly 1", n)
	}
}

// A function with no statement after its last executable one produces no
// unreachable-code warning.
func Test_Check_NoTrailingStatementNoWarning(t *testing.T) {
	src := "program test\nfn main(){ let x: Field = 1; }"

	diags := checkModule(t, src)
	if diags.HasErrors() {
		t.Fatalf("checkModule(%q) = %v, want no errors", src, diags)
	}

	if n := countWarnings(diags); n != 0 {
		t.Errorf("warning count = %d, want 0", n)
	}
}

// The #[test] whitelist: a test function must declare no parameters, no
// return type, and no generics.
func Test_Check_TestFunctionWhitelist(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"params", "program test\n#[test]\nfn t(a: Field){ }\nfn main(){}"},
		{"return type", "program test\n#[test]\nfn t() -> Field { 1 }\nfn main(){}"},
		{"generic", "program test\n#[test]\nfn t<N>(){ }\nfn main(){}"},
	}

	for _, c := range cases {
		diags := checkModule(t, c.src)
		if !diags.HasErrors() {
			t.Errorf("%s: checkModule(%q) = no errors, want a whitelist violation", c.name, c.src)
		}
	}
}

// A well-formed #[test] function (no parameters, no return type, not
// generic) checks clean.
func Test_Check_WellFormedTestFunctionPasses(t *testing.T) {
	src := "program test\n#[test]\nfn t(){ assert(true); }\nfn main(){}"

	diags := checkModule(t, src)
	if diags.HasErrors() {
		t.Fatalf("checkModule(%q) = %v, want no errors", src, diags)
	}
}
