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
package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/trident-lang/trident/pkg/source"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error = %v", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) error = %v", path, err)
	}
}

// Path-traversal safety: a resolved path outside the project root is
// rejected, whether because it is an ancestor directory or an unrelated
// absolute path, while a file inside the root is accepted.
func Test_WithinProjectRoot_RejectsEscapes(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "proj")

	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error = %v", project, err)
	}

	r := &resolver{roots: searchRoots{projectDir: project}}

	cases := []struct {
		path string
		want bool
	}{
		{filepath.Join(project, "mod.tri"), true},
		{filepath.Join(project, "sub", "mod.tri"), true},
		{filepath.Join(project, "..", "mod.tri"), false},
		{filepath.Join(dir, "outside.tri"), false},
	}

	for _, c := range cases {
		if got := r.withinProjectRoot(c.path); got != c.want {
			t.Errorf("withinProjectRoot(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

// A path under an explicit dep dir or the stdlib/OS root is accepted even
// though it lies outside the project directory, since those roots are
// searched by design.
func Test_WithinProjectRoot_AllowsDepAndStdlibRoots(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "proj")
	depDir := filepath.Join(dir, "deps")
	stdlib := filepath.Join(dir, "std")

	for _, d := range []string{project, depDir, stdlib} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("MkdirAll(%q) error = %v", d, err)
		}
	}

	r := &resolver{roots: searchRoots{projectDir: project, depDirs: []string{depDir}, stdlibRoot: stdlib}}

	if !r.withinProjectRoot(filepath.Join(depDir, "mod.tri")) {
		t.Errorf("withinProjectRoot(dep dir path) = false, want true")
	}

	if !r.withinProjectRoot(filepath.Join(stdlib, "mod.tri")) {
		t.Errorf("withinProjectRoot(stdlib path) = false, want true")
	}
}

// Resolver completeness: every module reachable from the entry file appears
// exactly once in the result, and every dependency precedes its dependant.
func Test_Resolve_OrdersDependenciesBeforeDependants(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "leaf.tri"), "module leaf\nfn helper(a:Field)->Field{ a }\n")
	writeFile(t, filepath.Join(dir, "mid.tri"), "module mid\nuse leaf;\nfn helper2(a:Field)->Field{ a }\n")
	writeFile(t, filepath.Join(dir, "main.tri"), "program main\nuse mid;\nuse leaf;\nfn main(){}\n")

	entry := filepath.Join(dir, "main.tri")

	modules, diags := Resolve(source.NewSet(), entry, nil)
	if diags.HasErrors() {
		t.Fatalf("Resolve(%q) = %v, want no errors", entry, diags)
	}

	if len(modules) != 3 {
		t.Fatalf("Resolve(%q) returned %d modules, want 3", entry, len(modules))
	}

	index := map[string]int{}
	for i, m := range modules {
		if _, dup := index[m.DottedName]; dup {
			t.Errorf("module %q appears more than once", m.DottedName)
		}

		index[m.DottedName] = i
	}

	for _, m := range modules {
		for _, dep := range m.Dependencies {
			if index[dep] >= index[m.DottedName] {
				t.Errorf("dependency %q of %q does not precede it in resolved order", dep, m.DottedName)
			}
		}
	}
}

// A module not found under any search root produces an error diagnostic
// rather than a panic or a silently-empty result.
func Test_Resolve_MissingModuleIsDiagnosed(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "main.tri"), "program main\nuse nonexistent;\nfn main(){}\n")

	entry := filepath.Join(dir, "main.tri")

	_, diags := Resolve(source.NewSet(), entry, nil)
	if !diags.HasErrors() {
		t.Errorf("Resolve with missing `use` target = no errors, want an error diagnostic")
	}
}
