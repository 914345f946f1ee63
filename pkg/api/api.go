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

// Package api is the single public, language-agnostic entry point a
// collaborator (the CLI, the LSP server, a test harness) drives the
// compiler through. Every exported function here is a thin composition of
// pkg/driver and one or more phase packages; none of the phase packages
// are meant to be imported directly by an external caller.
package api

import (
	"fmt"
	"os"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/cost"
	"github.com/trident-lang/trident/pkg/diag"
	"github.com/trident-lang/trident/pkg/docgen"
	"github.com/trident-lang/trident/pkg/driver"
	"github.com/trident-lang/trident/pkg/format"
	"github.com/trident-lang/trident/pkg/hash"
	"github.com/trident-lang/trident/pkg/lir"
	"github.com/trident-lang/trident/pkg/parser"
	"github.com/trident-lang/trident/pkg/resolve"
	"github.com/trident-lang/trident/pkg/target/register"
	"github.com/trident-lang/trident/pkg/target/stack"
	"github.com/trident-lang/trident/pkg/testrunner"
	"github.com/trident-lang/trident/pkg/tir"
	"github.com/trident-lang/trident/pkg/typecheck"
)

// TargetConfig selects a compilation target and whether it is a stack or
// register machine.
type TargetConfig struct {
	// Name is the target's identifier: "triton", "miden" (stack) or
	// "riscv"-shaped names such as "openvm"/"sp1" (register). On the stack
	// path an unrecognized name selects Triton; the register path uses the
	// RISC-V-style backend for every name.
	Name string
	// Register selects the register-machine lowering path instead of the
	// default stack-machine one.
	Register bool
}

// CompileOptions configures a full source-to-assembly build.
type CompileOptions struct {
	DepDirs  []string
	CfgFlags map[string]bool
	Target   TargetConfig
}

// CompileResult is the output of a successful CompileToBundle: assembly
// plus the metadata a prover's claim layout needs.
type CompileResult struct {
	Name        string
	StackAsm    []string // populated when Target.Register is false
	RegisterAsm []string // populated when Target.Register is true
	Bytes       []byte   // populated when Target.Register is true
}

func newCompilation() *driver.Compilation { return driver.New() }

// ParseSource parses a single in-memory source buffer, rendering any
// diagnostics to stderr as the source text's caret-underlined snippets.
func ParseSource(name string, contents []byte) *ast.File {
	c := newCompilation()
	id := c.Files.Add(name, contents)

	f, diags := parser.Parse(c.Files, id)
	if len(diags) > 0 {
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
	}

	return f
}

// ParseSourceSilent parses a single in-memory source buffer without
// rendering, returning the AST (possibly partial, on a recovered parse
// error) alongside its diagnostics.
func ParseSourceSilent(name string, contents []byte) (*ast.File, diag.Diagnostics) {
	c := newCompilation()
	id := c.Files.Add(name, contents)

	return parser.Parse(c.Files, id)
}

// checkFile type-checks a single in-memory source buffer as a standalone,
// dependency-free module (no `use` resolution), the form check/check_silent
// takes per spec §6.
func checkFile(name string, contents []byte, cfgFlags map[string]bool) (*typecheck.Program, diag.Diagnostics) {
	f, diags := ParseSourceSilent(name, contents)
	if diags.HasErrors() || f == nil {
		return nil, diags
	}

	module := resolve.ModuleInfo{DottedName: f.Header.Name, FilePath: name, AST: f}

	return typecheck.Check([]resolve.ModuleInfo{module}, cfgFlags)
}

// Check type-checks a single in-memory source buffer, rendering diagnostics
// to stderr on failure.
func Check(name string, contents []byte, cfgFlags map[string]bool) *typecheck.Program {
	prog, diags := CheckSilent(name, contents, cfgFlags)
	if diags.HasErrors() {
		c := newCompilation()
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
	}

	return prog
}

// CheckSilent is Check without diagnostic rendering. It is pure except for
// the environment reads pkg/resolve performs during project resolution, so
// per spec §5 the LSP collaborator may call it concurrently on distinct
// inputs without synchronization.
func CheckSilent(name string, contents []byte, cfgFlags map[string]bool) (*typecheck.Program, diag.Diagnostics) {
	return checkFile(name, contents, cfgFlags)
}

// checkProjectOn resolves and type-checks entryPath using the given
// Compilation, so a caller needing the typed Program downstream (compile,
// cost analysis, tests, hashing) and the CLI's diagnostic rendering can
// share one *source.Set instead of each re-parsing entryPath.
func checkProjectOn(c *driver.Compilation, entryPath string, depDirs []string, cfgFlags map[string]bool) (*typecheck.Program, diag.Diagnostics) {
	return c.ResolveAndCheck(entryPath, depDirs, cfgFlags)
}

// CheckProject resolves and type-checks a full project rooted at entryPath
// on disk, following its `use` declarations, rendering diagnostics to
// stderr on failure. Unlike Check/CheckSilent's in-memory single-file
// form, a project's diagnostics reference spans across multiple files on
// disk that only this call's *source.Set can resolve back to source text,
// so -- matching spec's "check_project(entry_path) -> ()" return shape --
// rendering happens here rather than being left to the caller.
func CheckProject(entryPath string, depDirs []string, cfgFlags map[string]bool) *typecheck.Program {
	c := newCompilation()

	prog, diags := checkProjectOn(c, entryPath, depDirs, cfgFlags)
	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
	}

	return prog
}

// Compile checks a single in-memory source buffer and lowers it to Triton
// stack-assembly text.
func Compile(name string, contents []byte) ([]string, diag.Diagnostics) {
	prog, diags := checkFile(name, contents, nil)
	if diags.HasErrors() {
		return nil, diags
	}

	return stack.Triton{}.Lower(tir.Lower(prog)), diags
}

// CompileProjectWithOptions checks a full project and lowers it to the
// requested target.
func CompileProjectWithOptions(entryPath string, opts CompileOptions) (CompileResult, diag.Diagnostics) {
	return CompileToBundle(entryPath, opts)
}

// CompileToBundle checks a project and lowers it all the way to the
// requested target's output form, plus the bundle's claim-layout name.
// Diagnostics are rendered to stderr on failure, matching CheckProject.
func CompileToBundle(entryPath string, opts CompileOptions) (CompileResult, diag.Diagnostics) {
	c := newCompilation()

	prog, diags := checkProjectOn(c, entryPath, opts.DepDirs, opts.CfgFlags)
	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
		return CompileResult{}, diags
	}

	tirProg := tir.Lower(prog)

	if opts.Target.Register {
		lirProg := lir.Lower(tirProg)
		backend := register.ByName(opts.Target.Name)

		return CompileResult{
			Name:        prog.EntryFn,
			RegisterAsm: backend.LowerText(lirProg),
			Bytes:       backend.Lower(lirProg),
		}, diags
	}

	backend := stack.ByName(opts.Target.Name)

	return CompileResult{Name: prog.EntryFn, StackAsm: backend.Lower(tirProg)}, diags
}

// AnalyzeCosts checks a single in-memory source buffer and estimates its
// proving cost against a single named target.
func AnalyzeCosts(name string, contents []byte, target string) (cost.ProgramCost, diag.Diagnostics) {
	prog, diags := checkFile(name, contents, nil)
	if diags.HasErrors() {
		return cost.ProgramCost{}, diags
	}

	return cost.Analyze(prog, cost.ModelByName(target)), diags
}

// AnalyzeCostsProject checks a full project and estimates its proving cost,
// rendering diagnostics to stderr on failure.
func AnalyzeCostsProject(entryPath string, opts CompileOptions) (cost.ProgramCost, diag.Diagnostics) {
	c := newCompilation()

	prog, diags := checkProjectOn(c, entryPath, opts.DepDirs, opts.CfgFlags)
	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
		return cost.ProgramCost{}, diags
	}

	return cost.Analyze(prog, cost.ModelByName(opts.Target.Name)), diags
}

// AnnotateSource checks a single in-memory source buffer and returns its
// text with a `// [hash=N]` or `// [sponge=N]` marker appended to each line
// that calls that builtin, followed by a per-table cost summary for the
// whole program. Other lines carry no per-line cost.
func AnnotateSource(name string, contents []byte, target string) (string, diag.Diagnostics) {
	prog, diags := checkFile(name, contents, nil)
	if diags.HasErrors() {
		return string(contents), diags
	}

	model := cost.ModelByName(target)
	c := cost.Analyze(prog, model)

	return format.Annotate(contents, c, model), diags
}

// GenerateDocs resolves a full project (without type-checking it) and renders
// markdown documentation of its public signatures and `#[requires]`/
// `#[ensures]` attributes. Doc-comments are not included.
func GenerateDocs(entryPath string, depDirs []string) (string, diag.Diagnostics) {
	c := newCompilation()

	modules, diags := resolve.Resolve(c.Files, entryPath, depDirs)
	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
		return "", diags
	}

	return docgen.Generate(modules), diags
}

// DiscoverTests lists the `#[test]` functions declared in a single
// in-memory source buffer.
func DiscoverTests(name string, contents []byte) ([]string, diag.Diagnostics) {
	f, diags := ParseSourceSilent(name, contents)
	if diags.HasErrors() || f == nil {
		return nil, diags
	}

	return testrunner.Discover(f), diags
}

// RunTests checks a full project and executes every `#[test]` function
// against the reference interpreter, producing a report.
func RunTests(entryPath string, depDirs []string, cfgFlags map[string]bool) (testrunner.Report, diag.Diagnostics) {
	c := newCompilation()

	prog, diags := checkProjectOn(c, entryPath, depDirs, cfgFlags)
	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
		return testrunner.Report{}, diags
	}

	return testrunner.Run(prog), diags
}

// HashFile checks a full project and returns every function's ContentHash,
// keyed by its module-qualified name.
func HashFile(entryPath string, depDirs []string, cfgFlags map[string]bool) (map[string]hash.ContentHash, diag.Diagnostics) {
	c := newCompilation()

	prog, diags := checkProjectOn(c, entryPath, depDirs, cfgFlags)
	if diags.HasErrors() {
		fmt.Fprint(os.Stderr, diag.Render(c.Files, diags))
		return nil, diags
	}

	out := make(map[string]hash.ContentHash, len(prog.Functions))
	for name := range prog.Functions {
		out[name] = hash.Program(prog, name)
	}

	return out, diags
}

// HashFileContent computes the ContentHash of a single already-checked
// function within prog.
func HashFileContent(prog *typecheck.Program, fnName string) hash.ContentHash {
	return hash.Program(prog, fnName)
}

// FormatSource checks a single in-memory source buffer parses cleanly and
// returns its idempotent canonical pretty-printing.
func FormatSource(name string, contents []byte) (string, diag.Diagnostics) {
	f, diags := ParseSourceSilent(name, contents)
	if diags.HasErrors() || f == nil {
		return string(contents), diags
	}

	return format.Format(f), diags
}
