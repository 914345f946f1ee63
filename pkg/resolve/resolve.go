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

// Package resolve discovers every module reachable from an entry file via
// `use` statements, enforces path-traversal safety, and returns modules in
// topological (dependencies-before-dependants) order.  Its multi-file
// discover/link shape is grounded on the teacher's assembler.Link: collect
// every component first, detect duplicates/cycles, then produce one ordered
// artifact.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/diag"
	"github.com/trident-lang/trident/pkg/parser"
	"github.com/trident-lang/trident/pkg/source"
)

// ModuleInfo describes one discovered module.
type ModuleInfo struct {
	DottedName   string
	FilePath     string
	File         source.FileID
	Dependencies []string
	AST          *ast.File
}

// legacyAliases maps old flat module names to their current dotted form.
// Treated as data (per spec §9 open questions), not code: extending the
// language's standard library never requires touching the resolver.
var legacyAliases = map[string]string{
	"std.hash":  "vm.crypto.hash",
	"std.io":    "vm.io",
	"std.array": "vm.collections.array",
}

// searchRoots bundles the directories probed for a dependency, in order.
type searchRoots struct {
	projectDir string
	depDirs    []string
	stdlibRoot string
	osRoot     string
}

// newSearchRoots reads the environment exactly once, per spec §5.
func newSearchRoots(entryPath string, depDirs []string) searchRoots {
	exeDirs := executableRelativeDirs()

	return searchRoots{
		projectDir: filepath.Dir(entryPath),
		depDirs:    depDirs,
		stdlibRoot: firstExisting(envOr("TRIDENT_STDLIB", ""), join(exeDirs, "std"), "./std"),
		osRoot:     firstExisting(envOrLegacy("TRIDENT_OSLIB", "TRIDENT_EXTLIB"), join(exeDirs, "os"), "./os"),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func envOrLegacy(key, legacyKey string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	if v, ok := os.LookupEnv(legacyKey); ok {
		logrus.WithField("var", legacyKey).Warn("using legacy environment variable name")
		return v
	}

	return ""
}

func executableRelativeDirs() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}

	dir := filepath.Dir(exe)

	return []string{dir, filepath.Join(dir, ".."), filepath.Join(dir, "..", "..")}
}

func join(dirs []string, leaf string) string {
	if len(dirs) == 0 {
		return ""
	}

	return filepath.Join(dirs[0], leaf)
}

func firstExisting(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}

		if _, err := os.Stat(c); err == nil {
			return c
		}
	}

	return ""
}

// Resolve discovers every module reachable from entryPath, returning them
// in topological order together with any diagnostics. When discovery reports
// errors (a cycle, a missing module), the modules found are still returned in
// partial order alongside them; an unreadable or unparsable entry file
// yields no modules.
func Resolve(files *source.Set, entryPath string, depDirs []string) ([]ModuleInfo, diag.Diagnostics) {
	roots := newSearchRoots(entryPath, depDirs)

	r := &resolver{
		files:    files,
		roots:    roots,
		modules:  map[string]*ModuleInfo{},
		onStack:  map[string]bool{},
		visiting: map[string]bool{},
	}

	entryName, diags := r.discover(entryPath, "", true)
	if entryName == "" {
		return nil, diags
	}

	r.diags = append(r.diags, diags...)

	order, cycleDiags := r.toposort(entryName)
	r.diags = append(r.diags, cycleDiags...)

	result := make([]ModuleInfo, 0, len(order))
	for _, name := range order {
		result = append(result, *r.modules[name])
	}

	return result, r.diags
}

type resolver struct {
	files    *source.Set
	roots    searchRoots
	modules  map[string]*ModuleInfo
	onStack  map[string]bool
	visiting map[string]bool
	diags    diag.Diagnostics
}

// discover reads and parses one file, records its ModuleInfo, and
// recursively discovers its dependencies.  It returns the module's dotted
// name.
func (r *resolver) discover(path string, expectedName string, isEntry bool) (string, diag.Diagnostics) {
	contents, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return "", diag.Diagnostics{diag.New(source.Span{}, fmt.Sprintf("cannot read module file %q: %v", path, err))}
	}

	file := r.files.Add(path, contents)

	f, pdiags := parser.Parse(r.files, file)
	if pdiags.HasErrors() {
		return "", pdiags
	}

	if isEntry && f.Header.Kind != ast.ProgramHeader {
		pdiags = append(pdiags, diag.New(source.NewSpan(file, 0, 0), "entry file must declare `program NAME`, not `module`"))
	}

	if !isEntry && f.Header.Kind != ast.ModuleHeader {
		pdiags = append(pdiags, diag.New(source.NewSpan(file, 0, 0),
			"file reached via `use` must declare `module NAME`, not `program`"))
	}

	name := f.Header.Name
	if expectedName != "" && name != expectedName {
		pdiags = append(pdiags, diag.New(source.NewSpan(file, 0, 0),
			fmt.Sprintf("module header %q does not match its expected name %q", name, expectedName)))
	}

	if r.onStack[name] {
		pdiags = append(pdiags, diag.New(source.NewSpan(file, 0, 0), fmt.Sprintf("cyclic module dependency involving %q", name)))
		return name, pdiags
	}

	r.onStack[name] = true
	defer delete(r.onStack, name)

	if existing, ok := r.modules[name]; ok {
		return existing.DottedName, pdiags
	}

	info := &ModuleInfo{DottedName: name, FilePath: path, File: file, AST: f}
	r.modules[name] = info

	logrus.WithFields(logrus.Fields{"module": name, "path": path}).Debug("discovered module")

	for _, item := range f.Items {
		use, ok := item.Node.(*ast.UseDecl)
		if !ok {
			continue
		}

		depPath, searched, found := r.resolveModulePath(use.DottedName)
		if !found {
			pdiags = append(pdiags, diag.New(item.Span,
				fmt.Sprintf("module %q not found; searched: %s", use.DottedName, strings.Join(searched, ", "))))

			continue
		}

		if !r.withinProjectRoot(depPath) {
			pdiags = append(pdiags, diag.New(item.Span, fmt.Sprintf("module %q escapes its project root", use.DottedName)))
			continue
		}

		depName, ddiags := r.discover(depPath, use.DottedName, false)
		pdiags = append(pdiags, ddiags...)

		if depName != "" {
			info.Dependencies = append(info.Dependencies, depName)
		}
	}

	return name, pdiags
}

// resolveModulePath probes, in order: the legacy alias table, the project
// directory, each explicit dep dir, the stdlib root, then the OS extension
// root.  It returns every directory searched so a "module not found"
// diagnostic can list them all.
func (r *resolver) resolveModulePath(dottedName string) (string, []string, bool) {
	name := dottedName
	if alias, ok := legacyAliases[name]; ok {
		logrus.WithFields(logrus.Fields{"from": name, "to": alias}).Warn("resolved legacy module alias")
		name = alias
	}

	rel := strings.ReplaceAll(name, ".", string(filepath.Separator)) + ".tri"

	candidates := []string{r.roots.projectDir}
	candidates = append(candidates, r.roots.depDirs...)
	candidates = append(candidates, r.roots.stdlibRoot)
	candidates = append(candidates, filepath.Join(r.roots.osRoot, "os"))

	var searched []string

	for _, dir := range candidates {
		if dir == "" {
			continue
		}

		full := filepath.Join(dir, rel)
		searched = append(searched, full)

		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return full, searched, true
		}
	}

	return "", searched, false
}

// withinProjectRoot rejects any resolved path that, after cleaning,
// escapes the project directory via `..` traversal.
func (r *resolver) withinProjectRoot(path string) bool {
	if r.roots.projectDir == "" {
		return true
	}

	rootAbs, err1 := filepath.Abs(r.roots.projectDir)
	pathAbs, err2 := filepath.Abs(path)

	if err1 != nil || err2 != nil {
		return false
	}

	// Stdlib/OS-extension roots live outside the project directory by
	// design; only paths resolved from the project directory or explicit
	// dep dirs are checked against it.
	if strings.HasPrefix(pathAbs, mustAbs(r.roots.stdlibRoot)) || strings.HasPrefix(pathAbs, mustAbs(r.roots.osRoot)) {
		return true
	}

	for _, dir := range r.roots.depDirs {
		if strings.HasPrefix(pathAbs, mustAbs(dir)) {
			return true
		}
	}

	rel, err := filepath.Rel(rootAbs, pathAbs)
	if err != nil {
		return false
	}

	return !strings.HasPrefix(rel, "..")
}

func mustAbs(dir string) string {
	if dir == "" {
		return "\x00" // never a prefix of any real absolute path
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "\x00"
	}

	return abs
}

// toposort orders every discovered module so each dependency precedes its
// dependants.  On a cycle, the partial order found so far is still
// returned, alongside an error diagnostic (already recorded by discover).
func (r *resolver) toposort(entry string) ([]string, diag.Diagnostics) {
	var (
		order   []string
		visited = map[string]bool{}
		onPath  = map[string]bool{}
		diags   diag.Diagnostics
	)

	var visit func(name string)

	visit = func(name string) {
		if visited[name] || onPath[name] {
			return
		}

		onPath[name] = true

		if m, ok := r.modules[name]; ok {
			for _, dep := range m.Dependencies {
				visit(dep)
			}
		}

		onPath[name] = false
		visited[name] = true

		order = append(order, name)
	}

	visit(entry)

	return order, diags
}
