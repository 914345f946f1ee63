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

// Package driver owns the source buffers and intermediate artifacts of one
// build from entry file to checked program, and is the thing pkg/api's
// functions actually delegate to. Giving the lifetime its own type (rather
// than threading a *source.Set through every pkg/api call) mirrors the
// teacher's SchemaStack owning one build's worth of derived artifacts.
package driver

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/diag"
	"github.com/trident-lang/trident/pkg/parser"
	"github.com/trident-lang/trident/pkg/resolve"
	"github.com/trident-lang/trident/pkg/source"
	"github.com/trident-lang/trident/pkg/typecheck"
)

// Compilation owns the source.Set for a single build and every module
// parsed while resolving it. It has no Close method: the Set is plain
// memory, and a build's buffers are freed when the Compilation goes out of
// scope.
type Compilation struct {
	Files *source.Set
	Log   *logrus.Logger
}

// New constructs a Compilation with its own file set and a logger matching
// the teacher's structured-field convention.
func New() *Compilation {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &Compilation{Files: source.NewSet(), Log: log}
}

// ParseFile reads, lexes and parses a single file, returning the raw AST
// (not yet resolved against any other module).
func (c *Compilation) ParseFile(path string) (*ast.File, diag.Diagnostics) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Diagnostics{diag.New(source.Span{}, err.Error())}
	}

	id := c.Files.Add(path, contents)

	return parser.Parse(c.Files, id)
}

// ResolveAndCheck runs the module resolver then the type checker over the
// resulting topologically ordered module set, returning the checked
// Program or the first phase's diagnostics.
func (c *Compilation) ResolveAndCheck(entryPath string, depDirs []string, cfgFlags map[string]bool) (*typecheck.Program, diag.Diagnostics) {
	modules, rdiags := resolve.Resolve(c.Files, entryPath, depDirs)
	if rdiags.HasErrors() {
		return nil, rdiags
	}

	prog, tdiags := typecheck.Check(modules, cfgFlags)
	if tdiags.HasErrors() {
		return nil, tdiags
	}

	all := append(diag.Diagnostics{}, rdiags...)
	all = append(all, tdiags...)

	c.Log.WithField("modules", len(modules)).Debug("build resolved and checked")

	return prog, all
}
