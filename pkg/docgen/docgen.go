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

// Package docgen renders a resolved project's public surface to markdown:
// one section per module, listing its public functions, structs and
// events together with their `#[requires]`/`#[ensures]` attributes. Only
// ast.Public items are documented, matching the teacher's convention in
// pkg/cmd/root.go of treating a command's own --help text as the sole
// rendering of its public surface.
package docgen

import (
	"fmt"
	"strings"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/resolve"
)

// Generate renders markdown documentation for every public item across
// modules, in the order modules were resolved.
func Generate(modules []resolve.ModuleInfo) string {
	var b strings.Builder

	b.WriteString("# Trident module reference\n\n")

	for _, m := range modules {
		if m.AST == nil {
			continue
		}

		renderModule(&b, m)
	}

	return b.String()
}

func renderModule(b *strings.Builder, m resolve.ModuleInfo) {
	fns, structs, events := publicItems(m.AST)
	if len(fns) == 0 && len(structs) == 0 && len(events) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s\n\n", m.DottedName)

	for _, s := range structs {
		renderStruct(b, s)
	}

	for _, e := range events {
		renderEvent(b, e)
	}

	for _, fn := range fns {
		renderFn(b, fn)
	}
}

func publicItems(f *ast.File) (fns []*ast.FnDef, structs []*ast.StructDef, events []*ast.EventDef) {
	for _, it := range f.Items {
		switch v := it.Node.(type) {
		case *ast.FnDef:
			if v.Visibility == ast.Public {
				fns = append(fns, v)
			}
		case *ast.StructDef:
			if v.Visibility == ast.Public {
				structs = append(structs, v)
			}
		case *ast.EventDef:
			if v.Visibility == ast.Public {
				events = append(events, v)
			}
		}
	}

	return fns, structs, events
}

func renderStruct(b *strings.Builder, s *ast.StructDef) {
	fmt.Fprintf(b, "### struct %s\n\n", s.Name)

	for _, f := range s.Fields {
		fmt.Fprintf(b, "- `%s`: `%s`\n", f.Name, f.Type)
	}

	b.WriteString("\n")
}

func renderEvent(b *strings.Builder, e *ast.EventDef) {
	fmt.Fprintf(b, "### event %s\n\n", e.Name)

	for _, f := range e.Fields {
		fmt.Fprintf(b, "- `%s`: `%s`\n", f.Name, f.Type)
	}

	b.WriteString("\n")
}

func renderFn(b *strings.Builder, fn *ast.FnDef) {
	sig := fn.Name + "(" + paramList(fn.Params) + ")"
	if fn.ReturnType != nil {
		sig += " -> " + fn.ReturnType.String()
	}

	fmt.Fprintf(b, "### fn `%s`\n\n", sig)

	if fn.IsPure {
		b.WriteString("Pure.\n\n")
	}

	for _, req := range fn.Attrs.Requires {
		fmt.Fprintf(b, "- requires: `%v`\n", req.Node)
	}

	for _, ens := range fn.Attrs.Ensures {
		fmt.Fprintf(b, "- ensures: `%v`\n", ens.Node)
	}

	b.WriteString("\n")
}

func paramList(params []ast.Param) string {
	out := ""

	for i, p := range params {
		if i > 0 {
			out += ", "
		}

		out += fmt.Sprintf("%s: %s", p.Name, p.Type)
	}

	return out
}
