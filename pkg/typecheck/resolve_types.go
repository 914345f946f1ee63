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
	"fmt"
	"sort"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/source"
)

// resolveTypes replaces every Named type in struct fields, event fields, and
// function signatures with a concrete ast.Ty, and folds array sizes with no
// free parameters down to a Literal.  Struct types are resolved through a
// separate name->definition table (c.program.Structs) rather than embedding
// cyclic pointers, per spec §9's "recursive structures" guidance.
func (c *Checker) resolveTypes() {
	names := make([]string, 0, len(c.program.Structs))
	for n := range c.program.Structs {
		names = append(names, n)
	}

	sort.Strings(names) // deterministic diagnostic order

	visiting := map[string]bool{}
	for _, n := range names {
		c.resolveStructType(n, visiting)
	}

	for _, fn := range c.program.Functions {
		for i := range fn.Params {
			fn.Params[i].Type = c.resolveTy(fn.Params[i].Type, nil)
		}

		if fn.ReturnType != nil {
			fn.ReturnType = c.resolveTy(fn.ReturnType, nil)
		}
	}

	for _, ev := range c.program.Events {
		for i := range ev.Fields {
			ev.Fields[i].Type = c.resolveTy(ev.Fields[i].Type, nil)
		}
	}
}

func (c *Checker) resolveStructType(name string, visiting map[string]bool) {
	s, ok := c.program.Structs[name]
	if !ok || visiting[name] {
		return
	}

	visiting[name] = true
	defer delete(visiting, name)

	for i := range s.Fields {
		s.Fields[i].Type = c.resolveTy(s.Fields[i].Type, nil)
	}
}

// resolveTy replaces a Named type with the struct it names, recursing into
// Array/Tuple.  params substitutes any enclosing generic size parameters
// while folding array sizes.
func (c *Checker) resolveTy(t ast.Ty, params map[string]uint64) ast.Ty {
	switch v := t.(type) {
	case *ast.Named:
		key := v.Path[len(v.Path)-1]

		for name, s := range c.program.Structs {
			if name == key || lastSegment(name) == key {
				return s
			}
		}

		c.errf(source.Span{}, fmt.Sprintf("unknown type %q", v))

		return ast.Field{}
	case *ast.Array:
		elem := c.resolveTy(v.Element, params)
		size := v.Size

		if n, ok := ast.EvalArraySize(v.Size, params); ok {
			size = ast.SizeLiteral{Value: n}
		}

		return &ast.Array{Element: elem, Size: size}
	case *ast.Tuple:
		elems := make([]ast.Ty, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = c.resolveTy(e, params)
		}

		return &ast.Tuple{Elements: elems}
	default:
		return t
	}
}

func lastSegment(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}

	return qualified
}
