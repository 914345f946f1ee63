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
	"strings"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/source"
)

// checkGenericCall binds size parameters from the call's explicit size
// arguments (e.g. `first<3>(a)`), specializes the callee's signature, caches
// the specialization by (fn_name, size-tuple, arg-type-tuple) per spec §9,
// and re-runs the checker on the specialized body exactly once per distinct
// instantiation.
func (c *Checker) checkGenericCall(
	ctx *fnContext, span source.Span, short string, fn *ast.FnDef, e *ast.Call, argTys []ast.Ty,
) ast.Ty {
	if len(e.SizeArgs) != len(fn.TypeParams) {
		c.errf(span, fmt.Sprintf(
			"call to generic function %q expects %d size argument(s), got %d", short, len(fn.TypeParams), len(e.SizeArgs)))

		return ast.Field{}
	}

	sizeArgs := map[string]uint64{}

	for i, name := range fn.TypeParams {
		n, ok := ast.EvalArraySize(e.SizeArgs[i], nil)
		if !ok {
			c.errf(span, fmt.Sprintf("size argument %d of %q is not a compile-time constant", i+1, short))
			return ast.Field{}
		}

		sizeArgs[name] = n
	}

	key := instantiationKey(short, sizeArgs, argTys)

	spec, cached := c.instantiations[key]
	if !cached {
		spec = specializeFn(fn, sizeArgs)
		c.instantiations[key] = spec

		if !c.checking[key] {
			c.checking[key] = true
			c.checkFnBody(key, spec, ctx.module, sizeArgs)
			delete(c.checking, key)
		}
	}

	if len(e.Args) != len(spec.Params) {
		c.errf(span, fmt.Sprintf("call to %q expects %d argument(s), got %d", short, len(spec.Params), len(e.Args)))
	}

	for i := 0; i < len(e.Args) && i < len(spec.Params); i++ {
		want := spec.Params[i].Type
		if !numericAssignable(e.Args[i].Node, argTys[i], want) && !ast.Equals(argTys[i], want) {
			c.errf(e.Args[i].Span, fmt.Sprintf("argument %d of %q: expected %s, got %s", i+1, short, want, argTys[i]))
		}
	}

	if spec.ReturnType == nil {
		return ast.Unit{}
	}

	return spec.ReturnType
}

// instantiationKey derives a deterministic cache key for one generic
// instantiation from the callee name, its bound size parameters, and the
// caller's argument types.
func instantiationKey(fnName string, sizeArgs map[string]uint64, argTys []ast.Ty) string {
	names := make([]string, 0, len(sizeArgs))
	for n := range sizeArgs {
		names = append(names, n)
	}

	sort.Strings(names)

	var b strings.Builder

	b.WriteString(fnName)

	for _, n := range names {
		fmt.Fprintf(&b, "|%s=%d", n, sizeArgs[n])
	}

	for _, t := range argTys {
		b.WriteString("|")
		b.WriteString(t.String())
	}

	return b.String()
}

// specializeFn returns a copy of fn with every size-parameter reference in
// its parameter and return types folded to a literal via sizeArgs.
func specializeFn(fn *ast.FnDef, sizeArgs map[string]uint64) *ast.FnDef {
	spec := &ast.FnDef{
		Visibility: fn.Visibility,
		Name:       fn.Name,
		Params:     make([]ast.Param, len(fn.Params)),
		Body:       fn.Body,
		IsTest:     fn.IsTest,
		IsPure:     fn.IsPure,
		Attrs:      fn.Attrs,
	}

	for i, p := range fn.Params {
		spec.Params[i] = ast.Param{Name: p.Name, Type: substSizeParams(p.Type, sizeArgs)}
	}

	if fn.ReturnType != nil {
		spec.ReturnType = substSizeParams(fn.ReturnType, sizeArgs)
	}

	return spec
}

// substSizeParams folds every SizeParam reference reachable from ty given a
// concrete binding, leaving already-resolved (non-generic) types untouched.
func substSizeParams(ty ast.Ty, sizeArgs map[string]uint64) ast.Ty {
	switch t := ty.(type) {
	case *ast.Array:
		elem := substSizeParams(t.Element, sizeArgs)
		size := t.Size

		if n, ok := ast.EvalArraySize(t.Size, sizeArgs); ok {
			size = ast.SizeLiteral{Value: n}
		}

		return &ast.Array{Element: elem, Size: size}
	case *ast.Tuple:
		elems := make([]ast.Ty, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = substSizeParams(e, sizeArgs)
		}

		return &ast.Tuple{Elements: elems}
	default:
		return ty
	}
}
