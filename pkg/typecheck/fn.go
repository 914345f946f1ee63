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

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/source"
)

// ioIntrinsics names the primitives forbidden inside a #[pure] function body,
// per spec §4.4. divine* is matched by prefix.
var ioIntrinsics = map[string]bool{
	"pub_read":  true,
	"pub_write": true,
}

// hashIntrinsics names the compiler-known Poseidon2 primitives: unlike
// ioIntrinsics, these are deterministic and carry no side effect, so they
// remain callable from a #[pure] function. Each has no user-visible FnDef
// and evaluates to a Digest.
var hashIntrinsics = map[string]bool{
	"hash":   true,
	"sponge": true,
}

// fnContext carries the per-function state threaded through statement and
// expression checking: the scope stack, the enclosing module (for
// unqualified name resolution), the declared return type, and the
// purity/generic constraints in force for this body.
type fnContext struct {
	scopes   *scopeStack
	module   string
	retTy    ast.Ty
	pure     bool
	fnName   string
	sizeArgs map[string]uint64
}

// checkFn validates a single function declaration: the #[test] whitelist,
// purity, parameter binding, and the body against its declared return type.
func (c *Checker) checkFn(name string, fn *ast.FnDef, module string) {
	if fn.IsTest {
		c.checkTestFn(fn)
	}

	if len(fn.TypeParams) > 0 {
		// Generic functions are only checked at their monomorphized call
		// sites (spec §4.4 "generic monomorphization"); the unspecialized
		// declaration's body.is_none() per the "intrinsic or
		// generic-unmonomorphized" invariant.
		return
	}

	c.checkFnBody(name, fn, module, nil)
}

// checkTestFn enforces the #[test] whitelist: zero parameters, no return
// type, not generic.
func (c *Checker) checkTestFn(fn *ast.FnDef) {
	if len(fn.Params) > 0 {
		c.errf(source.Span{}, fmt.Sprintf("#[test] function %q must not declare parameters", fn.Name))
	}

	if fn.ReturnType != nil {
		c.errf(source.Span{}, fmt.Sprintf("#[test] function %q must not declare a return type", fn.Name))
	}

	if len(fn.TypeParams) > 0 {
		c.errf(source.Span{}, fmt.Sprintf("#[test] function %q must not be generic", fn.Name))
	}
}

// checkFnBody checks a (possibly monomorphized) function body against its
// declared return type, with a fresh scope for parameters and sizeArgs
// bound for any generic size parameters.
func (c *Checker) checkFnBody(name string, fn *ast.FnDef, module string, sizeArgs map[string]uint64) {
	if fn.Body == nil {
		return
	}

	ctx := &fnContext{
		scopes:   newScopeStack(),
		module:   module,
		retTy:    fn.ReturnType,
		pure:     fn.IsPure,
		fnName:   name,
		sizeArgs: sizeArgs,
	}

	if ctx.retTy == nil {
		ctx.retTy = ast.Unit{}
	}

	ctx.scopes.pushScope()
	defer ctx.scopes.popScope()

	for _, param := range fn.Params {
		ctx.scopes.bind(param.Name, local{ty: param.Type, mutable: false})
	}

	got := c.checkBlock(ctx, fn.Body)

	if !ast.Equals(got, ctx.retTy) {
		c.errf(source.Span{}, fmt.Sprintf("function %q: expected return type %s, got %s", name, ctx.retTy, got))
	}
}
