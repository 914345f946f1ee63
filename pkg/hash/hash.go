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

// Package hash computes a structural, rename-invariant ContentHash of a
// checked program: normalize the AST (strip spans, rename locals by binding
// order, drop spec-only attributes) to a canonical byte stream, then absorb
// it through the Poseidon2 sponge permutation from gnark-crypto.
package hash

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr/poseidon2"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/typecheck"
)

// spongeWidth is the Poseidon2 state width used for ContentHash; rate is
// width-1 so one capacity element separates domains.
const spongeWidth = 3

// ContentHash is the 32-byte structural fingerprint of a checked program.
// Two programs that differ only in local variable names, comments, or
// spec-only attributes (`requires`/`ensures`/`cfg`) hash identically.
type ContentHash [32]byte

// Program renders a stable ContentHash for fn within the broader checked
// Program, by which all cross-references (struct/function names) are
// resolved to their structural definitions rather than their source-level
// spelling.
func Program(prog *typecheck.Program, entryFn string) ContentHash {
	n := normalizer{prog: prog, locals: map[string]uint32{}}

	fn, ok := prog.Functions[entryFn]
	if !ok {
		return ContentHash{}
	}

	n.fn(fn)

	return spongeHash(n.words)
}

// normalizer walks a function body emitting a canonical stream of field
// elements: spans are never consulted, and every Let/parameter binding is
// renamed to a dense per-function index in the order it is first bound, so
// alpha-equivalent functions normalize identically.
type normalizer struct {
	prog   *typecheck.Program
	locals map[string]uint32
	next   uint32
	words  []fr.Element
}

func (n *normalizer) push(tag uint32, vals ...uint64) {
	var e fr.Element

	e.SetUint64(uint64(tag))
	n.words = append(n.words, e)

	for _, v := range vals {
		e.SetUint64(v)
		n.words = append(n.words, e)
	}
}

func (n *normalizer) bind(name string) uint32 {
	id := n.next
	n.next++
	n.locals[name] = id

	return id
}

func (n *normalizer) resolve(name string) uint32 {
	if id, ok := n.locals[name]; ok {
		return id
	}
	// A reference to a parameter/global not yet seen as a local binding:
	// fold its name to a stable hash rather than its binding order, since
	// cross-module references are spelled out, not renamed.
	return fnv32(name)
}

func (n *normalizer) fn(fn *ast.FnDef) {
	n.push(tagFn, uint64(len(fn.Params)))

	for _, p := range fn.Params {
		n.bind(p.Name)
		n.ty(p.Type)
	}

	if fn.Body != nil {
		n.block(fn.Body)
	}
}

func (n *normalizer) ty(t ast.Ty) {
	switch v := t.(type) {
	case ast.Field:
		n.push(tagTyField)
	case ast.XField:
		n.push(tagTyXField)
	case ast.Bool:
		n.push(tagTyBool)
	case ast.U32:
		n.push(tagTyU32)
	case ast.Digest:
		n.push(tagTyDigest)
	case ast.Unit:
		n.push(tagTyUnit)
	case *ast.Array:
		size, _ := ast.EvalArraySize(v.Size, nil)
		n.push(tagTyArray, size)
		n.ty(v.Element)
	case *ast.Tuple:
		n.push(tagTyTuple, uint64(len(v.Elements)))
		for _, e := range v.Elements {
			n.ty(e)
		}
	case *ast.Struct:
		n.push(tagTyStruct, uint64(fnv32(v.Name)))
	default:
		n.push(tagTyUnit)
	}
}

func (n *normalizer) block(b *ast.Block) {
	n.push(tagBlock, uint64(len(b.Stmts)))

	for _, s := range b.Stmts {
		n.stmt(s.Node)
	}

	if b.Tail != nil {
		n.push(tagTail)
		n.expr(b.Tail.Node)
	}
}

func (n *normalizer) stmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.Let:
		n.push(tagLet)
		n.expr(v.Value.Node)
		n.bind(v.Name)
	case *ast.Assign:
		n.push(tagAssign, uint64(n.resolve(v.Target.Base)))
		n.expr(v.Value.Node)
	case *ast.ExprStmt:
		n.push(tagExprStmt)
		n.expr(v.Value.Node)
	case *ast.Return:
		n.push(tagReturn)

		if v.Value != nil {
			n.expr(v.Value.Node)
		}
	case *ast.For:
		n.push(tagFor)
		n.bind(v.Var)
		n.block(&v.Body)
	case *ast.If:
		n.push(tagIf)
		n.expr(v.Cond.Node)
		n.block(&v.Then)

		if v.Else != nil {
			n.block(v.Else)
		}
	case *ast.Match:
		n.push(tagMatch, uint64(len(v.Arms)))
		n.expr(v.Scrutinee.Node)

		for _, arm := range v.Arms {
			n.push(tagMatchArm, arm.Literal)
			n.block(&arm.Body)
		}
	case *ast.Reveal:
		n.push(tagReveal, uint64(fnv32(v.Event)), uint64(len(v.Fields)))

		for _, f := range v.Fields {
			n.expr(f.Value.Node)
		}
	case *ast.Seal:
		n.push(tagSeal)
		n.expr(v.Value.Node)
	case *ast.Asm:
		n.push(tagAsm, uint64(fnv32(v.Lines)))
	}
}

func (n *normalizer) expr(e ast.Expr) {
	switch v := e.(type) {
	case ast.IntLit:
		n.push(tagIntLit, v.Value)
	case ast.BoolLit:
		val := uint64(0)
		if v.Value {
			val = 1
		}

		n.push(tagBoolLit, val)
	case ast.Ident:
		n.push(tagIdent, uint64(n.resolve(v.Name)))
	case *ast.Binary:
		n.push(tagBinary, uint64(v.Op))
		n.expr(v.Left.Node)
		n.expr(v.Right.Node)
	case *ast.Unary:
		n.push(tagUnary, uint64(v.Op))
		n.expr(v.Arg.Node)
	case *ast.Call:
		n.push(tagCall, uint64(fnv32(v.Path[len(v.Path)-1])), uint64(len(v.Args)))

		for _, a := range v.Args {
			n.expr(a.Node)
		}
	case *ast.Index:
		n.push(tagIndex)
		n.expr(v.Array.Node)
		n.expr(v.Index.Node)
	case *ast.FieldAccess:
		n.push(tagFieldAccess, uint64(fnv32(v.Field)))
		n.expr(v.Target.Node)
	case *ast.ArrayLit:
		n.push(tagArrayLit, uint64(len(v.Elements)))

		for _, el := range v.Elements {
			n.expr(el.Node)
		}
	case *ast.StructLit:
		n.push(tagStructLit, uint64(fnv32(v.Name)), uint64(len(v.Fields)))

		for _, f := range v.Fields {
			n.push(tagFieldInit, uint64(fnv32(f.Name)))
			n.expr(f.Value.Node)
		}
	}
}

// tag constants give every AST shape a distinct leading word so the
// normalized stream cannot confuse, say, a 2-argument Call with a Binary.
const (
	tagFn uint32 = iota + 1
	tagBlock
	tagTail
	tagLet
	tagAssign
	tagExprStmt
	tagReturn
	tagFor
	tagIf
	tagMatch
	tagMatchArm
	tagReveal
	tagSeal
	tagAsm
	tagIntLit
	tagBoolLit
	tagIdent
	tagBinary
	tagUnary
	tagCall
	tagIndex
	tagFieldAccess
	tagArrayLit
	tagStructLit
	tagFieldInit
	tagTyField
	tagTyXField
	tagTyBool
	tagTyU32
	tagTyDigest
	tagTyUnit
	tagTyArray
	tagTyTuple
	tagTyStruct
)

// fnv32 folds a name into a deterministic 32-bit tag for the normalized
// stream; collisions only weaken ContentHash's collision resistance for
// names, not for structure, and Poseidon2 is the layer actually relied upon
// for security.
func fnv32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)

	h := uint32(offset32)

	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}

	return h
}

// spongeHash absorbs a sequence of field elements through Poseidon2 in
// fixed-size blocks of spongeWidth-1, squeezing the first output element as
// the hash's big-endian 32-byte encoding.
func spongeHash(words []fr.Element) ContentHash {
	perm := poseidon2.NewPermutation(spongeWidth, 6, 21)

	var state [spongeWidth]fr.Element

	rate := spongeWidth - 1

	for i := 0; i < len(words); i += rate {
		end := i + rate
		if end > len(words) {
			end = len(words)
		}

		for j, w := range words[i:end] {
			state[j].Add(&state[j], &w)
		}

		_ = perm.Permutation(state[:])
	}

	out := state[0].Bytes()

	var h ContentHash

	copy(h[:], out[:])

	return h
}
