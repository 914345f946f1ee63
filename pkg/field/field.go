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

// Package field provides the runtime arithmetic backing the `Field`,
// `XField` and `Digest` types of the AST: Field wraps gnark-crypto's
// BLS12-377 scalar field element, XField is its degree-3 extension, and
// Digest is the 5-element tuple produced by the Poseidon2 sponge.
package field

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Field is a single element of the BLS12-377 scalar field, the base prime
// field Trident programs compute over.
type Field struct {
	v fr.Element
}

// Zero returns the additive identity.
func Zero() Field { return Field{} }

// One returns the multiplicative identity.
func One() Field {
	var f Field
	f.v.SetOne()

	return f
}

// FromUint64 constructs a Field element from a small integer literal.
func FromUint64(n uint64) Field {
	var f Field
	f.v.SetUint64(n)

	return f
}

// Add returns x + y.
func (x Field) Add(y Field) Field {
	var r Field
	r.v.Add(&x.v, &y.v)

	return r
}

// Sub returns x - y.
func (x Field) Sub(y Field) Field {
	var r Field
	r.v.Sub(&x.v, &y.v)

	return r
}

// Mul returns x * y.
func (x Field) Mul(y Field) Field {
	var r Field
	r.v.Mul(&x.v, &y.v)

	return r
}

// Neg returns -x.
func (x Field) Neg() Field {
	var r Field
	r.v.Neg(&x.v)

	return r
}

// Inverse returns x⁻¹, or zero if x is zero.
func (x Field) Inverse() Field {
	var r Field
	r.v.Inverse(&x.v)

	return r
}

// Div returns x / y. The caller is responsible for the "division by zero is
// a runtime failure, not a type error" rule of spec §4.4; Div itself does
// not panic on a zero divisor: Inverse maps zero to zero, so x / 0 returns
// zero, and callers must check y.IsZero() first.
func (x Field) Div(y Field) Field {
	return x.Mul(y.Inverse())
}

// IsZero reports whether x is the additive identity.
func (x Field) IsZero() bool { return x.v.IsZero() }

// Equal reports whether x and y represent the same field element.
func (x Field) Equal(y Field) bool { return x.v.Equal(&y.v) }

// Cmp returns -1/0/1 comparing the canonical integer representatives of x
// and y, used only for diagnostics and test stability, never for circuit
// semantics (the field itself is unordered).
func (x Field) Cmp(y Field) int { return x.v.Cmp(&y.v) }

// Bytes returns the big-endian canonical encoding of x.
func (x Field) Bytes() []byte {
	b := x.v.Bytes()
	return b[:]
}

// Uint64 truncates x to its low 64 bits, used by the reference interpreter
// to evaluate U32-typed array indices and loop bounds.
func (x Field) Uint64() uint64 {
	b := x.Bytes()
	n := len(b)

	var out uint64
	for i := n - 8; i < n; i++ {
		out <<= 8

		if i >= 0 {
			out |= uint64(b[i])
		}
	}

	return out
}

// SetBytes constructs a Field from a big-endian byte slice.
func SetBytes(b []byte) Field {
	var f Field
	f.v.SetBytes(b)

	return f
}

func (x Field) String() string { return x.v.String() }

// XField is the cubic extension Fp[X]/(X^3 - X - 1), matching the
// extension field used by Triton VM's random-oracle challenges. It is hand-
// rolled on top of Field rather than sourced from gnark-crypto, since
// gnark-crypto's extension towers are fixed to pairing-friendly degrees
// (2/6/12) and do not offer a degree-3 tower over BLS12-377's scalar field.
type XField struct {
	C0, C1, C2 Field
}

// XFieldFromBase lifts a base-field element into the extension as a
// constant.
func XFieldFromBase(f Field) XField {
	return XField{C0: f}
}

// Add returns x + y componentwise.
func (x XField) Add(y XField) XField {
	return XField{x.C0.Add(y.C0), x.C1.Add(y.C1), x.C2.Add(y.C2)}
}

// Sub returns x - y componentwise.
func (x XField) Sub(y XField) XField {
	return XField{x.C0.Sub(y.C0), x.C1.Sub(y.C1), x.C2.Sub(y.C2)}
}

// Mul returns x * y reduced modulo X^3 - X - 1.
func (x XField) Mul(y XField) XField {
	// (a0+a1 X+a2 X^2)(b0+b1 X+b2 X^2) mod (X^3 - X - 1), where X^3 = X + 1.
	a0, a1, a2 := x.C0, x.C1, x.C2
	b0, b1, b2 := y.C0, y.C1, y.C2

	r0 := a0.Mul(b0)
	r1 := a0.Mul(b1).Add(a1.Mul(b0))
	r2 := a0.Mul(b2).Add(a1.Mul(b1)).Add(a2.Mul(b0))
	r3 := a1.Mul(b2).Add(a2.Mul(b1))
	r4 := a2.Mul(b2)

	// Fold X^3 = X+1 and X^4 = X^2+X.
	r0 = r0.Add(r3)
	r1 = r1.Add(r3).Add(r4)
	r2 = r2.Add(r4)

	return XField{r0, r1, r2}
}

func (x XField) String() string {
	return fmt.Sprintf("%s + %s*X + %s*X^2", x.C0, x.C1, x.C2)
}

// Digest is the 5-field-element output of the Poseidon2 sponge, used as the
// result type of the `hash` intrinsic and as Trident's ContentHash's
// underlying representation before final byte encoding.
type Digest [5]Field
