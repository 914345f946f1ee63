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
package format

import (
	"testing"

	"github.com/trident-lang/trident/pkg/parser"
	"github.com/trident-lang/trident/pkg/source"
)

func formatSource(t *testing.T, src string) string {
	t.Helper()

	set := source.NewSet()
	id := set.Add("t.tri", []byte(src))

	f, diags := parser.Parse(set, id)
	if diags.HasErrors() {
		t.Fatalf("Parse(%q) produced errors: %v", src, diags)
	}

	return Format(f)
}

// Format idempotence: formatting already-formatted source reproduces it
// exactly, for every construct the printer emits.
func Test_Format_Idempotence(t *testing.T) {
	sources := []string{
		"program test\nfn main(){ pub_write(pub_read()) }",
		"program test\nstruct Pt { x: Field, y: Field }\nfn main(){ let a:Pt=Pt{x:1,y:2}; pub_write(a.x) }",
		"program test\nfn main(){ let mut i: U32 = 0; for i in 0..4 { i = i + 1; } }",
		"program test\nevent Transfer { amount: Field }\nfn main(){ reveal Transfer { amount: 1 }; }",
		"program test\nfn main(){ let d: Field = 1; let h: Digest = hash(d, 2); seal h; }",
		"program test\nconst N: Field = 3;\nfn main(){ if N == 3 { pub_write(1) } else { pub_write(0) } }",
	}

	for _, src := range sources {
		once := formatSource(t, src)
		twice := formatSource(t, once)

		if once != twice {
			t.Errorf("format not idempotent for %q:\nonce:\n%s\ntwice:\n%s", src, once, twice)
		}
	}
}
