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
package lexer

import (
	"testing"

	"github.com/trident-lang/trident/pkg/source"
)

// lexKinds lexes src and returns the Kind sequence, dropping the trailing EOF.
func lexKinds(t *testing.T, src string) []Kind {
	t.Helper()

	set := source.NewSet()
	id := set.Add("t.tri", []byte(src))

	lexemes, diags := Lex(set, id)
	if diags.HasErrors() {
		t.Fatalf("Lex(%q) produced errors: %v", src, diags)
	}

	kinds := make([]Kind, 0, len(lexemes))
	for _, lx := range lexemes {
		kinds = append(kinds, lx.Node.Kind)
	}

	return kinds
}

func assertKinds(t *testing.T, src string, want ...Kind) {
	t.Helper()

	want = append(want, EOF)
	got := lexKinds(t, src)

	if len(got) != len(want) {
		t.Fatalf("Lex(%q) = %v, want %v", src, got, want)
	}

	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Lex(%q)[%d] = %q, want %q", src, i, got[i], want[i])
		}
	}
}

func Test_Lex_Identifiers(t *testing.T) {
	assertKinds(t, "foo bar_2 _x", IDENTIFIER, IDENTIFIER, IDENTIFIER)
}

func Test_Lex_Keywords(t *testing.T) {
	assertKinds(t, "fn let mut return if else match for in struct event use program module pub const",
		KW_FN, KW_LET, KW_MUT, KW_RETURN, KW_IF, KW_ELSE, KW_MATCH, KW_FOR, KW_IN,
		KW_STRUCT, KW_EVENT, KW_USE, KW_PROGRAM, KW_MODULE, KW_PUB, KW_CONST)
}

func Test_Lex_TypeTags(t *testing.T) {
	assertKinds(t, "Field XField Bool U32 Digest", TY_FIELD, TY_XFIELD, TY_BOOL, TY_U32, TY_DIGEST)
}

func Test_Lex_BoolLiterals(t *testing.T) {
	assertKinds(t, "true false", BOOL, BOOL)
}

func Test_Lex_Integer(t *testing.T) {
	set := source.NewSet()
	id := set.Add("t.tri", []byte("12345"))

	lexemes, diags := Lex(set, id)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if lexemes[0].Node.Kind != INTEGER || lexemes[0].Node.Text != "12345" {
		t.Fatalf("got %+v, want INTEGER 12345", lexemes[0].Node)
	}

	v, err := ParseInteger(lexemes[0].Node.Text)
	if err != nil {
		t.Fatalf("ParseInteger: %v", err)
	}

	if v != 12345 {
		t.Errorf("ParseInteger() = %d, want 12345", v)
	}
}

func Test_Lex_String(t *testing.T) {
	set := source.NewSet()
	id := set.Add("t.tri", []byte(`"hello world"`))

	lexemes, diags := Lex(set, id)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if lexemes[0].Node.Kind != STRING {
		t.Fatalf("Kind = %v, want STRING", lexemes[0].Node.Kind)
	}

	if lexemes[0].Node.Text != "hello world" {
		t.Errorf("Text = %q, want %q", lexemes[0].Node.Text, "hello world")
	}
}

func Test_Lex_UnterminatedString(t *testing.T) {
	set := source.NewSet()
	id := set.Add("t.tri", []byte(`"oops`))

	_, diags := Lex(set, id)
	if !diags.HasErrors() {
		t.Fatalf("expected an unterminated-string diagnostic")
	}
}

func Test_Lex_Operators(t *testing.T) {
	assertKinds(t, ":: -> => == != <= >= && ||",
		COLONCOLON, ARROW, FATARROW, EQ, NEQ, LE, GE, AND_AND, OR_OR)
	assertKinds(t, "( ) { } [ ] , : ; . = < > ! + - * / %",
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, COMMA, COLON, SEMI,
		DOT, ASSIGN, LT, GT, NOT, PLUS, MINUS, STAR, SLASH, PERCENT)
}

func Test_Lex_HashBracket(t *testing.T) {
	assertKinds(t, "#[test]", HASH_LBRACKET, IDENTIFIER, RBRACKET)
}

func Test_Lex_LineComment(t *testing.T) {
	assertKinds(t, "let // this is a comment\nx", KW_LET, IDENTIFIER)
}

func Test_Lex_BlockComment(t *testing.T) {
	assertKinds(t, "let /* a /* nested */ comment */ x", KW_LET, IDENTIFIER)
}

func Test_Lex_AsmBlock(t *testing.T) {
	set := source.NewSet()
	id := set.Add("t.tri", []byte("asm { push 1 { nested } pop }"))

	lexemes, diags := Lex(set, id)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if lexemes[0].Node.Kind != ASM_BLOCK {
		t.Fatalf("Kind = %v, want ASM_BLOCK", lexemes[0].Node.Kind)
	}

	want := " push 1 { nested } pop "
	if lexemes[0].Node.Text != want {
		t.Errorf("Text = %q, want %q", lexemes[0].Node.Text, want)
	}
}

func Test_Lex_AsmKeywordWithoutBrace(t *testing.T) {
	// `asm` not followed by `{` is just the bare keyword, e.g. as a field name.
	assertKinds(t, "asm x", KW_ASM, IDENTIFIER)
}

func Test_Lex_UnrecognizedByte(t *testing.T) {
	set := source.NewSet()
	id := set.Add("t.tri", []byte("let @ x"))

	lexemes, diags := Lex(set, id)
	if !diags.HasErrors() {
		t.Fatalf("expected a diagnostic for the unrecognized byte")
	}

	var kinds []Kind
	for _, lx := range lexemes {
		kinds = append(kinds, lx.Node.Kind)
	}

	want := []Kind{KW_LET, IDENTIFIER, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}

	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func Test_Lex_Spans(t *testing.T) {
	set := source.NewSet()
	id := set.Add("t.tri", []byte("foo"))

	lexemes, diags := Lex(set, id)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	span := lexemes[0].Span
	if span.Start != 0 || span.End != 3 {
		t.Errorf("span = {%d,%d}, want {0,3}", span.Start, span.End)
	}
}
