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

// Package lexer turns a source file's bytes into a sequence of spanned
// lexemes.  The dispatch-per-rule style is adapted from the teacher's
// pkg/asm/assembler/lexer.go, but scanning is driven by a single hand-written
// loop (rather than the combinator Lexer[T]) so that unrecognized bytes can
// be skipped with a diagnostic instead of aborting the whole file.
package lexer

import (
	"strconv"

	"github.com/trident-lang/trident/pkg/diag"
	"github.com/trident-lang/trident/pkg/source"
)

// Lexeme is one recognized token: a Kind tag plus, for literals and
// identifiers, its text.
type Lexeme struct {
	Kind Kind
	Text string
}

// Lex tokenizes the contents of the given file, returning every lexeme it
// could recognize plus any lexical diagnostics.  Unrecognized bytes are
// skipped (one at a time) and reported, rather than aborting the scan.
func Lex(files *source.Set, file source.FileID) ([]source.Spanned[Lexeme], diag.Diagnostics) {
	l := &scanner{files: files, file: file, src: files.Get(file).Contents()}

	var lexemes []source.Spanned[Lexeme]

	for {
		l.skipTrivia()

		if l.atEOF() {
			break
		}

		start := l.pos
		lx, ok := l.next()

		if ok {
			lexemes = append(lexemes, source.NewSpanned(lx, source.NewSpan(file, start, l.pos)))
			continue
		}
		// Unrecognized byte: report and skip it so lexing can continue.
		l.diags = append(l.diags, diag.New(source.NewSpan(file, start, start+1), "unrecognized byte encountered"))
		l.pos = start + 1
	}

	lexemes = append(lexemes, source.NewSpanned(Lexeme{Kind: EOF}, source.NewSpan(file, l.pos, l.pos)))

	return lexemes, l.diags
}

type scanner struct {
	files *source.Set
	file  source.FileID
	src   []byte
	pos   int
	diags diag.Diagnostics
}

func (l *scanner) atEOF() bool { return l.pos >= len(l.src) }

func (l *scanner) peek() byte {
	if l.atEOF() {
		return 0
	}

	return l.src[l.pos]
}

func (l *scanner) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}

	return l.src[l.pos+off]
}

// skipTrivia discards whitespace, line comments, and nested block comments.
func (l *scanner) skipTrivia() {
	for !l.atEOF() {
		switch {
		case isSpace(l.peek()):
			l.pos++
		case l.peek() == '/' && l.peekAt(1) == '/':
			for !l.atEOF() && l.peek() != '\n' {
				l.pos++
			}
		case l.peek() == '/' && l.peekAt(1) == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a `/* ... */` comment; nested comments are
// balanced, matching the brace-balancing already used for asm blocks.
func (l *scanner) skipBlockComment() {
	l.pos += 2

	depth := 1
	for !l.atEOF() && depth > 0 {
		switch {
		case l.peek() == '/' && l.peekAt(1) == '*':
			depth++
			l.pos += 2
		case l.peek() == '*' && l.peekAt(1) == '/':
			depth--
			l.pos += 2
		default:
			l.pos++
		}
	}
}

// next recognizes exactly one lexeme starting at the current position,
// returning (lexeme, true), or (_, false) if no rule matches.
func (l *scanner) next() (Lexeme, bool) {
	c := l.peek()

	switch {
	case isIdentStart(c):
		return l.scanIdentifier(), true
	case isDigit(c):
		return l.scanInteger(), true
	case c == '"':
		return l.scanString(), true
	case c == '#' && l.peekAt(1) == '[':
		l.pos += 2
		return Lexeme{Kind: HASH_LBRACKET}, true
	}

	if kind, n, ok := l.scanOperator(); ok {
		l.pos += n
		return Lexeme{Kind: kind}, true
	}

	return Lexeme{}, false
}

func (l *scanner) scanIdentifier() Lexeme {
	start := l.pos
	for !l.atEOF() && isIdentRest(l.peek()) {
		l.pos++
	}

	text := string(l.src[start:l.pos])
	if kind, ok := keywords[text]; ok {
		if kind == KW_ASM {
			return l.scanAsmBlockAfterKeyword(text)
		}

		return Lexeme{Kind: kind, Text: text}
	}

	return Lexeme{Kind: IDENTIFIER, Text: text}
}

// scanAsmBlockAfterKeyword consumes the `{ ... }` immediately following the
// `asm` keyword, tracking brace depth so inner braces never close the block
// early.
func (l *scanner) scanAsmBlockAfterKeyword(kw string) Lexeme {
	save := l.pos

	for !l.atEOF() && isSpace(l.peek()) {
		l.pos++
	}

	if l.peek() != '{' {
		l.pos = save
		return Lexeme{Kind: KW_ASM, Text: kw}
	}

	l.pos++

	bodyStart := l.pos

	depth := 1
	for !l.atEOF() && depth > 0 {
		switch l.peek() {
		case '{':
			depth++
		case '}':
			depth--

			if depth == 0 {
				body := string(l.src[bodyStart:l.pos])
				l.pos++

				return Lexeme{Kind: ASM_BLOCK, Text: body}
			}
		}

		l.pos++
	}

	return Lexeme{Kind: ASM_BLOCK, Text: string(l.src[bodyStart:l.pos])}
}

func (l *scanner) scanInteger() Lexeme {
	start := l.pos
	for !l.atEOF() && isDigit(l.peek()) {
		l.pos++
	}

	return Lexeme{Kind: INTEGER, Text: string(l.src[start:l.pos])}
}

func (l *scanner) scanString() Lexeme {
	l.pos++

	start := l.pos
	for !l.atEOF() && l.peek() != '"' {
		if l.peek() == '\\' {
			l.pos++
		}

		l.pos++
	}

	text := string(l.src[start:l.pos])

	if !l.atEOF() {
		l.pos++
	} else {
		l.diags = append(l.diags, diag.New(source.NewSpan(l.file, start, l.pos), "unterminated string literal"))
	}

	return Lexeme{Kind: STRING, Text: text}
}

// operator table, longest match first.
var operators = []struct {
	text string
	kind Kind
}{
	{"::", COLONCOLON}, {"->", ARROW}, {"=>", FATARROW}, {"==", EQ}, {"!=", NEQ},
	{"<=", LE}, {">=", GE}, {"&&", AND_AND}, {"||", OR_OR},
	{"(", LPAREN}, {")", RPAREN}, {"{", LBRACE}, {"}", RBRACE},
	{"[", LBRACKET}, {"]", RBRACKET}, {",", COMMA}, {":", COLON}, {";", SEMI},
	{".", DOT}, {"=", ASSIGN}, {"<", LT}, {">", GT}, {"!", NOT},
	{"+", PLUS}, {"-", MINUS}, {"*", STAR}, {"/", SLASH}, {"%", PERCENT},
}

func (l *scanner) scanOperator() (Kind, int, bool) {
	for _, op := range operators {
		n := len(op.text)
		if l.pos+n > len(l.src) {
			continue
		}

		if string(l.src[l.pos:l.pos+n]) == op.text {
			return op.kind, n, true
		}
	}

	return 0, 0, false
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentRest(c byte) bool { return isIdentStart(c) || isDigit(c) }

// ParseInteger parses the text of an INTEGER lexeme, as strconv would.
func ParseInteger(text string) (uint64, error) {
	return strconv.ParseUint(text, 10, 64)
}
