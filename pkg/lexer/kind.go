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

// Kind tags a Lexeme with its lexical category.  Grounded on the flat
// constant-table style of pkg/asm/assembler/lexer.go, extended with the
// keyword/type-tag/literal categories the source language needs.
type Kind uint

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota
	// IDENTIFIER is a bare name.
	IDENTIFIER
	// INTEGER is an unsigned integer literal.
	INTEGER
	// BOOL is a `true`/`false` literal.
	BOOL
	// STRING is a double-quoted string literal.
	STRING
	// ASM_BLOCK is the opaque text inside an `asm { ... }` block.
	ASM_BLOCK

	// keywords
	KW_FN
	KW_LET
	KW_MUT
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_MATCH
	KW_FOR
	KW_IN
	KW_STRUCT
	KW_EVENT
	KW_USE
	KW_PROGRAM
	KW_MODULE
	KW_PUB
	KW_CONST
	KW_ASM

	// type tags
	TY_FIELD
	TY_XFIELD
	TY_BOOL
	TY_U32
	TY_DIGEST

	// punctuation and operators
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	COLONCOLON
	SEMI
	DOT
	ARROW
	FATARROW
	HASH_LBRACKET // `#[`
	ASSIGN
	EQ
	NEQ
	LT
	LE
	GT
	GE
	AND_AND
	OR_OR
	NOT
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
)

// String names a Kind for diagnostics and tests.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "<unknown>"
}

var kindNames = map[Kind]string{
	EOF:           "eof",
	IDENTIFIER:    "identifier",
	INTEGER:       "integer",
	BOOL:          "bool",
	STRING:        "string",
	ASM_BLOCK:     "asm-block",
	KW_FN:         "fn",
	KW_LET:        "let",
	KW_MUT:        "mut",
	KW_RETURN:     "return",
	KW_IF:         "if",
	KW_ELSE:       "else",
	KW_MATCH:      "match",
	KW_FOR:        "for",
	KW_IN:         "in",
	KW_STRUCT:     "struct",
	KW_EVENT:      "event",
	KW_USE:        "use",
	KW_PROGRAM:    "program",
	KW_MODULE:     "module",
	KW_PUB:        "pub",
	KW_CONST:      "const",
	KW_ASM:        "asm",
	TY_FIELD:      "Field",
	TY_XFIELD:     "XField",
	TY_BOOL:       "Bool",
	TY_U32:        "U32",
	TY_DIGEST:     "Digest",
	LPAREN:        "(",
	RPAREN:        ")",
	LBRACE:        "{",
	RBRACE:        "}",
	LBRACKET:      "[",
	RBRACKET:      "]",
	COMMA:         ",",
	COLON:         ":",
	COLONCOLON:    "::",
	SEMI:          ";",
	DOT:           ".",
	ARROW:         "->",
	FATARROW:      "=>",
	HASH_LBRACKET: "#[",
	ASSIGN:        "=",
	EQ:            "==",
	NEQ:           "!=",
	LT:            "<",
	LE:            "<=",
	GT:            ">",
	GE:            ">=",
	AND_AND:       "&&",
	OR_OR:         "||",
	NOT:           "!",
	PLUS:          "+",
	MINUS:         "-",
	STAR:          "*",
	SLASH:         "/",
	PERCENT:       "%",
}

var keywords = map[string]Kind{
	"fn":      KW_FN,
	"let":     KW_LET,
	"mut":     KW_MUT,
	"return":  KW_RETURN,
	"if":      KW_IF,
	"else":    KW_ELSE,
	"match":   KW_MATCH,
	"for":     KW_FOR,
	"in":      KW_IN,
	"struct":  KW_STRUCT,
	"event":   KW_EVENT,
	"use":     KW_USE,
	"program": KW_PROGRAM,
	"module":  KW_MODULE,
	"pub":     KW_PUB,
	"const":   KW_CONST,
	"asm":     KW_ASM,
	"true":    BOOL,
	"false":   BOOL,
	"Field":   TY_FIELD,
	"XField":  TY_XFIELD,
	"Bool":    TY_BOOL,
	"U32":     TY_U32,
	"Digest":  TY_DIGEST,
}
