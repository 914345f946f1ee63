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

// Package parser implements a recursive-descent parser with precedence
// climbing for expressions, following the lookahead/dispatch style of the
// teacher's pkg/asm/assembler.Parser: a flat token buffer, an index cursor,
// and diagnostics accumulated rather than returned early so a single run
// surfaces as many problems as possible.
package parser

import (
	"fmt"
	"strings"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/diag"
	"github.com/trident-lang/trident/pkg/lexer"
	"github.com/trident-lang/trident/pkg/source"
)

// synchronization tokens: on a syntactic mismatch, advance to the next one
// of these before resuming, per spec §4.2.
var syncKinds = map[lexer.Kind]bool{
	lexer.KW_FN:  true,
	lexer.KW_LET: true,
	lexer.RBRACE: true,
	lexer.SEMI:   true,
	lexer.EOF:    true,
}

// Parser holds the token buffer and cursor for one file.
type Parser struct {
	files   *source.Set
	file    source.FileID
	tokens  []source.Spanned[lexer.Lexeme]
	index   int
	diags   diag.Diagnostics
}

// Parse lexes and parses a single source file, returning as many
// diagnostics as the run could surface.
func Parse(files *source.Set, file source.FileID) (*ast.File, diag.Diagnostics) {
	tokens, lexDiags := lexer.Lex(files, file)
	p := &Parser{files: files, file: file, tokens: tokens, diags: lexDiags}
	f := p.parseFile()

	return f, p.diags
}

func (p *Parser) cur() source.Spanned[lexer.Lexeme] { return p.tokens[p.index] }
func (p *Parser) kind() lexer.Kind                  { return p.cur().Node.Kind }
func (p *Parser) span() source.Span                 { return p.cur().Span }

func (p *Parser) advance() source.Spanned[lexer.Lexeme] {
	t := p.tokens[p.index]
	if p.index < len(p.tokens)-1 {
		p.index++
	}

	return t
}

func (p *Parser) check(k lexer.Kind) bool { return p.kind() == k }

func (p *Parser) match(k lexer.Kind) (source.Spanned[lexer.Lexeme], bool) {
	if p.check(k) {
		return p.advance(), true
	}

	return source.Spanned[lexer.Lexeme]{}, false
}

// expect consumes a token of the given kind, or records a diagnostic naming
// the valid tokens at this point and returns ok=false without advancing
// past the offending token (the caller is expected to synchronize).
func (p *Parser) expect(k lexer.Kind) (source.Spanned[lexer.Lexeme], bool) {
	if tok, ok := p.match(k); ok {
		return tok, true
	}

	p.errorf(p.span(), fmt.Sprintf("unexpected token %q", p.kind()), fmt.Sprintf("expected %q here", k))

	return source.Spanned[lexer.Lexeme]{}, false
}

func (p *Parser) errorf(span source.Span, msg, help string) {
	p.diags = append(p.diags, diag.New(span, msg).WithHelp(help))
}

func (p *Parser) warnf(span source.Span, msg, help string) {
	p.diags = append(p.diags, diag.Warn(span, msg).WithHelp(help))
}

// synchronize advances until a synchronization token is reached, so a
// single parse run can surface more than one diagnostic.
func (p *Parser) synchronize() {
	for !syncKinds[p.kind()] {
		p.advance()
	}
}

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{}
	f.Header = p.parseHeader()

	for !p.check(lexer.EOF) {
		start := p.index
		item, span, ok := p.parseItem()

		if ok {
			f.Items = append(f.Items, source.NewSpanned[ast.Item](item, span))
		}

		if p.index == start {
			// Guarantee forward progress even on pathological input.
			p.synchronize()
			if p.index == start {
				p.advance()
			}
		}
	}

	return f
}

func (p *Parser) parseHeader() ast.Header {
	switch p.kind() {
	case lexer.KW_PROGRAM:
		p.advance()

		name := p.parseIdentText()

		return ast.Header{Kind: ast.ProgramHeader, Name: name}
	case lexer.KW_MODULE:
		p.advance()

		name := p.parseIdentText()

		return ast.Header{Kind: ast.ModuleHeader, Name: name}
	default:
		p.errorf(p.span(), "expected a `program` or `module` header", "every file starts with `program NAME` or `module NAME`")
		return ast.Header{}
	}
}

func (p *Parser) parseIdentText() string {
	tok, ok := p.expect(lexer.IDENTIFIER)
	if !ok {
		return ""
	}

	return tok.Node.Text
}

// parseItem parses one top-level item: an (optionally attributed) fn,
// struct, event, const, or use declaration.
func (p *Parser) parseItem() (ast.Item, source.Span, bool) {
	start := p.span()
	attrs, isTest, isPure := p.parseAttrs()

	vis := ast.Private
	if _, ok := p.match(lexer.KW_PUB); ok {
		vis = ast.Public
	}

	switch p.kind() {
	case lexer.KW_FN:
		fn := p.parseFn(vis, attrs, isTest, isPure)
		return fn, start.Merge(p.prevSpan()), fn != nil
	case lexer.KW_STRUCT:
		s := p.parseStruct(vis)
		return s, start.Merge(p.prevSpan()), s != nil
	case lexer.KW_EVENT:
		e := p.parseEvent(vis)
		return e, start.Merge(p.prevSpan()), e != nil
	case lexer.KW_CONST:
		c := p.parseConst(vis)
		return c, start.Merge(p.prevSpan()), c != nil
	case lexer.KW_USE:
		u := p.parseUse()
		return u, start.Merge(p.prevSpan()), u != nil
	default:
		p.errorf(p.span(), fmt.Sprintf("unexpected token %q at top level", p.kind()),
			"expected one of `fn`, `struct`, `event`, `const`, `use`")

		return nil, start, false
	}
}

func (p *Parser) prevSpan() source.Span {
	i := p.index
	if i > 0 {
		i--
	}

	return p.tokens[i].Span
}

// parseAttrs consumes zero or more `#[...]` attributes preceding an item,
// returning the spec attributes plus whether `test`/`pure` markers were
// present among them.  Unknown attribute names produce a warning but do not
// stop parsing.
func (p *Parser) parseAttrs() (attr ast.Attr, isTest bool, isPure bool) {
	for p.check(lexer.HASH_LBRACKET) {
		start := p.span()

		p.advance()

		name := p.parseIdentText()

		switch name {
		case "test":
			isTest = true
		case "pure":
			isPure = true
		case "requires", "ensures":
			p.expect(lexer.LPAREN)

			e := p.parseExpr(false)

			p.expect(lexer.RPAREN)

			if name == "requires" {
				attr.Requires = append(attr.Requires, e)
			} else {
				attr.Ensures = append(attr.Ensures, e)
			}
		case "cfg":
			p.expect(lexer.LPAREN)

			flag := p.parseIdentText()

			p.expect(lexer.RPAREN)
			attr.CfgFlags = append(attr.CfgFlags, flag)
		default:
			p.warnf(start.Merge(p.span()), fmt.Sprintf("unknown attribute `%s`", name), "recognized attributes are test, pure, requires, ensures, cfg")
		}

		p.expect(lexer.RBRACKET)
	}

	return attr, isTest, isPure
}

func (p *Parser) parseFn(vis ast.Visibility, attrs ast.Attr, isTest bool, isPure bool) *ast.FnDef {
	p.advance() // `fn`

	fn := &ast.FnDef{Visibility: vis, Attrs: attrs, IsTest: isTest, IsPure: isPure}
	fn.Name = p.parseIdentText()

	if _, ok := p.match(lexer.LT); ok {
		for !p.check(lexer.GT) && !p.check(lexer.EOF) {
			fn.TypeParams = append(fn.TypeParams, p.parseIdentText())

			if _, ok := p.match(lexer.COMMA); !ok {
				break
			}
		}

		p.expect(lexer.GT)
	}

	p.expect(lexer.LPAREN)

	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		name := p.parseIdentText()
		p.expect(lexer.COLON)
		ty := p.parseType()
		fn.Params = append(fn.Params, ast.Param{Name: name, Type: ty})

		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}

	p.expect(lexer.RPAREN)

	if _, ok := p.match(lexer.ARROW); ok {
		fn.ReturnType = p.parseType()
	}

	if p.check(lexer.LBRACE) {
		body := p.parseBlock()
		fn.Body = &body
	} else {
		p.expect(lexer.SEMI)
	}

	return fn
}

func (p *Parser) parseStruct(vis ast.Visibility) *ast.StructDef {
	p.advance() // `struct`

	s := &ast.StructDef{Visibility: vis}
	s.Name = p.parseIdentText()

	p.expect(lexer.LBRACE)

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		name := p.parseIdentText()
		p.expect(lexer.COLON)
		ty := p.parseType()
		s.Fields = append(s.Fields, ast.StructField{Name: name, Type: ty})

		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}

	p.expect(lexer.RBRACE)

	return s
}

func (p *Parser) parseEvent(vis ast.Visibility) *ast.EventDef {
	p.advance() // `event`

	e := &ast.EventDef{Visibility: vis}
	e.Name = p.parseIdentText()

	p.expect(lexer.LBRACE)

	seen := map[string]bool{}

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		start := p.span()
		name := p.parseIdentText()

		if seen[name] {
			p.errorf(start, fmt.Sprintf("duplicate event field `%s`", name), "event fields must have unique names")
		}

		seen[name] = true

		p.expect(lexer.COLON)

		ty := p.parseType()
		e.Fields = append(e.Fields, ast.EventField{Name: name, Type: ty})

		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}

	p.expect(lexer.RBRACE)

	return e
}

func (p *Parser) parseConst(vis ast.Visibility) *ast.ConstDef {
	p.advance() // `const`

	c := &ast.ConstDef{Visibility: vis}
	c.Name = p.parseIdentText()

	if _, ok := p.match(lexer.COLON); ok {
		c.Type = p.parseType()
	}

	p.expect(lexer.ASSIGN)

	c.Value = p.parseExpr(false)

	p.expect(lexer.SEMI)

	return c
}

func (p *Parser) parseUse() *ast.UseDecl {
	p.advance() // `use`

	var parts []string

	parts = append(parts, p.parseIdentText())

	for {
		if _, ok := p.match(lexer.DOT); ok {
			parts = append(parts, p.parseIdentText())
			continue
		}

		break
	}

	p.expect(lexer.SEMI)

	return &ast.UseDecl{DottedName: strings.Join(parts, ".")}
}

// parseType parses a type expression: scalar tags, `[T; size]`, `(T, ...)`,
// or a Named path.
func (p *Parser) parseType() ast.Ty {
	switch p.kind() {
	case lexer.TY_FIELD:
		p.advance()
		return ast.Field{}
	case lexer.TY_XFIELD:
		p.advance()
		return ast.XField{}
	case lexer.TY_BOOL:
		p.advance()
		return ast.Bool{}
	case lexer.TY_U32:
		p.advance()
		return ast.U32{}
	case lexer.TY_DIGEST:
		p.advance()
		return ast.Digest{}
	case lexer.LBRACKET:
		p.advance()

		elem := p.parseType()

		p.expect(lexer.SEMI)

		size := p.parseArraySize()

		p.expect(lexer.RBRACKET)

		return &ast.Array{Element: elem, Size: size}
	case lexer.LPAREN:
		p.advance()

		var elems []ast.Ty

		for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
			elems = append(elems, p.parseType())

			if _, ok := p.match(lexer.COMMA); !ok {
				break
			}
		}

		p.expect(lexer.RPAREN)

		return &ast.Tuple{Elements: elems}
	case lexer.IDENTIFIER:
		var parts []string

		parts = append(parts, p.parseIdentText())

		for {
			if _, ok := p.match(lexer.DOT); ok {
				parts = append(parts, p.parseIdentText())
				continue
			}

			break
		}

		return &ast.Named{Path: parts}
	default:
		p.errorf(p.span(), fmt.Sprintf("expected a type, found %q", p.kind()), "valid types are Field, XField, Bool, U32, Digest, [T; n], (T, ...), or a named type")
		return ast.Unit{}
	}
}

// parseArraySize parses a compile-time size expression: `+` binds looser
// than `*`, and parenthesised grouping is allowed.
func (p *Parser) parseArraySize() ast.ArraySize {
	return p.parseArraySizeAdd()
}

func (p *Parser) parseArraySizeAdd() ast.ArraySize {
	left := p.parseArraySizeMul()

	for p.check(lexer.PLUS) {
		p.advance()

		right := p.parseArraySizeMul()
		left = &ast.SizeAdd{Left: left, Right: right}
	}

	return left
}

func (p *Parser) parseArraySizeMul() ast.ArraySize {
	left := p.parseArraySizeAtom()

	for p.check(lexer.STAR) {
		p.advance()

		right := p.parseArraySizeAtom()
		left = &ast.SizeMul{Left: left, Right: right}
	}

	return left
}

func (p *Parser) parseArraySizeAtom() ast.ArraySize {
	switch p.kind() {
	case lexer.INTEGER:
		tok := p.advance()
		v, _ := lexer.ParseInteger(tok.Node.Text)

		return ast.SizeLiteral{Value: v}
	case lexer.IDENTIFIER:
		tok := p.advance()
		return ast.SizeParam{Name: tok.Node.Text}
	case lexer.LPAREN:
		p.advance()

		inner := p.parseArraySize()

		p.expect(lexer.RPAREN)

		return inner
	default:
		p.errorf(p.span(), fmt.Sprintf("expected an array size, found %q", p.kind()), "array sizes are integer literals, parameter names, `+`, or `*`")
		return ast.SizeLiteral{Value: 0}
	}
}
