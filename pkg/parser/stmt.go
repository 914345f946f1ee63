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
package parser

import (
	"fmt"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/lexer"
	"github.com/trident-lang/trident/pkg/source"
)

// parseBlock parses `{ stmt* tail? }`.  A final expression statement with no
// trailing `;` becomes the block's tail expression.
func (p *Parser) parseBlock() ast.Block {
	p.expect(lexer.LBRACE)

	var block ast.Block

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		start := p.index
		stmt, span, tail, isTail := p.parseStmt()

		if isTail {
			block.Tail = &source.Spanned[ast.Expr]{Node: tail, Span: span}
			break
		}

		if stmt != nil {
			block.Stmts = append(block.Stmts, source.NewSpanned[ast.Stmt](stmt, span))
		}

		if p.index == start {
			p.synchronize()
			if p.index == start {
				p.advance()
			}
		}
	}

	p.expect(lexer.RBRACE)

	return block
}

// parseStmt parses one statement.  If the parsed construct turns out to be
// a trailing expression (no `;`, immediately followed by `}`), it is
// returned as the block's tail instead via isTail.
func (p *Parser) parseStmt() (stmt ast.Stmt, span source.Span, tail ast.Expr, isTail bool) {
	start := p.span()

	switch p.kind() {
	case lexer.KW_LET:
		return p.parseLet(), start.Merge(p.prevSpan()), nil, false
	case lexer.KW_RETURN:
		return p.parseReturn(), start.Merge(p.prevSpan()), nil, false
	case lexer.KW_FOR:
		return p.parseFor(), start.Merge(p.prevSpan()), nil, false
	case lexer.KW_IF:
		s := p.parseIf()
		return p.finishExprStmt(s, start)
	case lexer.KW_MATCH:
		s := p.parseMatch()
		return p.finishExprStmt(s, start)
	case lexer.IDENTIFIER:
		if p.isReveal() {
			return p.parseReveal(), start.Merge(p.prevSpan()), nil, false
		}

		if p.isSeal() {
			return p.parseSeal(), start.Merge(p.prevSpan()), nil, false
		}

		return p.parseExprOrAssign(start)
	case lexer.ASM_BLOCK, lexer.KW_ASM:
		return p.parseAsm(), start.Merge(p.prevSpan()), nil, false
	default:
		return p.parseExprOrAssign(start)
	}
}

// finishExprStmt returns an `if`/`match` as an ordinary statement with its
// merged span. It never produces a tail expression, even when the `if`/
// `match` ends the block.
func (p *Parser) finishExprStmt(e ast.Stmt, start source.Span) (ast.Stmt, source.Span, ast.Expr, bool) {
	return e, start.Merge(p.prevSpan()), nil, false
}

func (p *Parser) isReveal() bool {
	return p.cur().Node.Text == "reveal"
}

func (p *Parser) isSeal() bool {
	return p.cur().Node.Text == "seal"
}

func (p *Parser) parseLet() ast.Stmt {
	p.advance() // `let`
	p.match(lexer.KW_MUT)

	name := p.parseIdentText()

	var ty ast.Ty

	if _, ok := p.match(lexer.COLON); ok {
		ty = p.parseType()
	}

	p.expect(lexer.ASSIGN)

	val := p.parseExpr(false)

	p.expect(lexer.SEMI)

	return &ast.Let{Name: name, Type: ty, Value: val}
}

func (p *Parser) parseReturn() ast.Stmt {
	p.advance() // `return`

	if _, ok := p.match(lexer.SEMI); ok {
		return &ast.Return{}
	}

	val := p.parseExpr(false)

	p.expect(lexer.SEMI)

	return &ast.Return{Value: &val}
}

func (p *Parser) parseFor() ast.Stmt {
	p.advance() // `for`

	name := p.parseIdentText()

	p.expect(lexer.KW_IN)
	p.expect(lexer.INTEGER) // `0`, the only supported range start (`0..bound`)
	p.expect(lexer.DOT)
	p.expect(lexer.DOT)

	bound := p.parseArraySize()
	body := p.parseBlock()

	return &ast.For{Var: name, Bound: bound, Body: body}
}

func (p *Parser) parseIf() ast.Stmt {
	p.advance() // `if`

	cond := p.parseExpr(true)
	then := p.parseBlock()

	var elseBlock *ast.Block

	if _, ok := p.match(lexer.KW_ELSE); ok {
		if p.check(lexer.KW_IF) {
			inner := p.parseIf().(*ast.If)
			wrapped := ast.Block{Stmts: []source.Spanned[ast.Stmt]{source.NewSpanned[ast.Stmt](inner, p.prevSpan())}}
			elseBlock = &wrapped
		} else {
			b := p.parseBlock()
			elseBlock = &b
		}
	}

	return &ast.If{Cond: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseMatch() ast.Stmt {
	p.advance() // `match`

	scrutinee := p.parseExpr(true)

	p.expect(lexer.LBRACE)

	m := &ast.Match{Scrutinee: scrutinee}

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		arm := ast.MatchArm{}

		if p.cur().Node.Text == "_" && p.check(lexer.IDENTIFIER) {
			p.advance()

			arm.Default = true
		} else {
			tok, ok := p.expect(lexer.INTEGER)
			if ok {
				arm.Literal, _ = lexer.ParseInteger(tok.Node.Text)
			}
		}

		p.expect(lexer.FATARROW)

		arm.Body = p.parseBlock()
		m.Arms = append(m.Arms, arm)

		p.match(lexer.COMMA)
	}

	p.expect(lexer.RBRACE)

	return m
}

func (p *Parser) parseReveal() ast.Stmt {
	p.advance() // `reveal`

	name := p.parseIdentText()

	p.expect(lexer.LBRACE)

	r := &ast.Reveal{Event: name}

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		fname := p.parseIdentText()

		p.expect(lexer.COLON)

		val := p.parseExpr(false)
		r.Fields = append(r.Fields, ast.StructFieldInit{Name: fname, Value: val})

		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}

	p.expect(lexer.RBRACE)
	p.expect(lexer.SEMI)

	return r
}

func (p *Parser) parseSeal() ast.Stmt {
	p.advance() // `seal`

	val := p.parseExpr(false)

	p.expect(lexer.SEMI)

	return &ast.Seal{Value: val}
}

func (p *Parser) parseAsm() ast.Stmt {
	tok, ok := p.expect(lexer.ASM_BLOCK)
	if !ok {
		return &ast.Asm{}
	}

	return &ast.Asm{Lines: tok.Node.Text}
}

// parseExprOrAssign parses an expression and, if followed by `=`, converts
// it into an Assign statement; otherwise it is an ExprStmt, unless it is the
// final construct in a block with no trailing `;`, in which case the caller
// treats it as the block's tail.
func (p *Parser) parseExprOrAssign(start source.Span) (ast.Stmt, source.Span, ast.Expr, bool) {
	e := p.parseExpr(false)

	if _, ok := p.match(lexer.ASSIGN); ok {
		place, ok := toPlace(e.Node)
		if !ok {
			p.errorf(e.Span, "invalid assignment target", "assignment targets must be a variable, field access, or array index")
		}

		val := p.parseExpr(false)

		p.expect(lexer.SEMI)

		return &ast.Assign{Target: place, Value: val}, start.Merge(p.prevSpan()), nil, false
	}

	if _, ok := p.match(lexer.SEMI); ok {
		return &ast.ExprStmt{Value: e}, start.Merge(p.prevSpan()), nil, false
	}

	if p.check(lexer.RBRACE) {
		return nil, e.Span, e.Node, true
	}

	p.errorf(p.span(), fmt.Sprintf("expected `;`, found %q", p.kind()), "statements must end with `;`")

	return &ast.ExprStmt{Value: e}, start.Merge(p.prevSpan()), nil, false
}

// toPlace converts an lvalue expression into an ast.Place, walking the
// Field/Index chain from the base outward.
func toPlace(e ast.Expr) (ast.Place, bool) {
	switch v := e.(type) {
	case ast.Ident:
		return ast.Place{Base: v.Name}, true
	case *ast.FieldAccess:
		inner, ok := toPlace(v.Target.Node)
		if !ok {
			return ast.Place{}, false
		}

		inner.Indices = append(inner.Indices, ast.PlaceIndex{Field: v.Field})

		return inner, true
	case *ast.Index:
		inner, ok := toPlace(v.Array.Node)
		if !ok {
			return ast.Place{}, false
		}

		idx := v.Index
		inner.Indices = append(inner.Indices, ast.PlaceIndex{Index: &idx})

		return inner, true
	default:
		return ast.Place{}, false
	}
}
