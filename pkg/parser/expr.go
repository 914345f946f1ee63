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
	"strings"

	"github.com/trident-lang/trident/pkg/ast"
	"github.com/trident-lang/trident/pkg/lexer"
	"github.com/trident-lang/trident/pkg/source"
)

// precedence levels, lowest to highest; `||` binds loosest, postfix
// (call/index/field) binds tightest.
var binPrec = map[lexer.Kind]int{
	lexer.OR_OR:  1,
	lexer.AND_AND: 2,
	lexer.EQ:     3,
	lexer.NEQ:    3,
	lexer.LT:     4,
	lexer.LE:     4,
	lexer.GT:     4,
	lexer.GE:     4,
	lexer.PLUS:   5,
	lexer.MINUS:  5,
	lexer.STAR:   6,
	lexer.SLASH:  6,
	lexer.PERCENT: 6,
}

var binOpOf = map[lexer.Kind]ast.BinOp{
	lexer.OR_OR:  ast.OpOr,
	lexer.AND_AND: ast.OpAnd,
	lexer.EQ:     ast.OpEq,
	lexer.NEQ:    ast.OpNeq,
	lexer.LT:     ast.OpLt,
	lexer.LE:     ast.OpLe,
	lexer.GT:     ast.OpLt, // `a > b` parses as `b < a`
	lexer.GE:     ast.OpLe, // `a >= b` parses as `b <= a`
	lexer.PLUS:   ast.OpAdd,
	lexer.MINUS:  ast.OpSub,
	lexer.STAR:   ast.OpMul,
	lexer.SLASH:  ast.OpDiv,
}

// parseExpr parses an expression with full precedence climbing.  When
// noStructLit is true, a bare `Name {` is not treated as a struct literal --
// used while parsing the condition of `if`/`for`/`match` so the opening
// brace is unambiguously the body.
func (p *Parser) parseExpr(noStructLit bool) source.Spanned[ast.Expr] {
	return p.parseBinary(1, noStructLit)
}

func (p *Parser) parseBinary(minPrec int, noStructLit bool) source.Spanned[ast.Expr] {
	left := p.parseUnary(noStructLit)

	for {
		prec, ok := binPrec[p.kind()]
		if !ok || prec < minPrec {
			return left
		}

		// `>`/`>=` are implemented by swapping operands around `<`/`<=`,
		// since the typed AST only needs one direction (spec §4.4: `<`/`<=`
		// require U32 on both forms).
		swap := p.kind() == lexer.GT || p.kind() == lexer.GE
		op := binOpOf[p.kind()]
		p.advance()

		right := p.parseBinary(prec+1, noStructLit)

		var node ast.Expr
		if swap {
			node = &ast.Binary{Op: op, Left: right, Right: left}
		} else {
			node = &ast.Binary{Op: op, Left: left, Right: right}
		}

		left = source.NewSpanned[ast.Expr](node, left.Span.Merge(right.Span))
	}
}

func (p *Parser) parseUnary(noStructLit bool) source.Spanned[ast.Expr] {
	switch p.kind() {
	case lexer.MINUS:
		start := p.span()
		p.advance()

		arg := p.parseUnary(noStructLit)

		return source.NewSpanned[ast.Expr](&ast.Unary{Op: ast.OpNeg, Arg: arg}, start.Merge(arg.Span))
	case lexer.NOT:
		start := p.span()
		p.advance()

		arg := p.parseUnary(noStructLit)

		return source.NewSpanned[ast.Expr](&ast.Unary{Op: ast.OpNot, Arg: arg}, start.Merge(arg.Span))
	default:
		return p.parsePostfix(noStructLit)
	}
}

func (p *Parser) parsePostfix(noStructLit bool) source.Spanned[ast.Expr] {
	expr := p.parsePrimary(noStructLit)

	for {
		switch p.kind() {
		case lexer.DOT:
			p.advance()

			name := p.parseIdentText()
			expr = source.NewSpanned[ast.Expr](&ast.FieldAccess{Target: expr, Field: name}, expr.Span.Merge(p.prevSpan()))
		case lexer.LBRACKET:
			p.advance()

			idx := p.parseExpr(false)

			p.expect(lexer.RBRACKET)
			expr = source.NewSpanned[ast.Expr](&ast.Index{Array: expr, Index: idx}, expr.Span.Merge(p.prevSpan()))
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary(noStructLit bool) source.Spanned[ast.Expr] {
	start := p.span()

	switch p.kind() {
	case lexer.INTEGER:
		tok := p.advance()
		v, _ := lexer.ParseInteger(tok.Node.Text)

		return source.NewSpanned[ast.Expr](ast.IntLit{Value: v}, start)
	case lexer.BOOL:
		tok := p.advance()
		return source.NewSpanned[ast.Expr](ast.BoolLit{Value: tok.Node.Text == "true"}, start)
	case lexer.LPAREN:
		p.advance()

		e := p.parseExpr(false)

		p.expect(lexer.RPAREN)

		return e
	case lexer.LBRACKET:
		p.advance()

		var elems []source.Spanned[ast.Expr]

		for !p.check(lexer.RBRACKET) && !p.check(lexer.EOF) {
			elems = append(elems, p.parseExpr(false))

			if _, ok := p.match(lexer.COMMA); !ok {
				break
			}
		}

		p.expect(lexer.RBRACKET)

		return source.NewSpanned[ast.Expr](&ast.ArrayLit{Elements: elems}, start.Merge(p.prevSpan()))
	case lexer.IDENTIFIER:
		return p.parseIdentOrCallOrStruct(noStructLit)
	default:
		p.errorf(p.span(), fmt.Sprintf("expected an expression, found %q", p.kind()), "valid tokens here: a literal, identifier, `(`, `[`, `!`, or `-`")

		return source.NewSpanned[ast.Expr](ast.IntLit{Value: 0}, start)
	}
}

func (p *Parser) parseIdentOrCallOrStruct(noStructLit bool) source.Spanned[ast.Expr] {
	start := p.span()

	var parts []string

	parts = append(parts, p.parseIdentText())

	for p.check(lexer.DOT) {
		// a `.` is never consumed here, so the path is always the single
		// identifier above; a following `.` is parsed by parsePostfix as
		// field access.
		break
	}

	if _, ok := p.match(lexer.LT); ok {
		var sizeArgs []ast.ArraySize

		for !p.check(lexer.GT) && !p.check(lexer.EOF) {
			sizeArgs = append(sizeArgs, p.parseArraySize())

			if _, ok := p.match(lexer.COMMA); !ok {
				break
			}
		}

		p.expect(lexer.GT)
		p.expect(lexer.LPAREN)

		args := p.parseCallArgs()

		return source.NewSpanned[ast.Expr](&ast.Call{Path: parts, SizeArgs: sizeArgs, Args: args}, start.Merge(p.prevSpan()))
	}

	if p.check(lexer.LPAREN) {
		p.advance()

		args := p.parseCallArgs()

		return source.NewSpanned[ast.Expr](&ast.Call{Path: parts, Args: args}, start.Merge(p.prevSpan()))
	}

	if !noStructLit && p.check(lexer.LBRACE) && len(parts) == 1 {
		return p.parseStructLit(parts[0], start)
	}

	return source.NewSpanned[ast.Expr](ast.Ident{Name: strings.Join(parts, ".")}, start)
}

func (p *Parser) parseCallArgs() []source.Spanned[ast.Expr] {
	var args []source.Spanned[ast.Expr]

	for !p.check(lexer.RPAREN) && !p.check(lexer.EOF) {
		args = append(args, p.parseExpr(false))

		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}

	p.expect(lexer.RPAREN)

	return args
}

func (p *Parser) parseStructLit(name string, start source.Span) source.Spanned[ast.Expr] {
	p.advance() // `{`

	var fields []ast.StructFieldInit

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		fname := p.parseIdentText()

		p.expect(lexer.COLON)

		val := p.parseExpr(false)
		fields = append(fields, ast.StructFieldInit{Name: fname, Value: val})

		if _, ok := p.match(lexer.COMMA); !ok {
			break
		}
	}

	p.expect(lexer.RBRACE)

	return source.NewSpanned[ast.Expr](&ast.StructLit{Name: name, Fields: fields}, start.Merge(p.prevSpan()))
}
