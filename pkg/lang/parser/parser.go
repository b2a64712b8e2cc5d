// Copyright 2024 The LykiaDB Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements §4.2: tokens -> AST with stable node identities.
// It is a hand-written recursive-descent parser with no error recovery: on
// the first diagnostic the parse is abandoned (§4.2).
package parser

import (
	"strings"

	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/token"
)

// Parser consumes a token slice and produces an owned *ast.ProgramStmt.
// Each Parser owns its own monotonically increasing node-id counter (§4.2),
// so concurrent parses on different goroutines never collide.
type Parser struct {
	tokens       []token.Token
	pos          int
	nextID       uint64
	lastJoinKind ast.JoinKind
}

// New creates a Parser over tokens, which must end with an EOF token (the
// shape scanner.ScanTokens produces).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse produces the full program AST.
func Parse(tokens []token.Token) (*ast.ProgramStmt, error) {
	return New(tokens).Parse()
}

func (p *Parser) Parse() (*ast.ProgramStmt, error) {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		s, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	sp := token.Span{}
	if len(stmts) > 0 {
		sp = token.Merge(stmts[0].GetSpan(), stmts[len(stmts)-1].GetSpan())
	}
	return &ast.ProgramStmt{BaseStmt: ast.BaseStmt{Span: sp}, Statements: stmts}, nil
}

// --- token cursor helpers -------------------------------------------------

func (p *Parser) allocID() uint64 {
	p.nextID++
	return p.nextID
}

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, expected string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	t := p.peek()
	return token.Token{}, errs.Spanned(errs.ErrMissingToken.New(expected, t.Lexeme), t.Span)
}

func (p *Parser) unexpected() error {
	t := p.peek()
	return errs.Spanned(errs.ErrUnexpectedToken.New(t.Lexeme), t.Span)
}

// identText consumes an Identifier token and returns its source text. Only
// token.Identifier is accepted; a SQL or script keyword in a name position
// is rejected with ErrMissingToken.
func (p *Parser) identText(expected string) (string, error) {
	if p.check(token.Identifier) {
		return p.advance().Lexeme, nil
	}
	t := p.peek()
	return "", errs.Spanned(errs.ErrMissingToken.New(expected, t.Lexeme), t.Span)
}

func upper(s string) string { return strings.ToUpper(s) }

// peekAt looks ahead offset tokens from the cursor without consuming,
// clamped to the final (EOF) token.
func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}
