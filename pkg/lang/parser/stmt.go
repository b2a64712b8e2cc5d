package parser

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/token"
)

// declaration parses a single top-level-or-block statement, entry point of
// the statement grammar (§4.2).
func (p *Parser) declaration() (ast.Stmt, error) {
	if p.match(token.Var) {
		return p.varDeclaration()
	}
	if p.match(token.Fun) {
		return p.funDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	start := p.previous()
	name, err := p.identText("variable name")
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.match(token.Equal) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	semi, err := p.consume(token.Semicolon, ";")
	if err != nil {
		return nil, err
	}
	return &ast.DeclarationStmt{
		BaseStmt:    ast.BaseStmt{Span: token.Merge(start.Span, semi.Span)},
		Name:        name,
		Initializer: init,
	}, nil
}

// funDeclaration desugars `fun name(...) { ... }` into `var name = fun name(...) { ... };`
// so a named function is just sugar over a function-valued variable (§4.3/§4.4).
func (p *Parser) funDeclaration() (ast.Stmt, error) {
	start := p.previous()
	fnExpr, err := p.functionExpr(start)
	if err != nil {
		return nil, err
	}
	fn := fnExpr.(*ast.FunctionExpr)
	return &ast.DeclarationStmt{
		BaseStmt:    ast.BaseStmt{Span: fn.GetSpan()},
		Name:        fn.Name,
		Initializer: fn,
	}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.LeftBrace):
		return p.block()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Break):
		t := p.previous()
		semi, err := p.consume(token.Semicolon, ";")
		if err != nil {
			return nil, err
		}
		return &ast.BreakStmt{BaseStmt: ast.BaseStmt{Span: token.Merge(t.Span, semi.Span)}}, nil
	case p.match(token.Continue):
		t := p.previous()
		semi, err := p.consume(token.Semicolon, ";")
		if err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{BaseStmt: ast.BaseStmt{Span: token.Merge(t.Span, semi.Span)}}, nil
	case p.match(token.Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

// blockBody parses statements up to and including the closing `}`, returning
// the statement slice and the closing brace token for span-merging.
func (p *Parser) blockBody() ([]ast.Stmt, token.Token, error) {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		s, err := p.declaration()
		if err != nil {
			return nil, token.Token{}, err
		}
		stmts = append(stmts, s)
	}
	closing, err := p.consume(token.RightBrace, "}")
	if err != nil {
		return nil, token.Token{}, err
	}
	return stmts, closing, nil
}

func (p *Parser) block() (ast.Stmt, error) {
	start := p.previous()
	stmts, closing, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	return &ast.BlockStmt{
		BaseStmt:   ast.BaseStmt{Span: token.Merge(start.Span, closing.Span)},
		Statements: stmts,
	}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	start := p.previous()
	if _, err := p.consume(token.LeftParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, ")"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	endSpan := then.GetSpan()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
		endSpan = elseBranch.GetSpan()
	}
	return &ast.IfStmt{
		BaseStmt:   ast.BaseStmt{Span: token.Merge(start.Span, endSpan)},
		Condition:  cond,
		Then:       then,
		ElseBranch: elseBranch,
	}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	start := p.previous()
	if _, err := p.consume(token.LeftParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.LoopStmt{
		BaseStmt:  ast.BaseStmt{Span: token.Merge(start.Span, body.GetSpan())},
		Condition: cond,
		Body:      body,
	}, nil
}

// forStatement desugars the C-style for-loop into a LoopStmt, wrapping the
// initializer (if any) and the loop itself in a synthetic block so the
// initializer's variable is scoped to the loop alone (§4.3).
func (p *Parser) forStatement() (ast.Stmt, error) {
	start := p.previous()
	if _, err := p.consume(token.LeftParen, "("); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, ";"); err != nil {
		return nil, err
	}

	var post ast.Expr
	if !p.check(token.RightParen) {
		post, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RightParen, ")"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	var postStmt ast.Stmt
	if post != nil {
		postStmt = &ast.ExpressionStmt{BaseStmt: ast.BaseStmt{Span: post.GetSpan()}, Expression: post}
	}

	loop := &ast.LoopStmt{
		BaseStmt:  ast.BaseStmt{Span: token.Merge(start.Span, body.GetSpan())},
		Condition: condition,
		Body:      body,
		Post:      postStmt,
	}

	if initializer == nil {
		return loop, nil
	}
	return &ast.BlockStmt{
		BaseStmt:   ast.BaseStmt{Span: token.Merge(start.Span, body.GetSpan())},
		Statements: []ast.Stmt{initializer, loop},
	}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	start := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	semi, err := p.consume(token.Semicolon, ";")
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{
		BaseStmt: ast.BaseStmt{Span: token.Merge(start.Span, semi.Span)},
		Value:    value,
	}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	semi, err := p.consume(token.Semicolon, ";")
	if err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{
		BaseStmt:   ast.BaseStmt{Span: token.Merge(expr.GetSpan(), semi.Span)},
		Expression: expr,
	}, nil
}
