package parser

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/token"
)

// expression is the entry point of the precedence-climbing chain (§4.2):
// assignment -> or -> and -> equality -> comparison -> term -> factor ->
// unary -> call -> primary.
func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(token.Equal) {
		eq := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := left.(type) {
		case *ast.VariableExpr:
			return &ast.AssignmentExpr{
				BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), value.GetSpan())},
				Name:     target.Name,
				Value:    value,
				ID:       p.allocID(),
			}, nil
		case *ast.GetExpr:
			return &ast.SetExpr{
				BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), value.GetSpan())},
				Object:   target.Object,
				Name:     target.Name,
				Value:    value,
			}, nil
		default:
			return nil, errs.Spanned(errs.ErrInvalidAssignmentTarget.New(), eq.Span)
		}
	}
	return left, nil
}

func (p *Parser) or() (ast.Expr, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), right.GetSpan())},
			Left:     left, Op: ast.OpOr, Right: right,
		}
	}
	return left, nil
}

func (p *Parser) and() (ast.Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), right.GetSpan())},
			Left:     left, Op: ast.OpAnd, Right: right,
		}
	}
	return left, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.EqualEqual, token.BangEqual) {
		opTok := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		op := ast.OpIsEqual
		if opTok.Kind == token.BangEqual {
			op = ast.OpIsNotEqual
		}
		left = &ast.BinaryExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), right.GetSpan())},
			Left:     left, Op: op, Right: right,
		}
	}
	return left, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		opTok := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		var op ast.Operation
		switch opTok.Kind {
		case token.Greater:
			op = ast.OpGreater
		case token.GreaterEqual:
			op = ast.OpGreaterEqual
		case token.Less:
			op = ast.OpLess
		case token.LessEqual:
			op = ast.OpLessEqual
		}
		left = &ast.BinaryExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), right.GetSpan())},
			Left:     left, Op: op, Right: right,
		}
	}
	return left, nil
}

func (p *Parser) term() (ast.Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(token.Plus, token.Minus) {
		opTok := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		op := ast.OpAdd
		if opTok.Kind == token.Minus {
			op = ast.OpSubtract
		}
		left = &ast.BinaryExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), right.GetSpan())},
			Left:     left, Op: op, Right: right,
		}
	}
	return left, nil
}

func (p *Parser) factor() (ast.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.Star, token.Slash, token.Percent) {
		opTok := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		var op ast.Operation
		switch opTok.Kind {
		case token.Star:
			op = ast.OpMultiply
		case token.Slash:
			op = ast.OpDivide
		case token.Percent:
			op = ast.OpModulo
		}
		left = &ast.BinaryExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), right.GetSpan())},
			Left:     left, Op: op, Right: right,
		}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		opTok := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		op := ast.OpNegate
		if opTok.Kind == token.Bang {
			op = ast.OpNot
		}
		return &ast.UnaryExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(opTok.Span, operand.GetSpan())},
			Op:       op, Operand: operand,
		}, nil
	}
	return p.call()
}

// call parses left-to-right chains of `.prop` and `(args)` suffixes into
// nested Get/Call nodes (§4.2). `[index]` suffixes are not parsed: the
// chain ends at a `[` token.
func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.identText("property name")
			if err != nil {
				return nil, err
			}
			expr = &ast.GetExpr{
				BaseExpr: ast.BaseExpr{Span: token.Merge(expr.GetSpan(), p.previous().Span)},
				Object:   expr, Name: name,
			}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closing, err := p.consume(token.RightParen, ")")
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{
		BaseExpr: ast.BaseExpr{Span: token.Merge(callee.GetSpan(), closing.Span)},
		Callee:   callee, Args: args,
	}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	t := p.peek()
	switch {
	case p.match(token.False):
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Span: t.Span}, Value: false, Raw: t.Lexeme}, nil
	case p.match(token.True):
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Span: t.Span}, Value: true, Raw: t.Lexeme}, nil
	case p.match(token.Null):
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Span: t.Span}, Value: nil, Raw: t.Lexeme}, nil
	case p.match(token.Undefined):
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Span: t.Span}, Value: ast.Undefined{}, Raw: t.Lexeme}, nil
	case p.match(token.Number):
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Span: t.Span}, Value: t.Literal, Raw: t.Lexeme}, nil
	case p.match(token.String):
		return &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Span: t.Span}, Value: t.Literal, Raw: t.Lexeme}, nil
	case p.match(token.LeftParen):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		closing, err := p.consume(token.RightParen, ")")
		if err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{BaseExpr: ast.BaseExpr{Span: token.Merge(t.Span, closing.Span)}, Inner: inner}, nil
	case p.match(token.LeftBrace):
		return p.objectLiteral(t)
	case p.match(token.LeftBracket):
		return p.arrayLiteral(t)
	case p.match(token.Fun, token.Function):
		return p.functionExpr(t)
	case p.check(token.Select) || p.check(token.Insert) || p.check(token.Update) || p.check(token.Delete):
		return p.sqlExpr()
	case p.match(token.Identifier):
		return &ast.VariableExpr{
			BaseExpr: ast.BaseExpr{Span: t.Span},
			Name:     t.Lexeme, Dollar: t.Dollar, ID: p.allocID(),
		}, nil
	default:
		return nil, p.unexpected()
	}
}

func (p *Parser) objectLiteral(start token.Token) (ast.Expr, error) {
	var names []string
	var values []ast.Expr
	if !p.check(token.RightBrace) {
		for {
			name, err := p.identText("field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.Colon, ":"); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			values = append(values, val)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closing, err := p.consume(token.RightBrace, "}")
	if err != nil {
		return nil, err
	}
	return &ast.ObjectExpr{
		BaseExpr: ast.BaseExpr{Span: token.Merge(start.Span, closing.Span)},
		Names:    names, Values: values,
	}, nil
}

func (p *Parser) arrayLiteral(start token.Token) (ast.Expr, error) {
	var elems []ast.Expr
	if !p.check(token.RightBracket) {
		for {
			el, err := p.expression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closing, err := p.consume(token.RightBracket, "]")
	if err != nil {
		return nil, err
	}
	return &ast.ArrayExpr{
		BaseExpr: ast.BaseExpr{Span: token.Merge(start.Span, closing.Span)},
		Elements: elems,
	}, nil
}

func (p *Parser) functionExpr(start token.Token) (ast.Expr, error) {
	name := ""
	if p.check(token.Identifier) {
		name = p.advance().Lexeme
	}
	if _, err := p.consume(token.LeftParen, "("); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(token.RightParen) {
		for {
			param, err := p.identText("parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, ")"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "{"); err != nil {
		return nil, err
	}
	body, closing, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpr{
		BaseExpr:   ast.BaseExpr{Span: token.Merge(start.Span, closing.Span)},
		Name:       name, Parameters: params, Body: body,
	}, nil
}
