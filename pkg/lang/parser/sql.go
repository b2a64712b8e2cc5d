package parser

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/token"
)

// sqlExpr dispatches on the next token to one of the four SQL statement
// grammars and wraps the result in its expression-position node (§3/§4.2).
// None of the leading keywords are consumed by the caller.
func (p *Parser) sqlExpr() (ast.Expr, error) {
	switch p.peek().Kind {
	case token.Select:
		sel, err := p.selectStatement()
		if err != nil {
			return nil, err
		}
		return &ast.SelectExpr{BaseExpr: ast.BaseExpr{Span: sel.Span}, Query: sel}, nil
	case token.Insert:
		ins, err := p.insertStatement()
		if err != nil {
			return nil, err
		}
		return &ast.InsertExpr{BaseExpr: ast.BaseExpr{Span: ins.Span}, Command: ins}, nil
	case token.Update:
		upd, err := p.updateStatement()
		if err != nil {
			return nil, err
		}
		return &ast.UpdateExpr{BaseExpr: ast.BaseExpr{Span: upd.Span}, Command: upd}, nil
	case token.Delete:
		del, err := p.deleteStatement()
		if err != nil {
			return nil, err
		}
		return &ast.DeleteExpr{BaseExpr: ast.BaseExpr{Span: del.Span}, Command: del}, nil
	default:
		return nil, p.unexpected()
	}
}

// --- SELECT ----------------------------------------------------------------

func (p *Parser) selectStatement() (*ast.SqlSelect, error) {
	firstCore, start, err := p.selectCore()
	if err != nil {
		return nil, err
	}
	end := firstCore.Span

	var compound []ast.SqlCompoundPart
	for {
		var op ast.CompoundOp
		matched := true
		switch {
		case p.match(token.Union):
			if p.match(token.All) {
				op = ast.CompoundUnionAll
			} else {
				op = ast.CompoundUnion
			}
		case p.match(token.Intersect):
			op = ast.CompoundIntersect
		case p.match(token.Except):
			op = ast.CompoundExcept
		default:
			matched = false
		}
		if !matched {
			break
		}
		core, _, err := p.selectCore()
		if err != nil {
			return nil, err
		}
		compound = append(compound, ast.SqlCompoundPart{Op: op, Core: core})
		end = core.Span
	}

	var orderBy []ast.SqlOrderingTerm
	if p.match(token.Order) {
		if _, err := p.consume(token.By, "BY"); err != nil {
			return nil, err
		}
		for {
			e, err := p.sqlExpression()
			if err != nil {
				return nil, err
			}
			dir := ast.Asc
			if p.match(token.Desc) {
				dir = ast.Desc
			} else {
				p.match(token.Asc)
			}
			orderBy = append(orderBy, ast.SqlOrderingTerm{Expr: e, Direction: dir})
			end = e.GetSpan()
			if !p.match(token.Comma) {
				break
			}
		}
	}

	var limit, offset ast.Expr
	if p.match(token.Limit) {
		limit, err = p.sqlExpression()
		if err != nil {
			return nil, err
		}
		end = limit.GetSpan()
		if p.match(token.Offset) {
			offset, err = p.sqlExpression()
			if err != nil {
				return nil, err
			}
			end = offset.GetSpan()
		}
	}

	return &ast.SqlSelect{
		Span:     token.Merge(start, end),
		Core:     firstCore,
		Compound: compound,
		OrderBy:  orderBy,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (p *Parser) selectCore() (*ast.SqlSelectCore, token.Span, error) {
	startTok, err := p.consume(token.Select, "SELECT")
	if err != nil {
		return nil, token.Span{}, err
	}
	distinct := p.match(token.Distinct)
	if !distinct {
		p.match(token.All)
	}

	projections, err := p.projectionList()
	if err != nil {
		return nil, token.Span{}, err
	}
	end := startTok.Span
	if len(projections) > 0 {
		end = projections[len(projections)-1].Span
	}

	var from *ast.SqlFrom
	if p.match(token.From) {
		from, err = p.fromTree()
		if err != nil {
			return nil, token.Span{}, err
		}
		end = from.Span
	}

	var where ast.Expr
	if p.match(token.Where) {
		where, err = p.sqlExpression()
		if err != nil {
			return nil, token.Span{}, err
		}
		end = where.GetSpan()
	}

	var groupBy []ast.Expr
	if p.match(token.Group) {
		if _, err := p.consume(token.By, "BY"); err != nil {
			return nil, token.Span{}, err
		}
		for {
			e, err := p.sqlExpression()
			if err != nil {
				return nil, token.Span{}, err
			}
			groupBy = append(groupBy, e)
			end = e.GetSpan()
			if !p.match(token.Comma) {
				break
			}
		}
	}

	var having ast.Expr
	if p.match(token.Having) {
		having, err = p.sqlExpression()
		if err != nil {
			return nil, token.Span{}, err
		}
		end = having.GetSpan()
	}

	return &ast.SqlSelectCore{
		Span:       token.Merge(startTok.Span, end),
		Distinct:   distinct,
		Projection: projections,
		From:       from,
		Where:      where,
		GroupBy:    groupBy,
		Having:     having,
	}, startTok.Span, nil
}

func (p *Parser) projectionList() ([]ast.SqlProjection, error) {
	var projections []ast.SqlProjection
	for {
		proj, err := p.projection()
		if err != nil {
			return nil, err
		}
		projections = append(projections, proj)
		if !p.match(token.Comma) {
			break
		}
	}
	return projections, nil
}

func (p *Parser) projection() (ast.SqlProjection, error) {
	start := p.peek()

	if p.match(token.Star) {
		return ast.SqlProjection{Span: p.previous().Span, Wildcard: true}, nil
	}

	if p.check(token.Identifier) && p.peekAt(1).Kind == token.Dot && p.peekAt(2).Kind == token.Star {
		ident := p.advance()
		p.advance() // dot
		p.advance() // star
		return ast.SqlProjection{
			Span:       token.Merge(ident.Span, p.previous().Span),
			Wildcard:   true,
			Collection: ident.Lexeme,
		}, nil
	}

	expr, err := p.sqlExpression()
	if err != nil {
		return ast.SqlProjection{}, err
	}
	end := expr.GetSpan()
	alias := ""
	switch {
	case p.match(token.As):
		a, err := p.identText("alias")
		if err != nil {
			return ast.SqlProjection{}, err
		}
		alias = a
		end = p.previous().Span
	case p.check(token.Identifier):
		alias = p.advance().Lexeme
		end = p.previous().Span
	default:
		if fp, ok := expr.(*ast.FieldPathExpr); ok {
			if len(fp.Tail) > 0 {
				alias = fp.Tail[len(fp.Tail)-1]
			} else {
				alias = fp.Head
			}
		}
	}

	return ast.SqlProjection{Span: token.Merge(start.Span, end), Expr: expr, Alias: alias}, nil
}

// --- FROM tree ---------------------------------------------------------

func (p *Parser) fromTree() (*ast.SqlFrom, error) {
	left, err := p.fromSource()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.Comma):
			right, err := p.fromSource()
			if err != nil {
				return nil, err
			}
			left = &ast.SqlFrom{
				Span:     token.Merge(left.Span, right.Span),
				Kind:     ast.FromJoin,
				Left:     left,
				Right:    right,
				JoinKind: ast.JoinCross,
			}
		case p.matchJoinKeyword():
			jk := p.lastJoinKind
			right, err := p.fromSource()
			if err != nil {
				return nil, err
			}
			var constraint ast.Expr
			if jk != ast.JoinCross && p.match(token.On) {
				constraint, err = p.sqlExpression()
				if err != nil {
					return nil, err
				}
			}
			end := right.Span
			if constraint != nil {
				end = constraint.GetSpan()
			}
			left = &ast.SqlFrom{
				Span:       token.Merge(left.Span, end),
				Kind:       ast.FromJoin,
				Left:       left,
				Right:      right,
				JoinKind:   jk,
				Constraint: constraint,
			}
		default:
			return left, nil
		}
	}
}

// matchJoinKeyword consumes a JOIN introducer (possibly multi-token, e.g.
// `LEFT OUTER JOIN`) and records its kind in p.lastJoinKind. It backtracks
// cleanly when the lookahead doesn't complete a join introducer.
func (p *Parser) matchJoinKeyword() bool {
	switch {
	case p.check(token.Join):
		p.advance()
		p.lastJoinKind = ast.JoinInner
		return true
	case p.check(token.Inner) && p.peekAt(1).Kind == token.Join:
		p.advance()
		p.advance()
		p.lastJoinKind = ast.JoinInner
		return true
	case p.check(token.Left):
		save := p.pos
		p.advance()
		if p.match(token.Outer) {
			if !p.match(token.Join) {
				p.pos = save
				return false
			}
			p.lastJoinKind = ast.JoinLeftOuter
			return true
		}
		if p.match(token.Join) {
			p.lastJoinKind = ast.JoinLeft
			return true
		}
		p.pos = save
		return false
	case p.check(token.Right):
		save := p.pos
		p.advance()
		p.match(token.Outer)
		if p.match(token.Join) {
			p.lastJoinKind = ast.JoinRight
			return true
		}
		p.pos = save
		return false
	case p.check(token.Cross) && p.peekAt(1).Kind == token.Join:
		p.advance()
		p.advance()
		p.lastJoinKind = ast.JoinCross
		return true
	default:
		return false
	}
}

func (p *Parser) fromSource() (*ast.SqlFrom, error) {
	if p.match(token.LeftParen) {
		start := p.previous()
		if p.check(token.Select) {
			sel, err := p.selectStatement()
			if err != nil {
				return nil, err
			}
			closing, err := p.consume(token.RightParen, ")")
			if err != nil {
				return nil, err
			}
			end := closing.Span
			alias := p.optionalAlias()
			if alias != "" {
				end = p.previous().Span
			}
			return &ast.SqlFrom{
				Span:     token.Merge(start.Span, end),
				Kind:     ast.FromSubquery,
				Subquery: sel,
				Alias:    alias,
			}, nil
		}
		inner, err := p.fromTree()
		if err != nil {
			return nil, err
		}
		closing, err := p.consume(token.RightParen, ")")
		if err != nil {
			return nil, err
		}
		return &ast.SqlFrom{
			Span:  token.Merge(start.Span, closing.Span),
			Kind:  ast.FromGroup,
			Group: []*ast.SqlFrom{inner},
		}, nil
	}

	if p.check(token.Identifier) && p.peekAt(1).Kind != token.LeftParen {
		first := p.advance()
		namespace := ""
		name := first.Lexeme
		if p.match(token.Dot) {
			nameTok, err := p.identText("collection name")
			if err != nil {
				return nil, err
			}
			namespace = name
			name = nameTok
		}
		end := p.previous().Span
		alias := p.optionalAlias()
		if alias != "" {
			end = p.previous().Span
		}
		return &ast.SqlFrom{
			Span: token.Merge(first.Span, end),
			Kind: ast.FromCollection,
			Collection: ast.SqlCollectionIdentifier{
				Span:      token.Merge(first.Span, end),
				Namespace: namespace,
				Name:      name,
				Alias:     alias,
			},
		}, nil
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	end := expr.GetSpan()
	alias := p.optionalAlias()
	if alias != "" {
		end = p.previous().Span
	}
	return &ast.SqlFrom{
		Span:   token.Merge(expr.GetSpan(), end),
		Kind:   ast.FromExpr,
		Source: expr,
		Alias:  alias,
	}, nil
}

// optionalAlias consumes `AS name`, a bare `name`, or nothing. It never
// errors: a missing alias after AS is reported by the caller's next consume.
func (p *Parser) optionalAlias() string {
	if p.match(token.As) {
		if p.check(token.Identifier) {
			return p.advance().Lexeme
		}
		return ""
	}
	if p.check(token.Identifier) {
		return p.advance().Lexeme
	}
	return ""
}

// --- INSERT / UPDATE / DELETE ------------------------------------------

func (p *Parser) collectionIdentifier() (ast.SqlCollectionIdentifier, error) {
	first, err := p.identText("collection name")
	if err != nil {
		return ast.SqlCollectionIdentifier{}, err
	}
	startSpan := p.previous().Span
	namespace := ""
	name := first
	if p.match(token.Dot) {
		namespace = first
		name, err = p.identText("collection name")
		if err != nil {
			return ast.SqlCollectionIdentifier{}, err
		}
	}
	end := p.previous().Span
	alias := p.optionalAlias()
	if alias != "" {
		end = p.previous().Span
	}
	return ast.SqlCollectionIdentifier{
		Span:      token.Merge(startSpan, end),
		Namespace: namespace,
		Name:      name,
		Alias:     alias,
	}, nil
}

func (p *Parser) insertStatement() (*ast.SqlInsert, error) {
	start, err := p.consume(token.Insert, "INSERT")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Into, "INTO"); err != nil {
		return nil, err
	}
	coll, err := p.collectionIdentifier()
	if err != nil {
		return nil, err
	}
	end := coll.Span

	var values []ast.Expr
	var sel *ast.SqlSelect
	switch {
	case p.match(token.Values):
		for {
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			end = v.GetSpan()
			if !p.match(token.Comma) {
				break
			}
		}
	case p.check(token.Select):
		sel, err = p.selectStatement()
		if err != nil {
			return nil, err
		}
		end = sel.Span
	default:
		return nil, p.unexpected()
	}

	return &ast.SqlInsert{
		Span:       token.Merge(start.Span, end),
		Collection: coll,
		Values:     values,
		Select:     sel,
	}, nil
}

func (p *Parser) updateStatement() (*ast.SqlUpdate, error) {
	start, err := p.consume(token.Update, "UPDATE")
	if err != nil {
		return nil, err
	}
	coll, err := p.collectionIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Set, "SET"); err != nil {
		return nil, err
	}

	var assignments []ast.SqlAssignment
	end := coll.Span
	for {
		field, err := p.identText("field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Equal, "="); err != nil {
			return nil, err
		}
		val, err := p.sqlExpression()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, ast.SqlAssignment{Field: field, Value: val})
		end = val.GetSpan()
		if !p.match(token.Comma) {
			break
		}
	}

	var where ast.Expr
	if p.match(token.Where) {
		where, err = p.sqlExpression()
		if err != nil {
			return nil, err
		}
		end = where.GetSpan()
	}

	return &ast.SqlUpdate{
		Span:        token.Merge(start.Span, end),
		Collection:  coll,
		Assignments: assignments,
		Where:       where,
	}, nil
}

func (p *Parser) deleteStatement() (*ast.SqlDelete, error) {
	start, err := p.consume(token.Delete, "DELETE")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.From, "FROM"); err != nil {
		return nil, err
	}
	coll, err := p.collectionIdentifier()
	if err != nil {
		return nil, err
	}
	end := coll.Span

	var where ast.Expr
	if p.match(token.Where) {
		where, err = p.sqlExpression()
		if err != nil {
			return nil, err
		}
		end = where.GetSpan()
	}

	return &ast.SqlDelete{
		Span:       token.Merge(start.Span, end),
		Collection: coll,
		Where:      where,
	}, nil
}

// --- SQL expression precedence chain -------------------------------------
//
// Parallels the script expression grammar in expr.go but resolves bare and
// dotted identifiers to ast.FieldPathExpr (row-field references) instead of
// ast.VariableExpr, and adds the SQL-only BETWEEN/LIKE/IN/IS NULL predicates
// at the comparison level (§4.2).

func (p *Parser) sqlExpression() (ast.Expr, error) {
	return p.sqlOr()
}

func (p *Parser) sqlOr() (ast.Expr, error) {
	left, err := p.sqlAnd()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		right, err := p.sqlAnd()
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

func (p *Parser) sqlAnd() (ast.Expr, error) {
	left, err := p.sqlPredicate()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		right, err := p.sqlPredicate()
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

// checkPredicateKeyword reports whether the cursor sits on kind, or on a
// NOT immediately followed by kind (the infix `x NOT BETWEEN/LIKE/IN` form).
func (p *Parser) checkPredicateKeyword(kind token.Kind) bool {
	if p.check(kind) {
		return true
	}
	return p.check(token.Not) && p.peekAt(1).Kind == kind
}

func (p *Parser) sqlPredicate() (ast.Expr, error) {
	left, err := p.sqlTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual, token.EqualEqual, token.Equal, token.BangEqual):
			opTok := p.previous()
			right, err := p.sqlTerm()
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
			case token.BangEqual:
				op = ast.OpIsNotEqual
			default:
				op = ast.OpIsEqual
			}
			left = &ast.BinaryExpr{
				BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), right.GetSpan())},
				Left:     left, Op: op, Right: right,
			}

		case p.checkPredicateKeyword(token.Between):
			negate := p.match(token.Not)
			if _, err := p.consume(token.Between, "BETWEEN"); err != nil {
				return nil, err
			}
			low, err := p.sqlTerm()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.And, "AND"); err != nil {
				return nil, err
			}
			high, err := p.sqlTerm()
			if err != nil {
				return nil, err
			}
			sp := token.Merge(left.GetSpan(), high.GetSpan())
			between := ast.Expr(&ast.LogicalExpr{
				BaseExpr: ast.BaseExpr{Span: sp},
				Op:       ast.OpAnd,
				Left: &ast.BinaryExpr{
					BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), low.GetSpan())},
					Left:     left, Op: ast.OpGreaterEqual, Right: low,
				},
				Right: &ast.BinaryExpr{
					BaseExpr: ast.BaseExpr{Span: token.Merge(left.GetSpan(), high.GetSpan())},
					Left:     left, Op: ast.OpLessEqual, Right: high,
				},
			})
			if negate {
				between = &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Span: sp}, Op: ast.OpNot, Operand: between}
			}
			left = between

		case p.checkPredicateKeyword(token.Like):
			negate := p.match(token.Not)
			if _, err := p.consume(token.Like, "LIKE"); err != nil {
				return nil, err
			}
			pattern, err := p.sqlTerm()
			if err != nil {
				return nil, err
			}
			sp := token.Merge(left.GetSpan(), pattern.GetSpan())
			call := ast.Expr(&ast.CallExpr{
				BaseExpr: ast.BaseExpr{Span: sp},
				Callee:   &ast.VariableExpr{BaseExpr: ast.BaseExpr{Span: sp}, Name: "like"},
				Args:     []ast.Expr{left, pattern},
			})
			if negate {
				call = &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Span: sp}, Op: ast.OpNot, Operand: call}
			}
			left = call

		case p.checkPredicateKeyword(token.In):
			negate := p.match(token.Not)
			if _, err := p.consume(token.In, "IN"); err != nil {
				return nil, err
			}
			if _, err := p.consume(token.LeftParen, "("); err != nil {
				return nil, err
			}
			var items []ast.Expr
			if !p.check(token.RightParen) {
				for {
					item, err := p.sqlExpression()
					if err != nil {
						return nil, err
					}
					items = append(items, item)
					if !p.match(token.Comma) {
						break
					}
				}
			}
			closing, err := p.consume(token.RightParen, ")")
			if err != nil {
				return nil, err
			}
			sp := token.Merge(left.GetSpan(), closing.Span)
			arr := &ast.ArrayExpr{BaseExpr: ast.BaseExpr{Span: sp}, Elements: items}
			call := ast.Expr(&ast.CallExpr{
				BaseExpr: ast.BaseExpr{Span: sp},
				Callee:   &ast.VariableExpr{BaseExpr: ast.BaseExpr{Span: sp}, Name: "in"},
				Args:     []ast.Expr{left, arr},
			})
			if negate {
				call = &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Span: sp}, Op: ast.OpNot, Operand: call}
			}
			left = call

		case p.check(token.Is):
			p.advance()
			negate := p.match(token.Not)
			nullTok, err := p.consume(token.Null, "NULL")
			if err != nil {
				return nil, err
			}
			sp := token.Merge(left.GetSpan(), nullTok.Span)
			cmp := ast.Expr(&ast.BinaryExpr{
				BaseExpr: ast.BaseExpr{Span: sp},
				Left:     left, Op: ast.OpIsEqual,
				Right: &ast.LiteralExpr{BaseExpr: ast.BaseExpr{Span: nullTok.Span}, Value: nil, Raw: "null"},
			})
			if negate {
				cmp = &ast.UnaryExpr{BaseExpr: ast.BaseExpr{Span: sp}, Op: ast.OpNot, Operand: cmp}
			}
			left = cmp

		default:
			return left, nil
		}
	}
}

func (p *Parser) sqlTerm() (ast.Expr, error) {
	left, err := p.sqlFactor()
	if err != nil {
		return nil, err
	}
	for p.match(token.Plus, token.Minus) {
		opTok := p.previous()
		right, err := p.sqlFactor()
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

func (p *Parser) sqlFactor() (ast.Expr, error) {
	left, err := p.sqlUnary()
	if err != nil {
		return nil, err
	}
	for p.match(token.Star, token.Slash, token.Percent) {
		opTok := p.previous()
		right, err := p.sqlUnary()
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

func (p *Parser) sqlUnary() (ast.Expr, error) {
	if p.match(token.Minus) {
		opTok := p.previous()
		operand, err := p.sqlUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(opTok.Span, operand.GetSpan())},
			Op:       ast.OpNegate, Operand: operand,
		}, nil
	}
	if p.match(token.Not) {
		opTok := p.previous()
		operand, err := p.sqlUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(opTok.Span, operand.GetSpan())},
			Op:       ast.OpNot, Operand: operand,
		}, nil
	}
	return p.sqlPrimary()
}

func (p *Parser) sqlPrimary() (ast.Expr, error) {
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
		if p.check(token.Select) {
			sel, err := p.selectStatement()
			if err != nil {
				return nil, err
			}
			closing, err := p.consume(token.RightParen, ")")
			if err != nil {
				return nil, err
			}
			return &ast.SelectExpr{
				BaseExpr: ast.BaseExpr{Span: token.Merge(t.Span, closing.Span)},
				Query:    sel,
			}, nil
		}
		inner, err := p.sqlExpression()
		if err != nil {
			return nil, err
		}
		closing, err := p.consume(token.RightParen, ")")
		if err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{BaseExpr: ast.BaseExpr{Span: token.Merge(t.Span, closing.Span)}, Inner: inner}, nil
	case p.match(token.Identifier):
		tok := p.previous()
		if tok.Dollar {
			return &ast.VariableExpr{
				BaseExpr: ast.BaseExpr{Span: tok.Span},
				Name:     tok.Lexeme, Dollar: true, ID: p.allocID(),
			}, nil
		}
		return p.sqlIdentifierOrCall(tok)
	default:
		return nil, p.unexpected()
	}
}

// sqlIdentifierOrCall resolves an identifier already consumed as first into
// either a native/aggregate call (`fn(args)`) or a dotted field-path
// reference (`a.b.c`), the two shapes a bare name can take in SQL position.
func (p *Parser) sqlIdentifierOrCall(first token.Token) (ast.Expr, error) {
	if p.match(token.LeftParen) {
		args, closing, err := p.sqlArgList()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{
			BaseExpr: ast.BaseExpr{Span: token.Merge(first.Span, closing.Span)},
			Callee:   &ast.VariableExpr{BaseExpr: ast.BaseExpr{Span: first.Span}, Name: first.Lexeme, ID: p.allocID()},
			Args:     args,
		}, nil
	}

	head := first.Lexeme
	var tail []string
	end := first.Span
	for p.match(token.Dot) {
		name, err := p.identText("field name")
		if err != nil {
			return nil, err
		}
		tail = append(tail, name)
		end = p.previous().Span
	}
	return &ast.FieldPathExpr{BaseExpr: ast.BaseExpr{Span: token.Merge(first.Span, end)}, Head: head, Tail: tail}, nil
}

// sqlArgList parses a call's argument list, accepting a bare `*` (as in
// `COUNT(*)`) as a single synthetic FieldPathExpr{Head: "*"} argument that
// the aggregate dispatch in the executor recognizes as count-all (§4.7).
func (p *Parser) sqlArgList() ([]ast.Expr, token.Token, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if p.check(token.Star) {
				st := p.advance()
				args = append(args, &ast.FieldPathExpr{BaseExpr: ast.BaseExpr{Span: st.Span}, Head: "*"})
			} else {
				arg, err := p.sqlExpression()
				if err != nil {
					return nil, token.Token{}, err
				}
				args = append(args, arg)
			}
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closing, err := p.consume(token.RightParen, ")")
	if err != nil {
		return nil, token.Token{}, err
	}
	return args, closing, nil
}
