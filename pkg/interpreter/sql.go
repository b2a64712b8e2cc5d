package interpreter

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
)

// These four visitors simply hand the SQL subtree off to whatever
// planner+executor was wired in via SetSQLEngine (§4.5/§4.6); the
// interpreter itself knows nothing about plans, scans or joins.

func (it *Interpreter) VisitSelectExpr(e *ast.SelectExpr) (interface{}, error) {
	if it.sql == nil {
		return nil, errs.Spanned(errs.ErrOther.New("no SQL engine configured"), e.GetSpan())
	}
	v, err := it.sql.ExecuteSelect(it, e.Query)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (it *Interpreter) VisitInsertExpr(e *ast.InsertExpr) (interface{}, error) {
	if it.sql == nil {
		return nil, errs.Spanned(errs.ErrOther.New("no SQL engine configured"), e.GetSpan())
	}
	v, err := it.sql.ExecuteInsert(it, e.Command)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (it *Interpreter) VisitUpdateExpr(e *ast.UpdateExpr) (interface{}, error) {
	if it.sql == nil {
		return nil, errs.Spanned(errs.ErrOther.New("no SQL engine configured"), e.GetSpan())
	}
	v, err := it.sql.ExecuteUpdate(it, e.Command)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (it *Interpreter) VisitDeleteExpr(e *ast.DeleteExpr) (interface{}, error) {
	if it.sql == nil {
		return nil, errs.Spanned(errs.ErrOther.New("no SQL engine configured"), e.GetSpan())
	}
	v, err := it.sql.ExecuteDelete(it, e.Command)
	if err != nil {
		return nil, err
	}
	return v, nil
}
