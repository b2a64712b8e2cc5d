package planner

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/agg"
)

// aggregateName reports whether call invokes one of pkg/stdlib/agg's
// registered aggregators, recognized structurally by callee name (§4.5
// step 2) rather than through a live interpreter, since the planner runs
// before (and independently of) any particular interpreter instance.
func aggregateName(call *ast.CallExpr) (string, bool) {
	v, ok := call.Callee.(*ast.VariableExpr)
	if !ok {
		return "", false
	}
	for _, name := range agg.Names {
		if v.Name == name {
			return name, true
		}
	}
	return "", false
}

// scanAggregates walks e looking for aggregate calls, rejecting one nested
// inside another's argument with NestedAggregationNotAllowed. It does not
// descend into SQL subtree expressions (Select/Insert/Update/Delete) — an
// aggregate call belongs to the SELECT core it's written in, not to a
// subquery nested inside one of its operands.
func scanAggregates(e ast.Expr, insideAgg bool) ([]*ast.CallExpr, error) {
	if e == nil {
		return nil, nil
	}
	switch t := e.(type) {
	case *ast.CallExpr:
		if _, isAgg := aggregateName(t); isAgg {
			if insideAgg {
				return nil, errs.Spanned(errs.ErrNestedAggregationNotAllowed.New(), t.GetSpan())
			}
			found := []*ast.CallExpr{t}
			for _, a := range t.Args {
				sub, err := scanAggregates(a, true)
				if err != nil {
					return nil, err
				}
				found = append(found, sub...)
			}
			return found, nil
		}
		var found []*ast.CallExpr
		calleeSub, err := scanAggregates(t.Callee, insideAgg)
		if err != nil {
			return nil, err
		}
		found = append(found, calleeSub...)
		for _, a := range t.Args {
			sub, err := scanAggregates(a, insideAgg)
			if err != nil {
				return nil, err
			}
			found = append(found, sub...)
		}
		return found, nil
	case *ast.BinaryExpr:
		return scanPair(t.Left, t.Right, insideAgg)
	case *ast.LogicalExpr:
		return scanPair(t.Left, t.Right, insideAgg)
	case *ast.UnaryExpr:
		return scanAggregates(t.Operand, insideAgg)
	case *ast.GroupingExpr:
		return scanAggregates(t.Inner, insideAgg)
	case *ast.ObjectExpr:
		var found []*ast.CallExpr
		for _, v := range t.Values {
			sub, err := scanAggregates(v, insideAgg)
			if err != nil {
				return nil, err
			}
			found = append(found, sub...)
		}
		return found, nil
	case *ast.ArrayExpr:
		var found []*ast.CallExpr
		for _, v := range t.Elements {
			sub, err := scanAggregates(v, insideAgg)
			if err != nil {
				return nil, err
			}
			found = append(found, sub...)
		}
		return found, nil
	case *ast.GetExpr:
		return scanAggregates(t.Object, insideAgg)
	case *ast.SetExpr:
		return scanPair(t.Object, t.Value, insideAgg)
	default:
		// Literal, Variable, FieldPath, and SQL subtree expressions are
		// leaves for aggregate-detection purposes.
		return nil, nil
	}
}

func scanPair(a, b ast.Expr, insideAgg bool) ([]*ast.CallExpr, error) {
	left, err := scanAggregates(a, insideAgg)
	if err != nil {
		return nil, err
	}
	right, err := scanAggregates(b, insideAgg)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// containsSubquery reports whether e (or any non-SQL-leaf descendant)
// embeds a SelectExpr, used by step 4's ON/GROUP BY/ORDER BY restriction.
func containsSubquery(e ast.Expr) bool {
	if e == nil {
		return false
	}
	switch t := e.(type) {
	case *ast.SelectExpr:
		return true
	case *ast.BinaryExpr:
		return containsSubquery(t.Left) || containsSubquery(t.Right)
	case *ast.LogicalExpr:
		return containsSubquery(t.Left) || containsSubquery(t.Right)
	case *ast.UnaryExpr:
		return containsSubquery(t.Operand)
	case *ast.GroupingExpr:
		return containsSubquery(t.Inner)
	case *ast.CallExpr:
		if containsSubquery(t.Callee) {
			return true
		}
		for _, a := range t.Args {
			if containsSubquery(a) {
				return true
			}
		}
		return false
	case *ast.ObjectExpr:
		for _, v := range t.Values {
			if containsSubquery(v) {
				return true
			}
		}
		return false
	case *ast.ArrayExpr:
		for _, v := range t.Elements {
			if containsSubquery(v) {
				return true
			}
		}
		return false
	case *ast.GetExpr:
		return containsSubquery(t.Object)
	case *ast.SetExpr:
		return containsSubquery(t.Object) || containsSubquery(t.Value)
	default:
		return false
	}
}

func buildAggregateCalls(calls []*ast.CallExpr) ([]AggregateCall, error) {
	out := make([]AggregateCall, 0, len(calls))
	for _, c := range calls {
		name, _ := aggregateName(c)
		if len(c.Args) != 1 {
			return nil, errs.Spanned(errs.ErrArityMismatch.New(1, len(c.Args)), c.GetSpan())
		}
		out = append(out, AggregateCall{
			FuncName:  name,
			Arg:       c.Args[0],
			Signature: ExprString(c),
		})
	}
	return out, nil
}
