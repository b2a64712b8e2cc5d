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

package executor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/interpreter"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/planner"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib/agg"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Iterator pulls Rows one at a time; composition is lazy (§4.6).
type Iterator interface {
	// Next returns the next Row, or (nil, false, nil) at end of input.
	Next() (*Row, bool, error)
}

// run builds the Iterator tree for plan without pulling any rows; callers
// that need every upstream row at once drain the returned Iterator
// separately.
func run(it *interpreter.Interpreter, cat *Catalog, plan planner.Node) (Iterator, error) {
	switch n := plan.(type) {
	case *planner.ScanNode:
		return newScanIterator(cat, n), nil

	case *planner.EvalScanNode:
		return newEvalScanIterator(it, n)

	case *planner.SingleRowNode:
		return &sliceIterator{rows: []*Row{NewRow()}}, nil

	case *planner.SubqueryNode:
		return run(it, cat, n.Inner)

	case *planner.JoinNode:
		return newJoinIterator(it, cat, n)

	case *planner.FilterNode:
		upstream, err := run(it, cat, n.Input)
		if err != nil {
			return nil, err
		}
		return &filterIterator{it: it, upstream: upstream, predicate: n.Predicate}, nil

	case *planner.AggregateNode:
		return buildAggregate(it, cat, n)

	case *planner.ProjectionNode:
		return buildProjection(it, cat, n)

	case *planner.CompoundNode:
		return buildCompound(it, cat, n)

	case *planner.OrderNode:
		return buildOrder(it, cat, n)

	case *planner.LimitNode:
		return buildLimit(it, cat, n)

	case *planner.OffsetNode:
		return buildOffset(it, cat, n)

	default:
		return nil, errs.ErrOther.New(fmt.Sprintf("executor: unhandled plan node %T", plan))
	}
}

// drain pulls every row out of an Iterator into a slice.
func drain(iter Iterator) ([]*Row, error) {
	var rows []*Row
	for {
		row, ok, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// sliceIterator replays a pre-materialized slice of rows.
type sliceIterator struct {
	rows []*Row
	pos  int
}

func (s *sliceIterator) Next() (*Row, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true, nil
}

// --- Scan / EvalScan -----------------------------------------------------

type scanIterator struct {
	alias string
	rows  []*value.Object
	pos   int
}

func newScanIterator(cat *Catalog, n *planner.ScanNode) *scanIterator {
	return &scanIterator{alias: n.Alias, rows: cat.Rows(n.Collection)}
}

func (s *scanIterator) Next() (*Row, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	row := NewRow()
	row.SetSource(s.alias, s.rows[s.pos])
	s.pos++
	return row, true, nil
}

func newEvalScanIterator(it *interpreter.Interpreter, n *planner.EvalScanNode) (Iterator, error) {
	v, err := it.Eval(n.Source)
	if err != nil {
		return nil, err
	}
	var rows []*Row
	if arr, ok := v.(*value.Array); ok {
		for _, el := range arr.Elements() {
			row := NewRow()
			row.SetSource(n.Alias, el)
			rows = append(rows, row)
		}
	} else {
		row := NewRow()
		row.SetSource(n.Alias, v)
		rows = append(rows, row)
	}
	return &sliceIterator{rows: rows}, nil
}

// --- Filter ---------------------------------------------------------------

type filterIterator struct {
	it        *interpreter.Interpreter
	upstream  Iterator
	predicate ast.Expr
}

func (f *filterIterator) Next() (*Row, bool, error) {
	for {
		row, ok, err := f.upstream.Next()
		if err != nil || !ok {
			return nil, ok, err
		}
		keep, err := evalTruthy(f.it, row, f.predicate)
		if err != nil {
			return nil, false, err
		}
		if keep {
			return row, true, nil
		}
	}
}

func evalTruthy(it *interpreter.Interpreter, row *Row, e ast.Expr) (bool, error) {
	it.PushRow(row)
	defer it.PopRow()
	v, err := it.Eval(e)
	if err != nil {
		return false, err
	}
	return value.Truthy(v), nil
}

func evalWithRow(it *interpreter.Interpreter, row *Row, e ast.Expr) (value.Value, error) {
	it.PushRow(row)
	defer it.PopRow()
	return it.Eval(e)
}

// --- Join -------------------------------------------------------------

func newJoinIterator(it *interpreter.Interpreter, cat *Catalog, n *planner.JoinNode) (Iterator, error) {
	leftIter, err := run(it, cat, n.Left)
	if err != nil {
		return nil, err
	}
	leftRows, err := drain(leftIter)
	if err != nil {
		return nil, err
	}
	rightIter, err := run(it, cat, n.Right)
	if err != nil {
		return nil, err
	}
	rightRows, err := drain(rightIter)
	if err != nil {
		return nil, err
	}

	rightAliases := nodeAliases(n.Right)
	leftAliases := nodeAliases(n.Left)

	var out []*Row
	rightMatched := make([]bool, len(rightRows))

	for _, lr := range leftRows {
		matchedAny := false
		for ri, rr := range rightRows {
			merged := mergeRows(lr, rr)
			if n.Constraint != nil {
				ok, err := evalTruthy(it, merged, n.Constraint)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			matchedAny = true
			rightMatched[ri] = true
			out = append(out, merged)
		}
		if !matchedAny && (n.Kind == ast.JoinLeft || n.Kind == ast.JoinLeftOuter) {
			out = append(out, mergeRows(lr, nullRow(rightAliases)))
		}
	}
	if n.Kind == ast.JoinRight {
		for ri, rr := range rightRows {
			if !rightMatched[ri] {
				out = append(out, mergeRows(nullRow(leftAliases), rr))
			}
		}
	}
	return &sliceIterator{rows: out}, nil
}

func mergeRows(a, b *Row) *Row {
	out := NewRow()
	for _, name := range a.Columns() {
		v, _ := a.Get(name)
		out.Set(name, v)
	}
	for _, name := range b.Columns() {
		v, _ := b.Get(name)
		out.Set(name, v)
	}
	return out
}

func nullRow(aliases []string) *Row {
	row := NewRow()
	for _, a := range aliases {
		row.Set(a, value.Null{})
	}
	return row
}

// nodeAliases recursively collects the FROM-tree aliases a node's rows
// carry, used to null-pad the opposite side of an outer join when a row
// has no match (§4.6).
func nodeAliases(n planner.Node) []string {
	switch t := n.(type) {
	case *planner.ScanNode:
		return []string{t.Alias}
	case *planner.EvalScanNode:
		return []string{t.Alias}
	case *planner.SubqueryNode:
		return []string{t.Alias}
	case *planner.JoinNode:
		return append(nodeAliases(t.Left), nodeAliases(t.Right)...)
	default:
		return nil
	}
}

// --- Projection -------------------------------------------------------

func buildProjection(it *interpreter.Interpreter, cat *Catalog, n *planner.ProjectionNode) (Iterator, error) {
	upstream, err := run(it, cat, n.Input)
	if err != nil {
		return nil, err
	}
	return &projectionIterator{it: it, upstream: upstream, projection: n.Projection}, nil
}

type projectionIterator struct {
	it         *interpreter.Interpreter
	upstream   Iterator
	projection []ast.SqlProjection
}

func (p *projectionIterator) Next() (*Row, bool, error) {
	row, ok, err := p.upstream.Next()
	if err != nil || !ok {
		return nil, ok, err
	}
	out := NewRow()
	p.it.PushRow(row)
	defer p.it.PopRow()

	for _, proj := range p.projection {
		switch {
		case proj.Wildcard:
			// Spread every upstream alias's columns into the output,
			// flattening object-valued aliases (§4.6).
			for _, alias := range row.Columns() {
				v, _ := row.Get(alias)
				if obj, ok := v.(*value.Object); ok {
					for _, name := range obj.Names() {
						fv, _ := obj.Get(name)
						out.Set(name, fv)
					}
				} else {
					out.Set(alias, v)
				}
			}
		case proj.Collection != "":
			// "copy the one column keyed by alias" (§4.6) — a single
			// pass-through column, not a flattened spread.
			if v, ok := row.Get(proj.Collection); ok {
				out.Set(proj.Collection, v)
			}
		default:
			// An aggregate call's value was already computed by the
			// upstream AggregateNode and stored under its rendered
			// signature — re-evaluating it here would call the bare
			// `avg`/`sum`/... global, which has no Native/Stateful/Closure
			// body and only means anything to the planner/executor.
			var v value.Value
			var err error
			sig := planner.ExprString(proj.Expr)
			if isAggregateCallExpr(proj.Expr) {
				found, ok := row.Get(sig)
				if !ok {
					return nil, false, errs.Spanned(errs.ErrOther.New("aggregate column "+sig+" not found"), proj.Expr.GetSpan())
				}
				v = found
			} else {
				v, err = p.it.Eval(proj.Expr)
				if err != nil {
					return nil, false, err
				}
			}
			name := proj.Alias
			if name == "" {
				name = sig
			}
			out.Set(name, v)
		}
	}
	return out, true, nil
}

// --- Aggregate ----------------------------------------------------------

type aggGroup struct {
	groupValues []value.Value
	aggregators []agg.Aggregator
}

func buildAggregate(it *interpreter.Interpreter, cat *Catalog, n *planner.AggregateNode) (Iterator, error) {
	upstream, err := run(it, cat, n.Input)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*aggGroup)
	var order []string
	sawAnyRow := false

	for {
		row, ok, err := upstream.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		sawAnyRow = true

		it.PushRow(row)
		groupValues := make([]value.Value, len(n.GroupBy))
		for i, g := range n.GroupBy {
			v, err := it.Eval(g)
			if err != nil {
				it.PopRow()
				return nil, err
			}
			groupValues[i] = v
		}

		key := groupKey(groupValues)
		grp, exists := groups[key]
		if !exists {
			grp = &aggGroup{groupValues: groupValues}
			for _, call := range n.Aggregations {
				grp.aggregators = append(grp.aggregators, agg.New(call.FuncName))
			}
			groups[key] = grp
			order = append(order, key)
		}

		for i, call := range n.Aggregations {
			var argVal value.Value
			if isCountStar(call.Arg) {
				argVal = value.Bool(true)
			} else {
				v, err := it.Eval(call.Arg)
				if err != nil {
					it.PopRow()
					return nil, err
				}
				argVal = v
			}
			grp.aggregators[i].Row(argVal)
		}
		it.PopRow()
	}

	// A GROUP-less aggregate over zero input rows still emits one row
	// (e.g. `SELECT count(*) FROM empty`); a grouped aggregate over zero
	// rows emits zero rows.
	if !sawAnyRow && len(n.GroupBy) == 0 {
		grp := &aggGroup{}
		for _, call := range n.Aggregations {
			grp.aggregators = append(grp.aggregators, agg.New(call.FuncName))
		}
		groups[""] = grp
		order = append(order, "")
	}

	var out []*Row
	for _, key := range order {
		grp := groups[key]
		row := NewRow()
		for i, v := range grp.groupValues {
			row.Set(fmt.Sprintf("col_%d", i), v)
		}
		for i, call := range n.Aggregations {
			row.Set(call.Signature, grp.aggregators[i].Finalize())
		}
		out = append(out, row)
	}
	return &sliceIterator{rows: out}, nil
}

// isAggregateCallExpr mirrors pkg/planner's own structural aggregate-call
// recognition (a CallExpr whose callee is a bare VariableExpr named after a
// registered aggregator), duplicated here since the planner's check is
// unexported: the executor needs the same test to know an already-planned
// AggregateNode, not the interpreter, owns that projection expression's
// value.
func isAggregateCallExpr(e ast.Expr) bool {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return false
	}
	v, ok := call.Callee.(*ast.VariableExpr)
	if !ok {
		return false
	}
	for _, name := range agg.Names {
		if v.Name == name {
			return true
		}
	}
	return false
}

func isCountStar(e ast.Expr) bool {
	fp, ok := e.(*ast.FieldPathExpr)
	return ok && fp.Head == "*" && len(fp.Tail) == 0
}

func groupKey(values []value.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = value.SortKey(v)
	}
	return strings.Join(parts, "\x1f")
}

// --- Compound -----------------------------------------------------------

func buildCompound(it *interpreter.Interpreter, cat *Catalog, n *planner.CompoundNode) (Iterator, error) {
	leftIter, err := run(it, cat, n.Left)
	if err != nil {
		return nil, err
	}
	left, err := drain(leftIter)
	if err != nil {
		return nil, err
	}
	rightIter, err := run(it, cat, n.Right)
	if err != nil {
		return nil, err
	}
	right, err := drain(rightIter)
	if err != nil {
		return nil, err
	}

	var out []*Row
	switch n.Op {
	case ast.CompoundUnionAll:
		out = append(append([]*Row{}, left...), right...)
	case ast.CompoundUnion:
		seen := make(map[string]bool)
		for _, r := range append(append([]*Row{}, left...), right...) {
			k := rowKey(r)
			if !seen[k] {
				seen[k] = true
				out = append(out, r)
			}
		}
	case ast.CompoundIntersect:
		rightKeys := make(map[string]bool)
		for _, r := range right {
			rightKeys[rowKey(r)] = true
		}
		seen := make(map[string]bool)
		for _, r := range left {
			k := rowKey(r)
			if rightKeys[k] && !seen[k] {
				seen[k] = true
				out = append(out, r)
			}
		}
	case ast.CompoundExcept:
		rightKeys := make(map[string]bool)
		for _, r := range right {
			rightKeys[rowKey(r)] = true
		}
		seen := make(map[string]bool)
		for _, r := range left {
			k := rowKey(r)
			if !rightKeys[k] && !seen[k] {
				seen[k] = true
				out = append(out, r)
			}
		}
	}
	return &sliceIterator{rows: out}, nil
}

func rowKey(r *Row) string {
	cols := r.Columns()
	parts := make([]string, len(cols))
	for i, name := range cols {
		v, _ := r.Get(name)
		parts[i] = name + "=" + value.SortKey(v)
	}
	return strings.Join(parts, "\x1f")
}

// --- Order / Limit / Offset ---------------------------------------------

func buildOrder(it *interpreter.Interpreter, cat *Catalog, n *planner.OrderNode) (Iterator, error) {
	upstream, err := run(it, cat, n.Input)
	if err != nil {
		return nil, err
	}
	rows, err := drain(upstream)
	if err != nil {
		return nil, err
	}

	keys := make([][]value.Value, len(rows))
	for i, row := range rows {
		it.PushRow(row)
		k := make([]value.Value, len(n.Terms))
		for ti, term := range n.Terms {
			v, err := it.Eval(term.Expr)
			if err != nil {
				it.PopRow()
				return nil, err
			}
			k[ti] = v
		}
		it.PopRow()
		keys[i] = k
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		for ti, term := range n.Terms {
			cmp := value.Compare(ka[ti], kb[ti])
			if cmp == 0 {
				continue
			}
			less := cmp < 0
			if term.Direction == ast.Desc {
				return !less
			}
			return less
		}
		return false
	})

	out := make([]*Row, len(rows))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return &sliceIterator{rows: out}, nil
}

func buildLimit(it *interpreter.Interpreter, cat *Catalog, n *planner.LimitNode) (Iterator, error) {
	upstream, err := run(it, cat, n.Input)
	if err != nil {
		return nil, err
	}
	rows, err := drain(upstream)
	if err != nil {
		return nil, err
	}
	count, err := evalCount(it, n.Count)
	if err != nil {
		return nil, err
	}
	if count < len(rows) {
		rows = rows[:count]
	}
	return &sliceIterator{rows: rows}, nil
}

func buildOffset(it *interpreter.Interpreter, cat *Catalog, n *planner.OffsetNode) (Iterator, error) {
	upstream, err := run(it, cat, n.Input)
	if err != nil {
		return nil, err
	}
	rows, err := drain(upstream)
	if err != nil {
		return nil, err
	}
	count, err := evalCount(it, n.Count)
	if err != nil {
		return nil, err
	}
	if count > len(rows) {
		count = len(rows)
	}
	return &sliceIterator{rows: rows[count:]}, nil
}

func evalCount(it *interpreter.Interpreter, e ast.Expr) (int, error) {
	v, err := it.Eval(e)
	if err != nil {
		return 0, err
	}
	n, ok := value.AsNumber(v)
	if !ok {
		return 0, errs.Spanned(errs.ErrInvalidArgumentType.New("number"), e.GetSpan())
	}
	if n < 0 {
		n = 0
	}
	return int(n), nil
}
