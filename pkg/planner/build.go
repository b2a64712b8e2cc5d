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

package planner

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
)

// BuildSelect validates q and lowers it into a Node tree, per §4.5's five
// steps: build the FROM tree, collect and validate aggregate calls, stack
// WHERE/aggregation/HAVING/projection, glue compound parts, then apply
// ORDER BY/LIMIT/OFFSET to the whole chain.
func BuildSelect(q *ast.SqlSelect) (Node, error) {
	node, err := buildCore(q.Core)
	if err != nil {
		return nil, err
	}

	for _, part := range q.Compound {
		right, err := buildCore(part.Core)
		if err != nil {
			return nil, err
		}
		node = &CompoundNode{Left: node, Right: right, Op: part.Op}
	}

	for _, term := range q.OrderBy {
		if containsSubquery(term.Expr) {
			return nil, errs.Spanned(errs.ErrSubqueryNotAllowed.New(), q.Span)
		}
	}
	if len(q.OrderBy) > 0 {
		node = &OrderNode{Input: node, Terms: q.OrderBy}
	}
	if q.Limit != nil {
		node = &LimitNode{Input: node, Count: q.Limit}
	}
	if q.Offset != nil {
		node = &OffsetNode{Input: node, Count: q.Offset}
	}
	return node, nil
}

// buildCore lowers one SELECT core (no compound tail, no ORDER/LIMIT/OFFSET).
func buildCore(core *ast.SqlSelectCore) (Node, error) {
	var node Node
	if core.From == nil {
		node = &SingleRowNode{}
	} else {
		var err error
		node, err = buildFrom(core.From, map[string]bool{})
		if err != nil {
			return nil, err
		}
	}

	// Step 2: collect aggregate calls from the projection list and HAVING
	// only — an aggregate in WHERE or GROUP BY is rejected below, and ON is
	// not scanned (§4.5, §4.6).
	var aggCalls []*ast.CallExpr
	for _, p := range core.Projection {
		if p.Expr == nil {
			continue
		}
		found, err := scanAggregates(p.Expr, false)
		if err != nil {
			return nil, err
		}
		aggCalls = append(aggCalls, found...)
	}
	if core.Having != nil {
		found, err := scanAggregates(core.Having, false)
		if err != nil {
			return nil, err
		}
		aggCalls = append(aggCalls, found...)
	}

	if core.Where != nil {
		if rejected, _ := scanAggregates(core.Where, false); len(rejected) > 0 {
			return nil, errs.Spanned(errs.ErrAggregationNotAllowed.New("WHERE"), core.Where.GetSpan())
		}
		// WHERE is one of the clauses subqueries are allowed in (§4.5 step 4).
		node = &FilterNode{Input: node, Predicate: core.Where, Clause: "WHERE"}
	}

	for _, g := range core.GroupBy {
		if containsSubquery(g) {
			return nil, errs.Spanned(errs.ErrSubqueryNotAllowed.New(), core.Span)
		}
		if found, _ := scanAggregates(g, false); len(found) > 0 {
			return nil, errs.Spanned(errs.ErrAggregationNotAllowed.New("GROUP BY"), g.GetSpan())
		}
	}

	hasWildcard := false
	for _, p := range core.Projection {
		if p.Wildcard || p.Collection != "" {
			hasWildcard = true
		}
	}

	if len(aggCalls) > 0 {
		if hasWildcard {
			return nil, errs.Spanned(errs.ErrSelectAllWithAggregationNotAllowed.New(), core.Span)
		}
		calls, err := buildAggregateCalls(aggCalls)
		if err != nil {
			return nil, err
		}
		node = &AggregateNode{Input: node, GroupBy: core.GroupBy, Aggregations: calls}
	} else if core.Having != nil {
		return nil, errs.Spanned(errs.ErrHavingWithoutAggregationNotAllowed.New(), core.Span)
	} else if len(core.GroupBy) > 0 {
		node = &AggregateNode{Input: node, GroupBy: core.GroupBy, Aggregations: nil}
	}

	if core.Having != nil {
		node = &FilterNode{Input: node, Predicate: core.Having, Clause: "HAVING"}
	}

	node = &ProjectionNode{Input: node, Projection: core.Projection}
	return node, nil
}

// buildFrom lowers one FROM-tree node, tracking aliases already bound in
// seen to reject duplicates (§4.5 step 1, ErrDuplicateObjectInScope).
func buildFrom(f *ast.SqlFrom, seen map[string]bool) (Node, error) {
	switch f.Kind {
	case ast.FromCollection:
		alias := f.Collection.EffectiveAlias()
		if seen[alias] {
			return nil, errs.Spanned(errs.ErrDuplicateObjectInScope.New(alias), f.Span)
		}
		seen[alias] = true
		return &ScanNode{Alias: alias, Collection: f.Collection}, nil

	case ast.FromExpr:
		if seen[f.Alias] {
			return nil, errs.Spanned(errs.ErrDuplicateObjectInScope.New(f.Alias), f.Span)
		}
		seen[f.Alias] = true
		return &EvalScanNode{Alias: f.Alias, Source: f.Source}, nil

	case ast.FromSubquery:
		if seen[f.Alias] {
			return nil, errs.Spanned(errs.ErrDuplicateObjectInScope.New(f.Alias), f.Span)
		}
		seen[f.Alias] = true
		inner, err := BuildSelect(f.Subquery)
		if err != nil {
			return nil, err
		}
		return &SubqueryNode{Alias: f.Alias, Inner: inner}, nil

	case ast.FromGroup:
		var node Node
		for _, member := range f.Group {
			n, err := buildFrom(member, seen)
			if err != nil {
				return nil, err
			}
			if node == nil {
				node = n
				continue
			}
			node = &JoinNode{Left: node, Right: n, Kind: ast.JoinCross, Constraint: nil}
		}
		return node, nil

	case ast.FromJoin:
		if f.Constraint != nil && containsSubquery(f.Constraint) {
			return nil, errs.Spanned(errs.ErrSubqueryNotAllowed.New(), f.Span)
		}
		left, err := buildFrom(f.Left, seen)
		if err != nil {
			return nil, err
		}
		right, err := buildFrom(f.Right, seen)
		if err != nil {
			return nil, err
		}
		return &JoinNode{Left: left, Right: right, Kind: f.JoinKind, Constraint: f.Constraint}, nil

	default:
		return nil, errs.Spanned(errs.ErrOther.New("unknown FROM node kind"), f.Span)
	}
}
