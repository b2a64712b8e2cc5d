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

// Package planner implements §4.5: turning a SQL AST subtree into a
// validated logical plan, one node type per plan shape (ProjectionNode,
// FilterNode, JoinNode, ...), sized to this project's smaller operator set.
package planner

import (
	"fmt"
	"strings"

	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
)

// Node is one logical plan operator. String renders the plan the way §8
// scenario 6 expects for test assertions and debugging (`--print-ast`-style
// tooling).
type Node interface {
	fmt.Stringer
	isPlanNode()
}

// ScanNode reads every row of a named collection (§4.6: simulated in the
// in-memory catalog absent storage-engine wiring).
type ScanNode struct {
	Alias      string
	Collection ast.SqlCollectionIdentifier
}

func (*ScanNode) isPlanNode() {}
func (n *ScanNode) String() string {
	name := n.Collection.Name
	if n.Collection.Namespace != "" {
		name = n.Collection.Namespace + "." + name
	}
	return fmt.Sprintf("Scan(%s as %s)", name, n.Alias)
}

// EvalScanNode evaluates a scripting expression once and iterates its
// result (§4.6).
type EvalScanNode struct {
	Alias  string
	Source ast.Expr
}

func (*EvalScanNode) isPlanNode() {}
func (n *EvalScanNode) String() string {
	return fmt.Sprintf("EvalScan(%s as %s)", ExprString(n.Source), n.Alias)
}

// SingleRowNode represents a FROM-less SELECT: exactly one row with no
// columns, e.g. `SELECT 1+1;`.
type SingleRowNode struct{}

func (*SingleRowNode) isPlanNode() {}
func (*SingleRowNode) String() string { return "SingleRow()" }

// SubqueryNode wraps a fully planned inner SELECT, exposed under Alias.
type SubqueryNode struct {
	Alias string
	Inner Node
}

func (*SubqueryNode) isPlanNode() {}
func (n *SubqueryNode) String() string {
	return fmt.Sprintf("Subquery(%s as %s)", n.Inner, n.Alias)
}

// JoinNode is a Cartesian product plus constraint evaluation, or a CROSS
// join when Constraint is nil (§4.6).
type JoinNode struct {
	Left, Right Node
	Kind        ast.JoinKind
	Constraint  ast.Expr
}

func (*JoinNode) isPlanNode() {}
func (n *JoinNode) String() string {
	if n.Constraint == nil {
		return fmt.Sprintf("Join(%s)[%s, %s]", joinKindString(n.Kind), n.Left, n.Right)
	}
	return fmt.Sprintf("Join(%s, %s)[%s, %s]", joinKindString(n.Kind), ExprString(n.Constraint), n.Left, n.Right)
}

func joinKindString(k ast.JoinKind) string {
	switch k {
	case ast.JoinInner:
		return "Inner"
	case ast.JoinLeft, ast.JoinLeftOuter:
		return "LeftOuter"
	case ast.JoinRight:
		return "RightOuter"
	case ast.JoinCross:
		return "Cross"
	default:
		return "Unknown"
	}
}

// FilterNode keeps upstream rows where Predicate is truthy; Clause records
// which SQL clause it came from ("WHERE" or "HAVING"), used only for the
// rendered plan and error messages.
type FilterNode struct {
	Input     Node
	Predicate ast.Expr
	Clause    string
}

func (*FilterNode) isPlanNode() {}
func (n *FilterNode) String() string {
	return fmt.Sprintf("Filter(%s) → %s", ExprString(n.Predicate), n.Input)
}

// AggregateCall is one planned aggregate invocation: FuncName is one of
// pkg/stdlib/agg.Names, Arg is its single argument expression, and
// Signature is the rendered call text used as the output row's column name
// when no alias is given (e.g. `avg(price)`).
type AggregateCall struct {
	FuncName  string
	Arg       ast.Expr
	Signature string
}

// AggregateNode computes one row per distinct GroupBy key tuple, carrying
// each aggregate's finalized value (§4.6).
type AggregateNode struct {
	Input        Node
	GroupBy      []ast.Expr
	Aggregations []AggregateCall
}

func (*AggregateNode) isPlanNode() {}
func (n *AggregateNode) String() string {
	names := make([]string, len(n.Aggregations))
	for i, a := range n.Aggregations {
		names[i] = a.Signature
	}
	return fmt.Sprintf("Aggregate(%s)[%s]", strings.Join(names, ", "), n.Input)
}

// ProjectionNode builds output rows per the projection list (§4.6). A bare
// `*` projection with no other columns renders as a no-op (its input's own
// String), matching the convention that a trivial `SELECT *` doesn't add a
// visible layer to the plan.
type ProjectionNode struct {
	Input      Node
	Projection []ast.SqlProjection
}

func (*ProjectionNode) isPlanNode() {}
func (n *ProjectionNode) String() string {
	if len(n.Projection) == 1 && n.Projection[0].Wildcard && n.Projection[0].Collection == "" {
		return n.Input.String()
	}
	parts := make([]string, len(n.Projection))
	for i, p := range n.Projection {
		parts[i] = projectionString(p)
	}
	return fmt.Sprintf("Projection(%s)[%s]", strings.Join(parts, ", "), n.Input)
}

func projectionString(p ast.SqlProjection) string {
	switch {
	case p.Wildcard:
		return "*"
	case p.Collection != "":
		return p.Collection + ".*"
	case p.Alias != "":
		return fmt.Sprintf("%s AS %s", ExprString(p.Expr), p.Alias)
	default:
		return ExprString(p.Expr)
	}
}

// CompoundNode combines two planned SELECTs with a set operator (§4.6).
type CompoundNode struct {
	Left, Right Node
	Op          ast.CompoundOp
}

func (*CompoundNode) isPlanNode() {}
func (n *CompoundNode) String() string {
	return fmt.Sprintf("Compound(%s)[%s, %s]", compoundOpString(n.Op), n.Left, n.Right)
}

func compoundOpString(op ast.CompoundOp) string {
	switch op {
	case ast.CompoundUnion:
		return "Union"
	case ast.CompoundUnionAll:
		return "UnionAll"
	case ast.CompoundIntersect:
		return "Intersect"
	case ast.CompoundExcept:
		return "Except"
	default:
		return "Unknown"
	}
}

// OrderNode stable-sorts upstream rows by Terms (§4.6).
type OrderNode struct {
	Input Node
	Terms []ast.SqlOrderingTerm
}

func (*OrderNode) isPlanNode() {}
func (n *OrderNode) String() string {
	parts := make([]string, len(n.Terms))
	for i, t := range n.Terms {
		dir := "ASC"
		if t.Direction == ast.Desc {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", ExprString(t.Expr), dir)
	}
	return fmt.Sprintf("Order(%s)[%s]", strings.Join(parts, ", "), n.Input)
}

// LimitNode/OffsetNode positionally truncate upstream rows (§4.6).
type LimitNode struct {
	Input Node
	Count ast.Expr
}

func (*LimitNode) isPlanNode() {}
func (n *LimitNode) String() string {
	return fmt.Sprintf("Limit(%s)[%s]", ExprString(n.Count), n.Input)
}

type OffsetNode struct {
	Input Node
	Count ast.Expr
}

func (*OffsetNode) isPlanNode() {}
func (n *OffsetNode) String() string {
	return fmt.Sprintf("Offset(%s)[%s]", ExprString(n.Count), n.Input)
}
