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

// Package ast defines the tagged-variant AST for LykiaDB's script and SQL
// surface (§3). Expr and Stmt are interfaces implemented by one Go struct
// per variant, an interface-per-node design with one concrete type per
// syntactic shape.
package ast

import "github.com/lykia-rs/lykiadb-sub002/pkg/token"

// Operation is a binary/unary/logical operator tag.
type Operation int

const (
	OpAdd Operation = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpIsEqual
	OpIsNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
	OpAnd
	OpOr
	OpNot
	OpNegate
)

// Expr is implemented by every expression node. Accept enables the visitor
// double-dispatch pattern recovered from
// original_source/lykiadb-lang/src/ast/visitor.rs.
type Expr interface {
	token.Spanned
	exprNode()
	Accept(v Visitor) (interface{}, error)
}

type BaseExpr struct {
	Span token.Span
}

func (b BaseExpr) GetSpan() token.Span { return b.Span }
func (BaseExpr) exprNode()             {}

// LiteralExpr holds a number/string/bool/null/undefined literal. Raw
// preserves the original source slice for numbers (§4.1).
type LiteralExpr struct {
	BaseExpr
	Value interface{} // float64, string, bool, nil (Null), Undefined{}
	Raw   string
}

func (e *LiteralExpr) Accept(v Visitor) (interface{}, error) { return v.VisitLiteralExpr(e) }

// Undefined is the tag value used as LiteralExpr.Value for the `undefined`
// literal, distinguishing it from Null (nil).
type Undefined struct{}

// ObjectExpr is an object literal: ordered field name -> subexpression.
type ObjectExpr struct {
	BaseExpr
	Names  []string
	Values []Expr
}

func (e *ObjectExpr) Accept(v Visitor) (interface{}, error) { return v.VisitObjectExpr(e) }

// ArrayExpr is an array literal: an ordered sequence of subexpressions.
type ArrayExpr struct {
	BaseExpr
	Elements []Expr
}

func (e *ArrayExpr) Accept(v Visitor) (interface{}, error) { return v.VisitArrayExpr(e) }

// VariableExpr references a name. ID is the stable node identity (§3) used
// as the resolver's locals-map key.
type VariableExpr struct {
	BaseExpr
	Name   string
	Dollar bool
	ID     uint64
}

func (e *VariableExpr) Accept(v Visitor) (interface{}, error) { return v.VisitVariableExpr(e) }

// AssignmentExpr assigns Value to the variable named Name. ID is the
// resolver key, distinct from any VariableExpr's ID for the same name.
type AssignmentExpr struct {
	BaseExpr
	Name  string
	Value Expr
	ID    uint64
}

func (e *AssignmentExpr) Accept(v Visitor) (interface{}, error) { return v.VisitAssignmentExpr(e) }

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	BaseExpr
	Inner Expr
}

func (e *GroupingExpr) Accept(v Visitor) (interface{}, error) { return v.VisitGroupingExpr(e) }

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	BaseExpr
	Op      Operation
	Operand Expr
}

func (e *UnaryExpr) Accept(v Visitor) (interface{}, error) { return v.VisitUnaryExpr(e) }

// BinaryExpr is an arithmetic or comparison binary expression.
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    Operation
	Right Expr
}

func (e *BinaryExpr) Accept(v Visitor) (interface{}, error) { return v.VisitBinaryExpr(e) }

// LogicalExpr is a short-circuiting `and`/`or` expression.
type LogicalExpr struct {
	BaseExpr
	Left  Expr
	Op    Operation
	Right Expr
}

func (e *LogicalExpr) Accept(v Visitor) (interface{}, error) { return v.VisitLogicalExpr(e) }

// FunctionExpr is a (possibly anonymous) function literal.
type FunctionExpr struct {
	BaseExpr
	Name       string // "" if anonymous
	Parameters []string
	Body       []Stmt
}

func (e *FunctionExpr) Accept(v Visitor) (interface{}, error) { return v.VisitFunctionExpr(e) }

// CallExpr applies Callee to Args.
type CallExpr struct {
	BaseExpr
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Accept(v Visitor) (interface{}, error) { return v.VisitCallExpr(e) }

// GetExpr reads a property off Object.
type GetExpr struct {
	BaseExpr
	Object Expr
	Name   string
}

func (e *GetExpr) Accept(v Visitor) (interface{}, error) { return v.VisitGetExpr(e) }

// SetExpr writes Value into a property of Object.
type SetExpr struct {
	BaseExpr
	Object Expr
	Name   string
	Value  Expr
}

func (e *SetExpr) Accept(v Visitor) (interface{}, error) { return v.VisitSetExpr(e) }

// FieldPathExpr is a dotted SQL identifier path (e.g. `b.category_id`), used
// only in SQL subtrees.
type FieldPathExpr struct {
	BaseExpr
	Head string
	Tail []string
}

func (e *FieldPathExpr) Accept(v Visitor) (interface{}, error) { return v.VisitFieldPathExpr(e) }

// SelectExpr, InsertExpr, UpdateExpr, DeleteExpr embed the SQL subtrees
// defined in sql.go so they can appear in expression position, per §3.
type SelectExpr struct {
	BaseExpr
	Query *SqlSelect
}

func (e *SelectExpr) Accept(v Visitor) (interface{}, error) { return v.VisitSelectExpr(e) }

type InsertExpr struct {
	BaseExpr
	Command *SqlInsert
}

func (e *InsertExpr) Accept(v Visitor) (interface{}, error) { return v.VisitInsertExpr(e) }

type UpdateExpr struct {
	BaseExpr
	Command *SqlUpdate
}

func (e *UpdateExpr) Accept(v Visitor) (interface{}, error) { return v.VisitUpdateExpr(e) }

type DeleteExpr struct {
	BaseExpr
	Command *SqlDelete
}

func (e *DeleteExpr) Accept(v Visitor) (interface{}, error) { return v.VisitDeleteExpr(e) }

// NewSpan is a small helper constructor used pervasively by the parser.
func NewSpan(start, end, line, lineEnd int) token.Span {
	return token.Span{Start: start, End: end, Line: line, LineEnd: lineEnd}
}
