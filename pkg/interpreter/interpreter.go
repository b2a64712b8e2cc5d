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

// Package interpreter implements §4.4: a tree-walking evaluator over the
// resolved AST, producing pkg/value.Value results against pkg/env.Environment
// frames. It implements ast.Visitor the same way pkg/lang/resolver does, a
// double-dispatch evaluation style adapted to an imperative scripting
// language.
package interpreter

import (
	"fmt"

	"github.com/lykia-rs/lykiadb-sub002/pkg/env"
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/resolver"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Interpreter holds one program's evaluation state: the current lexical
// frame, the resolver's locals map, captured test output, and a handle to
// the SQL engine (planner+executor) used to evaluate SELECT/INSERT/UPDATE/
// DELETE expressions. It does not itself import pkg/planner or pkg/executor
// to avoid a cycle (those packages import *Interpreter); SQL is wired in
// after construction via SetSQLEngine.
type Interpreter struct {
	env    *env.Environment
	locals resolver.Locals
	out    *OutputSink
	sql    SQLEngine

	// rows is a stack of the per-row lookup scopes currently being
	// evaluated by the executor (innermost last), consulted by
	// VisitFieldPathExpr. It is intentionally separate from the lexical
	// env chain: row columns never shadow or are shadowed by script
	// variables, they're looked up through an entirely different
	// mechanism keyed by FROM alias rather than by block nesting.
	rows []RowLookup

	lastValue value.Value
}

// RowLookup is implemented by pkg/executor's row representation so the
// interpreter can resolve FieldPathExpr without importing the executor.
type RowLookup interface {
	Get(alias string) (value.Value, bool)
}

// SQLEngine is implemented by pkg/executor (composing pkg/planner) and
// wired into the interpreter by pkg/session at startup.
type SQLEngine interface {
	ExecuteSelect(it *Interpreter, q *ast.SqlSelect) (value.Value, error)
	ExecuteInsert(it *Interpreter, ins *ast.SqlInsert) (value.Value, error)
	ExecuteUpdate(it *Interpreter, upd *ast.SqlUpdate) (value.Value, error)
	ExecuteDelete(it *Interpreter, del *ast.SqlDelete) (value.Value, error)
}

// New creates an interpreter with a fresh root environment. Stdlib modules
// are installed into Root() by pkg/session, not here, so this package stays
// agnostic of which modules exist.
func New(locals resolver.Locals) *Interpreter {
	if locals == nil {
		locals = make(resolver.Locals)
	}
	return &Interpreter{
		env:    env.New(),
		locals: locals,
		out:    NewOutputSink(),
	}
}

// Root returns the outermost environment frame, where stdlib is installed.
func (it *Interpreter) Root() *env.Environment { return it.env.Root() }

// SetSQLEngine wires the planner+executor in. Called once during session
// setup (§4.11).
func (it *Interpreter) SetSQLEngine(e SQLEngine) { it.sql = e }

// SetLocals replaces the resolver's locals map, used when a REPL session
// resolves newly-typed statements against the same running interpreter.
func (it *Interpreter) SetLocals(locals resolver.Locals) { it.locals = locals }

// Output returns the sink TestUtils.out appends to.
func (it *Interpreter) Output() *OutputSink { return it.out }

// PushRow makes row the innermost scope FieldPathExpr resolves against,
// used by the executor around per-row projection/filter/having evaluation.
func (it *Interpreter) PushRow(row RowLookup) { it.rows = append(it.rows, row) }

// PopRow undoes the most recent PushRow.
func (it *Interpreter) PopRow() { it.rows = it.rows[:len(it.rows)-1] }

// Run evaluates every top-level statement in order and returns the value of
// the last ExpressionStmt encountered (Undefined if there was none). A
// control signal escaping to this point (bare top-level break/continue/
// return) is reported as ErrUnexpectedStatement (§4.4).
func (it *Interpreter) Run(prog *ast.ProgramStmt) (value.Value, error) {
	it.lastValue = value.Undefined{}
	for _, s := range prog.Statements {
		if err := it.Exec(s); err != nil {
			if isControlSignal(err) {
				return nil, errs.Spanned(errs.ErrUnexpectedStatement.New(), s.GetSpan())
			}
			return nil, err
		}
	}
	return it.lastValue, nil
}

// Exec runs one statement, returning a possibly-control-signal error.
func (it *Interpreter) Exec(s ast.Stmt) error {
	_, err := s.Accept(it)
	return err
}

// Eval evaluates one expression to a Value.
func (it *Interpreter) Eval(e ast.Expr) (value.Value, error) {
	res, err := e.Accept(it)
	if err != nil {
		return nil, err
	}
	v, _ := res.(value.Value)
	if v == nil {
		v = value.Undefined{}
	}
	return v, nil
}

// --- statements --------------------------------------------------------

func (it *Interpreter) VisitProgramStmt(s *ast.ProgramStmt) (interface{}, error) {
	for _, st := range s.Statements {
		if err := it.Exec(st); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (it *Interpreter) VisitExpressionStmt(s *ast.ExpressionStmt) (interface{}, error) {
	v, err := it.Eval(s.Expression)
	if err != nil {
		return nil, err
	}
	it.lastValue = v
	return nil, nil
}

func (it *Interpreter) VisitDeclarationStmt(s *ast.DeclarationStmt) (interface{}, error) {
	val := value.Value(value.Undefined{})
	if s.Initializer != nil {
		v, err := it.Eval(s.Initializer)
		if err != nil {
			return nil, err
		}
		val = v
	}
	it.env.Declare(s.Name, val)
	return nil, nil
}

func (it *Interpreter) VisitBlockStmt(s *ast.BlockStmt) (interface{}, error) {
	prev := it.env
	it.env = prev.Child()
	defer func() { it.env = prev }()
	for _, st := range s.Statements {
		if err := it.Exec(st); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (it *Interpreter) VisitIfStmt(s *ast.IfStmt) (interface{}, error) {
	cond, err := it.Eval(s.Condition)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return nil, it.Exec(s.Then)
	}
	if s.ElseBranch != nil {
		return nil, it.Exec(s.ElseBranch)
	}
	return nil, nil
}

func (it *Interpreter) VisitLoopStmt(s *ast.LoopStmt) (interface{}, error) {
	for {
		if s.Condition != nil {
			cond, err := it.Eval(s.Condition)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(cond) {
				break
			}
		}
		if err := it.Exec(s.Body); err != nil {
			if _, ok := err.(*breakSignal); ok {
				break
			}
			if _, ok := err.(*continueSignal); !ok {
				return nil, err
			}
			// continueSignal falls through to the post-step below.
		}
		if s.Post != nil {
			if err := it.Exec(s.Post); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func (it *Interpreter) VisitBreakStmt(s *ast.BreakStmt) (interface{}, error) {
	return nil, &breakSignal{}
}

func (it *Interpreter) VisitContinueStmt(s *ast.ContinueStmt) (interface{}, error) {
	return nil, &continueSignal{}
}

func (it *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) (interface{}, error) {
	val := value.Value(value.Undefined{})
	if s.Value != nil {
		v, err := it.Eval(s.Value)
		if err != nil {
			return nil, err
		}
		val = v
	}
	return nil, &returnSignal{Value: val}
}

// --- literal/composite expressions --------------------------------------

func (it *Interpreter) VisitLiteralExpr(e *ast.LiteralExpr) (interface{}, error) {
	return litToValue(e.Value), nil
}

func litToValue(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null{}
	case ast.Undefined:
		return value.Undefined{}
	case float64:
		return value.Num(t)
	case string:
		return value.Str(t)
	case bool:
		return value.Bool(t)
	default:
		return value.FromGo(v)
	}
}

func (it *Interpreter) VisitObjectExpr(e *ast.ObjectExpr) (interface{}, error) {
	obj := value.NewObject()
	for i, name := range e.Names {
		v, err := it.Eval(e.Values[i])
		if err != nil {
			return nil, err
		}
		obj.Set(name, v)
	}
	return obj, nil
}

func (it *Interpreter) VisitArrayExpr(e *ast.ArrayExpr) (interface{}, error) {
	elems := make([]value.Value, 0, len(e.Elements))
	for _, el := range e.Elements {
		v, err := it.Eval(el)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return value.NewArray(elems), nil
}

func (it *Interpreter) VisitGroupingExpr(e *ast.GroupingExpr) (interface{}, error) {
	return it.Eval(e.Inner)
}

// --- variables -----------------------------------------------------------

func (it *Interpreter) VisitVariableExpr(e *ast.VariableExpr) (interface{}, error) {
	if distance, ok := it.locals[e.ID]; ok {
		if v, found := it.env.GetAt(distance, e.Name); found {
			return v, nil
		}
	} else if v, found := it.env.GetGlobal(e.Name); found {
		return v, nil
	}
	return nil, errs.Spanned(errs.ErrUndefinedVariable.New(e.Name), e.GetSpan())
}

func (it *Interpreter) VisitAssignmentExpr(e *ast.AssignmentExpr) (interface{}, error) {
	val, err := it.Eval(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := it.locals[e.ID]; ok {
		if it.env.AssignAt(distance, e.Name, val) {
			return val, nil
		}
	} else if it.env.AssignGlobal(e.Name, val) {
		return val, nil
	}
	return nil, errs.Spanned(errs.ErrAssignUndefinedVariable.New(e.Name), e.GetSpan())
}

// --- operators -------------------------------------------------------------

func (it *Interpreter) VisitUnaryExpr(e *ast.UnaryExpr) (interface{}, error) {
	operand, err := it.Eval(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpNegate:
		return value.UnaryNegate(operand), nil
	case ast.OpNot:
		return value.UnaryNot(operand), nil
	default:
		return nil, errs.Spanned(errs.ErrOther.New(fmt.Sprintf("unknown unary operator %d", e.Op)), e.GetSpan())
	}
}

func (it *Interpreter) VisitBinaryExpr(e *ast.BinaryExpr) (interface{}, error) {
	left, err := it.Eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.Eval(e.Right)
	if err != nil {
		return nil, err
	}
	return value.Binary(left, e.Op, right), nil
}

func (it *Interpreter) VisitLogicalExpr(e *ast.LogicalExpr) (interface{}, error) {
	left, err := it.Eval(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == ast.OpAnd {
		if !value.Truthy(left) {
			return left, nil
		}
		return it.Eval(e.Right)
	}
	if value.Truthy(left) {
		return left, nil
	}
	return it.Eval(e.Right)
}

// --- objects/properties -----------------------------------------------

func (it *Interpreter) VisitGetExpr(e *ast.GetExpr) (interface{}, error) {
	obj, err := it.Eval(e.Object)
	if err != nil {
		return nil, err
	}
	o, ok := obj.(*value.Object)
	if !ok {
		return nil, errs.Spanned(errs.ErrInvalidPropertyAccess.New(describeKind(obj)), e.GetSpan())
	}
	v, found := o.Get(e.Name)
	if !found {
		return nil, errs.Spanned(errs.ErrPropertyNotFound.New(e.Name), e.GetSpan())
	}
	return v, nil
}

func (it *Interpreter) VisitSetExpr(e *ast.SetExpr) (interface{}, error) {
	obj, err := it.Eval(e.Object)
	if err != nil {
		return nil, err
	}
	o, ok := obj.(*value.Object)
	if !ok {
		return nil, errs.Spanned(errs.ErrInvalidPropertyAccess.New(describeKind(obj)), e.GetSpan())
	}
	val, err := it.Eval(e.Value)
	if err != nil {
		return nil, err
	}
	o.Set(e.Name, val)
	return val, nil
}

func describeKind(v value.Value) string {
	switch v.(type) {
	case value.Num:
		return "a number"
	case value.Str:
		return "a string"
	case value.Bool:
		return "a boolean"
	case *value.Array:
		return "an array"
	case *value.Callable:
		return "a function"
	default:
		return "this value"
	}
}

// --- functions -------------------------------------------------------------

func (it *Interpreter) VisitFunctionExpr(e *ast.FunctionExpr) (interface{}, error) {
	arity := len(e.Parameters)
	return &value.Callable{
		Arity:      &arity,
		Kind:       value.KindGeneric,
		Name:       e.Name,
		Parameters: e.Parameters,
		Closure:    it.env,
		Body:       e.Body,
	}, nil
}

// --- SQL subtree expressions ---------------------------------------------

func (it *Interpreter) VisitFieldPathExpr(e *ast.FieldPathExpr) (interface{}, error) {
	for i := len(it.rows) - 1; i >= 0; i-- {
		if v, ok := it.rows[i].Get(e.Head); ok {
			return resolveTail(v, e.Tail, e)
		}
	}
	return nil, errs.Spanned(errs.ErrPropertyNotFound.New(e.Head), e.GetSpan())
}

func resolveTail(v value.Value, tail []string, e *ast.FieldPathExpr) (value.Value, error) {
	cur := v
	for _, seg := range tail {
		obj, ok := cur.(*value.Object)
		if !ok {
			return nil, errs.Spanned(errs.ErrInvalidPropertyAccess.New(describeKind(cur)), e.GetSpan())
		}
		next, found := obj.Get(seg)
		if !found {
			return nil, errs.Spanned(errs.ErrPropertyNotFound.New(seg), e.GetSpan())
		}
		cur = next
	}
	return cur, nil
}
