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

// Package resolver implements §4.3: lexical scope resolution producing an
// expr-id -> ancestor-hop-distance locals map, required before interpretation.
package resolver

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
)

// Locals is the expr-id -> hop-distance map attached to a program after
// resolving (§3). Entries are absent for names not found in any scope
// (treated as globals).
type Locals map[uint64]int

// scope maps name -> defined. false means "declared but initializer not
// yet evaluated", catching self-referential initializers.
type scope map[string]bool

// Resolver walks a program's AST tracking a stack of lexical scopes.
// Resolving is purely additive to Locals and is idempotent: calling Resolve
// again with the same Locals forwarded reproduces it (§4.3).
type Resolver struct {
	scopes []scope
	locals Locals
}

// New creates a Resolver seeded with a possibly non-empty locals map from a
// prior resolve pass (REPL continuity, §4.11).
func New(seed Locals) *Resolver {
	if seed == nil {
		seed = make(Locals)
	}
	return &Resolver{locals: seed}
}

// Resolve walks prog and returns the (possibly extended) locals map.
func Resolve(prog *ast.ProgramStmt, seed Locals) (Locals, error) {
	r := New(seed)
	for _, s := range prog.Statements {
		if err := r.resolveStmt(s); err != nil {
			return nil, err
		}
	}
	return r.locals, nil
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, make(scope)) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(id uint64, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: a global, no entry written.
}

// --- statements ------------------------------------------------------------

func (r *Resolver) resolveStmt(s ast.Stmt) error {
	_, err := s.Accept(r)
	return err
}

func (r *Resolver) resolveExpr(e ast.Expr) error {
	if e == nil {
		return nil
	}
	_, err := e.Accept(r)
	return err
}

func (r *Resolver) VisitProgramStmt(s *ast.ProgramStmt) (interface{}, error) {
	for _, st := range s.Statements {
		if err := r.resolveStmt(st); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitExpressionStmt(s *ast.ExpressionStmt) (interface{}, error) {
	return nil, r.resolveExpr(s.Expression)
}

func (r *Resolver) VisitDeclarationStmt(s *ast.DeclarationStmt) (interface{}, error) {
	r.declare(s.Name)
	if s.Initializer != nil {
		if err := r.resolveExpr(s.Initializer); err != nil {
			return nil, err
		}
	}
	r.define(s.Name)
	return nil, nil
}

func (r *Resolver) VisitBlockStmt(s *ast.BlockStmt) (interface{}, error) {
	r.beginScope()
	defer r.endScope()
	for _, st := range s.Statements {
		if err := r.resolveStmt(st); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitIfStmt(s *ast.IfStmt) (interface{}, error) {
	if err := r.resolveExpr(s.Condition); err != nil {
		return nil, err
	}
	if err := r.resolveStmt(s.Then); err != nil {
		return nil, err
	}
	if s.ElseBranch != nil {
		if err := r.resolveStmt(s.ElseBranch); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitLoopStmt(s *ast.LoopStmt) (interface{}, error) {
	if s.Condition != nil {
		if err := r.resolveExpr(s.Condition); err != nil {
			return nil, err
		}
	}
	if err := r.resolveStmt(s.Body); err != nil {
		return nil, err
	}
	if s.Post != nil {
		if err := r.resolveStmt(s.Post); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitBreakStmt(s *ast.BreakStmt) (interface{}, error)       { return nil, nil }
func (r *Resolver) VisitContinueStmt(s *ast.ContinueStmt) (interface{}, error) { return nil, nil }

func (r *Resolver) VisitReturnStmt(s *ast.ReturnStmt) (interface{}, error) {
	if s.Value != nil {
		return nil, r.resolveExpr(s.Value)
	}
	return nil, nil
}

// --- expressions -------------------------------------------------------

func (r *Resolver) VisitLiteralExpr(e *ast.LiteralExpr) (interface{}, error) { return nil, nil }

func (r *Resolver) VisitObjectExpr(e *ast.ObjectExpr) (interface{}, error) {
	for _, v := range e.Values {
		if err := r.resolveExpr(v); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitArrayExpr(e *ast.ArrayExpr) (interface{}, error) {
	for _, v := range e.Elements {
		if err := r.resolveExpr(v); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitVariableExpr(e *ast.VariableExpr) (interface{}, error) {
	if len(r.scopes) > 0 {
		if defined, declared := r.scopes[len(r.scopes)-1][e.Name]; declared && !defined {
			return nil, errs.Spanned(errs.ErrVariableInitializerReference.New(), e.GetSpan())
		}
	}
	r.resolveLocal(e.ID, e.Name)
	return nil, nil
}

func (r *Resolver) VisitAssignmentExpr(e *ast.AssignmentExpr) (interface{}, error) {
	if err := r.resolveExpr(e.Value); err != nil {
		return nil, err
	}
	r.resolveLocal(e.ID, e.Name)
	return nil, nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.GroupingExpr) (interface{}, error) {
	return nil, r.resolveExpr(e.Inner)
}

func (r *Resolver) VisitUnaryExpr(e *ast.UnaryExpr) (interface{}, error) {
	return nil, r.resolveExpr(e.Operand)
}

func (r *Resolver) VisitBinaryExpr(e *ast.BinaryExpr) (interface{}, error) {
	if err := r.resolveExpr(e.Left); err != nil {
		return nil, err
	}
	return nil, r.resolveExpr(e.Right)
}

func (r *Resolver) VisitLogicalExpr(e *ast.LogicalExpr) (interface{}, error) {
	if err := r.resolveExpr(e.Left); err != nil {
		return nil, err
	}
	return nil, r.resolveExpr(e.Right)
}

func (r *Resolver) VisitFunctionExpr(e *ast.FunctionExpr) (interface{}, error) {
	r.beginScope()
	defer r.endScope()
	for _, param := range e.Parameters {
		r.declare(param)
		r.define(param)
	}
	for _, st := range e.Body {
		if err := r.resolveStmt(st); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitCallExpr(e *ast.CallExpr) (interface{}, error) {
	if err := r.resolveExpr(e.Callee); err != nil {
		return nil, err
	}
	for _, a := range e.Args {
		if err := r.resolveExpr(a); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitGetExpr(e *ast.GetExpr) (interface{}, error) {
	return nil, r.resolveExpr(e.Object)
}

func (r *Resolver) VisitSetExpr(e *ast.SetExpr) (interface{}, error) {
	if err := r.resolveExpr(e.Object); err != nil {
		return nil, err
	}
	return nil, r.resolveExpr(e.Value)
}

func (r *Resolver) VisitFieldPathExpr(e *ast.FieldPathExpr) (interface{}, error) {
	return nil, nil
}

func (r *Resolver) VisitSelectExpr(e *ast.SelectExpr) (interface{}, error) {
	return nil, r.resolveSelect(e.Query)
}

func (r *Resolver) VisitInsertExpr(e *ast.InsertExpr) (interface{}, error) {
	for _, v := range e.Command.Values {
		if err := r.resolveExpr(v); err != nil {
			return nil, err
		}
	}
	if e.Command.Select != nil {
		if err := r.resolveSelect(e.Command.Select); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Resolver) VisitUpdateExpr(e *ast.UpdateExpr) (interface{}, error) {
	for _, a := range e.Command.Assignments {
		if err := r.resolveExpr(a.Value); err != nil {
			return nil, err
		}
	}
	return nil, r.resolveExpr(e.Command.Where)
}

func (r *Resolver) VisitDeleteExpr(e *ast.DeleteExpr) (interface{}, error) {
	return nil, r.resolveExpr(e.Command.Where)
}

// resolveSelect recurses through a SqlSelect's expression-bearing fields so
// that script-level subexpressions ($-parameters, EvalScan sources, scalar
// subqueries) get the same locals-map treatment as top-level script code.
func (r *Resolver) resolveSelect(sel *ast.SqlSelect) error {
	if sel == nil {
		return nil
	}
	cores := append([]*ast.SqlSelectCore{sel.Core}, coresOf(sel.Compound)...)
	for _, core := range cores {
		if err := r.resolveSelectCore(core); err != nil {
			return err
		}
	}
	for _, term := range sel.OrderBy {
		if err := r.resolveExpr(term.Expr); err != nil {
			return err
		}
	}
	if err := r.resolveExpr(sel.Limit); err != nil {
		return err
	}
	return r.resolveExpr(sel.Offset)
}

func coresOf(parts []ast.SqlCompoundPart) []*ast.SqlSelectCore {
	out := make([]*ast.SqlSelectCore, len(parts))
	for i, p := range parts {
		out[i] = p.Core
	}
	return out
}

func (r *Resolver) resolveSelectCore(core *ast.SqlSelectCore) error {
	if core == nil {
		return nil
	}
	for _, proj := range core.Projection {
		if err := r.resolveExpr(proj.Expr); err != nil {
			return err
		}
	}
	if err := r.resolveFrom(core.From); err != nil {
		return err
	}
	if err := r.resolveExpr(core.Where); err != nil {
		return err
	}
	for _, g := range core.GroupBy {
		if err := r.resolveExpr(g); err != nil {
			return err
		}
	}
	return r.resolveExpr(core.Having)
}

func (r *Resolver) resolveFrom(from *ast.SqlFrom) error {
	if from == nil {
		return nil
	}
	switch from.Kind {
	case ast.FromExpr:
		return r.resolveExpr(from.Source)
	case ast.FromSubquery:
		return r.resolveSelect(from.Subquery)
	case ast.FromGroup:
		for _, g := range from.Group {
			if err := r.resolveFrom(g); err != nil {
				return err
			}
		}
	case ast.FromJoin:
		if err := r.resolveFrom(from.Left); err != nil {
			return err
		}
		if err := r.resolveFrom(from.Right); err != nil {
			return err
		}
		return r.resolveExpr(from.Constraint)
	}
	return nil
}
