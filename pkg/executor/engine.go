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
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/interpreter"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/planner"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Engine implements interpreter.SQLEngine (§4.6), owning the in-memory
// Catalog backing every Scan. It is installed into an Interpreter once via
// Interpreter.SetSQLEngine, the post-construction wiring step that keeps
// pkg/interpreter free of an import on pkg/planner/pkg/executor.
type Engine struct {
	Catalog *Catalog
}

// New allocates an Engine over a fresh, empty Catalog.
func New() *Engine {
	return &Engine{Catalog: NewCatalog()}
}

// ExecuteSelect plans q and drains it into a value.Array of row objects.
func (e *Engine) ExecuteSelect(it *interpreter.Interpreter, q *ast.SqlSelect) (value.Value, error) {
	plan, err := planner.BuildSelect(q)
	if err != nil {
		return nil, err
	}
	iter, err := run(it, e.Catalog, plan)
	if err != nil {
		return nil, err
	}
	rows, err := drain(iter)
	if err != nil {
		return nil, err
	}
	elements := make([]value.Value, len(rows))
	for i, row := range rows {
		elements[i] = row.ToObject()
	}
	return value.NewArray(elements), nil
}

// ExecuteInsert evaluates each VALUES object (or the SELECT source) and
// appends the resulting rows to the target collection, returning the
// number of rows inserted.
func (e *Engine) ExecuteInsert(it *interpreter.Interpreter, ins *ast.SqlInsert) (value.Value, error) {
	var toInsert []*value.Object

	switch {
	case ins.Values != nil:
		for _, v := range ins.Values {
			val, err := it.Eval(v)
			if err != nil {
				return nil, err
			}
			obj, ok := val.(*value.Object)
			if !ok {
				return nil, errs.Spanned(errs.ErrInvalidArgumentType.New("object"), v.GetSpan())
			}
			toInsert = append(toInsert, obj)
		}
	case ins.Select != nil:
		result, err := e.ExecuteSelect(it, ins.Select)
		if err != nil {
			return nil, err
		}
		for _, el := range result.(*value.Array).Elements() {
			if obj, ok := el.(*value.Object); ok {
				toInsert = append(toInsert, obj)
			}
		}
	}

	for _, obj := range toInsert {
		e.Catalog.Insert(ins.Collection, obj)
	}
	return value.Num(len(toInsert)), nil
}

// ExecuteUpdate applies SET assignments to every row of the target
// collection matching WHERE, returning the number of rows updated.
func (e *Engine) ExecuteUpdate(it *interpreter.Interpreter, upd *ast.SqlUpdate) (value.Value, error) {
	var evalErr error
	match := func(obj *value.Object) bool {
		if upd.Where == nil {
			return true
		}
		row := NewRow()
		row.SetSource(upd.Collection.EffectiveAlias(), obj)
		keep, err := evalTruthy(it, row, upd.Where)
		if err != nil {
			evalErr = err
			return false
		}
		return keep
	}

	apply := func(obj *value.Object) {
		row := NewRow()
		row.SetSource(upd.Collection.EffectiveAlias(), obj)
		it.PushRow(row)
		defer it.PopRow()
		for _, a := range upd.Assignments {
			v, err := it.Eval(a.Value)
			if err != nil {
				evalErr = err
				return
			}
			obj.Set(a.Field, v)
		}
	}

	n := e.Catalog.Update(upd.Collection, match, apply)
	if evalErr != nil {
		return nil, evalErr
	}
	return value.Num(n), nil
}

// ExecuteDelete removes every row of the target collection matching WHERE,
// returning the number of rows deleted.
func (e *Engine) ExecuteDelete(it *interpreter.Interpreter, del *ast.SqlDelete) (value.Value, error) {
	var evalErr error
	match := func(obj *value.Object) bool {
		if del.Where == nil {
			return true
		}
		row := NewRow()
		row.SetSource(del.Collection.EffectiveAlias(), obj)
		keep, err := evalTruthy(it, row, del.Where)
		if err != nil {
			evalErr = err
			return false
		}
		return keep
	}
	n := e.Catalog.Delete(del.Collection, match)
	if evalErr != nil {
		return nil, evalErr
	}
	return value.Num(n), nil
}
