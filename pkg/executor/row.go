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

// Package executor implements §4.6: running a pkg/planner.Node plan to a
// lazy row iterator, and §4.7's wiring of the five aggregators into
// Aggregate nodes.
package executor

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// Row is the executor's unit pulled through the pipeline, an "execution
// row": a short ordered map from column name to value.
//
// Before Projection, a Row's keys are FROM-tree aliases and its values are
// whole per-source rows (usually *value.Object for Scan, a scalar for
// EvalScan) — "per-row environments {alias → object}" per §4.6. After
// Projection, a Row's keys are output column names and its values are the
// projected scalars/objects. Both shapes satisfy interpreter.RowLookup
// identically: VisitFieldPathExpr looks up Head here, then walks any Tail
// through the returned *value.Object — so a post-projection bare column
// reference (Head with no Tail) and a pre-projection `alias.field`
// reference (Head plus one Tail segment) resolve through the same method.
type Row struct {
	columns map[string]value.Value
	order   []string
}

// NewRow allocates an empty Row.
func NewRow() *Row {
	return &Row{columns: make(map[string]value.Value)}
}

// Set writes a column, appending to the insertion order on first write.
func (r *Row) Set(name string, v value.Value) {
	if _, exists := r.columns[name]; !exists {
		r.order = append(r.order, name)
	}
	r.columns[name] = v
}

// Get implements interpreter.RowLookup.
func (r *Row) Get(name string) (value.Value, bool) {
	v, ok := r.columns[name]
	return v, ok
}

// Columns returns column names in insertion order.
func (r *Row) Columns() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SetSource binds alias to v, and — when v is an object — also flattens its
// fields as top-level columns. This lets a bare column reference (a
// FieldPathExpr with no Tail) resolve in an unqualified single-table query
// the same way `alias.field` does, at the cost of silent last-writer-wins
// shadowing across aliases in an ambiguous multi-table query — an accepted
// simplification of this sketch executor (§4.6).
func (r *Row) SetSource(alias string, v value.Value) {
	r.Set(alias, v)
	if obj, ok := v.(*value.Object); ok {
		for _, name := range obj.Names() {
			fv, _ := obj.Get(name)
			r.Set(name, fv)
		}
	}
}

// Clone returns a shallow copy (values are shared, the column map/order is
// not), safe to mutate independently of the original.
func (r *Row) Clone() *Row {
	out := NewRow()
	for _, name := range r.order {
		out.Set(name, r.columns[name])
	}
	return out
}

// ToObject flattens a Row into a *value.Object in column order, the shape
// a fully-executed SELECT's result rows take (§4.6).
func (r *Row) ToObject() *value.Object {
	obj := value.NewObject()
	for _, name := range r.order {
		obj.Set(name, r.columns[name])
	}
	return obj
}
