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
	"io"
	"testing"

	"github.com/lykia-rs/lykiadb-sub002/pkg/interpreter"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/parser"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/resolver"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/scanner"
	"github.com/lykia-rs/lykiadb-sub002/pkg/stdlib"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
	"github.com/stretchr/testify/require"
)

// runScript scans, parses, resolves and interprets src against a fresh
// interpreter wired to a fresh Engine, returning the captured TestUtils.out
// values.
func runScript(t *testing.T, engine *Engine, src string) []value.Value {
	t.Helper()
	toks, err := scanner.New(src).ScanTokens()
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	locals, err := resolver.Resolve(prog, nil)
	require.NoError(t, err)

	it := interpreter.New(locals)
	it.SetSQLEngine(engine)
	stdlib.Install(it.Root(), it, io.Discard, true)

	_, err = it.Run(prog)
	require.NoError(t, err)
	return it.Output().Values()
}

func seedBooksCatalog(t *testing.T) *Engine {
	t.Helper()
	e := New()

	publishers := ast.SqlCollectionIdentifier{Name: "publishers"}
	categories := ast.SqlCollectionIdentifier{Name: "categories"}
	books := ast.SqlCollectionIdentifier{Name: "books"}

	pSpringer := value.NewObject()
	pSpringer.Set("id", value.Num(1))
	pSpringer.Set("name", value.Str("Springer"))
	e.Catalog.Insert(publishers, pSpringer)

	pOther := value.NewObject()
	pOther.Set("id", value.Num(2))
	pOther.Set("name", value.Str("O'Reilly"))
	e.Catalog.Insert(publishers, pOther)

	cMath := value.NewObject()
	cMath.Set("id", value.Num(1))
	cMath.Set("name", value.Str("Math"))
	e.Catalog.Insert(categories, cMath)

	b1 := value.NewObject()
	b1.Set("id", value.Num(1))
	b1.Set("title", value.Str("Category Theory"))
	b1.Set("category_id", value.Num(1))
	b1.Set("publisher_id", value.Num(1))
	e.Catalog.Insert(books, b1)

	b2 := value.NewObject()
	b2.Set("id", value.Num(2))
	b2.Set("title", value.Str("Learning Go"))
	b2.Set("category_id", value.Num(1))
	b2.Set("publisher_id", value.Num(2))
	e.Catalog.Insert(books, b2)

	return e
}

func TestExecuteSelectThreeWayJoinFilter(t *testing.T) {
	e := seedBooksCatalog(t)
	out := runScript(t, e, `
		TestUtils.out(SELECT * FROM books b
			INNER JOIN categories c ON b.category_id = c.id
			INNER JOIN publishers AS p ON b.publisher_id = p.id
			WHERE p.name = 'Springer');
	`)

	require.Len(t, out, 1)
	arr, ok := out[0].(*value.Array)
	require.True(t, ok)
	rows := arr.Elements()
	require.Len(t, rows, 1)

	row := rows[0].(*value.Object)
	title, ok := row.Get("title")
	require.True(t, ok)
	require.Equal(t, value.Str("Category Theory"), title)
}

func TestExecuteSelectAggregateAvg(t *testing.T) {
	e := New()
	scores := ast.SqlCollectionIdentifier{Name: "scores"}
	for _, v := range []value.Value{value.Num(10), value.Str("not a number"), value.Num(20), value.Bool(true)} {
		row := value.NewObject()
		row.Set("value", v)
		e.Catalog.Insert(scores, row)
	}

	out := runScript(t, e, `TestUtils.out(SELECT avg(value) FROM scores);`)
	require.Len(t, out, 1)
	arr := out[0].(*value.Array)
	rows := arr.Elements()
	require.Len(t, rows, 1)

	obj := rows[0].(*value.Object)
	avg, ok := obj.Get("avg(value)")
	require.True(t, ok)
	require.Equal(t, value.Num(7.75), avg)
}

func TestExecuteInsertThenSelect(t *testing.T) {
	e := New()
	out := runScript(t, e, `
		INSERT INTO widgets VALUES ({ name: "bolt", qty: 10 }, { name: "nut", qty: 5 });
		TestUtils.out(SELECT * FROM widgets WHERE qty > 6);
	`)
	require.Len(t, out, 1)
	arr := out[0].(*value.Array)
	rows := arr.Elements()
	require.Len(t, rows, 1)
	obj := rows[0].(*value.Object)
	name, _ := obj.Get("name")
	require.Equal(t, value.Str("bolt"), name)
}

func TestExecuteUpdateAndDelete(t *testing.T) {
	e := New()
	widgets := ast.SqlCollectionIdentifier{Name: "widgets"}
	w1 := value.NewObject()
	w1.Set("name", value.Str("bolt"))
	w1.Set("qty", value.Num(10))
	e.Catalog.Insert(widgets, w1)
	w2 := value.NewObject()
	w2.Set("name", value.Str("nut"))
	w2.Set("qty", value.Num(5))
	e.Catalog.Insert(widgets, w2)

	out := runScript(t, e, `
		UPDATE widgets SET qty = 0 WHERE name = 'bolt';
		DELETE FROM widgets WHERE qty = 0;
		TestUtils.out(SELECT * FROM widgets);
	`)
	require.Len(t, out, 1)
	arr := out[0].(*value.Array)
	rows := arr.Elements()
	require.Len(t, rows, 1)
	obj := rows[0].(*value.Object)
	name, _ := obj.Get("name")
	require.Equal(t, value.Str("nut"), name)
}

func TestExecuteSelectOrderByAscendingWithNegatives(t *testing.T) {
	e := New()
	readings := ast.SqlCollectionIdentifier{Name: "readings"}
	for _, v := range []value.Value{value.Num(2), value.Num(-1), value.Num(-5), value.Num(-3)} {
		row := value.NewObject()
		row.Set("delta", v)
		e.Catalog.Insert(readings, row)
	}

	out := runScript(t, e, `TestUtils.out(SELECT * FROM readings ORDER BY delta ASC);`)
	require.Len(t, out, 1)
	arr := out[0].(*value.Array)
	rows := arr.Elements()
	require.Len(t, rows, 4)

	got := make([]value.Value, len(rows))
	for i, r := range rows {
		v, _ := r.(*value.Object).Get("delta")
		got[i] = v
	}
	require.Equal(t, []value.Value{value.Num(-5), value.Num(-3), value.Num(-1), value.Num(2)}, got)
}
