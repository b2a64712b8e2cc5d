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
	"testing"

	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/parser"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/scanner"
	"github.com/stretchr/testify/require"
	errors "gopkg.in/src-d/go-errors.v1"
)

// mustSelect scans and parses src (a single `<expr>;` statement) and returns
// its embedded *ast.SqlSelect, failing the test on any scan/parse error or if
// the statement isn't a bare SelectExpr.
func mustSelect(t *testing.T, src string) *ast.SqlSelect {
	t.Helper()
	toks, err := scanner.New(src).ScanTokens()
	require.NoError(t, err)
	prog, err := parser.Parse(toks)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	es, ok := prog.Statements[0].(*ast.ExpressionStmt)
	require.True(t, ok, "expected an ExpressionStmt, got %T", prog.Statements[0])
	sel, ok := es.Expression.(*ast.SelectExpr)
	require.True(t, ok, "expected a SelectExpr, got %T", es.Expression)
	return sel.Query
}

func requireKind(t *testing.T, err error, kind *errors.Kind) {
	t.Helper()
	require.Error(t, err)
	cur := err
	for {
		if ws, ok := cur.(*errs.WithSpan); ok {
			cur = ws.Err
			continue
		}
		break
	}
	kerr, ok := cur.(*errors.Error)
	require.True(t, ok, "expected a *errors.Error, got %T (%v)", cur, err)
	require.True(t, kind.Is(kerr), "expected kind %v, got %v", kind, kerr)
}

func TestBuildSelectRejectsSelectAllWithAggregation(t *testing.T) {
	q := mustSelect(t, "SELECT * FROM t GROUP BY x HAVING avg(x) > 1;")
	_, err := BuildSelect(q)
	requireKind(t, err, errs.ErrSelectAllWithAggregationNotAllowed)
}

func TestBuildSelectRejectsNestedAggregation(t *testing.T) {
	q := mustSelect(t, "SELECT avg(avg(x)) FROM t;")
	_, err := BuildSelect(q)
	requireKind(t, err, errs.ErrNestedAggregationNotAllowed)
}

func TestBuildSelectRejectsHavingWithoutAggregation(t *testing.T) {
	q := mustSelect(t, "SELECT x FROM t GROUP BY x HAVING x > 1;")
	_, err := BuildSelect(q)
	requireKind(t, err, errs.ErrHavingWithoutAggregationNotAllowed)
}

func TestBuildSelectRejectsDuplicateAlias(t *testing.T) {
	q := mustSelect(t, "SELECT * FROM t AS a INNER JOIN u AS a ON a.id = a.id;")
	_, err := BuildSelect(q)
	requireKind(t, err, errs.ErrDuplicateObjectInScope)
}

func TestBuildSelectThreeWayJoinPlanShape(t *testing.T) {
	q := mustSelect(t, `
		SELECT * FROM books b
		INNER JOIN categories c ON b.category_id = c.id
		INNER JOIN publishers AS p ON b.publisher_id = p.id
		WHERE p.name = 'Springer';
	`)
	node, err := BuildSelect(q)
	require.NoError(t, err)

	const want = "Filter(p.name = 'Springer') → Join(Inner, b.publisher_id = p.id)[Join(Inner, b.category_id = c.id)[Scan(books as b), Scan(categories as c)], Scan(publishers as p)]"
	require.Equal(t, want, node.String())
}
