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

package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareOrdersNegativeNumbersCorrectly(t *testing.T) {
	require.True(t, Compare(Num(-5), Num(-3)) < 0)
	require.True(t, Compare(Num(-3), Num(-5)) > 0)
	require.True(t, Compare(Num(-1), Num(2)) < 0)
	require.Equal(t, 0, Compare(Num(-1), Num(-1)))
}

func TestCompareBool(t *testing.T) {
	require.True(t, Compare(Bool(false), Bool(true)) < 0)
	require.Equal(t, 0, Compare(Bool(true), Bool(true)))
}

func TestCompareStr(t *testing.T) {
	require.True(t, Compare(Str("a"), Str("b")) < 0)
}

func TestSortValuesOrdersNegativesCorrectly(t *testing.T) {
	vs := []Value{Num(2), Num(-1), Num(-5), Num(-3)}
	SortValues(vs)
	require.Equal(t, []Value{Num(-5), Num(-3), Num(-1), Num(2)}, vs)
}

func TestSortKeyStillEqualityConsistent(t *testing.T) {
	require.Equal(t, SortKey(Num(-5)), SortKey(Num(-5)))
	require.NotEqual(t, SortKey(Num(-5)), SortKey(Num(-3)))
}
