package agg

import (
	"testing"

	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
	"github.com/stretchr/testify/require"
)

func TestAvgAggregatorMixedTypes(t *testing.T) {
	a := New("avg")
	a.Row(value.Num(10))
	a.Row(value.Str("not a number"))
	a.Row(value.Num(20))
	a.Row(value.Bool(true))

	require.Equal(t, value.Num(7.75), a.Finalize())
}

func TestAvgAggregatorEmpty(t *testing.T) {
	require.Equal(t, value.Num(0), New("avg").Finalize())
}

func TestSumAggregator(t *testing.T) {
	a := New("sum")
	a.Row(value.Num(10))
	a.Row(value.Str("skip"))
	a.Row(value.Num(20))
	require.Equal(t, value.Num(30), a.Finalize())
}

func TestCountAggregatorCountsEveryRow(t *testing.T) {
	a := New("count")
	a.Row(value.Num(10))
	a.Row(value.Undefined{})
	a.Row(value.Bool(true))
	require.Equal(t, value.Num(3), a.Finalize())
}

func TestMinMaxAggregatorsIgnoreNonNumbers(t *testing.T) {
	min := New("min")
	max := New("max")
	for _, v := range []value.Value{value.Num(30), value.Str("x"), value.Num(10), value.Num(20)} {
		min.Row(v)
		max.Row(v)
	}
	require.Equal(t, value.Num(10), min.Finalize())
	require.Equal(t, value.Num(30), max.Finalize())
}

func TestMinAggregatorEmptyIsUndefined(t *testing.T) {
	require.Equal(t, value.Undefined{}, New("min").Finalize())
}
