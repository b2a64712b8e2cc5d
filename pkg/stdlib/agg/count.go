package agg

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// CountAggregator mirrors math/count.rs: it increments unconditionally, so
// it counts every row, including ones whose projection expression is
// Undefined (the decided resolution to the Open Question in §9).
type CountAggregator struct {
	count int
}

func (a *CountAggregator) Row(value.Value) { a.count++ }

func (a *CountAggregator) Finalize() value.Value { return value.Num(float64(a.count)) }
