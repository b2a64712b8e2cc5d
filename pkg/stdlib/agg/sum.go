package agg

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// SumAggregator mirrors math/sum.rs: non-numeric rows contribute 0.
type SumAggregator struct {
	accumulator float64
}

func (a *SumAggregator) Row(v value.Value) {
	if n, ok := asNumber(v); ok {
		a.accumulator += n
	}
}

func (a *SumAggregator) Finalize() value.Value { return value.Num(a.accumulator) }
