package agg

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// AvgAggregator mirrors math/avg.rs: the row count includes non-numeric
// rows (they just don't add to the accumulator), giving the documented
// `(10 + 20 + 1) / 4 == 7.75` behavior for a mixed-type group (§8).
type AvgAggregator struct {
	accumulator float64
	items       int
}

func (a *AvgAggregator) Row(v value.Value) {
	if n, ok := asNumber(v); ok {
		a.accumulator += n
	}
	a.items++
}

func (a *AvgAggregator) Finalize() value.Value {
	if a.items == 0 {
		return value.Num(0)
	}
	return value.Num(a.accumulator / float64(a.items))
}
