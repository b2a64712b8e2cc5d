package agg

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// MinAggregator mirrors math/min.rs: non-numeric rows are ignored; an
// all-non-numeric (or empty) group finalizes to Undefined.
type MinAggregator struct {
	value *float64
}

func (a *MinAggregator) Row(v value.Value) {
	n, ok := asNumber(v)
	if !ok {
		return
	}
	if a.value == nil || n < *a.value {
		a.value = &n
	}
}

func (a *MinAggregator) Finalize() value.Value {
	if a.value == nil {
		return value.Undefined{}
	}
	return value.Num(*a.value)
}
