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

// Package agg implements §4.7's aggregators, one type per file mirroring
// original_source/lykiadb-server/src/libs/stdlib/math/{sum,avg,min,max,count}.rs.
// pkg/executor constructs a fresh Aggregator per group via New and feeds it
// every row's projection expression value, then reads Finalize once.
package agg

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// Aggregator accumulates one column's values across a group of rows.
type Aggregator interface {
	Row(v value.Value)
	Finalize() value.Value
}

// Names lists every aggregator recognized by the planner when deciding
// whether a call is an aggregate call (§4.5 step 2).
var Names = []string{"sum", "avg", "count", "min", "max"}

// New constructs a fresh accumulator for the named aggregator, or nil if
// name isn't one of Names.
func New(name string) Aggregator {
	switch name {
	case "sum":
		return &SumAggregator{}
	case "avg":
		return &AvgAggregator{}
	case "count":
		return &CountAggregator{}
	case "min":
		return &MinAggregator{}
	case "max":
		return &MaxAggregator{}
	default:
		return nil
	}
}

func asNumber(v value.Value) (float64, bool) {
	return value.AsNumber(v)
}
