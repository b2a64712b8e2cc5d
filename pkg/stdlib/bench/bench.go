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

// Package bench mirrors original_source/.../libs/stdlib/bench.rs: a single
// deliberately unmemoized, CPU-bound native call scripts can benchmark
// native-to-script call overhead against.
package bench

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Functions returns the `bench` namespace's members, keyed by bare name.
func Functions() map[string]*value.Callable {
	arity := 1
	return map[string]*value.Callable{
		"fib": {
			Arity: &arity,
			Name:  "bench.fib",
			Native: func(_ interface{}, args []value.Value) (value.Value, error) {
				n, ok := value.AsNumber(args[0])
				if !ok {
					return nil, errs.ErrInvalidArgumentType.New("number")
				}
				return value.Num(fib(n)), nil
			},
		},
	}
}

// fib mirrors bench.rs's nt_fib/_calculate: plain unmemoized double
// recursion, deliberately, since the point of this call is to be slow.
func fib(n float64) float64 {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2)
}
