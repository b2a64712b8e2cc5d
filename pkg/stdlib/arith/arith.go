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

// Package arith mirrors original_source/.../libs/stdlib/math/modulo.rs,
// generalized out of the math/aggregator namespace into its own module
// since mod(a, b) is a scalar function, not an aggregator.
package arith

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Functions returns the `arith` namespace's members.
func Functions() map[string]*value.Callable {
	arity := 2
	return map[string]*value.Callable{
		"mod": {
			Arity: &arity,
			Name:  "arith.mod",
			Native: func(_ interface{}, args []value.Value) (value.Value, error) {
				a, aok := value.AsNumber(args[0])
				if !aok {
					return nil, errs.ErrInvalidArgumentType.New("number")
				}
				b, bok := value.AsNumber(args[1])
				if !bok || b == 0 {
					return nil, errs.ErrInvalidArgumentType.New("non-zero number")
				}
				return value.Num(a - b*float64(int64(a/b))), nil
			},
		},
	}
}
