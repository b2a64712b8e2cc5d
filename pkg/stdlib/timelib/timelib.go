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

// Package timelib mirrors original_source/.../libs/stdlib/time.rs:
// `time.clock()` returns the current Unix time in fractional seconds.
package timelib

import (
	"time"

	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Functions returns the `time` namespace's members.
func Functions() map[string]*value.Callable {
	arity := 0
	return map[string]*value.Callable{
		"clock": {
			Arity: &arity,
			Name:  "time.clock",
			Native: func(_ interface{}, _ []value.Value) (value.Value, error) {
				return value.Num(float64(time.Now().UnixNano()) / 1e9), nil
			},
		},
	}
}
