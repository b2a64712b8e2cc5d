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

// Package arr mirrors original_source/.../libs/stdlib/arr.rs: `arr.new(n)`
// allocates an n-element array pre-filled with the index of each slot.
package arr

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Functions returns the `arr` namespace's members.
func Functions() map[string]*value.Callable {
	arity := 1
	return map[string]*value.Callable{
		"new": {
			Arity: &arity,
			Name:  "arr.new",
			Native: func(_ interface{}, args []value.Value) (value.Value, error) {
				n, ok := value.AsNumber(args[0])
				if !ok || n < 0 || n != float64(int64(n)) {
					return nil, errs.ErrInvalidArgumentType.New("non-negative integer")
				}
				size := int(n)
				elems := make([]value.Value, size)
				for i := range elems {
					elems[i] = value.Num(i)
				}
				return value.NewArray(elems), nil
			},
		},
	}
}
