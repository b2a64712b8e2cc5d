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

// Package iolib mirrors original_source/.../libs/stdlib/out.rs's
// `io.print(...)`, generalized to variadic arity like the original's loop
// over args.
package iolib

import (
	"fmt"
	"io"

	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

// Functions returns the `io` namespace's members. w is where printed text
// is written (the session's stdout by default; tests can substitute a
// buffer).
func Functions(w io.Writer) map[string]*value.Callable {
	return map[string]*value.Callable{
		"print": {
			Arity: nil, // variadic
			Name:  "io.print",
			Native: func(_ interface{}, args []value.Value) (value.Value, error) {
				for i, a := range args {
					if i > 0 {
						fmt.Fprint(w, " ")
					}
					fmt.Fprint(w, value.Stringify(a))
				}
				fmt.Fprintln(w)
				return value.Undefined{}, nil
			},
		},
	}
}
